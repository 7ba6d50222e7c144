package output

import (
	"path/filepath"
	"strings"

	"scriptsync/internal/textutil"
)

// Names derives output file names from a title and source language code.
type Names struct {
	Dir      string
	Title    string
	Language string
}

func (n Names) prefix() string {
	title := textutil.SanitizeFileName(n.Title)
	if title == "" {
		title = "untitled"
	}
	lang := textutil.SanitizeToken(n.Language)
	return title + "_" + lang
}

func (n Names) join(name string) string {
	if n.Dir == "" {
		return name
	}
	return filepath.Join(n.Dir, name)
}

// Source is "{title}_{lang}_source.srt".
func (n Names) Source() string {
	return n.join(n.prefix() + "_source.srt")
}

// Translation is "{title}_{lang}_{translation}_translate.srt".
func (n Names) Translation(translation string) string {
	return n.join(n.prefix() + "_" + textutil.SanitizeToken(translation) + "_translate.srt")
}

// Merged is "{title}_{lang}_merge.srt".
func (n Names) Merged() string {
	return n.join(n.prefix() + "_merge.srt")
}

// Timeline is "{title}_{lang}.fcpxml".
func (n Names) Timeline() string {
	return n.join(n.prefix() + ".fcpxml")
}

// Diagnostics is "{title}_{lang}_{job}.alignment.json".
func (n Names) Diagnostics(jobID string) string {
	job := strings.TrimSpace(jobID)
	if len(job) > 8 {
		job = job[:8]
	}
	if job == "" {
		return n.join(n.prefix() + ".alignment.json")
	}
	return n.join(n.prefix() + "_" + job + ".alignment.json")
}
