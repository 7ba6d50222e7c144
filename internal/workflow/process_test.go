package workflow

import (
	"errors"
	"strings"
	"testing"

	"scriptsync/internal/document"
	"scriptsync/internal/output"
	"scriptsync/internal/subtitle"
	"scriptsync/internal/transcript"
)

func TestProcessDroppedLetter(t *testing.T) {
	job := Job{
		Title: "greeting",
		Source: document.New("greeting", "en", []document.Paragraph{
			{Kind: document.KindText, Content: "hello world"},
		}),
		Utterances: []transcript.Utterance{{
			AudioEnd: 1.1,
			Words: []transcript.Word{
				transcript.TimedWord("helo", 0.0, 0.5),
				transcript.TimedWord("world", 0.6, 1.1),
			},
		}},
	}

	art, err := Process(job, DefaultSettings())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	got := subtitle.RenderSRT(art.Tracks.Source.Entries)
	want := "1\n00:00:00,000 --> 00:00:01,100\nhello world\n\n"
	if got != want {
		t.Fatalf("srt = %q, want %q", got, want)
	}
	if art.Timeline != nil {
		t.Fatal("timeline built without being requested")
	}
}

func TestProcessUnspokenTrailingParagraph(t *testing.T) {
	job := Job{
		Source: document.New("s", "en", []document.Paragraph{
			{Kind: document.KindText, Content: "Hello world."},
			{Kind: document.KindText, Content: "Never spoken aloud."},
		}),
		Utterances: []transcript.Utterance{{
			AudioEnd: 1.1,
			Words: []transcript.Word{
				transcript.TimedWord("hello", 0.0, 0.5),
				transcript.TimedWord("world", 0.6, 1.1),
			},
		}},
	}

	art, err := Process(job, DefaultSettings())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	entries := art.Tracks.Source.Entries
	if len(entries) != 2 {
		t.Fatalf("entries = %+v", entries)
	}
	last := entries[1]
	if last.End != 1.1 || last.Start < entries[0].End || last.Start > last.End {
		t.Fatalf("unspoken entry = %+v after %+v", last, entries[0])
	}
	if art.Timing.InsertRuns == 0 {
		t.Fatal("expected an insert run")
	}
}

func TestProcessRejectsEmptySource(t *testing.T) {
	_, err := Process(Job{Source: document.New("s", "en", nil)}, DefaultSettings())
	if !errors.Is(err, ErrInput) {
		t.Fatalf("error = %v, want ErrInput", err)
	}
}

func TestProcessNoRecognizedWords(t *testing.T) {
	job := Job{Source: document.New("s", "en", []document.Paragraph{{Kind: document.KindText, Content: "hi"}})}
	_, err := Process(job, DefaultSettings())
	if !errors.Is(err, ErrAlignment) {
		t.Fatalf("error = %v, want ErrAlignment", err)
	}
	if ErrorKind(err) != "input" {
		t.Fatalf("kind = %q, want input", ErrorKind(err))
	}
}

func TestRenderNamesAndTimeline(t *testing.T) {
	job := Job{
		Title: "ep",
		Source: document.New("ep", "en", []document.Paragraph{
			{Kind: document.KindText, Content: "one two"},
			{Kind: document.KindText, Content: "three four"},
		}),
		Translations: []subtitle.Translation{{
			Name: "fr",
			Document: document.New("fr", "fr", []document.Paragraph{
				{Kind: document.KindText, Content: "un deux"},
				{Kind: document.KindText, Content: "trois quatre"},
			}),
		}},
		Utterances: []transcript.Utterance{{
			AudioEnd: 2.0,
			Words: []transcript.Word{
				transcript.TimedWord("one", 0.0, 0.4),
				transcript.TimedWord("two", 0.5, 0.9),
				transcript.TimedWord("three", 1.2, 1.5),
				transcript.TimedWord("four", 1.6, 2.0),
			},
		}},
	}
	s := DefaultSettings()
	s.ExportTimeline = true
	s.Timeline.Seamless = true

	art, err := Process(job, s)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	names := output.Names{Dir: "out", Title: "ep", Language: "en"}
	files, err := Render("job-1", art, Targets{Names: names, DiagnosticsDir: "diag"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := []string{names.Source(), names.Translation("fr"), names.Merged(), names.Timeline()}
	if len(files) != len(want)+1 {
		t.Fatalf("files = %d, want %d", len(files), len(want)+1)
	}
	for i, path := range want {
		if files[i].Path != path {
			t.Fatalf("file %d = %s, want %s", i, files[i].Path, path)
		}
	}
	if !strings.HasPrefix(files[len(files)-1].Path, "diag") {
		t.Fatalf("diagnostics path = %s", files[len(files)-1].Path)
	}
	if !strings.Contains(string(files[2].Data), "one two\nun deux") {
		t.Fatalf("merged srt:\n%s", files[2].Data)
	}
	if !strings.Contains(string(files[3].Data), "trois quatre") {
		t.Fatalf("timeline lacks translation lane:\n%s", files[3].Data)
	}
}
