package timeline

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"scriptsync/internal/subtitle"
)

// ErrNoEntries marks a source track with nothing to export.
var ErrNoEntries = errors.New("timeline needs at least one source entry")

// Style is the look of one lane's titles. Colors are "r g b a" floats.
type Style struct {
	Font        string
	FontSize    int
	FontColor   string
	StrokeColor string
	StrokeWidth int
	Bold        bool
	Italic      bool
	Alignment   string
	LineSpacing int
	PositionY   int
}

// DefaultSourceStyle is the style of lane 0.
func DefaultSourceStyle() Style {
	return Style{Font: "Arial", FontSize: 50, FontColor: "1 1 1 1", StrokeColor: "1 1 1 1", Alignment: "center", PositionY: -45}
}

// DefaultTranslationStyle is the style of lanes 1..N.
func DefaultTranslationStyle() Style {
	s := DefaultSourceStyle()
	s.PositionY = -38
	return s
}

// Options configures the export.
type Options struct {
	ProjectName string
	FPS         int
	Width       int
	Height      int
	// FormatName defaults to FFVideoFormat<height>p<fps>.
	FormatName string
	Seamless   bool
	// LeadIn is subtracted from each start in seamless mode, in seconds.
	LeadIn           float64
	SourceStyle      Style
	TranslationStyle Style
}

// DefaultOptions returns a 1080p30 export with a 34ms seamless lead-in.
func DefaultOptions() Options {
	return Options{
		FPS:              30,
		Width:            1920,
		Height:           1080,
		LeadIn:           0.034,
		SourceStyle:      DefaultSourceStyle(),
		TranslationStyle: DefaultTranslationStyle(),
	}
}

const (
	formatID = "r0"
	effectID = "r1"
	// basicTitleUID is the Final Cut Pro Basic Title generator.
	basicTitleUID = ".../Titles.localized/Bumper:Opener.localized/Basic Title.localized/Basic Title.moti"
	gapStart      = "3600/1s"
)

// Frames converts seconds to the nearest whole frame.
func Frames(seconds float64, fps int) int64 {
	if seconds <= 0 {
		return 0
	}
	return int64(math.Round(seconds * float64(fps)))
}

// RationalTime renders a frame count as FCPXML seconds, e.g. "1001/30s".
func RationalTime(frames int64, fps int) string {
	r := big.NewRat(frames, int64(fps))
	return r.Num().String() + "/" + r.Denom().String() + "s"
}

type slot struct {
	start, duration int64
}

// Build lays out the source entries on the spine and nests each usable
// translation entry under its source title.
func Build(tracks *subtitle.Tracks, opts Options) (*FCPXML, error) {
	if opts.FPS <= 0 {
		return nil, fmt.Errorf("frame rate must be positive, got %d", opts.FPS)
	}
	source := tracks.Source.Entries
	if len(source) == 0 {
		return nil, ErrNoEntries
	}
	slots := layoutSlots(source, opts)

	doc := newDocument(opts, RationalTime(Frames(source[len(source)-1].End, opts.FPS), opts.FPS))
	spine := &doc.Library.Event.Project.Sequence.Spine
	titles := make([]*Title, len(source))
	styleIndex := 0
	var cursor int64
	for i, e := range source {
		sl := slots[i]
		if !opts.Seamless && sl.start > cursor {
			spine.Items = append(spine.Items, &Gap{
				Name:     "Gap",
				Start:    gapStart,
				Offset:   RationalTime(cursor, opts.FPS),
				Duration: RationalTime(sl.start-cursor, opts.FPS),
			})
		}
		title := newTitle(e.Text, 0, sl, opts.FPS, styleIndex, opts.SourceStyle)
		styleIndex++
		spine.Items = append(spine.Items, title)
		titles[i] = title
		cursor = sl.start + sl.duration
	}

	for lane, track := range tracks.Translations {
		for i, e := range track.Entries {
			if i >= len(titles) {
				break
			}
			child := newTitle(e.Text, lane+1, slots[i], opts.FPS, styleIndex, opts.TranslationStyle)
			styleIndex++
			titles[i].Lanes = append(titles[i].Lanes, child)
		}
	}
	return doc, nil
}

// layoutSlots quantizes every entry. Titles never start before the previous
// one ends and last at least one frame.
func layoutSlots(entries []subtitle.Entry, opts Options) []slot {
	starts := make([]int64, len(entries))
	for i, e := range entries {
		start := e.Start
		if opts.Seamless && start > opts.LeadIn {
			start -= opts.LeadIn
		}
		starts[i] = Frames(start, opts.FPS)
	}

	slots := make([]slot, len(entries))
	var cursor int64
	for i, e := range entries {
		start := max(starts[i], cursor)
		var end int64
		if opts.Seamless && i < len(entries)-1 {
			end = starts[i+1]
		} else {
			end = Frames(e.End, opts.FPS)
		}
		duration := max(end-start, 1)
		slots[i] = slot{start: start, duration: duration}
		cursor = start + duration
	}
	return slots
}

func newDocument(opts Options, duration string) *FCPXML {
	formatName := opts.FormatName
	if formatName == "" {
		formatName = fmt.Sprintf("FFVideoFormat%dp%d", opts.Height, opts.FPS)
	}
	return &FCPXML{
		Version: "1.9",
		Resources: Resources{
			Format: Format{
				ID:            formatID,
				Name:          formatName,
				FrameDuration: RationalTime(1, opts.FPS),
				Width:         opts.Width,
				Height:        opts.Height,
			},
			Effect: Effect{ID: effectID, Name: "Basic Title", UID: basicTitleUID},
		},
		Library: Library{Event: Event{
			Name: opts.ProjectName,
			Project: Project{
				Name: opts.ProjectName,
				Sequence: Sequence{
					Format:   formatID,
					Duration: duration,
					TCStart:  "0/1s",
					TCFormat: "NDF",
				},
			},
		}},
	}
}

func newTitle(text string, lane int, sl slot, fps, styleIndex int, style Style) *Title {
	id := fmt.Sprintf("ts%d", styleIndex)
	start := RationalTime(sl.start, fps)
	return &Title{
		Name:     "Subtitle",
		Lane:     lane,
		Ref:      effectID,
		Enabled:  "1",
		Start:    start,
		Offset:   start,
		Duration: RationalTime(sl.duration, fps),
		Text: TitleText{
			RollUpHeight: "0",
			Style:        TextStyleRef{Ref: id, Value: strings.ReplaceAll(strings.TrimSpace(text), "@", "\n")},
		},
		StyleDef: TextStyleDef{ID: id, Style: newTextStyle(style)},
		Conform:  AdjustConform{Type: "fit"},
		Transform: AdjustTransform{
			Scale:    "1 1",
			Position: fmt.Sprintf("0 %d", style.PositionY),
			Anchor:   "0 0",
		},
	}
}

func newTextStyle(s Style) TextStyle {
	return TextStyle{
		Alignment:   s.Alignment,
		FontColor:   s.FontColor,
		Bold:        flag(s.Bold),
		StrokeColor: s.StrokeColor,
		Font:        s.Font,
		FontSize:    s.FontSize,
		Italic:      flag(s.Italic),
		StrokeWidth: s.StrokeWidth,
		LineSpacing: s.LineSpacing,
	}
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
