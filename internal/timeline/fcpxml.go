package timeline

import (
	"encoding/xml"
	"fmt"
	"io"
)

// FCPXML is the document root.
type FCPXML struct {
	XMLName   xml.Name  `xml:"fcpxml"`
	Version   string    `xml:"version,attr"`
	Resources Resources `xml:"resources"`
	Library   Library   `xml:"library"`
}

type Resources struct {
	Format Format `xml:"format"`
	Effect Effect `xml:"effect"`
}

type Format struct {
	ID            string `xml:"id,attr"`
	Name          string `xml:"name,attr"`
	FrameDuration string `xml:"frameDuration,attr"`
	Width         int    `xml:"width,attr"`
	Height        int    `xml:"height,attr"`
}

type Effect struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
	UID  string `xml:"uid,attr"`
}

type Library struct {
	Event Event `xml:"event"`
}

type Event struct {
	Name    string  `xml:"name,attr"`
	Project Project `xml:"project"`
}

type Project struct {
	Name     string   `xml:"name,attr"`
	Sequence Sequence `xml:"sequence"`
}

type Sequence struct {
	Format   string `xml:"format,attr"`
	Duration string `xml:"duration,attr"`
	TCStart  string `xml:"tcStart,attr"`
	TCFormat string `xml:"tcFormat,attr"`
	Spine    Spine  `xml:"spine"`
}

// Spine holds *Gap and *Title elements in playback order.
type Spine struct {
	Items []SpineItem
}

// SpineItem is an element laid out on the primary storyline.
type SpineItem interface {
	spineItem()
}

type Gap struct {
	XMLName  xml.Name `xml:"gap"`
	Name     string   `xml:"name,attr"`
	Start    string   `xml:"start,attr"`
	Offset   string   `xml:"offset,attr"`
	Duration string   `xml:"duration,attr"`
}

// Title is one caption. Lane is 0 on the spine; connected titles carry 1..N.
type Title struct {
	XMLName   xml.Name        `xml:"title"`
	Name      string          `xml:"name,attr"`
	Lane      int             `xml:"lane,attr,omitempty"`
	Ref       string          `xml:"ref,attr"`
	Enabled   string          `xml:"enabled,attr"`
	Start     string          `xml:"start,attr"`
	Offset    string          `xml:"offset,attr"`
	Duration  string          `xml:"duration,attr"`
	Text      TitleText       `xml:"text"`
	StyleDef  TextStyleDef    `xml:"text-style-def"`
	Conform   AdjustConform   `xml:"adjust-conform"`
	Transform AdjustTransform `xml:"adjust-transform"`
	Lanes     []*Title        `xml:"title"`
}

func (*Gap) spineItem()   {}
func (*Title) spineItem() {}

type TitleText struct {
	RollUpHeight string       `xml:"roll-up-height,attr"`
	Style        TextStyleRef `xml:"text-style"`
}

type TextStyleRef struct {
	Ref   string `xml:"ref,attr"`
	Value string `xml:",chardata"`
}

type TextStyleDef struct {
	ID    string    `xml:"id,attr"`
	Style TextStyle `xml:"text-style"`
}

type TextStyle struct {
	Alignment   string `xml:"alignment,attr"`
	FontColor   string `xml:"fontColor,attr"`
	Bold        string `xml:"bold,attr"`
	StrokeColor string `xml:"strokeColor,attr"`
	Font        string `xml:"font,attr"`
	FontSize    int    `xml:"fontSize,attr"`
	Italic      string `xml:"italic,attr"`
	StrokeWidth int    `xml:"strokeWidth,attr"`
	LineSpacing int    `xml:"lineSpacing,attr"`
}

type AdjustConform struct {
	Type string `xml:"type,attr"`
}

type AdjustTransform struct {
	Scale    string `xml:"scale,attr"`
	Position string `xml:"position,attr"`
	Anchor   string `xml:"anchor,attr"`
}

// Titles returns the spine titles in order.
func (f *FCPXML) Titles() []*Title {
	var titles []*Title
	for _, item := range f.Library.Event.Project.Sequence.Spine.Items {
		if t, ok := item.(*Title); ok {
			titles = append(titles, t)
		}
	}
	return titles
}

// Encode writes the document with an XML declaration and tab indentation.
func (f *FCPXML) Encode(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header+"<!DOCTYPE fcpxml>\n"); err != nil {
		return fmt.Errorf("write fcpxml header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "\t")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode fcpxml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("flush fcpxml: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}
