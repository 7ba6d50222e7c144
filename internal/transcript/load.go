package transcript

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Format names a recognizer output layout.
type Format string

const (
	FormatAuto     Format = "auto"
	FormatNative   Format = "native"
	FormatGladia   Format = "gladia"
	FormatWhisperX Format = "whisperx"
	FormatAWS      Format = "aws"
)

// ErrUnknownFormat marks JSON that matches no supported layout.
var ErrUnknownFormat = errors.New("unrecognized transcript format")

// ParseFormat validates a format name. Empty means FormatAuto.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatNative, FormatGladia, FormatWhisperX, FormatAWS:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Load reads a transcript file.
func Load(path string, format Format) ([]Utterance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	utterances, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return utterances, nil
}

// Parse decodes transcript JSON. FormatAuto sniffs the layout from the
// top-level shape.
func Parse(data []byte, format Format) ([]Utterance, error) {
	if format == "" || format == FormatAuto {
		detected, err := Detect(data)
		if err != nil {
			return nil, err
		}
		format = detected
	}
	switch format {
	case FormatNative:
		return parseNative(data)
	case FormatGladia:
		return parseGladia(data)
	case FormatWhisperX:
		return parseWhisperX(data)
	case FormatAWS:
		return parseAWS(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Detect guesses the format: a top-level array is native utterances,
// "segments" is WhisperX, "results" is AWS Transcribe, and "result" or
// "transcription" is Gladia.
func Detect(data []byte) (Format, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return FormatNative, nil
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return "", fmt.Errorf("decode transcript json: %w", err)
	}
	switch {
	case probe["segments"] != nil:
		return FormatWhisperX, nil
	case probe["results"] != nil:
		return FormatAWS, nil
	case probe["result"] != nil, probe["transcription"] != nil:
		return FormatGladia, nil
	case probe["utterances"] != nil:
		return FormatNative, nil
	}
	return "", ErrUnknownFormat
}

type nativeWord struct {
	Word       string   `json:"word"`
	Start      *float64 `json:"start"`
	End        *float64 `json:"end"`
	Score      *float64 `json:"score"`
	Confidence *float64 `json:"confidence"`
}

func (w nativeWord) word() Word {
	conf := w.Confidence
	if conf == nil {
		conf = w.Score
	}
	return Word{Text: strings.TrimSpace(w.Word), Start: w.Start, End: w.End, Confidence: conf}
}

type nativeUtterance struct {
	Text       string       `json:"text"`
	AudioStart float64      `json:"audio_start"`
	AudioEnd   float64      `json:"audio_end"`
	Words      []nativeWord `json:"words"`
}

func parseNative(data []byte) ([]Utterance, error) {
	var list []nativeUtterance
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapper struct {
			Utterances []nativeUtterance `json:"utterances"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("decode utterances: %w", err)
		}
		list = wrapper.Utterances
	} else if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, fmt.Errorf("decode utterances: %w", err)
	}
	out := make([]Utterance, 0, len(list))
	for _, u := range list {
		utt := Utterance{Text: u.Text, AudioStart: u.AudioStart, AudioEnd: u.AudioEnd, Words: make([]Word, 0, len(u.Words))}
		for _, w := range u.Words {
			utt.Words = append(utt.Words, w.word())
		}
		out = append(out, utt)
	}
	return out, nil
}

type gladiaUtterance struct {
	Text  string       `json:"text"`
	Start float64      `json:"start"`
	End   float64      `json:"end"`
	Words []nativeWord `json:"words"`
}

type gladiaTranscription struct {
	Utterances []gladiaUtterance `json:"utterances"`
}

func parseGladia(data []byte) ([]Utterance, error) {
	var payload struct {
		Result *struct {
			Transcription gladiaTranscription `json:"transcription"`
		} `json:"result"`
		Transcription *gladiaTranscription `json:"transcription"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode gladia transcript: %w", err)
	}
	var tr gladiaTranscription
	switch {
	case payload.Result != nil:
		tr = payload.Result.Transcription
	case payload.Transcription != nil:
		tr = *payload.Transcription
	}
	out := make([]Utterance, 0, len(tr.Utterances))
	for _, u := range tr.Utterances {
		utt := Utterance{Text: u.Text, AudioStart: u.Start, AudioEnd: u.End, Words: make([]Word, 0, len(u.Words))}
		for _, w := range u.Words {
			utt.Words = append(utt.Words, w.word())
		}
		out = append(out, utt)
	}
	return out, nil
}

type whisperXWord struct {
	Word  string   `json:"word"`
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
	Score *float64 `json:"score"`
}

type whisperXSegment struct {
	Text  string         `json:"text"`
	Start float64        `json:"start"`
	End   float64        `json:"end"`
	Words []whisperXWord `json:"words"`
}

func parseWhisperX(data []byte) ([]Utterance, error) {
	var payload struct {
		Segments []whisperXSegment `json:"segments"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse whisperx json: %w", err)
	}
	out := make([]Utterance, 0, len(payload.Segments))
	for _, seg := range payload.Segments {
		utt := Utterance{Text: strings.TrimSpace(seg.Text), AudioStart: seg.Start, AudioEnd: seg.End, Words: make([]Word, 0, len(seg.Words))}
		for _, w := range seg.Words {
			utt.Words = append(utt.Words, Word{Text: strings.TrimSpace(w.Word), Start: w.Start, End: w.End, Confidence: w.Score})
		}
		out = append(out, utt)
	}
	return out, nil
}

type awsAlternative struct {
	Confidence string `json:"confidence"`
	Content    string `json:"content"`
}

type awsItem struct {
	StartTime    string           `json:"start_time,omitempty"`
	EndTime      string           `json:"end_time,omitempty"`
	Type         string           `json:"type"`
	Alternatives []awsAlternative `json:"alternatives"`
}

// parseAWS turns pronunciation items into words, attaches punctuation to the
// preceding word, and starts a new utterance after sentence-final marks.
func parseAWS(data []byte) ([]Utterance, error) {
	var payload struct {
		Results struct {
			Items []awsItem `json:"items"`
		} `json:"results"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode aws transcript: %w", err)
	}

	var (
		out     []Utterance
		current Utterance
	)
	flush := func() {
		if len(current.Words) == 0 {
			return
		}
		texts := make([]string, len(current.Words))
		for i, w := range current.Words {
			texts[i] = w.Text
		}
		current.Text = strings.Join(texts, " ")
		out = append(out, current)
		current = Utterance{}
	}
	for i, item := range payload.Results.Items {
		if len(item.Alternatives) == 0 {
			continue
		}
		alt := item.Alternatives[0]
		switch item.Type {
		case "punctuation":
			if n := len(current.Words); n > 0 {
				current.Words[n-1].Text += alt.Content
			}
			if strings.ContainsAny(alt.Content, ".?!") {
				flush()
			}
		case "pronunciation":
			w := Word{Text: strings.TrimSpace(alt.Content)}
			start, errS := strconv.ParseFloat(item.StartTime, 64)
			end, errE := strconv.ParseFloat(item.EndTime, 64)
			if errS == nil && errE == nil {
				w.Start, w.End = &start, &end
				if len(current.Words) == 0 {
					current.AudioStart = start
				}
				current.AudioEnd = end
			}
			if c, err := strconv.ParseFloat(alt.Confidence, 64); err == nil {
				w.Confidence = &c
			}
			current.Words = append(current.Words, w)
		default:
			return nil, fmt.Errorf("aws item %d: unknown type %q", i, item.Type)
		}
	}
	flush()
	return out, nil
}

// RecognizedText joins every word with single spaces, the flattened text a
// recognizer client hands over with its utterances.
func RecognizedText(utterances []Utterance) string {
	words := Words(utterances)
	parts := make([]string, 0, len(words))
	for _, w := range words {
		if t := strings.TrimSpace(w.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// LoadRecognizedText reads a flattened recognized-text file.
func LoadRecognizedText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read recognized text: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
