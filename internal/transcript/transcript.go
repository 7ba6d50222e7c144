package transcript

// Word is one recognized word. Start and End are nil when the recognizer
// produced no timestamps for it.
type Word struct {
	Text       string   `json:"word"`
	Start      *float64 `json:"start,omitempty"`
	End        *float64 `json:"end,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// Timed reports whether the word carries both timestamps.
func (w Word) Timed() bool {
	return w.Start != nil && w.End != nil
}

// Score returns the confidence or zero when absent.
func (w Word) Score() float64 {
	if w.Confidence == nil {
		return 0
	}
	return *w.Confidence
}

// Utterance is one recognizer segment with its word-level timing.
type Utterance struct {
	Text       string  `json:"text"`
	AudioStart float64 `json:"audio_start"`
	AudioEnd   float64 `json:"audio_end"`
	Words      []Word  `json:"words"`
}

// TimedWord builds a Word with timestamps, mostly for fixtures.
func TimedWord(text string, start, end float64) Word {
	return Word{Text: text, Start: &start, End: &end}
}

// UntimedWord builds a Word without timestamps.
func UntimedWord(text string) Word {
	return Word{Text: text}
}

// Words flattens utterances into their word sequence.
func Words(utterances []Utterance) []Word {
	n := 0
	for _, u := range utterances {
		n += len(u.Words)
	}
	words := make([]Word, 0, n)
	for _, u := range utterances {
		words = append(words, u.Words...)
	}
	return words
}

// FinalEnd returns the end of the recognized audio: the last utterance's
// audio_end, or the latest word end when that is later.
func FinalEnd(utterances []Utterance) float64 {
	if len(utterances) == 0 {
		return 0
	}
	end := utterances[len(utterances)-1].AudioEnd
	for _, u := range utterances {
		for _, w := range u.Words {
			if w.End != nil && *w.End > end {
				end = *w.End
			}
		}
	}
	return end
}
