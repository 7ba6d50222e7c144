package document

import (
	"bufio"
	"fmt"
	"io"
)

// TextLoader reads the line-oriented script format: one paragraph per
// non-empty line, "##" marking section ends.
type TextLoader struct{}

func (l *TextLoader) Load(r io.Reader, opts Options) (*Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	b := newBuilder(opts)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = trimBOM(line)
			first = false
		}
		b.addLine(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return b.doc, nil
}

func trimBOM(s string) string {
	if len(s) >= 3 && s[0] == 0xEF && s[1] == 0xBB && s[2] == 0xBF {
		return s[3:]
	}
	return s
}
