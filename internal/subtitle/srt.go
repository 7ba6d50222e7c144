package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// RenderSRT formats entries as SRT. Every block, including the last, is
// followed by a blank line.
func RenderSRT(entries []Entry) string {
	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&sb, "%d\n%s --> %s\n%s\n\n", e.Seq, FormatTimestamp(e.Start), FormatTimestamp(e.End), e.Text)
	}
	return sb.String()
}

// FormatTimestamp renders seconds as HH:MM:SS,mmm, rounding to the nearest
// millisecond. Negative values clamp to zero.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	msTotal := int64(math.Round(seconds * 1000))
	hours := msTotal / 3_600_000
	msTotal %= 3_600_000
	minutes := msTotal / 60_000
	msTotal %= 60_000
	secs := msTotal / 1_000
	millis := msTotal % 1_000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// ParseTimestamp reads HH:MM:SS,mmm. A period is accepted in place of the comma.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	if minutes > 59 || seconds > 59 || millis > 999 || hours < 0 || minutes < 0 || seconds < 0 || millis < 0 {
		return 0, fmt.Errorf("timestamp %q out of range", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

// ParseSRT reads SRT cues. Blocks are separated by blank lines; CRLF line
// endings and a leading byte-order mark are tolerated. The first malformed
// block aborts with a *ParseError.
func ParseSRT(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		entries []Entry
		block   []string
		start   int
		lineNo  int
	)
	flush := func() error {
		if len(block) == 0 {
			return nil
		}
		entry, err := parseBlock(block, len(entries)+1, start)
		block = block[:0]
		if err != nil {
			return err
		}
		entries = append(entries, entry)
		return nil
	}
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if strings.TrimSpace(line) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		if len(block) == 0 {
			start = lineNo
		}
		block = append(block, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return entries, nil
}

func parseBlock(lines []string, block, line int) (Entry, error) {
	if len(lines) < 2 {
		return Entry{}, &ParseError{Block: block, Line: line, Reason: "block needs a sequence number and a timing line"}
	}
	seq, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return Entry{}, &ParseError{Block: block, Line: line, Reason: fmt.Sprintf("invalid sequence number %q", lines[0])}
	}
	parts := strings.Split(lines[1], "-->")
	if len(parts) != 2 {
		return Entry{}, &ParseError{Block: block, Line: line + 1, Reason: fmt.Sprintf("invalid timing line %q", lines[1])}
	}
	start, err := ParseTimestamp(parts[0])
	if err != nil {
		return Entry{}, &ParseError{Block: block, Line: line + 1, Reason: err.Error()}
	}
	// Position hints after the end timestamp are ignored.
	endField := strings.Fields(parts[1])
	if len(endField) == 0 {
		return Entry{}, &ParseError{Block: block, Line: line + 1, Reason: "missing end timestamp"}
	}
	end, err := ParseTimestamp(endField[0])
	if err != nil {
		return Entry{}, &ParseError{Block: block, Line: line + 1, Reason: err.Error()}
	}
	return Entry{Seq: seq, Start: start, End: end, Text: strings.Join(lines[2:], "\n")}, nil
}
