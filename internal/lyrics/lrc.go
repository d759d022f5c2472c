// Package lyrics reads LRC lyric text as served by the catalog.
package lyrics

import (
	"bufio"
	"encoding/json"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Line represents a single timestamped lyric line.
type Line struct {
	Time time.Duration
	Text string
}

// Lyrics contains parsed lyrics with optional metadata.
type Lyrics struct {
	Lines []Line
	// Credits are the lyricist/composer lines the catalog prepends, in order.
	Credits []string
	Title   string
	Artist  string
	Album   string
	By      string
}

// IsSynced reports whether any line carries a timestamp other than zero.
func (l *Lyrics) IsSynced() bool {
	for _, line := range l.Lines {
		if line.Time > 0 {
			return true
		}
	}
	return false
}

// Translated counts the non-empty lines of l that have a non-empty line at
// the same timestamp in tr.
func (l *Lyrics) Translated(tr *Lyrics) int {
	if tr == nil {
		return 0
	}
	at := make(map[time.Duration]bool, len(tr.Lines))
	for _, line := range tr.Lines {
		if line.Text != "" {
			at[line.Time] = true
		}
	}
	n := 0
	for _, line := range l.Lines {
		if line.Text != "" && at[line.Time] {
			n++
		}
	}
	return n
}

// Regular expressions for parsing LRC format
var (
	// Matches timestamps like [00:12.34] or [00:12:34] or [00:12]
	timestampRe = regexp.MustCompile(`\[(\d+):(\d+)(?:[.:](\d+))?\]`)

	// Matches metadata tags like [ar:Artist Name]
	metadataRe = regexp.MustCompile(`^\[([a-z]+):(.+)\]$`)
)

// creditLine is the JSON form of a credit line: {"t":0,"c":[{"tx":"..."}]}.
type creditLine struct {
	T int `json:"t"`
	C []struct {
		Tx string `json:"tx"`
	} `json:"c"`
}

// Parse parses LRC text. Empty text gives empty lyrics.
func Parse(text string) (*Lyrics, error) {
	return ParseLRC(strings.NewReader(text))
}

// ParseLRC parses LRC format lyrics from a reader.
func ParseLRC(r io.Reader) (*Lyrics, error) {
	lyrics := &Lyrics{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "{") {
			if credit, ok := parseCredit(line); ok {
				lyrics.Credits = append(lyrics.Credits, credit)
			}
			continue
		}

		// Try to parse as metadata
		if meta := metadataRe.FindStringSubmatch(line); meta != nil {
			tag := strings.ToLower(meta[1])
			value := strings.TrimSpace(meta[2])
			switch tag {
			case "ar":
				lyrics.Artist = value
			case "ti":
				lyrics.Title = value
			case "al":
				lyrics.Album = value
			case "by":
				lyrics.By = value
			}
			continue
		}

		// LRC can have multiple timestamps for the same text: [00:12.34][00:45.67]Text
		matches := timestampRe.FindAllStringSubmatchIndex(line, -1)
		if len(matches) == 0 {
			continue
		}

		// Extract the text after all timestamps
		lastMatch := matches[len(matches)-1]
		text := strings.TrimSpace(line[lastMatch[1]:])

		for _, match := range matches {
			ts, err := parseTimestamp(line[match[0]:match[1]])
			if err != nil {
				continue
			}
			lyrics.Lines = append(lyrics.Lines, Line{
				Time: ts,
				Text: text,
			})
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(lyrics.Lines, func(i, j int) bool {
		return lyrics.Lines[i].Time < lyrics.Lines[j].Time
	})

	return lyrics, nil
}

func parseCredit(line string) (string, bool) {
	var c creditLine
	if err := json.Unmarshal([]byte(line), &c); err != nil {
		return "", false
	}
	var sb strings.Builder
	for _, part := range c.C {
		sb.WriteString(part.Tx)
	}
	text := strings.TrimSpace(sb.String())
	return text, text != ""
}

// parseTimestamp parses a timestamp like [00:12.34] into a Duration.
func parseTimestamp(s string) (time.Duration, error) {
	matches := timestampRe.FindStringSubmatch(s)
	if matches == nil {
		return 0, nil
	}

	minutes, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, err
	}

	seconds, err := strconv.Atoi(matches[2])
	if err != nil {
		return 0, err
	}

	var millis int
	if matches[3] != "" {
		millis, err = strconv.Atoi(matches[3])
		if err != nil {
			return 0, err
		}
		// Handle both .xx (centiseconds) and .xxx (milliseconds)
		switch len(matches[3]) {
		case 1:
			millis *= 100
		case 2:
			millis *= 10
		}
	}

	return time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond, nil
}
