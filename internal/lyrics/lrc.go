// Package lyrics parses the LRC format used by synchronized lyrics tags
// and sidecar .lrc files.
package lyrics

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Line is a single lyric line. Time is zero for unsynced lyrics.
type Line struct {
	Time time.Duration
	Text string
}

// Lyrics holds parsed lyrics with the optional LRC header tags.
type Lyrics struct {
	Lines  []Line
	Title  string
	Artist string
	Album  string
	synced bool
}

// IsSynced reports whether at least one line carried a timestamp.
func (l *Lyrics) IsSynced() bool {
	return l.synced
}

// Plain returns the lyric text without timestamps, one line per line.
func (l *Lyrics) Plain() string {
	texts := make([]string, len(l.Lines))
	for i, line := range l.Lines {
		texts[i] = line.Text
	}
	return strings.Join(texts, "\n")
}

var (
	// [00:12.34], [00:12:34] or [00:12]
	timestampRe = regexp.MustCompile(`\[(\d+):(\d+)(?:[.:](\d+))?\]`)

	// [ar:Artist Name]
	metadataRe = regexp.MustCompile(`^\[([a-z]+):(.*)\]$`)
)

// Parse reads LRC text. Lines without a timestamp are kept in order
// when no line is timestamped, so plain lyrics parse as unsynced.
func Parse(text string) *Lyrics {
	l := &Lyrics{}
	var plain []Line
	var offset time.Duration

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		matches := timestampRe.FindAllStringSubmatchIndex(line, -1)
		if len(matches) == 0 || matches[0][0] != 0 {
			if meta := metadataRe.FindStringSubmatch(line); meta != nil {
				value := strings.TrimSpace(meta[2])
				switch meta[1] {
				case "ar":
					l.Artist = value
				case "ti":
					l.Title = value
				case "al":
					l.Album = value
				case "offset":
					if ms, err := strconv.Atoi(value); err == nil {
						offset = time.Duration(ms) * time.Millisecond
					}
				}
				continue
			}
			plain = append(plain, Line{Text: line})
			continue
		}

		// [00:12.34][00:45.67]Text repeats the text at each timestamp.
		last := matches[len(matches)-1]
		lyric := strings.TrimSpace(line[last[1]:])
		for _, m := range matches {
			ts, ok := parseTimestamp(line[m[0]:m[1]])
			if !ok {
				continue
			}
			l.synced = true
			l.Lines = append(l.Lines, Line{Time: ts, Text: lyric})
		}
	}

	if !l.synced {
		l.Lines = trimBlank(plain)
		return l
	}

	// A positive offset shows the lyrics earlier.
	for i := range l.Lines {
		l.Lines[i].Time = max(l.Lines[i].Time-offset, 0)
	}
	sort.SliceStable(l.Lines, func(i, j int) bool {
		return l.Lines[i].Time < l.Lines[j].Time
	})
	return l
}

func trimBlank(lines []Line) []Line {
	for len(lines) > 0 && lines[0].Text == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1].Text == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func parseTimestamp(s string) (time.Duration, bool) {
	m := timestampRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}

	var millis int
	if m[3] != "" {
		millis, err = strconv.Atoi(m[3])
		if err != nil {
			return 0, false
		}
		switch len(m[3]) {
		case 1:
			millis *= 100
		case 2:
			millis *= 10
		}
	}

	return time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond, true
}

// SidecarPath returns the .lrc file that goes with audioPath.
func SidecarPath(audioPath string) string {
	return strings.TrimSuffix(audioPath, filepath.Ext(audioPath)) + ".lrc"
}

// ReadSidecar returns the content of the .lrc file next to audioPath, or
// "" when there is none.
func ReadSidecar(audioPath string) (string, error) {
	data, err := os.ReadFile(SidecarPath(audioPath))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
