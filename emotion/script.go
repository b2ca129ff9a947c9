package emotion

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// ScriptEntry is one scheduled analysis in a playback script.
type ScriptEntry struct {
	At int64 `json:"at"` // Tick at which the analysis is applied
	Analysis
}

// Script plays analyses back at fixed ticks. Used by headless runs to drive
// reproducible scenarios.
type Script struct {
	entries []ScriptEntry
	next    int
}

// LoadScript reads a JSON-lines script. Blank lines and lines starting with
// '#' are skipped.
func LoadScript(r io.Reader) (*Script, error) {
	var entries []ScriptEntry
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		var e ScriptEntry
		if err := json.Unmarshal([]byte(text), &e); err != nil {
			return nil, fmt.Errorf("script line %d: %w", line, err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].At < entries[j].At })
	return &Script{entries: entries}, nil
}

// Len returns the number of entries.
func (s *Script) Len() int {
	return len(s.entries)
}

// Due returns the entries scheduled at or before tick that have not been
// returned yet.
func (s *Script) Due(tick int64) []Analysis {
	var out []Analysis
	for s.next < len(s.entries) && s.entries[s.next].At <= tick {
		out = append(out, s.entries[s.next].Analysis)
		s.next++
	}
	return out
}

// Done reports whether every entry has been returned.
func (s *Script) Done() bool {
	return s.next >= len(s.entries)
}
