// Package report renders mined patterns for people and for other tools.
package report

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	fp "fpgrowth/fptree"
)

const (
	FormatText = "text"
	FormatJSON = "json"

	textHeader   = "Resulting frequent patterns:"
	textNoResult = "No frequent patterns found"
)

var ErrUnknownFormat = errors.New("report: unknown output format")

// ValidFormat reports whether format can be passed to Write.
func ValidFormat(format string) bool {
	return format == FormatText || format == FormatJSON
}

// Write renders patterns to w by descending count. An empty format means text.
func Write(w io.Writer, patterns fp.Patterns, format string) error {
	return WriteSorted(w, patterns.Sorted(), format)
}

// WriteSorted renders already ordered pattern counts.
func WriteSorted(w io.Writer, patterns []fp.PatternCount, format string) error {
	bw := bufio.NewWriter(w)
	var err error
	switch format {
	case "", FormatText:
		err = writeText(bw, patterns)
	case FormatJSON:
		err = writeJSON(bw, patterns)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return err
	}
	return bw.Flush()
}

func writeText(w *bufio.Writer, patterns []fp.PatternCount) error {
	if _, err := fmt.Fprintln(w, textHeader); err != nil {
		return err
	}
	if len(patterns) == 0 {
		_, err := fmt.Fprintln(w, textNoResult)
		return err
	}
	for _, pc := range patterns {
		if _, err := fmt.Fprintf(w, "%s (count: %d)\n", pc.Items, pc.Count); err != nil {
			return err
		}
	}
	return nil
}

// writeJSON writes one PatternCount per line.
func writeJSON(w *bufio.Writer, patterns []fp.PatternCount) error {
	enc := json.NewEncoder(w)
	for _, pc := range patterns {
		if err := enc.Encode(pc); err != nil {
			return err
		}
	}
	return nil
}

// Top returns at most k of the sorted patterns. k <= 0 keeps them all.
func Top(patterns []fp.PatternCount, k int) []fp.PatternCount {
	if k <= 0 || k >= len(patterns) {
		return patterns
	}
	return patterns[:k]
}
