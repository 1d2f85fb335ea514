// Package dna builds the deterministic, human-readable token identifiers
// that tie an image, its metadata document and the minted token together.
//
// Two schemes exist. LRO redemption tokens use the full form
// "{symbol}-{series key}-{loan id}-{sequence}", with the series key and
// sequence zero-padded to fixed widths. Note tokens use the flat form
// "{series}{rate cents}{sequence}" with no padding.
//
// No uniqueness check happens here: reusing the same series/loan/sequence
// triple across invocations collides by construction, and avoiding that is
// operational discipline, not generator logic.
package dna

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Scheme carries the fixed components of an LRO identifier.
type Scheme struct {
	Symbol       string // contract symbol, e.g. "GLRT"
	Series       string // raw series id, e.g. "A"
	LoanID       int
	SeriesDigits int // zero-pad width for the series key
	TokenDigits  int // zero-pad width for the sequence field
}

// SeriesKey returns the series id left-padded with zeros, e.g. "000A".
func (s Scheme) SeriesKey() string {
	return Pad(s.Series, s.SeriesDigits)
}

// SeriesID returns "{series key}-{loan id}", the per-drop directory key.
func (s Scheme) SeriesID() string {
	return fmt.Sprintf("%s-%d", s.SeriesKey(), s.LoanID)
}

// Token returns the full identifier for the given zero-based sequence index.
func (s Scheme) Token(seq int) string {
	return fmt.Sprintf("%s-%s-%s", s.Symbol, s.SeriesID(), Pad(strconv.Itoa(seq), s.TokenDigits))
}

// NoteName returns the flat Note-series identifier: series, the rate in
// basis-point-free cents (5.0% -> "500"), and the raw sequence index.
func NoteName(series string, ratePercent float64, seq int) string {
	return fmt.Sprintf("%s%d%d", series, int(math.Round(ratePercent*100)), seq)
}

// Pad left-pads v with zeros to the given width. Values already at or over
// the width are returned unchanged.
func Pad(v string, width int) string {
	if len(v) >= width {
		return v
	}
	return strings.Repeat("0", width-len(v)) + v
}
