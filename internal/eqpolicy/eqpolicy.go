// Package eqpolicy defines the equality policy under which two lines are considered the same.
//
// A policy is a combination of independent ignore options. Two lines are equal iff their canonical keys are equal, where the key is the line after applying every
// enabled normalization. All options are combinable.
package eqpolicy

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Options is the set of active ignore options. The zero value compares lines byte-for-byte (including terminator style).
type Options struct {
	// IgnoreCase compares lines case-insensitively (full Unicode case folding).
	IgnoreCase bool

	// IgnoreAllSpace removes all whitespace before comparing.
	IgnoreAllSpace bool

	// IgnoreSpaceChange collapses runs of whitespace to a single space and ignores trailing whitespace.
	IgnoreSpaceChange bool

	// IgnoreEOL ignores the line terminator form (LF vs CRLF vs CR) of the owning sequence.
	IgnoreEOL bool

	// IgnoreBlankLines classifies rows consisting solely of blank lines as unchanged. It does not affect Key; it is honored during classification.
	IgnoreBlankLines bool
}

// Key returns the canonical form of line under the policy. eol is the terminator style of the line's owning sequence ("\n", "\r\n", or "\r"); it participates in the
// key unless IgnoreEOL is set, so that sequences differing only in terminator style compare unequal by default.
func (o Options) Key(line, eol string) string {
	// A stray \r at end of content appears when a CRLF line sneaks into an LF
	// file; it is terminator form, not content.
	if o.IgnoreEOL {
		line = strings.TrimSuffix(line, "\r")
	}

	switch {
	case o.IgnoreAllSpace:
		line = stripSpace(line)
	case o.IgnoreSpaceChange:
		line = collapseSpace(line)
	}

	if o.IgnoreCase {
		line = cases.Fold().String(line)
	}

	if !o.IgnoreEOL && eol != "\n" {
		line += "\x00" + eol
	}
	return line
}

// Equal reports whether two lines are equal under the policy.
func (o Options) Equal(a, aEOL, b, bEOL string) bool {
	return o.Key(a, aEOL) == o.Key(b, bEOL)
}

// Blank reports whether line is blank (empty or whitespace-only).
func (o Options) Blank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func stripSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func collapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inRun = true
			continue
		}
		if inRun {
			b.WriteByte(' ')
		}
		inRun = false
		b.WriteRune(r)
	}
	// A trailing run is dropped entirely (trailing whitespace is ignored).
	return b.String()
}
