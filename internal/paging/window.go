// Package paging builds compressed page-index windows for pager controls.
package paging

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// MaxVerbatim is the largest page count rendered without an ellipsis.
const MaxVerbatim = 7

// edgeSpan is how many pages the START and END regions expose next to their edge.
const edgeSpan = 4

// EllipsisMarker is the JSON form of an elided run of pages.
const EllipsisMarker = "ellipsis"

// Token is either a zero-based page index or an ellipsis.
type Token struct {
	Index    int
	Ellipsis bool
}

// Page returns an index token.
func Page(i int) Token { return Token{Index: i} }

// Gap returns an ellipsis token.
func Gap() Token { return Token{Ellipsis: true} }

func (t Token) String() string {
	if t.Ellipsis {
		return "…"
	}
	return strconv.Itoa(t.Index)
}

func (t Token) MarshalJSON() ([]byte, error) {
	if t.Ellipsis {
		return json.Marshal(EllipsisMarker)
	}
	return json.Marshal(t.Index)
}

func (t *Token) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != EllipsisMarker {
			return fmt.Errorf("unknown page token %q", s)
		}
		*t = Gap()
		return nil
	}
	var i int
	if err := json.Unmarshal(data, &i); err != nil {
		return fmt.Errorf("page token must be an index or %q: %w", EllipsisMarker, err)
	}
	*t = Page(i)
	return nil
}

// Window is an ordered list of page tokens.
type Window []Token

func (w Window) String() string {
	parts := make([]string, len(w))
	for i, t := range w {
		parts[i] = t.String()
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Indices returns only the materialised page indices.
func (w Window) Indices() []int {
	out := make([]int, 0, len(w))
	for _, t := range w {
		if !t.Ellipsis {
			out = append(out, t.Index)
		}
	}
	return out
}

// Region classifies where the current page sits in a long page range.
type Region int

const (
	RegionStart Region = iota
	RegionMiddle
	RegionEnd
)

func classify(current, total int) Region {
	switch {
	case current <= edgeSpan-1:
		return RegionStart
	case current >= total-edgeSpan:
		return RegionEnd
	default:
		return RegionMiddle
	}
}

// NewWindow returns the pager tokens for the zero-based current page out of
// total pages. Up to MaxVerbatim pages are listed in full; longer ranges keep
// the first and last page plus the neighbourhood of current, with ellipses
// over the elided runs. Out-of-range current values are clamped.
func NewWindow(current, total int) Window {
	if total <= 0 {
		return Window{}
	}
	if total <= MaxVerbatim {
		w := make(Window, total)
		for i := range w {
			w[i] = Page(i)
		}
		return w
	}

	current = max(0, min(current, total-1))
	last := total - 1

	w := make(Window, 0, MaxVerbatim)
	switch classify(current, total) {
	case RegionStart:
		for i := 0; i < edgeSpan; i++ {
			w = append(w, Page(i))
		}
		w = append(w, Gap())
	case RegionEnd:
		w = append(w, Page(0), Gap())
		for i := total - edgeSpan - 1; i <= last; i++ {
			w = append(w, Page(i))
		}
	default:
		w = append(w, Page(0), Gap(), Page(current-1), Page(current), Page(current+1), Gap())
	}

	if tail := w[len(w)-1]; tail.Ellipsis || tail.Index != last {
		w = append(w, Page(last))
	}
	return w
}

// TotalPages returns how many pages of perPage items count items fill.
func TotalPages(count, perPage int) int {
	if count <= 0 || perPage <= 0 {
		return 0
	}
	return (count + perPage - 1) / perPage
}

// Offset returns the number of items to skip for a zero-based page.
func Offset(page, perPage int) int {
	if page <= 0 || perPage <= 0 {
		return 0
	}
	return page * perPage
}
