package intelligence

import (
	"sort"
	"strings"
)

// piiMask replaces every redacted span, regardless of its length.
const piiMask = "xxxxxx"

// MaskPii builds a redacted copy of text with every span replaced by the
// fixed mask. Spans are sorted ascending and overlapping or touching
// spans are merged first, so offsets always refer to the original string
// and cannot drift while masking.
func MaskPii(text string, spans []Span) string {
	if len(spans) == 0 {
		return text
	}

	clamped := make([]Span, 0, len(spans))
	for _, span := range spans {
		if span.Begin < 0 {
			span.Begin = 0
		}
		if span.End > len(text) {
			span.End = len(text)
		}
		if span.Begin >= span.End {
			continue
		}
		clamped = append(clamped, span)
	}
	if len(clamped) == 0 {
		return text
	}

	sort.Slice(clamped, func(i, j int) bool {
		if clamped[i].Begin != clamped[j].Begin {
			return clamped[i].Begin < clamped[j].Begin
		}
		return clamped[i].End < clamped[j].End
	})

	merged := clamped[:1]
	for _, span := range clamped[1:] {
		last := &merged[len(merged)-1]
		if span.Begin <= last.End {
			if span.End > last.End {
				last.End = span.End
			}
			continue
		}
		merged = append(merged, span)
	}

	var b strings.Builder
	cursor := 0
	for _, span := range merged {
		b.WriteString(text[cursor:span.Begin])
		b.WriteString(piiMask)
		cursor = span.End
	}
	b.WriteString(text[cursor:])
	return b.String()
}
