package intelligence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskPii(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		spans []Span
		want  string
	}{
		{
			name:  "no spans",
			text:  "hello world",
			spans: nil,
			want:  "hello world",
		},
		{
			name:  "single span",
			text:  "call me at 555-0100 today",
			spans: []Span{{Begin: 11, End: 19}},
			want:  "call me at xxxxxx today",
		},
		{
			name:  "unsorted spans use original offsets",
			text:  "0123456789abcdefghij",
			spans: []Span{{Begin: 10, End: 14}, {Begin: 2, End: 5}},
			want:  "01xxxxxx56789xxxxxxefghij",
		},
		{
			name:  "overlapping spans merge",
			text:  "0123456789",
			spans: []Span{{Begin: 2, End: 6}, {Begin: 4, End: 8}},
			want:  "01xxxxxx89",
		},
		{
			name:  "span at end of text",
			text:  "secret is 42",
			spans: []Span{{Begin: 10, End: 12}},
			want:  "secret is xxxxxx",
		},
		{
			name:  "out of range span clamped",
			text:  "short",
			spans: []Span{{Begin: 3, End: 40}},
			want:  "shoxxxxxx",
		},
		{
			name:  "inverted span ignored",
			text:  "unchanged",
			spans: []Span{{Begin: 5, End: 2}},
			want:  "unchanged",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskPii(tt.text, tt.spans))
		})
	}
}

func TestMaskPiiLeavesSurroundingTextIntact(t *testing.T) {
	text := "my email is me@example.com, write me"
	masked := MaskPii(text, []Span{{Begin: 12, End: 26}})
	assert.Equal(t, "my email is xxxxxx, write me", masked)
}
