package media

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/model"
)

func urls(items []model.MediaItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.URL)
	}
	return out
}

func TestNormalize_RawShapes(t *testing.T) {
	tests := []struct {
		name     string
		raw      any
		legacy   string
		expected []string
	}{
		{
			name:     "nil without legacy",
			raw:      nil,
			expected: []string{},
		},
		{
			name:     "empty string without legacy",
			raw:      "",
			expected: []string{},
		},
		{
			name:     "single URL string",
			raw:      "https://cdn.example.com/a.jpg",
			expected: []string{"https://cdn.example.com/a.jpg"},
		},
		{
			name:     "JSON array in a string",
			raw:      `["https://cdn.example.com/a.jpg", "https://cdn.example.com/b.png"]`,
			expected: []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.png"},
		},
		{
			name:     "malformed JSON array falls back to literal",
			raw:      `["https://cdn.example.com/a.jpg"`,
			expected: []string{`["https://cdn.example.com/a.jpg"`},
		},
		{
			name:     "native array with blanks",
			raw:      []string{" https://cdn.example.com/a.jpg ", "", "  ", "https://cdn.example.com/b.png"},
			expected: []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.png"},
		},
		{
			name:     "decoded JSON array with mixed types",
			raw:      []any{"https://cdn.example.com/a.jpg", 42, nil, "https://cdn.example.com/b.png"},
			expected: []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.png"},
		},
		{
			name:     "raw JSON bytes array",
			raw:      json.RawMessage(`["https://cdn.example.com/a.jpg"]`),
			expected: []string{"https://cdn.example.com/a.jpg"},
		},
		{
			name:     "raw JSON null",
			raw:      json.RawMessage(`null`),
			expected: []string{},
		},
		{
			name:     "raw JSON quoted scalar",
			raw:      json.RawMessage(`"https://cdn.example.com/a.jpg"`),
			expected: []string{"https://cdn.example.com/a.jpg"},
		},
		{
			name:     "legacy fallback when list is empty",
			raw:      []string{"", " "},
			legacy:   "https://cdn.example.com/legacy.jpg",
			expected: []string{"https://cdn.example.com/legacy.jpg"},
		},
		{
			name:     "legacy ignored when list has entries",
			raw:      "https://cdn.example.com/a.jpg",
			legacy:   "https://cdn.example.com/legacy.jpg",
			expected: []string{"https://cdn.example.com/a.jpg"},
		},
		{
			name:     "unsupported type degrades to legacy",
			raw:      12.5,
			legacy:   "https://cdn.example.com/legacy.jpg",
			expected: []string{"https://cdn.example.com/legacy.jpg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := Normalize(tt.raw, tt.legacy)
			assert.Equal(t, tt.expected, urls(items))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	canonical := Normalize(`["https://cdn.example.com/a.jpg", "https://cdn.example.com/clip.mp4"]`, "")
	require.Len(t, canonical, 2)

	again := Normalize(canonical, "")
	assert.Equal(t, canonical, again)
}

func TestNormalize_KindTagging(t *testing.T) {
	items := Normalize([]string{
		"https://cdn.example.com/a.jpg",
		"https://cdn.example.com/clip.MP4",
		"https://cdn.example.com/b.webp?v=2",
		"https://cdn.example.com/demo.webm#t=10",
	}, "")

	require.Len(t, items, 4)
	assert.Equal(t, model.MediaImage, items[0].Kind)
	assert.Equal(t, model.MediaVideo, items[1].Kind)
	assert.Equal(t, model.MediaImage, items[2].Kind)
	assert.Equal(t, model.MediaVideo, items[3].Kind)
}

func TestThumbnail(t *testing.T) {
	tests := []struct {
		name     string
		items    []model.MediaItem
		expected string
	}{
		{
			name:     "empty list",
			items:    nil,
			expected: "",
		},
		{
			name: "skips video and extensionless URLs",
			items: []model.MediaItem{
				{URL: "https://cdn.example.com/clip.mp4", Kind: model.MediaVideo},
				{URL: "https://cdn.example.com/page", Kind: model.MediaImage},
				{URL: "https://cdn.example.com/a.png", Kind: model.MediaImage},
			},
			expected: "https://cdn.example.com/a.png",
		},
		{
			name: "query string does not defeat the allow-list",
			items: []model.MediaItem{
				{URL: "https://cdn.example.com/a.jpeg?w=300", Kind: model.MediaImage},
			},
			expected: "https://cdn.example.com/a.jpeg?w=300",
		},
		{
			name: "no usable thumbnail",
			items: []model.MediaItem{
				{URL: "https://cdn.example.com/clip.mov", Kind: model.MediaVideo},
			},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Thumbnail(tt.items))
		})
	}
}
