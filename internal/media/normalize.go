// Package media canonicalises the messy image representations found in
// catalogue rows and seed files. Records have carried the image list as
// a single URL, a JSON-encoded array, or a native array, sometimes with
// blank or video entries mixed in; everything funnels through Normalize
// before any other component sees it.
package media

import (
	"encoding/json"
	"path"
	"strings"

	"storefront/internal/model"
)

var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".webm": {},
	".mov":  {},
	".avi":  {},
	".mkv":  {},
	".m4v":  {},
}

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
	".bmp":  {},
	".svg":  {},
	".avif": {},
}

// Normalize converts a raw images field plus the legacy single-URL
// column into a canonical ordered media list. The raw value may be nil,
// a single URL string, a JSON-encoded array in a string, a native
// string slice, an []any from decoded JSON, or raw JSON bytes.
//
// Malformed input never produces an error: it degrades to the most
// conservative list, and an empty result means "render a placeholder".
// Normalizing an already-canonical list returns it unchanged.
func Normalize(raw any, legacyURL string) []model.MediaItem {
	urls := collectURLs(raw)

	if len(urls) == 0 {
		if trimmed := strings.TrimSpace(legacyURL); trimmed != "" {
			urls = []string{trimmed}
		}
	}

	items := make([]model.MediaItem, 0, len(urls))
	for _, u := range urls {
		items = append(items, model.MediaItem{URL: u, Kind: kindOf(u)})
	}
	return items
}

// collectURLs flattens the supported raw shapes into trimmed non-empty
// strings, preserving relative order.
func collectURLs(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		return fromString(v)
	case []string:
		return filterBlank(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, entry := range v {
			if s, ok := entry.(string); ok {
				out = append(out, s)
			}
		}
		return filterBlank(out)
	case json.RawMessage:
		return fromJSON(v)
	case []byte:
		return fromJSON(v)
	case []model.MediaItem:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, item.URL)
		}
		return filterBlank(out)
	default:
		return nil
	}
}

// fromString handles the ambiguous string shape: a JSON array embedded
// in text, or a plain URL. A JSON parse that yields anything other than
// an array means the original string is the URL itself.
func fromString(s string) []string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var arr []any
		if err := json.Unmarshal([]byte(trimmed), &arr); err == nil {
			return collectURLs(arr)
		}
	}
	return []string{trimmed}
}

func fromJSON(data []byte) []string {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	var arr []any
	if err := json.Unmarshal([]byte(trimmed), &arr); err == nil {
		return collectURLs(arr)
	}

	var s string
	if err := json.Unmarshal([]byte(trimmed), &s); err == nil {
		return fromString(s)
	}

	return fromString(trimmed)
}

func filterBlank(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if trimmed := strings.TrimSpace(u); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func kindOf(url string) model.MediaKind {
	if _, ok := videoExtensions[extensionOf(url)]; ok {
		return model.MediaVideo
	}
	return model.MediaImage
}

// extensionOf returns the lowercased file extension with query string
// and fragment stripped.
func extensionOf(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	return strings.ToLower(path.Ext(url))
}

// Thumbnail is the strict variant used at cart-display time: it returns
// the first URL whose extension is on the image allow-list, so video
// and malformed URLs never render as an <img>. Empty string means no
// usable thumbnail.
func Thumbnail(items []model.MediaItem) string {
	for _, item := range items {
		if _, ok := imageExtensions[extensionOf(item.URL)]; ok {
			return item.URL
		}
	}
	return ""
}
