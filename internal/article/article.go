package article

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	UntitledFallback  = "Untitled"
	NoContentFallback = "No content available"
)

// Article is a single blog post as served by the remote collection endpoint.
// Missing fields decode to the empty string.
type Article struct {
	ID        string `json:"_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Type      string `json:"type"`
	Image     string `json:"image"`
	CreatedAt string `json:"createdAt"`
}

// UnmarshalJSON accepts records with null, missing or non-string fields so a
// single odd record never fails a whole collection.
func (a *Article) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: article record: %v", ErrParseFailed, err)
	}
	if raw == nil {
		return fmt.Errorf("%w: article record is null", ErrParseFailed)
	}

	a.ID = stringField(raw, "_id")
	if a.ID == "" {
		a.ID = stringField(raw, "id")
	}
	a.Title = stringField(raw, "title")
	a.Content = stringField(raw, "content")
	a.Type = stringField(raw, "type")
	a.Image = stringField(raw, "image")
	a.CreatedAt = stringField(raw, "createdAt")
	return nil
}

func stringField(raw map[string]any, key string) string {
	switch v := raw[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// DisplayTitle returns the title or the "Untitled" fallback.
func (a Article) DisplayTitle() string {
	if strings.TrimSpace(a.Title) == "" {
		return UntitledFallback
	}
	return a.Title
}

// DisplayContent returns the content or the "No content available" fallback.
func (a Article) DisplayContent() string {
	if strings.TrimSpace(a.Content) == "" {
		return NoContentFallback
	}
	return a.Content
}

// Key returns a rendering key: the id when present, otherwise the position.
func (a Article) Key(index int) string {
	if a.ID != "" {
		return a.ID
	}
	return "#" + strconv.Itoa(index)
}
