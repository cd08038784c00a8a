package article

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DateStyle selects a display layout for FormatDate.
type DateStyle int

const (
	// DateShort renders "Jan 2, 2006", used by listings and the detail view.
	DateShort DateStyle = iota
	// DateLong renders "January 2, 2006 at 03:04 PM", used by the home feed.
	DateLong
)

const (
	shortLayout = "Jan 2, 2006"
	longLayout  = "January 2, 2006 at 03:04 PM"
)

// ParseTime parses an ISO-8601 timestamp. RFC 3339 is tried first; other
// common layouts are accepted through a lenient parser. A bare date is UTC
// midnight, a date-time without an offset is local time.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty timestamp", ErrParseFailed)
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	loc := time.Local
	if _, err := time.Parse(time.DateOnly, s); err == nil {
		loc = time.UTC
	}
	t, err := dateparse.ParseIn(s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q: %v", ErrParseFailed, s, err)
	}
	return t, nil
}

// CreatedTime parses CreatedAt.
func (a Article) CreatedTime() (time.Time, error) {
	return ParseTime(a.CreatedAt)
}

// FormatDate formats CreatedAt in the local zone, or "" when it doesn't parse.
func (a Article) FormatDate(style DateStyle) string {
	t, err := a.CreatedTime()
	if err != nil {
		return ""
	}
	t = t.Local()
	if style == DateLong {
		return t.Format(longLayout)
	}
	return t.Format(shortLayout)
}
