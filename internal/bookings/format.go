package bookings

import (
	"strings"
	"time"

	"golang.org/x/text/language"

	"tripdesk/internal/normalize"
)

type layouts struct {
	date string
	time string
}

var (
	// localeTags and localeLayouts are index-aligned
	localeTags = []language.Tag{
		language.AmericanEnglish,
		language.BritishEnglish,
	}
	localeLayouts = []layouts{
		{date: "January 2, 2006", time: "03:04 PM"},
		{date: "2 January 2006", time: "15:04"},
	}
	isoLayouts = layouts{date: "2006-01-02", time: "15:04"}

	localeMatcher = language.NewMatcher(localeTags)
)

// accepted timestamp forms, most specific first
var inputLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Formatter renders booking timestamps for one locale and zone. Date and Time
// are independent: a record shows both from the same timestamp.
type Formatter struct {
	layouts  layouts
	location *time.Location
}

// NewFormatter picks layouts for locale; unmatched locales use ISO forms
func NewFormatter(locale string, loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.Local
	}
	f := &Formatter{layouts: isoLayouts, location: loc}

	tag, err := language.Parse(locale)
	if err != nil {
		return f
	}
	_, index, confidence := localeMatcher.Match(tag)
	if confidence != language.No {
		f.layouts = localeLayouts[index]
	}
	return f
}

// Date renders the calendar date of ts, or N/A when ts does not parse
func (f *Formatter) Date(ts string) string {
	t, ok := f.parse(ts)
	if !ok {
		return normalize.NotAvailable
	}
	return t.Format(f.layouts.date)
}

// Time renders the wall-clock time of ts, or N/A when ts does not parse
func (f *Formatter) Time(ts string) string {
	t, ok := f.parse(ts)
	if !ok {
		return normalize.NotAvailable
	}
	return t.Format(f.layouts.time)
}

func (f *Formatter) parse(ts string) (time.Time, bool) {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return time.Time{}, false
	}
	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, ts, f.location); err == nil {
			return t.In(f.location), true
		}
	}
	return time.Time{}, false
}
