package translator

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/jinzhu/now"
)

// TemporalLiteralFormat is the layout of resolved temporal literals. The
// literal is embedded verbatim inside datetime(...) in generated Cypher, so it
// carries no zone suffix; the reference instant's zone is implied.
const TemporalLiteralFormat = "2006-01-02T15:04:05"

// Weeks start on Monday, matching Cypher's ISO week semantics.
var calendar = &now.Config{WeekStartDay: time.Monday}

type temporalPhrase struct {
	phrase  string
	resolve func(ref time.Time) time.Time
}

// temporalPhrases is evaluated in order and the first phrase contained in the
// question wins. Keep "last X" ahead of "this X"; the order is
// behavior-defining and covered by tests.
var temporalPhrases = []temporalPhrase{
	{"last week", func(ref time.Time) time.Time {
		return calendar.With(ref).BeginningOfWeek().AddDate(0, 0, -7)
	}},
	{"this week", func(ref time.Time) time.Time {
		return calendar.With(ref).BeginningOfWeek()
	}},
	{"last month", func(ref time.Time) time.Time {
		// AddDate on the first of the month handles the January rollover.
		return calendar.With(ref).BeginningOfMonth().AddDate(0, -1, 0)
	}},
	{"this month", func(ref time.Time) time.Time {
		return calendar.With(ref).BeginningOfMonth()
	}},
	{"this year", func(ref time.Time) time.Time {
		return calendar.With(ref).BeginningOfYear()
	}},
	{"yesterday", func(ref time.Time) time.Time {
		return calendar.With(ref).BeginningOfDay().AddDate(0, 0, -1)
	}},
	{"today", func(ref time.Time) time.Time {
		return calendar.With(ref).BeginningOfDay()
	}},
}

// Explicit dates like "since 2024-03-05" or "after March 5, 2024". The leading
// digit requirement keeps prose like "from Twitter" out.
var explicitDatePattern = regexp.MustCompile(`(?i)\b(?:since|after|from)\s+([0-9][^,?!]*)`)

// ResolveTemporal maps a natural language date phrase inside question to the
// instant starting the implied period, relative to ref and ref's calendar.
// Matching is case-insensitive substring matching; when several phrases are
// present the first recognized one wins. When nothing is recognized ok is
// false and the question is left for downstream stages untouched, no filter
// is guessed.
func ResolveTemporal(question string, ref time.Time) (literal string, phrase string, ok bool) {
	lowered := strings.ToLower(question)
	for _, p := range temporalPhrases {
		if strings.Contains(lowered, p.phrase) {
			return p.resolve(ref).Format(TemporalLiteralFormat), p.phrase, true
		}
	}

	if m := explicitDatePattern.FindStringSubmatch(question); m != nil {
		raw := strings.TrimSpace(m[1])
		if t, err := dateparse.ParseIn(raw, ref.Location()); err == nil {
			return t.Format(TemporalLiteralFormat), strings.TrimSpace(m[0]), true
		}
	}

	return "", "", false
}
