// Package extract pulls appointment start times out of the booking page.
//
// The page is scraped third-party markup, not a documented API: slot data
// shows up in embedded script blocks, sometimes as JSON-ish key/value pairs,
// sometimes as URL query parameters. Extraction is a fixed sequence of regexp
// passes plus a context-window fallback, tuned to prefer false negatives over
// false positives — anything that looks like an end marker is excluded even
// when a start pattern also matched it.
package extract

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"slotwatch/app/internal/models"
)

const contextWindow = 80 // chars inspected on each side of a bare ISO match

var (
	patJSONStart = regexp.MustCompile(`"(?:start|startDate)"\s*:\s*"(\d{4}-\d{2}-\d{2}T\d{2}:\d{2})(?::\d{2})?Z?"`)
	patURLStart  = regexp.MustCompile(`(?i)\b(?:beginning_date_time|ing_date_time|start|startDate)\s*=\s*(\d{4}-\d{2}-\d{2}T\d{2}:\d{2})(?::\d{2})?Z?`)
	patJSONEnd   = regexp.MustCompile(`"(?:end|endDate)"\s*:\s*"(\d{4}-\d{2}-\d{2}T\d{2}:\d{2})(?::\d{2})?Z?"`)
	patURLEnd    = regexp.MustCompile(`(?i)\b(?:ending_date_time|end|endDate)\s*=\s*(\d{4}-\d{2}-\d{2}T\d{2}:\d{2})(?::\d{2})?Z?`)
	patBareISO   = regexp.MustCompile(`(\d{4}-\d{2}-\d{2}T\d{2}:\d{2})(?::\d{2})?Z?`)

	patEndHint   = regexp.MustCompile(`(?i)end|endDate|ending_date_time`)
	patStartHint = regexp.MustCompile(`(?i)start|begin`)
)

// Extractor scans page markup for appointment slots in the allow-listed years.
type Extractor struct {
	years []string
}

// New creates an extractor restricted to the given calendar years ("2025", ...).
func New(years []string) *Extractor {
	return &Extractor{years: years}
}

// workingSet accumulates candidates across all scanned texts of one pass.
type workingSet struct {
	starts map[string]models.Slot // datetime key -> slot, last writer wins
	ends   map[string]struct{}    // keys positively identified as end times
}

// Extract returns the deduplicated, end-excluded, year-filtered slot list,
// sorted ascending by (date, time). It never fails on malformed input; an
// empty result means no slots were detected.
func (e *Extractor) Extract(body string) []models.Slot {
	ws := &workingSet{
		starts: make(map[string]models.Slot),
		ends:   make(map[string]struct{}),
	}

	// Script blocks carry the calendar data; the raw page text is scanned too
	// in case the markup shape shifts. Duplicates are harmless, dedup is by key.
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(body)); err == nil {
		doc.Find("script").Each(func(_ int, s *goquery.Selection) {
			scanText(ws, s.Text())
		})
	}
	scanText(ws, body)

	var slots []models.Slot
	for key, slot := range ws.starts {
		if _, isEnd := ws.ends[key]; isEnd {
			continue
		}
		if !e.yearAllowed(slot.Date) {
			continue
		}
		slots = append(slots, slot)
	}

	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		return slots[i].Time < slots[j].Time
	})
	return slots
}

// scanText applies the matcher passes in priority order to a single text.
func scanText(ws *workingSet, txt string) {
	if txt == "" {
		return
	}
	for _, m := range patJSONStart.FindAllStringSubmatch(txt, -1) {
		ws.addStart(m[1])
	}
	for _, m := range patURLStart.FindAllStringSubmatch(txt, -1) {
		ws.addStart(m[1])
	}
	for _, m := range patJSONEnd.FindAllStringSubmatch(txt, -1) {
		ws.addEnd(m[1])
	}
	for _, m := range patURLEnd.FindAllStringSubmatch(txt, -1) {
		ws.addEnd(m[1])
	}

	// Fallback: bare ISO values classified by nearby keywords. A value with an
	// end keyword in its window is skipped; one with a start/begin keyword is a
	// candidate start; neither means not enough context, discard.
	for _, loc := range patBareISO.FindAllStringSubmatchIndex(txt, -1) {
		lo := loc[0] - contextWindow
		if lo < 0 {
			lo = 0
		}
		hi := loc[1] + contextWindow
		if hi > len(txt) {
			hi = len(txt)
		}
		window := txt[lo:hi]
		if patEndHint.MatchString(window) {
			continue
		}
		if patStartHint.MatchString(window) {
			ws.addStart(txt[loc[2]:loc[3]])
		}
	}
}

func (ws *workingSet) addStart(iso string) {
	dt, ok := parseISO(iso)
	if !ok {
		return
	}
	key := dt.Format("2006-01-02T15:04")
	ws.starts[key] = models.Slot{
		Date: dt.Format("2006-01-02"),
		Time: dt.Format("15:04"),
		Key:  key,
	}
}

func (ws *workingSet) addEnd(iso string) {
	if dt, ok := parseISO(iso); ok {
		ws.ends[dt.Format("2006-01-02T15:04")] = struct{}{}
	}
}

// parseISO normalizes a matched date-time value: trailing zone marker
// stripped, minute or second precision accepted.
func parseISO(iso string) (time.Time, bool) {
	iso = strings.TrimSuffix(iso, "Z")
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02T15:04:05"} {
		if dt, err := time.Parse(layout, iso); err == nil {
			return dt, true
		}
	}
	return time.Time{}, false
}

func (e *Extractor) yearAllowed(date string) bool {
	for _, y := range e.years {
		if strings.HasPrefix(date, y+"-") {
			return true
		}
	}
	return false
}
