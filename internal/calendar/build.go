// Package calendar renders aggregated meal records into a subscribable
// iCalendar document.
package calendar

import (
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"lunchcal/internal/menu"
)

// uidDomain suffixes every event UID so identifiers stay unique to this feed.
const uidDomain = "bayms-lunch"

const productID = "-//Bay Middle School Lunch Menu//"

// Meta carries the calendar-level properties.
type Meta struct {
	// Name becomes X-WR-CALNAME.
	Name string
	// Timezone becomes X-WR-TIMEZONE.
	Timezone string
}

// Build converts the date-keyed record map into a VCALENDAR. Events are
// emitted in ascending date order; day-off records, records without an
// entree and records with an unparseable date are skipped. now is used as
// the DTSTAMP of every event.
func Build(records map[string]menu.DayMenu, meta Meta, now time.Time) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetProductId(productID)
	cal.SetVersion("2.0")
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ics.MethodPublish)
	cal.SetXWRCalName(meta.Name)
	cal.SetXWRTimezone(meta.Timezone)

	dates := make([]string, 0, len(records))
	for date := range records {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	for _, date := range dates {
		rec := records[date]
		if rec.IsDayOff || rec.Entree == "" {
			continue
		}

		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			continue
		}

		event := cal.AddEvent(EventUID(date, rec.Entree))
		event.SetDtStampTime(now)
		event.SetAllDayStartAt(day)
		event.SetAllDayEndAt(day.AddDate(0, 0, 1))
		event.SetSummary(summaryFor(rec))
		event.SetDescription(descriptionFor(rec))
	}

	return cal
}

// EventUID derives the stable identifier for a (date, entree) pair. The same
// pair always hashes to the same UID, so regenerating the feed does not
// duplicate events in subscribed clients, while a changed entree on the same
// date produces a fresh one.
func EventUID(date, entree string) string {
	sum := md5.Sum([]byte(date + "-" + entree))
	return hex.EncodeToString(sum[:]) + "@" + uidDomain
}

func summaryFor(rec menu.DayMenu) string {
	if rec.SpecialMessage != "" {
		return rec.Entree + " - " + rec.SpecialMessage
	}
	return rec.Entree
}

// descriptionFor builds the multi-line event body. Sections with no items
// are omitted entirely.
func descriptionFor(rec menu.DayMenu) string {
	parts := []string{"Entree: " + rec.Entree}
	if len(rec.Sides) > 0 {
		parts = append(parts, "With: "+strings.Join(rec.Sides, ", "))
	}
	if len(rec.Vegetables) > 0 {
		parts = append(parts, "Vegetables: "+strings.Join(rec.Vegetables, ", "))
	}
	if len(rec.Fruit) > 0 {
		parts = append(parts, "Fruit: "+strings.Join(rec.Fruit, ", "))
	}
	if len(rec.Milk) > 0 {
		parts = append(parts, "Milk: "+strings.Join(rec.Milk, ", "))
	}
	return strings.Join(parts, "\n")
}

// WriteFile serializes the calendar to path, creating the parent directory
// if needed.
func WriteFile(cal *ics.Calendar, path string) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(cal.Serialize()), 0o644)
}

// EventCount returns the number of VEVENT components in the calendar.
func EventCount(cal *ics.Calendar) int {
	return len(cal.Events())
}
