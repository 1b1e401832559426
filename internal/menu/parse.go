// Package menu turns the API's per-day display layouts into normalized meal
// records. This is where all of the interpretation logic lives: day-off
// detection, routing recipe items into sections, and the "with" accompaniment
// convention.
package menu

import (
	"encoding/json"
	"strings"

	"lunchcal/internal/menuapi"
)

// DayMenu is one day's normalized meal record, keyed by its "YYYY-MM-DD"
// date string. A day-off record carries only OffReason; meal fields stay
// empty. Records are never mutated after ParseDay returns them.
type DayMenu struct {
	Date string

	IsDayOff  bool
	OffReason string

	Entree     string
	Sides      []string
	Vegetables []string
	Fruit      []string
	Milk       []string

	// SpecialMessage holds the text of a custom banner category (e.g. a
	// promotional label). If multiple banners appear, the last one wins.
	SpecialMessage string
}

// Outcome tags the result of parsing one day override, so that the
// skip-this-day paths are explicit control flow rather than dropped errors.
type Outcome int

const (
	// OutcomeSkip: the day produced no record (malformed setting blob,
	// empty display list, or no identifiable entree).
	OutcomeSkip Outcome = iota
	// OutcomeDayOff: the day is a holiday/break; the record carries the
	// off reason only.
	OutcomeDayOff
	// OutcomeMenu: the day produced a meal record with an entree.
	OutcomeMenu
)

const defaultOffReason = "No School"

// daySetting is the decoded form of a DateOverride's embedded setting blob.
type daySetting struct {
	// DaysOff is an object when set ({"status":1,"description":...}) but an
	// empty array when unset, so it has to be decoded leniently.
	DaysOff        json.RawMessage `json:"days_off"`
	CurrentDisplay []displayItem   `json:"current_display"`
}

type daysOff struct {
	Status      int    `json:"status"`
	Description string `json:"description"`
}

type displayItem struct {
	Type string `json:"type"`
	Name string `json:"name"`
	// Item is the upstream's internal key for category items; custom
	// (non-section) categories are keyed with a "custom" prefix.
	Item string `json:"item"`
}

// section is the recipe-routing cursor while walking a display list.
type section int

const (
	sectionNone section = iota
	sectionEntree
	sectionVegetables
	sectionFruit
	sectionMilk
	sectionOther
)

// walkState is the full parser state threaded through the display-list fold:
// the current section plus whether a "with" marker is active. The marker
// persists until the next recognized category resets it.
type walkState struct {
	section section
	inWith  bool
}

// standardCategories are the upstream's stock section labels, lower-cased.
var standardCategories = map[string]bool{
	"lunch entree": true,
	"vegetables":   true,
	"fruit":        true,
	"milk":         true,
	"grains":       true,
	"misc.":        true,
}

// isCustomCategory reports whether a category item is a custom banner rather
// than a section header. Both upstream signals are checked: the internal item
// key's "custom" prefix, and the name falling outside the stock vocabulary.
// They overlap for every payload seen so far, but the exact boundary has not
// been verified against the API's full vocabulary, so neither check is
// dropped.
func isCustomCategory(loweredName, itemKey string) bool {
	if strings.HasPrefix(itemKey, "custom") {
		return true
	}
	if standardCategories[loweredName] {
		return false
	}
	return !strings.Contains(loweredName, "entree")
}

// sectionFor maps a recognized category name (already lower-cased) to its
// routing section. Stock labels without a dedicated field (grains, misc.)
// fall into sectionOther, whose recipes end up in Sides.
func sectionFor(loweredName string) section {
	switch {
	case strings.Contains(loweredName, "vegetable"):
		return sectionVegetables
	case strings.Contains(loweredName, "fruit"):
		return sectionFruit
	case strings.Contains(loweredName, "milk"):
		return sectionMilk
	case strings.Contains(loweredName, "entree"):
		return sectionEntree
	default:
		return sectionOther
	}
}

// ParseDay interprets one day override. The returned Outcome says whether a
// record was produced; on OutcomeSkip the DayMenu is the zero value.
func ParseDay(entry menuapi.DateOverride) (DayMenu, Outcome) {
	if entry.Day == "" {
		return DayMenu{}, OutcomeSkip
	}

	var setting daySetting
	if err := json.Unmarshal([]byte(entry.Setting), &setting); err != nil {
		// Malformed setting blob: this single day is dropped.
		return DayMenu{}, OutcomeSkip
	}

	if off, ok := decodeDaysOff(setting.DaysOff); ok && off.Status == 1 {
		reason := off.Description
		if reason == "" {
			reason = defaultOffReason
		}
		return DayMenu{
			Date:      entry.Day,
			IsDayOff:  true,
			OffReason: reason,
		}, OutcomeDayOff
	}

	if len(setting.CurrentDisplay) == 0 {
		return DayMenu{}, OutcomeSkip
	}

	rec := DayMenu{Date: entry.Day}
	st := walkState{section: sectionNone}
	for _, item := range setting.CurrentDisplay {
		st = applyItem(st, &rec, item)
	}

	// A day is only worth emitting if an entree was identified.
	if rec.Entree == "" {
		return DayMenu{}, OutcomeSkip
	}
	return rec, OutcomeMenu
}

// applyItem advances the walk state by one display item, routing recipe
// names into the record along the way.
func applyItem(st walkState, rec *DayMenu, item displayItem) walkState {
	switch item.Type {
	case "category":
		lowered := strings.ToLower(item.Name)
		if isCustomCategory(lowered, item.Item) {
			// A banner sets the special message but does not interrupt the
			// current section.
			rec.SpecialMessage = item.Name
			return st
		}
		return walkState{section: sectionFor(lowered), inWith: false}

	case "text":
		if strings.Contains(strings.ToLower(item.Name), "with") {
			st.inWith = true
		}
		return st

	case "recipe":
		switch st.section {
		case sectionEntree:
			if !st.inWith && rec.Entree == "" {
				rec.Entree = item.Name
			} else {
				rec.Sides = append(rec.Sides, item.Name)
			}
		case sectionVegetables:
			rec.Vegetables = append(rec.Vegetables, item.Name)
		case sectionFruit:
			rec.Fruit = append(rec.Fruit, item.Name)
		case sectionMilk:
			rec.Milk = append(rec.Milk, item.Name)
		default:
			// Unsectioned or miscellaneous recipes land in Sides.
			rec.Sides = append(rec.Sides, item.Name)
		}
		return st

	default:
		return st
	}
}

// decodeDaysOff decodes the lenient days_off field. ok is false when the
// field is absent, an array, or otherwise not the object form.
func decodeDaysOff(raw json.RawMessage) (daysOff, bool) {
	if len(raw) == 0 {
		return daysOff{}, false
	}
	var off daysOff
	if err := json.Unmarshal(raw, &off); err != nil {
		return daysOff{}, false
	}
	return off, true
}

// ParseMonth parses every day override in a month's payload into a
// date-keyed record map. Day-off records are kept alongside meal records;
// skipped days simply do not appear.
func ParseMonth(overrides []menuapi.DateOverride) map[string]DayMenu {
	out := make(map[string]DayMenu)
	for _, entry := range overrides {
		rec, outcome := ParseDay(entry)
		if outcome == OutcomeSkip {
			continue
		}
		out[rec.Date] = rec
	}
	return out
}

// Merge copies src records into dst. On a duplicate date key the src record
// wins; in practice months are disjoint and this never fires.
func Merge(dst, src map[string]DayMenu) {
	for date, rec := range src {
		dst[date] = rec
	}
}
