package schedule

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownDay is returned when a day name cannot be parsed.
	ErrUnknownDay = errors.New("unknown day of week")
	// ErrUnknownSlot is returned when a meal slot name cannot be parsed.
	ErrUnknownSlot = errors.New("unknown meal slot")
)

// Day is one of the seven fixed days of the planning week.
type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
	Sunday    Day = "Sunday"
)

// Days lists the days in enumeration order.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Slot is a meal time within a day.
type Slot string

const (
	Lunch  Slot = "lunch"
	Dinner Slot = "dinner"
)

// Slots lists the meal slots in enumeration order.
// Older stored schedules may also carry "breakfast"; it is dropped on decode.
var Slots = []Slot{Lunch, Dinner}

// ParseDay accepts a full day name or its three letter abbreviation, in any case.
func ParseDay(s string) (Day, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, d := range Days {
		name := strings.ToLower(string(d))
		if s == name || (len(s) == 3 && strings.HasPrefix(name, s)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDay, s)
}

// ParseSlot accepts a slot name in any case.
func ParseSlot(s string) (Slot, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, sl := range Slots {
		if s == string(sl) {
			return sl, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSlot, s)
}

func dayIndex(d Day) int {
	for i, x := range Days {
		if x == d {
			return i
		}
	}
	return -1
}

func slotIndex(s Slot) int {
	for i, x := range Slots {
		if x == s {
			return i
		}
	}
	return -1
}

// Week maps every (day, slot) pair to a recipe id; "" means unassigned.
// It is a fixed-size value, so every pair always exists and copies are independent.
type Week struct {
	slots [7][2]string
}

// RecipeID returns the id assigned to the pair, or "" when unassigned or the pair is invalid.
func (w Week) RecipeID(day Day, slot Slot) string {
	di, si := dayIndex(day), slotIndex(slot)
	if di < 0 || si < 0 {
		return ""
	}
	return w.slots[di][si]
}

func (w *Week) set(day Day, slot Slot, recipeID string) error {
	di := dayIndex(day)
	if di < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownDay, day)
	}
	si := slotIndex(slot)
	if si < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}
	w.slots[di][si] = recipeID
	return nil
}

// Entry is one (day, slot) cell of the week.
type Entry struct {
	Day      Day
	Slot     Slot
	RecipeID string
}

// Entries returns all 14 cells, Monday to Sunday and lunch before dinner.
func (w Week) Entries() []Entry {
	out := make([]Entry, 0, len(Days)*len(Slots))
	for di, d := range Days {
		for si, s := range Slots {
			out = append(out, Entry{Day: d, Slot: s, RecipeID: w.slots[di][si]})
		}
	}
	return out
}

// IsEmpty reports whether no slot is assigned.
func (w Week) IsEmpty() bool {
	return w == Week{}
}

// MarshalJSON encodes the week as {"Monday":{"lunch":null,"dinner":"id"},...}.
func (w Week) MarshalJSON() ([]byte, error) {
	out := make(map[string]map[string]*string, len(Days))
	for di, d := range Days {
		day := make(map[string]*string, len(Slots))
		for si, s := range Slots {
			if id := w.slots[di][si]; id != "" {
				day[string(s)] = &id
			} else {
				day[string(s)] = nil
			}
		}
		out[string(d)] = day
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the stored blob. Unknown day or slot keys, such as the
// legacy breakfast slot, are dropped; missing ones stay unassigned.
func (w *Week) UnmarshalJSON(data []byte) error {
	var raw map[string]map[string]*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var decoded Week
	for di, d := range Days {
		day, ok := raw[string(d)]
		if !ok {
			continue
		}
		for si, s := range Slots {
			if id := day[string(s)]; id != nil {
				decoded.slots[di][si] = *id
			}
		}
	}
	*w = decoded
	return nil
}
