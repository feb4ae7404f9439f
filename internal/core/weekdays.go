package core

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Weekdays is the set of days a custom-frequency habit is scheduled on.
// On the wire and in storage it is a list of lowercase English day names.
type Weekdays []time.Weekday

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday accepts full or three-letter day names in any case.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if d, ok := weekdayNames[s]; ok {
		return d, nil
	}
	if len(s) == 3 {
		for name, d := range weekdayNames {
			if strings.HasPrefix(name, s) {
				return d, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

func (w Weekdays) Contains(d time.Weekday) bool {
	for _, x := range w {
		if x == d {
			return true
		}
	}
	return false
}

// Normalize returns the days sorted Sunday first with duplicates removed.
func (w Weekdays) Normalize() Weekdays {
	if len(w) == 0 {
		return nil
	}
	seen := make(map[time.Weekday]bool, len(w))
	out := make(Weekdays, 0, len(w))
	for _, d := range w {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (w Weekdays) names() []string {
	out := make([]string, len(w))
	for i, d := range w {
		out[i] = strings.ToLower(d.String())
	}
	return out
}

func (w Weekdays) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.names())
}

func (w *Weekdays) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	out := make(Weekdays, 0, len(names))
	for _, n := range names {
		d, err := ParseWeekday(n)
		if err != nil {
			return err
		}
		out = append(out, d)
	}
	*w = out.Normalize()
	return nil
}

// Value stores the set as a comma separated list, e.g. "monday,friday".
func (w Weekdays) Value() (driver.Value, error) {
	if len(w) == 0 {
		return "", nil
	}
	return strings.Join(w.Normalize().names(), ","), nil
}

func (w *Weekdays) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case nil:
		*w = nil
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Weekdays", src)
	}
	if strings.TrimSpace(s) == "" {
		*w = nil
		return nil
	}
	var out Weekdays
	for _, part := range strings.Split(s, ",") {
		d, err := ParseWeekday(part)
		if err != nil {
			return err
		}
		out = append(out, d)
	}
	*w = out.Normalize()
	return nil
}
