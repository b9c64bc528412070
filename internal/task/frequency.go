package task

import (
	"fmt"
	"strings"
	"time"
)

// Frequency is how often a task recurs. Interval frequencies carry their
// period in days; SpecificDays recurs on an explicit weekday list instead.
type Frequency int

const (
	Everyday         Frequency = 1
	EveryTwoDays     Frequency = 2
	EveryThreeDays   Frequency = 3
	Weekly           Frequency = 7
	Monthly          Frequency = 30
	EveryTwoMonths   Frequency = 60
	EveryThreeMonths Frequency = 90
	EveryHalfYear    Frequency = 180
	SpecificDays     Frequency = -1
)

var frequencyNames = map[Frequency]string{
	Everyday:         "EVERYDAY",
	EveryTwoDays:     "EVERY_TWO_DAYS",
	EveryThreeDays:   "EVERY_THREE_DAYS",
	Weekly:           "WEEKLY",
	Monthly:          "MONTHLY",
	EveryTwoMonths:   "EVERY_TWO_MONTH",
	EveryThreeMonths: "EVERY_THREE_MONTH",
	EveryHalfYear:    "EVERY_HALF_YEAR",
	SpecificDays:     "SPECIFIC_DAYS",
}

// Frequencies lists every frequency in menu order.
var Frequencies = []Frequency{
	Everyday,
	EveryTwoDays,
	EveryThreeDays,
	Weekly,
	Monthly,
	EveryTwoMonths,
	EveryThreeMonths,
	EveryHalfYear,
	SpecificDays,
}

func (f Frequency) String() string {
	if s, ok := frequencyNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Frequency(%d)", int(f))
}

// Interval is the recurrence period. Zero for SpecificDays.
func (f Frequency) Interval() time.Duration {
	if f == SpecificDays {
		return 0
	}
	return time.Duration(f) * 24 * time.Hour
}

// ParseFrequency resolves a stored or callback name back to a Frequency.
func ParseFrequency(s string) (Frequency, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for f, n := range frequencyNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown frequency %q", s)
}

var weekdayNames = map[time.Weekday]string{
	time.Monday:    "MON",
	time.Tuesday:   "TUE",
	time.Wednesday: "WED",
	time.Thursday:  "THU",
	time.Friday:    "FRI",
	time.Saturday:  "SAT",
	time.Sunday:    "SUN",
}

// ParseDaysOfWeek validates a comma separated weekday list ("MON,THU")
// and returns it normalized.
func ParseDaysOfWeek(s string) (string, error) {
	valid := make(map[string]bool, len(weekdayNames))
	for _, n := range weekdayNames {
		valid[n] = true
	}

	var days []string
	for _, part := range strings.Split(s, ",") {
		d := strings.ToUpper(strings.TrimSpace(part))
		if d == "" {
			continue
		}
		if !valid[d] {
			return "", fmt.Errorf("unknown weekday %q", part)
		}
		days = append(days, d)
	}
	if len(days) == 0 {
		return "", fmt.Errorf("empty weekday list")
	}
	return strings.Join(days, ","), nil
}

func weekdayListed(list string, day time.Weekday) bool {
	name := weekdayNames[day]
	for _, d := range strings.Split(list, ",") {
		if strings.TrimSpace(d) == name {
			return true
		}
	}
	return false
}
