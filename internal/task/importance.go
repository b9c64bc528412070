package task

import (
	"fmt"
	"strings"
)

// Importance ranks a task from 1 (lowest) to 5 (highest).
type Importance int

const (
	NotImportant      Importance = 1
	SomewhatImportant Importance = 2
	MediumImportant   Importance = 3
	Important         Importance = 4
	VeryImportant     Importance = 5
)

var importanceNames = map[Importance]string{
	NotImportant:      "NOT_IMPORTANT",
	SomewhatImportant: "SOMEWHAT_IMPORTANT",
	MediumImportant:   "MEDIUM_IMPORTANT",
	Important:         "IMPORTANT",
	VeryImportant:     "VERY_IMPORTANT",
}

// Importances lists every level in menu order.
var Importances = []Importance{
	NotImportant,
	SomewhatImportant,
	MediumImportant,
	Important,
	VeryImportant,
}

func (i Importance) String() string {
	if s, ok := importanceNames[i]; ok {
		return s
	}
	return fmt.Sprintf("Importance(%d)", int(i))
}

// Stars renders the level as a compact marker for task listings.
func (i Importance) Stars() string {
	if i < NotImportant || i > VeryImportant {
		i = MediumImportant
	}
	return strings.Repeat("⭐", int(i))
}

// ParseImportance resolves a stored or callback name back to an Importance.
func ParseImportance(s string) (Importance, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range importanceNames {
		if n == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown importance %q", s)
}
