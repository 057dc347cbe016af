package attendance

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Status is the attendance state of a scanned card.
type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
)

// TimeLayout renders scan times the way the dashboard table shows them.
const TimeLayout = "3:04:05 PM"

// Record is one row of the register.
type Record struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Time      string    `json:"time"`
	Status    Status    `json:"status"`
	ScannedAt time.Time `json:"-"`
}

// DisplayName derives the shown student name from a card identifier: the last
// three characters, left-padded with '0' to width three.
func DisplayName(id string) string {
	n := utf8.RuneCountInString(id)
	if n > 3 {
		r := []rune(id)
		id = string(r[n-3:])
		n = 3
	}
	return "Student " + strings.Repeat("0", 3-n) + id
}

func (s Status) toggled() Status {
	if s == StatusPresent {
		return StatusAbsent
	}
	return StatusPresent
}
