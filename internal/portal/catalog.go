package portal

import (
	"context"
	"strings"
)

// ClassInfo describes one grade on the classes tab.
type ClassInfo struct {
	Grade       int      `json:"grade"`
	Subjects    []string `json:"subjects"`
	Students    int      `json:"students"`
	HoursPerDay int      `json:"hoursPerDay"`
}

// Document is an entry on the documents tab.
type Document struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Size    string `json:"size"`
	Date    string `json:"date"`
	Subject string `json:"subject"`
	Grade   string `json:"grade"`
	Status  string `json:"status"`
	URL     string `json:"url,omitempty"`
}

// Catalog serves the read-only reference data of the dashboard.
type Catalog interface {
	Classes(ctx context.Context) ([]ClassInfo, error)
	Documents(ctx context.Context) ([]Document, error)
}

// FindClass returns the class for grade, or nil when the catalog has none.
func FindClass(ctx context.Context, c Catalog, grade int) (*ClassInfo, error) {
	classes, err := c.Classes(ctx)
	if err != nil {
		return nil, err
	}
	for i := range classes {
		if classes[i].Grade == grade {
			return &classes[i], nil
		}
	}
	return nil, nil
}

const defaultHoursPerDay = 6

var (
	core      = []string{"English", "Math", "Science"}
	social    = []string{"English", "Math", "Science", "Social Studies"}
	humanity  = []string{"English", "Math", "Science", "History", "Geography"}
	sciences  = []string{"English", "Math", "Physics", "Chemistry", "Biology"}
	withArt   = []string{"English", "Math", "Science", "Social Studies", "Art"}
	studentsN = []int{25, 28, 30, 27, 32, 29, 31, 26, 33, 28, 24, 22}
)

// Static is the built-in catalog.
type Static struct{}

func (Static) Classes(context.Context) ([]ClassInfo, error) {
	out := make([]ClassInfo, 0, len(studentsN))
	for i, n := range studentsN {
		grade := i + 1
		var subjects []string
		switch {
		case grade <= 2:
			subjects = core
		case grade <= 5:
			subjects = social
		case grade == 6:
			subjects = withArt
		case grade <= 8:
			subjects = humanity
		default:
			subjects = sciences
		}
		out = append(out, ClassInfo{
			Grade:       grade,
			Subjects:    append([]string(nil), subjects...),
			Students:    n,
			HoursPerDay: defaultHoursPerDay,
		})
	}
	return out, nil
}

func (Static) Documents(context.Context) ([]Document, error) {
	return []Document{
		{ID: "1", Name: "Mathematics Assignment - Chapter 5", Type: "Assignment", Size: "2.4 MB", Date: "2024-01-15", Subject: "Mathematics", Grade: "10", Status: "Active"},
		{ID: "2", Name: "Science Lab Report Template", Type: "Template", Size: "1.2 MB", Date: "2024-01-12", Subject: "Science", Grade: "9", Status: "Active"},
		{ID: "3", Name: "English Literature Notes", Type: "Notes", Size: "3.1 MB", Date: "2024-01-10", Subject: "English", Grade: "11", Status: "Draft"},
		{ID: "4", Name: "History Project Guidelines", Type: "Guidelines", Size: "0.8 MB", Date: "2024-01-08", Subject: "History", Grade: "12", Status: "Active"},
		{ID: "5", Name: "Chemistry Exam Paper", Type: "Exam", Size: "1.6 MB", Date: "2024-01-05", Subject: "Chemistry", Grade: "11", Status: "Active"},
	}, nil
}

func matches(d Document, q string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	for _, field := range []string{d.Name, d.Subject, d.Type} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
