package portal

import (
	"errors"
	"strings"
)

// ErrMissingFields rejects a login form with blank fields.
var ErrMissingFields = errors.New("please fill in all fields")

// Profile is the signed-in student shown on the profile tab.
type Profile struct {
	StudentID  string `json:"studentId"`
	SchoolName string `json:"schoolName"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Grade      string `json:"grade"`
	Section    string `json:"section"`
}

// LoginRequest is the login form. The password is required but never checked.
type LoginRequest struct {
	StudentID  string `json:"studentId"`
	SchoolName string `json:"schoolName"`
	Password   string `json:"password"`
}

// NewProfile builds the mock profile for a login form.
func NewProfile(req LoginRequest) (Profile, error) {
	studentID := strings.TrimSpace(req.StudentID)
	school := strings.TrimSpace(req.SchoolName)
	if studentID == "" || school == "" || req.Password == "" {
		return Profile{}, ErrMissingFields
	}
	return Profile{
		StudentID:  studentID,
		SchoolName: school,
		Name:       "John Doe",
		Email:      "john.doe@email.com",
		Grade:      "10th Grade",
		Section:    "A",
	}, nil
}
