package department

import (
	"errors"
	"strings"
)

// DefaultDepartments seeds an empty installation.
var DefaultDepartments = []string{"Designers", "Menu Upload", "Finance", "Customer Handling"}

var (
	ErrEmptyName     = errors.New("department name is empty")
	ErrAlreadyExists = errors.New("department already exists")
	ErrNotFound      = errors.New("department not found")
)

// Normalize trims surrounding whitespace from a submitted name.
func Normalize(name string) string {
	return strings.TrimSpace(name)
}

func indexOf(list []string, name string) int {
	for i, d := range list {
		if d == name {
			return i
		}
	}
	return -1
}
