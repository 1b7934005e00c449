package model

import (
	"fmt"
	"strings"
)

// Term represents a single glossary entry.
// Terms are values: updating a term means replacing it with another value
// stored under the same slot.
type Term struct {
	Name       string `json:"name" yaml:"name"`                                 // Unique key within a glossary
	Definition string `json:"definition,omitempty" yaml:"definition,omitempty"` // May be empty
}

// NewTerm creates a term from its name and definition.
func NewTerm(name, definition string) Term {
	return Term{Name: name, Definition: definition}
}

// HasValidName reports whether the name is neither empty nor whitespace only.
func (t Term) HasValidName() bool {
	return strings.TrimSpace(t.Name) != ""
}

// Equal reports whether both terms have the same name and definition.
func (t Term) Equal(other Term) bool {
	return t.Name == other.Name && t.Definition == other.Definition
}

func (t Term) String() string {
	return fmt.Sprintf("%s - %s", t.Name, t.Definition)
}
