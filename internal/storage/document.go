package storage

import (
	"slices"

	"glossary-manager/internal/model"
)

// Document is the ordered collection of terms held by one storage file.
type Document struct {
	terms []model.Term
}

// NewDocument creates a document holding terms in the given order.
func NewDocument(terms ...model.Term) *Document {
	return &Document{terms: slices.Clone(terms)}
}

// Len returns the number of records in the document.
func (d *Document) Len() int {
	return len(d.terms)
}

// Terms returns a copy of the records in document order. Never nil.
func (d *Document) Terms() []model.Term {
	out := make([]model.Term, len(d.terms))
	copy(out, d.terms)
	return out
}

// Index returns the position of the record named name, or -1.
func (d *Document) Index(name string) int {
	return slices.IndexFunc(d.terms, func(t model.Term) bool { return t.Name == name })
}

// Contains reports whether a record named name exists.
func (d *Document) Contains(name string) bool {
	return d.Index(name) >= 0
}

// Append adds term at the end of the document.
func (d *Document) Append(term model.Term) {
	d.terms = append(d.terms, term)
}

// Replace overwrites the record at position i, keeping its position.
func (d *Document) Replace(i int, term model.Term) {
	d.terms[i] = term
}

// Remove deletes the record at position i.
func (d *Document) Remove(i int) {
	d.terms = slices.Delete(d.terms, i, i+1)
}
