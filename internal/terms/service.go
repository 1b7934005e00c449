// Package terms provides the glossary term storage service: validated
// create/read/update/delete/recreate operations over a single storage document.
package terms

import (
	"glossary-manager/internal/model"
	"glossary-manager/internal/storage"
)

// Storage defines the operations exposed to glossary front ends.
// Each call either fully succeeds or reports a single error.
type Storage interface {
	// LoadTerms returns every term in storage as one complete batch.
	LoadTerms() ([]model.Term, error)

	// AddTerm stores a new term. The name must not be taken.
	AddTerm(term model.Term) (model.Term, error)

	// UpdateTerm replaces oldTerm with newTerm, possibly renaming it.
	UpdateTerm(oldTerm, newTerm model.Term) (model.Term, error)

	// RemoveTerm deletes the term with the same name as term.
	RemoveTerm(term model.Term) (model.Term, error)

	// RecreateStorage discards the stored document and writes terms in their place.
	RecreateStorage(terms []model.Term) error
}

// Service implements Storage on top of a storage.DocumentStore.
// It keeps no state between calls: every operation reloads the document,
// applies its change in memory and saves the whole document back.
// Concurrent mutating calls against the same file are last-writer-wins.
type Service struct {
	store storage.DocumentStore
}

// NewService creates a service over the XML file at path.
func NewService(path string) *Service {
	return NewServiceWithStore(storage.NewXMLStore(path))
}

// NewServiceWithStore creates a service over an arbitrary document store.
func NewServiceWithStore(store storage.DocumentStore) *Service {
	return &Service{store: store}
}

// Path returns the location of the underlying storage document.
func (s *Service) Path() string {
	return s.store.Path()
}

// LoadTerms reads all terms. Any read, parse or validation failure is
// reported as a *StorageError and no partial result is returned.
func (s *Service) LoadTerms() ([]model.Term, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	terms := doc.Terms()
	for _, t := range terms {
		if err := validateTerm(t, "term"); err != nil {
			return nil, asStorageError("load", s.store.Path(), err)
		}
	}
	return terms, nil
}

// AddTerm appends term to storage and returns it.
func (s *Service) AddTerm(term model.Term) (model.Term, error) {
	if err := validateTerm(term, "term"); err != nil {
		return model.Term{}, err
	}

	doc, err := s.load()
	if err != nil {
		return model.Term{}, err
	}

	// Existing names must go through UpdateTerm.
	if doc.Contains(term.Name) {
		return model.Term{}, &TermError{Op: "add", Name: term.Name, Err: ErrDuplicateTerm}
	}

	doc.Append(term)
	if err := s.save(doc); err != nil {
		return model.Term{}, err
	}
	return term, nil
}

// UpdateTerm replaces the record named oldTerm.Name with newTerm and returns newTerm.
// The record keeps its position in the document.
func (s *Service) UpdateTerm(oldTerm, newTerm model.Term) (model.Term, error) {
	if err := validateTerm(oldTerm, "oldTerm"); err != nil {
		return model.Term{}, err
	}
	if err := validateTerm(newTerm, "newTerm"); err != nil {
		return model.Term{}, err
	}

	doc, err := s.load()
	if err != nil {
		return model.Term{}, err
	}

	i := doc.Index(oldTerm.Name)
	if i < 0 {
		return model.Term{}, &TermError{Op: "update", Name: oldTerm.Name, Err: ErrTermNotFound}
	}
	if oldTerm.Name != newTerm.Name && doc.Contains(newTerm.Name) {
		return model.Term{}, &TermError{Op: "update", Name: newTerm.Name, Err: ErrDuplicateTerm}
	}

	doc.Replace(i, newTerm)
	if err := s.save(doc); err != nil {
		return model.Term{}, err
	}
	return newTerm, nil
}

// RemoveTerm deletes the record named term.Name and returns term.
func (s *Service) RemoveTerm(term model.Term) (model.Term, error) {
	if err := validateTerm(term, "term"); err != nil {
		return model.Term{}, err
	}

	doc, err := s.load()
	if err != nil {
		return model.Term{}, err
	}

	i := doc.Index(term.Name)
	if i < 0 {
		return model.Term{}, &TermError{Op: "remove", Name: term.Name, Err: ErrTermNotFound}
	}

	doc.Remove(i)
	if err := s.save(doc); err != nil {
		return model.Term{}, err
	}
	return term, nil
}

// RecreateStorage replaces any stored content with exactly terms, in order.
// A nil slice is an *ArgumentError; an empty slice recreates an empty store.
// Every other failure, including invalid or duplicate elements, is
// reported as a *StorageError since the operation exists to repair storage.
func (s *Service) RecreateStorage(terms []model.Term) error {
	if terms == nil {
		return &ArgumentError{Arg: "terms", Reason: "collection is nil"}
	}

	doc := storage.NewDocument()
	for _, t := range terms {
		if err := validateTerm(t, "terms"); err != nil {
			return asStorageError("save", s.store.Path(), err)
		}
		if doc.Contains(t.Name) {
			return asStorageError("save", s.store.Path(),
				&TermError{Op: "recreate", Name: t.Name, Err: ErrDuplicateTerm})
		}
		doc.Append(t)
	}

	return s.save(doc)
}

func (s *Service) load() (*storage.Document, error) {
	doc, err := s.store.Load()
	if err != nil {
		return nil, asStorageError("load", s.store.Path(), err)
	}
	return doc, nil
}

func (s *Service) save(doc *storage.Document) error {
	if err := s.store.Save(doc); err != nil {
		return asStorageError("save", s.store.Path(), err)
	}
	return nil
}

// validateTerm applies the rule shared by every operation: the name must be
// neither empty nor whitespace only.
func validateTerm(term model.Term, arg string) error {
	if !term.HasValidName() {
		return &ArgumentError{Arg: arg, Reason: "term name is empty"}
	}
	return nil
}
