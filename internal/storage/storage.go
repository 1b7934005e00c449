package storage

// DocumentStore defines the operations needed for persisting a glossary document.
// A document is always loaded and saved whole; implementations hold no state
// between calls other than their location.
type DocumentStore interface {
	// Load reads the complete document from the store.
	Load() (*Document, error)

	// Save replaces the stored document with doc.
	// Either the whole document is persisted or the previous content is left intact.
	Save(doc *Document) error

	// Path returns the location of the stored document.
	Path() string
}
