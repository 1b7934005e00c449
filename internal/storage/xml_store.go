package storage

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"glossary-manager/internal/model"
	"glossary-manager/pkg/fsutils"
)

// xmlTerms mirrors the on-disk layout:
//
//	<Terms>
//	  <Term Name="..." Definition="..."/>
//	</Terms>
//
// Definition is omitted when empty; an absent attribute reads back as "".
type xmlTerms struct {
	XMLName xml.Name  `xml:"Terms"`
	Terms   []xmlTerm `xml:"Term"`
}

type xmlTerm struct {
	Name       string `xml:"Name,attr"`
	Definition string `xml:"Definition,attr,omitempty"`
}

// XMLStore implements the DocumentStore interface using a single XML file.
type XMLStore struct {
	// path is the XML file holding the whole glossary.
	path string
}

// NewXMLStore creates a new XMLStore for the file at path.
// The file is not touched until the first Load or Save.
func NewXMLStore(path string) *XMLStore {
	return &XMLStore{path: path}
}

// Path returns the XML file path of the store.
func (s *XMLStore) Path() string {
	return s.path
}

// Load reads and decodes the whole XML file.
func (s *XMLStore) Load() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("terms file %s not found: %w", s.path, err)
		}
		return nil, fmt.Errorf("failed to read terms file %s: %w", s.path, err)
	}

	doc, err := DecodeXML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode terms file %s: %w", s.path, err)
	}
	return doc, nil
}

// Save encodes doc and atomically replaces the XML file with it.
func (s *XMLStore) Save(doc *Document) error {
	data, err := EncodeXML(doc)
	if err != nil {
		return fmt.Errorf("failed to encode terms for %s: %w", s.path, err)
	}

	if err := fsutils.WriteFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("failed to write terms file %s: %w", s.path, err)
	}
	return nil
}

// DecodeXML parses a <Terms> document. An empty <Terms/> root yields an empty document.
func DecodeXML(data []byte) (*Document, error) {
	var raw xmlTerms
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	doc := &Document{terms: make([]model.Term, 0, len(raw.Terms))}
	for _, t := range raw.Terms {
		doc.terms = append(doc.terms, model.NewTerm(t.Name, t.Definition))
	}
	return doc, nil
}

// EncodeXML renders doc as an indented XML document with a header.
// Text that XML cannot represent is rejected rather than replaced, so a
// saved document always reads back as the same terms.
func EncodeXML(doc *Document) ([]byte, error) {
	raw := xmlTerms{Terms: make([]xmlTerm, 0, doc.Len())}
	for _, t := range doc.terms {
		if err := checkXMLText("name", t.Name); err != nil {
			return nil, err
		}
		if err := checkXMLText("definition", t.Definition); err != nil {
			return nil, fmt.Errorf("term %q: %w", t.Name, err)
		}
		raw.Terms = append(raw.Terms, xmlTerm{Name: t.Name, Definition: t.Definition})
	}

	body, err := xml.MarshalIndent(raw, "", "  ")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(xml.Header) + len(body) + 1)
	buf.WriteString(xml.Header)
	buf.Write(body)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// ErrUnencodable is returned by EncodeXML for text that is not valid UTF-8
// or holds characters outside the XML character range.
var ErrUnencodable = errors.New("text cannot be stored in XML")

func checkXMLText(field, s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%s %q is not valid UTF-8: %w", field, s, ErrUnencodable)
	}
	for i, r := range s {
		if !isXMLChar(r) {
			return fmt.Errorf("%s %q has character %U at byte %d: %w", field, s, r, i, ErrUnencodable)
		}
	}
	return nil
}

// isXMLChar reports whether r is in the Char production of XML 1.0.
func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0x10FFFF)
}
