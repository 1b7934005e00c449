package templating

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"slices"
	"strings"

	"glossary-manager/internal/model"
	"glossary-manager/internal/terms"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names accepted by Render.
const (
	PageGlossary  = "page"
	PageDashboard = "dashboard"
)

// storageInvalidNotice is shown instead of the raw error when storage is broken.
const storageInvalidNotice = "The terms storage is invalid. It can be recreated from the terms shown here."

// PageData holds everything the page templates need.
type PageData struct {
	Title          string
	Terms          []model.Term // Sorted by name
	Notification   string
	StorageInvalid bool
	CSRFToken      string
}

// Engine renders glossary pages from the embedded templates.
type Engine struct {
	store terms.Storage
	cache map[string]*template.Template
}

// NewEngine parses the embedded templates. Each page is parsed together with
// the shared layout into its own set, since every page defines "content".
func NewEngine(store terms.Storage) (*Engine, error) {
	cache := map[string]*template.Template{}
	for _, page := range []string{PageGlossary, PageDashboard} {
		ts, err := template.New(page).ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("error parsing page template %s: %w", page, err)
		}
		cache[page] = ts
	}
	return &Engine{store: store, cache: cache}, nil
}

// LoadPage loads the current terms into page data. A storage failure is not
// returned as an error; it is reported through Notification and
// StorageInvalid so the page can still render.
func (e *Engine) LoadPage(title string) PageData {
	data := PageData{Title: title}

	list, err := e.store.LoadTerms()
	if err != nil {
		data.Notification = Notification(err)
		data.StorageInvalid = errors.Is(err, terms.ErrStorageInvalid)
		data.Terms = []model.Term{}
		return data
	}

	data.Terms = SortByName(list)
	return data
}

// Render executes the named page into w.
func (e *Engine) Render(w io.Writer, page string, data PageData) error {
	ts, ok := e.cache[page]
	if !ok {
		return fmt.Errorf("the template %s does not exist", page)
	}

	// Render into a buffer first so a failed execution writes nothing.
	var buf bytes.Buffer
	if err := ts.ExecuteTemplate(&buf, page, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// RenderGlossary renders the read-only glossary page to a string.
func (e *Engine) RenderGlossary(title string) (string, error) {
	var sb strings.Builder
	if err := e.Render(&sb, PageGlossary, e.LoadPage(title)); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Notification turns a storage error into the message shown to users.
// Storage faults get a generic notice; everything else keeps its own text.
func Notification(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, terms.ErrStorageInvalid) {
		return storageInvalidNotice
	}
	return err.Error()
}

// SortByName returns a copy of list ordered by term name.
func SortByName(list []model.Term) []model.Term {
	out := slices.Clone(list)
	if out == nil {
		out = []model.Term{}
	}
	slices.SortFunc(out, func(a, b model.Term) int { return strings.Compare(a.Name, b.Name) })
	return out
}
