package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"glossary-manager/internal/templating"
	"glossary-manager/internal/terms"
)

const pageTitle = "Glossary"

// routes sets up the read-only glossary routes. Every request reads the
// storage file again, so edits made elsewhere show up immediately.
func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/", app.handleGlossaryPage)
	r.Get("/terms.json", app.handleTermsJSON)

	return r
}

// handleGlossaryPage renders the glossary sorted by name. A broken storage
// file still renders the page, with a notice and a 503 status.
func (app *application) handleGlossaryPage(w http.ResponseWriter, r *http.Request) {
	data := app.engine.LoadPage(pageTitle)

	var buf bytes.Buffer
	if err := app.engine.Render(&buf, templating.PageGlossary, data); err != nil {
		app.logger.Error("Error rendering glossary page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if data.StorageInvalid {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if _, err := buf.WriteTo(w); err != nil {
		app.logger.Error("Error writing glossary page", "error", err)
	}
}

// handleTermsJSON returns the stored terms in storage order.
func (app *application) handleTermsJSON(w http.ResponseWriter, r *http.Request) {
	list, err := app.storage.LoadTerms()
	status := http.StatusOK
	var body any = list
	if err != nil {
		app.logger.Warn("Failed to load terms", "error", err)
		status = http.StatusInternalServerError
		if terms.Kind(err) == terms.KindStorageInvalid {
			status = http.StatusServiceUnavailable
		}
		body = map[string]string{"error": templating.Notification(err), "kind": terms.Kind(err)}
	}

	data, err := json.Marshal(body)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		app.logger.Error("Error writing terms response", "error", err)
	}
}
