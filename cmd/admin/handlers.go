package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/justinas/nosurf"

	"glossary-manager/internal/model"
	"glossary-manager/internal/templating"
	"glossary-manager/internal/terms"
)

const (
	dashboardTitle  = "Glossary admin"
	flashCookieName = "glossary_flash"
)

// errorResponse is the JSON body returned for failed API calls.
type errorResponse struct {
	Error    string `json:"error"`
	Kind     string `json:"kind"`
	Recreate bool   `json:"recreate,omitempty"`
}

// recreateRequest is the body of POST /api/storage/recreate.
type recreateRequest struct {
	Terms []model.Term `json:"terms"`
}

type recreateResponse struct {
	Recreated int `json:"recreated"`
}

// dashboardHandler serves the admin dashboard. When the storage is invalid it
// shows the held terms and offers to recreate the file from them.
func (app *adminApplication) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	data := app.engine.LoadPage(dashboardTitle)
	data.CSRFToken = nosurf.Token(r)

	if data.StorageInvalid {
		data.Terms = templating.SortByName(app.heldTerms())
	}
	if msg := app.popFlash(w, r); msg != "" && data.Notification == "" {
		data.Notification = msg
	}

	var buf bytes.Buffer
	if err := app.engine.Render(&buf, templating.PageDashboard, data); err != nil {
		app.logger.Error("Error rendering dashboard", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		app.logger.Error("Error writing dashboard response", "error", err)
	}
}

// termCreateHandler handles the new term form.
func (app *adminApplication) termCreateHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	term := model.NewTerm(r.PostForm.Get("name"), r.PostForm.Get("definition"))

	_, err := app.storage.AddTerm(term)
	app.finishForm(w, r, "add", term.Name, err)
}

// termEditHandler handles the inline edit form of a term row.
func (app *adminApplication) termEditHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	oldTerm := model.NewTerm(r.PostForm.Get("old_name"), "")
	newTerm := model.NewTerm(r.PostForm.Get("name"), r.PostForm.Get("definition"))

	_, err := app.storage.UpdateTerm(oldTerm, newTerm)
	app.finishForm(w, r, "update", oldTerm.Name, err)
}

// termDeleteHandler handles the delete button of a term row.
func (app *adminApplication) termDeleteHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	term := model.NewTerm(r.PostForm.Get("name"), "")

	_, err := app.storage.RemoveTerm(term)
	app.finishForm(w, r, "remove", term.Name, err)
}

// storageRecreateHandler rewrites the storage file from the held terms.
func (app *adminApplication) storageRecreateHandler(w http.ResponseWriter, r *http.Request) {
	held := app.heldTerms()
	err := app.storage.RecreateStorage(held)
	app.finishForm(w, r, "recreate", app.cfg.StoragePath, err)
}

// finishForm redirects back to the dashboard. A failure message travels in
// the flash cookie and is shown once by the next dashboard render.
func (app *adminApplication) finishForm(w http.ResponseWriter, r *http.Request, op, name string, err error) {
	if err != nil {
		app.logger.Warn("Dashboard operation failed", "op", op, "name", name, "kind", terms.Kind(err), "error", err)
		setFlash(w, templating.Notification(err))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	app.logger.Info("Dashboard operation succeeded", "op", op, "name", name)
	app.refreshHeld()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func setFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash returns the pending flash message, if any, and clears the cookie.
func (app *adminApplication) popFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookieName)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookieName, Path: "/", MaxAge: -1})

	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		app.logger.Warn("Dropping malformed flash cookie", "error", err)
		return ""
	}
	return msg
}

func (app *adminApplication) apiListTermsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.storage.LoadTerms()
	if err != nil {
		app.writeError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, list)
}

func (app *adminApplication) apiAddTermHandler(w http.ResponseWriter, r *http.Request) {
	var term model.Term
	if err := json.NewDecoder(r.Body).Decode(&term); err != nil {
		app.writeBadBody(w, err)
		return
	}

	added, err := app.storage.AddTerm(term)
	if err != nil {
		app.writeError(w, err)
		return
	}
	app.refreshHeld()
	app.writeJSON(w, http.StatusCreated, added)
}

func (app *adminApplication) apiUpdateTermHandler(w http.ResponseWriter, r *http.Request) {
	name, err := termNameParam(r)
	if err != nil {
		app.writeBadBody(w, err)
		return
	}
	var newTerm model.Term
	if err := json.NewDecoder(r.Body).Decode(&newTerm); err != nil {
		app.writeBadBody(w, err)
		return
	}

	updated, err := app.storage.UpdateTerm(model.NewTerm(name, ""), newTerm)
	if err != nil {
		app.writeError(w, err)
		return
	}
	app.refreshHeld()
	app.writeJSON(w, http.StatusOK, updated)
}

func (app *adminApplication) apiRemoveTermHandler(w http.ResponseWriter, r *http.Request) {
	name, err := termNameParam(r)
	if err != nil {
		app.writeBadBody(w, err)
		return
	}

	removed, err := app.storage.RemoveTerm(model.NewTerm(name, ""))
	if err != nil {
		app.writeError(w, err)
		return
	}
	app.refreshHeld()
	app.writeJSON(w, http.StatusOK, removed)
}

// apiRecreateStorageHandler recreates the storage from the request body, or
// from the held terms when the body is empty.
func (app *adminApplication) apiRecreateStorageHandler(w http.ResponseWriter, r *http.Request) {
	var req recreateRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	switch {
	case errors.Is(err, io.EOF):
		req.Terms = app.heldTerms()
	case err != nil:
		app.writeBadBody(w, err)
		return
	}

	if err := app.storage.RecreateStorage(req.Terms); err != nil {
		app.writeError(w, err)
		return
	}
	app.logger.Info("Storage recreated", "path", app.cfg.StoragePath, "terms", len(req.Terms))
	app.refreshHeld()
	app.writeJSON(w, http.StatusOK, recreateResponse{Recreated: len(req.Terms)})
}

// termNameParam returns the {name} route parameter. chi matches on the raw
// path only when the request carries one (e.g. an encoded "/"), so the
// parameter is unescaped in that case alone.
func termNameParam(r *http.Request) (string, error) {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name, nil
	}
	return url.PathUnescape(name)
}

// statusFor maps an error kind to its HTTP status code.
func statusFor(kind string) int {
	switch kind {
	case terms.KindInvalidArgument:
		return http.StatusBadRequest
	case terms.KindDuplicateTerm:
		return http.StatusConflict
	case terms.KindTermNotFound:
		return http.StatusNotFound
	case terms.KindStorageInvalid:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (app *adminApplication) writeError(w http.ResponseWriter, err error) {
	kind := terms.Kind(err)
	status := statusFor(kind)
	if status >= http.StatusInternalServerError {
		app.logger.Error("API request failed", "kind", kind, "error", err)
	}
	app.writeJSON(w, status, errorResponse{
		Error:    templating.Notification(err),
		Kind:     kind,
		Recreate: kind == terms.KindStorageInvalid,
	})
}

func (app *adminApplication) writeBadBody(w http.ResponseWriter, err error) {
	app.writeJSON(w, http.StatusBadRequest, errorResponse{
		Error: fmt.Sprintf("invalid request: %v", err),
		Kind:  terms.KindInvalidArgument,
	})
}

func (app *adminApplication) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		app.logger.Error("Failed to encode JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(data, '\n')); err != nil {
		app.logger.Error("Error writing JSON response", "error", err)
	}
}
