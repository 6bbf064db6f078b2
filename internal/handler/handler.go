// Package handler contains chi HTTP handlers that expose the live page and
// turn form posts into submit events.
package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/activities-frontend/internal/dom"
	"github.com/Shivanand-hulikatti/activities-frontend/internal/model"
	"github.com/Shivanand-hulikatti/activities-frontend/internal/signup"
)

// Page is the live document as seen by the transport. Each browser works
// on its own session of the page.
type Page interface {
	Open(sessionID string) (string, error)
	Snapshot(sessionID string) (*dom.Document, error)
	Submit(ctx context.Context, sessionID string, action signup.Action, email, activity string) *signup.Task
}

// sessionCookie carries the visitor session ID.
const sessionCookie = "activities_session"

// PageHandler holds the HTTP handlers for the activities page.
type PageHandler struct {
	page   Page
	logger *zap.Logger
	csrf   bool
}

// NewPageHandler constructs a PageHandler. With csrfEnabled the served form
// carries the gorilla/csrf token field.
func NewPageHandler(page Page, logger *zap.Logger, csrfEnabled bool) *PageHandler {
	return &PageHandler{page: page, logger: logger, csrf: csrfEnabled}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// session resolves the visitor session of r and refreshes the cookie when
// the page handed out a new one.
func (h *PageHandler) session(w http.ResponseWriter, r *http.Request) (string, error) {
	var current string
	if c, err := r.Cookie(sessionCookie); err == nil {
		current = c.Value
	}
	id, err := h.page.Open(current)
	if err != nil {
		return "", err
	}
	if id != current {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return id, nil
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

// Index handles GET /
// Serves a snapshot of the page as this visitor left it.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	id, err := h.session(w, r)
	if err != nil {
		h.logger.Error("open session", zap.Error(err))
		http.Error(w, "page unavailable", http.StatusServiceUnavailable)
		return
	}
	snap, err := h.page.Snapshot(id)
	if err != nil {
		h.logger.Error("snapshot page", zap.Error(err))
		http.Error(w, "page unavailable", http.StatusServiceUnavailable)
		return
	}
	if h.csrf {
		if form := snap.ElementByID(dom.IDSignupForm); form != nil {
			form.AppendChild(dom.Element("input", "type", "hidden", "name", csrfField, "value", csrf.Token(r)))
		}
	}

	var buf bytes.Buffer
	if err := snap.Render(&buf); err != nil {
		h.logger.Error("render page", zap.Error(err))
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// Signup handles POST /signup
// Submits the form's email and activity into the visitor's page and waits
// for this submission only.
func (h *PageHandler) Signup(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, signup.ActionSignup)
}

// Unregister handles POST /unregister
func (h *PageHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, signup.ActionUnregister)
}

func (h *PageHandler) submit(w http.ResponseWriter, r *http.Request, action signup.Action) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body: "+err.Error())
		return
	}

	id, err := h.session(w, r)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "page is shutting down")
		return
	}
	task := h.page.Submit(r.Context(), id, action, r.PostFormValue("email"), r.PostFormValue("activity"))
	if task == nil {
		writeError(w, http.StatusServiceUnavailable, "page is shutting down")
		return
	}
	outcome, err := task.Wait(r.Context())
	if err != nil {
		// Client left; the task still completes and updates the page.
		h.logger.Debug("submission wait abandoned", zap.String("task_id", task.ID), zap.Error(err))
		return
	}

	if wantsJSON(r) {
		status := http.StatusOK
		if !outcome.Succeeded {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, outcomeResponse{SignupOutcome: outcome, TaskID: task.ID})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type outcomeResponse struct {
	model.SignupOutcome
	TaskID string `json:"task_id"`
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
