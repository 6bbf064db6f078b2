// Package service wires the page components together and runs the startup
// sequence: inject styles, load the directory once, render it. Every visitor
// then works on a private copy of the rendered page.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/activities-frontend/internal/dom"
	"github.com/Shivanand-hulikatti/activities-frontend/internal/model"
	"github.com/Shivanand-hulikatti/activities-frontend/internal/render"
	"github.com/Shivanand-hulikatti/activities-frontend/internal/signup"
	"github.com/Shivanand-hulikatti/activities-frontend/internal/style"
)

// ErrAlreadyStarted is returned by a second call to Start.
var ErrAlreadyStarted = errors.New("app already started")

// Fetch result labels.
const (
	FetchOK     = "ok"
	FetchFailed = "failed"
)

// Fetcher loads the activity directory.
type Fetcher interface {
	LoadActivities(ctx context.Context) (model.Directory, error)
}

// Stats receives startup measurements.
type Stats interface {
	ObserveFetch(result string)
	SetRenderedCards(n int)
	signup.Observer
}

// DefaultSessionTTL is how long an idle visitor keeps its page.
const DefaultSessionTTL = 30 * time.Minute

// Deps are the collaborators of an App.
type Deps struct {
	Fetcher    Fetcher
	Backend    signup.Backend
	Logger     *zap.Logger
	Stats      Stats
	HideDelay  time.Duration
	Scheduler  signup.Scheduler
	SessionTTL time.Duration
	Now        func() time.Time
}

// session is one visitor's copy of the page. The form values and message
// banner live here; the directory is copied from the base at creation.
type session struct {
	doc      *dom.Document
	form     *dom.Form
	signup   *signup.Controller
	lastSeen time.Time
}

// App owns the base document, the per-visitor copies and their components.
// The sessions map is only touched on the loop.
type App struct {
	doc      *dom.Document
	loop     *dom.Loop
	styles   *style.Injector
	renderer *render.Renderer
	fetcher  Fetcher
	backend  signup.Backend
	opts     []signup.Option
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
	stats    Stats
	started  atomic.Bool
}

// New resolves the page elements by their fixed IDs and builds the
// components around them. It fails when the page lacks a required element.
func New(doc *dom.Document, d Deps) (*App, error) {
	head, err := doc.Head()
	if err != nil {
		return nil, fmt.Errorf("bind page: %w", err)
	}
	list, err := doc.ListContainer(dom.IDActivitiesList)
	if err != nil {
		return nil, fmt.Errorf("bind page: %w", err)
	}
	sel, err := doc.SelectControl(dom.IDActivitySelect)
	if err != nil {
		return nil, fmt.Errorf("bind page: %w", err)
	}
	if _, _, err := bindVisitor(doc); err != nil {
		return nil, err
	}

	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []signup.Option{}
	if d.HideDelay > 0 {
		opts = append(opts, signup.WithHideDelay(d.HideDelay))
	}
	if d.Scheduler != nil {
		opts = append(opts, signup.WithScheduler(d.Scheduler))
	}
	if d.Stats != nil {
		opts = append(opts, signup.WithObserver(d.Stats))
	}
	ttl := d.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}

	return &App{
		doc:      doc,
		loop:     dom.NewLoop(logger.Named("loop")),
		styles:   style.NewInjector(head),
		renderer: render.NewRenderer(list, sel),
		fetcher:  d.Fetcher,
		backend:  d.Backend,
		opts:     opts,
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      now,
		logger:   logger,
		stats:    d.Stats,
	}, nil
}

func bindVisitor(doc *dom.Document) (*dom.Form, *dom.MessageArea, error) {
	form, err := doc.Form(dom.IDSignupForm, dom.IDEmailInput, dom.IDActivitySelect)
	if err != nil {
		return nil, nil, fmt.Errorf("bind page: %w", err)
	}
	msg, err := doc.MessageArea(dom.IDMessage)
	if err != nil {
		return nil, nil, fmt.Errorf("bind page: %w", err)
	}
	return form, msg, nil
}

// Start injects the stylesheet, loads the directory and renders it. A load
// failure replaces the list with the failure message and is returned after
// rendering so the caller can report it; the page stays usable.
func (a *App) Start(ctx context.Context) error {
	if !a.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	if err := a.loop.Do(a.styles.EnsureParticipantStyles); err != nil {
		return err
	}

	dir, loadErr := a.fetcher.LoadActivities(ctx)
	if loadErr != nil {
		a.logger.Error("error fetching activities", zap.Error(loadErr))
		a.observeFetch(FetchFailed)
		if err := a.loop.Do(a.renderer.RenderFailure); err != nil {
			return err
		}
		return loadErr
	}

	var cards int
	if err := a.loop.Do(func() { cards = a.renderer.Render(dir) }); err != nil {
		return err
	}
	a.observeFetch(FetchOK)
	if a.stats != nil {
		a.stats.SetRenderedCards(cards)
	}
	a.logger.Info("activities rendered", zap.Int("cards", cards), zap.Strings("activities", dir.Names()))
	return nil
}

func (a *App) observeFetch(result string) {
	if a.stats != nil {
		a.stats.ObserveFetch(result)
	}
}

// Open returns the ID of the visitor session id names, creating a new
// session under a fresh ID when id is empty, unknown or expired. Idle
// sessions are dropped whenever a new one is created.
func (a *App) Open(id string) (string, error) {
	var (
		resolved string
		bindErr  error
	)
	err := a.loop.Do(func() {
		now := a.now()
		if s, ok := a.sessions[id]; ok && now.Sub(s.lastSeen) <= a.ttl {
			s.lastSeen = now
			resolved = id
			return
		}
		a.sweep(now)
		s, err := a.newSession(now)
		if err != nil {
			bindErr = err
			return
		}
		resolved = uuid.NewString()
		a.sessions[resolved] = s
	})
	if err != nil {
		return "", err
	}
	return resolved, bindErr
}

// Must run on the loop.
func (a *App) newSession(now time.Time) (*session, error) {
	doc := a.doc.Clone()
	form, msg, err := bindVisitor(doc)
	if err != nil {
		return nil, err
	}
	return &session{
		doc:      doc,
		form:     form,
		signup:   signup.New(a.backend, a.loop, form, msg, a.logger.Named("signup"), a.opts...),
		lastSeen: now,
	}, nil
}

// Must run on the loop.
func (a *App) sweep(now time.Time) {
	for id, s := range a.sessions {
		if now.Sub(s.lastSeen) > a.ttl {
			delete(a.sessions, id)
		}
	}
}

// Submit records the entered values in the session's form and starts a task
// for action. It returns nil when the app has shut down or the session is
// unknown.
func (a *App) Submit(ctx context.Context, sessionID string, action signup.Action, email, activity string) *signup.Task {
	var s *session
	if err := a.loop.Do(func() {
		s = a.sessions[sessionID]
		if s == nil {
			return
		}
		s.lastSeen = a.now()
		s.form.Fill(email, activity)
	}); err != nil || s == nil {
		return nil
	}
	if action == signup.ActionUnregister {
		return s.signup.Unregister(ctx, email, activity)
	}
	return s.signup.Submit(ctx, email, activity)
}

// Snapshot returns a private copy of the page as the session sees it. An
// empty or unknown ID yields the base page with no visitor state.
func (a *App) Snapshot(sessionID string) (*dom.Document, error) {
	var snap *dom.Document
	if err := a.loop.Do(func() {
		src := a.doc
		if s, ok := a.sessions[sessionID]; ok {
			s.lastSeen = a.now()
			src = s.doc
		}
		snap = src.Clone()
	}); err != nil {
		return nil, err
	}
	return snap, nil
}

// Close stops the document loop. Tasks still in flight finish their network
// call but can no longer change the page.
func (a *App) Close() {
	a.loop.Close()
}
