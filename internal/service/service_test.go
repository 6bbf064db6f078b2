package service

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Shivanand-hulikatti/activities-frontend/internal/backend"
	"github.com/Shivanand-hulikatti/activities-frontend/internal/dom"
	"github.com/Shivanand-hulikatti/activities-frontend/internal/model"
	"github.com/Shivanand-hulikatti/activities-frontend/internal/render"
	"github.com/Shivanand-hulikatti/activities-frontend/internal/signup"
	"github.com/Shivanand-hulikatti/activities-frontend/internal/style"
	"github.com/Shivanand-hulikatti/activities-frontend/web"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	dir   model.Directory
	err   error
}

func (f *fakeFetcher) LoadActivities(context.Context) (model.Directory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.dir, f.err
}

type fakeBackend struct{}

func (fakeBackend) Signup(_ context.Context, r model.SignupRequest) (model.MessageResponse, error) {
	if r.Email == "dup@mergington.edu" {
		return model.MessageResponse{}, &backend.ServerError{Status: 400, Detail: "Student already signed up"}
	}
	return model.MessageResponse{Message: "Signed up " + r.Email + " for " + r.ActivityName}, nil
}

func (fakeBackend) Unregister(_ context.Context, r model.SignupRequest) (model.MessageResponse, error) {
	return model.MessageResponse{Message: "Unregistered " + r.Email}, nil
}

type fakeStats struct {
	mu      sync.Mutex
	fetches []string
	cards   int
	signups []string
}

func (s *fakeStats) ObserveFetch(result string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches = append(s.fetches, result)
}

func (s *fakeStats) SetRenderedCards(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards = n
}

func (s *fakeStats) ObserveSignup(action, result string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signups = append(s.signups, action+"/"+result)
}

func directory() model.Directory {
	return model.Directory{
		{Name: "Chess Club", Description: "Learn strategies", Schedule: "Fridays", MaxParticipants: 12,
			Participants: []string{"michael@mergington.edu"}},
		{Name: "Gym Class", Description: "Sports", Schedule: "Mondays", MaxParticipants: 30},
	}
}

func newApp(t *testing.T, f Fetcher, stats Stats) *App {
	t.Helper()
	doc, err := web.NewDocument()
	require.NoError(t, err)
	deps := Deps{
		Fetcher:   f,
		Backend:   fakeBackend{},
		Logger:    zaptest.NewLogger(t),
		Scheduler: func(time.Duration, func()) {},
	}
	if stats != nil {
		deps.Stats = stats
	}
	app, err := New(doc, deps)
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return app
}

func renderSnapshot(t *testing.T, app *App, sessionID string) (*dom.Document, string) {
	t.Helper()
	snap, err := app.Snapshot(sessionID)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, snap.Render(&buf))
	return snap, buf.String()
}

func formValues(t *testing.T, doc *dom.Document) (email, activity string) {
	t.Helper()
	sel, err := doc.SelectControl(dom.IDActivitySelect)
	require.NoError(t, err)
	return dom.Attr(doc.ElementByID(dom.IDEmailInput), "value"), sel.Value()
}

func TestStart_RendersDirectoryAndStyles(t *testing.T) {
	f := &fakeFetcher{dir: directory()}
	stats := &fakeStats{}
	app := newApp(t, f, stats)

	require.NoError(t, app.Start(context.Background()))

	snap, out := renderSnapshot(t, app, "")
	assert.Contains(t, out, `<style id="participant-styles">`)
	assert.NotContains(t, out, "Loading activities...")
	assert.Equal(t, 2, len(dom.FindAll(snap.ElementByID(dom.IDActivitiesList), dom.ByClass("activity-card"))))
	assert.Contains(t, out, "Availability:</strong> 11 spots left")
	assert.Contains(t, out, render.NoParticipantsText)

	sel, err := snap.SelectControl(dom.IDActivitySelect)
	require.NoError(t, err)
	assert.Equal(t, []dom.Option{
		{Value: "", Label: "-- Select an activity --"},
		{Value: "Chess Club", Label: "Chess Club"},
		{Value: "Gym Class", Label: "Gym Class"},
	}, sel.Options())

	assert.Equal(t, []string{FetchOK}, stats.fetches)
	assert.Equal(t, 2, stats.cards)
}

func TestStart_OnlyOnce(t *testing.T) {
	f := &fakeFetcher{dir: directory()}
	app := newApp(t, f, nil)

	require.NoError(t, app.Start(context.Background()))
	assert.ErrorIs(t, app.Start(context.Background()), ErrAlreadyStarted)
	assert.Equal(t, 1, f.calls)

	snap, _ := renderSnapshot(t, app, "")
	head, err := snap.Head()
	require.NoError(t, err)
	assert.Len(t, dom.FindAll(head.Node(), dom.ByTag("style")), 1)
	assert.NotNil(t, snap.ElementByID(style.MarkerID))
}

func TestStart_FetchFailure(t *testing.T) {
	f := &fakeFetcher{err: backend.ErrFetch}
	stats := &fakeStats{}
	app := newApp(t, f, stats)

	err := app.Start(context.Background())
	assert.ErrorIs(t, err, backend.ErrFetch)

	snap, _ := renderSnapshot(t, app, "")
	list := snap.ElementByID(dom.IDActivitiesList)
	assert.Equal(t, render.LoadFailedText, strings.TrimSpace(dom.TextContent(list)))
	assert.Empty(t, dom.FindAll(list, dom.ByClass("activity-card")))
	assert.Equal(t, []string{FetchFailed}, stats.fetches)
}

func TestSubmit_UpdatesMessageNotList(t *testing.T) {
	f := &fakeFetcher{dir: directory()}
	stats := &fakeStats{}
	app := newApp(t, f, stats)
	require.NoError(t, app.Start(context.Background()))

	id, err := app.Open("")
	require.NoError(t, err)
	task := app.Submit(context.Background(), id, signup.ActionSignup, "new@mergington.edu", "Gym Class")
	require.NotNil(t, task)
	out, err := task.Wait(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Succeeded)

	snap, html := renderSnapshot(t, app, id)
	msg, err := snap.MessageArea(dom.IDMessage)
	require.NoError(t, err)
	assert.Equal(t, model.MessageState{
		Text: "Signed up new@mergington.edu for Gym Class", Kind: model.MessageSuccess, Visible: true,
	}, msg.State())
	assert.Contains(t, html, "Availability:</strong> 30 spots left", "roster is not refreshed")
	assert.NotContains(t, html, "new@mergington.edu</span>")
	assert.Equal(t, 1, f.calls)

	task = app.Submit(context.Background(), id, signup.ActionSignup, "dup@mergington.edu", "Chess Club")
	out, err = task.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.SignupOutcome{Text: "Student already signed up"}, out)

	snap, _ = renderSnapshot(t, app, id)
	email, activity := formValues(t, snap)
	assert.Equal(t, "dup@mergington.edu", email, "failed submission keeps the entered values")
	assert.Equal(t, "Chess Club", activity)
	assert.Equal(t, []string{"signup/success", "signup/rejected"}, stats.signups)
}

func TestSubmit_AfterClose(t *testing.T) {
	app := newApp(t, &fakeFetcher{dir: directory()}, nil)
	app.Close()

	assert.Nil(t, app.Submit(context.Background(), "", signup.ActionSignup, "a@b.com", "Chess Club"))
	_, err := app.Snapshot("")
	assert.ErrorIs(t, err, dom.ErrLoopClosed)
	_, err = app.Open("")
	assert.ErrorIs(t, err, dom.ErrLoopClosed)
}

func TestNew_MissingElement(t *testing.T) {
	doc, err := dom.Parse(strings.NewReader(`<html><head></head><body><div id="activities-list"></div></body></html>`))
	require.NoError(t, err)

	_, err = New(doc, Deps{Fetcher: &fakeFetcher{}, Backend: fakeBackend{}})
	assert.ErrorIs(t, err, dom.ErrMissingElement)
}

func TestSessions_DoNotShareVisitorState(t *testing.T) {
	app := newApp(t, &fakeFetcher{dir: directory()}, nil)
	require.NoError(t, app.Start(context.Background()))

	first, err := app.Open("")
	require.NoError(t, err)
	second, err := app.Open("")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	again, err := app.Open(first)
	require.NoError(t, err)
	assert.Equal(t, first, again, "known session is reused")

	task := app.Submit(context.Background(), first, signup.ActionSignup, "dup@mergington.edu", "Chess Club")
	require.NotNil(t, task)
	_, err = task.Wait(context.Background())
	require.NoError(t, err)

	_, own := renderSnapshot(t, app, first)
	assert.Contains(t, own, `value="dup@mergington.edu"`)
	assert.Contains(t, own, "Student already signed up")

	for _, id := range []string{second, ""} {
		snap, other := renderSnapshot(t, app, id)
		assert.NotContains(t, other, "dup@mergington.edu")
		assert.NotContains(t, other, "Student already signed up")
		assert.Equal(t, 2, len(dom.FindAll(snap.ElementByID(dom.IDActivitiesList), dom.ByClass("activity-card"))),
			"every session sees the rendered directory")
	}
}

func TestSubmit_UnknownSession(t *testing.T) {
	app := newApp(t, &fakeFetcher{dir: directory()}, nil)
	require.NoError(t, app.Start(context.Background()))

	assert.Nil(t, app.Submit(context.Background(), "forged", signup.ActionSignup, "a@b.com", "Chess Club"))
	id, err := app.Open("forged")
	require.NoError(t, err)
	assert.NotEqual(t, "forged", id, "client supplied IDs are never adopted")
}

func TestOpen_ExpiresIdleSessions(t *testing.T) {
	var (
		mu  sync.Mutex
		now = time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)
	)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(d)
	}

	doc, err := web.NewDocument()
	require.NoError(t, err)
	app, err := New(doc, Deps{
		Fetcher:    &fakeFetcher{dir: directory()},
		Backend:    fakeBackend{},
		Logger:     zaptest.NewLogger(t),
		Scheduler:  func(time.Duration, func()) {},
		SessionTTL: time.Minute,
		Now:        clock,
	})
	require.NoError(t, err)
	t.Cleanup(app.Close)

	idle, err := app.Open("")
	require.NoError(t, err)
	advance(30 * time.Second)
	active, err := app.Open("")
	require.NoError(t, err)

	advance(45 * time.Second)
	got, err := app.Open(active)
	require.NoError(t, err)
	assert.Equal(t, active, got)

	got, err = app.Open(idle)
	require.NoError(t, err)
	assert.NotEqual(t, idle, got, "idle session expired")

	var held []string
	require.NoError(t, app.loop.Do(func() {
		for id := range app.sessions {
			held = append(held, id)
		}
	}))
	assert.ElementsMatch(t, []string{active, got}, held)
}
