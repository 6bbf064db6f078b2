// Package signup submits participant actions to the backend and drives the
// transient message area with the outcome.
package signup

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/activities-frontend/internal/backend"
	"github.com/Shivanand-hulikatti/activities-frontend/internal/dom"
	"github.com/Shivanand-hulikatti/activities-frontend/internal/model"
)

const (
	// DefaultHideDelay is how long a message stays visible.
	DefaultHideDelay = 5 * time.Second
	// GenericErrorText is shown for a rejection without a detail.
	GenericErrorText = "An error occurred"
	// FailureText is shown when the backend could not be reached or
	// answered with something other than JSON.
	FailureText = "Failed to sign up. Please try again."
)

// Action names the backend operation a Task performs.
type Action string

const (
	ActionSignup     Action = "signup"
	ActionUnregister Action = "unregister"
)

// Result labels recorded per finished task.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
)

// Backend is the subset of the API client the controller needs.
type Backend interface {
	Signup(ctx context.Context, r model.SignupRequest) (model.MessageResponse, error)
	Unregister(ctx context.Context, r model.SignupRequest) (model.MessageResponse, error)
}

// Observer is told about every finished task.
type Observer interface {
	ObserveSignup(action, result string)
}

// Scheduler runs f once after d.
type Scheduler func(d time.Duration, f func())

func afterFunc(d time.Duration, f func()) { time.AfterFunc(d, f) }

// Option customizes a Controller.
type Option func(*Controller)

// WithHideDelay overrides DefaultHideDelay.
func WithHideDelay(d time.Duration) Option {
	return func(c *Controller) { c.delay = d }
}

// WithScheduler replaces the timer used to hide messages.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.after = s }
}

// WithObserver registers o for task results.
func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observer = o }
}

// Controller handles form submissions. Every call spawns an independent task;
// tasks are never de-duplicated, serialized or cancelled by one another, and
// none of them touches the activity list.
type Controller struct {
	backend  Backend
	loop     *dom.Loop
	form     *dom.Form
	message  *dom.MessageArea
	logger   *zap.Logger
	after    Scheduler
	delay    time.Duration
	observer Observer
}

// New constructs a Controller writing to form and message through loop.
func New(b Backend, loop *dom.Loop, form *dom.Form, message *dom.MessageArea, logger *zap.Logger, opts ...Option) *Controller {
	c := &Controller{
		backend: b,
		loop:    loop,
		form:    form,
		message: message,
		logger:  logger,
		after:   afterFunc,
		delay:   DefaultHideDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Task is the future of one submission.
type Task struct {
	ID      string
	Action  Action
	done    chan struct{}
	outcome model.SignupOutcome
}

// Wait blocks until the task finished or ctx ends. Giving up on the wait
// does not stop the task.
func (t *Task) Wait(ctx context.Context) (model.SignupOutcome, error) {
	select {
	case <-t.done:
		return t.outcome, nil
	case <-ctx.Done():
		return model.SignupOutcome{}, ctx.Err()
	}
}

// Submit signs email up for activity.
func (c *Controller) Submit(ctx context.Context, email, activity string) *Task {
	return c.spawn(ctx, ActionSignup, model.SignupRequest{ActivityName: activity, Email: email})
}

// Unregister removes email from activity.
func (c *Controller) Unregister(ctx context.Context, email, activity string) *Task {
	return c.spawn(ctx, ActionUnregister, model.SignupRequest{ActivityName: activity, Email: email})
}

func (c *Controller) spawn(ctx context.Context, action Action, req model.SignupRequest) *Task {
	t := &Task{ID: uuid.NewString(), Action: action, done: make(chan struct{})}
	// The caller going away must not abort a submission already sent.
	ctx = context.WithoutCancel(ctx)
	log := c.logger.With(
		zap.String("task_id", t.ID),
		zap.String("action", string(action)),
		zap.String("activity", req.ActivityName),
	)

	go func() {
		defer close(t.done)
		outcome, result := c.call(ctx, action, req, log)
		if c.observer != nil {
			c.observer.ObserveSignup(string(action), result)
		}

		st := model.NewMessageState(outcome)
		resetForm := outcome.Succeeded && action == ActionSignup
		if err := c.loop.Do(func() {
			if resetForm {
				c.form.Reset()
			}
			c.message.Show(st)
		}); err != nil {
			log.Warn("message not shown", zap.Error(err))
		}
		// Not cancelled by later tasks: an older timer can hide a newer message.
		c.after(c.delay, func() { c.loop.Post(c.message.Hide) })

		t.outcome = outcome
	}()
	return t
}

func (c *Controller) call(ctx context.Context, action Action, req model.SignupRequest, log *zap.Logger) (model.SignupOutcome, string) {
	do := c.backend.Signup
	if action == ActionUnregister {
		do = c.backend.Unregister
	}

	resp, err := do(ctx, req)
	if err == nil {
		log.Info("participant action accepted")
		return model.SignupOutcome{Succeeded: true, Text: resp.Message}, ResultSuccess
	}

	var se *backend.ServerError
	if errors.As(err, &se) {
		log.Warn("participant action rejected", zap.Int("status", se.Status), zap.String("detail", se.Detail))
		text := se.Detail
		if text == "" {
			text = GenericErrorText
		}
		return model.SignupOutcome{Text: text}, ResultRejected
	}

	log.Error("participant action failed", zap.Error(err))
	return model.SignupOutcome{Text: FailureText}, ResultFailed
}
