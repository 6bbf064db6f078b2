// Package model defines the core domain types for the activities frontend.
package model

// Activity is a named offering as reported by the backend directory.
type Activity struct {
	Name            string   `json:"-"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// SpotsLeft returns the remaining capacity. The value is not clamped and goes
// negative when the backend reports more participants than capacity.
func (a *Activity) SpotsLeft() int {
	return a.MaxParticipants - len(a.Participants)
}

// Directory is the activity listing in the order the backend sent it.
type Directory []Activity

// Names returns the activity names in directory order.
func (d Directory) Names() []string {
	names := make([]string, len(d))
	for i, a := range d {
		names[i] = a.Name
	}
	return names
}

// ParticipantDisplay is the human-friendly view of a raw participant identifier.
type ParticipantDisplay struct {
	DisplayName string
	Meta        string
	Initials    string
}

// SignupRequest identifies a participant and the activity they target.
type SignupRequest struct {
	ActivityName string
	Email        string
}

// SignupOutcome is the message ultimately shown after a signup attempt.
type SignupOutcome struct {
	Succeeded bool   `json:"succeeded"`
	Text      string `json:"text"`
}

// MessageKind selects the styling of the message area.
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// MessageState is the transient banner shown for one submission outcome.
type MessageState struct {
	Text    string
	Kind    MessageKind
	Visible bool
}

// NewMessageState builds the visible message for an outcome.
func NewMessageState(o SignupOutcome) MessageState {
	kind := MessageError
	if o.Succeeded {
		kind = MessageSuccess
	}
	return MessageState{Text: o.Text, Kind: kind, Visible: true}
}

// MessageResponse is the backend body for a successful signup.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the backend body for a failed signup.
type ErrorResponse struct {
	Detail string `json:"detail,omitempty"`
}
