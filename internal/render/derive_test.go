package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Shivanand-hulikatti/activities-frontend/internal/model"
)

func TestInitials(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"two words", "John Smith", "JS"},
		{"single word", "jane", "J"},
		{"empty", "", "?"},
		{"dot separated", "bob.jones", "BJ"},
		{"underscore and dash", "mary_ann-lee", "MA"},
		{"only separators", "._-", "."},
		{"extra whitespace", "  ada   lovelace  ", "AL"},
		{"non ascii", "émile zola", "ÉZ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Initials(tt.in))
		})
	}
}

func TestDerive(t *testing.T) {
	tests := []struct {
		in   string
		want model.ParticipantDisplay
	}{
		{"bob.jones@example.com", model.ParticipantDisplay{DisplayName: "bob.jones", Meta: "example.com", Initials: "BJ"}},
		{"michael@mergington.edu", model.ParticipantDisplay{DisplayName: "michael", Meta: "mergington.edu", Initials: "M"}},
		{"a@b@c", model.ParticipantDisplay{DisplayName: "a", Meta: "b@c", Initials: "A"}},
		{"@example.com", model.ParticipantDisplay{DisplayName: "", Meta: "example.com", Initials: "?"}},
		{"Guest Speaker", model.ParticipantDisplay{DisplayName: "Guest Speaker", Initials: "GS"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Derive(tt.in))
		})
	}
}
