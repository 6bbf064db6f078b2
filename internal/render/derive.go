package render

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Shivanand-hulikatti/activities-frontend/internal/model"
)

var separators = strings.NewReplacer(".", " ", "_", " ", "-", " ")

// Derive turns a raw participant identifier into display metadata.
//
// An email-shaped identifier is split at the first '@' into a display name
// and a domain annotation. Initials come from the first two name tokens after
// '.', '_' and '-' are treated as spaces.
func Derive(identifier string) model.ParticipantDisplay {
	name, meta := identifier, ""
	if at := strings.IndexByte(identifier, '@'); at >= 0 {
		name, meta = identifier[:at], identifier[at+1:]
	}
	return model.ParticipantDisplay{
		DisplayName: name,
		Meta:        meta,
		Initials:    Initials(name),
	}
}

// Initials computes the avatar letters for a display name.
func Initials(displayName string) string {
	tokens := strings.Fields(separators.Replace(displayName))
	switch {
	case len(tokens) >= 2:
		return firstUpper(tokens[0]) + firstUpper(tokens[1])
	case len(tokens) == 1:
		return firstUpper(tokens[0])
	case displayName != "":
		return firstUpper(displayName)
	default:
		return "?"
	}
}

func firstUpper(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r))
}
