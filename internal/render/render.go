// Package render turns the activity directory into page content.
package render

import (
	"strconv"

	"golang.org/x/net/html"

	"github.com/Shivanand-hulikatti/activities-frontend/internal/dom"
	"github.com/Shivanand-hulikatti/activities-frontend/internal/model"
)

const (
	// NoParticipantsText is shown in place of an empty roster.
	NoParticipantsText = "No participants yet — be the first!"
	// LoadFailedText replaces the list when the directory cannot be loaded.
	LoadFailedText = "Failed to load activities. Please try again later."
)

// Renderer writes activity cards into the list container and activity
// options into the selection control. Callers run it on the document loop.
type Renderer struct {
	list    *dom.ListContainer
	options *dom.SelectControl
}

// NewRenderer binds a Renderer to its target elements.
func NewRenderer(list *dom.ListContainer, sel *dom.SelectControl) *Renderer {
	return &Renderer{list: list, options: sel}
}

// Render clears the list and rebuilds one card per activity in directory
// order. One option per activity is appended to the selection control;
// existing options are kept, so repeated renders accumulate duplicates.
// It returns the number of cards built.
func (r *Renderer) Render(dir model.Directory) int {
	r.list.Clear()
	for i := range dir {
		a := &dir[i]
		r.list.Append(card(a))
		r.options.AddOption(a.Name, a.Name)
	}
	return len(dir)
}

// RenderFailure replaces the list with the static load failure message.
func (r *Renderer) RenderFailure() {
	r.list.Clear()
	r.list.Append(dom.Append(dom.Element("p"), dom.Text(LoadFailedText)))
}

func card(a *model.Activity) *html.Node {
	return dom.Append(dom.Element("div", "class", "activity-card"),
		dom.Append(dom.Element("h4"), dom.Text(a.Name)),
		dom.Append(dom.Element("p"), dom.Text(a.Description)),
		labelled("Schedule:", a.Schedule),
		labelled("Availability:", strconv.Itoa(a.SpotsLeft())+" spots left"),
		participants(a.Participants),
	)
}

func labelled(label, value string) *html.Node {
	return dom.Append(dom.Element("p"),
		dom.Append(dom.Element("strong"), dom.Text(label)),
		dom.Text(" "+value),
	)
}

func participants(ids []string) *html.Node {
	section := dom.Append(dom.Element("div", "class", "participants"),
		dom.Append(dom.Element("p"), dom.Append(dom.Element("strong"), dom.Text("Participants:"))),
	)
	if len(ids) == 0 {
		section.AppendChild(dom.Append(dom.Element("p", "class", "no-participants"), dom.Text(NoParticipantsText)))
		return section
	}

	ul := dom.Element("ul", "class", "participants-list")
	for _, id := range ids {
		ul.AppendChild(participant(Derive(id)))
	}
	section.AppendChild(ul)
	return section
}

func participant(p model.ParticipantDisplay) *html.Node {
	li := dom.Append(dom.Element("li", "class", "participant"),
		dom.Append(dom.Element("span", "class", "participant-avatar"), dom.Text(p.Initials)),
		dom.Append(dom.Element("span", "class", "participant-name"), dom.Text(p.DisplayName)),
	)
	if p.Meta != "" {
		li.AppendChild(dom.Append(dom.Element("span", "class", "participant-meta"), dom.Text(p.Meta)))
	}
	return li
}
