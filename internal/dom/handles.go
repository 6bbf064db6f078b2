package dom

import (
	"golang.org/x/net/html"

	"github.com/Shivanand-hulikatti/activities-frontend/internal/model"
)

// ClassHidden hides the message area.
const ClassHidden = "hidden"

// Head is the document head.
type Head struct {
	node *html.Node
}

// Append adds n as the last child of the head.
func (h *Head) Append(n *html.Node) {
	h.node.AppendChild(n)
}

// Node exposes the underlying element.
func (h *Head) Node() *html.Node { return h.node }

// ListContainer is the element that holds the activity cards.
type ListContainer struct {
	node *html.Node
}

// Clear removes all content.
func (l *ListContainer) Clear() {
	RemoveChildren(l.node)
}

// Append adds n after the existing content.
func (l *ListContainer) Append(n *html.Node) {
	l.node.AppendChild(n)
}

// Node exposes the underlying element.
func (l *ListContainer) Node() *html.Node { return l.node }

// Option is one entry of a SelectControl.
type Option struct {
	Value string
	Label string
}

// SelectControl is a <select> element.
type SelectControl struct {
	node *html.Node
}

// AddOption appends an option after the existing ones.
func (s *SelectControl) AddOption(value, label string) {
	opt := Element("option", "value", value)
	opt.AppendChild(Text(label))
	s.node.AppendChild(opt)
}

// Options lists every option in order.
func (s *SelectControl) Options() []Option {
	var out []Option
	for _, n := range ChildElements(s.node, "option") {
		out = append(out, Option{Value: Attr(n, "value"), Label: TextContent(n)})
	}
	return out
}

// Select marks the first option whose value matches as selected and clears
// the mark on every other option.
func (s *SelectControl) Select(value string) {
	marked := false
	for _, n := range ChildElements(s.node, "option") {
		RemoveAttr(n, "selected")
		if !marked && Attr(n, "value") == value {
			SetAttr(n, "selected", "")
			marked = true
		}
	}
}

// Value returns the value of the selected option, or of the first option
// when nothing is selected.
func (s *SelectControl) Value() string {
	opts := ChildElements(s.node, "option")
	for _, n := range opts {
		if HasAttr(n, "selected") {
			return Attr(n, "value")
		}
	}
	if len(opts) > 0 {
		return Attr(opts[0], "value")
	}
	return ""
}

// Node exposes the underlying element.
func (s *SelectControl) Node() *html.Node { return s.node }

// Form is the signup form with its email input and activity select.
type Form struct {
	node     *html.Node
	email    *html.Node
	activity *SelectControl
}

// Fill writes user-entered values into the inputs.
func (f *Form) Fill(email, activity string) {
	SetAttr(f.email, "value", email)
	f.activity.Select(activity)
}

// Reset returns the inputs to their empty state.
func (f *Form) Reset() {
	RemoveAttr(f.email, "value")
	for _, n := range ChildElements(f.activity.node, "option") {
		RemoveAttr(n, "selected")
	}
}

// Node exposes the underlying form element.
func (f *Form) Node() *html.Node { return f.node }

// MessageArea is the transient banner element.
type MessageArea struct {
	node *html.Node
}

// Show replaces the text and styling with st. The previous kind and hidden
// mark are dropped unless st itself is not visible.
func (m *MessageArea) Show(st model.MessageState) {
	SetText(m.node, st.Text)
	RemoveClass(m.node, string(model.MessageSuccess))
	RemoveClass(m.node, string(model.MessageError))
	AddClass(m.node, string(st.Kind))
	if st.Visible {
		RemoveClass(m.node, ClassHidden)
	} else {
		AddClass(m.node, ClassHidden)
	}
}

// Hide adds the hidden class and keeps text and styling.
func (m *MessageArea) Hide() {
	AddClass(m.node, ClassHidden)
}

// State reads the banner back from the element.
func (m *MessageArea) State() model.MessageState {
	st := model.MessageState{Text: TextContent(m.node), Visible: !HasClass(m.node, ClassHidden)}
	switch {
	case HasClass(m.node, string(model.MessageSuccess)):
		st.Kind = model.MessageSuccess
	case HasClass(m.node, string(model.MessageError)):
		st.Kind = model.MessageError
	}
	return st
}

// Node exposes the underlying element.
func (m *MessageArea) Node() *html.Node { return m.node }
