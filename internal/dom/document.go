// Package dom holds the live page as an HTML node tree, the typed element
// handles the rest of the frontend writes through, and the event loop that
// serializes every mutation of the tree.
package dom

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html"
)

// ErrMissingElement is returned when a required page element cannot be found.
var ErrMissingElement = errors.New("element not found")

// Fixed element IDs of the page shell.
const (
	IDActivitiesList = "activities-list"
	IDActivitySelect = "activity"
	IDSignupForm     = "signup-form"
	IDEmailInput     = "email"
	IDMessage        = "message"
)

// Document is a parsed page.
type Document struct {
	root *html.Node
}

// Parse reads an HTML page into a Document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return &Document{root: root}, nil
}

// Render serializes the whole document.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// Clone returns a deep copy that shares no nodes with d.
func (d *Document) Clone() *Document {
	return &Document{root: cloneNode(d.root)}
}

// ElementByID returns the first element carrying the id attribute, or nil.
func (d *Document) ElementByID(id string) *html.Node {
	return findFirst(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && Attr(n, "id") == id
	})
}

// Head returns the handle for the document head.
func (d *Document) Head() (*Head, error) {
	n := findFirst(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "head"
	})
	if n == nil {
		return nil, fmt.Errorf("head: %w", ErrMissingElement)
	}
	return &Head{node: n}, nil
}

// ListContainer returns the handle for the element with the given id.
func (d *Document) ListContainer(id string) (*ListContainer, error) {
	n, err := d.require(id)
	if err != nil {
		return nil, err
	}
	return &ListContainer{node: n}, nil
}

// SelectControl returns the handle for the select element with the given id.
func (d *Document) SelectControl(id string) (*SelectControl, error) {
	n, err := d.require(id)
	if err != nil {
		return nil, err
	}
	if n.Data != "select" {
		return nil, fmt.Errorf("#%s is <%s>, not <select>: %w", id, n.Data, ErrMissingElement)
	}
	return &SelectControl{node: n}, nil
}

// Form returns the handle for the signup form and its email and activity inputs.
func (d *Document) Form(formID, emailID, activityID string) (*Form, error) {
	form, err := d.require(formID)
	if err != nil {
		return nil, err
	}
	email, err := d.require(emailID)
	if err != nil {
		return nil, err
	}
	activity, err := d.SelectControl(activityID)
	if err != nil {
		return nil, err
	}
	return &Form{node: form, email: email, activity: activity}, nil
}

// MessageArea returns the handle for the message display element.
func (d *Document) MessageArea(id string) (*MessageArea, error) {
	n, err := d.require(id)
	if err != nil {
		return nil, err
	}
	return &MessageArea{node: n}, nil
}

func (d *Document) require(id string) (*html.Node, error) {
	n := d.ElementByID(id)
	if n == nil {
		return nil, fmt.Errorf("#%s: %w", id, ErrMissingElement)
	}
	return n, nil
}
