// Package web embeds the page shell served by the frontend.
package web

import (
	"bytes"
	_ "embed"

	"github.com/Shivanand-hulikatti/activities-frontend/internal/dom"
)

//go:embed index.html
var index []byte

// NewDocument parses a fresh copy of the page shell.
func NewDocument() (*dom.Document, error) {
	return dom.Parse(bytes.NewReader(index))
}
