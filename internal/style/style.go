// Package style injects the participant presentation stylesheet.
package style

import (
	"sync"

	"github.com/Shivanand-hulikatti/activities-frontend/internal/dom"
)

// MarkerID identifies the injected <style> element.
const MarkerID = "participant-styles"

const participantCSS = `
.participants { margin-top: 8px; padding-top: 8px; border-top: 1px solid #eee; }
.participants-list { list-style: none; margin: 4px 0 0; padding: 0; }
.participants-list li { display: flex; align-items: center; gap: 8px; padding: 2px 0; }
.participant-avatar { display: inline-flex; align-items: center; justify-content: center; width: 28px; height: 28px; border-radius: 50%; background: #1a237e; color: #fff; font-size: 12px; font-weight: bold; }
.participant-name { font-weight: 500; }
.participant-meta { color: #777; font-size: 0.85em; }
.no-participants { font-style: italic; margin: 4px 0; color: #666; }
.success { background-color: #e8f5e9; color: #2e7d32; border: 1px solid #a5d6a7; padding: 10px; border-radius: 4px; }
.error { background-color: #ffebee; color: #c62828; border: 1px solid #ef9a9a; padding: 10px; border-radius: 4px; }
.hidden { display: none; }
`

// Injector appends the stylesheet to one document head, once. A process owns
// a single base document, so one Injector per process is the intended use.
type Injector struct {
	head *dom.Head
	once sync.Once
}

// NewInjector binds an Injector to head.
func NewInjector(head *dom.Head) *Injector {
	return &Injector{head: head}
}

// EnsureParticipantStyles appends the stylesheet on the first call and does
// nothing afterwards.
func (i *Injector) EnsureParticipantStyles() {
	i.once.Do(func() {
		block := dom.Element("style", "id", MarkerID)
		block.AppendChild(dom.Text(participantCSS))
		i.head.Append(block)
	})
}
