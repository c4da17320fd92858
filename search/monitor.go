package search

import "github.com/poiesic/cardex/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate signals and results
// during a search.
type SearchMonitor interface {
	Start(query string)
	NameHit(doc *core.Document)
	TokenHit(doc *core.Document, token string)
	BodyHit(doc *core.Document)
	Finish(results []*Result)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                      {}
func (n *noopMonitor) NameHit(_ *core.Document)            {}
func (n *noopMonitor) TokenHit(_ *core.Document, _ string) {}
func (n *noopMonitor) BodyHit(_ *core.Document)            {}
func (n *noopMonitor) Finish(_ []*Result)                  {}
