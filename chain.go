package tsgen

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Chain is an ordered composition of TypeProcessors, itself a
// TypeProcessor. Process tries each link in order and returns the first
// non-declining Result; a later link is never consulted once an earlier
// one resolves, which is how a custom processor overrides built-in
// behavior without special-casing.
//
// Exhausting the chain is a decline, not an error — the caller applies its
// own default. A fault inside any link aborts immediately, decorated with
// the link's name.
//
// A Chain is assembled once at configuration build time and never mutated
// afterward, so it is safe to share across concurrent generation runs.
type Chain struct {
	links []TypeProcessor
}

// NewChain composes the given processors in priority order. Nil entries
// are skipped.
func NewChain(procs ...TypeProcessor) *Chain {
	c := &Chain{links: make([]TypeProcessor, 0, len(procs))}
	for _, p := range procs {
		if p != nil {
			c.links = append(c.links, p)
		}
	}
	return c
}

func (c *Chain) ProcessorName() string {
	names := make([]string, len(c.links))
	for i, p := range c.links {
		names[i] = p.ProcessorName()
	}
	return "Chain(" + strings.Join(names, ", ") + ")"
}

func (c *Chain) Process(t Type, ctx Context) (*Result, error) {
	for _, p := range c.links {
		r, err := p.Process(t, ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "%s failed on %s", p.ProcessorName(), t)
		}
		if r != nil {
			return r, nil
		}
	}
	return nil, nil
}
