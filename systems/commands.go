package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
)

// Birth describes an organism to create when a command buffer is applied.
type Birth struct {
	Kind   components.Kind
	X, Y   float32
	Genome components.Genome
	Energy float32
}

// CommandBuffer collects structural changes made during a system pass.
// The world cannot change shape while a query is open, so systems record
// what they want here and the buffer is applied once the pass is done.
type CommandBuffer struct {
	births   []Birth
	removals []ecs.Entity
	deaths   []ecs.Entity
}

// Spawn queues a new organism.
func (c *CommandBuffer) Spawn(b Birth) {
	c.births = append(c.births, b)
}

// Remove queues an entity for deletion.
func (c *CommandBuffer) Remove(e ecs.Entity) {
	c.removals = append(c.removals, e)
}

// Kill queues a living organism for corpse conversion.
func (c *CommandBuffer) Kill(e ecs.Entity) {
	c.deaths = append(c.deaths, e)
}

// Pending returns the number of queued commands.
func (c *CommandBuffer) Pending() int {
	return len(c.births) + len(c.removals) + len(c.deaths)
}

// Apply performs queued removals, then deaths, then births, and empties the buffer.
// Commands referring to entities that are already gone are skipped.
func (c *CommandBuffer) Apply(s *Store, ev *Events) {
	for _, e := range c.removals {
		s.Remove(e)
	}
	for _, e := range c.deaths {
		if kind, ok := s.Kill(e); ok && ev != nil {
			ev.Deaths[kind]++
		}
	}
	for _, b := range c.births {
		s.Spawn(b.Kind, b.X, b.Y, b.Genome, b.Energy)
	}

	c.births = c.births[:0]
	c.removals = c.removals[:0]
	c.deaths = c.deaths[:0]
}
