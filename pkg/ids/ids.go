// Package ids hands out document, line, client and product identifiers.
//
// Identifiers are Unix millisecond timestamps: the snowflake node is
// configured with a zero epoch and no node or step bits, so an id is its
// creation time and two ids from the same node are strictly increasing.
// Such ids stay below 2^53 and survive a round trip through the browser UI.
package ids

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

// Generator produces unique ids.
type Generator interface {
	Generate() snowflake.ID
}

var configure sync.Once

// NewNode returns a snowflake node emitting millisecond timestamp ids.
func NewNode() (*snowflake.Node, error) {
	configure.Do(func() {
		snowflake.Epoch = 0
		snowflake.NodeBits = 0
		snowflake.StepBits = 0
	})
	return snowflake.NewNode(0)
}

// Sequence is a deterministic Generator for tests.
type Sequence struct {
	mu   sync.Mutex
	next int64
}

func NewSequence(start int64) *Sequence {
	return &Sequence{next: start}
}

func (s *Sequence) Generate() snowflake.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	return snowflake.ID(id)
}

var Module = fx.Module("ids",
	fx.Provide(
		fx.Annotate(
			NewNode,
			fx.As(new(Generator)),
		),
	),
)
