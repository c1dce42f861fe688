package graph

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/dottormarmitta/FutureExchange/internal/infra/metrics"
)

type Side uint8

const (
	Bid Side = iota
	Ask
)

func (s Side) String() string {
	if s == Ask {
		return "ask"
	}
	return "bid"
}

// ErrUnreachable is returned when execution is requested towards a target
// that has no available path on the requested side.
var ErrUnreachable = errors.New("graph: target unreachable")

// table is the search state for one side.
type table struct {
	best    []float64
	edgeTo  []*Edge
	onQueue []bool
	queue   []Vertex
}

func newTable(n int) *table {
	return &table{
		best:    make([]float64, n),
		edgeTo:  make([]*Edge, n),
		onQueue: make([]bool, n),
		queue:   make([]Vertex, 0, n),
	}
}

// PathEngine finds, from a fixed source, the best synthetic bid (max sum of
// leg bids) and ask (min sum of leg asks) to every vertex, and executes one
// lot along the winning path on request.
//
// The search is a FIFO label-correcting Bellman-Ford. It accepts weights of
// either sign but does not terminate if the instruments form a strictly
// improving cycle; such instrument sets are a caller error.
//
// A PathEngine is not safe for concurrent use. Recompute and execution must
// be treated as a single critical section.
type PathEngine struct {
	g      *Graph
	source Vertex
	bid    *table
	ask    *table
	logger zerolog.Logger
}

type Option func(*PathEngine)

func WithLogger(l zerolog.Logger) Option {
	return func(e *PathEngine) { e.logger = l }
}

// NewPathEngine builds both tables rooted at source.
func NewPathEngine(g *Graph, source Vertex, opts ...Option) *PathEngine {
	e := &PathEngine{
		g:      g,
		source: source,
		bid:    newTable(g.VertexCount()),
		ask:    newTable(g.VertexCount()),
		logger: zerolog.Nop(),
	}
	for _, o := range opts {
		o(e)
	}
	e.recompute(Bid)
	e.recompute(Ask)
	return e
}

func (e *PathEngine) Source() Vertex { return e.source }

func (e *PathEngine) table(side Side) *table {
	if side == Ask {
		return e.ask
	}
	return e.bid
}

// sentinel is the value of an unreachable vertex on side.
func sentinel(side Side) float64 {
	if side == Ask {
		return math.Inf(1)
	}
	return math.Inf(-1)
}

// improves reports whether candidate beats current on side.
func improves(side Side, candidate, current float64) bool {
	if side == Ask {
		return candidate < current
	}
	return candidate > current
}

func weight(side Side, edge *Edge) float64 {
	if side == Ask {
		return edge.Ask()
	}
	return edge.Bid()
}

func (e *PathEngine) recompute(side Side) {
	start := time.Now()
	t := e.table(side)
	worst := sentinel(side)
	for v := range t.best {
		t.best[v] = worst
		t.edgeTo[v] = nil
		t.onQueue[v] = false
	}
	t.queue = t.queue[:0]
	t.best[e.source] = 0
	t.queue = append(t.queue, e.source)
	t.onQueue[e.source] = true

	relaxations := 0
	for len(t.queue) > 0 {
		v := t.queue[0]
		t.queue = t.queue[1:]
		t.onQueue[v] = false
		for _, edge := range e.g.Adjacent(v) {
			w := edge.To()
			candidate := t.best[v] + weight(side, edge)
			if !improves(side, candidate, t.best[w]) {
				continue
			}
			t.best[w] = candidate
			t.edgeTo[w] = edge
			relaxations++
			if !t.onQueue[w] {
				t.queue = append(t.queue, w)
				t.onQueue[w] = true
			}
		}
	}

	metrics.RecomputesTotal.WithLabelValues(side.String()).Inc()
	metrics.RelaxationsTotal.WithLabelValues(side.String()).Add(float64(relaxations))
	metrics.RecomputeLatencyMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	e.logger.Debug().Str("side", side.String()).Int("relaxations", relaxations).Dur("took", time.Since(start)).Msg("recompute")
}

// BestPriceTo returns the current best synthetic price to target, or the
// side's infinite sentinel when no path exists. It never recomputes.
func (e *PathEngine) BestPriceTo(target Vertex, side Side) float64 {
	return e.table(side).best[target]
}

func (e *PathEngine) IsReachable(target Vertex, side Side) bool {
	return e.table(side).best[target] != sentinel(side)
}

// Path returns the winning edges from source to target in execution order.
// The path to the source itself is empty.
func (e *PathEngine) Path(target Vertex, side Side) ([]*Edge, error) {
	if !e.IsReachable(target, side) {
		return nil, fmt.Errorf("%w: %s to %d from %d", ErrUnreachable, side, target, e.source)
	}
	t := e.table(side)
	var path []*Edge
	for edge := t.edgeTo[target]; edge != nil; edge = t.edgeTo[edge.From()] {
		path = append(path, edge)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// TakeAndExecute returns the current best price to target on side and
// consumes one lot on every leg of its path, source first. Calling it for an
// unreachable target returns ErrUnreachable and leaves the engine untouched.
//
// Both tables are rebuilt afterwards. A mirror leg executed on the bid side
// consumes the ladder's ask, which the ask table reads through the natural
// view of the same instrument, so the sides are not independent.
func (e *PathEngine) TakeAndExecute(target Vertex, side Side) (float64, error) {
	path, err := e.Path(target, side)
	if err != nil {
		metrics.RejectedExecutionsTotal.Inc()
		return 0, err
	}
	price := e.table(side).best[target]
	for _, edge := range path {
		if side == Ask {
			edge.ExecuteAsk()
		} else {
			edge.ExecuteBid()
		}
	}
	metrics.ExecutionsTotal.WithLabelValues(side.String()).Inc()
	metrics.LegsExecutedTotal.Add(float64(len(path)))
	e.logger.Debug().Str("side", side.String()).Int("target", int(target)).Int("legs", len(path)).Float64("price", price).Msg("executed")
	e.recompute(Bid)
	e.recompute(Ask)
	return price, nil
}
