package graph

import (
	"fmt"

	"github.com/dottormarmitta/FutureExchange/internal/orderbook"
)

// Vertex is a calendar month index; lower values are earlier months.
type Vertex int

type Orientation uint8

const (
	// Natural reads the ladder as quoted, from the near month to the far one.
	Natural Orientation = iota
	// Mirror is the short side of the same contract: bid and ask swap roles
	// and change sign.
	Mirror
)

func (o Orientation) String() string {
	if o == Mirror {
		return "mirror"
	}
	return "natural"
}

// Edge is one directional view of an instrument. Two views with opposite
// orientation share a single ladder, so executing through either depletes
// the same liquidity.
type Edge struct {
	from, to    Vertex
	ladder      *orderbook.Ladder
	orientation Orientation
}

// NewInstrument returns the natural from->to view and its to->from mirror,
// both backed by l.
func NewInstrument(from, to Vertex, l *orderbook.Ladder) (natural, mirror *Edge) {
	natural = &Edge{from: from, to: to, ladder: l, orientation: Natural}
	mirror = &Edge{from: to, to: from, ladder: l, orientation: Mirror}
	return natural, mirror
}

func (e *Edge) From() Vertex             { return e.from }
func (e *Edge) To() Vertex               { return e.to }
func (e *Edge) Orientation() Orientation { return e.orientation }

// Bid is the edge weight maximised by the bid search. -Inf when unavailable.
func (e *Edge) Bid() float64 {
	switch e.orientation {
	case Mirror:
		return -e.ladder.TopAsk()
	default:
		return e.ladder.TopBid()
	}
}

// Ask is the edge weight minimised by the ask search. +Inf when unavailable.
func (e *Edge) Ask() float64 {
	switch e.orientation {
	case Mirror:
		return -e.ladder.TopBid()
	default:
		return e.ladder.TopAsk()
	}
}

// ExecuteBid sells one lot through this view.
func (e *Edge) ExecuteBid() {
	switch e.orientation {
	case Mirror:
		e.ladder.ConsumeAsk()
	default:
		e.ladder.ConsumeBid()
	}
}

// ExecuteAsk buys one lot through this view.
func (e *Edge) ExecuteAsk() {
	switch e.orientation {
	case Mirror:
		e.ladder.ConsumeBid()
	default:
		e.ladder.ConsumeAsk()
	}
}

func (e *Edge) String() string {
	return fmt.Sprintf("%d->%d(%s)", e.from, e.to, e.orientation)
}
