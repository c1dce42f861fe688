package orderbook

import (
	"errors"
	"fmt"
	"math"
)

type Level struct {
	Price float64
	Qty   int64
}

var (
	ErrInvalidPrice = errors.New("orderbook: price must be finite")
	ErrInvalidQty   = errors.New("orderbook: quantity must be positive")
	ErrUnsorted     = errors.New("orderbook: levels out of order")
	ErrCrossed      = errors.New("orderbook: top bid above top ask")
)

// Ladder is the depth of one instrument. Bids are sorted desc by price,
// asks asc by price. Cursors point at the best level not yet exhausted and
// only ever move forward.
type Ladder struct {
	bids      []Level
	asks      []Level
	bidCursor int
	askCursor int
}

// NewLadder validates and copies the supplied levels. Either side may be
// empty, in which case that side reports its infinite sentinel.
func NewLadder(bids, asks []Level) (*Ladder, error) {
	if err := validateSide(bids, func(prev, cur float64) bool { return cur < prev }); err != nil {
		return nil, fmt.Errorf("bids: %w", err)
	}
	if err := validateSide(asks, func(prev, cur float64) bool { return cur > prev }); err != nil {
		return nil, fmt.Errorf("asks: %w", err)
	}
	if len(bids) > 0 && len(asks) > 0 && bids[0].Price > asks[0].Price {
		return nil, fmt.Errorf("%w: %g > %g", ErrCrossed, bids[0].Price, asks[0].Price)
	}
	l := &Ladder{
		bids: append([]Level(nil), bids...),
		asks: append([]Level(nil), asks...),
	}
	return l, nil
}

func validateSide(levels []Level, ordered func(prev, cur float64) bool) error {
	for i, lvl := range levels {
		if math.IsNaN(lvl.Price) || math.IsInf(lvl.Price, 0) {
			return fmt.Errorf("%w: level %d", ErrInvalidPrice, i)
		}
		if lvl.Qty <= 0 {
			return fmt.Errorf("%w: level %d has %d", ErrInvalidQty, i, lvl.Qty)
		}
		if i > 0 && !ordered(levels[i-1].Price, lvl.Price) {
			return fmt.Errorf("%w: level %d (%g after %g)", ErrUnsorted, i, lvl.Price, levels[i-1].Price)
		}
	}
	return nil
}

// TopBid returns the best remaining bid or -Inf once the side is exhausted.
func (l *Ladder) TopBid() float64 {
	if l.bidCursor >= len(l.bids) {
		return math.Inf(-1)
	}
	return l.bids[l.bidCursor].Price
}

// TopAsk returns the best remaining ask or +Inf once the side is exhausted.
func (l *Ladder) TopAsk() float64 {
	if l.askCursor >= len(l.asks) {
		return math.Inf(1)
	}
	return l.asks[l.askCursor].Price
}

// ConsumeBid takes one unit from the top bid level. No-op past the end.
func (l *Ladder) ConsumeBid() { consume(l.bids, &l.bidCursor) }

// ConsumeAsk takes one unit from the top ask level. No-op past the end.
func (l *Ladder) ConsumeAsk() { consume(l.asks, &l.askCursor) }

func consume(levels []Level, cursor *int) {
	if *cursor >= len(levels) {
		return
	}
	levels[*cursor].Qty--
	if levels[*cursor].Qty == 0 {
		*cursor++
	}
}

func (l *Ladder) BidQty() int64 { return topQty(l.bids, l.bidCursor) }
func (l *Ladder) AskQty() int64 { return topQty(l.asks, l.askCursor) }

func (l *Ladder) BidDepth() int { return len(l.bids) - l.bidCursor }
func (l *Ladder) AskDepth() int { return len(l.asks) - l.askCursor }

func topQty(levels []Level, cursor int) int64 {
	if cursor >= len(levels) {
		return 0
	}
	return levels[cursor].Qty
}
