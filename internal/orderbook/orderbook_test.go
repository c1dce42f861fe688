package orderbook

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLadder(t *testing.T, bids, asks []Level) *Ladder {
	t.Helper()
	l, err := NewLadder(bids, asks)
	require.NoError(t, err)
	return l
}

func TestLadderTopOfBook(t *testing.T) {
	l := mustLadder(t,
		[]Level{{1.04, 100}, {0.87, 1}},
		[]Level{{1.14, 10}, {1.16, 100}},
	)
	assert.Equal(t, 1.04, l.TopBid())
	assert.Equal(t, 1.14, l.TopAsk())
	assert.Equal(t, int64(100), l.BidQty())
	assert.Equal(t, 2, l.AskDepth())
}

func TestLadderConsumeRollsOver(t *testing.T) {
	l := mustLadder(t, []Level{{10, 2}, {9, 1}}, []Level{{11, 1}, {12, 1}})

	l.ConsumeBid()
	assert.Equal(t, 10.0, l.TopBid())
	assert.Equal(t, int64(1), l.BidQty())

	l.ConsumeBid()
	assert.Equal(t, 9.0, l.TopBid(), "exhausted level must not be re-exposed")
	assert.Equal(t, 1, l.BidDepth())

	l.ConsumeBid()
	assert.True(t, math.IsInf(l.TopBid(), -1))
	assert.Equal(t, int64(0), l.BidQty())

	// ask side untouched by bid consumption
	assert.Equal(t, 11.0, l.TopAsk())
	assert.Equal(t, 2, l.AskDepth())
}

func TestLadderConsumePastEndIsNoop(t *testing.T) {
	l := mustLadder(t, nil, []Level{{5, 1}})
	l.ConsumeAsk()
	l.ConsumeAsk()
	l.ConsumeBid()
	assert.True(t, math.IsInf(l.TopAsk(), 1))
	assert.True(t, math.IsInf(l.TopBid(), -1))
	assert.Equal(t, 0, l.AskDepth())
}

func TestLadderCopiesInput(t *testing.T) {
	bids := []Level{{10, 1}}
	l := mustLadder(t, bids, nil)
	l.ConsumeBid()
	assert.Equal(t, int64(1), bids[0].Qty)
}

func TestNewLadderValidation(t *testing.T) {
	cases := []struct {
		name string
		bids []Level
		asks []Level
		err  error
	}{
		{"zero qty", []Level{{1, 0}}, nil, ErrInvalidQty},
		{"negative qty", nil, []Level{{1, -3}}, ErrInvalidQty},
		{"nan price", []Level{{math.NaN(), 1}}, nil, ErrInvalidPrice},
		{"inf price", nil, []Level{{math.Inf(1), 1}}, ErrInvalidPrice},
		{"bids ascending", []Level{{1, 1}, {2, 1}}, nil, ErrUnsorted},
		{"asks descending", nil, []Level{{2, 1}, {1, 1}}, ErrUnsorted},
		{"duplicate bid price", []Level{{1, 1}, {1, 1}}, nil, ErrUnsorted},
		{"crossed", []Level{{3, 1}}, []Level{{2, 1}}, ErrCrossed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLadder(tc.bids, tc.asks)
			require.ErrorIs(t, err, tc.err)
		})
	}
}
