package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dottormarmitta/FutureExchange/internal/orderbook"
)

func ladder(t *testing.T, bids, asks []orderbook.Level) *orderbook.Ladder {
	t.Helper()
	l, err := orderbook.NewLadder(bids, asks)
	require.NoError(t, err)
	return l
}

func TestMirrorConsistency(t *testing.T) {
	l := ladder(t,
		[]orderbook.Level{{Price: 1.04, Qty: 1}, {Price: 0.87, Qty: 2}},
		[]orderbook.Level{{Price: 1.14, Qty: 2}, {Price: 1.16, Qty: 1}},
	)
	natural, mirror := NewInstrument(0, 3, l)

	assert.Equal(t, Vertex(0), natural.From())
	assert.Equal(t, Vertex(3), natural.To())
	assert.Equal(t, Vertex(3), mirror.From())
	assert.Equal(t, Vertex(0), mirror.To())
	assert.Equal(t, Natural, natural.Orientation())
	assert.Equal(t, Mirror, mirror.Orientation())

	check := func() {
		t.Helper()
		assert.Equal(t, natural.Bid(), -mirror.Ask())
		assert.Equal(t, natural.Ask(), -mirror.Bid())
	}
	check()
	assert.Equal(t, -1.14, mirror.Bid())
	assert.Equal(t, -1.04, mirror.Ask())

	// executing the mirror bid sells the far month, i.e. lifts the ladder ask
	mirror.ExecuteBid()
	assert.Equal(t, int64(1), l.AskQty())
	check()
	mirror.ExecuteAsk()
	assert.Equal(t, 0.87, natural.Bid())
	check()
	natural.ExecuteAsk()
	assert.Equal(t, 1.16, natural.Ask())
	check()
	for i := 0; i < 5; i++ {
		natural.ExecuteBid()
		mirror.ExecuteBid()
		check()
	}
	assert.Equal(t, -mirror.Ask(), natural.Bid())
}

func TestGraphAdjacencyOrder(t *testing.T) {
	g := New(3)
	l1 := ladder(t, []orderbook.Level{{Price: 1, Qty: 1}}, nil)
	l2 := ladder(t, []orderbook.Level{{Price: 2, Qty: 1}}, nil)
	g.AddInstrument(0, 1, l1)
	g.AddInstrument(0, 2, l2)

	assert.Equal(t, 3, g.VertexCount())
	assert.Equal(t, 4, g.EdgeCount())
	out := g.Adjacent(0)
	require.Len(t, out, 2)
	assert.Equal(t, Vertex(1), out[0].To())
	assert.Equal(t, Vertex(2), out[1].To())
	require.Len(t, g.Adjacent(1), 1)
	assert.Equal(t, Mirror, g.Adjacent(1)[0].Orientation())
	assert.Empty(t, New(2).Adjacent(1))
}
