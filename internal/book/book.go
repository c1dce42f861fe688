// Package book drives a PathEngine to exhaustion and turns the result into
// a synthetic order book for one calendar spread.
package book

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dottormarmitta/FutureExchange/internal/calendar"
	"github.com/dottormarmitta/FutureExchange/internal/config"
	"github.com/dottormarmitta/FutureExchange/internal/graph"
	"github.com/dottormarmitta/FutureExchange/internal/infra/metrics"
	"github.com/dottormarmitta/FutureExchange/internal/orderbook"
)

var (
	ErrSameMonth      = errors.New("book: instrument starts and ends in the same month")
	ErrSourceIsTarget = errors.New("book: target equals engine source")
)

// Row is one synthetic lot per side. A side without liquidity left has its
// Has flag cleared and a zero price.
type Row struct {
	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask"`
	HasBid bool    `json:"has_bid"`
	HasAsk bool    `json:"has_ask"`
}

type Book struct {
	Session string `json:"session"`
	Source  string `json:"source"`
	Target  string `json:"target"`
	Rows    []Row  `json:"rows"`
}

// Build validates every instrument and wires its two views into a graph
// sized to the calendar.
func Build(defs []config.Instrument) (*graph.Graph, error) {
	g := graph.New(calendar.Size())
	for _, def := range defs {
		if err := def.Validate(); err != nil {
			return nil, err
		}
		from, err := calendar.Parse(def.From)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", def.Name(), err)
		}
		to, err := calendar.Parse(def.To)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", def.Name(), err)
		}
		if from == to {
			return nil, fmt.Errorf("%w: %s", ErrSameMonth, def.Name())
		}
		l, err := orderbook.NewLadder(levels(def.BidPrices, def.BidQty), levels(def.AskPrices, def.AskQty))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", def.Name(), err)
		}
		g.AddInstrument(graph.Vertex(from), graph.Vertex(to), l)
	}
	metrics.InstrumentsLoaded.Set(float64(len(defs)))
	return g, nil
}

func levels(prices []float64, qty []int64) []orderbook.Level {
	out := make([]orderbook.Level, len(prices))
	for i := range prices {
		out[i] = orderbook.Level{Price: prices[i], Qty: qty[i]}
	}
	return out
}

// Drain repeatedly takes the best synthetic bid and ask to target until
// neither side is reachable. When both are available a row holds one bid
// and one ask, the bid being executed first.
func Drain(e *graph.PathEngine, target graph.Vertex) ([]Row, error) {
	if target == e.Source() {
		return nil, fmt.Errorf("%w: %d", ErrSourceIsTarget, target)
	}
	var rows []Row
	for e.IsReachable(target, graph.Bid) || e.IsReachable(target, graph.Ask) {
		var r Row
		if e.IsReachable(target, graph.Bid) {
			p, err := e.TakeAndExecute(target, graph.Bid)
			if err != nil {
				return rows, err
			}
			r.Bid, r.HasBid = p, true
		}
		if e.IsReachable(target, graph.Ask) {
			p, err := e.TakeAndExecute(target, graph.Ask)
			if err != nil {
				return rows, err
			}
			r.Ask, r.HasAsk = p, true
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// Price builds the graph from cfg and drains the synthetic book for the
// configured session.
func Price(cfg config.Config, logger zerolog.Logger, session string) (*Book, error) {
	start := time.Now()
	source, err := calendar.Parse(cfg.Session.Source)
	if err != nil {
		return nil, fmt.Errorf("session source: %w", err)
	}
	target, err := calendar.Parse(cfg.Session.Target)
	if err != nil {
		return nil, fmt.Errorf("session target: %w", err)
	}
	g, err := Build(cfg.Instruments)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("instruments", len(cfg.Instruments)).Int("edges", g.EdgeCount()).Msg("graph built")

	e := graph.NewPathEngine(g, graph.Vertex(source), graph.WithLogger(logger))
	logger.Info().
		Str("source", source.String()).
		Str("target", target.String()).
		Float64("top_bid", e.BestPriceTo(graph.Vertex(target), graph.Bid)).
		Float64("top_ask", e.BestPriceTo(graph.Vertex(target), graph.Ask)).
		Msg("initial synthetic quote")

	rows, err := Drain(e, graph.Vertex(target))
	if err != nil {
		return nil, err
	}
	b := &Book{Session: session, Source: source.String(), Target: target.String(), Rows: rows}

	s := Summarize(rows, 0)
	metrics.SyntheticLevels.WithLabelValues(graph.Bid.String()).Set(float64(s.BidLevels))
	metrics.SyntheticLevels.WithLabelValues(graph.Ask.String()).Set(float64(s.AskLevels))
	metrics.BookBuildLatencyMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	logger.Info().Int("rows", len(rows)).Int("bid_levels", s.BidLevels).Int("ask_levels", s.AskLevels).Dur("took", time.Since(start)).Msg("synthetic book drained")
	return b, nil
}
