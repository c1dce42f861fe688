package book

import "github.com/shopspring/decimal"

// Summary describes the depth of a drained synthetic book.
type Summary struct {
	BidLevels int     `json:"bid_levels"`
	AskLevels int     `json:"ask_levels"`
	BestBid   float64 `json:"best_bid"`
	BestAsk   float64 `json:"best_ask"`
	// Volume-weighted price of the first Qty lots per side; the Ok flags
	// are false when the book is thinner than Qty.
	Qty     int64           `json:"qty"`
	VWAPBid decimal.Decimal `json:"vwap_bid"`
	VWAPAsk decimal.Decimal `json:"vwap_ask"`
	BidOk   bool            `json:"bid_ok"`
	AskOk   bool            `json:"ask_ok"`
}

// Summarize counts levels and integrates the first qty lots of each side.
// Each row carries exactly one lot per side. qty <= 0 skips the VWAP.
func Summarize(rows []Row, qty int64) Summary {
	s := Summary{Qty: qty}
	var bidSum, askSum decimal.Decimal
	for _, r := range rows {
		if r.HasBid {
			if s.BidLevels == 0 {
				s.BestBid = r.Bid
			}
			if int64(s.BidLevels) < qty {
				bidSum = bidSum.Add(decimal.NewFromFloat(r.Bid))
			}
			s.BidLevels++
		}
		if r.HasAsk {
			if s.AskLevels == 0 {
				s.BestAsk = r.Ask
			}
			if int64(s.AskLevels) < qty {
				askSum = askSum.Add(decimal.NewFromFloat(r.Ask))
			}
			s.AskLevels++
		}
	}
	if qty <= 0 {
		return s
	}
	n := decimal.NewFromInt(qty)
	if int64(s.BidLevels) >= qty {
		s.VWAPBid, s.BidOk = bidSum.Div(n), true
	}
	if int64(s.AskLevels) >= qty {
		s.VWAPAsk, s.AskOk = askSum.Div(n), true
	}
	return s
}
