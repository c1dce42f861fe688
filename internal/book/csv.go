package book

import (
	"encoding/csv"
	"io"

	"github.com/shopspring/decimal"
)

// WriteCSV writes the book as BID,ASK rows. Prices are rounded to places
// decimals so summed legs print without float noise; an exhausted side is
// left empty.
func WriteCSV(w io.Writer, rows []Row, places int32) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"BID", "ASK"}); err != nil {
		return err
	}
	format := func(p float64, ok bool) string {
		if !ok {
			return ""
		}
		return decimal.NewFromFloat(p).Round(places).String()
	}
	for _, r := range rows {
		if err := cw.Write([]string{format(r.Bid, r.HasBid), format(r.Ask, r.HasAsk)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
