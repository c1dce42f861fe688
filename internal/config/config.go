package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"logging"`
	Server struct {
		Enabled             bool     `yaml:"enabled"`
		Addr                string   `yaml:"addr"`
		Pprof               bool     `yaml:"pprof"`
		ReadTimeoutSeconds  int      `yaml:"read_timeout_seconds"`
		WriteTimeoutSeconds int      `yaml:"write_timeout_seconds"`
		IdleTimeoutSeconds  int      `yaml:"idle_timeout_seconds"`
		AdminAllowCIDRs     []string `yaml:"admin_allow_cidrs"`
	} `yaml:"server"`
	Session struct {
		Source string `yaml:"source"`
		Target string `yaml:"target"`
	} `yaml:"session"`
	Output struct {
		Path        string `yaml:"path"`
		PricePlaces int32  `yaml:"price_places"`
		VWAPQty     int64  `yaml:"vwap_qty"`
	} `yaml:"output"`
	Instruments []Instrument `yaml:"instruments"`
}

// Instrument is one traded spread between two calendar months. Bid prices
// are descending, ask prices ascending, each paired index-wise with a lot
// quantity.
type Instrument struct {
	From      string    `yaml:"from"`
	To        string    `yaml:"to"`
	BidPrices []float64 `yaml:"bid_prices"`
	BidQty    []int64   `yaml:"bid_qty"`
	AskPrices []float64 `yaml:"ask_prices"`
	AskQty    []int64   `yaml:"ask_qty"`
}

func (i Instrument) Name() string { return i.From + "-" + i.To }

var ErrLengthMismatch = errors.New("config: price and quantity lengths differ")

func (i Instrument) Validate() error {
	if len(i.BidPrices) != len(i.BidQty) {
		return fmt.Errorf("%s bids: %w (%d prices, %d quantities)", i.Name(), ErrLengthMismatch, len(i.BidPrices), len(i.BidQty))
	}
	if len(i.AskPrices) != len(i.AskQty) {
		return fmt.Errorf("%s asks: %w (%d prices, %d quantities)", i.Name(), ErrLengthMismatch, len(i.AskPrices), len(i.AskQty))
	}
	return nil
}

func (c Config) Validate() error {
	if c.Session.Source == "" || c.Session.Target == "" {
		return errors.New("config: session source and target are required")
	}
	if c.Session.Source == c.Session.Target {
		return fmt.Errorf("config: source and target are both %s", c.Session.Source)
	}
	if c.Output.PricePlaces < 0 {
		return fmt.Errorf("config: price_places must be >= 0, got %d", c.Output.PricePlaces)
	}
	for _, ins := range c.Instruments {
		if err := ins.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func defaultConfig() Config {
	var c Config
	c.Logging.Level = "info"
	c.Logging.Pretty = false
	c.Server.Enabled = false
	c.Server.Addr = ":9090"
	c.Server.Pprof = false
	c.Server.ReadTimeoutSeconds = 5
	c.Server.WriteTimeoutSeconds = 10
	c.Server.IdleTimeoutSeconds = 60
	c.Server.AdminAllowCIDRs = []string{"127.0.0.0/8", "::1/128"}
	c.Session.Source = "Jun23"
	c.Session.Target = "Dec23"
	c.Output.Path = "book.csv"
	c.Output.PricePlaces = 4
	c.Output.VWAPQty = 10
	c.Instruments = []Instrument{
		{From: "Jun23", To: "Dec23", BidPrices: []float64{1.04, 0.87}, BidQty: []int64{100, 1}, AskPrices: []float64{1.14, 1.16}, AskQty: []int64{10, 100}},
		{From: "Jun23", To: "Jul23", BidPrices: []float64{0.20, 0.19}, BidQty: []int64{2, 100}, AskPrices: []float64{0.21, 0.25}, AskQty: []int64{10, 50}},
		{From: "Jul23", To: "Sep23", BidPrices: []float64{0.45, 0.35}, BidQty: []int64{100, 150}, AskPrices: []float64{0.46, 0.50}, AskQty: []int64{5, 100}},
		{From: "Jul23", To: "Dec23", BidPrices: []float64{0.87, 0.70}, BidQty: []int64{1, 150}, AskPrices: []float64{0.90, 0.95}, AskQty: []int64{10, 100}},
		{From: "Jul23", To: "Jul24", BidPrices: []float64{1.97, 1.80}, BidQty: []int64{100, 150}, AskPrices: []float64{1.98, 2.05}, AskQty: []int64{7, 100}},
		{From: "Dec23", To: "Jul24", BidPrices: []float64{1.05, 1.00}, BidQty: []int64{100, 150}, AskPrices: []float64{1.11, 1.50}, AskQty: []int64{10, 100}},
		{From: "Sep23", To: "Dec23", BidPrices: []float64{0.40, 0.15}, BidQty: []int64{100, 150}, AskPrices: []float64{0.42, 0.50}, AskQty: []int64{10, 100}},
	}
	return c
}

// Load layers the YAML file named by FUTUREX_CONFIG (if any) over the
// defaults, then applies environment overrides and validates the result.
func Load() (Config, error) {
	c := defaultConfig()
	if path := os.Getenv("FUTUREX_CONFIG"); path != "" {
		if err := readFile(path, &c); err != nil {
			return c, err
		}
	}
	applyEnv(&c)
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

func readFile(path string, c *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(c *Config) {
	if v := os.Getenv("FUTUREX_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("FUTUREX_LOG_PRETTY"); v == "1" || v == "true" {
		c.Logging.Pretty = true
	}
	if v := os.Getenv("FUTUREX_SERVE"); v == "1" || v == "true" {
		c.Server.Enabled = true
	}
	if v := os.Getenv("FUTUREX_HTTP_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("FUTUREX_PPROF"); v == "1" || v == "true" {
		c.Server.Pprof = true
	}
	if v := os.Getenv("FUTUREX_ADMIN_ALLOW_CIDRS"); v != "" {
		c.Server.AdminAllowCIDRs = splitCSV(v)
	}
	if v := os.Getenv("FUTUREX_SOURCE"); v != "" {
		c.Session.Source = v
	}
	if v := os.Getenv("FUTUREX_TARGET"); v != "" {
		c.Session.Target = v
	}
	if v := os.Getenv("FUTUREX_OUTPUT"); v != "" {
		c.Output.Path = v
	}
	if v := os.Getenv("FUTUREX_PRICE_PLACES"); v != "" {
		var n int32
		if _, err := fmt.Sscan(v, &n); err == nil && n >= 0 {
			c.Output.PricePlaces = n
		}
	}
	if v := os.Getenv("FUTUREX_VWAP_QTY"); v != "" {
		var n int64
		if _, err := fmt.Sscan(v, &n); err == nil && n > 0 {
			c.Output.VWAPQty = n
		}
	}
}

func splitCSV(s string) []string {
	var out []string
	buf := []rune{}
	for _, r := range s {
		if r == ',' {
			if len(buf) > 0 {
				out = append(out, string(buf))
				buf = buf[:0]
			}
			continue
		}
		buf = append(buf, r)
	}
	if len(buf) > 0 {
		out = append(out, string(buf))
	}
	return out
}
