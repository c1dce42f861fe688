package tests

import (
    "encoding/json"
    "io"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/dottormarmitta/FutureExchange/internal/api/rest"
    "github.com/dottormarmitta/FutureExchange/internal/book"
    "github.com/dottormarmitta/FutureExchange/internal/config"
    ilog "github.com/dottormarmitta/FutureExchange/internal/infra/log"
    "github.com/dottormarmitta/FutureExchange/internal/infra/metrics"
    "github.com/dottormarmitta/FutureExchange/internal/infra/version"
)

// buildMux mirrors the HTTP setup in cmd/futurex/main.go
func buildMux(t *testing.T, priced bool) http.Handler {
    t.Helper()
    cfg, err := config.Load()
    if err != nil { t.Fatalf("config.Load error: %v", err) }
    logger := ilog.NewLogger(cfg)
    logger, session := ilog.WithSession(logger)
    reg := metrics.Init(logger)
    api := rest.New(cfg.Output.PricePlaces, cfg.Output.VWAPQty)
    api.Handle("/metrics", metrics.Handler(reg))
    api.Handle("/version", http.HandlerFunc(version.Handler))
    if priced {
        b, err := book.Price(cfg, logger, session)
        if err != nil { t.Fatalf("book.Price error: %v", err) }
        api.SetBook(b)
    }
    return api.Handler()
}

func TestReadyzAndVersion(t *testing.T) {
    srv := httptest.NewServer(buildMux(t, true))
    t.Cleanup(srv.Close)

    // readyz should return 200 once a book is set in buildMux
    resp, err := http.Get(srv.URL + "/readyz")
    if err != nil { t.Fatalf("GET /readyz error: %v", err) }
    if resp.StatusCode != http.StatusOK {
        t.Fatalf("/readyz expected 200, got %d", resp.StatusCode)
    }
    _ = resp.Body.Close()

    // version should return json
    resp, err = http.Get(srv.URL + "/version")
    if err != nil { t.Fatalf("GET /version error: %v", err) }
    defer resp.Body.Close()
    if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
        t.Fatalf("/version expected application/json, got %s", ct)
    }
}

func TestReadyzBeforePricing(t *testing.T) {
    srv := httptest.NewServer(buildMux(t, false))
    t.Cleanup(srv.Close)

    resp, err := http.Get(srv.URL + "/readyz")
    if err != nil { t.Fatalf("GET /readyz error: %v", err) }
    defer resp.Body.Close()
    if resp.StatusCode != http.StatusServiceUnavailable {
        t.Fatalf("/readyz expected 503 before pricing, got %d", resp.StatusCode)
    }
}

func TestHealthzEndpoint(t *testing.T) {
    srv := httptest.NewServer(buildMux(t, false))
    t.Cleanup(srv.Close)

    resp, err := http.Get(srv.URL + "/healthz")
    if err != nil {
        t.Fatalf("GET /healthz error: %v", err)
    }
    defer resp.Body.Close()

    if resp.StatusCode != http.StatusOK {
        t.Fatalf("expected 200, got %d", resp.StatusCode)
    }
}

func TestBookEndpoint(t *testing.T) {
    srv := httptest.NewServer(buildMux(t, true))
    t.Cleanup(srv.Close)

    resp, err := http.Get(srv.URL + "/book")
    if err != nil { t.Fatalf("GET /book error: %v", err) }
    defer resp.Body.Close()
    if resp.StatusCode != http.StatusOK {
        t.Fatalf("expected 200, got %d", resp.StatusCode)
    }
    var b book.Book
    if err := json.NewDecoder(resp.Body).Decode(&b); err != nil {
        t.Fatalf("decode /book: %v", err)
    }
    if b.Source != "Jun23" || b.Target != "Dec23" {
        t.Fatalf("unexpected session %s -> %s", b.Source, b.Target)
    }
    if b.Session == "" {
        t.Fatalf("expected session id in book")
    }
    if len(b.Rows) == 0 || !b.Rows[0].HasBid {
        t.Fatalf("expected a non-empty book with a bid on the first row")
    }
}

func TestMetricsEndpoint(t *testing.T) {
    srv := httptest.NewServer(buildMux(t, true))
    t.Cleanup(srv.Close)

    resp, err := http.Get(srv.URL + "/metrics")
    if err != nil {
        t.Fatalf("GET /metrics error: %v", err)
    }
    defer resp.Body.Close()

    if resp.StatusCode != http.StatusOK {
        t.Fatalf("expected 200, got %d", resp.StatusCode)
    }
    // Basic smoke-check: pricing should have left engine metrics behind
    b, _ := io.ReadAll(resp.Body)
    body := string(b)
    if body == "" || !strings.Contains(body, "path_recomputes_total") || !strings.Contains(body, "synthetic_levels") {
        t.Fatalf("metrics output did not contain expected metrics, got: %q", body)
    }
}
