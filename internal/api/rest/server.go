package rest

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/dottormarmitta/FutureExchange/internal/book"
)

// Server exposes the last drained synthetic book read-only. Until SetBook
// is called the book endpoints answer 503 and /readyz reports not ready.
type Server struct {
	mux     *http.ServeMux
	places  int32
	vwapQty int64

	mu   sync.RWMutex
	book *book.Book
}

func New(places int32, vwapQty int64) *Server {
	s := &Server{mux: http.NewServeMux(), places: places, vwapQty: vwapQty}
	s.mux.HandleFunc("/status", s.status)
	s.mux.HandleFunc("/readyz", s.readyz)
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK); _, _ = w.Write([]byte("ok")) })
	s.mux.HandleFunc("/book", s.bookJSON)
	s.mux.HandleFunc("/book.csv", s.bookCSV)
	s.mux.HandleFunc("/summary", s.summary)
	return s
}

func (s *Server) Handler() http.Handler { return s.mux }

// Handle registers extra routes (metrics, pprof) on the same mux.
func (s *Server) Handle(pattern string, h http.Handler) { s.mux.Handle(pattern, h) }

func (s *Server) SetBook(b *book.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.book = b
}

func (s *Server) current() *book.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.book
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if s.current() == nil {
		_, _ = w.Write([]byte("pricing"))
		return
	}
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	if s.current() != nil {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
		return
	}
	http.Error(w, "not ready", http.StatusServiceUnavailable)
}

func (s *Server) bookJSON(w http.ResponseWriter, r *http.Request) {
	b := s.current()
	if b == nil {
		http.Error(w, "book not available", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, b)
}

func (s *Server) bookCSV(w http.ResponseWriter, r *http.Request) {
	b := s.current()
	if b == nil {
		http.Error(w, "book not available", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	_ = book.WriteCSV(w, b.Rows, s.places)
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	b := s.current()
	if b == nil {
		http.Error(w, "book not available", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, book.Summarize(b.Rows, s.vwapQty))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
