package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/justin4957/logflow-api-analytics/internal/analyzer"
	"github.com/justin4957/logflow-api-analytics/internal/config"
	"github.com/justin4957/logflow-api-analytics/internal/redact"
	"github.com/justin4957/logflow-api-analytics/internal/selection"
	"github.com/justin4957/logflow-api-analytics/internal/stream"
	"github.com/justin4957/logflow-api-analytics/internal/table"
	"github.com/justin4957/logflow-api-analytics/pkg/models"
)

// Message types pushed to WebSocket clients
const (
	MessageSummary   = "summary"
	MessageSelection = "selection"
)

// Message is the WebSocket envelope
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Server provides the web dashboard over the in-memory dataset
type Server struct {
	config     config.DashboardConfig
	aggregator *analyzer.Aggregator
	redactor   *redact.Redactor
	selector   *selection.Selector
	timeRange  analyzer.TimeRange
	now        func() time.Time

	upgrader  websocket.Upgrader
	clients   map[*websocket.Conn]bool
	clientsMu sync.Mutex
	broadcast chan Message

	mu      sync.RWMutex
	records []models.Record
	summary *models.Summary
}

// NewServer creates a new dashboard server
func NewServer(cfg config.DashboardConfig, agg *analyzer.Aggregator, red *redact.Redactor, rng analyzer.TimeRange) *Server {
	s := &Server{
		config:     cfg,
		aggregator: agg,
		redactor:   red,
		selector:   selection.NewSelector(),
		timeRange:  rng,
		now:        time.Now,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Dashboard is served on a local address
			},
		},
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan Message, 100),
	}
	s.selector.Subscribe(selection.ObserverFunc(s.onSelect))
	s.summary = agg.Aggregate(nil, s.now())
	return s
}

// Selector exposes the selection owner so other views can observe it
func (s *Server) Selector() *selection.Selector {
	return s.selector
}

// Update replaces the dataset and recomputes the summary
func (s *Server) Update(records []models.Record) {
	now := s.now()
	summary := s.aggregator.Aggregate(analyzer.FilterByRange(records, s.timeRange, now), now)

	s.mu.Lock()
	s.records = records
	s.summary = summary
	s.mu.Unlock()

	s.selector.Clear()
	s.enqueue(Message{Type: MessageSummary, Data: summary})
}

// Summary returns the summary for the configured time range
func (s *Server) Summary() *models.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}

func (s *Server) snapshot() []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

func (s *Server) onSelect(rec models.Record) {
	detail, err := s.redactor.RedactRecord(rec)
	if err != nil {
		log.Printf("Failed to redact selected record: %v", err)
		return
	}
	s.enqueue(Message{Type: MessageSelection, Data: detail})
}

func (s *Server) enqueue(m Message) {
	select {
	case s.broadcast <- m:
	default:
		log.Printf("Broadcast queue full, dropping %s message", m.Type)
	}
}

// Handler returns the dashboard routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/records", s.handleRecords)
	mux.HandleFunc("GET /api/records/{id}", s.handleRecord)
	mux.HandleFunc("GET /{$}", s.handleIndex)
	return mux
}

// Start serves the dashboard and applies dataset snapshots from updates
// until ctx is cancelled.
func (s *Server) Start(ctx context.Context, updates <-chan stream.Snapshot) error {
	go s.broadcastLoop(ctx)
	go s.handleUpdates(ctx, updates)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Dashboard server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("dashboard server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.closeClients()
	return server.Shutdown(shutdownCtx)
}

func (s *Server) handleUpdates(ctx context.Context, updates <-chan stream.Snapshot) {
	for {
		select {
		case <-ctx.Done():
			return
		case snapshot, ok := <-updates:
			if !ok {
				return
			}
			s.Update(snapshot.Records)
			log.Printf("Dashboard refreshed: %d records", len(snapshot.Records))
		}
	}
}

func (s *Server) broadcastLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case message := <-s.broadcast:
			s.clientsMu.Lock()
			for client := range s.clients {
				if err := client.WriteJSON(message); err != nil {
					log.Printf("WebSocket write error: %v", err)
					client.Close()
					delete(s.clients, client)
				}
			}
			s.clientsMu.Unlock()
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	s.clientsMu.Lock()
	s.clients[conn] = true
	err = conn.WriteJSON(Message{Type: MessageSummary, Data: s.Summary()})
	s.clientsMu.Unlock()
	if err != nil {
		log.Printf("WebSocket write error: %v", err)
		s.removeClient(conn)
		return
	}

	log.Printf("WebSocket client connected")

	// Keep connection alive
	for {
		if _, _, err := conn.NextReader(); err != nil {
			s.removeClient(conn)
			break
		}
	}
}

func (s *Server) removeClient(conn *websocket.Conn) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	if s.clients[conn] {
		conn.Close()
		delete(s.clients, conn)
	}
}

func (s *Server) closeClients() {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for client := range s.clients {
		client.Close()
		delete(s.clients, client)
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	rangeParam := r.URL.Query().Get("range")
	if rangeParam == "" {
		writeJSON(w, s.Summary())
		return
	}

	rng, err := analyzer.ParseTimeRange(rangeParam)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	now := s.now()
	writeJSON(w, s.aggregator.Aggregate(analyzer.FilterByRange(s.snapshot(), rng, now), now))
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	sortBy, err := table.ParseSortField(params.Get("sort"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	q := table.Query{
		Endpoint: params.Get("endpoint"),
		Method:   params.Get("method"),
		SortBy:   sortBy,
		Desc:     params.Get("desc") == "true",
		Page:     1,
		PageSize: s.config.PageSize,
	}
	if v := params.Get("page"); v != "" {
		if q.Page, err = strconv.Atoi(v); err != nil || q.Page < 1 {
			http.Error(w, "invalid page", http.StatusBadRequest)
			return
		}
	}
	if v := params.Get("size"); v != "" {
		if q.PageSize, err = strconv.Atoi(v); err != nil || !validPageSize(q.PageSize) {
			http.Error(w, "invalid page size", http.StatusBadRequest)
			return
		}
	}

	fallback := s.aggregator.FallbackKey()
	writeJSON(w, projectPage(table.Apply(s.snapshot(), q, fallback), fallback))
}

// handleRecord returns one redacted record and makes it the selection
func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	rec, ok := table.Find(s.snapshot(), r.PathValue("id"))
	if !ok {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}

	detail, err := s.redactor.RedactRecord(rec)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.selector.Select(rec)
	writeJSON(w, detail)
}

func validPageSize(n int) bool {
	for _, size := range table.PageSizes {
		if n == size {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
