// Package httpapi exposes the live run progress over HTTP for
// harnesses that prefer polling JSON over parsing the stderr progress
// line.
package httpapi

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"FlowForge/internal/core/model"
	"FlowForge/internal/progress"
)

// Server serves /healthz and /status off a live progress.Tracker.
type Server struct {
	srv     *http.Server
	tracker *progress.Tracker
	started bool
}

// New builds a Server bound to addr, reporting tracker's gauges.
func New(addr string, tracker *progress.Tracker) *Server {
	s := &Server{tracker: tracker}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.healthzHandler).Methods("GET")
	r.HandleFunc("/status", s.statusHandler).Methods("GET")

	s.srv = &http.Server{Addr: addr, Handler: r}
	return s
}

// Start launches the server in a background goroutine. Listener bind
// failures surface synchronously; failures after that are logged, not
// fatal.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	s.started = true

	go func() {
		log.Printf("status server listening on %s", s.srv.Addr)
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("status server stopped: %v", err)
		}
	}()
	return nil
}

// Shutdown gracefully stops the server, bounded by a 5 second timeout.
func (s *Server) Shutdown() {
	if !s.started {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		log.Printf("status server forced shutdown: %v", err)
	}
}

func (s *Server) healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	summary := model.RunSummary{
		FlowsGenerated:  s.tracker.Flows(),
		FlowsCollected:  s.tracker.Flows(),
		TotalBytes:      s.tracker.Bytes(),
		StartTimestamp:  s.tracker.StartTimestamp(),
		EndTimestamp:    s.tracker.EndTimestamp(),
		ProgressPercent: s.tracker.ProgressFraction() * 100,
		ElapsedSeconds:  s.tracker.ElapsedSeconds(),
		ETASeconds:      s.tracker.ETA().Seconds(),
		ThroughputFps:   s.tracker.ThroughputFlowsPerSec(),
		BandwidthGbps:   s.tracker.BandwidthGbps(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(summary)
}
