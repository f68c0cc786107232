package web

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"navmon/internal/gps"
	"navmon/internal/pps"
)

// ReceiverSource provides the current receiver snapshot. Implementations
// must be safe to call concurrently.
type ReceiverSource interface {
	Snapshot() gps.Snapshot
}

// PPSSource optionally provides pulse-per-second health for the UI.
type PPSSource interface {
	Snapshot() pps.Snapshot
}

// StatusDoc is the /api/status response body.
type StatusDoc struct {
	Service   string        `json:"service"`
	NowUTC    string        `json:"now_utc"`
	UptimeSec int64         `json:"uptime_sec"`
	Receiver  gps.Snapshot  `json:"receiver"`
	PPS       *pps.Snapshot `json:"pps,omitempty"`
}

type server struct {
	startUnixNano int64
	receiver      ReceiverSource
	pps           PPSSource
}

func (s *server) statusDoc(nowUTC time.Time) StatusDoc {
	start := time.Unix(0, atomic.LoadInt64(&s.startUnixNano)).UTC()
	doc := StatusDoc{
		Service:   "navmon",
		NowUTC:    nowUTC.Format(time.RFC3339Nano),
		UptimeSec: int64(nowUTC.Sub(start).Seconds()),
		Receiver:  s.receiver.Snapshot(),
	}
	if s.pps != nil {
		snap := s.pps.Snapshot()
		doc.PPS = &snap
	}
	return doc
}

func Handler(receiver ReceiverSource, ppsSrc PPSSource) http.Handler {
	s := &server{
		startUnixNano: time.Now().UTC().UnixNano(),
		receiver:      receiver,
		pps:           ppsSrc,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		b, err := json.MarshalIndent(s.statusDoc(time.Now().UTC()), "", "  ")
		if err != nil {
			http.Error(w, "marshal failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(b)
		_, _ = w.Write([]byte("\n"))
	})

	mux.HandleFunc("/api/satellites", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		snap := s.receiver.Snapshot()
		resp := struct {
			GPS    []gps.SatelliteRecord `json:"gps"`
			BeiDou []gps.SatelliteRecord `json:"beidou"`
		}{
			GPS:    snap.GPSSatellites,
			BeiDou: snap.BeiDouSatellites,
		}
		if resp.GPS == nil {
			resp.GPS = []gps.SatelliteRecord{}
		}
		if resp.BeiDou == nil {
			resp.BeiDou = []gps.SatelliteRecord{}
		}
		b, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			http.Error(w, "marshal failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(b)
		_, _ = w.Write([]byte("\n"))
	})

	mux.HandleFunc("/api/live", s.handleLive)

	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

func Serve(ctx context.Context, listenAddr string, receiver ReceiverSource, ppsSrc PPSSource) error {
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           Handler(receiver, ppsSrc),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// No WriteTimeout: /api/live streams for the client's lifetime.
		IdleTimeout:    30 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MiB
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
