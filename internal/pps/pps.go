// Package pps counts pulse-per-second edges from a GNSS receiver's PPS
// output on a GPIO line. It is purely observational: the pulse count and
// last-edge timestamp show up in the status surface as receiver health.
package pps

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"
)

type Config struct {
	Enable bool

	// Pin is the BCM GPIO number the PPS output is wired to.
	Pin int
}

type Snapshot struct {
	Enabled      bool   `json:"enabled"`
	Pulses       uint64 `json:"pulses"`
	LastPulseUTC string `json:"last_pulse_utc,omitempty"`
	LastError    string `json:"last_error,omitempty"`
}

type Service struct {
	cfg Config

	pulses        uint64
	lastPulseNano int64
	lastErr       atomic.Value // string

	line io.Closer
}

func New(cfg Config) *Service {
	s := &Service{cfg: cfg}
	s.lastErr.Store("")
	return s
}

// Start requests the GPIO line with edge events. Failure is recorded but
// not fatal: PPS is health telemetry, not a dependency.
func (s *Service) Start() error {
	if !s.cfg.Enable {
		return nil
	}
	line, err := openPPS(s.cfg.Pin, s.markPulse)
	if err != nil {
		s.lastErr.Store(fmt.Sprintf("pps open failed pin=%d: %v", s.cfg.Pin, err))
		return err
	}
	s.line = line
	return nil
}

func (s *Service) markPulse(now time.Time) {
	atomic.AddUint64(&s.pulses, 1)
	atomic.StoreInt64(&s.lastPulseNano, now.UTC().UnixNano())
}

func (s *Service) Close() {
	if s == nil || s.line == nil {
		return
	}
	_ = s.line.Close()
	s.line = nil
}

func (s *Service) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	snap := Snapshot{
		Enabled:   s.cfg.Enable,
		Pulses:    atomic.LoadUint64(&s.pulses),
		LastError: s.lastErr.Load().(string),
	}
	if nano := atomic.LoadInt64(&s.lastPulseNano); nano != 0 {
		snap.LastPulseUTC = time.Unix(0, nano).UTC().Format(time.RFC3339Nano)
	}
	return snap
}
