package pps

import (
	"testing"
	"time"
)

func TestService_DisabledSnapshot(t *testing.T) {
	s := New(Config{Enable: false})
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	snap := s.Snapshot()
	if snap.Enabled || snap.Pulses != 0 || snap.LastPulseUTC != "" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	s.Close()
}

func TestService_MarkPulseCounts(t *testing.T) {
	s := New(Config{Enable: true, Pin: 18})

	at := time.Date(2024, 3, 23, 12, 0, 0, 0, time.UTC)
	s.markPulse(at)
	s.markPulse(at.Add(time.Second))

	snap := s.Snapshot()
	if snap.Pulses != 2 {
		t.Fatalf("pulses = %d, want 2", snap.Pulses)
	}
	want := at.Add(time.Second).Format(time.RFC3339Nano)
	if snap.LastPulseUTC != want {
		t.Fatalf("last_pulse_utc = %q, want %q", snap.LastPulseUTC, want)
	}
}
