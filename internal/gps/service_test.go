package gps

import (
	"context"
	"net"
	"testing"
	"time"

	"navmon/internal/nmea"
)

func TestService_DisabledIsNoop(t *testing.T) {
	s := New(Config{Enable: false})
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	snap := s.Snapshot()
	if snap.Enabled {
		t.Fatalf("expected disabled snapshot")
	}
	if snap.Status != "indoor" {
		t.Fatalf("initial status = %q, want indoor", snap.Status)
	}
	s.Close()
}

func TestService_TCPSourceEndToEnd(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	feed := "$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A\r\n" +
		"not nmea\r\n" +
		"$GPGSV,1,1,02,14,25,170,36,22,45,120,31\r\n"

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		_, _ = conn.Write([]byte(feed))
		// Hold the connection open so the service keeps reading.
		time.Sleep(5 * time.Second)
		_ = conn.Close()
	}()

	s := New(Config{Enable: true, Source: "tcp", Addr: ln.Addr().String()})
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer s.Close()

	deadline := time.Now().Add(3 * time.Second)
	var snap Snapshot
	for time.Now().Before(deadline) {
		snap = s.Snapshot()
		if snap.Fixed && len(snap.GPSSatellites) == 2 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	if !snap.Fixed {
		t.Fatalf("snapshot never reported a fix: %+v", snap)
	}
	if snap.UTCTime != "12:35:19" {
		t.Fatalf("utc_time = %q, want 12:35:19", snap.UTCTime)
	}
	if snap.SpeedKmh != 41.5 {
		t.Fatalf("speed_kmh = %v, want 41.5", snap.SpeedKmh)
	}
	if snap.Status != "outdoor" {
		t.Fatalf("status = %q, want outdoor", snap.Status)
	}
	if len(snap.GPSSatellites) != 2 || snap.GPSSatellites[1].SNRDBHz != 31 {
		t.Fatalf("gps_satellites = %+v", snap.GPSSatellites)
	}
	if snap.LinesDiscarded == 0 {
		t.Fatalf("expected the garbage line to be counted as discarded")
	}
	if snap.RawSentences["RMC"] == "" {
		t.Fatalf("expected raw RMC cache, got %+v", snap.RawSentences)
	}
}

func TestSnapshotFrom_CarriesSentinelsWithoutFix(t *testing.T) {
	s := New(Config{Enable: true, Source: "tcp", Addr: "127.0.0.1:1"})
	rx := nmea.NewReceiver(nmea.Config{})
	snap := s.snapshotFrom(rx, time.Now().UTC())

	if snap.Fixed {
		t.Fatalf("expected no fix")
	}
	if snap.UTCTime != nmea.NoFixTime {
		t.Fatalf("utc_time = %q, want %q", snap.UTCTime, nmea.NoFixTime)
	}
	if snap.Latitude != "" || snap.LatitudeDeg != 0 {
		t.Fatalf("position not at sentinel: %q %v", snap.Latitude, snap.LatitudeDeg)
	}
	if snap.Status != "indoor" {
		t.Fatalf("status = %q, want indoor", snap.Status)
	}
}
