package gps

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"navmon/internal/nmea"
)

// Config controls the receiver service.
//
// Source selects how NMEA is ingested: "serial" (direct device) or "tcp"
// (raw NMEA over a socket, e.g. a ser2net bridge). When empty, defaults
// to "serial". Device may be empty to auto-detect.
//
// This is a best-effort bring-up service; feed failures should not bring
// down the main process.
type Config struct {
	Enable bool

	Source string
	Device string
	Baud   int
	Addr   string

	Receiver nmea.Config
}

// SatelliteRecord is one catalog entry in client-facing form.
type SatelliteRecord struct {
	ID           int `json:"id"`
	ElevationDeg int `json:"elevation_deg"`
	AzimuthDeg   int `json:"azimuth_deg"`
	SNRDBHz      int `json:"snr_dbhz"`
}

// Snapshot is an immutable view of the receiver state, safe to hand to
// any goroutine.
type Snapshot struct {
	Enabled bool   `json:"enabled"`
	Status  string `json:"status"`
	Fixed   bool   `json:"fixed"`

	UTCTime      string  `json:"utc_time"`
	Latitude     string  `json:"latitude,omitempty"`
	Longitude    string  `json:"longitude,omitempty"`
	LatitudeDeg  float64 `json:"latitude_deg"`
	LongitudeDeg float64 `json:"longitude_deg"`
	SpeedKmh     float64 `json:"speed_kmh"`

	GPSSatellites    []SatelliteRecord `json:"gps_satellites"`
	BeiDouSatellites []SatelliteRecord `json:"beidou_satellites"`

	RawSentences map[string]string `json:"raw_sentences,omitempty"`

	Source string `json:"source,omitempty"`
	Device string `json:"device,omitempty"`
	Baud   int    `json:"baud,omitempty"`
	Addr   string `json:"addr,omitempty"`

	SentencesTotal uint64 `json:"sentences_total"`
	LinesDiscarded uint64 `json:"lines_discarded"`

	LastUpdateUTC string `json:"last_update_utc,omitempty"`
	LastError     string `json:"last_error,omitempty"`
}

// Service owns the nmea.Receiver and the goroutine feeding it. Observers
// read immutable snapshots via Snapshot.
type Service struct {
	cfg Config

	cancel context.CancelFunc
	wg     sync.WaitGroup

	last atomic.Value // Snapshot

	mu     sync.Mutex
	closer io.Closer
}

func New(cfg Config) *Service {
	s := &Service{cfg: cfg}
	src := strings.ToLower(strings.TrimSpace(cfg.Source))
	if src == "" {
		src = "serial"
	}
	s.cfg.Source = src
	s.last.Store(Snapshot{Enabled: cfg.Enable, Status: nmea.Indoor.String(), UTCTime: nmea.NoFixTime, Source: src, Device: cfg.Device, Baud: cfg.Baud, Addr: cfg.Addr})
	return s
}

func (s *Service) Start(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("gps service is nil")
	}
	if !s.cfg.Enable {
		return nil
	}
	if ctx == nil {
		return fmt.Errorf("ctx is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}

	if s.cfg.Source == "tcp" {
		return s.startTCPLocked(ctx)
	}
	return s.startSerialLocked(ctx)
}

func (s *Service) startSerialLocked(ctx context.Context) error {
	device := strings.TrimSpace(s.cfg.Device)
	if device == "" {
		device = autoDetectDevice()
		if device == "" {
			s.setError("serial auto-detect failed: no /dev/ttyACM* or /dev/ttyUSB* found")
			return fmt.Errorf("serial auto-detect failed")
		}
	}

	baud := s.cfg.Baud
	if baud == 0 {
		baud = 9600
	}

	f, err := openSerial(device, baud)
	if err != nil {
		s.setError(fmt.Sprintf("serial open failed device=%s baud=%d: %v", device, baud, err))
		return err
	}
	s.closer = f

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.cfg.Device = device
	s.cfg.Baud = baud

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() { _ = f.Close() }()

		log.Printf("receiver enabled source=serial device=%s baud=%d", device, baud)
		s.feed(childCtx, f)
	}()
	return nil
}

func (s *Service) startTCPLocked(ctx context.Context) error {
	addr := strings.TrimSpace(s.cfg.Addr)
	if addr == "" {
		return fmt.Errorf("tcp source requires addr")
	}

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		log.Printf("receiver enabled source=tcp addr=%s", addr)
		backoff := 250 * time.Millisecond
		const maxBackoff = 10 * time.Second

		for {
			select {
			case <-childCtx.Done():
				return
			default:
			}

			d := net.Dialer{Timeout: 5 * time.Second}
			conn, err := d.DialContext(childCtx, "tcp", addr)
			if err != nil {
				s.setError(fmt.Sprintf("tcp dial failed addr=%s: %v", addr, err))
				select {
				case <-childCtx.Done():
					return
				case <-time.After(backoff):
				}
				if backoff < maxBackoff {
					backoff *= 2
				}
				continue
			}
			backoff = 250 * time.Millisecond

			s.mu.Lock()
			// Swap the closer so Close() can interrupt an active connection.
			s.closer = conn
			s.mu.Unlock()

			s.feed(childCtx, conn)
			_ = conn.Close()
			// Loop and reconnect.
		}
	}()
	return nil
}

// feed is the single execution context that touches the Receiver. Lines
// arrive over a channel so the loop can also refresh the published
// snapshot on a timer: the indoor/outdoor status must go stale-Indoor
// even when the receiver falls silent.
func (s *Service) feed(ctx context.Context, rd io.Reader) {
	rx := nmea.NewReceiver(s.cfg.Receiver)

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(rd)
		// NMEA sentences are typically < 82 chars, but allow some headroom.
		sc.Buffer(make([]byte, 0, 256), 4096)
		for sc.Scan() {
			select {
			case lines <- strings.TrimSpace(sc.Text()):
			case <-ctx.Done():
				return
			}
		}
		err := sc.Err()
		if err == nil {
			err = io.EOF
		}
		readErr <- err
	}()

	var sentences, discarded uint64
	refresh := time.NewTicker(time.Second)
	defer refresh.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case err := <-readErr:
			s.setError(fmt.Sprintf("receiver read stopped: %v", err))
			return

		case <-refresh.C:
			s.publish(rx, time.Now().UTC(), sentences, discarded)

		case line := <-lines:
			if line == "" {
				continue
			}
			now := time.Now().UTC()
			class := rx.Feed(now, line)
			if class == nmea.ClassUnknown {
				discarded++
				linesDiscarded.Inc()
				continue
			}
			sentences++
			sentencesTotal.WithLabelValues(class.String()).Inc()
			if class == nmea.ClassRMC && rx.Fixed() {
				fixesTotal.Inc()
			}
			s.publish(rx, now, sentences, discarded)
		}
	}
}

func (s *Service) publish(rx *nmea.Receiver, now time.Time, sentences, discarded uint64) {
	snap := s.snapshotFrom(rx, now)
	snap.SentencesTotal = sentences
	snap.LinesDiscarded = discarded
	if snap.Status == nmea.Outdoor.String() {
		outdoorStatus.Set(1)
	} else {
		outdoorStatus.Set(0)
	}
	s.last.Store(snap)
}

func (s *Service) snapshotFrom(rx *nmea.Receiver, now time.Time) Snapshot {
	snap := Snapshot{
		Enabled:      true,
		Status:       rx.Status(now).String(),
		Fixed:        rx.Fixed(),
		UTCTime:      rx.UTCTime(),
		Latitude:     rx.Latitude(),
		Longitude:    rx.Longitude(),
		LatitudeDeg:  rx.LatitudeDeg(),
		LongitudeDeg: rx.LongitudeDeg(),
		SpeedKmh:     rx.SpeedKmh(),

		Source: s.cfg.Source,
		Device: s.cfg.Device,
		Baud:   s.cfg.Baud,
		Addr:   s.cfg.Addr,

		LastUpdateUTC: now.Format(time.RFC3339Nano),
	}
	snap.GPSSatellites = satelliteRecords(rx, nmea.GPS)
	snap.BeiDouSatellites = satelliteRecords(rx, nmea.BeiDou)

	raw := make(map[string]string)
	for _, c := range []nmea.Class{nmea.ClassRMC, nmea.ClassGGA, nmea.ClassVTG, nmea.ClassGSA, nmea.ClassGSV} {
		if line := rx.RawSentence(c); line != "" {
			raw[c.String()] = line
		}
	}
	if len(raw) > 0 {
		snap.RawSentences = raw
	}
	snap.LastError = s.Snapshot().LastError
	return snap
}

func satelliteRecords(rx *nmea.Receiver, c nmea.Constellation) []SatelliteRecord {
	out := make([]SatelliteRecord, 0, rx.SatelliteCount(c))
	for _, sat := range rx.Satellites(c) {
		out = append(out, SatelliteRecord{
			ID:           sat.ID,
			ElevationDeg: sat.Elevation,
			AzimuthDeg:   sat.Azimuth,
			SNRDBHz:      sat.SNR,
		})
	}
	return out
}

func (s *Service) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	cancel := s.cancel
	closer := s.closer
	s.cancel = nil
	s.closer = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if closer != nil {
		_ = closer.Close()
	}
	s.wg.Wait()
}

// Snapshot returns the last published receiver state.
func (s *Service) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	v := s.last.Load()
	if v == nil {
		return Snapshot{}
	}
	return v.(Snapshot)
}

func (s *Service) setError(msg string) {
	cur := s.Snapshot()
	cur.LastError = msg
	// Transient read issues shouldn't flip the published fix state.
	s.last.Store(cur)
}

func autoDetectDevice() string {
	// Keep it intentionally tiny and predictable.
	var candidates []string
	for i := 0; i < 10; i++ {
		candidates = append(candidates, fmt.Sprintf("/dev/ttyACM%d", i))
	}
	for i := 0; i < 10; i++ {
		candidates = append(candidates, fmt.Sprintf("/dev/ttyUSB%d", i))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
