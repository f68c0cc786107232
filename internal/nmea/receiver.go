package nmea

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// NoFixTime is returned by UTCTime when no valid fix is held.
const NoFixTime = "--:--:--"

// Constellation is the closed set of satellite systems tracked here.
type Constellation int

const (
	GPS Constellation = iota
	BeiDou

	numConstellations = 2
)

func (c Constellation) String() string {
	switch c {
	case GPS:
		return "gps"
	case BeiDou:
		return "beidou"
	default:
		return "unknown"
	}
}

// Satellite is one tracked satellite, uniquely identified by
// (Constellation, ID) within the catalog.
type Satellite struct {
	Constellation Constellation
	ID            int // PRN, positive
	Elevation     int // degrees, 0..90
	Azimuth       int // degrees from true north, 0..359
	SNR           int // dBHz
}

// fixState holds the navigation fields derived from the last accepted RMC.
// It is replaced wholesale on every RMC decode; when fixed is false all
// other fields hold their zero sentinel, never stale prior values.
type fixState struct {
	fixed    bool
	utc      string // 6-digit hhmmss, "" when no fix
	latDeg   int
	latMin   float64
	latHemi  byte // 'N' or 'S'
	lonDeg   int
	lonMin   float64
	lonHemi  byte // 'E' or 'W'
	speedKmh float64
}

// Config tunes the fix-status heuristic. Zero values select the defaults.
type Config struct {
	// FixTimeout is how long direct fix evidence (RMC 'A', GGA quality)
	// keeps the status Outdoor without fresh confirmation.
	FixTimeout time.Duration

	// SNRThreshold is the minimum SNR in dBHz for a satellite to count as
	// good quality in the catalog fallback.
	SNRThreshold int

	// MinVisible and MinGood are the catalog-fallback thresholds: Outdoor
	// requires at least MinVisible cataloged satellites of which at least
	// MinGood meet SNRThreshold.
	MinVisible int
	MinGood    int
}

func (c Config) withDefaults() Config {
	if c.FixTimeout <= 0 {
		c.FixTimeout = DefaultFixTimeout
	}
	if c.SNRThreshold <= 0 {
		c.SNRThreshold = DefaultSNRThreshold
	}
	if c.MinVisible <= 0 {
		c.MinVisible = DefaultMinVisible
	}
	if c.MinGood <= 0 {
		c.MinGood = DefaultMinGood
	}
	return c
}

// Receiver holds all canonical state derived from the sentence feed: the
// current fix, the per-constellation satellite catalogs and a cache of the
// last raw sentence per type.
//
// A Receiver is not safe for concurrent use. All mutation happens through
// Feed, which the owning goroutine calls one line at a time; observers are
// expected to read between Feed calls (see the gps service for the
// snapshot-publishing pattern).
type Receiver struct {
	cfg Config

	fix     fixState
	cats    [numConstellations]catalog
	raw     map[Class]string
	lastFix time.Time // last direct fix evidence, zero until first seen
}

func NewReceiver(cfg Config) *Receiver {
	return &Receiver{
		cfg: cfg.withDefaults(),
		raw: make(map[Class]string),
	}
}

// Feed processes one trimmed line from the receiver and returns the class
// of sentence it carried, or ClassUnknown when the line was discarded.
//
// A sentence either commits all of its fields or leaves prior state
// untouched; malformed input is dropped without error.
func (r *Receiver) Feed(now time.Time, line string) Class {
	if line == "" || line[0] != '$' {
		return ClassUnknown
	}
	class, fields := classify(line)
	if class == ClassUnknown {
		return ClassUnknown
	}

	switch class {
	case ClassRMC:
		r.applyRMC(now, fields)
	case ClassGGA:
		r.applyGGA(now, fields)
	case ClassGSV:
		r.applyGSV(fields)
	}
	// VTG and GSA carry nothing the state model needs, but the raw cache
	// keeps them available for debugging.
	r.raw[class] = line
	return class
}

// Capture synchronously reads lines from rd and feeds them until limit
// recognized sentences arrive, maxWait elapses, or the input ends. It
// terminates unconditionally even if an expected burst-boundary sentence
// never arrives, and returns the number of recognized sentences.
func (r *Receiver) Capture(rd io.Reader, limit int, maxWait time.Duration) int {
	sc := bufio.NewScanner(rd)
	// NMEA sentences are typically < 82 chars, but allow some headroom.
	sc.Buffer(make([]byte, 0, 256), 4096)

	deadline := time.Now().Add(maxWait)
	n := 0
	for n < limit && time.Now().Before(deadline) && sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if r.Feed(time.Now().UTC(), line) != ClassUnknown {
			n++
		}
	}
	return n
}

// Fixed reports whether the last RMC carried a valid fix.
func (r *Receiver) Fixed() bool { return r.fix.fixed }

// UTCTime returns the fix time-of-day as "HH:MM:SS", or NoFixTime.
func (r *Receiver) UTCTime() string {
	if !r.fix.fixed || len(r.fix.utc) < 6 {
		return NoFixTime
	}
	u := r.fix.utc
	return u[0:2] + ":" + u[2:4] + ":" + u[4:6]
}

// Latitude returns the fix latitude as a degrees-and-minutes display
// string, e.g. `48° 7.0380' N`, or "" when no fix is held.
func (r *Receiver) Latitude() string {
	if !r.fix.fixed {
		return ""
	}
	return formatAngle(r.fix.latDeg, r.fix.latMin, r.fix.latHemi)
}

// Longitude is the longitude counterpart of Latitude.
func (r *Receiver) Longitude() string {
	if !r.fix.fixed {
		return ""
	}
	return formatAngle(r.fix.lonDeg, r.fix.lonMin, r.fix.lonHemi)
}

// LatitudeDeg returns the fix latitude in signed decimal degrees rounded
// to 6 decimal places (negative for the southern hemisphere), or 0.
func (r *Receiver) LatitudeDeg() float64 {
	if !r.fix.fixed {
		return 0
	}
	return decimalDegrees(r.fix.latDeg, r.fix.latMin, r.fix.latHemi)
}

// LongitudeDeg is the longitude counterpart of LatitudeDeg (negative west).
func (r *Receiver) LongitudeDeg() float64 {
	if !r.fix.fixed {
		return 0
	}
	return decimalDegrees(r.fix.lonDeg, r.fix.lonMin, r.fix.lonHemi)
}

// SpeedKmh returns the ground speed in km/h rounded to one decimal, or 0.
func (r *Receiver) SpeedKmh() float64 {
	if !r.fix.fixed {
		return 0
	}
	return r.fix.speedKmh
}

// SatelliteCount returns the number of cataloged satellites for c.
func (r *Receiver) SatelliteCount(c Constellation) int {
	if c < 0 || c >= numConstellations {
		return 0
	}
	return len(r.cats[c].sats)
}

// SatelliteInfo returns the i-th cataloged satellite for c. The second
// return value is false when the index is out of range.
func (r *Receiver) SatelliteInfo(c Constellation, i int) (Satellite, bool) {
	if c < 0 || c >= numConstellations {
		return Satellite{}, false
	}
	sats := r.cats[c].sats
	if i < 0 || i >= len(sats) {
		return Satellite{}, false
	}
	return sats[i], true
}

// Satellites returns a copy of the catalog for c, oldest entry first.
func (r *Receiver) Satellites(c Constellation) []Satellite {
	if c < 0 || c >= numConstellations {
		return nil
	}
	out := make([]Satellite, len(r.cats[c].sats))
	copy(out, r.cats[c].sats)
	return out
}

// RawSentence returns the last raw line seen for the given class, "" if none.
func (r *Receiver) RawSentence(c Class) string { return r.raw[c] }

func formatAngle(deg int, min float64, hemi byte) string {
	return fmt.Sprintf("%d° %.4f' %c", deg, min, hemi)
}

func decimalDegrees(deg int, min float64, hemi byte) float64 {
	v := float64(deg) + min/60
	if hemi == 'S' || hemi == 'W' {
		v = -v
	}
	return math.Round(v*1e6) / 1e6
}

// parseAngle splits an NMEA angle ("ddmm.mmmm" or "dddmm.mmmm") into
// degrees and minutes, with the hemisphere letter validated against the
// two allowed values. Malformed parts default to zero rather than failing.
func parseAngle(v, hemi, allowed string) (int, float64, byte) {
	h := allowed[0]
	hemi = strings.TrimSpace(hemi)
	if len(hemi) == 1 && strings.ContainsRune(allowed, rune(hemi[0])) {
		h = hemi[0]
	}

	v = strings.TrimSpace(v)
	dot := strings.IndexByte(v, '.')
	intPart := v
	if dot != -1 {
		intPart = v[:dot]
	}
	if len(intPart) < 3 {
		return 0, 0, h
	}
	deg, err := strconv.Atoi(intPart[:len(intPart)-2])
	if err != nil {
		return 0, 0, h
	}
	min, err := strconv.ParseFloat(v[len(intPart)-2:], 64)
	if err != nil {
		min = 0
	}
	return deg, min, h
}

func parseIntField(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

func parseFloatField(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
