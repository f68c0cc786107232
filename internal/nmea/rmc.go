package nmea

import (
	"math"
	"strings"
	"time"
)

const kmhPerKnot = 1.852

// RMC: Recommended Minimum Specific GNSS Data
// Fields (NMEA 0183):
//
//	0: talker+type
//	1: time (hhmmss.sss)
//	2: status (A=active, V=void)
//	3: latitude (ddmm.mmmm)
//	4: N/S
//	5: longitude (dddmm.mmmm)
//	6: E/W
//	7: speed over ground (knots)
//	8: course over ground (deg)
//	9: date (ddmmyy)
func (r *Receiver) applyRMC(now time.Time, f []string) {
	if len(f) < 10 {
		return
	}

	if strings.TrimSpace(f[2]) != "A" {
		// Fix lost: stale coordinates must never survive, so the whole
		// state is reset to its no-fix sentinel.
		r.fix = fixState{}
		return
	}

	var next fixState
	next.fixed = true
	if t := strings.TrimSpace(f[1]); len(t) >= 6 {
		next.utc = t[:6]
	}
	next.latDeg, next.latMin, next.latHemi = parseAngle(f[3], f[4], "NS")
	next.lonDeg, next.lonMin, next.lonHemi = parseAngle(f[5], f[6], "EW")
	next.speedKmh = math.Round(parseFloatField(f[7])*kmhPerKnot*10) / 10

	// Commit the fully-built state in one assignment.
	r.fix = next
	r.lastFix = now
}

// GGA: Global Positioning System Fix Data. Only the quality indicator
// (field 6) matters here; a value of 1, 2 or 4 counts as direct evidence
// of an outdoor fix. Position is taken from RMC alone so the two can
// never diverge.
func (r *Receiver) applyGGA(now time.Time, f []string) {
	if len(f) < 7 {
		return
	}
	switch strings.TrimSpace(f[6]) {
	case "1", "2", "4":
		r.lastFix = now
	}
}
