package nmea

import "time"

// Status is the two-state indoor/outdoor estimate.
type Status int

const (
	Indoor Status = iota
	Outdoor
)

func (s Status) String() string {
	if s == Outdoor {
		return "outdoor"
	}
	return "indoor"
}

// Default thresholds for the fix-status heuristic. Observed receiver
// firmware disagrees on the exact values, so they are named here and
// overridable through Config.
const (
	DefaultFixTimeout   = 10 * time.Second
	DefaultSNRThreshold = 30 // dBHz
	DefaultMinVisible   = 5
	DefaultMinGood      = 3
)

// Status derives the indoor/outdoor estimate on demand, evaluated in
// strict priority order:
//
//  1. direct evidence recorded at decode time (RMC 'A' or GGA quality
//     1/2/4) that is younger than the fix timeout keeps it Outdoor;
//  2. once that evidence ages past the timeout the status is Indoor,
//     regardless of catalog contents;
//  3. before any direct evidence has ever been seen, the catalog decides:
//     Outdoor needs MinVisible cataloged satellites of which MinGood meet
//     the SNR threshold.
//
// This is a best-effort heuristic rather than a protocol guarantee; not
// every sentence type reliably carries fix-quality information.
func (r *Receiver) Status(now time.Time) Status {
	if !r.lastFix.IsZero() {
		if now.Sub(r.lastFix) <= r.cfg.FixTimeout {
			return Outdoor
		}
		return Indoor
	}

	total, good := 0, 0
	for i := range r.cats {
		for _, s := range r.cats[i].sats {
			total++
			if s.SNR >= r.cfg.SNRThreshold {
				good++
			}
		}
	}
	if total >= r.cfg.MinVisible && good >= r.cfg.MinGood {
		return Outdoor
	}
	return Indoor
}
