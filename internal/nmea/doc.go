// Package nmea turns a noisy line-oriented NMEA-0183 feed into navigation
// state: fix time/position/speed from RMC, a bounded per-constellation
// satellite catalog from GSV bursts, and an on-demand indoor/outdoor
// estimate.
//
// The package does no I/O and raises no errors; malformed lines are
// discarded silently and checksums are never verified, because the source
// is a serial link where minor corruption is routine.
package nmea
