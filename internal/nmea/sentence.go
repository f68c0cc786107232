package nmea

import "strings"

// Class identifies a recognized NMEA sentence type.
type Class int

const (
	ClassUnknown Class = iota
	ClassRMC
	ClassGGA
	ClassVTG
	ClassGSA
	ClassGSV
)

func (c Class) String() string {
	switch c {
	case ClassRMC:
		return "RMC"
	case ClassGGA:
		return "GGA"
	case ClassVTG:
		return "VTG"
	case ClassGSA:
		return "GSA"
	case ClassGSV:
		return "GSV"
	default:
		return "unknown"
	}
}

// suffixes maps the 3-letter sentence formatter to its class. The 2-letter
// talker ID in front of it varies across receiver firmware (GP, GN, BD, GB),
// so matching is anchored to the tail of the address field only.
var suffixes = []struct {
	text  string
	class Class
}{
	{"RMC", ClassRMC},
	{"GGA", ClassGGA},
	{"VTG", ClassVTG},
	{"GSA", ClassGSA},
	{"GSV", ClassGSV},
}

// classify splits a raw sentence into fields and identifies its type.
//
// The checksum suffix ("*hh") is cut off but never verified; the feed comes
// from a noisy serial line and minor corruption must not halt processing.
// Sentences with fewer than 4 fields or an unrecognized formatter are
// discarded silently.
func classify(line string) (Class, []string) {
	if i := strings.IndexByte(line, '*'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Split(line, ",")
	if len(fields) < 4 {
		return ClassUnknown, nil
	}

	tail := fields[0]
	if len(tail) > 5 {
		tail = tail[len(tail)-5:]
	}
	for _, s := range suffixes {
		if strings.Contains(tail, s.text) {
			return s.class, fields
		}
	}
	return ClassUnknown, nil
}

// fieldAt returns f[i], or "" when the sentence was truncated before i.
func fieldAt(f []string, i int) string {
	if i < 0 || i >= len(f) {
		return ""
	}
	return f[i]
}
