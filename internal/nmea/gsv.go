package nmea

import "strings"

// GSV: Satellites in View. A full sky view spans several consecutive GSV
// sentences of the same constellation (a burst), linked by the message
// sequence number in field 2. Each sentence carries up to 4 satellites in
// 4-field groups starting at field 4: (id, elevation, azimuth, snr).
//
// Catalog maintenance is merge-by-id: a decoded record overwrites the
// existing entry with its id or is appended, and satellites that silently
// drop out of later bursts age out only through capacity trimming. This
// tolerates receivers that omit a dropped satellite without signaling
// removal; the catalog is never bulk-cleared on a sequence restart.
func (r *Receiver) applyGSV(f []string) {
	if len(f) < 8 {
		return
	}

	var c Constellation
	switch {
	case strings.Contains(f[0], "GP"):
		c = GPS
	case strings.Contains(f[0], "BD"), strings.Contains(f[0], "GB"):
		c = BeiDou
	default:
		return
	}

	// A garbled sequence number means the burst framing is suspect.
	if parseIntField(f[2]) < 1 {
		return
	}

	for i := 4; i < len(f); i += 4 {
		id := parseIntField(f[i])
		if id <= 0 {
			// Empty-slot sentinel.
			continue
		}
		r.cats[c].upsert(Satellite{
			Constellation: c,
			ID:            id,
			Elevation:     parseIntField(fieldAt(f, i+1)),
			Azimuth:       parseIntField(fieldAt(f, i+2)),
			SNR:           parseIntField(fieldAt(f, i+3)),
		})
	}
}
