package nmea

const (
	// catalogCap bounds each constellation's catalog; on overflow only the
	// catalogKeep most-recently-appended entries are retained.
	catalogCap  = 32
	catalogKeep = 28
)

// catalog is an ordered, capacity-bounded collection of satellites for one
// constellation, oldest append first.
type catalog struct {
	sats []Satellite
}

// upsert overwrites the entry sharing s.ID in place or appends s, then
// enforces the capacity bound.
func (c *catalog) upsert(s Satellite) {
	for i := range c.sats {
		if c.sats[i].ID == s.ID {
			c.sats[i] = s
			return
		}
	}
	c.sats = append(c.sats, s)
	if len(c.sats) > catalogCap {
		n := copy(c.sats, c.sats[len(c.sats)-catalogKeep:])
		c.sats = c.sats[:n]
	}
}
