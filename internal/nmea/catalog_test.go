package nmea

import "testing"

func TestCatalog_UpsertKeepsOrder(t *testing.T) {
	var c catalog
	c.upsert(Satellite{ID: 5, SNR: 10})
	c.upsert(Satellite{ID: 9, SNR: 20})
	c.upsert(Satellite{ID: 5, SNR: 33})

	if len(c.sats) != 2 {
		t.Fatalf("len = %d, want 2", len(c.sats))
	}
	if c.sats[0].ID != 5 || c.sats[0].SNR != 33 {
		t.Fatalf("sats[0] = %+v, want id=5 snr=33 in place", c.sats[0])
	}
	if c.sats[1].ID != 9 {
		t.Fatalf("sats[1] = %+v, want id=9", c.sats[1])
	}
}

func TestCatalog_TrimRetainsNewest(t *testing.T) {
	var c catalog
	for id := 1; id <= catalogCap+1; id++ {
		c.upsert(Satellite{ID: id})
	}

	if len(c.sats) != catalogKeep {
		t.Fatalf("len = %d, want %d after overflow", len(c.sats), catalogKeep)
	}
	if c.sats[0].ID != catalogCap+1-catalogKeep+1 {
		t.Fatalf("oldest retained id = %d, want %d", c.sats[0].ID, catalogCap+1-catalogKeep+1)
	}
	if c.sats[len(c.sats)-1].ID != catalogCap+1 {
		t.Fatalf("newest id = %d, want %d", c.sats[len(c.sats)-1].ID, catalogCap+1)
	}
}
