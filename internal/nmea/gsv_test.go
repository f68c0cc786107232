package nmea

import (
	"fmt"
	"testing"
)

// gsvBurst builds ceil(len(sats)/4) GSV sentences for the given talker,
// with each satellite as (id, elevation, azimuth, snr).
func gsvBurst(talker string, sats [][4]int) []string {
	total := (len(sats) + 3) / 4
	lines := make([]string, 0, total)
	for msg := 1; msg <= total; msg++ {
		line := fmt.Sprintf("$%sGSV,%d,%d,%02d", talker, total, msg, len(sats))
		for i := (msg - 1) * 4; i < msg*4 && i < len(sats); i++ {
			s := sats[i]
			line += fmt.Sprintf(",%02d,%02d,%03d,%02d", s[0], s[1], s[2], s[3])
		}
		lines = append(lines, line)
	}
	return lines
}

func TestGSV_BurstBuildsCatalog(t *testing.T) {
	sats := [][4]int{
		{3, 3, 111, 0},
		{4, 15, 270, 31},
		{6, 1, 10, 0},
		{13, 6, 292, 33},
		{14, 25, 170, 36},
		{16, 57, 208, 39},
	}
	rx := NewReceiver(Config{})
	for _, line := range gsvBurst("GP", sats) {
		if got := rx.Feed(testNow, line); got != ClassGSV {
			t.Fatalf("Feed(%q) = %v, want ClassGSV", line, got)
		}
	}

	if got := rx.SatelliteCount(GPS); got != len(sats) {
		t.Fatalf("SatelliteCount(GPS) = %d, want %d", got, len(sats))
	}
	if got := rx.SatelliteCount(BeiDou); got != 0 {
		t.Fatalf("SatelliteCount(BeiDou) = %d, want 0", got)
	}
	for i, want := range sats {
		sat, ok := rx.SatelliteInfo(GPS, i)
		if !ok {
			t.Fatalf("SatelliteInfo(GPS, %d): no data", i)
		}
		if sat.ID != want[0] || sat.Elevation != want[1] || sat.Azimuth != want[2] || sat.SNR != want[3] {
			t.Fatalf("satellite %d = %+v, want %v", i, sat, want)
		}
		if sat.Constellation != GPS {
			t.Fatalf("satellite %d constellation = %v, want GPS", i, sat.Constellation)
		}
	}
}

func TestGSV_TalkerSelectsConstellation(t *testing.T) {
	rx := NewReceiver(Config{})
	rx.Feed(testNow, "$BDGSV,1,1,02,201,45,120,30,205,10,300,22")
	rx.Feed(testNow, "$GBGSV,1,1,01,210,30,080,28")
	rx.Feed(testNow, "$GLGSV,1,1,01,65,30,080,28") // GLONASS: ignored

	if got := rx.SatelliteCount(BeiDou); got != 3 {
		t.Fatalf("SatelliteCount(BeiDou) = %d, want 3", got)
	}
	if got := rx.SatelliteCount(GPS); got != 0 {
		t.Fatalf("SatelliteCount(GPS) = %d, want 0", got)
	}
}

func TestGSV_MergeByIDOverwrites(t *testing.T) {
	rx := NewReceiver(Config{})
	rx.Feed(testNow, "$GPGSV,1,1,01,14,25,170,20")
	rx.Feed(testNow, "$GPGSV,1,1,01,14,26,171,38")

	if got := rx.SatelliteCount(GPS); got != 1 {
		t.Fatalf("SatelliteCount = %d, want 1", got)
	}
	sat, ok := rx.SatelliteInfo(GPS, 0)
	if !ok || sat.SNR != 38 || sat.Elevation != 26 {
		t.Fatalf("satellite = %+v ok=%v, want overwritten record", sat, ok)
	}
}

func TestGSV_EmptySlotAndMissingSubfields(t *testing.T) {
	rx := NewReceiver(Config{})
	// Second group has an empty id, third is truncated after the id.
	rx.Feed(testNow, "$GPGSV,1,1,03,22,45,120,30,,,,,07")

	if got := rx.SatelliteCount(GPS); got != 2 {
		t.Fatalf("SatelliteCount = %d, want 2", got)
	}
	sat, ok := rx.SatelliteInfo(GPS, 1)
	if !ok {
		t.Fatalf("expected truncated satellite to be cataloged")
	}
	if sat.ID != 7 || sat.Elevation != 0 || sat.Azimuth != 0 || sat.SNR != 0 {
		t.Fatalf("satellite = %+v, want id=7 with zero defaults", sat)
	}
}

func TestGSV_CapacityBoundHolds(t *testing.T) {
	rx := NewReceiver(Config{})
	var sats [][4]int
	for id := 1; id <= 48; id++ {
		sats = append(sats, [4]int{id, 10, 100, 25})
	}
	for _, line := range gsvBurst("GP", sats) {
		rx.Feed(testNow, line)
		if got := rx.SatelliteCount(GPS); got > catalogCap {
			t.Fatalf("catalog grew to %d, cap is %d", got, catalogCap)
		}
	}

	// Oldest ids were evicted; the most recent append is always present.
	if _, ok := rx.SatelliteInfo(GPS, 0); !ok {
		t.Fatalf("expected non-empty catalog")
	}
	last := rx.Satellites(GPS)
	if last[len(last)-1].ID != 48 {
		t.Fatalf("newest satellite id = %d, want 48", last[len(last)-1].ID)
	}
	for _, s := range last {
		if s.ID <= 8 {
			t.Fatalf("id %d should have been trimmed", s.ID)
		}
	}
}

func TestGSV_BadSequenceNumberDiscarded(t *testing.T) {
	rx := NewReceiver(Config{})
	rx.Feed(testNow, "$GPGSV,1,x,01,14,25,170,20")
	if got := rx.SatelliteCount(GPS); got != 0 {
		t.Fatalf("SatelliteCount = %d, want 0", got)
	}
}
