package fdc

import "testing"

func TestReadNextSectorIDRotatesThroughTrack(t *testing.T) {
	c, _ := newTestController(t)
	c.drives[0].HeadTrack = 7

	spt := c.drives[0].image.SectorsPerTrack()
	seen := map[byte]bool{}
	for i := 0; i < spt; i++ {
		track, side, sector, ok := c.readNextSectorID()
		if !ok {
			t.Fatalf("readNextSectorID #%d reported not ok", i)
		}
		if track != 7 || side != 0 {
			t.Fatalf("readNextSectorID = track %d side %d, want 7/0", track, side)
		}
		if sector < 1 || int(sector) > spt {
			t.Fatalf("sector %d out of range 1..%d", sector, spt)
		}
		seen[sector] = true
	}
	if len(seen) != spt {
		t.Fatalf("saw %d distinct sectors in one revolution, want %d", len(seen), spt)
	}

	// The scan wraps back to sector 1 on the next call.
	_, _, sector, _ := c.readNextSectorID()
	if sector != 1 {
		t.Fatalf("first sector after wraparound = %d, want 1", sector)
	}
}

func TestReadNextSectorIDFailsWithoutReadyDrive(t *testing.T) {
	c := New(WithSeed(1))
	if _, _, _, ok := c.readNextSectorID(); ok {
		t.Fatal("expected readNextSectorID to fail with no drive ready")
	}
}

func TestSectorLengthCode(t *testing.T) {
	cases := []struct {
		size int
		want byte
	}{
		{128, 0},
		{256, 1},
		{512, 2},
		{1024, 3},
		{999, 2}, // anything unrecognized defaults to the 512-byte code
	}
	for _, tc := range cases {
		if got := sectorLengthCode(tc.size); got != tc.want {
			t.Errorf("sectorLengthCode(%d) = %d, want %d", tc.size, got, tc.want)
		}
	}
}

func TestMFMByteDelayScalesWithSelectedDriveDensity(t *testing.T) {
	c, _ := newTestController(t)
	c.drives[0].Density = DensityHD
	if got, want := c.mfmByteDelay(10), uint64(10*mfmByteCycles(DensityHD)); got != want {
		t.Fatalf("mfmByteDelay = %d, want %d", got, want)
	}
}
