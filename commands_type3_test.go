package fdc

import "testing"

func TestReadAddressReturnsSixByteIDFieldWithValidCRC(t *testing.T) {
	// Six bytes never fill the 16-byte DMA FIFO, so real hardware (and this
	// model) leaves them sitting in the FIFO rather than flushed to DRAM;
	// inspect the FIFO directly instead of memory.
	c, _ := newTestController(t)
	c.drives[0].HeadTrack = 3
	c.dma.SetSectorCount(1)
	c.dma.setAddress(0x9000)

	c.WriteCommand(0xc0) // Read Address
	if !runUntilIdle(c, 2_000_000) {
		t.Fatal("read address did not complete")
	}
	if c.statusReg&statusRNF != 0 {
		t.Fatal("unexpected RNF on Read Address with media present")
	}

	got := c.dma.fifo[:6]
	track, side, sector, lengthCode := got[0], got[1], got[2], got[3]
	if track != 3 {
		t.Fatalf("track byte = %d, want 3", track)
	}
	if side != 0 {
		t.Fatalf("side byte = %d, want 0", side)
	}
	if lengthCode != 2 {
		t.Fatalf("length code = %d, want 2 for a 512-byte sector", lengthCode)
	}
	wantCRC := crc16CCITT(idFieldCRCInput(track, side, sector, lengthCode))
	gotCRC := uint16(got[4])<<8 | uint16(got[5])
	if gotCRC != wantCRC {
		t.Fatalf("CRC = %#04x, want %#04x", gotCRC, wantCRC)
	}
	if c.sectorReg != track {
		t.Fatalf("sectorReg = %d, want copied track value %d", c.sectorReg, track)
	}
}

func TestReadAddressWithoutMediaStaysBusyPollingForADrive(t *testing.T) {
	c := New(WithSeed(1))
	c.Enable(0, true)
	c.SetDriveSide(0xf9)
	c.SetHostMemory(&fakeMemory{})
	// No disk inserted: driveReady() is false, so the search polls forever
	// without decrementing a revolution counter until the host gives up.
	// Exercise a few polls and confirm BUSY stays asserted rather than
	// silently completing.
	c.dma.SetSectorCount(1)
	c.WriteCommand(0xc0)
	for i := 0; i < 100; i++ {
		c.Advance(1000)
	}
	if !c.Busy() {
		t.Fatal("Read Address with no media should stay busy, polling for a drive")
	}
}

func TestReadTrackBufferBeginsWithGap1AndIDField(t *testing.T) {
	c, _ := newTestController(t)
	c.drives[0].HeadTrack = 2
	c.buildReadTrackBuffer()

	for i := 0; i < trackGap1; i++ {
		if c.workBuf[i] != 0x4e {
			t.Fatalf("byte %d of gap1 = %#02x, want 0x4e", i, c.workBuf[i])
		}
	}
	idFieldStart := trackGap1 + trackGap2
	for i := 0; i < 3; i++ {
		if c.workBuf[idFieldStart+i] != 0xa1 {
			t.Fatalf("sync byte %d = %#02x, want 0xa1", i, c.workBuf[idFieldStart+i])
		}
	}
	if c.workBuf[idFieldStart+3] != 0xfe {
		t.Fatalf("ID address mark = %#02x, want 0xfe", c.workBuf[idFieldStart+3])
	}
	if c.workBuf[idFieldStart+4] != 2 {
		t.Fatalf("ID track byte = %d, want 2", c.workBuf[idFieldStart+4])
	}
}

func TestReadTrackOnMissingSideFillsWithPseudoRandomBytes(t *testing.T) {
	c, _ := newTestController(t)
	// The blank test image is double-sided, so force the single-sided
	// fallback path by shrinking the reported side count via a fresh
	// single-sided image.
	data := make([]byte, bytesPerSector*9*1*80)
	img, err := NewSTImage(data, false)
	if err != nil {
		t.Fatalf("NewSTImage: %v", err)
	}
	c.Insert(0, img)
	c.selectedSide = 1

	c.buildReadTrackBuffer()
	if c.workLen == 0 {
		t.Fatal("expected a non-empty synthesized track even on the missing side")
	}
}

func TestWriteTrackCompletesWithRNFAtNextIndexPulse(t *testing.T) {
	c, _ := newTestController(t)
	c.WriteCommand(0xf0) // Write Track
	if !runUntilIdle(c, 4_000_000) {
		t.Fatal("write track did not complete")
	}
	if c.statusReg&statusRNF == 0 {
		t.Fatal("expected RNF for the unimplemented Write Track command")
	}
}
