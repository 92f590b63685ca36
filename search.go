package fdc

// Header search (spec.md §4.D): shared by the type-I verify phase, the
// type-II sector search, and type-III Read Address. Real WD1772 hardware
// finds a sector's ID field by reading MFM bytes off the rotating medium
// until a sync mark appears; since our image backends store sectors by
// number rather than raw MFM bytes, the search is modeled as a rotating scan
// across the track's fixed sector numbering (spec.md's Non-goals exclude
// copy-protected/non-standard sector layouts, so a fixed 1..N enumeration is
// exact for every disk this controller supports).

// readNextSectorID advances the scan by one header and reports its
// track/side/sector, or ok=false if no drive/image is ready to be scanned.
func (c *Controller) readNextSectorID() (track, side, sector byte, ok bool) {
	if !c.driveReady() {
		return 0, 0, 0, false
	}
	d := c.selectedDriveModel()
	n := d.image.SectorsPerTrack()
	if n <= 0 {
		return 0, 0, 0, false
	}
	idx := c.headerScanIndex % n
	c.headerScanIndex = (idx + 1) % n
	track = byte(d.HeadTrack)
	side = byte(c.selectedSide)
	sector = byte(idx + 1)
	return track, side, sector, true
}

// mfmByteDelay converts a count of MFM bytes read off the medium into a
// controller-cycle delay at the selected drive's density (spec.md §5).
func (c *Controller) mfmByteDelay(n int) uint64 {
	density := DensityDD
	if d := c.selectedDriveModel(); d != nil {
		density = d.Density
	}
	return uint64(n) * uint64(mfmByteCycles(density))
}

// sectorLengthCode maps a 128/256/512/1024-byte sector size to the WD1772 ID
// field's two-bit length code. This controller and every image backend it
// supports use fixed 512-byte sectors, so this always returns 2, but it is
// kept explicit for Read Address's byte layout (spec.md §4.D).
func sectorLengthCode(size int) byte {
	switch size {
	case 128:
		return 0
	case 256:
		return 1
	case 1024:
		return 3
	default:
		return 2
	}
}
