package fdc

// Type III — track/field commands (spec.md §4.D): Read Address synthesizes
// a single six-byte ID field from the drive's current position; Read Track
// synthesizes and transfers an entire raw track image; Write Track is
// unimplemented per spec.md's Non-goals and completes with RNF at the next
// index pulse.

// Standard track gap sizes, ported from Hatari's
// FDC_TRACK_LAYOUT_STANDARD_GAP* constants (spec.md §6).
const (
	trackGap1 = 60 // pre-track gap, 0x4e
	trackGap2 = 12 // pre-ID-field gap, 0x00
	trackGap4 = 40 // post-data gap, 0x4e
)

// startType3 dispatches a newly written Read Address / Read Track / Write
// Track command.
func (c *Controller) startType3(cmdByte byte) {
	switch cmdByte >> 4 {
	case 0xc:
		c.commandID = cmdReadAddress
	case 0xe:
		c.commandID = cmdReadTrack
	case 0xf:
		c.commandID = cmdWriteTrack
	}
	c.subState = subPrepare
	c.arm(prepareDelay(typeIII))
}

func (c *Controller) stepType3() uint64 {
	switch c.subState {
	case subPrepare:
		delay := c.beginMotorAndSpinUp(c.commandReg)
		if c.subState != subSpinUpWait {
			c.enterType3Body()
		}
		return delay

	case subSpinUpWait:
		if delay := c.pollSpinUp(); delay != 0 {
			return delay
		}
		c.enterType3Body()
		return 0

	case subType3WaitIndex:
		return c.runType3WaitIndex()

	case subType3TransferByte:
		return c.runType3Transfer()

	case subType3Done:
		c.completeCommand(true)
		return 0
	}
	return 0
}

// enterType3Body transitions from the common prepare/spin-up prefix into
// each command's own body, resetting the shared work-buffer cursors and the
// index-pulse edge counter.
func (c *Controller) enterType3Body() {
	c.indexPulseCounter = 0
	c.workPos = 0
	c.workLen = 0
	if c.commandID == cmdReadTrack || c.commandID == cmdWriteTrack {
		c.subState = subType3WaitIndex
		return
	}
	c.subState = subType3TransferByte // Read Address heads straight to the search+build step
}

// runType3WaitIndex blocks Read Track / Write Track until the next index
// pulse, then, for Read Track, synthesizes the whole raw track into the work
// buffer (spec.md §4.D "Read Track"). Write Track is not implemented and
// completes with RNF (spec.md Non-goals).
func (c *Controller) runType3WaitIndex() uint64 {
	if !c.driveReady() {
		return 50_000
	}
	if !c.indexJustCrossed() {
		return clockPollIntervalCycles
	}

	if c.commandID == cmdWriteTrack {
		c.statusReg |= statusRNF
		c.subState = subType3Done
		return 0
	}

	c.buildReadTrackBuffer()
	c.subState = subType3TransferByte
	c.workPos = 0
	return 0
}

// indexJustCrossed reports whether the last tick() observed a fresh index
// pulse since this command began waiting, using indexPulseCounter as the
// edge marker (reset to 0 on entry to the wait state by enterType3Body).
func (c *Controller) indexJustCrossed() bool {
	if c.indexPulseCounter > 0 {
		return true
	}
	return false
}

// buildReadTrackBuffer synthesizes gap bytes, ID fields and (when present)
// sector data for the selected track/side into c.workBuf, following
// Hatari's FDCEMU_RUN_READTRACK_INDEX layout byte-for-byte. If the disk has
// only one side and side 1 was requested, the whole track is filled with
// pseudo-random bytes instead, matching the source's fallback.
func (c *Controller) buildReadTrackBuffer() {
	d := c.selectedDriveModel()
	buf := c.workBuf
	n := standardTrackBytes * (d.Density)
	if n > len(buf) {
		n = len(buf)
	}

	if c.selectedSide == 1 && d.image.SidesPerDisk() != 2 {
		for i := 0; i < n; i++ {
			buf[i] = byte(c.rng.Intn(256))
		}
		c.workLen = n
		return
	}

	pos := 0
	fill := func(b byte, count int) {
		for i := 0; i < count && pos < len(buf); i++ {
			buf[pos] = b
			pos++
		}
	}

	fill(0x4e, trackGap1)

	sectorsPerTrack := d.image.SectorsPerTrack()
	for sector := 1; sector <= sectorsPerTrack; sector++ {
		fill(0x00, trackGap2)

		idStart := pos
		fill(0xa1, 3)
		fill(0xfe, 1)
		fill(byte(d.HeadTrack), 1)
		fill(byte(c.selectedSide), 1)
		fill(byte(sector), 1)
		fill(sectorLengthCode(bytesPerSector), 1)
		crc := crc16CCITT(buf[idStart:pos])
		fill(byte(crc>>8), 1)
		fill(byte(crc), 1)

		fill(0x4e, gap3aBytes)
		fill(0x00, gap3bBytes)

		dataStart := pos
		fill(0xa1, 3)
		fill(0xfb, 1)

		data, err := d.image.ReadSector(int(d.HeadTrack), c.selectedSide, sector)
		if err == nil {
			for _, b := range data {
				if pos >= len(buf) {
					break
				}
				buf[pos] = b
				pos++
			}
		}
		crc = crc16CCITT(buf[dataStart:pos])
		fill(byte(crc>>8), 1)
		fill(byte(crc), 1)

		fill(0x4e, trackGap4)
	}

	for pos < n {
		buf[pos] = 0x4e
		pos++
	}
	c.workLen = n
}

// runType3Transfer handles both Read Address (a synthesized six-byte ID
// field) and Read Track (the whole buildReadTrackBuffer output), one FIFO
// byte per call.
func (c *Controller) runType3Transfer() uint64 {
	if c.commandID == cmdReadAddress && c.workPos == 0 && c.workLen == 0 {
		if !c.driveReady() {
			return 50_000
		}
		if !c.buildReadAddressField() {
			c.statusReg |= statusRNF
			c.subState = subType3Done
			return 0
		}
	}

	if c.workPos < c.workLen {
		c.dma.Push(c.workBuf[c.workPos])
		c.workPos++
		return c.mfmByteDelay(1)
	}

	c.subState = subType3Done
	return 0
}

// buildReadAddressField synthesizes the six returned bytes (track, side,
// sector, length code, CRC hi, CRC lo) of a Read Address response and
// copies the track number into the sector register, per spec.md §4.D. It
// consumes one header from the rotating scan, so repeated Read Address
// commands cycle through the track's sectors like real hardware reading
// consecutive ID fields. When side 1 is selected on a single-sided disk the
// six bytes are pseudo-random instead and the sector register is left as is.
func (c *Controller) buildReadAddressField() bool {
	track, side, sector, ok := c.readNextSectorID()
	if !ok {
		return false
	}
	if d := c.selectedDriveModel(); c.selectedSide == 1 && d.image.SidesPerDisk() != 2 {
		for i := 0; i < 6; i++ {
			c.workBuf[i] = byte(c.rng.Intn(256))
		}
		c.workPos = 0
		c.workLen = 6
		return true
	}
	lengthCode := sectorLengthCode(bytesPerSector)
	full := idFieldCRCInput(track, side, sector, lengthCode)
	crc := crc16CCITT(full)

	c.sectorReg = track

	c.workBuf[0] = track
	c.workBuf[1] = side
	c.workBuf[2] = sector
	c.workBuf[3] = lengthCode
	c.workBuf[4] = byte(crc >> 8)
	c.workBuf[5] = byte(crc)
	c.workPos = 0
	c.workLen = 6
	return true
}
