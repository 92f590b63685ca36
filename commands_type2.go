package fdc

// Type II — sector transfer commands (spec.md §4.D): Read Sector(s) and
// Write Sector(s), each searching for a matching ID field before streaming
// 512 bytes through the DMA FIFO one byte per MFM-byte period.

// headLoadDelayUs is the optional head-settle delay Read/Write Sector add
// when the head-load command bit is set (Hatari's FDC_DELAY_US_HEAD_LOAD).
// Type-III commands do not apply it.
const headLoadDelayUs = 30_000

// searchIndexRevolutions bounds the type-II/III ID-field search, same limit
// as the type-I verify phase.
const searchIndexRevolutions = 5

// gap3aBytes/gap3bBytes/syncMarkBytes size the delay between a matched ID
// field and the data mark (postIDCRCBytes is not added to it), mirroring
// FDC_TRACK_LAYOUT_STANDARD_GAP3a/b in the source this was distilled from.
const (
	gap3aBytes     = 22
	gap3bBytes     = 12
	postIDCRCBytes = 1 + 2 // length byte + 2 CRC bytes already counted by the search
	syncMarkBytes  = 3 + 1 // three A1 sync bytes + the data-mark byte
)

// startType2 dispatches a newly written Read/Write Sector(s) command.
func (c *Controller) startType2(cmdByte byte) {
	c.commandID = cmdReadSector
	if cmdByte&0x20 != 0 {
		c.commandID = cmdWriteSector
	}
	c.multipleSectors = cmdByte&0x10 != 0
	c.subState = subPrepare
	c.arm(prepareDelay(typeII))
}

func (c *Controller) stepType2() uint64 {
	if c.commandID == cmdWriteSector {
		if d := c.selectedDriveModel(); d != nil && d.Enabled && d.DiskInserted && d.image.IsWriteProtected() {
			c.statusReg |= statusWriteProtect
			c.completeCommand(true)
			return 0
		}
		c.statusReg &^= statusWriteProtect
	}

	switch c.subState {
	case subPrepare:
		delay := c.beginMotorAndSpinUp(c.commandReg)
		if c.subState != subSpinUpWait {
			c.subState = subType2HeadLoad
		}
		return delay

	case subSpinUpWait:
		if delay := c.pollSpinUp(); delay != 0 {
			return delay
		}
		c.subState = subType2HeadLoad
		return 0

	case subType2HeadLoad:
		if c.commandReg&0x04 != 0 {
			c.subState = subType2SearchID
			c.replacePossible = false
			c.indexPulseCounter = 0
			return usToControllerCycles(headLoadDelayUs, c.cfg.ControllerFreqHz)
		}
		c.replacePossible = false
		c.indexPulseCounter = 0
		c.subState = subType2SearchID
		return 0

	case subType2SearchID:
		return c.runType2Search()

	case subType2TransferByte:
		return c.runType2Transfer()

	case subType2Done:
		c.completeCommand(true)
		return 0
	}
	return 0
}

// runType2Search hunts for an ID field whose sector number matches the
// sector register, aborting with RNF after five index revolutions without a
// match; with no drive/media it keeps polling every 50 000 cycles, matching
// spec.md §4.D and Hatari's
// FDCEMU_RUN_READSECTORS_READDATA_NEXT_SECTOR_HEADER state.
func (c *Controller) runType2Search() uint64 {
	if !c.driveReady() {
		return 50_000
	}
	if c.indexPulseCounter >= searchIndexRevolutions {
		c.statusReg |= statusRNF
		c.subState = subType2Done
		return 0
	}

	track, _, sector, ok := c.readNextSectorID()
	if !ok {
		return 50_000
	}
	if sector != c.sectorReg {
		return c.mfmByteDelay(1)
	}
	_ = track

	c.subState = subType2TransferByte
	c.workPos = 0
	c.workLen = bytesPerSector

	d := c.selectedDriveModel()
	if c.commandID == cmdReadSector {
		data, err := d.image.ReadSector(int(d.HeadTrack), c.selectedSide, int(c.sectorReg))
		if err != nil {
			c.statusReg |= statusRNF
			c.subState = subType2Done
			return 0
		}
		copy(c.workBuf[:bytesPerSector], data)
	}

	return c.mfmByteDelay(gap3aBytes + gap3bBytes + syncMarkBytes)
}

// runType2Transfer streams one byte per call through the DMA FIFO, then on
// the last byte advances to the next sector (multi-sector mode) or
// completes.
func (c *Controller) runType2Transfer() uint64 {
	if c.workPos < c.workLen {
		if c.commandID == cmdReadSector {
			c.dma.Push(c.workBuf[c.workPos])
		} else {
			if c.workPos == 0 {
				// The sector is written from the DMA block in memory (zeros
				// when the sector count is 0); the FIFO is then drained one
				// byte per call only to keep the DMA accounting consistent.
				clear(c.workBuf[:bytesPerSector])
				if c.dma.sectorCount > 0 && c.dma.mem != nil {
					copy(c.workBuf[:bytesPerSector], c.dma.mem.ReadBlock(c.dma.address, bytesPerSector))
				}
			}
			c.dma.Pull()
		}
		c.workPos++
		return c.mfmByteDelay(1)
	}

	if c.commandID == cmdWriteSector {
		d := c.selectedDriveModel()
		if err := d.image.WriteSector(int(d.HeadTrack), c.selectedSide, int(c.sectorReg), c.workBuf[:bytesPerSector]); err != nil {
			c.statusReg |= statusRNF
			c.subState = subType2Done
			return 0
		}
	}

	if c.multipleSectors {
		c.sectorReg++
		c.indexPulseCounter = 0
		c.subState = subType2SearchID
		return c.mfmByteDelay(2) // 2 CRC bytes trailing the sector just moved
	}

	c.subState = subType2Done
	return c.mfmByteDelay(2)
}
