package fdc

// Type I — positioning commands (spec.md §4.D): Restore, Seek, Step,
// Step-In, Step-Out, each optionally followed by a verify phase.

// headSettleDelayUs is the delay before a type-I verify begins, per spec.md
// ("~15 ms").
const headSettleDelayUs = 15_000

// verifyIndexRevolutions bounds the verify/search loop, per spec.md
// ("up to five index revolutions").
const verifyIndexRevolutions = 5

func stepRateMs(cmdByte byte) uint64 {
	// spec.md §4.D: "6/12/2/3 ms per step, selected by the two low
	// command bits", matching Hatari's FDC_StepRate_ms table.
	rates := [4]uint64{6, 12, 2, 3}
	return rates[cmdByte&0x03]
}

func usToControllerCycles(us uint64, freqHz int) uint64 {
	return us * uint64(freqHz) / 1_000_000
}

// startType1 dispatches a newly written type-I command byte.
func (c *Controller) startType1(cmdByte byte) {
	switch top := cmdByte >> 4; {
	case top == 0x0:
		c.commandID = cmdRestore
	case top == 0x1:
		c.commandID = cmdSeek
	case top == 0x2 || top == 0x3:
		c.commandID = cmdStep
	case top == 0x4 || top == 0x5:
		c.commandID = cmdStepIn
		c.stepDirection = 1
	case top == 0x6 || top == 0x7:
		c.commandID = cmdStepOut
		c.stepDirection = -1
	}
	c.stepsLeft = 255
	c.subState = subPrepare
	c.arm(prepareDelay(typeI))
}

func (c *Controller) stepType1() uint64 {
	switch c.subState {
	case subPrepare:
		delay := c.beginMotorAndSpinUp(c.commandReg)
		if c.subState != subSpinUpWait {
			c.subState = subType1Step
		}
		return delay

	case subSpinUpWait:
		if delay := c.pollSpinUp(); delay != 0 {
			return delay
		}
		c.subState = subType1Step
		return 0

	case subType1Step:
		return c.runType1Step()

	case subType1VerifySettle:
		c.indexPulseCounter = 0
		c.subState = subType1VerifySearch
		return usToControllerCycles(headSettleDelayUs, c.cfg.ControllerFreqHz)

	case subType1VerifySearch:
		return c.runType1Verify()

	case subType1Done:
		c.completeCommand(true)
		return 0
	}
	return 0
}

// runType1Step executes one step (for Restore, one iteration of its step-out
// loop) for the selected command and returns the delay before the next check.
func (c *Controller) runType1Step() uint64 {
	c.replacePossible = false

	d := c.selectedDriveModel()

	switch c.commandID {
	case cmdRestore:
		if d == nil || !d.Enabled || d.HeadTrack != 0 {
			if c.stepsLeft <= 0 {
				c.statusReg |= statusRNF
				c.statusReg &^= statusTrackZeroOrLostData
				c.subState = subType1Done
				return 0
			}
			c.stepsLeft--
			c.trackReg--
			if d != nil && d.Enabled {
				d.HeadTrack = clampTrack(d.HeadTrack - 1)
			}
			return usToControllerCycles(stepRateMs(c.commandReg)*1000, c.cfg.ControllerFreqHz)
		}
		c.statusReg |= statusTrackZeroOrLostData
		c.trackReg = 0
		return c.enterVerifyOrComplete()

	case cmdSeek:
		if c.trackReg == c.dataReg {
			return c.enterVerifyOrComplete()
		}
		if c.dataReg < c.trackReg {
			c.stepDirection = -1
		} else {
			c.stepDirection = 1
		}
		c.trackReg = byte(int(c.trackReg) + int(c.stepDirection))
		c.statusReg &^= statusTrackZeroOrLostData
		if d != nil && d.Enabled {
			d.HeadTrack = clampTrack(d.HeadTrack + int(c.stepDirection))
			if d.HeadTrack == 0 {
				c.statusReg |= statusTrackZeroOrLostData
			}
		}
		return usToControllerCycles(stepRateMs(c.commandReg)*1000, c.cfg.ControllerFreqHz)

	default: // cmdStep, cmdStepIn, cmdStepOut: a single step.
		if c.commandReg&0x10 != 0 {
			c.trackReg = byte(int(c.trackReg) + int(c.stepDirection))
		}
		c.statusReg &^= statusTrackZeroOrLostData
		if d != nil && d.Enabled {
			d.HeadTrack = clampTrack(d.HeadTrack + int(c.stepDirection))
			if d.HeadTrack == 0 {
				c.statusReg |= statusTrackZeroOrLostData
			}
		}
		return c.enterVerifyOrComplete()
	}
}

// enterVerifyOrComplete transitions to the verify phase if the verify
// command bit is set, else completes immediately.
func (c *Controller) enterVerifyOrComplete() uint64 {
	if c.commandReg&0x04 != 0 {
		c.subState = subType1VerifySettle
	} else {
		c.subState = subType1Done
	}
	return 0
}

// runType1Verify searches for an ID field matching the track register,
// for up to five index revolutions (spec.md §4.D verify phase).
func (c *Controller) runType1Verify() uint64 {
	if !c.driveReady() {
		return 50_000 // spec.md §3: bounded poll interval while media absent
	}
	if c.indexPulseCounter >= verifyIndexRevolutions {
		c.statusReg |= statusRNF
		c.subState = subType1Done
		return 0
	}
	track, side, sector, ok := c.readNextSectorID()
	if !ok {
		return 50_000
	}
	_ = side
	_ = sector
	if track == c.trackReg {
		c.statusReg &^= statusRNF
		c.subState = subType1Done
		return 0
	}
	return c.mfmByteDelay(6) // skip past the ID field just read
}
