package fdc

// Angular Clock (spec.md §4.A). Each drive's rotational position is derived
// from a reference timestamp of its most recently simulated index pulse,
// held in Drive.lastIndexPulse, and the controller's free-running cycle
// counter, Controller.clockNow.

// indexPulseHighUs is how long the index signal reads high each
// revolution: ~3.71 ms, matching Hatari's FDC_DELAY_US_INDEX_PULSE_LENGTH
// and spec.md §4.A ("high for ~3.71 ms (~46 bytes) each revolution").
const indexPulseHighUs = 3710

// clockPollIntervalCycles is how often tick() must be invoked to reliably
// catch index-pulse crossings (spec.md §4.A).
const clockPollIntervalCycles = 500

// revolutionPeriod returns the rotation period of the given drive in
// controller cycles: controller_freq * 60000 / (RPM * 1000).
func (c *Controller) revolutionPeriod(drive int) uint64 {
	rpmx1000 := c.drives[drive].RPMx1000
	if rpmx1000 <= 0 {
		rpmx1000 = 300_000 // standard 300 RPM default
	}
	return uint64(c.cfg.ControllerFreqHz) * 60000 / uint64(rpmx1000)
}

// controllerCyclesToUs converts a controller-cycle duration to microseconds.
func (c *Controller) controllerCyclesToUs(cycles uint64) uint64 {
	return cycles * 1_000_000 / uint64(c.cfg.ControllerFreqHz)
}

// currentPositionCycles returns how many controller cycles have elapsed
// since the drive's last index pulse.
func (c *Controller) currentPositionCycles(drive int) uint64 {
	d := &c.drives[drive]
	if d.lastIndexPulse == 0 || c.clockNow < d.lastIndexPulse {
		return 0
	}
	period := c.revolutionPeriod(drive)
	elapsed := c.clockNow - d.lastIndexPulse
	if period == 0 {
		return 0
	}
	return elapsed % period
}

// currentPositionBytes converts the current angular position to a byte
// offset from the index, at cyclesPerMFMByte per the drive's density
// factor (spec.md §4.A: "bytes = cycles × density / cycles-per-MFM-byte").
func (c *Controller) currentPositionBytes(drive int) int {
	cycles := c.currentPositionCycles(drive)
	density := c.drives[drive].Density
	if density == 0 {
		density = DensityDD
	}
	byteCycles := mfmByteCycles(density)
	if byteCycles == 0 {
		return 0
	}
	return int(cycles / uint64(byteCycles))
}

// mfmByteCycles is the controller-cycle period of one MFM byte at the given
// density: 256 cycles standard density (FDC_DELAY_CYCLE_MFM_BYTE in
// Hatari), divided by the density factor for HD/ED (spec.md §5).
func mfmByteCycles(density int) int {
	if density <= 0 {
		density = DensityDD
	}
	return 256 / density
}

// indexState reports whether the index signal is currently high for the
// given drive. drive == -1 (no drive selected) reads as low, same as an
// empty or disabled drive.
func (c *Controller) indexState(drive int) bool {
	if drive < 0 || drive >= DriveCount {
		return false
	}
	if !c.drives[drive].DiskInserted || !c.drives[drive].Enabled {
		return false
	}
	posUs := c.controllerCyclesToUs(c.currentPositionCycles(drive))
	return posUs < indexPulseHighUs
}

// tick advances the angular clock by observing how far c.clockNow has
// moved since it was last checked. If the motor is on and the selected
// drive is valid, and the clock has crossed a full revolution boundary, the
// stored reference advances by exactly one period (never snapping to
// "now", so phase is preserved) and the controller's index-pulse counter
// increments. If a force-interrupt-on-index-pulse condition is latched,
// IRQ is raised on each crossing (spec.md §4.A, §4.D).
func (c *Controller) tick() {
	if !c.motorOn || c.selectedDrive < 0 {
		return
	}
	drive := c.selectedDrive
	d := &c.drives[drive]
	if d.lastIndexPulse == 0 {
		c.initDrive(drive)
		return
	}
	period := c.revolutionPeriod(drive)
	if period == 0 {
		return
	}
	for c.clockNow-d.lastIndexPulse >= period {
		d.lastIndexPulse += period
		c.indexPulseCounter++
		tracef(TraceClock, "fdc: index pulse drive=%d counter=%d", drive, c.indexPulseCounter)
		if c.forceInterruptMask&forceIntIndexPulse != 0 {
			c.raiseIRQ()
		}
	}
}

// initDrive seeds a drive's index reference to a nondeterministic-looking
// offset within the current revolution, as real hardware's motor phase is
// arbitrary at spin-up (spec.md §4.A). The offset is drawn from the
// controller's seeded PRNG so behavior stays reproducible under a fixed
// Config.Seed.
func (c *Controller) initDrive(drive int) {
	period := c.revolutionPeriod(drive)
	d := &c.drives[drive]
	if period == 0 {
		d.lastIndexPulse = c.clockNow
		return
	}
	offset := uint64(c.rng.Int63n(int64(period)))
	if offset >= c.clockNow {
		d.lastIndexPulse = 1
		return
	}
	d.lastIndexPulse = c.clockNow - offset
}
