package fdc

// Scheduling model (spec.md §5): single-threaded, cooperative, cycle-driven.
// A single one-shot timer is armed whenever the state machine suspends;
// Advance() is the host's only entry point, called with elapsed CPU cycles.

// timerCyclesToCPU converts a delay expressed in controller cycles to CPU
// cycles, applying the machine-variant clock-halving correction and the
// fast-FDC acceleration divisor (spec.md §5, §9).
func (c *Controller) timerCyclesToCPU(delayControllerCycles uint64) uint64 {
	freq := c.controllerFreq()
	cpu := delayControllerCycles * uint64(c.cfg.CPUFreqHz) / uint64(freq)
	if c.cfg.FastFDC > 1 {
		cpu /= uint64(c.cfg.FastFDC)
	}
	if cpu == 0 {
		cpu = 1
	}
	return cpu
}

// controllerFreq returns the effective controller clock frequency after the
// machine-variant halving correction.
func (c *Controller) controllerFreq() int {
	freq := c.cfg.ControllerFreqHz
	if c.cfg.Variant.halvesControllerClock() {
		freq /= 2
	}
	if freq <= 0 {
		freq = 1
	}
	return freq
}

// cpuCyclesToController converts elapsed host CPU cycles to controller
// cycles for clockNow bookkeeping. This conversion is independent of
// FastFDC: acceleration shortens command delays, not the disk's physical
// rotation rate.
func (c *Controller) cpuCyclesToController(cpuCycles uint64) uint64 {
	freq := c.controllerFreq()
	return cpuCycles * uint64(freq) / uint64(c.cfg.CPUFreqHz)
}

// arm schedules the state machine to resume after delayControllerCycles
// controller cycles (converted to CPU cycles at scheduling time, per
// spec.md §9: "All delays should be stored in controller cycles and
// converted at scheduling time").
func (c *Controller) arm(delayControllerCycles uint64) {
	c.timerArmed = true
	c.timerRemainingCPU = c.timerCyclesToCPU(delayControllerCycles)
}

// disarm cancels any pending timer, used by Force Interrupt, by a new
// command write, and when a motor-stop countdown is cancelled.
func (c *Controller) disarm() {
	c.timerArmed = false
	c.timerRemainingCPU = 0
}

// Advance is the host's single entry point into the FDC core. cpuCycles is
// the number of host CPU cycles elapsed since the previous call. It
// advances the angular clock's global cycle counter, polls index-pulse
// crossings, and fires the state machine when the armed timer expires.
func (c *Controller) Advance(cpuCycles uint64) {
	if cpuCycles == 0 {
		return
	}
	c.clockNow += c.cpuCyclesToController(cpuCycles)

	c.pollAccumulator += c.cpuCyclesToController(cpuCycles)
	for c.pollAccumulator >= clockPollIntervalCycles {
		c.pollAccumulator -= clockPollIntervalCycles
		c.tick()
	}

	if !c.timerArmed {
		return
	}
	if cpuCycles >= c.timerRemainingCPU {
		c.timerRemainingCPU = 0
	} else {
		c.timerRemainingCPU -= cpuCycles
	}
	if c.timerRemainingCPU > 0 {
		return
	}
	c.timerArmed = false
	c.runStateMachine()
}

// runStateMachine advances through sub-states until one reports a non-zero
// delay, permitting chains of immediate transitions without re-entering the
// scheduler (spec.md §5).
func (c *Controller) runStateMachine() {
	for {
		delay := c.step()
		if delay == 0 {
			continue
		}
		c.arm(delay)
		return
	}
}
