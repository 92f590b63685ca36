package fdc

// Type IV — Force Interrupt (spec.md §4.D): the only command byte accepted
// unconditionally while BUSY, used both to abort an in-flight command and
// to arm/disarm the index-pulse interrupt condition.

// execForceInterrupt implements Force Interrupt: it never sets BUSY, always
// clears it, latches the interrupt condition bits, and raises or clears IRQ
// according to the "immediate" bit, mirroring Hatari's
// FDC_TypeIV_ForceInterrupt.
func (c *Controller) execForceInterrupt(cmdByte byte) {
	wasBusy := c.Busy()

	c.commandReg = cmdByte
	c.cmdType = typeIV
	if !wasBusy {
		c.statusIsTypeI = true
	}

	c.forceInterruptMask = cmdByte & 0x0f
	c.immediateLatched = c.forceInterruptMask&forceIntImmediate != 0

	if c.immediateLatched {
		c.raiseIRQ()
	} else {
		c.clearIRQ()
	}

	c.disarm()
	c.subState = subIdle
	c.completeCommand(false)
}
