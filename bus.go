package fdc

// Bus Interface (spec.md §4.E, §6): word-addressed register window decode
// for the controller/DMA/HDC mux, plus the three independently-accessed
// DMA-address bytes. Byte access to any word register is a bus error.

// Register offsets, relative to the base of the controller/DMA window
// (spec.md §6).
const (
	RegFDCData    = 0x04 // $ff8604: controller register window / DMA sector count
	RegDMAControl = 0x06 // $ff8606: DMA mode (write) / DMA status (read)
	RegDMAAddrHi  = 0x09
	RegDMAAddrMid = 0x0b
	RegDMAAddrLo  = 0x0d
	RegFalconCtrl = 0x0f
)

// HDCRouter is the optional hard-disk-controller collaborator that receives
// controller-register writes/reads when the DMA mode word's HDC-route bit
// is set (spec.md §4.E). A nil router makes those accesses no-ops (reads
// return 0), which is correct for machines with no ACSI/SCSI HDC attached.
type HDCRouter interface {
	WriteRegister(sel int, v byte)
	ReadRegister(sel int) byte
}

// SetHDCRouter installs the hard-disk-controller collaborator.
func (c *Controller) SetHDCRouter(h HDCRouter) { c.hdc = h }

// ReadWord services a word-sized read at the given register offset.
func (c *Controller) ReadWord(offset uint32) (uint16, error) {
	switch offset {
	case RegFDCData:
		return uint16(c.readControllerOrSectorCount()), nil
	case RegDMAControl:
		return c.dma.Status(), nil
	case RegFalconCtrl:
		return 0x80, nil
	default:
		return 0, ErrUnknownRegister
	}
}

// WriteWord services a word-sized write at the given register offset.
func (c *Controller) WriteWord(offset uint32, v uint16) error {
	switch offset {
	case RegFDCData:
		c.writeControllerOrSectorCount(byte(v))
		return nil
	case RegDMAControl:
		c.dma.SetMode(v)
		return nil
	case RegFalconCtrl:
		return nil // read-only in practice; accept and ignore
	default:
		return ErrUnknownRegister
	}
}

// ReadByte services the three byte-addressed DMA-address registers.
// Anything else, including byte access to a word register, is a bus fault
// (spec.md §4.E: "All word-addressed registers fail with a bus error on
// byte access.").
func (c *Controller) ReadByte(offset uint32) (byte, error) {
	switch offset {
	case RegDMAAddrHi:
		return c.dma.AddressHighByte(), nil
	case RegDMAAddrMid:
		return c.dma.AddressMidByte(), nil
	case RegDMAAddrLo:
		return c.dma.AddressLowByte(), nil
	default:
		return 0, ErrBusFault
	}
}

// WriteByte services the three byte-addressed DMA-address registers.
func (c *Controller) WriteByte(offset uint32, v byte) error {
	switch offset {
	case RegDMAAddrHi:
		c.dma.SetAddressHighByte(v, c.cfg.Variant.fourMBLimited())
		return nil
	case RegDMAAddrMid:
		c.dma.SetAddressMidByte(v)
		return nil
	case RegDMAAddrLo:
		c.dma.SetAddressLowByte(v)
		return nil
	default:
		return ErrBusFault
	}
}

// dmaRegisterSelect extracts the controller-register selector from the DMA
// mode word's bits 1-2 (spec.md §6).
func (c *Controller) dmaRegisterSelect() int {
	return int((c.dma.Mode() & dmaModeRegSelectMask) >> dmaModeRegSelectSh)
}

// readControllerOrSectorCount implements the $ff8604 read: DMA sector count
// is not directly readable, so the sector-count-select route returns the
// ff8604 shadow instead (spec.md §4.E), while the ordinary path reads one
// of the four WD1772 registers, or the HDC router if routed there.
func (c *Controller) readControllerOrSectorCount() byte {
	mode := c.dma.Mode()
	if mode&dmaModeSectorCountSel != 0 {
		return byte(c.dma.DataShadow())
	}
	if mode&dmaModeHDCRoute != 0 {
		if c.hdc == nil {
			return 0
		}
		return c.hdc.ReadRegister(c.dmaRegisterSelect())
	}
	switch c.dmaRegisterSelect() {
	case 0:
		return c.ReadStatus()
	case 1:
		return c.trackReg
	case 2:
		return c.sectorReg
	default:
		c.dataReg = c.dma.Pull()
		return c.dataReg
	}
}

// writeControllerOrSectorCount implements the $ff8604 write, symmetric with
// readControllerOrSectorCount.
func (c *Controller) writeControllerOrSectorCount(v byte) {
	mode := c.dma.Mode()
	if mode&dmaModeSectorCountSel != 0 {
		c.dma.SetSectorCount(uint16(v))
		return
	}
	if mode&dmaModeHDCRoute != 0 {
		if c.hdc != nil {
			c.hdc.WriteRegister(c.dmaRegisterSelect(), v)
		}
		return
	}
	switch c.dmaRegisterSelect() {
	case 0:
		c.WriteCommand(v)
	case 1:
		c.trackReg = v
	case 2:
		c.sectorReg = v
	default:
		c.dataReg = v
		c.dma.Push(v)
	}
}

// ReadStatus reads the WD1772 status register, re-deriving the live bits a
// type-I view exposes and applying the read-clears-IRQ rule (spec.md §4.E).
func (c *Controller) ReadStatus() byte {
	c.tick()

	str := c.statusReg
	if c.statusIsTypeI {
		str &^= statusIndexOrDRQ | statusTrackZeroOrLostData | statusWriteProtect
		if c.indexState(c.selectedDrive) {
			str |= statusIndexOrDRQ
		}
		if d := c.selectedDriveModel(); d != nil && d.TrackZero() {
			str |= statusTrackZeroOrLostData
		}
		if c.writeProtectSensorObstructed() {
			str |= statusWriteProtect
		}
	}

	if !c.immediateLatched {
		c.clearIRQ()
	}
	return str
}

// writeProtectSensorObstructed reports whether the selected drive's
// write-protect sensor reads as set: always within the post-media-change
// window (SPEC_FULL.md §3), otherwise when the inserted medium is
// write-protected.
func (c *Controller) writeProtectSensorObstructed() bool {
	d := c.selectedDriveModel()
	if d == nil {
		return false
	}
	if c.clockNow < d.mediaChangeUntil {
		return true
	}
	return d.DiskInserted && d.image != nil && d.image.IsWriteProtected()
}

// ReadData reads the WD1772 data register directly (bypassing the $8604
// mux), used by hosts that model the data port separately from the DMA
// path.
func (c *Controller) ReadData() byte { return c.dataReg }

// SetTrackRegister, SetSectorRegister and SetDataRegister write the named
// WD1772 register directly, bypassing the $ff8604/$ff8606 mux. Intended for
// diagnostic tools that want to poke a register without also simulating a
// DMA mode-word write.
func (c *Controller) SetTrackRegister(v byte)  { c.trackReg = v }
func (c *Controller) SetSectorRegister(v byte) { c.sectorReg = v }
func (c *Controller) SetDataRegister(v byte)   { c.dataReg = v }
