package fdc

// Snapshot support (spec.md §5: "the entire controller, DMA engine, drive
// array, and work buffer must be serializable and restorable as a single
// opaque blob"), following the struct-copy Snapshot()/Plumb() pattern of
// Gopher2600's hardware/snapshot.go rather than a byte-level encoding: the
// pack carries no serialization library, so the opaque blob is a plain Go
// value the host stores and later passes back to Restore.

// DriveSnapshot captures one drive's transient position state. The
// attached ImageBackend is not copied — restoring a snapshot never touches
// d.image, so the host must have already Insert()ed the same (or an
// equivalent) medium before or after calling Restore.
type DriveSnapshot struct {
	Enabled          bool
	DiskInserted     bool
	RPMx1000         int
	Density          int
	HeadTrack        int
	LastIndexPulse   uint64
	MediaChangeUntil uint64
}

// DMASnapshot captures the DMA engine's fields, excluding the HostMemory
// collaborator.
type DMASnapshot struct {
	FIFO          [dmaFIFOSize]byte
	FIFOSize      int
	Mode          uint16
	SectorCount   uint16
	BytesInSector int
	FF8604Shadow  uint16
	NoError       bool
	Address       uint32
}

// Snapshot is the opaque save-state blob for an entire Controller.
type Snapshot struct {
	DataReg    byte
	TrackReg   byte
	SectorReg  byte
	CommandReg byte
	StatusReg  byte

	StepDirection   int8
	SelectedSide    int
	SelectedDrive   int
	CommandID       commandID
	SubState        subState
	CmdType         commandType
	ReplacePossible bool
	StatusIsTypeI   bool

	IndexPulseCounter int
	HeaderScanIndex   int

	ForceInterruptMask byte
	ImmediateLatched   bool

	MotorOn    bool
	SpinUpDone bool

	Drives [DriveCount]DriveSnapshot
	DMA    DMASnapshot

	ClockNow        uint64
	PollAccumulator uint64

	TimerArmed        bool
	TimerRemainingCPU uint64

	WorkBuf []byte
	WorkPos int
	WorkLen int

	MultipleSectors bool
	StepsLeft       int

	IRQLine bool
}

// Snapshot captures the controller's entire state, including the DMA
// engine, drive positions, and work buffer, as a self-contained value.
func (c *Controller) Snapshot() *Snapshot {
	s := &Snapshot{
		DataReg:    c.dataReg,
		TrackReg:   c.trackReg,
		SectorReg:  c.sectorReg,
		CommandReg: c.commandReg,
		StatusReg:  c.statusReg,

		StepDirection:   c.stepDirection,
		SelectedSide:    c.selectedSide,
		SelectedDrive:   c.selectedDrive,
		CommandID:       c.commandID,
		SubState:        c.subState,
		CmdType:         c.cmdType,
		ReplacePossible: c.replacePossible,
		StatusIsTypeI:   c.statusIsTypeI,

		IndexPulseCounter: c.indexPulseCounter,
		HeaderScanIndex:   c.headerScanIndex,

		ForceInterruptMask: c.forceInterruptMask,
		ImmediateLatched:   c.immediateLatched,

		MotorOn:    c.motorOn,
		SpinUpDone: c.spinUpDone,

		ClockNow:        c.clockNow,
		PollAccumulator: c.pollAccumulator,

		TimerArmed:        c.timerArmed,
		TimerRemainingCPU: c.timerRemainingCPU,

		WorkBuf: append([]byte(nil), c.workBuf...),
		WorkPos: c.workPos,
		WorkLen: c.workLen,

		MultipleSectors: c.multipleSectors,
		StepsLeft:       c.stepsLeft,

		IRQLine: c.irqLine,
	}
	for i := range c.drives {
		d := &c.drives[i]
		s.Drives[i] = DriveSnapshot{
			Enabled:          d.Enabled,
			DiskInserted:     d.DiskInserted,
			RPMx1000:         d.RPMx1000,
			Density:          d.Density,
			HeadTrack:        d.HeadTrack,
			LastIndexPulse:   d.lastIndexPulse,
			MediaChangeUntil: d.mediaChangeUntil,
		}
	}
	s.DMA = DMASnapshot{
		FIFO:          c.dma.fifo,
		FIFOSize:      c.dma.fifoSize,
		Mode:          c.dma.mode,
		SectorCount:   c.dma.sectorCount,
		BytesInSector: c.dma.bytesInSector,
		FF8604Shadow:  c.dma.ff8604Shadow,
		NoError:       c.dma.noError,
		Address:       c.dma.address,
	}
	return s
}

// Restore replaces the controller's state with a previously captured
// Snapshot. Image backends already attached via Insert are left untouched;
// the IRQ callback fires if the restored IRQ line differs from the
// controller's current one, so the host's interrupt controller stays in
// sync without any post-processing step.
func (c *Controller) Restore(s *Snapshot) error {
	if s == nil || len(s.WorkBuf) == 0 {
		return ErrBadSnapshot
	}
	c.dataReg = s.DataReg
	c.trackReg = s.TrackReg
	c.sectorReg = s.SectorReg
	c.commandReg = s.CommandReg
	c.statusReg = s.StatusReg

	c.stepDirection = s.StepDirection
	c.selectedSide = s.SelectedSide
	c.selectedDrive = s.SelectedDrive
	c.commandID = s.CommandID
	c.subState = s.SubState
	c.cmdType = s.CmdType
	c.replacePossible = s.ReplacePossible
	c.statusIsTypeI = s.StatusIsTypeI

	c.indexPulseCounter = s.IndexPulseCounter
	c.headerScanIndex = s.HeaderScanIndex

	c.forceInterruptMask = s.ForceInterruptMask
	c.immediateLatched = s.ImmediateLatched

	c.motorOn = s.MotorOn
	c.spinUpDone = s.SpinUpDone

	c.clockNow = s.ClockNow
	c.pollAccumulator = s.PollAccumulator

	c.timerArmed = s.TimerArmed
	c.timerRemainingCPU = s.TimerRemainingCPU

	if len(s.WorkBuf) > len(c.workBuf) {
		c.workBuf = append(c.workBuf, make([]byte, len(s.WorkBuf)-len(c.workBuf))...)
	}
	copy(c.workBuf, s.WorkBuf)
	c.workPos = s.WorkPos
	c.workLen = s.WorkLen

	c.multipleSectors = s.MultipleSectors
	c.stepsLeft = s.StepsLeft

	for i := range c.drives {
		d := &c.drives[i]
		ds := s.Drives[i]
		d.Enabled = ds.Enabled
		d.DiskInserted = ds.DiskInserted
		d.RPMx1000 = ds.RPMx1000
		d.Density = ds.Density
		d.HeadTrack = ds.HeadTrack
		d.lastIndexPulse = ds.LastIndexPulse
		d.mediaChangeUntil = ds.MediaChangeUntil
	}

	c.dma.fifo = s.DMA.FIFO
	c.dma.fifoSize = s.DMA.FIFOSize
	c.dma.mode = s.DMA.Mode
	c.dma.sectorCount = s.DMA.SectorCount
	c.dma.bytesInSector = s.DMA.BytesInSector
	c.dma.ff8604Shadow = s.DMA.FF8604Shadow
	c.dma.noError = s.DMA.NoError
	c.dma.address = s.DMA.Address

	if s.IRQLine != c.irqLine {
		c.irqLine = s.IRQLine
		if c.onIRQ != nil {
			c.onIRQ(c.irqLine)
		}
	}
	return nil
}
