package fdc

import "math/rand"

// commandID names the currently latched command, replacing the teacher's
// raw command byte comparisons with an enumerated tag (spec.md §9 Design
// Notes: "Command identity ... best expressed as two sum types").
type commandID int

const (
	cmdNull commandID = iota
	cmdRestore
	cmdSeek
	cmdStep
	cmdStepIn
	cmdStepOut
	cmdReadSector
	cmdWriteSector
	cmdReadAddress
	cmdReadTrack
	cmdWriteTrack
	cmdForceInterrupt
	cmdMotorStop // pseudo command driving the post-completion motor-off timer
)

// commandType is the WD1772's four-way command classification (spec.md §4.D).
type commandType int

const (
	typeNone commandType = iota
	typeI
	typeII
	typeIII
	typeIV
)

// subState groups the many per-phase tags the source keeps as one huge flat
// enum into a small set shared across command types, per spec.md §9's
// suggestion to group sub-states per outer command.
type subState int

const (
	subIdle subState = iota

	subPrepare      // common: BUSY set, delay elapsed, about to check spin-up
	subSpinUpWait   // waiting for six index pulses after motor start

	subType1Step      // Restore/Seek/Step: one step pending
	subType1VerifySettle // head-settle delay before verify
	subType1VerifySearch // searching for a matching ID field
	subType1Done

	subType2HeadLoad   // optional head-load delay before searching
	subType2SearchID    // searching for the requested sector's ID field
	subType2TransferByte // one FIFO byte per suspend
	subType2Done

	subType3WaitIndex    // Read Track: waiting for next index pulse
	subType3TransferByte // Read Address / Read Track: one FIFO byte per suspend
	subType3Done

	subMotorStopWait // counting nine index pulses before motor-off
	subMotorStopDone
)

// Command byte classification masks (spec.md §4.D).
const (
	cmdTypeIMask   = 0x80
	cmdTypeIVValue = 0xd0
	cmdTypeIVMask  = 0xf0
	cmdTypeIIMask  = 0xc0
	cmdTypeIIValue = 0x80
	cmdTypeIIIMask = 0xc0
	cmdTypeIIIValue = 0xc0
)

// Force Interrupt condition-mask bits (spec.md §4.D).
const (
	forceIntIndexPulse = 0x04
	forceIntImmediate  = 0x08
)

// Status register bits, shared across the type-I and type-II/III views
// (spec.md §6). Bits 7,6,4,3,0 mean the same thing in both views.
const (
	statusBusy       = 0x01
	statusIndexOrDRQ = 0x02 // type I: index pulse; type II/III: data request
	statusTrackZeroOrLostData = 0x04 // type I: track zero; type II/III: lost data (never set)
	statusCRCError   = 0x08
	statusRNF        = 0x10
	statusSpinUpOrRecordType = 0x20 // type I: spin-up complete; type II/III: record type
	statusWriteProtect = 0x40
	statusMotorOn      = 0x80
)

// maxTrackBytes sizes the work buffer for one full raw track at maximum
// density (spec.md §3): 6268 bytes standard, times 4 for ED, plus margin.
const maxTrackBytes = 6268*4 + 1024

// standardTrackBytes is the literal DD track length (spec.md §6), carried
// from Hatari's FDC_TRACK_BYTES_STANDARD.
const standardTrackBytes = 6268

// Controller is the single owning aggregate for WD1772 register state, the
// DMA engine, and the drive array (spec.md §9: "a single owning aggregate
// passed through a context").
type Controller struct {
	cfg Config
	rng *rand.Rand

	// Registers (spec.md §3).
	dataReg    byte
	trackReg   byte
	sectorReg  byte
	commandReg byte
	statusReg  byte

	stepDirection   int8
	selectedSide    int
	selectedDrive   int
	commandID       commandID
	subState        subState
	cmdType         commandType
	replacePossible bool
	statusIsTypeI   bool

	indexPulseCounter int
	headerScanIndex   int // rotates through the selected track's sector headers

	forceInterruptMask byte
	immediateLatched   bool

	motorOn    bool
	spinUpDone bool

	drives [DriveCount]Drive
	dma    DMAEngine

	clockNow        uint64
	pollAccumulator uint64

	timerArmed        bool
	timerRemainingCPU uint64

	workBuf []byte
	workPos int
	workLen int

	multipleSectors bool
	stepsLeft       int

	irqLine bool
	onIRQ   func(bool)

	hdc HDCRouter
}

// New constructs a Controller with the given options layered on
// DefaultConfig.
func New(opts ...Option) *Controller {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	c := &Controller{
		cfg:           cfg,
		rng:           rand.New(rand.NewSource(cfg.Seed)),
		selectedDrive: -1,
		workBuf:       make([]byte, maxTrackBytes),
	}
	c.dma.noError = true
	for i := range c.drives {
		c.drives[i].RPMx1000 = 300_000
		c.drives[i].Density = DensityDD
	}
	c.statusIsTypeI = true
	c.statusReg = statusTrackZeroOrLostData
	return c
}

// SetHostMemory installs the DMA engine's memory collaborator.
func (c *Controller) SetHostMemory(m HostMemory) { c.dma.SetHostMemory(m) }

// SetIRQHandler installs the callback invoked whenever the controller's IRQ
// line changes state.
func (c *Controller) SetIRQHandler(fn func(bool)) { c.onIRQ = fn }

func (c *Controller) raiseIRQ() {
	if !c.irqLine {
		c.irqLine = true
		if c.onIRQ != nil {
			c.onIRQ(true)
		}
	}
}

func (c *Controller) clearIRQ() {
	if c.irqLine {
		c.irqLine = false
		if c.onIRQ != nil {
			c.onIRQ(false)
		}
	}
}

// Busy reports the BUSY status bit, which by invariant 1 (spec.md §8)
// holds iff a command is in flight.
func (c *Controller) Busy() bool { return c.commandID != cmdNull && c.commandID != cmdMotorStop }

// classify returns the command type for a raw command byte (spec.md §4.D).
func classify(cmdByte byte) commandType {
	switch {
	case cmdByte&cmdTypeIVMask == cmdTypeIVValue:
		return typeIV
	case cmdByte&cmdTypeIMask == 0:
		return typeI
	case cmdByte&cmdTypeIIMask == cmdTypeIIValue:
		return typeII
	case cmdByte&cmdTypeIIIMask == cmdTypeIIIValue:
		return typeIII
	default:
		return typeI
	}
}

// WriteCommand handles a host write to the command register, applying the
// replacement rule of spec.md §4.D.
func (c *Controller) WriteCommand(cmdByte byte) {
	c.tick()
	c.restartMotorTimer()

	newType := classify(cmdByte)

	if c.Busy() {
		allowed := newType == typeIV || (c.replacePossible && newType == c.cmdType && (newType == typeI || newType == typeII))
		if !allowed {
			tracef(TraceController, "fdc: command %02x dropped while busy (type=%v replacePossible=%v)", cmdByte, c.cmdType, c.replacePossible)
			return
		}
	}

	if newType == typeIV {
		c.execForceInterrupt(cmdByte)
		return
	}

	c.commandReg = cmdByte
	c.cmdType = newType
	c.statusIsTypeI = newType == typeI
	c.replacePossible = true
	c.immediateLatched = false

	c.statusReg |= statusMotorOn
	c.statusReg &^= (statusCRCError | statusRNF)
	c.statusReg |= statusBusy

	c.disarm()

	switch newType {
	case typeI:
		c.startType1(cmdByte)
	case typeII:
		c.startType2(cmdByte)
	case typeIII:
		c.startType3(cmdByte)
	}
}

// prepareDelay returns the initial delay before the first sub-state check,
// per spec.md §4.D ("~90 controller cycles for type I, ~1 cycle for
// II/III, ~100 for IV").
func prepareDelay(t commandType) uint64 {
	switch t {
	case typeI:
		return 90
	case typeII, typeIII:
		return 1
	case typeIV:
		return 100
	}
	return 1
}

// spinUpNeeded reports whether the command byte requests spin-up (bit 3
// clear means spin-up enabled) and the motor is currently off.
func (c *Controller) spinUpNeeded(cmdByte byte) bool {
	spinUpDisabled := cmdByte&0x08 != 0
	return !spinUpDisabled && !c.motorOn
}

// beginMotorAndSpinUp is the common entry every type-I/II/III command
// passes through (spec.md §4.D "Motor & spin-up"). It returns the delay
// before the next sub-state.
func (c *Controller) beginMotorAndSpinUp(cmdByte byte) uint64 {
	needSpinUp := c.spinUpNeeded(cmdByte)
	c.motorOn = true
	if needSpinUp {
		c.statusReg &^= statusSpinUpOrRecordType
		c.indexPulseCounter = 0
		c.subState = subSpinUpWait
		return clockPollIntervalCycles
	}
	c.spinUpDone = true
	if c.statusIsTypeI {
		c.statusReg |= statusSpinUpOrRecordType
	}
	return 0
}

// pollSpinUp waits for six index pulses (spec.md §4.D), polling every
// ~500 controller cycles.
func (c *Controller) pollSpinUp() uint64 {
	const spinUpIndexPulses = 6
	if c.indexPulseCounter >= spinUpIndexPulses {
		c.spinUpDone = true
		if c.statusIsTypeI {
			c.statusReg |= statusSpinUpOrRecordType
		}
		return 0
	}
	return clockPollIntervalCycles
}

// selectedDriveModel returns the currently selected drive, or nil if none
// is selected.
func (c *Controller) selectedDriveModel() *Drive {
	if c.selectedDrive < 0 || c.selectedDrive >= DriveCount {
		return nil
	}
	return &c.drives[c.selectedDrive]
}

// driveReady reports whether the selected drive is enabled and has media,
// per spec.md §3's "no index pulses ... header-search operations will wait
// indefinitely" rule.
func (c *Controller) driveReady() bool {
	d := c.selectedDriveModel()
	return d != nil && d.Enabled && d.DiskInserted
}

// step runs exactly one sub-state transition and returns the controller-
// cycle delay before the next one, or 0 to continue immediately (spec.md
// §5).
func (c *Controller) step() uint64 {
	c.tick()

	switch c.commandID {
	case cmdRestore, cmdSeek, cmdStep, cmdStepIn, cmdStepOut:
		return c.stepType1()
	case cmdReadSector, cmdWriteSector:
		return c.stepType2()
	case cmdReadAddress, cmdReadTrack, cmdWriteTrack:
		return c.stepType3()
	case cmdMotorStop:
		return c.stepMotorStop()
	default:
		return 0
	}
}

// completeCommand implements the "Completion common path" of spec.md
// §4.D: clear BUSY, optionally raise IRQ, transition to the motor-stop
// timer.
func (c *Controller) completeCommand(raiseIrq bool) {
	c.statusReg &^= statusBusy
	c.replacePossible = false
	c.commandID = cmdNull
	if raiseIrq {
		c.raiseIRQ()
	}
	c.startMotorStopTimer()
}

func (c *Controller) startMotorStopTimer() {
	c.commandID = cmdMotorStop
	c.subState = subMotorStopWait
	c.indexPulseCounter = 0
	c.arm(clockPollIntervalCycles)
}

func (c *Controller) stepMotorStop() uint64 {
	const motorOffIndexPulses = 9
	if c.indexPulseCounter >= motorOffIndexPulses {
		c.motorOn = false
		c.statusReg &^= statusMotorOn
		c.commandID = cmdNull
		return 0
	}
	return clockPollIntervalCycles
}

// restartMotorTimer cancels an in-progress motor-stop countdown, used when
// a new command arrives during it (spec.md §4.D "Motor-off timer").
func (c *Controller) restartMotorTimer() {
	if c.commandID == cmdMotorStop {
		c.commandID = cmdNull
		c.disarm()
	}
}
