package fdc

// DriveCount is the number of physical drive slots the controller mux
// exposes, matching the ST's two-drive daisy chain.
const DriveCount = 2

// densityFactor values, per spec.md §3 ("density factor ∈ {1, 2, 4}").
const (
	DensityDD = 1
	DensityHD = 2
	DensityED = 4
)

// Drive holds the per-physical-drive state named in spec.md §3. It has no
// behavior of its own beyond plain field access; the angular bookkeeping
// lives in clock.go, mirroring the teacher's split between the "disk"
// struct (lkesteloot-trs80emu/disk.go) and the fdc struct that drives it.
type Drive struct {
	Enabled      bool
	DiskInserted bool
	RPMx1000     int // e.g. 300000 for 300 RPM
	Density      int // DensityDD/HD/ED

	HeadTrack int // 0..90

	// lastIndexPulse is the absolute controller-cycle count at which this
	// drive last produced an index pulse; 0 means unknown/not tracking
	// (spec.md §3 invariant).
	lastIndexPulse uint64

	// image backs this drive's medium. nil when no disk is inserted.
	image ImageBackend

	// mediaChangeUntil is the controller-cycle deadline through which
	// WPRT reads are perturbed by the optical sensor after an
	// insert/eject transition (SPEC_FULL.md §3).
	mediaChangeUntil uint64
}

// TrackZero reports whether the head is physically parked at track 0.
func (d *Drive) TrackZero() bool {
	return d.HeadTrack == 0
}

// clampTrack enforces spec.md §3's head-track invariant: step-in at 90 and
// step-out at 0 are clamped with no physical movement.
func clampTrack(track int) int {
	if track < 0 {
		return 0
	}
	if track > 90 {
		return 90
	}
	return track
}

// Enable turns a drive's motor-select line on or off. Idempotent, per
// spec.md §4.B.
func (c *Controller) Enable(drive int, on bool) {
	d := &c.drives[drive]
	d.Enabled = on
}

// Insert marks a disk present in the given drive, re-derives its density
// from the backend's sector layout, and re-seeds or clears the index
// reference depending on whether the motor is running.
func (c *Controller) Insert(drive int, image ImageBackend) {
	d := &c.drives[drive]
	d.image = image
	d.DiskInserted = image != nil
	if image != nil {
		d.Density = densityFromSectorsPerTrack(image.SectorsPerTrack())
	}
	d.mediaChangeUntil = c.clockNow + mediaChangeWindowCycles
	if d.Enabled && c.motorOn {
		c.initDrive(drive)
	} else {
		d.lastIndexPulse = 0
	}
}

// ReadDriveSector reads one sector directly from a drive's medium,
// bypassing the controller state machine entirely. Useful for host
// tooling that wants to inspect a disk without issuing a Read Sector
// command. Returns ErrNoImage if the drive has no medium inserted.
func (c *Controller) ReadDriveSector(drive, track, side, sector int) ([]byte, error) {
	d := &c.drives[drive]
	if d.image == nil {
		return nil, ErrNoImage
	}
	return d.image.ReadSector(track, side, sector)
}

// Eject marks a drive empty and clears its index reference.
func (c *Controller) Eject(drive int) {
	d := &c.drives[drive]
	d.image = nil
	d.DiskInserted = false
	d.lastIndexPulse = 0
	d.mediaChangeUntil = c.clockNow + mediaChangeWindowCycles
}

// densityFromSectorsPerTrack infers a density factor from track geometry,
// following the convention that standard DD ST disks carry 9-10
// sectors/track, HD 18, and ED 36.
func densityFromSectorsPerTrack(sectorsPerTrack int) int {
	switch {
	case sectorsPerTrack > 20:
		return DensityED
	case sectorsPerTrack > 11:
		return DensityHD
	default:
		return DensityDD
	}
}

// mediaChangeWindowCycles is how long, in controller cycles, the
// write-protect optical sensor reads as obstructed after a media change
// (SPEC_FULL.md §3). At the default 8 MHz controller clock this is 25 ms,
// an eighth of a 300 RPM revolution.
const mediaChangeWindowCycles = 200_000

// SetDriveSide decodes the auxiliary I/O-port latch bits, per spec.md
// §4.B / §6: bit 0 selects side (inverted), bits 1-2 select drive
// (active-low), lower-numbered drive wins ties. On a change of selected
// drive, the previous drive's index reference is cleared and the new
// drive's is re-seeded if the motor is on.
func (c *Controller) SetDriveSide(newPortA byte) {
	prevDrive := c.selectedDrive

	side := 0
	if newPortA&0x01 == 0 {
		side = 1
	}
	drive0 := newPortA&0x02 == 0
	drive1 := newPortA&0x04 == 0

	newDrive := -1
	switch {
	case drive0:
		newDrive = 0
	case drive1:
		newDrive = 1
	}

	c.selectedSide = side

	if newDrive != prevDrive {
		if prevDrive >= 0 {
			c.drives[prevDrive].lastIndexPulse = 0
		}
		c.selectedDrive = newDrive
		if newDrive >= 0 && c.motorOn && c.drives[newDrive].Enabled {
			c.initDrive(newDrive)
		}
	}
}
