package fdc

import "errors"

// Sentinel errors returned by the bus and snapshot surfaces. Command-level
// conditions (RNF, WPRT, CRC error) are never reported this way; the WD1772
// exposes those only as status-register bits, matching real hardware.
var (
	// ErrBusFault is returned when a word-addressed register is accessed
	// with a byte-sized access.
	ErrBusFault = errors.New("fdc: byte access to word register causes bus error")

	// ErrUnknownRegister is returned for an offset the bus interface does
	// not decode.
	ErrUnknownRegister = errors.New("fdc: unknown register offset")

	// ErrBadSnapshot is returned by Restore when the supplied blob is not
	// a snapshot this version of the package produced.
	ErrBadSnapshot = errors.New("fdc: snapshot is malformed or from an incompatible version")

	// ErrNoImage is returned by Controller.ReadDriveSector when asked to
	// read from a drive with no medium inserted.
	ErrNoImage = errors.New("fdc: no disk image loaded")

	// ErrSectorRange is returned by an ImageBackend when asked for a
	// sector outside the geometry it was constructed with.
	ErrSectorRange = errors.New("fdc: sector out of range for image geometry")
)
