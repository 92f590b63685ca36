package fdc

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// STImage is a flat, uncompressed .ST disk image: sides*tracks*sectorsPerTrack
// sectors of 512 bytes each, back to back with no container header. Geometry
// is recovered from the boot sector's BIOS parameter block, the same fields
// real ST firmware reads, following the binary.Read-over-bytes.Reader idiom
// damieng-magneato/src/parser.go uses to walk a DSK container.
type STImage struct {
	data             []byte
	sectorsPerTrack  int
	sides            int
	tracksPerSide    int
	writeProtected   bool
}

// stBootSector mirrors the handful of BPB fields at the start of an ST boot
// sector that determine geometry; the rest of the 512-byte sector (boot code)
// is irrelevant to us.
type stBootSector struct {
	_              [11]byte // BRA.S + OEM name
	BytesPerSector uint16
	_              [8]byte
	_              uint16 // reserved sectors, unused here
	_              byte
	_              uint16
	SectorsPerFAT  uint16
	SectorsPerTrackBPB uint16
	SidesBPB       uint16
}

// NewSTImage parses a raw byte slice as a flat .ST image. If the boot
// sector's BPB fields look implausible (as on unformatted or protected
// disks), geometry falls back to inference from the file size, matching how
// Hatari's Floppy_FindDiskDetails tolerates a garbage boot sector.
func NewSTImage(data []byte, writeProtected bool) (*STImage, error) {
	if len(data) < bytesPerSector {
		return nil, fmt.Errorf("fdc: ST image too small (%d bytes)", len(data))
	}

	sectorsPerTrack, sides := stGeometryFromBootSector(data)
	if sectorsPerTrack == 0 {
		sectorsPerTrack, sides = stGeometryFromSize(len(data))
	}
	tracksPerSide := len(data) / (bytesPerSector * sectorsPerTrack * sides)
	if tracksPerSide == 0 {
		return nil, fmt.Errorf("fdc: ST image too small for %d sectors/track, %d side(s)", sectorsPerTrack, sides)
	}

	return &STImage{
		data:            data,
		sectorsPerTrack: sectorsPerTrack,
		sides:           sides,
		tracksPerSide:   tracksPerSide,
		writeProtected:  writeProtected,
	}, nil
}

func stGeometryFromBootSector(data []byte) (sectorsPerTrack, sides int) {
	var bpb stBootSector
	if err := binary.Read(bytes.NewReader(data[:32]), binary.LittleEndian, &bpb); err != nil {
		return 0, 0
	}
	spt := int(bpb.SectorsPerTrackBPB)
	sd := int(bpb.SidesBPB)
	if spt < 1 || spt > 36 || sd < 1 || sd > 2 {
		return 0, 0
	}
	return spt, sd
}

// stGeometryFromSize infers geometry from the well-known standard ST image
// sizes (single/double sided, 9/10/11/18 sectors/track, 80 tracks).
func stGeometryFromSize(n int) (sectorsPerTrack, sides int) {
	const tracks = 80
	for _, spt := range []int{9, 10, 11, 18} {
		for _, sd := range []int{2, 1} {
			if n == bytesPerSector*spt*sd*tracks {
				return spt, sd
			}
		}
	}
	return 9, 2 // conservative default: DD, double-sided, 9 sectors/track
}

func (img *STImage) offset(track, side, sector int) (int, error) {
	if side < 0 || side >= img.sides {
		return 0, ErrSectorRange
	}
	if sector < 1 || sector > img.sectorsPerTrack {
		return 0, ErrSectorRange
	}
	if track < 0 || track >= img.tracksPerSide {
		return 0, ErrSectorRange
	}
	logicalTrack := track*img.sides + side
	off := (logicalTrack*img.sectorsPerTrack + (sector - 1)) * bytesPerSector
	if off+bytesPerSector > len(img.data) {
		return 0, ErrSectorRange
	}
	return off, nil
}

func (img *STImage) ReadSector(track, side, sector int) ([]byte, error) {
	off, err := img.offset(track, side, sector)
	if err != nil {
		return nil, err
	}
	out := make([]byte, bytesPerSector)
	copy(out, img.data[off:off+bytesPerSector])
	return out, nil
}

func (img *STImage) WriteSector(track, side, sector int, data []byte) error {
	off, err := img.offset(track, side, sector)
	if err != nil {
		return err
	}
	copy(img.data[off:off+bytesPerSector], data)
	return nil
}

func (img *STImage) SectorsPerTrack() int    { return img.sectorsPerTrack }
func (img *STImage) SidesPerDisk() int       { return img.sides }
func (img *STImage) TracksPerSide() int      { return img.tracksPerSide }
func (img *STImage) IsWriteProtected() bool  { return img.writeProtected }
