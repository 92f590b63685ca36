package fdc

import (
	"encoding/binary"
	"fmt"
)

// msaMagic is the two-byte signature at the start of every .MSA container.
const msaMagic = 0x0e0f

// msaRLEMarker introduces a run-length-encoded span within a compressed
// track block: marker byte, value byte, then a big-endian u16 repeat count.
const msaRLEMarker = 0xe5

// MSAImage is a run-length-compressed .MSA disk image, decompressed in full
// on load. MSA never appears in the retrieval pack's Go sources, so its
// decode loop is written from the format's well-known public layout rather
// than ported from a source file; it follows the same io.ReadAll-then-walk
// idiom as damieng-magneato/src/parser.go's ParseDSK.
type MSAImage struct {
	*STImage
}

// NewMSAImage decompresses the .MSA container into a flat buffer and wraps
// it with the same sector-offset arithmetic as a flat .ST image, since MSA
// is exactly a compressed ST image with an explicit geometry header.
func NewMSAImage(data []byte, writeProtected bool) (*MSAImage, error) {
	if len(data) < 10 {
		return nil, fmt.Errorf("fdc: MSA image too small")
	}
	if binary.BigEndian.Uint16(data[0:2]) != msaMagic {
		return nil, fmt.Errorf("fdc: bad MSA signature")
	}
	sectorsPerTrack := int(binary.BigEndian.Uint16(data[2:4]))
	sides := int(binary.BigEndian.Uint16(data[4:6])) + 1
	startTrack := int(binary.BigEndian.Uint16(data[6:8]))
	endTrack := int(binary.BigEndian.Uint16(data[8:10]))
	if sectorsPerTrack < 1 || sectorsPerTrack > 36 || sides < 1 || sides > 2 || endTrack < startTrack {
		return nil, fmt.Errorf("fdc: implausible MSA header")
	}

	trackSize := sectorsPerTrack * bytesPerSector

	flat := make([]byte, 0, (endTrack-startTrack+1)*sides*trackSize)
	pos := 10
	for track := startTrack; track <= endTrack; track++ {
		for side := 0; side < sides; side++ {
			if pos+2 > len(data) {
				return nil, fmt.Errorf("fdc: MSA truncated at track %d side %d", track, side)
			}
			blockLen := int(binary.BigEndian.Uint16(data[pos : pos+2]))
			pos += 2
			if pos+blockLen > len(data) {
				return nil, fmt.Errorf("fdc: MSA truncated track body at track %d side %d", track, side)
			}
			block := data[pos : pos+blockLen]
			pos += blockLen

			var decoded []byte
			if blockLen == trackSize {
				decoded = block
			} else {
				var err error
				decoded, err = msaDecompressTrack(block, trackSize)
				if err != nil {
					return nil, fmt.Errorf("fdc: MSA track %d side %d: %w", track, side, err)
				}
			}
			flat = append(flat, decoded...)
		}
	}

	inner := &STImage{
		data:            flat,
		sectorsPerTrack: sectorsPerTrack,
		sides:           sides,
		tracksPerSide:   endTrack - startTrack + 1,
		writeProtected:  writeProtected,
	}
	return &MSAImage{STImage: inner}, nil
}

// msaDecompressTrack expands one RLE-compressed track block to exactly
// wantLen bytes.
func msaDecompressTrack(block []byte, wantLen int) ([]byte, error) {
	out := make([]byte, 0, wantLen)
	i := 0
	for i < len(block) {
		b := block[i]
		if b != msaRLEMarker {
			out = append(out, b)
			i++
			continue
		}
		if i+4 > len(block) {
			return nil, fmt.Errorf("truncated RLE span")
		}
		value := block[i+1]
		count := int(binary.BigEndian.Uint16(block[i+2 : i+4]))
		for n := 0; n < count; n++ {
			out = append(out, value)
		}
		i += 4
	}
	if len(out) != wantLen {
		return nil, fmt.Errorf("decompressed to %d bytes, want %d", len(out), wantLen)
	}
	return out, nil
}
