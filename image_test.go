package fdc

import (
	"encoding/binary"
	"testing"
)

func TestSTImageGeometryFromBootSectorBPB(t *testing.T) {
	const spt, sides, tracks = 9, 2, 80
	data := make([]byte, bytesPerSector*spt*sides*tracks)
	binary.LittleEndian.PutUint16(data[28:30], uint16(spt))
	binary.LittleEndian.PutUint16(data[30:32], uint16(sides))

	img, err := NewSTImage(data, false)
	if err != nil {
		t.Fatalf("NewSTImage: %v", err)
	}
	if img.SectorsPerTrack() != spt || img.SidesPerDisk() != sides || img.TracksPerSide() != tracks {
		t.Fatalf("geometry = %d/%d/%d, want %d/%d/%d",
			img.SectorsPerTrack(), img.SidesPerDisk(), img.TracksPerSide(), spt, sides, tracks)
	}
}

func TestSTImageGeometryFallsBackToSizeInference(t *testing.T) {
	// A garbage boot sector (all zero BPB fields) on a standard
	// single-sided, 80-track, 9-sectors/track image.
	data := make([]byte, bytesPerSector*9*1*80)
	img, err := NewSTImage(data, false)
	if err != nil {
		t.Fatalf("NewSTImage: %v", err)
	}
	if img.SectorsPerTrack() != 9 || img.SidesPerDisk() != 1 {
		t.Fatalf("inferred geometry = %d/%d, want 9/1", img.SectorsPerTrack(), img.SidesPerDisk())
	}
}

func TestSTImageReadWriteSectorRoundTrip(t *testing.T) {
	data := make([]byte, bytesPerSector*9*2*80)
	img, err := NewSTImage(data, false)
	if err != nil {
		t.Fatalf("NewSTImage: %v", err)
	}

	payload := make([]byte, bytesPerSector)
	for i := range payload {
		payload[i] = byte(i * 3)
	}
	if err := img.WriteSector(10, 1, 5, payload); err != nil {
		t.Fatalf("WriteSector: %v", err)
	}
	got, err := img.ReadSector(10, 1, 5)
	if err != nil {
		t.Fatalf("ReadSector: %v", err)
	}
	for i := range payload {
		if got[i] != payload[i] {
			t.Fatalf("byte %d = %#02x, want %#02x", i, got[i], payload[i])
		}
	}
}

func TestSTImageSectorOutOfRange(t *testing.T) {
	data := make([]byte, bytesPerSector*9*2*80)
	img, _ := NewSTImage(data, false)

	cases := []struct {
		track, side, sector int
	}{
		{-1, 0, 1},
		{0, 2, 1},
		{0, 0, 0},
		{0, 0, 10},
		{80, 0, 1},
	}
	for _, tc := range cases {
		if _, err := img.ReadSector(tc.track, tc.side, tc.sector); err != ErrSectorRange {
			t.Errorf("ReadSector(%d,%d,%d) = %v, want ErrSectorRange", tc.track, tc.side, tc.sector, err)
		}
	}
}

func TestSTImageWriteProtectedFlag(t *testing.T) {
	img, err := NewSTImage(make([]byte, bytesPerSector*9*2*80), true)
	if err != nil {
		t.Fatalf("NewSTImage: %v", err)
	}
	if !img.IsWriteProtected() {
		t.Fatal("expected IsWriteProtected() true")
	}
}

func TestMSADecompressTrackExpandsRLESpans(t *testing.T) {
	// Two literal bytes, then a run of 5 x 0x42.
	block := []byte{0x01, 0x02, msaRLEMarker, 0x42, 0x00, 0x05}
	got, err := msaDecompressTrack(block, 7)
	if err != nil {
		t.Fatalf("msaDecompressTrack: %v", err)
	}
	want := []byte{0x01, 0x02, 0x42, 0x42, 0x42, 0x42, 0x42}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d = %#02x, want %#02x", i, got[i], want[i])
		}
	}
}

func TestMSADecompressTrackRejectsWrongLength(t *testing.T) {
	block := []byte{0x01, 0x02}
	if _, err := msaDecompressTrack(block, 5); err == nil {
		t.Fatal("expected an error when decompressed length does not match wantLen")
	}
}

func TestMSAImageRoundTripUncompressedTrack(t *testing.T) {
	const spt, sides = 2, 1
	trackSize := spt * bytesPerSector

	trackData := make([]byte, trackSize)
	for i := range trackData {
		trackData[i] = byte(i)
	}

	buf := make([]byte, 0, 10+2+trackSize)
	header := make([]byte, 10)
	binary.BigEndian.PutUint16(header[0:2], msaMagic)
	binary.BigEndian.PutUint16(header[2:4], spt)
	binary.BigEndian.PutUint16(header[4:6], sides-1)
	binary.BigEndian.PutUint16(header[6:8], 0) // start track
	binary.BigEndian.PutUint16(header[8:10], 0) // end track
	buf = append(buf, header...)

	blockLen := make([]byte, 2)
	binary.BigEndian.PutUint16(blockLen, uint16(trackSize))
	buf = append(buf, blockLen...)
	buf = append(buf, trackData...)

	img, err := NewMSAImage(buf, false)
	if err != nil {
		t.Fatalf("NewMSAImage: %v", err)
	}
	if img.SectorsPerTrack() != spt || img.SidesPerDisk() != sides || img.TracksPerSide() != 1 {
		t.Fatalf("geometry = %d/%d/%d, want %d/%d/1", img.SectorsPerTrack(), img.SidesPerDisk(), img.TracksPerSide(), spt, sides)
	}

	got, err := img.ReadSector(0, 0, 1)
	if err != nil {
		t.Fatalf("ReadSector: %v", err)
	}
	for i := range got {
		if got[i] != trackData[i] {
			t.Fatalf("byte %d = %#02x, want %#02x", i, got[i], trackData[i])
		}
	}
}

func TestMSAImageRejectsBadSignature(t *testing.T) {
	buf := make([]byte, 10)
	if _, err := NewMSAImage(buf, false); err == nil {
		t.Fatal("expected an error for a missing MSA signature")
	}
}
