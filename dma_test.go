package fdc

import "testing"

func TestDMAPushFillsFIFOThenFlushesToMemory(t *testing.T) {
	d := &DMAEngine{}
	mem := &fakeMemory{}
	d.SetHostMemory(mem)
	d.SetSectorCount(1)
	d.setAddress(0x4000)

	for i := 0; i < dmaFIFOSize; i++ {
		d.Push(byte(i))
	}

	got := mem.ReadBlock(0x4000, dmaFIFOSize)
	for i := 0; i < dmaFIFOSize; i++ {
		if got[i] != byte(i) {
			t.Fatalf("byte %d = %#02x, want %#02x", i, got[i], byte(i))
		}
	}
	if d.Address() != 0x4000+dmaFIFOSize {
		t.Fatalf("address = %#x, want %#x", d.Address(), 0x4000+dmaFIFOSize)
	}
}

func TestDMAPullReadsFromMemoryOneFIFOAtATime(t *testing.T) {
	d := &DMAEngine{}
	mem := &fakeMemory{}
	for i := 0; i < dmaFIFOSize*2; i++ {
		mem.buf[i] = byte(i)
	}
	d.SetHostMemory(mem)
	d.SetSectorCount(1)
	d.setAddress(0)

	for i := 0; i < dmaFIFOSize*2; i++ {
		got := d.Pull()
		if got != byte(i) {
			t.Fatalf("Pull() #%d = %#02x, want %#02x", i, got, byte(i))
		}
	}
}

func TestDMAPushWithZeroSectorCountIsDiscardedAndClearsNoError(t *testing.T) {
	d := &DMAEngine{}
	mem := &fakeMemory{}
	d.SetHostMemory(mem)
	d.setAddress(0x8000)
	// sectorCount defaults to zero.

	d.Push(0xaa)

	if d.noError {
		t.Fatal("noError should be false after a discarded push")
	}
	if got := mem.ReadBlock(0x8000, 1); got[0] != 0 {
		t.Fatalf("memory was written despite sectorCount==0: %#02x", got[0])
	}
}

func TestDMAResetOnDirectionToggle(t *testing.T) {
	d := &DMAEngine{}
	d.SetSectorCount(3)
	d.fifoSize = 5

	d.SetMode(0) // establishes a baseline with direction bit clear
	d.SetMode(dmaModeDirWrite)

	if d.SectorCount() != 0 {
		t.Fatalf("SectorCount() = %d, want 0 after direction toggle reset", d.SectorCount())
	}
	if d.fifoSize != 0 {
		t.Fatalf("fifoSize = %d, want 0 after reset", d.fifoSize)
	}
	if !d.noError {
		t.Fatal("Reset should leave noError true")
	}
}

func TestDMASetModeWithoutDirectionChangeDoesNotReset(t *testing.T) {
	d := &DMAEngine{}
	d.SetMode(dmaModeEnable)
	d.SetSectorCount(2)
	d.fifoSize = 4

	d.SetMode(dmaModeEnable | dmaModeHDCRoute) // direction bit unchanged

	if d.SectorCount() != 2 {
		t.Fatalf("SectorCount() = %d, want unchanged 2", d.SectorCount())
	}
	if d.fifoSize != 4 {
		t.Fatalf("fifoSize = %d, want unchanged 4", d.fifoSize)
	}
}

func TestDMAAddressBytesRoundTrip(t *testing.T) {
	d := &DMAEngine{}
	d.SetAddressHighByte(0x12, false)
	d.SetAddressMidByte(0x34)
	d.SetAddressLowByte(0x57) // low bit forced off

	if got, want := d.Address(), uint32(0x123456); got != want {
		t.Fatalf("Address() = %#x, want %#x", got, want)
	}
	if d.AddressHighByte() != 0x12 || d.AddressMidByte() != 0x34 || d.AddressLowByte() != 0x56 {
		t.Fatalf("address byte accessors = %02x %02x %02x, want 12 34 56",
			d.AddressHighByte(), d.AddressMidByte(), d.AddressLowByte())
	}
}

func TestDMASetAddressHighByteFourMBLimit(t *testing.T) {
	d := &DMAEngine{}
	d.SetAddressHighByte(0xff, true)
	if d.AddressHighByte() != 0x3f {
		t.Fatalf("AddressHighByte() = %#02x, want masked to %#02x", d.AddressHighByte(), 0x3f)
	}
}

func TestDMAStatusReflectsNoErrorAndSectorCount(t *testing.T) {
	d := &DMAEngine{}
	d.SetSectorCount(1)
	mem := &fakeMemory{}
	d.SetHostMemory(mem)
	d.setAddress(0)
	d.Push(0)

	status := d.Status()
	if status&dmaStatusNoError == 0 {
		t.Fatal("expected dmaStatusNoError bit set after a successful push")
	}
	if status&dmaStatusSectorNonZero == 0 {
		t.Fatal("expected dmaStatusSectorNonZero bit set while sectorCount > 0")
	}
}
