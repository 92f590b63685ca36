// Package fdc emulates the WD1772 floppy disk controller and its 16-byte
// DMA FIFO as found in the Atari ST family. It reproduces the controller's
// cycle-accurate command state machine, the angular position of a spinning
// disk, and the bus-visible side effects of overlapping commands, so that
// software depending on exact FDC timing behaves as it would on real
// hardware.
//
// The package decodes only flat .ST and RLE-compressed .MSA disk images
// (STImage, MSAImage); other formats plug in through the ImageBackend
// interface. It does not implement the machine's CPU or video subsystems,
// and does not provide a user interface; those are the calling emulator's
// responsibility.
package fdc
