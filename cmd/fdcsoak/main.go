// Command fdcsoak drives a fdc.Controller through a long sequence of
// randomized commands against an in-memory disk image, for catching
// state-machine deadlocks and DMA corruption under sustained load.
package main

import (
	"flag"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/chainq/hatari"
	"github.com/chainq/hatari/internal/diag"
)

var (
	seconds = flag.Uint("seconds", 10, "how many simulated seconds to run")
	seed    = flag.Int64("seed", 1, "PRNG seed for the controller and command sequence")
	stats   = flag.Bool("stats", false, "launch the statsview HTTP diagnostics server")
	verbose = flag.Bool("v", false, "enable controller/DMA/clock trace logging")
)

// ramMemory is a flat byte slice standing in for system RAM, implementing
// fdc.HostMemory.
type ramMemory []byte

func (m ramMemory) ReadBlock(addr uint32, n int) []byte {
	if int(addr)+n > len(m) {
		n = len(m) - int(addr)
	}
	if n <= 0 {
		return make([]byte, 0)
	}
	return m[addr : int(addr)+n]
}

func (m ramMemory) WriteBlock(addr uint32, data []byte) {
	n := copy(m[addr:], data)
	_ = n
}

func main() {
	flag.Parse()

	if *verbose {
		fdc.TraceController = true
		fdc.TraceDMA = true
		fdc.TraceClock = true
	}

	if *stats {
		if !diag.Available() {
			log.Println("statsview not built into this binary; rebuild with -tags statsview")
		} else {
			diag.Launch(os.Stdout)
		}
	}

	rng := rand.New(rand.NewSource(*seed))

	c := fdc.New(fdc.WithSeed(*seed), fdc.WithFastFDC(8))

	mem := make(ramMemory, 1<<20)
	c.SetHostMemory(mem)

	rawDisk := make([]byte, 512*9*2*80)
	rng.Read(rawDisk)
	img, err := fdc.NewSTImage(rawDisk, false)
	if err != nil {
		log.Fatalf("building soak-test image: %v", err)
	}
	c.Insert(0, img)
	c.Enable(0, true)
	c.SetDriveSide(0xf9) // side 0, drive 0 selected

	deadline := time.Duration(*seconds) * time.Second
	const cpuHz = 8_000_000
	totalCycles := uint64(deadline.Seconds() * cpuHz)

	var elapsed uint64
	for elapsed < totalCycles {
		if !c.Busy() {
			c.WriteCommand(randomCommand(rng))
		}
		c.Advance(1000)
		elapsed += 1000
	}

	log.Printf("fdcsoak: completed %d cpu cycles without deadlock", elapsed)
}

// randomCommand picks a plausible command byte from every WD1772 command
// class, weighted toward Type II sector transfers since those exercise the
// DMA path hardest.
func randomCommand(rng *rand.Rand) byte {
	switch rng.Intn(10) {
	case 0:
		return 0x00 // Restore
	case 1:
		return 0x10 | byte(rng.Intn(4)) // Seek
	case 2, 3, 4, 5:
		return 0x80 | byte(rng.Intn(2))<<4 // Read Sector(s)
	case 6, 7:
		return 0xa0 | byte(rng.Intn(2))<<4 // Write Sector(s)
	case 8:
		return 0xc0 // Read Address
	default:
		return 0xd0 // Force Interrupt, no interrupt condition
	}
}
