// Command fdcshell is an interactive raw-terminal console for poking
// fdc.Controller registers directly, useful for exercising command
// sequences by hand without a full emulator around it.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/chainq/hatari"
)

// scratchMemory is a small fdc.HostMemory backing store for manual DMA
// experiments.
type scratchMemory [1 << 16]byte

func (m *scratchMemory) ReadBlock(addr uint32, n int) []byte {
	end := int(addr) + n
	if end > len(m) {
		end = len(m)
	}
	if int(addr) >= end {
		return nil
	}
	return m[addr:end]
}

func (m *scratchMemory) WriteBlock(addr uint32, data []byte) {
	copy(m[addr:], data)
}

func main() {
	fd := int(os.Stdin.Fd())
	isTerminal := term.IsTerminal(fd)

	var oldState *term.State
	if isTerminal {
		var err error
		oldState, err = term.MakeRaw(fd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fdcshell: failed to set raw mode: %v\n", err)
			isTerminal = false
		} else {
			defer term.Restore(fd, oldState)
		}
	}

	c := fdc.New()
	mem := &scratchMemory{}
	c.SetHostMemory(mem)
	c.SetIRQHandler(func(level bool) {
		fmt.Fprintf(os.Stdout, "\r\nIRQ %v\r\n", level)
	})

	fmt.Fprintln(os.Stdout, "fdcshell: type 'help' for commands, 'quit' to exit")
	printPrompt(os.Stdout)

	scanner := bufio.NewScanner(rawLineReader{os.Stdin, isTerminal})
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			printPrompt(os.Stdout)
			continue
		}
		if !runShellCommand(c, line, os.Stdout) {
			break
		}
		printPrompt(os.Stdout)
	}
}

func printPrompt(w *os.File) {
	fmt.Fprint(w, "fdc> ")
}

// runShellCommand executes one shell line against the controller. Returns
// false when the shell should exit.
func runShellCommand(c *fdc.Controller, line string, w *os.File) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "quit", "exit":
		return false

	case "help":
		fmt.Fprintln(w, "commands: cmd <hex>, track <hex>, sector <hex>, data <hex>, status, insert <path>, side <hex>, advance <n>, read <track> <side> <sector>, quit")

	case "cmd":
		if v, ok := parseByte(fields); ok {
			c.WriteCommand(v)
		}

	case "track":
		if v, ok := parseByte(fields); ok {
			c.SetTrackRegister(v)
		}

	case "sector":
		if v, ok := parseByte(fields); ok {
			c.SetSectorRegister(v)
		}

	case "data":
		if v, ok := parseByte(fields); ok {
			c.SetDataRegister(v)
		}

	case "status":
		fmt.Fprintf(w, "status=%#02x\r\n", c.ReadStatus())

	case "side":
		if v, ok := parseByte(fields); ok {
			c.SetDriveSide(v)
		}

	case "insert":
		if len(fields) < 2 {
			fmt.Fprintln(w, "usage: insert <path-to-.st-or-.msa-image>")
			break
		}
		insertImage(c, fields[1], w)

	case "read":
		if len(fields) < 4 {
			fmt.Fprintln(w, "usage: read <track> <side> <sector>")
			break
		}
		track, _ := strconv.Atoi(fields[1])
		side, _ := strconv.Atoi(fields[2])
		sector, _ := strconv.Atoi(fields[3])
		data, err := c.ReadDriveSector(0, track, side, sector)
		if err != nil {
			fmt.Fprintf(w, "read: %v\r\n", err)
			break
		}
		fmt.Fprintf(w, "%x\r\n", data)

	case "advance":
		if len(fields) < 2 {
			fmt.Fprintln(w, "usage: advance <cpu-cycles>")
			break
		}
		n, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			fmt.Fprintf(w, "bad cycle count: %v\r\n", err)
			break
		}
		c.Advance(n)

	default:
		fmt.Fprintf(w, "unknown command %q\r\n", fields[0])
	}
	return true
}

func insertImage(c *fdc.Controller, path string, w *os.File) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(w, "read %s: %v\r\n", path, err)
		return
	}
	var img fdc.ImageBackend
	if strings.HasSuffix(strings.ToLower(path), ".msa") {
		img, err = fdc.NewMSAImage(data, false)
	} else {
		img, err = fdc.NewSTImage(data, false)
	}
	if err != nil {
		fmt.Fprintf(w, "parse %s: %v\r\n", path, err)
		return
	}
	c.Insert(0, img)
	c.Enable(0, true)
	fmt.Fprintf(w, "inserted %s\r\n", path)
}

func parseByte(fields []string) (byte, bool) {
	if len(fields) < 2 {
		return 0, false
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(fields[1], "0x"), 16, 8)
	if err != nil {
		return 0, false
	}
	return byte(v), true
}

// rawLineReader adapts raw-mode stdin (which delivers CR, not LF, on Enter)
// to bufio.Scanner's line-oriented interface.
type rawLineReader struct {
	f          *os.File
	rawEnabled bool
}

func (r rawLineReader) Read(p []byte) (int, error) {
	n, err := r.f.Read(p)
	if r.rawEnabled {
		for i := 0; i < n; i++ {
			if p[i] == '\r' {
				p[i] = '\n'
			}
		}
	}
	return n, err
}
