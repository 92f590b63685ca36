package fdc

// MachineVariant selects the per-machine timing and DMA-addressing
// quirks named in spec.md §4.A and §4.C ("factor-of-two correction for
// machine variants", "masked to six bits on machines limited to 4 MB").
type MachineVariant int

const (
	VariantST MachineVariant = iota
	VariantSTE
	VariantMegaSTE
	VariantFalcon
)

// halvesControllerClock reports whether the controller's own clock runs at
// half the nominal rate on this variant, per Hatari's FDC_FdcCyclesToCpuCycles.
func (m MachineVariant) halvesControllerClock() bool {
	return m == VariantMegaSTE
}

// fourMBLimited reports whether the DMA address high byte is masked to six
// bits (4 MB address space) on this variant.
func (m MachineVariant) fourMBLimited() bool {
	return m != VariantFalcon
}

// Config bundles the tunables a host emulator supplies when constructing a
// Controller. Values are conservative ST defaults; use the With* options to
// override.
type Config struct {
	// ControllerFreqHz is the WD1772's own clock frequency, used to derive
	// rotation periods from a drive's configured RPM (spec.md §4.A).
	ControllerFreqHz int

	// CPUFreqHz is the host CPU's clock frequency; controller cycles are
	// converted to CPU cycles through the ratio of these two fields.
	CPUFreqHz int

	// FastFDC divides every scheduled delay by this factor, for
	// accelerated emulation (spec.md §5). 1 disables acceleration.
	FastFDC int

	// Variant selects machine-specific timing and addressing behavior.
	Variant MachineVariant

	// Seed drives the deterministic PRNG used to fill work buffers with
	// "random" bytes (Read Track / Read Address on a missing side) and to
	// seed a drive's index-pulse phase at spin-up, so save states and
	// tests are reproducible (SPEC_FULL.md §3).
	Seed int64
}

// DefaultConfig returns the settings for a stock 8 MHz Atari STF: an 8 MHz
// controller/CPU clock (ratio 1:1), no acceleration, ST variant.
func DefaultConfig() Config {
	return Config{
		ControllerFreqHz: 8_000_000,
		CPUFreqHz:        8_000_000,
		FastFDC:          1,
		Variant:          VariantST,
		Seed:             1,
	}
}

// Option mutates a Config being built by New.
type Option func(*Config)

// WithClockRatio overrides the controller and CPU clock frequencies used to
// convert controller cycles to host CPU cycles.
func WithClockRatio(controllerHz, cpuHz int) Option {
	return func(c *Config) {
		c.ControllerFreqHz = controllerHz
		c.CPUFreqHz = cpuHz
	}
}

// WithFastFDC sets the acceleration divisor applied to every scheduled
// delay. Values less than 1 are clamped to 1.
func WithFastFDC(divisor int) Option {
	return func(c *Config) {
		if divisor < 1 {
			divisor = 1
		}
		c.FastFDC = divisor
	}
}

// WithMachineVariant selects the machine-specific timing/addressing quirks.
func WithMachineVariant(v MachineVariant) Option {
	return func(c *Config) { c.Variant = v }
}

// WithSeed sets the deterministic PRNG seed used for buffer filling and
// index-pulse phase initialization.
func WithSeed(seed int64) Option {
	return func(c *Config) { c.Seed = seed }
}
