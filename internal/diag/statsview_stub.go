//go:build !statsview

package diag

import "io"

// Launch is a no-op in builds without the "statsview" tag.
func Launch(output io.Writer) {
	io.WriteString(output, "stats server not built into this binary (build with -tags statsview)\n")
}

// Available reports whether a statsview server is available to launch.
func Available() bool {
	return false
}
