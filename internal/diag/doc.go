// Package diag is an optional package that is fully functional only when
// the "statsview" build tag is present.
//
// It provides an HTTP server running locally offering runtime statistics
// for the fdc soak-test harness, backed by
// "github.com/go-echarts/statsview". After launch, graphical statistics are
// viewable at:
//
//	localhost:12600/debug/statsview
//
// and standard Go pprof statistics at:
//
//	localhost:12600/debug/pprof/
package diag
