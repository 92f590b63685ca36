package fdc

import (
	"bytes"
	"log"
	"testing"
)

func TestTracefWritesOnlyWhenGateIsTrue(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(log.New(&buf, "", 0))
	defer SetLogger(nil)

	tracef(false, "should not appear")
	if buf.Len() != 0 {
		t.Fatalf("tracef with a false gate wrote output: %q", buf.String())
	}

	tracef(true, "hello %d", 42)
	if got := buf.String(); got != "hello 42\n" {
		t.Fatalf("tracef output = %q, want %q", got, "hello 42\n")
	}
}

func TestSetLoggerNilRestoresDefault(t *testing.T) {
	SetLogger(nil)
	if logger != log.Default() {
		t.Fatal("SetLogger(nil) should restore the standard library default logger")
	}
}
