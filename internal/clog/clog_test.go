package clog

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestStageLoggingWithoutColor(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	EnableColor(false)
	EnableDebug(false)

	Info("ingest", "scanning source")
	Success("transform", "page 001 done")
	Error("assemble", errors.New("boom"))
	Debug("ingest", "should not appear")

	out := buf.String()
	for _, want := range []string{
		"[ingest] scanning source",
		"[transform] page 001 done",
		"[assemble] Error: boom",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got: %s", want, out)
		}
	}
	if strings.Contains(out, "should not appear") {
		t.Error("expected debug output to be suppressed when debug mode is off")
	}
}

func TestDebugOnlyAppearsWhenEnabled(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	EnableColor(false)
	EnableDebug(true)
	defer EnableDebug(false)

	Debug("split", "volume boundary at entry 12")

	if !strings.Contains(buf.String(), "[split] DEBUG: volume boundary at entry 12") {
		t.Errorf("expected debug line to appear, got: %s", buf.String())
	}
}

func TestTimedOperationPropagatesError(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	EnableColor(false)

	wantErr := errors.New("disk full")
	err := TimedOperation("assemble", "zip", func() error { return wantErr })
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped error to unwrap to wantErr, got %v", err)
	}
	if !strings.Contains(buf.String(), "[assemble] Error: zip:") {
		t.Errorf("expected timed-operation error line, got: %s", buf.String())
	}
}

func TestTimedOperationSucceeds(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	EnableColor(false)

	called := false
	err := TimedOperation("ingest", "extract", func() error { called = true; return nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("expected the wrapped function to run")
	}
}
