package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stdout)

	SetLevel(Notice)
	defer SetLevel(Notice)

	logger := New("log_test")
	logger.Debug("hidden debug")
	logger.Noticef("visible %d", 42)

	out := buf.String()
	if strings.Contains(out, "hidden debug") {
		t.Fatalf("expected debug record to be filtered, got %q", out)
	}
	if !strings.Contains(out, "visible 42") {
		t.Fatalf("expected notice record in output, got %q", out)
	}
	if !strings.Contains(out, "[log_test]") {
		t.Fatalf("expected module name in output, got %q", out)
	}
}

func TestEnabled(t *testing.T) {
	SetLevel(Warning)
	defer SetLevel(Notice)

	if Enabled(Info) {
		t.Fatal("expected Info to be disabled at Warning level")
	}
	if !Enabled(Error) {
		t.Fatal("expected Error to be enabled at Warning level")
	}
}
