package logging

import (
	"testing"

	"github.com/charmbracelet/log"
)

func TestLoggerInitializers(t *testing.T) {
	Init()
	if l := Logger(SourceApp); l == nil {
		t.Fatal("Logger returned nil")
	}
}

func TestSetLevel(t *testing.T) {
	if err := SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel(debug): %v", err)
	}
	if got := Logger(SourceIngest).GetLevel(); got != log.DebugLevel {
		t.Fatalf("level = %v, want debug", got)
	}
	if err := SetLevel("loud"); err == nil {
		t.Fatal("SetLevel(loud) should fail")
	}
	if err := SetLevel("warn"); err != nil {
		t.Fatalf("SetLevel(warn): %v", err)
	}
}
