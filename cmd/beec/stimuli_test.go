package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sarchlab/bee-compiler/primitive"
)

func TestLoadStimuliParsesPerCyclePokes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stim.json")
	raw := `[{"a": 0, "b": 1}, {"a": 1}]`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	cycles, err := loadStimuli(path)
	if err != nil {
		t.Fatalf("loadStimuli() error = %v", err)
	}
	if len(cycles) != 2 {
		t.Fatalf("len(cycles) = %d, want 2", len(cycles))
	}
	if cycles[0]["a"] != 0 || cycles[0]["b"] != 1 {
		t.Errorf("cycle 0 = %+v, want a=0 b=1", cycles[0])
	}
	if cycles[1]["a"] != 1 {
		t.Errorf("cycle 1 = %+v, want a=1", cycles[1])
	}
}

func TestStimulusFromHoldsLastValue(t *testing.T) {
	cycles := []map[string]primitive.Bit{
		{"a": 0},
		{"a": 1},
	}
	stim := stimulusFrom(cycles)

	if got := stim(0)["a"]; got != 0 {
		t.Errorf("cycle 0: a = %d, want 0", got)
	}
	if got := stim(1)["a"]; got != 1 {
		t.Errorf("cycle 1: a = %d, want 1", got)
	}
	if got := stim(5)["a"]; got != 1 {
		t.Errorf("cycle 5 (past file end): a = %d, want held value 1", got)
	}
}
