package instr

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sarchlab/bee-compiler/platform"
	"github.com/sarchlab/bee-compiler/primitive"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cfg := platform.Default()
	cfg.LutInputs = 3

	inst := New(cfg.LutInputs)
	inst.Valid = true
	inst.Opcode = primitive.OpLut
	inst.Lut = 0b10110010
	inst.Operand = []Operand{
		{Rs: 5, Local: true},
		{Rs: 9, Local: false},
		{Rs: 2, Local: true},
	}
	inst.SInfo = SwitchInfo{Idx: 7, Local: true, Fwd: false}
	inst.Mem = false

	bits := Encode(inst, cfg)
	got := Decode(bits, cfg)

	if diff := cmp.Diff(inst.Opcode, got.Opcode); diff != "" {
		t.Errorf("opcode mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(inst.Lut, got.Lut); diff != "" {
		t.Errorf("lut mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(inst.Operand, got.Operand); diff != "" {
		t.Errorf("operand mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(inst.SInfo.Idx, got.SInfo.Idx); diff != "" {
		t.Errorf("switch idx mismatch (-want +got):\n%s", diff)
	}
	if inst.SInfo.Local != got.SInfo.Local || inst.SInfo.Fwd != got.SInfo.Fwd {
		t.Errorf("switch flags mismatch: want %+v, got %+v", inst.SInfo, got.SInfo)
	}
	if inst.Mem != got.Mem {
		t.Errorf("mem flag mismatch: want %v, got %v", inst.Mem, got.Mem)
	}
}

func TestEncodeBitWidth(t *testing.T) {
	cfg := platform.Default()
	cfg.LutInputs = 3
	inst := New(cfg.LutInputs)
	bits := Encode(inst, cfg)

	want := int(cfg.OpcodeBits()+cfg.LutBits()) +
		int(cfg.LutInputs)*(int(cfg.IndexBits())+1) +
		int(cfg.SwitchBits()) + 3
	if len(bits) != want {
		t.Fatalf("Encode produced %d bits, want %d", len(bits), want)
	}
}

func TestPortsUsed(t *testing.T) {
	inst := New(3)
	inst.Operand = []Operand{
		{Rs: 1, Local: true},
		{Rs: 2, Local: false},
		{Rs: 3, Local: true},
	}
	ldm, sdm := inst.PortsUsed()
	if ldm == nil || *ldm != 2 {
		t.Fatalf("ldmPortsUsed = %v, want 2", ldm)
	}
	if sdm == nil || *sdm != 1 {
		t.Fatalf("sdmPortsUsed = %v, want 1", sdm)
	}

	empty := New(0)
	if l, s := empty.PortsUsed(); l != nil || s != nil {
		t.Fatalf("PortsUsed on empty operands = (%v, %v), want (nil, nil)", l, s)
	}
}
