package shader

import (
	"testing"

	"github.com/conduit-gpu/conduit/internal/memory"
)

// minimalWGSL avoids runtime-sized arrays, which some versions of the
// pure-Go compiler reject as unimplemented.
const minimalWGSL = `
@compute @workgroup_size(1)
fn main() {
}
`

func TestCompileSPIRV(t *testing.T) {
	words, err := CompileSPIRV(minimalWGSL)
	if err != nil {
		if InconclusiveWGSL(err) {
			t.Skipf("wgsl compiler limitation: %v", err)
		}
		t.Fatalf("CompileSPIRV failed: %v", err)
	}
	if len(words) == 0 {
		t.Fatal("SPIR-V output is empty")
	}
	if words[0] != spirvMagic {
		t.Errorf("magic = 0x%08x, want 0x%08x", words[0], uint32(spirvMagic))
	}
}

func TestCompileSPIRVRejectsGarbage(t *testing.T) {
	if _, err := CompileSPIRV("this is not wgsl"); err == nil {
		t.Error("CompileSPIRV should reject invalid source")
	}
}

func TestPrecompile(t *testing.T) {
	prog, _ := Mul(memory.Float32)
	if err := Precompile(prog); err != nil {
		if InconclusiveWGSL(err) {
			t.Skipf("wgsl compiler limitation: %v", err)
		}
		t.Fatalf("Precompile failed: %v", err)
	}
	if prog.SPIRV == nil {
		t.Error("Precompile left SPIRV empty")
	}

	// Kernel-only programs are left untouched.
	narrow, _ := Mul(memory.Int8)
	if err := Precompile(narrow); err != nil {
		t.Fatalf("Precompile on kernel-only program failed: %v", err)
	}
	if narrow.SPIRV != nil {
		t.Error("Precompile should not synthesize SPIR-V without WGSL")
	}
}

func TestInconclusiveWGSL(t *testing.T) {
	if InconclusiveWGSL(nil) {
		t.Error("nil error should not be inconclusive")
	}
	if !InconclusiveWGSL(errTest("runtime-sized arrays not yet implemented")) {
		t.Error("unimplemented-feature errors are inconclusive")
	}
	if InconclusiveWGSL(errTest("expected identifier")) {
		t.Error("parse errors are conclusive")
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }
