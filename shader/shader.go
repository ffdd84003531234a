// Copyright 2025 The Conduit Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package shader provides Conduit's built-in compute programs and WGSL
// tooling.
//
// Each built-in program carries every form a driver might consume: WGSL
// source for the webgpu driver, a host-executable kernel for the host
// driver, and optionally precompiled SPIR-V words for drivers that want
// them. Programs are compiled per element kind so no arithmetic crosses
// kind boundaries.
package shader

import (
	"github.com/conduit-gpu/conduit/device"
	internalshader "github.com/conduit-gpu/conduit/internal/shader"
	"github.com/conduit-gpu/conduit/memory"
)

// Mul returns the elementwise multiply program for the kind:
// out[i] = a[i] * b[i] with bindings (a, b, out).
//
// Integer multiplication wraps modulo 2^width, two's complement for
// signed kinds: int8 16*16 reads back as 0, not an error.
//
// Example:
//
//	prog, err := shader.Mul(memory.Float32)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	algo, err := m.Algorithm(prog, []memory.Resource{a, b, out})
func Mul(kind memory.ElemKind) (*device.Program, error) {
	return internalshader.Mul(kind)
}

// Copy returns the elementwise copy program for the kind:
// out[i] = in[i] with bindings (in, out).
func Copy(kind memory.ElemKind) (*device.Program, error) {
	return internalshader.Copy(kind)
}

// CompileSPIRV translates WGSL source to SPIR-V words with the naga
// compiler.
func CompileSPIRV(wgsl string) ([]uint32, error) {
	return internalshader.CompileSPIRV(wgsl)
}

// Precompile fills the program's SPIRV words from its WGSL source, for
// drivers that consume SPIR-V directly. Programs without WGSL are left
// untouched.
func Precompile(p *device.Program) error {
	return internalshader.Precompile(p)
}

// InconclusiveWGSL reports whether a compile error reflects a limitation
// of the bundled compiler rather than invalid source. Callers treating
// compilation as validation should skip, not fail, on inconclusive
// errors.
func InconclusiveWGSL(err error) bool {
	return internalshader.InconclusiveWGSL(err)
}
