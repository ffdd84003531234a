//go:build !windows

package main

import "fmt"

// probeGPU reports the WebGPU adapter, if one can be initialized. The
// go-webgpu driver ships Windows binaries only, so elsewhere the answer
// is always no.
func probeGPU() {
	fmt.Println("webgpu: unavailable (windows only)")
}
