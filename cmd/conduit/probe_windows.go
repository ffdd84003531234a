//go:build windows

package main

import (
	"fmt"

	"github.com/conduit-gpu/conduit/device/webgpu"
)

// probeGPU reports the WebGPU adapter, if one can be initialized.
func probeGPU() {
	if !webgpu.IsAvailable() {
		fmt.Println("webgpu: unavailable (no compatible adapter)")
		return
	}
	dev, err := webgpu.New()
	if err != nil {
		fmt.Printf("webgpu: unavailable (%v)\n", err)
		return
	}
	defer dev.Close()
	fmt.Printf("webgpu: available (%s)\n", dev.AdapterInfo())
}
