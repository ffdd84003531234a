// Package main provides the Conduit CLI.
package main

import (
	"fmt"
	"os"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("Conduit %s\n", version)
			return
		case "devices":
			listDevices()
			return
		}
	}

	fmt.Println("Conduit - GPU compute binding layer for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  devices    List compute devices on this system")
}

func listDevices() {
	fmt.Println("host:   available (pure Go reference driver, all element kinds)")
	probeGPU()
}
