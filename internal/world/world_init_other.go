//go:build !linux && !darwin

package world

import "log"

func (w *World) initializeCompute() {
	if err := w.Physics.InitGPU(); err != nil {
		log.Printf("Compute shaders unavailable: %v", err)
	}
}
