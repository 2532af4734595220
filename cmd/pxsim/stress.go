package main

import (
	"fmt"
	"math/rand"
	"pxengine/internal/compute"
	"time"

	"github.com/spf13/cobra"
)

var (
	stressCounts []int
	stressSeed   int64
)

const stressIterations = 10

func runStress(cmd *cobra.Command, args []string) error {
	gpu := true
	info, err := compute.Initialize()
	if err != nil {
		gpu = false
		fmt.Println(warnStyle.Render(fmt.Sprintf("GPU unavailable, timing CPU only: %v", err)))
	} else {
		fmt.Println(title(fmt.Sprintf("GPU: %s | %s | %s", info.Backend, info.Vendor, info.Name)))
	}
	fmt.Println()

	for _, count := range stressCounts {
		if err := stressOnce(count, gpu); err != nil {
			fmt.Printf("%5d objects: %s\n", count, warnStyle.Render(err.Error()))
		}
	}
	if gpu {
		compute.Get().Release()
	}
	return nil
}

// randomBoxes scatters count boxes in a cube that grows with count to keep
// density roughly constant.
func randomBoxes(rng *rand.Rand, count int) []compute.Box {
	spawnSize := float32(50.0) + float32(count)/100.0
	boxes := make([]compute.Box, count)
	for i := range boxes {
		var c [3]float32
		for k := range c {
			c[k] = rng.Float32()*spawnSize - spawnSize/2
		}
		h := 0.5 + rng.Float32()*0.5
		boxes[i] = compute.MakeBox(
			[3]float32{c[0] - h, c[1] - h, c[2] - h},
			[3]float32{c[0] + h, c[1] + h, c[2] + h},
		)
	}
	return boxes
}

func stressOnce(count int, gpu bool) error {
	boxes := randomBoxes(rand.New(rand.NewSource(stressSeed)), count)

	cpuStart := time.Now()
	var cpuPairs []compute.CollisionPair
	for i := 0; i < stressIterations; i++ {
		cpuPairs = compute.DetectPairsCPU(boxes)
	}
	cpuTime := time.Since(cpuStart) / stressIterations

	if !gpu {
		fmt.Printf("%5d objects: CPU %10v (%4d pairs)\n",
			count, cpuTime.Round(time.Microsecond), len(cpuPairs))
		return nil
	}

	bp, err := compute.NewBroadPhase(uint32(count), uint32(count*20))
	if err != nil {
		return fmt.Errorf("GPU ERROR: %w", err)
	}
	defer bp.Release()

	// Warm up
	if _, err := bp.DetectPairs(boxes); err != nil {
		return fmt.Errorf("GPU ERROR: %w", err)
	}

	gpuStart := time.Now()
	var gpuPairs []compute.CollisionPair
	for i := 0; i < stressIterations; i++ {
		if gpuPairs, err = bp.DetectPairs(boxes); err != nil {
			return fmt.Errorf("GPU ERROR: %w", err)
		}
	}
	gpuTime := time.Since(gpuStart) / stressIterations

	speedup := float64(cpuTime) / float64(gpuTime)
	fmt.Printf("%5d objects: GPU %8v (%4d pairs) | CPU %10v (%4d pairs) | %.1fx speedup\n",
		count, gpuTime.Round(time.Microsecond), len(gpuPairs),
		cpuTime.Round(time.Microsecond), len(cpuPairs), speedup)
	return nil
}
