package physics

import (
	"pxengine/internal/compute"
	"pxengine/internal/dynamics"
)

// gpuPadding widens boxes so float32 rounding never drops a resting pair.
// Narrow-phase rejects the extra candidates.
const gpuPadding = 1e-4

// gpuFinder adapts the GPU broad-phase to the collision space.
type gpuFinder struct {
	bp *compute.BroadPhase
}

func (f gpuFinder) FindPairs(bounds []dynamics.AABB) ([][2]int, error) {
	pairs, err := f.bp.DetectPairs(toGPUBoxes(bounds))
	if err != nil {
		return nil, err
	}
	out := make([][2]int, len(pairs))
	for i, p := range pairs {
		out[i] = [2]int{int(p.A), int(p.B)}
	}
	return out, nil
}

func toGPUBoxes(bounds []dynamics.AABB) []compute.Box {
	boxes := make([]compute.Box, len(bounds))
	for i, b := range bounds {
		boxes[i] = compute.MakeBox(
			[3]float32{float32(b.Min[0] - gpuPadding), float32(b.Min[1] - gpuPadding), float32(b.Min[2] - gpuPadding)},
			[3]float32{float32(b.Max[0] + gpuPadding), float32(b.Max[1] + gpuPadding), float32(b.Max[2] + gpuPadding)},
		)
	}
	return boxes
}
