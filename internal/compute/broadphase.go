package compute

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	ErrNotInitialized = errors.New("compute: system not initialized")
	ErrPairOverflow   = errors.New("compute: pair buffer overflow")
)

// BroadPhase finds overlapping axis-aligned boxes on the GPU.
type BroadPhase struct {
	system   *System
	pipeline *Pipeline

	boxBuffer    *Buffer // input boxes
	pairBuffer   *Buffer // output pairs
	countBuffer  *Buffer // output pair count
	paramsBuffer *Buffer // uniform object count

	maxObjects uint32
	maxPairs   uint32
}

// Box is an axis-aligned box packed as two vec4s. W is unused.
type Box struct {
	Min [4]float32
	Max [4]float32
}

// MakeBox builds a Box from its corners.
func MakeBox(min, max [3]float32) Box {
	return Box{
		Min: [4]float32{min[0], min[1], min[2], 0},
		Max: [4]float32{max[0], max[1], max[2], 0},
	}
}

// Overlaps uses the same closed test as the shader.
func (b Box) Overlaps(o Box) bool {
	for i := 0; i < 3; i++ {
		if b.Min[i] > o.Max[i] || o.Min[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// CollisionPair holds two indices into the submitted boxes, A < B.
type CollisionPair struct {
	A, B uint32
}

const broadPhaseShader = `
// Each thread tests one box against every box with a higher index, so every
// pair is visited once.

struct Box {
    min: vec4<f32>,
    max: vec4<f32>,
}

struct Pair {
    a: u32,
    b: u32,
}

struct Params {
    count: u32,
    pad0: u32,
    pad1: u32,
    pad2: u32,
}

@group(0) @binding(0) var<storage, read> boxes: array<Box>;
@group(0) @binding(1) var<storage, read_write> pairs: array<Pair>;
@group(0) @binding(2) var<storage, read_write> pairCount: atomic<u32>;
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let i = global_id.x;
    if (i >= params.count) {
        return;
    }

    let a = boxes[i];
    for (var j = i + 1u; j < params.count; j = j + 1u) {
        let b = boxes[j];
        if (all(a.min.xyz <= b.max.xyz) && all(b.min.xyz <= a.max.xyz)) {
            let idx = atomicAdd(&pairCount, 1u);
            if (idx < arrayLength(&pairs)) {
                pairs[idx] = Pair(i, j);
            }
        }
    }
}
`

var broadPhaseLayout = []wgpu.BindGroupLayoutEntry{
	{Binding: 0, Visibility: wgpu.ShaderStageCompute,
		Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage}},
	{Binding: 1, Visibility: wgpu.ShaderStageCompute,
		Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeStorage}},
	{Binding: 2, Visibility: wgpu.ShaderStageCompute,
		Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeStorage}},
	{Binding: 3, Visibility: wgpu.ShaderStageCompute,
		Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform}},
}

// NewBroadPhase allocates buffers for up to maxObjects boxes and maxPairs
// results. Initialize must have succeeded first.
func NewBroadPhase(maxObjects, maxPairs uint32) (*BroadPhase, error) {
	sys := Get()
	if sys == nil {
		return nil, ErrNotInitialized
	}

	pipeline, err := sys.CreatePipeline("broadphase", broadPhaseShader, "main", broadPhaseLayout)
	if err != nil {
		return nil, err
	}

	bp := &BroadPhase{
		system:     sys,
		pipeline:   pipeline,
		maxObjects: maxObjects,
		maxPairs:   maxPairs,
	}

	bp.boxBuffer, err = sys.CreateBuffer("boxes", uint64(maxObjects)*32,
		wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst)
	if err != nil {
		bp.Release()
		return nil, err
	}
	bp.pairBuffer, err = sys.CreateBuffer("pairs", uint64(maxPairs)*8,
		wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	if err != nil {
		bp.Release()
		return nil, err
	}
	bp.countBuffer, err = sys.CreateBuffer("pairCount", 4,
		wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc|wgpu.BufferUsageCopyDst)
	if err != nil {
		bp.Release()
		return nil, err
	}
	bp.paramsBuffer, err = sys.CreateBuffer("params", 16,
		wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	if err != nil {
		bp.Release()
		return nil, err
	}
	return bp, nil
}

// DetectPairs returns every overlapping pair of boxes. Indices follow the
// input order. Callers fall back to a CPU path on error.
func (bp *BroadPhase) DetectPairs(boxes []Box) ([]CollisionPair, error) {
	if len(boxes) < 2 {
		return nil, nil
	}
	if uint32(len(boxes)) > bp.maxObjects {
		return nil, fmt.Errorf("compute: %d boxes exceeds capacity %d", len(boxes), bp.maxObjects)
	}

	count := uint32(len(boxes))
	bp.system.WriteBuffer(bp.boxBuffer, 0, ToBytes(boxes))
	bp.system.WriteBuffer(bp.countBuffer, 0, ToBytes([]uint32{0}))
	bp.system.WriteBuffer(bp.paramsBuffer, 0, ToBytes([]uint32{count, 0, 0, 0}))

	err := bp.system.Dispatch(DispatchParams{
		Pipeline:    bp.pipeline,
		Buffers:     []*Buffer{bp.boxBuffer, bp.pairBuffer, bp.countBuffer, bp.paramsBuffer},
		WorkgroupsX: (count + 255) / 256,
	})
	if err != nil {
		return nil, err
	}

	countData, err := bp.system.ReadBuffer(bp.countBuffer, 4)
	if err != nil {
		return nil, err
	}
	pairCount := fromBytes[uint32](countData)[0]
	if pairCount == 0 {
		return nil, nil
	}
	if pairCount > bp.maxPairs {
		return nil, fmt.Errorf("%w: %d pairs, capacity %d", ErrPairOverflow, pairCount, bp.maxPairs)
	}

	pairData, err := bp.system.ReadBuffer(bp.pairBuffer, uint64(pairCount)*8)
	if err != nil {
		return nil, err
	}
	pairs := make([]CollisionPair, pairCount)
	copy(pairs, fromBytes[CollisionPair](pairData))
	return pairs, nil
}

// DetectPairsCPU is the O(n^2) reference for DetectPairs, in the order the
// GPU would report them with one thread.
func DetectPairsCPU(boxes []Box) []CollisionPair {
	var pairs []CollisionPair
	for i := range boxes {
		for j := i + 1; j < len(boxes); j++ {
			if boxes[i].Overlaps(boxes[j]) {
				pairs = append(pairs, CollisionPair{A: uint32(i), B: uint32(j)})
			}
		}
	}
	return pairs
}

// Release frees the buffers. The pipeline stays cached in the System.
func (bp *BroadPhase) Release() {
	for _, b := range []*Buffer{bp.boxBuffer, bp.pairBuffer, bp.countBuffer, bp.paramsBuffer} {
		if b != nil {
			b.Release()
		}
	}
	bp.boxBuffer, bp.pairBuffer, bp.countBuffer, bp.paramsBuffer = nil, nil, nil, nil
}
