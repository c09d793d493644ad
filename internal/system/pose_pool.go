package system

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// PosePool recycles transform slices by length so per-frame interpolation
// does not allocate.
type PosePool struct {
	pools map[int]*sync.Pool
	mu    sync.RWMutex
}

var globalPosePool = &PosePool{
	pools: make(map[int]*sync.Pool),
}

// GetPose returns a slice of n transforms from the shared pool. Its contents
// are unspecified.
func GetPose(n int) []mgl32.Mat4 {
	return globalPosePool.Get(n)
}

// PutPose hands a slice obtained from GetPose back to the shared pool
func PutPose(pose []mgl32.Mat4) {
	globalPosePool.Put(pose)
}

func (p *PosePool) Get(n int) []mgl32.Mat4 {
	p.mu.RLock()
	pool, exists := p.pools[n]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		// Double check
		pool, exists = p.pools[n]
		if !exists {
			pool = &sync.Pool{
				New: func() any {
					return make([]mgl32.Mat4, n)
				},
			}
			p.pools[n] = pool
		}
		p.mu.Unlock()
	}

	return pool.Get().([]mgl32.Mat4)
}

func (p *PosePool) Put(pose []mgl32.Mat4) {
	if pose == nil {
		return
	}
	p.mu.RLock()
	pool, exists := p.pools[len(pose)]
	p.mu.RUnlock()

	if exists {
		pool.Put(pose)
	}
}
