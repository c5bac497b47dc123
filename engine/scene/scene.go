// Package scene stores the scene nodes and turns them into per-mesh instance buffers each frame.
package scene

import (
	"fmt"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-csm/common"
	"github.com/Carmen-Shannon/oxy-csm/engine/logger"
	"github.com/Carmen-Shannon/oxy-csm/engine/mesh"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// minInstanceCapacity is the smallest instance buffer allocated for a mesh group.
const minInstanceCapacity = 16

// Node is a renderable object. The render passes only read nodes.
type Node struct {
	// Position is the world-space translation.
	Position mgl32.Vec3
	// Rotation holds Euler angles in radians, applied X then Y then Z.
	Rotation mgl32.Vec3
	// Scale is the per-axis scale. Non-uniform scale skews lit normals slightly.
	Scale mgl32.Vec3
	// Spin is added to Rotation every second by Update.
	Spin mgl32.Vec3
	// Mesh is the name of a mesh added with AddMesh.
	Mesh string
	// Albedo is the linear RGBA surface colour.
	Albedo mgl32.Vec4
}

// ModelMatrix returns the node's model-to-world transform.
func (n Node) ModelMatrix() mgl32.Mat4 {
	return common.ModelMatrix(n.Position, n.Rotation, n.Scale)
}

// DrawItem is one instanced draw: a mesh and the instance buffer holding its nodes.
type DrawItem struct {
	Mesh          bind_group_provider.BindGroupProvider
	Instances     bind_group_provider.BindGroupProvider
	InstanceCount uint32
}

// GPU creates the buffers a scene needs. renderer.Renderer satisfies it.
type GPU interface {
	mesh.Uploader
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error
}

// instanceGroup holds the GPU instance buffer of one mesh.
type instanceGroup struct {
	provider bind_group_provider.BindGroupProvider
	capacity int
	ids      []uint64
	data     []byte
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu *sync.RWMutex

	name      string
	meshes    map[string]mesh.Mesh
	meshOrder []string
	nodes     map[uint64]*Node
	nextID    uint64

	groups    map[string]*instanceGroup
	drawItems []DrawItem

	// prepPool runs the per-group instance marshalling in Prepare. Workers persist
	// across frames; a WaitGroup is the per-frame barrier.
	prepPool    worker.DynamicWorkerPool
	prepWorkers int
}

// Scene holds meshes and nodes and prepares their instance data for the shadow and lit passes.
type Scene interface {
	// Name retrieves the scene name.
	//
	// Returns:
	//   - string: the scene name
	Name() string

	// AddMesh registers a mesh under its name. Re-adding a name replaces the mesh.
	//
	// Parameters:
	//   - m: the mesh
	AddMesh(m mesh.Mesh)

	// Mesh looks up a mesh by name.
	//
	// Parameters:
	//   - name: the mesh name
	//
	// Returns:
	//   - mesh.Mesh: the mesh, or nil if none is registered
	Mesh(name string) mesh.Mesh

	// Add inserts a node and returns its ID.
	//
	// Parameters:
	//   - n: the node
	//
	// Returns:
	//   - uint64: the new node ID, never 0
	Add(n Node) uint64

	// Get returns a copy of a node.
	//
	// Parameters:
	//   - id: the node ID
	//
	// Returns:
	//   - Node: the node
	//   - bool: false if no node has this ID
	Get(id uint64) (Node, bool)

	// Set replaces a node in place.
	//
	// Parameters:
	//   - id: the node ID
	//   - n: the new node value
	//
	// Returns:
	//   - bool: false if no node has this ID
	Set(id uint64, n Node) bool

	// Remove deletes a node. Unknown IDs are ignored.
	//
	// Parameters:
	//   - id: the node ID
	Remove(id uint64)

	// Count returns the number of nodes.
	//
	// Returns:
	//   - int: the node count
	Count() int

	// Update advances every node's rotation by its Spin.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Update(dt float32)

	// Prepare uploads any meshes not yet on the GPU, grows instance buffers, and builds the
	// instance data for every mesh group in parallel. The returned writes must be queued
	// before the frame's passes are submitted.
	//
	// Parameters:
	//   - gpu: the buffer creator, usually the renderer
	//
	// Returns:
	//   - []bind_group_provider.BufferWrite: one write per non-empty mesh group
	//   - error: an error if a buffer could not be created
	Prepare(gpu GPU) ([]bind_group_provider.BufferWrite, error)

	// DrawItems returns the draws built by the last Prepare, in mesh registration order.
	//
	// Returns:
	//   - []DrawItem: the draws
	DrawItems() []DrawItem

	// Release stops the worker pool and frees every GPU buffer the scene owns.
	Release()
}

var _ Scene = &scene{}

// NewScene creates an empty Scene with the specified options applied.
//
// Parameters:
//   - name: the scene name
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:          &sync.RWMutex{},
		name:        name,
		meshes:      make(map[string]mesh.Mesh),
		nodes:       make(map[uint64]*Node),
		nextID:      1,
		groups:      make(map[string]*instanceGroup),
		prepWorkers: max(runtime.NumCPU()-1, 1),
	}

	for _, option := range options {
		option(s)
	}

	// Created after options so WithPrepWorkers can override the default.
	s.prepPool = worker.NewDynamicWorkerPool(s.prepWorkers, 256, 1*time.Second)
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) AddMesh(m mesh.Mesh) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addMesh(m)
}

func (s *scene) addMesh(m mesh.Mesh) {
	if _, exists := s.meshes[m.Name()]; !exists {
		s.meshOrder = append(s.meshOrder, m.Name())
	}
	s.meshes[m.Name()] = m
}

func (s *scene) Mesh(name string) mesh.Mesh {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meshes[name]
}

func (s *scene) Add(n Node) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(n)
}

func (s *scene) add(n Node) uint64 {
	id := s.nextID
	s.nextID++
	s.nodes[id] = &n
	return id
}

func (s *scene) Get(id uint64) (Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

func (s *scene) Set(id uint64, n Node) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.nodes[id]
	if !ok {
		return false
	}
	*existing = n
	return true
}

func (s *scene) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.nodes, id)
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

func (s *scene) Update(dt float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.nodes {
		if n.Spin != (mgl32.Vec3{}) {
			n.Rotation = n.Rotation.Add(n.Spin.Mul(dt))
		}
	}
}

func (s *scene) Prepare(gpu GPU) ([]bind_group_provider.BufferWrite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Serial: bucket nodes by mesh. IDs are sorted so instance order is stable between frames.
	for _, g := range s.groups {
		g.ids = g.ids[:0]
	}
	for id, n := range s.nodes {
		if _, ok := s.meshes[n.Mesh]; !ok {
			continue
		}
		g, ok := s.groups[n.Mesh]
		if !ok {
			g = &instanceGroup{}
			s.groups[n.Mesh] = g
		}
		g.ids = append(g.ids, id)
	}

	// Serial: anything that touches the GPU.
	for _, name := range s.meshOrder {
		m := s.meshes[name]
		g := s.groups[name]
		if g == nil || len(g.ids) == 0 {
			continue
		}
		if m.Provider() == nil {
			if err := m.Upload(gpu); err != nil {
				return nil, fmt.Errorf("scene %s: upload mesh %s: %w", s.name, name, err)
			}
		}
		if err := s.ensureCapacity(gpu, name, g); err != nil {
			return nil, err
		}
	}

	// Parallel: marshal each group's instances.
	var wg sync.WaitGroup
	taskID := 0
	for _, g := range s.groups {
		if len(g.ids) == 0 {
			continue
		}
		wg.Add(1)
		gCap := g
		id := taskID
		taskID++
		s.prepPool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				slices.Sort(gCap.ids)
				gCap.data = gCap.data[:0]
				var inst GPUInstance
				for _, nodeID := range gCap.ids {
					n := s.nodes[nodeID]
					inst.Model = n.ModelMatrix()
					inst.Albedo = n.Albedo
					start := len(gCap.data)
					gCap.data = append(gCap.data, make([]byte, 80)...)
					inst.MarshalInto(gCap.data[start:])
				}
				return nil, nil
			},
		})
	}
	wg.Wait()

	// Serial: collect writes and draws in registration order.
	writes := make([]bind_group_provider.BufferWrite, 0, len(s.groups))
	s.drawItems = s.drawItems[:0]
	for _, name := range s.meshOrder {
		g := s.groups[name]
		if g == nil || len(g.ids) == 0 {
			continue
		}
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: g.provider,
			Binding:  0,
			Offset:   0,
			Data:     g.data,
		})
		s.drawItems = append(s.drawItems, DrawItem{
			Mesh:          s.meshes[name].Provider(),
			Instances:     g.provider,
			InstanceCount: uint32(len(g.ids)),
		})
	}
	return writes, nil
}

// ensureCapacity recreates the group's instance buffer when it cannot hold every node,
// doubling so steady growth reallocates rarely.
func (s *scene) ensureCapacity(gpu GPU, name string, g *instanceGroup) error {
	if g.provider != nil && len(g.ids) <= g.capacity {
		return nil
	}
	capacity := max(g.capacity, minInstanceCapacity)
	for capacity < len(g.ids) {
		capacity *= 2
	}

	provider := bind_group_provider.NewBindGroupProvider(name + " Instances")
	overrides := map[int]uint64{0: uint64(capacity * 80)}
	if err := gpu.InitBindGroup(provider, InstanceLayout(), overrides); err != nil {
		provider.Release()
		return fmt.Errorf("scene %s: instance buffer for %s: %w", s.name, name, err)
	}
	if g.provider != nil {
		g.provider.Release()
	}
	g.provider = provider
	g.capacity = capacity
	logger.Logger().Debug("instance buffer allocated", "scene", s.name, "mesh", name, "capacity", capacity)
	return nil
}

func (s *scene) DrawItems() []DrawItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.drawItems)
}

func (s *scene) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prepPool.Stop()
	for _, g := range s.groups {
		if g.provider != nil {
			g.provider.Release()
			g.provider = nil
		}
	}
	for _, m := range s.meshes {
		m.Release()
	}
	s.drawItems = nil
}
