package scene

import "github.com/Carmen-Shannon/oxy-csm/engine/mesh"

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithMeshes registers initial meshes.
//
// Parameters:
//   - meshes: the meshes to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMeshes(meshes ...mesh.Mesh) SceneBuilderOption {
	return func(s *scene) {
		for _, m := range meshes {
			s.addMesh(m)
		}
	}
}

// WithNodes adds initial nodes. IDs are assigned in argument order starting at 1.
//
// Parameters:
//   - nodes: the nodes to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithNodes(nodes ...Node) SceneBuilderOption {
	return func(s *scene) {
		for _, n := range nodes {
			s.add(n)
		}
	}
}

// WithPrepWorkers sets the number of worker goroutines used by Prepare.
// Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPrepWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.prepWorkers = n
	}
}
