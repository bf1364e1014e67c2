// Package renderstate owns the GL-side resources a geometry node needs
// while attached: vertex/index buffers matching the mesh layout and the
// rasterizer state used to draw it. It implements scene.Host so buffers
// are built on attach, rebuilt on mesh replacement, and released on
// detach.
package renderstate

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/geoscene/internal/engine/scene"
	"github.com/Faultbox/geoscene/internal/logger"
)

// RasterizerState mirrors the fixed-function state applied before
// drawing attached nodes.
type RasterizerState struct {
	CullFace  bool
	DepthTest bool
	Wireframe bool
}

// DefaultRasterizerState returns the state used for opaque geometry.
func DefaultRasterizerState() RasterizerState {
	return RasterizerState{
		CullFace:  false,
		DepthTest: true,
		Wireframe: false,
	}
}

// Apply sets the GL rasterizer state.
func (s RasterizerState) Apply() {
	if s.CullFace {
		gl.Enable(gl.CULL_FACE)
	} else {
		gl.Disable(gl.CULL_FACE)
	}
	if s.DepthTest {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.LESS)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	if s.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

// resource holds the GL buffers for one attached node.
type resource struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
}

// Host builds and releases per-node GL resources. It must only be used
// from the thread that owns the GL context.
type Host struct {
	state     RasterizerState
	resources map[*scene.GeometryNode]*resource
}

// NewHost creates a host with the given rasterizer state.
func NewHost(state RasterizerState) *Host {
	return &Host{
		state:     state,
		resources: make(map[*scene.GeometryNode]*resource),
	}
}

// MeshAttached uploads the node's mesh into fresh GL buffers.
// Implements scene.Host.
func (h *Host) MeshAttached(n *scene.GeometryNode) {
	h.release(n)

	m := n.Mesh()
	if m == nil || !m.IsComplete() {
		// Mesh replacement is allowed to install an incomplete mesh;
		// the node simply has nothing to draw until it is replaced again.
		return
	}

	positions := m.Positions()
	flat := make([]float32, 0, len(positions)*3)
	for _, p := range positions {
		flat = append(flat, p.X, p.Y, p.Z)
	}
	indices := m.Indices()

	res := &resource{indexCount: int32(len(indices))}
	gl.GenVertexArrays(1, &res.vao)
	gl.BindVertexArray(res.vao)

	gl.GenBuffers(1, &res.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, res.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(flat)*4, gl.Ptr(flat), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)

	gl.GenBuffers(1, &res.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, res.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	h.resources[n] = res
	logger.Debug("mesh uploaded",
		zap.String("node", n.Name()),
		zap.Int("triangles", m.TriangleCount()),
	)
}

// MeshDetached releases the node's GL buffers. Implements scene.Host.
func (h *Host) MeshDetached(n *scene.GeometryNode) {
	h.release(n)
}

// Draw applies the rasterizer state and issues the node's draw call.
// No-op for nodes without uploaded buffers.
func (h *Host) Draw(n *scene.GeometryNode) {
	res, ok := h.resources[n]
	if !ok {
		return
	}
	h.state.Apply()
	gl.BindVertexArray(res.vao)
	gl.DrawElements(gl.TRIANGLES, res.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// Destroy releases all remaining resources.
func (h *Host) Destroy() {
	for n := range h.resources {
		h.release(n)
	}
}

func (h *Host) release(n *scene.GeometryNode) {
	res, ok := h.resources[n]
	if !ok {
		return
	}
	gl.DeleteBuffers(1, &res.ebo)
	gl.DeleteBuffers(1, &res.vbo)
	gl.DeleteVertexArrays(1, &res.vao)
	delete(h.resources, n)
	logger.Debug("mesh buffers released", zap.String("node", n.Name()))
}
