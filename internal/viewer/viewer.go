// Package viewer implements the interactive scene viewer: a window, an
// orbit camera, a set of geometry nodes, and a picking loop that routes
// pointer events to the node under the cursor.
package viewer

import (
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/geoscene/internal/config"
	"github.com/Faultbox/geoscene/internal/engine/camera"
	"github.com/Faultbox/geoscene/internal/engine/debug"
	"github.com/Faultbox/geoscene/internal/engine/input"
	"github.com/Faultbox/geoscene/internal/engine/mesh"
	"github.com/Faultbox/geoscene/internal/engine/picking"
	"github.com/Faultbox/geoscene/internal/engine/renderstate"
	"github.com/Faultbox/geoscene/internal/engine/scene"
	"github.com/Faultbox/geoscene/internal/engine/shader"
	"github.com/Faultbox/geoscene/internal/engine/spatial"
	"github.com/Faultbox/geoscene/internal/engine/window"
	"github.com/Faultbox/geoscene/internal/logger"
	"github.com/Faultbox/geoscene/pkg/math"
)

const vertexShaderSrc = `#version 410 core
layout(location = 0) in vec3 aPosition;
uniform mat4 uViewProj;
uniform mat4 uModel;
void main() {
	gl_Position = uViewProj * uModel * vec4(aPosition, 1.0);
}
`

const fragmentShaderSrc = `#version 410 core
uniform vec3 uColor;
out vec4 fragColor;
void main() {
	fragColor = vec4(uColor, 1.0);
}
`

// nodeColor tints nodes so picking feedback is visible without lighting.
type nodeColor struct {
	r, g, b float32
}

// Viewer is the main application instance.
type Viewer struct {
	cfg     *config.Config
	running bool

	window *window.Window
	input  *input.Input
	camera *camera.OrbitCamera

	host   *renderstate.Host
	nodes  []*scene.GeometryNode
	colors map[*scene.GeometryNode]nodeColor

	selected *scene.GeometryNode

	program   uint32
	uViewProj int32
	uModel    int32
	uColor    int32

	wireVAO   uint32
	wireVBO   uint32
	wireDirty bool

	gridVAO   uint32
	gridVBO   uint32
	gridCount int32

	dragging               bool
	lastMouseX, lastMouseY int
}

// New creates a viewer instance. The window and GL context are created
// here; the scene is populated with a few demo nodes.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg:    cfg,
		colors: make(map[*scene.GeometryNode]nodeColor),
	}

	var err error
	v.window, err = window.New(window.Config{
		Title:      "GeoScene Viewer",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	if err := gl.Init(); err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	v.program, err = shader.CompileProgram(vertexShaderSrc, fragmentShaderSrc)
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to compile shaders: %w", err)
	}
	v.uViewProj = shader.MustGetUniform(v.program, "uViewProj")
	v.uModel = shader.MustGetUniform(v.program, "uModel")
	v.uColor = shader.MustGetUniform(v.program, "uColor")

	v.host = renderstate.NewHost(renderstate.DefaultRasterizerState())
	v.input = input.New()
	v.camera = camera.NewOrbitCamera()

	if err := v.buildScene(); err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to build scene: %w", err)
	}

	// Line buffer for the selection wireframe, updated on selection change.
	gl.GenVertexArrays(1, &v.wireVAO)
	gl.BindVertexArray(v.wireVAO)
	gl.GenBuffers(1, &v.wireVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, v.wireVBO)
	gl.BufferData(gl.ARRAY_BUFFER, debug.BoxWireframeVertexCount*3*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.BindVertexArray(0)

	// Static reference grid under the scene.
	grid := debug.GridVertices(10, 1, -1)
	v.gridCount = int32(len(grid) / 3)
	gl.GenVertexArrays(1, &v.gridVAO)
	gl.BindVertexArray(v.gridVAO)
	gl.GenBuffers(1, &v.gridVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, v.gridVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(grid)*4, gl.Ptr(grid), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.BindVertexArray(0)

	logger.Info("viewer initialized",
		zap.Int("nodes", len(v.nodes)),
		zap.Bool("frustum_culling", cfg.Picking.FrustumCulling),
		zap.Int("index_threshold", cfg.Picking.IndexThreshold),
	)
	return v, nil
}

// buildScene populates the scene with demo geometry and attaches every
// node to the GL host.
func (v *Viewer) buildScene() error {
	type spec struct {
		name      string
		m         *mesh.TriMesh
		transform math.Mat4
		color     nodeColor
	}
	specs := []spec{
		{"box", mesh.NewBox(2, 2, 2), math.Identity(), nodeColor{0.8, 0.3, 0.3}},
		{"floor", mesh.NewQuad(12, 12), math.Translate(0, -1, 0).Mul(math.RotateX(-math32.Pi / 2)), nodeColor{0.35, 0.35, 0.4}},
		{"tall-box", mesh.NewBox(1, 3, 1), math.Translate(4, 0.5, -2), nodeColor{0.3, 0.7, 0.4}},
		{"panel", mesh.NewQuad(2, 3), math.Translate(-4, 0.5, 0).Mul(math.QuatFromAxisAngle(math.Vec3{Y: 1}, 0.6).ToMat4()), nodeColor{0.3, 0.45, 0.8}},
	}

	for _, s := range specs {
		n := scene.NewGeometryNode(s.name)
		n.SetMesh(s.m)
		n.SetTransform(s.transform)
		v.installIndex(n)
		if !n.Attach(v.host) {
			return fmt.Errorf("node %q failed to attach", s.name)
		}
		v.colors[n] = s.color

		node := n
		n.Callbacks.OnPointerPress = func(ev scene.PointerEvent) {
			logger.Info("node picked",
				zap.String("node", node.Name()),
				zap.Float32("distance", ev.Hit.Distance),
				zap.Int("triangle", ev.Hit.TriangleTag),
			)
			v.setSelected(node)
		}
		v.nodes = append(v.nodes, n)
	}

	// Frame the whole scene.
	total := math.EmptyBox3()
	for _, n := range v.nodes {
		total = total.Union(n.BoundsWithTransform())
	}
	v.camera.FitToBounds(total)
	return nil
}

// installIndex attaches a spatial index when the mesh is large enough.
func (v *Viewer) installIndex(n *scene.GeometryNode) {
	threshold := v.cfg.Picking.IndexThreshold
	m := n.Mesh()
	if threshold <= 0 || m == nil || m.TriangleCount() < threshold {
		return
	}
	idx, err := spatial.NewMeshIndex(m)
	if err != nil {
		logger.Warn("spatial index build failed",
			zap.String("node", n.Name()),
			zap.Error(err),
		)
		return
	}
	n.SetSpatialIndex(idx)
	logger.Debug("spatial index installed",
		zap.String("node", n.Name()),
		zap.Int("triangles", idx.TriangleCount()),
	)
}

// Run starts the main loop.
func (v *Viewer) Run() error {
	v.running = true

	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting viewer loop")

	for v.running {
		if v.input.Update() {
			v.running = false
			break
		}

		for _, event := range v.input.Events() {
			v.handleEvent(event)
		}

		v.render()
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			if v.cfg.Scene.ShowFPS {
				v.window.SetTitle(fmt.Sprintf("GeoScene Viewer - %d fps", frameCount))
			}
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleEvent(event input.Event) {
	switch event.Type {
	case input.EventWindowResize:
		gl.Viewport(0, 0, int32(event.Width), int32(event.Height))

	case input.EventKeyDown:
		switch event.Key {
		case sdl.SCANCODE_ESCAPE:
			v.running = false
		case sdl.SCANCODE_F12:
			v.captureScreenshot()
		}

	case input.EventMouseDown:
		switch event.Button {
		case sdl.BUTTON_LEFT:
			v.pick(event.MouseX, event.MouseY, scene.PointerPress)
		case sdl.BUTTON_RIGHT:
			v.dragging = true
			v.lastMouseX, v.lastMouseY = event.MouseX, event.MouseY
		}

	case input.EventMouseUp:
		switch event.Button {
		case sdl.BUTTON_LEFT:
			v.pick(event.MouseX, event.MouseY, scene.PointerRelease)
		case sdl.BUTTON_RIGHT:
			v.dragging = false
		}

	case input.EventMouseMove:
		if v.dragging {
			dx := float32(event.MouseX - v.lastMouseX)
			dy := float32(event.MouseY - v.lastMouseY)
			v.camera.HandleDrag(dx, dy)
			v.lastMouseX, v.lastMouseY = event.MouseX, event.MouseY
		} else {
			v.pick(event.MouseX, event.MouseY, scene.PointerMove)
		}

	case input.EventMouseWheel:
		v.camera.HandleZoom(float32(event.WheelY))
	}
}

// pick casts a ray through the cursor, hit-tests every node, and
// dispatches the pointer event to the nearest hit's node.
func (v *Viewer) pick(x, y int, kind scene.PointerKind) {
	w, h := v.window.Size()
	viewProj := v.viewProj(w, h)
	ray := picking.ScreenToRay(float32(x), float32(y), float32(w), float32(h), viewProj.Inverse())

	ctx := scene.NewRenderContext(viewProj)
	ctx.FrustumCulling = v.cfg.Picking.FrustumCulling

	var hits []picking.HitResult
	for _, n := range v.nodes {
		n.HitTest(ctx, ray, &hits)
	}

	best := picking.HitResult{Distance: math32.Inf(1)}
	for _, hit := range hits {
		if hit.Distance > 0 && hit.Distance < best.Distance {
			best = hit
		}
	}
	if !best.Valid {
		if kind == scene.PointerPress {
			v.setSelected(nil)
		}
		return
	}

	node, ok := best.Target.(*scene.GeometryNode)
	if !ok {
		return
	}
	node.Callbacks.Dispatch(scene.PointerEvent{
		Kind:     kind,
		Hit:      best,
		X:        x,
		Y:        y,
		Viewport: v.window,
	})
}

// setSelected updates the highlighted node and marks the wireframe stale.
func (v *Viewer) setSelected(n *scene.GeometryNode) {
	if v.selected == n {
		return
	}
	v.selected = n
	v.wireDirty = true
}

func (v *Viewer) viewProj(w, h int) math.Mat4 {
	aspect := float32(w) / float32(h)
	proj := math.Perspective(math32.Pi/4, aspect, 0.1, 1000.0)
	return proj.Mul(v.camera.ViewMatrix())
}

// render draws the current frame.
func (v *Viewer) render() {
	gl.ClearColor(0.08, 0.08, 0.1, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	w, h := v.window.Size()
	viewProj := v.viewProj(w, h)
	ctx := scene.NewRenderContext(viewProj)
	ctx.FrustumCulling = v.cfg.Picking.FrustumCulling

	gl.UseProgram(v.program)
	gl.UniformMatrix4fv(v.uViewProj, 1, false, viewProj.Ptr())

	for _, n := range v.nodes {
		if !n.ShouldRender(ctx) {
			continue
		}
		model := n.Transform()
		gl.UniformMatrix4fv(v.uModel, 1, false, model.Ptr())
		c := v.colors[n]
		if n == v.selected {
			c = nodeColor{1.0, 0.85, 0.2}
		}
		gl.Uniform3f(v.uColor, c.r, c.g, c.b)
		v.host.Draw(n)
	}

	v.drawGrid()

	if v.cfg.Scene.ShowSelection && v.selected != nil {
		v.drawSelection()
	}
}

// drawGrid draws the static reference grid.
func (v *Viewer) drawGrid() {
	model := math.Identity()
	gl.UniformMatrix4fv(v.uModel, 1, false, model.Ptr())
	gl.Uniform3f(v.uColor, 0.25, 0.25, 0.28)
	gl.BindVertexArray(v.gridVAO)
	gl.DrawArrays(gl.LINES, 0, v.gridCount)
	gl.BindVertexArray(0)
}

// captureScreenshot reads back the framebuffer and writes a PNG next to
// the executable.
func (v *Viewer) captureScreenshot() {
	w, h := v.window.Size()
	pixels := make([]byte, w*h*4)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))

	name, err := debug.SaveScreenshot("screenshots", pixels, w, h)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("file", name))
}

// drawSelection draws a padded wireframe box around the selected node's
// world bounds.
func (v *Viewer) drawSelection() {
	if v.wireDirty {
		verts := debug.SelectionWireframe(
			v.selected.BoundsWithTransform(),
			v.cfg.Scene.SelectionPadding,
		)
		gl.BindBuffer(gl.ARRAY_BUFFER, v.wireVBO)
		gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.DYNAMIC_DRAW)
		v.wireDirty = false
	}

	// The wireframe vertices are already in world space.
	model := math.Identity()
	gl.UniformMatrix4fv(v.uModel, 1, false, model.Ptr())
	gl.Uniform3f(v.uColor, 1.0, 0.85, 0.2)
	gl.BindVertexArray(v.wireVAO)
	gl.DrawArrays(gl.LINES, 0, debug.BoxWireframeVertexCount)
	gl.BindVertexArray(0)
}

// Close releases GL resources and the window.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	for _, n := range v.nodes {
		n.Detach()
	}
	if v.host != nil {
		v.host.Destroy()
	}
	if v.wireVBO != 0 {
		gl.DeleteBuffers(1, &v.wireVBO)
		gl.DeleteVertexArrays(1, &v.wireVAO)
	}
	if v.gridVBO != 0 {
		gl.DeleteBuffers(1, &v.gridVBO)
		gl.DeleteVertexArrays(1, &v.gridVAO)
	}
	if v.program != 0 {
		gl.DeleteProgram(v.program)
	}
	if v.window != nil {
		v.window.Close()
	}
}
