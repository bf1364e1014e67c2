package scene

import "github.com/Faultbox/geoscene/pkg/math"

// RenderContext carries per-pass state consulted during render
// eligibility checks and picking.
type RenderContext struct {
	// ViewProj is the combined view-projection matrix of the pass.
	ViewProj math.Mat4
	// Frustum is extracted from ViewProj; nil disables frustum tests.
	Frustum *Frustum
	// FrustumCulling enables broad-phase frustum rejection.
	FrustumCulling bool
	// ShadowPass marks the shadow-map pass; nodes that do not cast
	// shadows are skipped by ShouldRender during this pass.
	ShadowPass bool
}

// NewRenderContext builds a context with the frustum extracted from the
// view-projection matrix and frustum culling enabled.
func NewRenderContext(viewProj math.Mat4) *RenderContext {
	f := FrustumFromViewProj(viewProj)
	return &RenderContext{
		ViewProj:       viewProj,
		Frustum:        &f,
		FrustumCulling: true,
	}
}
