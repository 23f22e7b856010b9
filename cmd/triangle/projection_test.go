package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	lin "github.com/xlab/linmath"
)

func transform(m *lin.Mat4x4, v lin.Vec4) lin.Vec4 {
	var out lin.Vec4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out[row] += m[col][row] * v[col]
		}
	}
	return out
}

func TestVulkanProjectionDepthRange(t *testing.T) {
	var glProj, proj lin.Mat4x4
	glProj.Perspective(lin.DegreesToRadians(45), 1, 0.1, 10)
	vulkanProjection(&proj, &glProj)

	near := transform(&proj, lin.Vec4{0, 0, -0.1, 1})
	far := transform(&proj, lin.Vec4{0, 0, -10, 1})
	assert.InDelta(t, 0, near[2]/near[3], 1e-5)
	assert.InDelta(t, 1, far[2]/far[3], 1e-5)
}

func TestVulkanProjectionFlipsY(t *testing.T) {
	var glProj, proj lin.Mat4x4
	glProj.Perspective(lin.DegreesToRadians(45), 1, 0.1, 10)
	vulkanProjection(&proj, &glProj)

	up := lin.Vec4{0, 1, -1, 1}
	gl := transform(&glProj, up)
	vk := transform(&proj, up)
	assert.Greater(t, gl[1], float32(0))
	assert.InDelta(t, -gl[1], vk[1], 1e-6)
	assert.InDelta(t, gl[0], vk[0], 1e-6)
}

func TestModelViewProjectionPeriod(t *testing.T) {
	a := modelViewProjection(0.5, 4.0/3.0)
	b := modelViewProjection(4.5, 4.0/3.0)
	for col := range a {
		for row := range a[col] {
			assert.InDelta(t, a[col][row], b[col][row], 1e-5)
		}
	}

	c := modelViewProjection(1.5, 4.0/3.0)
	assert.NotEqual(t, a, c)
}

func TestModelViewProjectionOrigin(t *testing.T) {
	mvp := modelViewProjection(1, 1)
	origin := transform(&mvp, lin.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 0, origin[0], 1e-5)
	assert.InDelta(t, 0, origin[1], 1e-5)
	depth := origin[2] / origin[3]
	assert.True(t, depth > 0 && depth < 1, "depth %v", depth)
}
