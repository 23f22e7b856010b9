package main

import (
	"math"

	lin "github.com/xlab/linmath"
)

// vulkanProjection converts a GL style projection into Vulkan clip space.
// Vulkan clip space has Y pointing down and a [0, 1] depth range.
func vulkanProjection(m *lin.Mat4x4, proj *lin.Mat4x4) {
	var clip lin.Mat4x4
	clip.Identity()
	clip[1][1] = -1
	clip[2][2] = 0.5
	clip[3][2] = 0.5
	m.Mult(&clip, proj)
}

// modelViewProjection spins the model around Z, one turn every four
// seconds, seen from a fixed camera.
func modelViewProjection(seconds float64, aspect float32) lin.Mat4x4 {
	var model, view, glProj, proj, mvp lin.Mat4x4

	angle := float32(math.Mod(seconds, 4.0) * math.Pi / 2.0)
	model.Identity()
	model.RotateZ(&model, angle)
	view.LookAt(
		&lin.Vec3{0, 0, 3},
		&lin.Vec3{0, 0, 0},
		&lin.Vec3{0, 1, 0},
	)
	glProj.Perspective(lin.DegreesToRadians(45), aspect, 0.1, 10)
	vulkanProjection(&proj, &glProj)

	mvp.Mult(&proj, &view)
	mvp.Mult(&mvp, &model)
	return mvp
}
