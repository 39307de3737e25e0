package main

import (
	"github.com/jakecoffman/cp"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	// cameraRetarget is how far the target may drift before the camera
	// starts a new ease toward it.
	cameraRetarget = 0.5
	cameraEaseTime = 0.35
)

// Camera eases toward a tracked point in world units.
type Camera struct {
	Position cp.Vector

	target cp.Vector
	tweenX *gween.Tween
	tweenY *gween.Tween
}

func NewCamera(at cp.Vector) *Camera {
	return &Camera{Position: at, target: at}
}

// Snap jumps straight to at and drops any running ease.
func (c *Camera) Snap(at cp.Vector) {
	c.Position = at
	c.target = at
	c.tweenX = nil
	c.tweenY = nil
}

func (c *Camera) Update(target cp.Vector, dt float64) {
	if target.Distance(c.target) > cameraRetarget {
		c.target = target
		c.tweenX = gween.New(float32(c.Position.X), float32(target.X), cameraEaseTime, ease.OutQuad)
		c.tweenY = gween.New(float32(c.Position.Y), float32(target.Y), cameraEaseTime, ease.OutQuad)
	}
	if c.tweenX == nil || c.tweenY == nil {
		return
	}

	x, doneX := c.tweenX.Update(float32(dt))
	y, doneY := c.tweenY.Update(float32(dt))
	c.Position = cp.Vector{X: float64(x), Y: float64(y)}
	if doneX && doneY {
		c.tweenX = nil
		c.tweenY = nil
	}
}

// WorldToScreen maps a world point to screen pixels. World y points up.
func (c *Camera) WorldToScreen(p cp.Vector) (float64, float64) {
	return (p.X-c.Position.X)*pixelsPerUnit + baseWidth/2,
		(c.Position.Y-p.Y)*pixelsPerUnit + baseHeight/2
}
