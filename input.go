package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// stickDeadZone is the left stick travel ignored around center.
const stickDeadZone = 0.3

// Input holds the sandbox controls for one frame.
type Input struct {
	// MoveX is the walk force in [-1, 1].
	MoveX float64
	// JumpHeld is true while the jump key is held down.
	JumpHeld bool
	// JumpPressed is true on the frame the jump key is pressed.
	JumpPressed bool

	PausePressed bool
	ResetPressed bool
	DebugPressed bool
}

func NewInput() *Input {
	return &Input{}
}

// Update polls the keyboard and the first gamepad.
func (i *Input) Update() {
	var moveX float64
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		moveX -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		moveX += 1
	}

	var gpJumpJustPressed, gpJumpHeld, gpPause bool
	if ids := ebiten.GamepadIDs(); len(ids) > 0 {
		gid := ids[0]

		// Analog stick walks at partial speed.
		leftX := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if leftX < -stickDeadZone || leftX > stickDeadZone {
			moveX = leftX
		}

		gpJumpJustPressed = inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonRightBottom)
		gpJumpHeld = ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonRightBottom)
		gpPause = inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonCenterRight)
	}

	i.MoveX = moveX
	i.JumpPressed = inpututil.IsKeyJustPressed(ebiten.KeySpace) || gpJumpJustPressed
	i.JumpHeld = ebiten.IsKeyPressed(ebiten.KeySpace) || gpJumpHeld
	i.PausePressed = inpututil.IsKeyJustPressed(ebiten.KeyEscape) || gpPause
	i.ResetPressed = inpututil.IsKeyJustPressed(ebiten.KeyR)
	i.DebugPressed = inpututil.IsKeyJustPressed(ebiten.KeyF3)
}

// Forces converts the controls into controller input.
func (i *Input) Forces() (walk, jump float64) {
	walk = i.MoveX
	if i.JumpHeld {
		jump = 1
	}
	return walk, jump
}
