package voxfield

const (
	KeyA int = iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	KeySpace
	KeyEnter
	KeyEscape
	KeyTab
	KeyF1
	KeyF2
	KeyF3
	KeyShift
	KeyControl
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle

	inputCount
)

// Input is the per-frame view of keyboard and mouse state. It carries no
// platform types; an InputSource fills it each frame.
type Input struct {
	Pressed [inputCount]bool

	JustPressed  [inputCount]bool
	JustReleased [inputCount]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	ScrollY                  float64
	MouseCaptured            bool

	WindowWidth, WindowHeight int

	cursorSeen bool
}

// InputSource polls a platform (window, test script) into Input.
type InputSource interface {
	Poll(input *Input)
}

type inputDriver struct {
	source InputSource
}

type InputModule struct {
	Source InputSource
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{}, &inputDriver{source: mod.Source})
	app.UseSystem(
		System(inputSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
}

func inputSystem(d *inputDriver, input *Input) {
	input.BeginFrame()
	if d.source != nil {
		d.source.Poll(input)
	}
}

// BeginFrame clears edge-triggered state.
func (input *Input) BeginFrame() {
	input.JustPressed = [inputCount]bool{}
	input.JustReleased = [inputCount]bool{}
	input.MouseDeltaX = 0
	input.MouseDeltaY = 0
	input.ScrollY = 0
}

// SetButton records the current level of a key or mouse button.
func (input *Input) SetButton(button int, down bool) {
	if button < 0 || button >= int(inputCount) {
		return
	}
	if down && !input.Pressed[button] {
		input.JustPressed[button] = true
	}
	if !down && input.Pressed[button] {
		input.JustReleased[button] = true
	}
	input.Pressed[button] = down
}

// SetCursor records the cursor position. Deltas accumulate only while the
// mouse is captured.
func (input *Input) SetCursor(x, y float64) {
	if input.MouseCaptured && input.cursorSeen {
		input.MouseDeltaX += x - input.MouseX
		input.MouseDeltaY += y - input.MouseY
	}
	input.MouseX = x
	input.MouseY = y
	input.cursorSeen = true
}
