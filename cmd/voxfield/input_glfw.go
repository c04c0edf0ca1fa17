package main

import (
	"github.com/gekko3d/voxfield"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwInput polls a glfw window into voxfield.Input once per frame.
type glfwInput struct {
	window   *glfw.Window
	scrollY  float64
	captured bool
}

func newGlfwInput(w *glfw.Window) *glfwInput {
	in := &glfwInput{window: w}
	w.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		in.scrollY += yoff
	})
	return in
}

func (s *glfwInput) Poll(input *voxfield.Input) {
	glfw.PollEvents()

	for key, glfwKey := range keyToGlfw {
		action := s.window.GetKey(glfwKey)
		input.SetButton(key, action == glfw.Press || action == glfw.Repeat)
	}
	for btn, glfwBtn := range buttonToGlfw {
		input.SetButton(btn, s.window.GetMouseButton(glfwBtn) == glfw.Press)
	}

	input.SetCursor(s.window.GetCursorPos())
	input.ScrollY = s.scrollY
	s.scrollY = 0
	input.WindowWidth, input.WindowHeight = s.window.GetFramebufferSize()

	if input.MouseCaptured != s.captured {
		s.captured = input.MouseCaptured
		if s.captured {
			s.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		} else {
			s.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		}
	}
}

var buttonToGlfw = map[int]glfw.MouseButton{
	voxfield.MouseButtonLeft:   glfw.MouseButtonLeft,
	voxfield.MouseButtonRight:  glfw.MouseButtonRight,
	voxfield.MouseButtonMiddle: glfw.MouseButtonMiddle,
}

var keyToGlfw = map[int]glfw.Key{
	voxfield.KeyA:       glfw.KeyA,
	voxfield.KeyB:       glfw.KeyB,
	voxfield.KeyC:       glfw.KeyC,
	voxfield.KeyD:       glfw.KeyD,
	voxfield.KeyE:       glfw.KeyE,
	voxfield.KeyF:       glfw.KeyF,
	voxfield.KeyG:       glfw.KeyG,
	voxfield.KeyH:       glfw.KeyH,
	voxfield.KeyI:       glfw.KeyI,
	voxfield.KeyJ:       glfw.KeyJ,
	voxfield.KeyK:       glfw.KeyK,
	voxfield.KeyL:       glfw.KeyL,
	voxfield.KeyM:       glfw.KeyM,
	voxfield.KeyN:       glfw.KeyN,
	voxfield.KeyO:       glfw.KeyO,
	voxfield.KeyP:       glfw.KeyP,
	voxfield.KeyQ:       glfw.KeyQ,
	voxfield.KeyR:       glfw.KeyR,
	voxfield.KeyS:       glfw.KeyS,
	voxfield.KeyT:       glfw.KeyT,
	voxfield.KeyU:       glfw.KeyU,
	voxfield.KeyV:       glfw.KeyV,
	voxfield.KeyW:       glfw.KeyW,
	voxfield.KeyX:       glfw.KeyX,
	voxfield.KeyY:       glfw.KeyY,
	voxfield.KeyZ:       glfw.KeyZ,
	voxfield.KeySpace:   glfw.KeySpace,
	voxfield.KeyEnter:   glfw.KeyEnter,
	voxfield.KeyEscape:  glfw.KeyEscape,
	voxfield.KeyTab:     glfw.KeyTab,
	voxfield.KeyF1:      glfw.KeyF1,
	voxfield.KeyF2:      glfw.KeyF2,
	voxfield.KeyF3:      glfw.KeyF3,
	voxfield.KeyShift:   glfw.KeyLeftShift,
	voxfield.KeyControl: glfw.KeyLeftControl,
}
