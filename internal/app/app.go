package app

import (
	"log"
	"time"

	"csm/internal/config"
	"csm/internal/graphics/renderer"
	"csm/internal/input"
	"csm/internal/profiling"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl64"
)

// lambdaStep is the split blend change per [ or ] press
const lambdaStep = 0.05

// App drives the frame loop: input, camera orbit, rendering and pacing
type App struct {
	window       *glfw.Window
	inputManager *input.InputManager
	renderer     *renderer.Renderer
	orbit        *Orbit
	fpsLimiter   *FPSLimiter

	lastTime       time.Time
	lastX, lastY   float64
	dragging       bool
	showProfiling  bool
	lastFPSCheck   time.Time
	framesSinceFPS int
}

// NewApp wires input callbacks into the window. The renderer must have been
// created on the window's context.
func NewApp(window *glfw.Window, r *renderer.Renderer) *App {
	fps := config.GetFPSLimit()
	if fps <= 0 {
		fps = 60
	}
	a := &App{
		window:       window,
		inputManager: input.NewInputManager(),
		renderer:     r,
		orbit:        NewOrbit(fps, mgl64.Vec3{0, 1, 0}, 35, 25, 40),
		fpsLimiter:   NewFPSLimiter(),
		lastTime:     time.Now(),
		lastFPSCheck: time.Now(),
	}
	a.setupCallbacks()

	width, height := window.GetFramebufferSize()
	r.UpdateViewport(width, height)
	a.orbit.Apply(r.GetCamera())
	return a
}

func (a *App) setupCallbacks() {
	a.inputManager.SetCallbacks(a.window)

	a.window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		if a.dragging {
			a.orbit.Drag(xpos-a.lastX, ypos-a.lastY)
		}
		a.lastX, a.lastY = xpos, ypos
	})

	a.window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		a.orbit.Zoom(yoff)
	})

	a.window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		a.renderer.UpdateViewport(width, height)
	})

	// Repaint while the user drags the window edge (macOS blocks PollEvents)
	a.window.SetRefreshCallback(func(w *glfw.Window) {
		a.renderer.Render(0)
		w.SwapBuffers()
	})
}

// Run loops until the window closes or stop reports true
func (a *App) Run(stop func() bool) {
	for !a.window.ShouldClose() {
		if stop != nil && stop() {
			return
		}
		a.tick()
	}
}

func (a *App) tick() {
	profiling.ResetFrame()
	startTick := time.Now()
	dt := startTick.Sub(a.lastTime).Seconds()
	a.lastTime = startTick

	glfw.PollEvents()
	a.handleActions()

	a.orbit.Update()
	a.orbit.Apply(a.renderer.GetCamera())

	a.renderer.Render(dt)
	a.window.SwapBuffers()

	// Check if frame took too long (> 16ms)
	if d := time.Since(startTick); d > 16*time.Millisecond {
		log.Printf("Slow frame: %v. Top tasks: %s", d, profiling.TopNCurrentFrame(5))
	}
	a.reportFPS()

	a.inputManager.PostUpdate()
	a.fpsLimiter.Wait()
}

func (a *App) handleActions() {
	im := a.inputManager

	if im.JustPressed(input.ActionQuit) {
		a.window.SetShouldClose(true)
	}
	if im.JustPressed(input.ActionToggleCascades) {
		config.SetShowCascades(!config.GetShowCascades())
	}
	if im.JustPressed(input.ActionLambdaDown) {
		adjustLambda(-lambdaStep)
	}
	if im.JustPressed(input.ActionLambdaUp) {
		adjustLambda(lambdaStep)
	}
	if im.JustPressed(input.ActionResetCamera) {
		a.orbit.Reset()
	}
	if im.JustPressed(input.ActionToggleProfiling) {
		a.showProfiling = !a.showProfiling
	}

	if im.JustPressed(input.ActionOrbit) {
		a.lastX, a.lastY = a.window.GetCursorPos()
	}
	a.dragging = im.IsActive(input.ActionOrbit)
}

func adjustLambda(delta float32) {
	config.SetSplitLambda(config.GetSplitLambda() + delta)
	log.Printf("split lambda: %.2f", config.GetSplitLambda())
}

func (a *App) reportFPS() {
	a.framesSinceFPS++
	if since := time.Since(a.lastFPSCheck); since >= time.Second {
		if a.showProfiling {
			log.Printf("FPS: %.0f | %s", float64(a.framesSinceFPS)/since.Seconds(), profiling.TopNCurrentFrame(6))
		}
		a.framesSinceFPS = 0
		a.lastFPSCheck = time.Now()
	}
}
