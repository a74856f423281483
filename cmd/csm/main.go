package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"

	"csm/internal/app"
	"csm/internal/config"
	"csm/internal/graphics/renderables/cascadeview"
	"csm/internal/graphics/renderables/scene"
	renderer "csm/internal/graphics/renderer"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/closer"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	defaults := config.DefaultShadow()
	var (
		width      = flag.Int("width", 1280, "window width")
		height     = flag.Int("height", 720, "window height")
		resolution = flag.Int("resolution", defaults.Resolution, "shadow map resolution per cascade")
		lambda     = flag.Float64("lambda", float64(defaults.SplitLambda), "split blend: 0 uniform, 1 logarithmic")
		light      = flag.String("light", formatVec3(defaults.LightDir), "direction the light travels, as x,y,z")
		fps        = flag.Int("fps", config.GetFPSLimit(), "frame cap, 0 for uncapped")
		model      = flag.String("model", "", "optional .gltf/.glb shadow caster")
		overlay    = flag.Bool("cascades", false, "start with the cascade overlay on")
	)
	flag.Parse()

	cfg := defaults
	cfg.Resolution = *resolution
	cfg.SplitLambda = float32(*lambda)
	dir, err := parseVec3(*light)
	if err != nil {
		closer.Fatalln("-light:", err)
	}
	cfg.LightDir = dir
	if err := config.SetShadow(cfg); err != nil {
		closer.Fatalln(err)
	}
	config.SetFPSLimit(*fps)
	config.SetShowCascades(*overlay)

	objects, err := app.DefaultScene(*model)
	if err != nil {
		closer.Fatalln(err)
	}

	if err := glfw.Init(); err != nil {
		closer.Fatalln(err)
	}

	window, err := app.SetupWindow(*width, *height, "csm")
	if err != nil {
		glfw.Terminate()
		closer.Fatalln(err)
	}

	fbW, fbH := window.GetFramebufferSize()
	r, err := renderer.NewRenderer(fbW, fbH, config.CurrentShadow(),
		scene.NewScene(objects...),
		cascadeview.NewCascadeView(),
	)
	if err != nil {
		window.Destroy()
		glfw.Terminate()
		closer.Fatalln(err)
	}

	// GL objects belong to this thread; a signal only asks the loop to stop
	// and waits until they are released. closer exits the process, so
	// deferred calls would never run.
	var stop atomic.Bool
	done := make(chan struct{})
	closer.Bind(func() {
		stop.Store(true)
		<-done
	})

	a := app.NewApp(window, r)
	a.Run(stop.Load)

	r.Dispose()
	window.Destroy()
	glfw.Terminate()
	log.Println("shutdown complete")
	close(done)
	closer.Close()
}

func parseVec3(s string) (mgl32.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return mgl32.Vec3{}, fmt.Errorf("want x,y,z, got %q", s)
	}
	var v mgl32.Vec3
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return mgl32.Vec3{}, fmt.Errorf("component %d: %w", i, err)
		}
		v[i] = float32(f)
	}
	return v, nil
}

func formatVec3(v mgl32.Vec3) string {
	return fmt.Sprintf("%.3f,%.3f,%.3f", v[0], v[1], v[2])
}
