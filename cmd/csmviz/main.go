package main

import (
	"flag"
	"image/png"
	"log"
	"math"
	"os"

	"csm/internal/config"
	"csm/internal/debugviz"
	"csm/internal/graphics"
	"csm/internal/shadow"

	"github.com/go-gl/mathgl/mgl64"
)

func main() {
	defaults := config.DefaultShadow()
	var (
		out    = flag.String("out", "cascades.png", "output PNG path")
		size   = flag.Int("size", 1024, "image edge length in pixels")
		near   = flag.Float64("near", 0.1, "camera near plane")
		far    = flag.Float64("far", 200, "camera far plane")
		fov    = flag.Float64("fov", 60, "vertical field of view in degrees")
		aspect = flag.Float64("aspect", 16.0/9.0, "viewport aspect ratio")
		lambda = flag.Float64("lambda", float64(defaults.SplitLambda), "split blend: 0 uniform, 1 logarithmic")
		eyeX   = flag.Float64("x", 0, "camera x")
		eyeY   = flag.Float64("y", 10, "camera y")
		eyeZ   = flag.Float64("z", 0, "camera z")
		yaw    = flag.Float64("yaw", 0, "camera heading in degrees, 0 looks down -Z")
		labels = flag.Bool("labels", true, "draw cascade labels")
	)
	flag.Parse()

	cam := graphics.NewCamera(1, 1)
	cam.AspectRatio = float32(*aspect)
	cam.FOV = float32(*fov)
	cam.NearPlane = float32(*near)
	cam.FarPlane = float32(*far)

	eye := mgl64.Vec3{*eyeX, *eyeY, *eyeZ}
	h := mgl64.DegToRad(*yaw)
	forward := mgl64.Vec3{-math.Sin(h), 0, -math.Cos(h)}
	cam.LookAt(eye, eye.Add(forward))

	settings := defaults.Cascade()
	settings.Lambda = float32(*lambda)
	cascades, err := shadow.NewCascades(settings)
	if err != nil {
		log.Fatalf("settings: %v", err)
	}
	snap := cam.Snapshot()
	if err := cascades.Update(snap); err != nil {
		log.Fatalf("update: %v", err)
	}

	opts := debugviz.DefaultOptions()
	opts.Width, opts.Height = *size, *size
	opts.Labels = *labels
	img, err := debugviz.Render(cascades.Records(), snap, opts)
	if err != nil {
		log.Fatalf("render: %v", err)
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("create %s: %v", *out, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		log.Fatalf("encode: %v", err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("close %s: %v", *out, err)
	}

	for _, c := range cascades.Records() {
		log.Printf("cascade %d: far %.2f radius %.3f valid %v", c.Index, -c.SplitDepth, c.Sphere.Radius, c.Valid)
	}
	log.Printf("wrote %s", *out)
}
