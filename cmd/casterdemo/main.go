// Command casterdemo renders a field of spinning sprites, headlessly or
// into a window owned by another process.
//
// Usage:
//
//	casterdemo -entities 500 -frames 120
//	casterdemo -backend vulkan -texture sprite.png -profile .
//	casterdemo -backend vulkan -display 0x5581c0 -window 0x3a00007
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/pkg/profile"

	"github.com/strfive/caster"
	"github.com/strfive/caster/loop"
	"github.com/strfive/caster/render"
)

func main() {
	var (
		backend  = flag.String("backend", "noop", "GPU backend: noop or vulkan")
		width    = flag.Uint("width", render.DefaultWidth, "surface width")
		height   = flag.Uint("height", render.DefaultHeight, "surface height")
		entities = flag.Int("entities", 256, "number of sprites")
		frames   = flag.Int("frames", 120, "frames to render before exiting")
		fps      = flag.Int("fps", 60, "redraw rate")
		texPath  = flag.String("texture", "", "sprite image (default: generated checkerboard)")
		profDir  = flag.String("profile", "", "write a CPU profile to this directory")
		spirv    = flag.Bool("spirv", false, "hand the backend precompiled SPIR-V")
		display  = flag.Uint64("display", 0, "native display handle of -window")
		window   = flag.Uint64("window", 0, "native window handle to present to (default: offscreen)")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	caster.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *profDir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*profDir), profile.NoShutdownHook).Stop()
	}

	cfg := config{
		backend:  *backend,
		width:    uint32(*width),  //nolint:gosec // flag value
		height:   uint32(*height), //nolint:gosec // flag value
		entities: *entities,
		frames:   *frames,
		interval: time.Second / time.Duration(max(*fps, 1)),
		texture:  *texPath,
		spirv:    *spirv,
		display:  uintptr(*display),
		window:   uintptr(*window),
	}
	if err := run(cfg); err != nil {
		slog.Error("casterdemo failed", "error", err)
		os.Exit(1)
	}
}

type config struct {
	backend       string
	width, height uint32
	entities      int
	frames        int
	interval      time.Duration
	texture       string
	spirv         bool
	display       uintptr
	window        uintptr
}

const spriteMaterial caster.MaterialRef = 1

func run(cfg config) error {
	dev, err := openDevice(cfg.backend)
	if err != nil {
		return err
	}
	defer dev.Close()

	opts := []render.Option{
		render.WithSize(cfg.width, cfg.height),
		render.WithClearColor(gputypes.Color{R: 0.05, G: 0.05, B: 0.1, A: 1}),
		render.WithInstanceCapacity(cfg.entities),
	}
	if cfg.spirv {
		opts = append(opts, render.WithSPIRVShaders())
	}
	if cfg.texture != "" {
		opts = append(opts, render.WithTexture(spriteMaterial, cfg.texture))
	} else {
		opts = append(opts, render.WithImage(spriteMaterial, checkerboard(32, 8)))
	}

	var surface render.Surface = render.NewOffscreenSurface()
	if cfg.window != 0 {
		ws, err := dev.CreateSurface(cfg.display, cfg.window)
		if err != nil {
			return err
		}
		defer ws.Destroy()
		surface = ws
	}

	pool := caster.NewPool()
	r, err := render.New(dev, surface, pool, opts...)
	if err != nil {
		return err
	}
	defer r.Dispose()

	scene, err := newSpinner(pool, cfg)
	if err != nil {
		return err
	}
	l := loop.New(&spinningTarget{Renderer: r, scene: scene})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	start := time.Now()
	err = l.Run(ctx, limit(ctx, loop.Ticker(ctx, cfg.interval), cfg.frames))
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	elapsed := time.Since(start)

	slog.Info("casterdemo done",
		"adapter", dev.AdapterName(),
		"frames", l.Frames(),
		"skipped", l.Skipped(),
		"entities", pool.Len(),
		"elapsed", elapsed.Round(time.Millisecond))
	return nil
}

func openDevice(backend string) (*render.Device, error) {
	switch backend {
	case "noop":
		return render.OpenNoopDevice()
	case "vulkan":
		return render.OpenDevice(gputypes.BackendVulkan)
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}

// limit forwards n redraws from ticks, then a CloseEvent.
func limit(ctx context.Context, ticks <-chan loop.Event, n int) <-chan loop.Event {
	out := make(chan loop.Event)
	go func() {
		defer close(out)
		for i := 0; i < n; i++ {
			select {
			case ev, ok := <-ticks:
				if !ok {
					return
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
		select {
		case out <- loop.CloseEvent{}:
		case <-ctx.Done():
		}
	}()
	return out
}

// spinner lays sprites out on a grid and turns each at its own speed.
type spinner struct {
	sprites []*caster.Entity
	speeds  []float32
	angle   []float32
}

func newSpinner(pool *caster.Pool, cfg config) (*spinner, error) {
	rng := rand.New(rand.NewPCG(1, 2))
	cols := max(int(math.Sqrt(float64(cfg.entities))), 1)
	rows := (cfg.entities + cols - 1) / cols
	cellW := cfg.width / uint32(cols)          //nolint:gosec // cols > 0
	cellH := cfg.height / uint32(max(rows, 1)) //nolint:gosec // rows > 0

	s := &spinner{}
	for i := range cfg.entities {
		x := uint32(i%cols)*cellW + cellW/2 //nolint:gosec // grid index
		y := uint32(i/cols)*cellH + cellH/2 //nolint:gosec // grid index
		e, err := pool.Spawn(spriteMaterial, caster.Vec2(x, y), 0, 1, caster.Vec2[uint32](16, 16))
		if err != nil {
			return nil, err
		}
		s.sprites = append(s.sprites, e)
		s.speeds = append(s.speeds, (rng.Float32()-0.5)*0.2)
		s.angle = append(s.angle, 0)
	}
	return s, nil
}

func (s *spinner) step() {
	for i, e := range s.sprites {
		s.angle[i] = float32(math.Mod(float64(s.angle[i]+s.speeds[i]), 2*math.Pi))
		e.SetRotation(s.angle[i])
	}
}

// spinningTarget advances the scene before the renderer's own update.
type spinningTarget struct {
	*render.Renderer
	scene *spinner
}

func (t *spinningTarget) Update() {
	t.scene.step()
	t.Renderer.Update()
}

func checkerboard(size, cells int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cell := max(size/cells, 1)
	for y := range size {
		for x := range size {
			c := color.RGBA{R: 230, G: 120, B: 40, A: 255}
			if (x/cell+y/cell)%2 == 1 {
				c = color.RGBA{R: 40, G: 40, B: 40, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
