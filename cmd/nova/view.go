package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/taigrr/nova/pkg/math3d"
	"github.com/taigrr/nova/pkg/models"
	"github.com/taigrr/nova/pkg/render"
	"golang.org/x/sync/errgroup"
)

const (
	torqueStrength = 3.0
	dragSpeed      = 0.03
	zoomStep       = 0.5
	minDistance    = 1.0
	maxDistance    = 8.0
)

var (
	errQuit = errors.New("quit")

	wireColor = models.PackRGBA(0, 255, 128, 0xff)
)

func newViewCmd(opts *options) *cobra.Command {
	var (
		flags sceneFlags
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "view <model>",
		Short: "View a model interactively in the terminal",
		Long: `View a model interactively in the terminal.

Controls:
  Mouse drag    rotate
  Scroll, +/-   zoom
  W/S A/D Q/E   pitch, yaw and roll
  Space         random spin
  R             reset
  T             toggle texture
  X             toggle wireframe
  ?             toggle HUD
  Esc           quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := flags.merge(cmd, opts.base)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runView(cmd.Context(), cfg, args[0], watch)
		},
	}

	def := DefaultConfig()
	cmd.Flags().IntVar(&flags.cfg.FPS, "fps", def.FPS, "target frames per second")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the model when the file changes")
	flags.register(cmd)

	return cmd
}

// viewer owns all interactive state. Everything except the current scene
// is touched only from the render loop.
type viewer struct {
	cfg   Config
	scene atomic.Pointer[scene]
	shown *scene

	rctx     *render.Context
	cam      *render.Camera
	spin     *Orientation
	hud      *HUD
	bg       uint32
	distance float64

	cols, rows int
	textured   bool
	wireframe  bool

	torque struct{ pitch, yaw, roll float64 }
	drag   struct {
		down bool
		x, y int
	}

	// present draws the finished frame.
	present func(rctx *render.Context) error
	// resized is called after the context follows a terminal resize.
	resized func(cols, rows int)
	hudOut  io.Writer
}

func newViewer(cfg Config, sc *scene, cols, rows int) (*viewer, error) {
	bg, err := parseColor(cfg.Background)
	if err != nil {
		return nil, err
	}
	rctx, err := newContext(cfg, cols, rows*2)
	if err != nil {
		return nil, err
	}

	v := &viewer{
		cfg:      cfg,
		rctx:     rctx,
		cam:      render.NewCamera(),
		spin:     NewOrientation(cfg.FPS),
		hud:      NewHUD(filepath.Base(sc.path), sc.mesh.TriangleCount()),
		bg:       bg,
		distance: cfg.Camera.Distance,
		cols:     cols,
		rows:     rows,
		textured: true,
		present:  func(*render.Context) error { return nil },
		resized:  func(int, int) {},
		hudOut:   io.Discard,
	}
	v.scene.Store(sc)
	v.resetOrientation()
	return v, nil
}

func (v *viewer) resetOrientation() {
	v.spin.Reset()
	v.spin.Pitch.Angle = -deg2rad(v.cfg.Camera.Pitch)
	v.spin.Yaw.Angle = -deg2rad(v.cfg.Camera.Yaw)
	v.distance = v.cfg.Camera.Distance
}

func (v *viewer) zoom(delta float64) {
	v.distance = math.Min(maxDistance, math.Max(minDistance, v.distance+delta))
}

func (v *viewer) resize(cols, rows int) {
	if err := v.rctx.Resize(cols, rows*2); err != nil {
		log.Warn("resize ignored", "cols", cols, "rows", rows, "err", err)
		return
	}
	v.cols, v.rows = cols, rows
	v.resized(cols, rows)
}

// handle applies one terminal event. It returns errQuit when the user asks
// to leave.
func (v *viewer) handle(ev uv.Event) error {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		v.resize(ev.Width, ev.Height)

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("esc", "escape", "ctrl+c"):
			return errQuit
		case ev.MatchString("w", "up"):
			v.torque.pitch = -torqueStrength
		case ev.MatchString("s", "down"):
			v.torque.pitch = torqueStrength
		case ev.MatchString("a", "left"):
			v.torque.yaw = -torqueStrength
		case ev.MatchString("d", "right"):
			v.torque.yaw = torqueStrength
		case ev.MatchString("q"):
			v.torque.roll = -torqueStrength
		case ev.MatchString("e"):
			v.torque.roll = torqueStrength
		case ev.MatchString("space"):
			v.spin.Push((rand.Float64()-0.5)*1.5, (rand.Float64()-0.5)*1.5, (rand.Float64()-0.5)*1.5)
		case ev.MatchString("r"):
			v.resetOrientation()
		case ev.MatchString("+", "="):
			v.zoom(-zoomStep)
		case ev.MatchString("-", "_"):
			v.zoom(zoomStep)
		case ev.MatchString("t"):
			v.textured = !v.textured
		case ev.MatchString("x"):
			v.wireframe = !v.wireframe
		case ev.MatchString("?", "shift+/"):
			v.hud.visible = !v.hud.visible
		}

	case uv.KeyReleaseEvent:
		switch {
		case ev.MatchString("w", "up", "s", "down"):
			v.torque.pitch = 0
		case ev.MatchString("a", "left", "d", "right"):
			v.torque.yaw = 0
		case ev.MatchString("q", "e"):
			v.torque.roll = 0
		}

	case uv.MouseClickEvent:
		v.drag.down = true
		v.drag.x, v.drag.y = ev.X, ev.Y

	case uv.MouseReleaseEvent:
		v.drag.down = false

	case uv.MouseMotionEvent:
		if v.drag.down {
			v.spin.Push(float64(ev.Y-v.drag.y)*dragSpeed, float64(ev.X-v.drag.x)*dragSpeed, 0)
			v.drag.x, v.drag.y = ev.X, ev.Y
		}

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			v.zoom(-zoomStep)
		case uv.MouseWheelDown:
			v.zoom(zoomStep)
		}
	}
	return nil
}

// modelView places the spun model in front of the camera.
func (v *viewer) modelView() math3d.Mat4 {
	model := math3d.RotateX(v.spin.Pitch.Angle).
		Mul(math3d.RotateY(v.spin.Yaw.Angle)).
		Mul(math3d.RotateZ(v.spin.Roll.Angle))
	v.cam.Orbit(math3d.Point(0, 0, 0), 0, 0, v.distance)
	return v.cam.ModelView(model)
}

// frame advances the animation by dt seconds and draws one frame.
func (v *viewer) frame(dt float64) error {
	// Key release events are unreliable on many terminals, so held torque
	// also fades on its own.
	v.spin.Push(v.torque.pitch*dt, v.torque.yaw*dt, v.torque.roll*dt)
	v.torque.pitch *= 0.9
	v.torque.yaw *= 0.9
	v.torque.roll *= 0.9
	v.spin.Update()

	sc := v.scene.Load()
	if sc != v.shown {
		v.hud.SetModel(filepath.Base(sc.path), sc.mesh.TriangleCount())
		v.shown = sc
	}
	mv := v.modelView()

	v.rctx.ClearColor(v.bg)
	v.rctx.ClearDepth()

	var err error
	switch {
	case v.wireframe:
		err = v.rctx.RenderWireframe(sc.mesh, mv, wireColor)
		v.rctx.DrawAxes(mv, 1.25)
	case v.textured:
		err = v.rctx.Render(sc.mesh, mv)
	default:
		err = v.rctx.Render(sc.flat, mv)
	}
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if err := v.present(v.rctx); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	v.hud.Tick(time.Now())
	v.hud.Render(v.hudOut, v.cols, v.rows, v.textured, v.wireframe)
	return nil
}

// loop serializes events and frames on one goroutine.
func (v *viewer) loop(ctx context.Context, events <-chan uv.Event) error {
	ticker := time.NewTicker(time.Second / time.Duration(v.cfg.FPS))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if err := v.handle(ev); err != nil {
				return err
			}
		case now := <-ticker.C:
			dt := math.Min(now.Sub(last).Seconds(), 0.1)
			last = now
			if err := v.frame(dt); err != nil {
				return err
			}
		}
	}
}

// reload swaps in a freshly loaded scene. On failure the current scene
// stays on screen.
func (v *viewer) reload(modelPath string) {
	sc, err := loadScene(modelPath, v.cfg.Texture)
	if err != nil {
		log.Warn("reload failed", "model", modelPath, "err", err)
		return
	}
	v.scene.Store(sc)
	log.Info("reloaded", "model", modelPath, "triangles", sc.mesh.TriangleCount())
}

// watch reloads the model whenever its file is written or recreated. The
// parent directory is watched since editors often replace files.
func (v *viewer) watch(ctx context.Context, modelPath string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	target, err := filepath.Abs(modelPath)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	log.Debug("watching", "model", target)

	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(e.Name) != target || e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			v.reload(target)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "err", err)
		}
	}
}

// forward copies terminal events into the render loop until ctx ends.
func forward(ctx context.Context, src <-chan uv.Event, dst chan<- uv.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-src:
			if !ok {
				return nil
			}
			select {
			case dst <- ev:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

func runView(ctx context.Context, cfg Config, modelPath string, watch bool) error {
	sc, err := loadScene(modelPath, cfg.Texture)
	if err != nil {
		return fmt.Errorf("load %s: %w", modelPath, err)
	}
	log.Info("loaded", "model", filepath.Base(modelPath),
		"vertices", sc.mesh.VertexCount(), "triangles", sc.mesh.TriangleCount())

	term := uv.DefaultTerminal()
	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	v, err := newViewer(cfg, sc, cols, rows)
	if err != nil {
		return err
	}
	v.present = func(rctx *render.Context) error {
		rctx.Draw(term, uv.Rect(0, 0, v.cols, v.rows))
		return term.Display()
	}
	v.resized = func(cols, rows int) {
		term.Erase()
		term.Resize(cols, rows)
	}
	v.hudOut = os.Stdout

	// Logging to stderr would scribble over the alternate screen.
	if cfg.LogFile == "" {
		log.SetOutput(io.Discard)
		defer log.SetOutput(os.Stderr)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode

	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	g, gctx := errgroup.WithContext(ctx)
	events := make(chan uv.Event, 64)
	g.Go(func() error { return forward(gctx, term.Events(), events) })
	if watch {
		g.Go(func() error { return v.watch(gctx, modelPath) })
	}
	g.Go(func() error { return v.loop(gctx, events) })

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return nil
}
