package main

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/taigrr/nova/pkg/math3d"
	"github.com/taigrr/nova/pkg/render"
)

// sceneFlags registers the scene flags shared by render and view. Values
// only replace the config when the flag was set explicitly.
type sceneFlags struct {
	cfg Config
}

func (f *sceneFlags) register(cmd *cobra.Command) {
	def := DefaultConfig()
	fl := cmd.Flags()
	fl.Float64Var(&f.cfg.FOV, "fov", def.FOV, "horizontal field of view in degrees")
	fl.StringVar(&f.cfg.Background, "bg", def.Background, "background color as R,G,B")
	fl.StringVarP(&f.cfg.Texture, "texture", "t", "", "texture applied to the whole model")
	fl.Float64Var(&f.cfg.Camera.Yaw, "yaw", def.Camera.Yaw, "camera yaw in degrees")
	fl.Float64Var(&f.cfg.Camera.Pitch, "pitch", def.Camera.Pitch, "camera pitch in degrees")
	fl.Float64VarP(&f.cfg.Camera.Distance, "distance", "d", def.Camera.Distance, "camera distance from the model")
}

// merge applies explicitly set flags on top of base.
func (f *sceneFlags) merge(cmd *cobra.Command, base Config) Config {
	cfg := base
	set := cmd.Flags().Changed
	if set("width") {
		cfg.Width = f.cfg.Width
	}
	if set("height") {
		cfg.Height = f.cfg.Height
	}
	if set("fov") {
		cfg.FOV = f.cfg.FOV
	}
	if set("bg") {
		cfg.Background = f.cfg.Background
	}
	if set("texture") {
		cfg.Texture = f.cfg.Texture
	}
	if set("yaw") {
		cfg.Camera.Yaw = f.cfg.Camera.Yaw
	}
	if set("pitch") {
		cfg.Camera.Pitch = f.cfg.Camera.Pitch
	}
	if set("distance") {
		cfg.Camera.Distance = f.cfg.Camera.Distance
	}
	if set("fps") {
		cfg.FPS = f.cfg.FPS
	}
	return cfg
}

func newRenderCmd(opts *options) *cobra.Command {
	var (
		flags  sceneFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "render <model>",
		Short: "Render a model to a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := flags.merge(cmd, opts.base)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return renderToFile(cfg, args[0], output)
		},
	}

	def := DefaultConfig()
	cmd.Flags().IntVarP(&flags.cfg.Width, "width", "W", def.Width, "image width in pixels")
	cmd.Flags().IntVarP(&flags.cfg.Height, "height", "H", def.Height, "image height in pixels")
	cmd.Flags().StringVarP(&output, "output", "o", "out.png", "output PNG path")
	flags.register(cmd)

	return cmd
}

// newContext builds a render context sized and lit per cfg.
func newContext(cfg Config, width, height int) (*render.Context, error) {
	ctx := render.NewContext()
	if err := ctx.Resize(width, height); err != nil {
		return nil, err
	}
	ctx.SetFieldOfView(cfg.FOV)
	ctx.SetLightDirection(math3d.Dir(cfg.Light[0], cfg.Light[1], cfg.Light[2]))
	return ctx, nil
}

func deg2rad(d float64) float64 {
	return d * math.Pi / 180
}

func renderToFile(cfg Config, modelPath, output string) error {
	sc, err := loadScene(modelPath, cfg.Texture)
	if err != nil {
		return fmt.Errorf("load %s: %w", modelPath, err)
	}

	ctx, err := newContext(cfg, cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	bg, err := parseColor(cfg.Background)
	if err != nil {
		return err
	}

	cam := render.NewCamera()
	cam.Orbit(math3d.Point(0, 0, 0), deg2rad(cfg.Camera.Yaw), deg2rad(cfg.Camera.Pitch), cfg.Camera.Distance)

	start := time.Now()
	ctx.ClearColor(bg)
	ctx.ClearDepth()
	if err := ctx.Render(sc.mesh, cam.ViewMatrix()); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	elapsed := time.Since(start)

	if err := ctx.SavePNG(output); err != nil {
		return err
	}

	stats := ctx.Stats()
	log.Info("rendered", "output", output,
		"size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"triangles", stats.Triangles,
		"culled", stats.Culled,
		"pixels", stats.PixelsWritten,
		"elapsed", elapsed)
	return nil
}
