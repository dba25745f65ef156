// Command rhidemo draws the textured-triangle scenario on a chosen backend.
//
// Each frame is recorded by several workers into their own command buffers,
// which are then submitted in order on the main goroutine.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/rhi"
	_ "github.com/gogpu/rhi/backend/all"
	"github.com/gogpu/rhi/internal/scenario"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML scenario file")
		backend    = flag.String("backend", "", "backend name (default: best available)")
		frames     = flag.Int("frames", 0, "frames to submit (overrides the config)")
		workers    = flag.Int("workers", 0, "recording goroutines (overrides the config)")
		debug      = flag.Bool("debug", false, "log native calls")
		list       = flag.Bool("list", false, "list registered backends and exit")
	)
	flag.Parse()

	if *list {
		for _, name := range rhi.Backends() {
			fmt.Println(name)
		}
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *frames > 0 {
		cfg.Frames = *frames
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	cfg.Debug = cfg.Debug || *debug

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	rhi.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(context.Background(), cfg); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(path string) (scenario.Config, error) {
	if path == "" {
		return scenario.DefaultConfig(), nil
	}
	return scenario.LoadConfig(path)
}

func run(ctx context.Context, cfg scenario.Config) error {
	opts := []rhi.Option{
		rhi.WithLabel("rhidemo"),
		rhi.WithValidation(cfg.Validation),
		rhi.WithDebugMarkers(cfg.Debug),
	}
	var (
		dev rhi.Device
		err error
	)
	if cfg.Backend != "" {
		dev, err = rhi.OpenDevice(cfg.Backend, opts...)
	} else {
		dev, err = rhi.DefaultDevice(opts...)
	}
	if err != nil {
		return err
	}
	defer dev.Close()

	caps := dev.Capabilities()
	rhi.Logger().Info("rhidemo: device", "backend", dev.Name(), "adapter", caps.Adapter.Name,
		"binding", caps.BindingModel, "frames", cfg.Frames, "workers", cfg.Workers)

	s, err := scenario.Build(dev, cfg)
	if err != nil {
		return err
	}
	defer s.Release()

	buffers := make([]rhi.CommandBuffer, cfg.Workers)
	for frame := range cfg.Frames {
		if err := record(ctx, s, buffers); err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}
		packets := 0
		for i := range buffers {
			packets += buffers[i].Len()
			dev.Submit(&buffers[i])
			buffers[i].Clear()
		}
		rhi.Logger().Info("rhidemo: frame submitted", "frame", frame, "buffers", len(buffers), "packets", packets)
	}
	return nil
}

// record fills every buffer with one scenario frame, one worker per buffer.
func record(ctx context.Context, s *scenario.Scenario, buffers []rhi.CommandBuffer) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := range buffers {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s.RecordFrame(&buffers[i])
			return nil
		})
	}
	return g.Wait()
}
