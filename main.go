package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aura/config"
	"github.com/pthm-cable/aura/emotion"
	"github.com/pthm-cable/aura/engine"
	"github.com/pthm-cable/aura/renderer"
	"github.com/pthm-cable/aura/renderer/rlcanvas"
	"github.com/pthm-cable/aura/telemetry"
	"github.com/pthm-cable/aura/ui"
)

// runOptions collects the parsed command line.
type runOptions struct {
	seed        int64
	maxTicks    int64
	scriptPath  string
	snapshot    string
	outputDir   string
	metricsAddr string
	logStats    bool
	realtime    bool
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Render into an in-memory raster without a window")
	realtime := flag.Bool("realtime", false, "Headless: pace frames at the target FPS instead of running flat out")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	scriptPath := flag.String("script", "", "JSON-lines analysis script to play back")
	snapshot := flag.String("snapshot", "", "Write the final frame to this PNG file")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	width := flag.Int("width", 0, "Canvas width (0 = use config)")
	height := flag.Int("height", 0, "Canvas height (0 = use config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *width > 0 {
		cfg.Screen.Width = *width
	}
	if *height > 0 {
		cfg.Screen.Height = *height
	}
	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
		cfg.Derived.WindowFrames = max(1, int(*statsWindow/cfg.Derived.FrameDT))
	}

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := runOptions{
		seed:        rngSeed,
		maxTicks:    *maxTicks,
		scriptPath:  *scriptPath,
		snapshot:    *snapshot,
		outputDir:   *outputDir,
		metricsAddr: *metricsAddr,
		logStats:    *logStats,
		realtime:    *realtime,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	if *headless {
		err = runHeadless(ctx, cfg, opts)
	} else {
		err = runWindow(ctx, cfg, opts)
	}
	if err != nil {
		slog.Error("aura failed", "error", err)
		os.Exit(1)
	}
}

// session holds the collaborators shared by both hosts.
type session struct {
	store   *emotion.Store
	script  *emotion.Script
	metrics *telemetry.Metrics
	output  *telemetry.OutputManager
	server  *http.Server
}

func openSession(cfg *config.Config, opts runOptions) (*session, error) {
	s := &session{store: emotion.NewStore()}

	if opts.scriptPath != "" {
		f, err := os.Open(opts.scriptPath)
		if err != nil {
			return nil, fmt.Errorf("opening script: %w", err)
		}
		s.script, err = emotion.LoadScript(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		slog.Info("script loaded", "path", opts.scriptPath, "entries", s.script.Len())
	}

	output, err := telemetry.NewOutputManager(opts.outputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, err
	}
	s.output = output

	if opts.metricsAddr != "" {
		s.metrics = telemetry.NewMetrics()
		mux := http.NewServeMux()
		mux.Handle("/metrics", s.metrics.Handler())
		s.server = &http.Server{Addr: opts.metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", "error", err)
			}
		}()
		slog.Info("serving metrics", "addr", opts.metricsAddr)
	}

	return s, nil
}

func (s *session) engineOptions(opts runOptions) engine.Options {
	return engine.Options{
		Seed:     opts.seed,
		Metrics:  s.metrics,
		Output:   s.output,
		LogStats: opts.logStats,
	}
}

func (s *session) Close() {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			slog.Error("metrics server shutdown", "error", err)
		}
	}
	if err := s.output.Close(); err != nil {
		slog.Error("closing output", "error", err)
	}
}

// runHeadless renders into a software raster with no window.
func runHeadless(ctx context.Context, cfg *config.Config, opts runOptions) error {
	s, err := openSession(cfg, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	canvas := renderer.NewRaster(cfg.Screen.Width, cfg.Screen.Height)
	e, err := engine.New(cfg, canvas, s.store, s.engineOptions(opts))
	if err != nil {
		return err
	}
	defer e.Stop()

	d := &engine.Driver{
		Engine:   e,
		Store:    s.store,
		Script:   s.script,
		Interval: time.Duration(cfg.Derived.FrameDT * float64(time.Second)),
		MaxTicks: opts.maxTicks,
	}

	slog.Info("starting headless run",
		"seed", opts.seed,
		"width", cfg.Screen.Width,
		"height", cfg.Screen.Height,
		"max_ticks", opts.maxTicks,
		"realtime", opts.realtime,
	)

	if opts.realtime {
		if err := d.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	} else {
		for !d.Done() && ctx.Err() == nil {
			d.Step()
		}
	}
	slog.Info("headless run finished", "tick", e.Tick())

	if opts.snapshot != "" {
		if err := telemetry.SavePNG(opts.snapshot, canvas); err != nil {
			return err
		}
		slog.Info("snapshot written", "path", opts.snapshot)
	}
	return s.output.WriteSnapshot("final.png", canvas)
}

// runWindow opens a resizable raylib window and renders into a render
// texture that persists between frames.
func runWindow(ctx context.Context, cfg *config.Config, opts runOptions) error {
	s, err := openSession(cfg, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Aura")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	canvas := rlcanvas.New(cfg.Screen.Width, cfg.Screen.Height)
	e, err := engine.New(cfg, canvas, s.store, s.engineOptions(opts))
	if err != nil {
		canvas.Release()
		return err
	}
	defer e.Stop()

	d := &engine.Driver{Engine: e, Store: s.store, Script: s.script, MaxTicks: opts.maxTicks}

	overlays := ui.NewOverlayRegistry()
	hud := ui.NewHUD()
	perfPanel := ui.NewPerfPanel(0, 0)
	controls := ui.NewControlPanel(s.store, 0, 0, 240)
	phases := telemetry.FramePhases()
	paused := false

	for !rl.WindowShouldClose() && ctx.Err() == nil && !d.Done() {
		if rl.IsWindowResized() {
			e.Resize(int(rl.GetScreenWidth()), int(rl.GetScreenHeight()))
		}
		overlays.HandleInput()
		if rl.IsKeyPressed(rl.KeySpace) {
			paused = !paused
		}

		if !paused {
			canvas.Begin()
			d.Step()
			canvas.End()
		}
		e.Perf().RecordFrame()

		screenW, screenH := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		canvas.Present()

		if overlays.IsEnabled(ui.OverlayFlowField) {
			ui.DrawFlowField(e.Flow(), 2)
		}
		if overlays.IsEnabled(ui.OverlayHUD) {
			hud.Draw(ui.HUDData{
				State:      e.State(),
				Color:      e.Transition().Current(),
				Progress:   e.Transition().Progress(),
				Particles:  e.Particles().Count(),
				Tick:       e.Tick(),
				FPS:        rl.GetFPS(),
				Paused:     paused,
				ScreenSize: [2]int32{screenW, screenH},
			})
		}
		if overlays.IsEnabled(ui.OverlayPerf) {
			perfPanel.SetPosition(10, screenH-140)
			perfPanel.Draw(e.Perf().Stats(), phases)
		}
		if overlays.IsEnabled(ui.OverlayControls) {
			controls.SetPosition(screenW-250, 10)
			controls.Draw(overlays)
		}
		hud.DrawControls(screenH, "H: state  C: controls  P: timing  F: flow  Space: pause")
		rl.EndDrawing()
	}

	if opts.snapshot != "" {
		img := rl.LoadImageFromScreen()
		ok := rl.ExportImage(*img, opts.snapshot)
		rl.UnloadImage(img)
		if !ok {
			return fmt.Errorf("writing snapshot %s", opts.snapshot)
		}
	}
	return nil
}
