package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lixenwraith/voxforge/audio"
	"github.com/lixenwraith/voxforge/component"
	"github.com/lixenwraith/voxforge/config"
	"github.com/lixenwraith/voxforge/core"
	"github.com/lixenwraith/voxforge/engine"
	"github.com/lixenwraith/voxforge/event"
	"github.com/lixenwraith/voxforge/render"
	"github.com/lixenwraith/voxforge/system"
	"github.com/lixenwraith/voxforge/vmath"
)

func main() {
	configPath := flag.String("config", "voxforge.toml", "path to config file")
	headless := flag.Bool("headless", false, "run without a terminal display")
	profileMode := flag.String("profile", "", "enable profiling: cpu or mem")
	flag.Parse()

	switch *profileMode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	case "":
	default:
		fmt.Fprintf(os.Stderr, "unknown profile mode %q\n", *profileMode)
		os.Exit(2)
	}

	os.Exit(run(*configPath, *headless))
}

func run(configPath string, headless bool) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer log.Sync()

	core.SetCrashHandler(func(r any) {
		log.Error("goroutine crashed", zap.Any("panic", r))
	})

	// Render backend
	var (
		renderer render.Renderer
		screen   tcell.Screen
		aspect   = 16.0 / 9.0
	)
	if headless || cfg.Render.Backend == "null" {
		renderer = render.NewNullRenderer(false)
	} else {
		screen, err = tcell.NewScreen()
		if err != nil {
			log.Error("screen creation failed", zap.Error(err))
			return 1
		}
		if err := screen.Init(); err != nil {
			log.Error("screen init failed", zap.Error(err))
			return 1
		}
		defer screen.Fini()
		w, h := screen.Size()
		if h > 0 {
			aspect = float64(w) / float64(h*2) // cells are roughly twice as tall as wide
		}
		renderer = render.NewTerminalRenderer(screen)
	}

	world := engine.NewWorld(log)
	eng := engine.New(cfg, world, renderer, log)

	renderSys := system.NewRenderSystem(renderer, cfg.Render.Distance, cfg.Render.FrustumCulling, log)
	renderSys.SetWorld(world)
	if !renderSys.Initialize() {
		return 1
	}
	world.AddSystem(renderSys)
	world.AddSystem(system.NewPhysicsSystem(world, log))
	world.AddSystem(system.NewCleanupSystem(world, log))
	eng.BindRenderDriver(renderSys)

	var sound *audio.Engine
	if cfg.Audio.Enabled {
		sound = audio.NewEngine(log)
		if err := sound.Initialize(); err != nil {
			log.Warn("audio unavailable, continuing muted", zap.Error(err))
			sound.SetMuted(true)
		}
		eng.Router().Register(sound)
		defer sound.Shutdown()
	}

	if err := eng.Initialize(); err != nil {
		log.Error("engine initialization failed", zap.Error(err))
		return 1
	}

	cam := seedScene(world, aspect)
	renderSys.SetActiveCamera(cam)

	if screen != nil {
		core.Go(func() { pollInput(screen, eng, sound) })
	}

	eng.SetGameState(engine.GamePlaying)
	return eng.Run()
}

// seedScene builds the demo scene: a camera above the origin looking down
// the -Z axis and a ring of falling blocks around it
func seedScene(w *engine.World, aspect float64) core.Entity {
	cam := w.CreateEntity("camera")
	camT := component.NewTransform(vmath.V3(0, 8, 0))
	w.Transforms.Set(cam, camT)
	w.Cameras.Set(cam, component.NewCamera(aspect))

	const blocks = 24
	for i := 0; i < blocks; i++ {
		angle := float64(i) / blocks * 2 * math.Pi
		pos := vmath.V3(math.Cos(angle)*20, 12, math.Sin(angle)*20)

		b := w.CreateEntity("block")
		w.Transforms.Set(b, component.NewTransform(pos))
		w.Renders.Set(b, component.NewRender(1, 0x40A060+uint32(i)*0x050505, 12, 0.87))
		w.Physics.Set(b, component.PhysicsComponent{
			Body:         component.BodyDynamic,
			GravityScale: 0.2 + float64(i)*0.05,
		})
	}
	return cam
}

// pollInput forwards terminal keys to the engine until shutdown
func pollInput(screen tcell.Screen, eng *engine.Engine, sound *audio.Engine) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		switch tev := ev.(type) {
		case *tcell.EventKey:
			switch {
			case tev.Key() == tcell.KeyEscape, tev.Key() == tcell.KeyCtrlC, tev.Rune() == 'q':
				eng.World().PushEvent(event.EventShutdownRequest, 0)
				return
			case tev.Rune() == 'p':
				if !eng.Pause() {
					eng.Resume()
				}
				eng.World().PushEvent(event.EventSoundRequest, event.SoundPayload{Cue: audio.CueUIClick})
			case tev.Rune() == 'm':
				if sound != nil {
					sound.SetMuted(!sound.IsMuted())
				}
			}
		case *tcell.EventResize:
			screen.Sync()
		}
	}
}

// newLogger builds the process logger from config
func newLogger(lc config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", lc.Level, err)
	}

	var zc zap.Config
	if lc.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	// Terminal UI owns stdout; logs go to a file beside the binary
	zc.OutputPaths = []string{"voxforge.log"}
	zc.ErrorOutputPaths = []string{"voxforge.log"}

	log, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return log, nil
}
