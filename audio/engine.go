package audio

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/lixenwraith/voxforge/event"
)

// Sound cues, carried in EventSoundRequest payloads
const (
	CueUIClick = iota
	CueBlockPlace
	CueBlockBreak
	CueError
)

const sampleRate = beep.SampleRate(44100)

// cueSpec is tone frequency and length for one cue
type cueSpec struct {
	freq float64
	dur  time.Duration
}

var cues = map[int]cueSpec{
	CueUIClick:    {freq: 880, dur: 40 * time.Millisecond},
	CueBlockPlace: {freq: 440, dur: 80 * time.Millisecond},
	CueBlockBreak: {freq: 220, dur: 120 * time.Millisecond},
	CueError:      {freq: 110, dur: 200 * time.Millisecond},
}

// Engine plays short generated tones for game cues through one shared
// speaker mixer. No sample assets: everything is synthesized
type Engine struct {
	log   *zap.Logger
	mixer *beep.Mixer
	muted atomic.Bool

	initOnce sync.Once
	initErr  error
}

func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log, mixer: &beep.Mixer{}}
}

// Initialize opens the audio device and starts the mixer. Safe to call
// more than once; the first result sticks
func (a *Engine) Initialize() error {
	a.initOnce.Do(func() {
		if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
			a.initErr = fmt.Errorf("audio init: %w", err)
			return
		}
		speaker.Play(a.mixer)
		a.log.Info("audio initialized", zap.Int("sample_rate", int(sampleRate)))
	})
	return a.initErr
}

// SetMuted toggles cue playback without tearing the device down
func (a *Engine) SetMuted(muted bool) { a.muted.Store(muted) }

// IsMuted returns the mute state
func (a *Engine) IsMuted() bool { return a.muted.Load() }

// Play queues the tone for a cue. Unknown cues are logged and skipped
func (a *Engine) Play(cue int) {
	if a.muted.Load() || a.initErr != nil {
		return
	}
	spec, ok := cues[cue]
	if !ok {
		a.log.Warn("unknown sound cue", zap.Int("cue", cue))
		return
	}

	tone, err := generators.SinTone(sampleRate, int(spec.freq))
	if err != nil {
		a.log.Error("tone generation failed", zap.Error(err))
		return
	}

	speaker.Lock()
	a.mixer.Add(beep.Take(sampleRate.N(spec.dur), tone))
	speaker.Unlock()
}

// Shutdown silences and closes the audio device
func (a *Engine) Shutdown() {
	if a.initErr != nil {
		return
	}
	speaker.Clear()
	speaker.Close()
}

// === event.Handler ===

// EventTypes subscribes the audio engine to sound requests
func (a *Engine) EventTypes() []event.Type {
	return []event.Type{event.EventSoundRequest}
}

// HandleEvent plays the requested cue
func (a *Engine) HandleEvent(ev event.GameEvent) {
	if p, ok := ev.Payload.(event.SoundPayload); ok {
		a.Play(p.Cue)
	}
}
