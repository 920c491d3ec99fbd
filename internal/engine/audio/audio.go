// Package audio plays the showroom's optional ambience loop and the cue
// that marks the end of the intro.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// DefaultSampleRate is the speaker's sample rate.
const DefaultSampleRate = beep.SampleRate(44100)

// ErrNotInitialized is returned when playing before Init.
var ErrNotInitialized = errors.New("audio not initialized")

// Player owns the speaker. Ambience loops until stopped; cues are mixed
// on top of it.
type Player struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate

	ambience       beep.StreamSeekCloser
	ambienceCtrl   *beep.Ctrl
	ambienceVolume *effects.Volume

	// Volumes in [0, 1].
	master  float64
	ambient float64
	cue     float64

	mixer *beep.Mixer
}

// New creates a player with the given master volume.
func New(master float64) *Player {
	return &Player{
		master:  clamp(master, 0, 1),
		ambient: 0.5,
		cue:     1,
		mixer:   &beep.Mixer{},
	}
}

// Init opens the speaker.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	p.sampleRate = DefaultSampleRate
	if err := speaker.Init(p.sampleRate, p.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(p.mixer)

	p.initialized = true
	return nil
}

// Initialized reports whether the speaker is open.
func (p *Player) Initialized() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.initialized
}

// SetMasterVolume sets the master volume.
func (p *Player) SetMasterVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.master = clamp(v, 0, 1)
	p.applyAmbienceVolume()
}

// MasterVolume returns the master volume.
func (p *Player) MasterVolume() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.master
}

// SetAmbienceVolume sets the ambience volume relative to master.
func (p *Player) SetAmbienceVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ambient = clamp(v, 0, 1)
	p.applyAmbienceVolume()
}

func (p *Player) applyAmbienceVolume() {
	if p.ambienceVolume == nil {
		return
	}
	v := p.master * p.ambient
	p.ambienceVolume.Silent = v <= 0
	p.ambienceVolume.Volume = volumeToDb(v)
}

// volumeToDb maps a linear 0-1 volume to beep's base-2 volume scale
// expressed in decibels.
func volumeToDb(v float64) float64 {
	if v <= 0 {
		return -100
	}
	return 20 * math.Log10(v)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func (p *Player) decode(data []byte) (beep.StreamSeekCloser, beep.Streamer, error) {
	streamer, format, err := wav.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return nil, nil, fmt.Errorf("decode wav: %w", err)
	}
	if format.SampleRate == p.sampleRate {
		return streamer, streamer, nil
	}
	return streamer, beep.Resample(4, format.SampleRate, p.sampleRate, streamer), nil
}

// PlayAmbience loops WAV data, replacing any ambience already playing.
func (p *Player) PlayAmbience(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return ErrNotInitialized
	}
	p.stopAmbience()

	source, resampled, err := p.decode(data)
	if err != nil {
		return err
	}

	p.ambience = source
	p.ambienceCtrl = &beep.Ctrl{Streamer: &loop{source: source, stream: resampled}}
	p.ambienceVolume = &effects.Volume{Streamer: p.ambienceCtrl, Base: 2}
	p.applyAmbienceVolume()

	speaker.Lock()
	p.mixer.Add(p.ambienceVolume)
	speaker.Unlock()
	return nil
}

// StopAmbience stops the ambience loop.
func (p *Player) StopAmbience() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopAmbience()
}

func (p *Player) stopAmbience() {
	if p.ambienceCtrl != nil {
		speaker.Lock()
		p.ambienceCtrl.Streamer = nil
		speaker.Unlock()
	}
	if p.ambience != nil {
		p.ambience.Close()
	}
	p.ambience = nil
	p.ambienceCtrl = nil
	p.ambienceVolume = nil
}

// Ambience reports whether an ambience loop is playing.
func (p *Player) Ambience() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ambience != nil
}

// PlayCue plays WAV data once, mixed over the ambience.
func (p *Player) PlayCue(data []byte) error {
	p.mu.RLock()
	initialized := p.initialized
	v := p.master * p.cue
	p.mu.RUnlock()

	if !initialized {
		return ErrNotInitialized
	}

	_, resampled, err := p.decode(data)
	if err != nil {
		return err
	}

	speaker.Lock()
	p.mixer.Add(&effects.Volume{
		Streamer: resampled,
		Base:     2,
		Volume:   volumeToDb(v),
		Silent:   v <= 0,
	})
	speaker.Unlock()
	return nil
}

// Close stops playback and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	p.stopAmbience()
	speaker.Clear()
	speaker.Close()
	p.initialized = false
}

// loop restarts source whenever the stream runs dry.
type loop struct {
	source beep.StreamSeekCloser
	stream beep.Streamer
}

func (l *loop) Stream(samples [][2]float64) (int, bool) {
	filled := 0
	for filled < len(samples) {
		n, ok := l.stream.Stream(samples[filled:])
		filled += n
		if ok {
			continue
		}
		if l.source.Len() == 0 {
			return filled, false
		}
		if err := l.source.Seek(0); err != nil {
			return filled, false
		}
	}
	return filled, true
}

func (l *loop) Err() error {
	return l.source.Err()
}
