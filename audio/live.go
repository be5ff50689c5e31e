package audio

import (
	"sync/atomic"
)

const eventBufferSize = 256

// params is a snapshot of the engine template held in Props.
type params struct {
	wave             Waveform
	attack           uint32
	decay            uint32
	sustain          uint32
	release          uint32
	releaseFromLevel bool
	volume           uint8
}

type tape struct {
	samples []int16
	pos     atomic.Int64
}

// Live drives an Engine from an audio callback. Notes and parameter changes
// are handed over without locks: note events go through a single producer
// queue and parameters through Props. NoteOn, NoteOff, AllNotesOff and Play
// must be called from one goroutine; Process from the audio callback.
type Live struct {
	*Props
	engine  *Engine
	events  *eventBuffer
	tape    atomic.Pointer[tape]
	applied params

	// voices is a packed snapshot of the engine's voices taken after each
	// buffer, see publishVoices.
	voices [MaxVoices]atomic.Uint32

	wave, attack, decay, sustain, release, releaseFromLevel, volume *atomic.Value
}

func NewLive(engine *Engine) *Live {
	props := NewProps()
	l := &Live{
		Props:            props,
		engine:           engine,
		events:           newEventBuffer(eventBufferSize),
		wave:             props.MustRegister(PropWave, setWaveform, engine.Waveform),
		attack:           props.MustRegister(PropEnvAttack, setEnvTime, SamplesToMs(engine.Envelope.AttackSamples)),
		decay:            props.MustRegister(PropEnvDecay, setEnvTime, SamplesToMs(engine.Envelope.DecaySamples)),
		sustain:          props.MustRegister(PropEnvSustain, setPercent, sustainPercent(engine.Envelope)),
		release:          props.MustRegister(PropEnvRelease, setEnvTime, SamplesToMs(engine.Envelope.ReleaseSamples)),
		releaseFromLevel: props.MustRegister(PropReleaseFromLevel, setBool, engine.Envelope.ReleaseFromLevel),
		volume:           props.MustRegister(PropVolume, setVolume, int(engine.MasterVolume)),
	}
	l.applied = l.params()
	return l
}

func sustainPercent(env Envelope) uint32 {
	// Round up so that the percentage maps back to the same Q15 level.
	return uint32((env.SustainLevel*100 + maxLevel - 1) / maxLevel)
}

func (l *Live) params() params {
	return params{
		wave:             l.wave.Load().(Waveform),
		attack:           l.attack.Load().(uint32),
		decay:            l.decay.Load().(uint32),
		sustain:          l.sustain.Load().(uint32),
		release:          l.release.Load().(uint32),
		releaseFromLevel: l.releaseFromLevel.Load().(bool),
		volume:           l.volume.Load().(uint8),
	}
}

// Configure applies the current properties to e. It is used to keep offline
// engines in step with the live one.
func (l *Live) Configure(e *Engine) {
	l.params().apply(e)
}

func (p params) apply(e *Engine) {
	e.SetWaveform(p.wave)
	e.SetADSR(p.attack, p.decay, p.sustain, p.release)
	e.SetReleaseFromLevel(p.releaseFromLevel)
	e.SetMasterVolume(p.volume)
}

func (l *Live) NoteOn(note, velocity uint8) {
	l.events.push(event{kind: eventNoteOn, note: note, velocity: velocity})
}

func (l *Live) NoteOff(note uint8) {
	l.events.push(event{kind: eventNoteOff, note: note})
}

func (l *Live) AllNotesOff() {
	l.events.push(event{kind: eventAllNotesOff})
}

// Play queues a rendered stereo buffer to be mixed into the output,
// replacing any buffer that is still playing.
func (l *Live) Play(samples []int16) {
	l.tape.Store(&tape{samples: samples})
}

// Playing reports whether a queued buffer has not finished yet.
func (l *Live) Playing() bool {
	t := l.tape.Load()
	return t != nil && int(t.pos.Load()) < len(t.samples)
}

// Process fills out with interleaved stereo samples.
func (l *Live) Process(out []int16) {
	if p := l.params(); p != l.applied {
		p.apply(l.engine)
		l.applied = p
	}
	l.events.drain(func(ev event) {
		switch ev.kind {
		case eventNoteOn:
			l.engine.NoteOn(ev.note, ev.velocity)
		case eventNoteOff:
			l.engine.NoteOff(ev.note)
		case eventAllNotesOff:
			l.engine.AllNotesOff()
		}
	})

	n := l.engine.Render(out, len(out)/Channels) * Channels
	for i := n; i < len(out); i++ {
		out[i] = 0
	}
	l.publishVoices()

	t := l.tape.Load()
	if t == nil {
		return
	}
	pos := int(t.pos.Load())
	m := min(len(out), len(t.samples)-pos)
	if m <= 0 {
		return
	}
	for i, s := range t.samples[pos : pos+m] {
		out[i] = int16(clamp(int32(out[i])+int32(s), -maxLevel, maxLevel))
	}
	t.pos.Store(int64(pos + m))
}

const voiceActive = 1 << 31

// publishVoices packs each voice as active bit | waveform<<20 | env state<<16
// | velocity<<8 | note.
func (l *Live) publishVoices() {
	for i := range l.engine.Voices {
		v := &l.engine.Voices[i]
		var packed uint32
		if v.Active {
			packed = voiceActive | uint32(v.Osc.Waveform)<<20 | uint32(v.Env.State())<<16 |
				uint32(v.Velocity)<<8 | uint32(v.Note)
		}
		l.voices[i].Store(packed)
	}
}

// Voices returns the voices that were sounding at the end of the last
// Process call. It is safe to call while Process runs.
func (l *Live) Voices() []VoiceStatus {
	var voices []VoiceStatus
	for i := range l.voices {
		packed := l.voices[i].Load()
		if packed&voiceActive == 0 {
			continue
		}
		voices = append(voices, VoiceStatus{
			Index:    i,
			Note:     uint8(packed),
			Velocity: uint8(packed >> 8),
			Env:      EnvState(packed >> 16 & 0xf),
			Waveform: Waveform(packed >> 20 & 0xf),
		})
	}
	return voices
}

// Status is Engine.Status for the live engine: the current settings and the
// voices from Voices.
func (l *Live) Status() string {
	e := NewEngine()
	l.Configure(e)
	return formatStatus(e, l.Voices())
}
