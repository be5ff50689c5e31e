package audio

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidNoteName is returned when a note name such as "C4" cannot be parsed.
var ErrInvalidNoteName = errors.New("invalid note name (use e.g. C4, A#3, Bb5)")

// Engine mixes a fixed pool of voices into 48 kHz 16-bit stereo PCM. The
// waveform and envelope fields are templates for future notes; changing them
// never affects voices that are already sounding.
//
// An Engine has no internal locking. Callers that drive it from more than one
// goroutine must serialize NoteOn, NoteOff and Render themselves.
type Engine struct {
	Voices       [MaxVoices]Voice
	Waveform     Waveform
	Envelope     Envelope
	MasterVolume uint8
}

func NewEngine() *Engine {
	e := &Engine{
		Waveform:     Sine,
		Envelope:     DefaultEnvelope(),
		MasterVolume: 200,
	}
	for i := range e.Voices {
		e.Voices[i] = newVoice()
	}
	return e
}

func (e *Engine) SetWaveform(w Waveform) { e.Waveform = w }

// SetADSR replaces the envelope template. Sustain is a percentage clamped to 100.
func (e *Engine) SetADSR(attackMs, decayMs, sustainPct, releaseMs uint32) {
	env := NewEnvelope(attackMs, decayMs, sustainPct, releaseMs)
	env.ReleaseFromLevel = e.Envelope.ReleaseFromLevel
	e.Envelope = env
}

func (e *Engine) SetEnvelope(env Envelope) { e.Envelope = env }

func (e *Engine) SetMasterVolume(v uint8) { e.MasterVolume = v }

// SetReleaseFromLevel selects the release behaviour of future notes, see
// Envelope.ReleaseFromLevel.
func (e *Engine) SetReleaseFromLevel(on bool) { e.Envelope.ReleaseFromLevel = on }

func (e *Engine) NoteOn(note, velocity uint8) {
	i := e.findFreeVoice()
	e.Voices[i].NoteOn(note, velocity, e.Waveform, e.Envelope)
}

// NoteOff releases the first active voice playing note.
func (e *Engine) NoteOff(note uint8) {
	for i := range e.Voices {
		v := &e.Voices[i]
		if v.Active && v.Note == note {
			v.NoteOff()
			return
		}
	}
}

func (e *Engine) AllNotesOff() {
	for i := range e.Voices {
		e.Voices[i].NoteOff()
	}
}

// Render writes up to frames stereo frames into buf and returns the number
// written, which is limited by len(buf)/2. Both channels carry the same sample.
func (e *Engine) Render(buf []int16, frames int) int {
	n := min(frames, len(buf)/Channels)
	for i := 0; i < n; i++ {
		var mix int32
		for j := range e.Voices {
			if e.Voices[j].Active {
				mix += int32(e.Voices[j].Tick())
			}
		}
		mix = mix * int32(e.MasterVolume) / 255
		s := int16(clamp(mix, -maxLevel, maxLevel))
		buf[i*2] = s
		buf[i*2+1] = s
	}
	return n
}

// RenderNote plays note for durationMs followed by the release tail of the
// current envelope template and returns the interleaved samples.
func (e *Engine) RenderNote(note, velocity uint8, durationMs uint32) []int16 {
	sustain := int(MsToSamples(durationMs))
	release := int(e.Envelope.ReleaseSamples)
	buf := make([]int16, (sustain+release)*Channels)

	e.NoteOn(note, velocity)
	e.Render(buf[:sustain*Channels], sustain)
	e.NoteOff(note)
	if release > 0 {
		e.Render(buf[sustain*Channels:], release)
	}
	return buf
}

// RenderFreq is like RenderNote but plays freqHz directly instead of a MIDI note.
func (e *Engine) RenderFreq(freqHz, durationMs uint32) []int16 {
	sustain := int(MsToSamples(durationMs))
	release := int(e.Envelope.ReleaseSamples)
	buf := make([]int16, (sustain+release)*Channels)

	i := e.findFreeVoice()
	v := &e.Voices[i]
	v.Osc = NewOscillator(e.Waveform, freqHz)
	v.Env = e.Envelope
	v.Env.NoteOn()
	v.Note = 69
	v.Velocity = 100
	v.Active = true

	e.Render(buf[:sustain*Channels], sustain)
	e.Voices[i].NoteOff()
	if release > 0 {
		e.Render(buf[sustain*Channels:], release)
	}
	return buf
}

// PlayNoteByName renders a note given by name, e.g. "A#3", at velocity 100.
func (e *Engine) PlayNoteByName(name string, durationMs uint32) ([]int16, error) {
	note, ok := NoteNameToMIDI(name)
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrInvalidNoteName)
	}
	return e.RenderNote(note, 100, durationMs), nil
}

func (e *Engine) ActiveVoiceCount() int {
	var n int
	for i := range e.Voices {
		if e.Voices[i].Active {
			n++
		}
	}
	return n
}

func (e *Engine) Status() string {
	return formatStatus(e, e.VoiceStatus())
}

// VoiceStatus describes one sounding voice.
type VoiceStatus struct {
	Index    int
	Note     uint8
	Velocity uint8
	Env      EnvState
	Waveform Waveform
}

// VoiceStatus lists the active voices in pool order.
func (e *Engine) VoiceStatus() []VoiceStatus {
	var voices []VoiceStatus
	for i := range e.Voices {
		v := &e.Voices[i]
		if v.Active {
			voices = append(voices, VoiceStatus{i, v.Note, v.Velocity, v.Env.State(), v.Osc.Waveform})
		}
	}
	return voices
}

// formatStatus prints the templates of e followed by voices.
func formatStatus(e *Engine, voices []VoiceStatus) string {
	var b strings.Builder
	b.WriteString("TrustSynth Engine\n")
	fmt.Fprintf(&b, "  Waveform: %s\n", e.Waveform)
	fmt.Fprintf(&b, "  ADSR: A=%dms D=%dms S=%d%% R=%dms\n",
		SamplesToMs(e.Envelope.AttackSamples),
		SamplesToMs(e.Envelope.DecaySamples),
		e.Envelope.SustainPercent(),
		SamplesToMs(e.Envelope.ReleaseSamples))
	fmt.Fprintf(&b, "  Master Volume: %d/255\n", e.MasterVolume)
	fmt.Fprintf(&b, "  Active Voices: %d/%d\n", len(voices), MaxVoices)
	for _, v := range voices {
		fmt.Fprintf(&b, "    Voice %d: %s vel=%d env=%s wf=%s\n",
			v.Index, FormatNote(v.Note), v.Velocity, v.Env, v.Waveform.ShortName())
	}
	return b.String()
}

// findFreeVoice returns the first inactive voice. With none free it steals
// the quietest voice in release, and failing that voice 0.
func (e *Engine) findFreeVoice() int {
	for i := range e.Voices {
		if !e.Voices[i].Active {
			return i
		}
	}
	best, bestLevel := 0, int32(math.MaxInt32)
	for i := range e.Voices {
		env := &e.Voices[i].Env
		if env.State() == EnvRelease && env.Level() < bestLevel {
			best, bestLevel = i, env.Level()
		}
	}
	if bestLevel < math.MaxInt32 {
		return best
	}
	return 0
}
