package audio

// Voice is one sounding note: an oscillator shaped by an envelope.
type Voice struct {
	Osc      Oscillator
	Env      Envelope
	Note     uint8
	Velocity uint8
	Active   bool
}

func newVoice() Voice {
	return Voice{
		Osc: NewOscillator(Sine, 440),
		Env: DefaultEnvelope(),
	}
}

// NoteOn restarts the voice on note with a fresh oscillator and a copy of env.
func (v *Voice) NoteOn(note, velocity uint8, w Waveform, env Envelope) {
	v.Osc = NewOscillator(w, MIDIFreq(note))
	v.Env = env
	v.Env.NoteOn()
	v.Note = note
	v.Velocity = velocity
	v.Active = true
}

// NoteOff starts the release. The voice stays active until the envelope is idle.
func (v *Voice) NoteOff() {
	v.Env.NoteOff()
}

// Tick returns the next sample: oscillator * envelope / 32767 * velocity / 127.
func (v *Voice) Tick() int16 {
	if !v.Active {
		return 0
	}
	level := v.Env.Tick()
	if v.Env.IsIdle() {
		v.Active = false
		return 0
	}
	raw := int32(v.Osc.Tick())
	s := (raw * level / maxLevel) * int32(v.Velocity) / 127
	return int16(clamp(s, -maxLevel, maxLevel))
}

func clamp(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
