package audio

const maxLevel = 32767

type EnvState int

const (
	EnvIdle EnvState = iota
	EnvAttack
	EnvDecay
	EnvSustain
	EnvRelease
)

func (s EnvState) String() string {
	switch s {
	case EnvIdle:
		return "Idle"
	case EnvAttack:
		return "Atk"
	case EnvDecay:
		return "Dec"
	case EnvSustain:
		return "Sus"
	case EnvRelease:
		return "Rel"
	}
	return "?"
}

// Envelope is an ADSR amplitude generator. Times are stored in samples and
// levels in Q15 (0-32767).
type Envelope struct {
	AttackSamples  uint32
	DecaySamples   uint32
	SustainLevel   int32
	ReleaseSamples uint32

	// ReleaseFromLevel makes the release ramp start at the level reached when
	// NoteOff was called. When false the ramp always starts at SustainLevel,
	// which jumps if the note is released during attack or decay.
	ReleaseFromLevel bool

	state        EnvState
	level        int32
	counter      uint32
	releaseStart int32
}

// NewEnvelope builds an envelope from millisecond times and a sustain
// percentage, which is clamped to 100.
func NewEnvelope(attackMs, decayMs, sustainPct, releaseMs uint32) Envelope {
	return Envelope{
		AttackSamples:  MsToSamples(attackMs),
		DecaySamples:   MsToSamples(decayMs),
		SustainLevel:   int32(min(sustainPct, 100)) * maxLevel / 100,
		ReleaseSamples: MsToSamples(releaseMs),
	}
}

func DefaultEnvelope() Envelope { return NewEnvelope(10, 50, 70, 100) }
func OrganEnvelope() Envelope   { return NewEnvelope(1, 1, 100, 10) }
func PluckEnvelope() Envelope   { return NewEnvelope(2, 200, 0, 50) }
func PadEnvelope() Envelope     { return NewEnvelope(300, 100, 80, 500) }

// EnvelopePreset returns one of the named presets: default, organ, pluck or pad.
func EnvelopePreset(name string) (Envelope, bool) {
	switch name {
	case "default":
		return DefaultEnvelope(), true
	case "organ":
		return OrganEnvelope(), true
	case "pluck":
		return PluckEnvelope(), true
	case "pad":
		return PadEnvelope(), true
	}
	return Envelope{}, false
}

// NoteOn restarts the attack. The level is kept so a retriggered voice
// ramps from where it is instead of clicking to zero.
func (e *Envelope) NoteOn() {
	e.state = EnvAttack
	e.counter = 0
}

func (e *Envelope) NoteOff() {
	if e.state == EnvIdle {
		return
	}
	e.state = EnvRelease
	e.counter = 0
	e.releaseStart = e.level
}

// Tick advances the envelope by one sample and returns the new level.
func (e *Envelope) Tick() int32 {
	switch e.state {
	case EnvIdle:
		e.level = 0
	case EnvAttack:
		if e.AttackSamples == 0 {
			e.level = maxLevel
			e.state = EnvDecay
			e.counter = 0
			break
		}
		e.level = int32(int64(e.counter) * maxLevel / int64(e.AttackSamples))
		e.counter++
		if e.counter >= e.AttackSamples {
			e.level = maxLevel
			e.state = EnvDecay
			e.counter = 0
		}
	case EnvDecay:
		if e.DecaySamples == 0 {
			e.level = e.SustainLevel
			e.state = EnvSustain
			break
		}
		delta := int64(maxLevel - e.SustainLevel)
		e.level = maxLevel - int32(int64(e.counter)*delta/int64(e.DecaySamples))
		e.counter++
		if e.counter >= e.DecaySamples {
			e.level = e.SustainLevel
			e.state = EnvSustain
			e.counter = 0
		}
	case EnvSustain:
		e.level = e.SustainLevel
	case EnvRelease:
		if e.ReleaseSamples == 0 {
			e.level = 0
			e.state = EnvIdle
			break
		}
		start := e.SustainLevel
		if e.ReleaseFromLevel {
			start = e.releaseStart
		}
		e.level = start - int32(int64(e.counter)*int64(start)/int64(e.ReleaseSamples))
		if e.level < 0 {
			e.level = 0
		}
		e.counter++
		if e.counter >= e.ReleaseSamples {
			e.level = 0
			e.state = EnvIdle
		}
	}
	return e.level
}

// SustainPercent returns the sustain level as a percentage, rounded down.
func (e *Envelope) SustainPercent() int32 { return e.SustainLevel * 100 / maxLevel }

func (e *Envelope) IsIdle() bool { return e.state == EnvIdle }

func (e *Envelope) State() EnvState { return e.state }
func (e *Envelope) Level() int32    { return e.level }
func (e *Envelope) Counter() uint32 { return e.counter }
