package audio

import (
	"errors"
	"fmt"
)

const (
	MaxPatterns  = 16
	MaxSteps     = 64
	DefaultBPM   = 120
	StepsPerBeat = 4

	restNote       = 255
	maxPatternName = 16
)

var (
	ErrBankFull         = errors.New("maximum patterns reached")
	ErrDuplicatePattern = errors.New("pattern name already exists")
	ErrPatternNotFound  = errors.New("pattern not found")
	ErrStepOutOfRange   = errors.New("step index out of range")
)

// Step is one sixteenth-note slot of a pattern.
type Step struct {
	Note     uint8 // 255 is a rest
	Velocity uint8
	// Waveform replaces the pattern waveform for this step when OverrideWave is set.
	Waveform     Waveform
	OverrideWave bool
}

func RestStep() Step { return Step{Note: restNote} }

func NoteStep(note uint8) Step { return Step{Note: note, Velocity: 100} }

func NoteStepVel(note, velocity uint8) Step { return Step{Note: note, Velocity: velocity} }

func NoteStepWave(note, velocity uint8, w Waveform) Step {
	return Step{Note: note, Velocity: velocity, Waveform: w, OverrideWave: true}
}

func (s Step) IsRest() bool { return s.Note == restNote || s.Velocity == 0 }

func (s Step) String() string {
	if s.IsRest() {
		return "--"
	}
	return FormatNote(s.Note)
}

// WaveName is the short waveform name of an overriding step, or ".." otherwise.
func (s Step) WaveName() string {
	if s.IsRest() || !s.OverrideWave {
		return ".."
	}
	return s.Waveform.ShortName()[:2]
}

// Pattern is a named loop of steps played at a fixed tempo.
type Pattern struct {
	Name     string
	Steps    []Step
	BPM      uint16
	Waveform Waveform
	Envelope Envelope
}

// NewPattern returns a pattern of rests. The step count is clamped to
// 1..MaxSteps and the name to 16 bytes.
func NewPattern(name string, steps int, bpm uint16) *Pattern {
	steps = max(1, min(steps, MaxSteps))
	if len(name) > maxPatternName {
		name = name[:maxPatternName]
	}
	if bpm == 0 {
		bpm = DefaultBPM
	}
	p := &Pattern{
		Name:     name,
		Steps:    make([]Step, steps),
		BPM:      bpm,
		Waveform: Square,
		Envelope: PluckEnvelope(),
	}
	for i := range p.Steps {
		p.Steps[i] = RestStep()
	}
	return p
}

func (p *Pattern) Len() int { return len(p.Steps) }

// SetStep ignores indexes outside the pattern.
func (p *Pattern) SetStep(idx int, s Step) {
	if idx >= 0 && idx < len(p.Steps) {
		p.Steps[idx] = s
	}
}

// SetNote sets step idx from a note name. "--", "." and "" store a rest.
func (p *Pattern) SetNote(idx int, name string) error {
	if idx < 0 || idx >= len(p.Steps) {
		return fmt.Errorf("step %d of %d: %w", idx+1, len(p.Steps), ErrStepOutOfRange)
	}
	if name == "--" || name == "." || name == "" {
		p.Steps[idx] = RestStep()
		return nil
	}
	note, ok := NoteNameToMIDI(name)
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrInvalidNoteName)
	}
	p.Steps[idx] = NoteStep(note)
	return nil
}

// StepDurationSamples is the length of one sixteenth note in frames.
func (p *Pattern) StepDurationSamples() uint32 {
	return 60 * SampleRate / (uint32(p.BPM) * StepsPerBeat)
}

func (p *Pattern) StepDurationMs() uint32 {
	return 60_000 / (uint32(p.BPM) * StepsPerBeat)
}

func (p *Pattern) TotalDurationMs() uint32 {
	return p.StepDurationMs() * uint32(len(p.Steps))
}

// Render plays one loop of the pattern on e. Each step is released at the end
// of its slot so its tail carries into the next step. The engine's waveform
// and envelope templates are restored afterwards.
func (p *Pattern) Render(e *Engine) []int16 {
	stepFrames := int(p.StepDurationSamples())
	buf := make([]int16, stepFrames*len(p.Steps)*Channels)
	p.renderInto(e, buf, stepFrames)
	return buf
}

// RenderLoops renders the pattern loops times back to back. Zero plays it once.
func (p *Pattern) RenderLoops(e *Engine, loops int) []int16 {
	loops = max(loops, 1)
	stepFrames := int(p.StepDurationSamples())
	loopLen := stepFrames * len(p.Steps) * Channels
	buf := make([]int16, loopLen*loops)
	for i := 0; i < loops; i++ {
		p.renderInto(e, buf[i*loopLen:(i+1)*loopLen], stepFrames)
	}
	return buf
}

func (p *Pattern) renderInto(e *Engine, buf []int16, stepFrames int) {
	savedWave, savedEnv := e.Waveform, e.Envelope
	e.SetEnvelope(p.Envelope)

	for i, s := range p.Steps {
		off := i * stepFrames * Channels
		slot := buf[off : off+stepFrames*Channels]
		if s.IsRest() {
			// Rests still tick the voices so release tails of earlier steps
			// carry into them instead of being cut to silence.
			e.Render(slot, stepFrames)
			continue
		}
		w := p.Waveform
		if s.OverrideWave {
			w = s.Waveform
		}
		e.SetWaveform(w)
		e.NoteOn(s.Note, s.Velocity)
		e.Render(slot, stepFrames)
		e.NoteOff(s.Note)
	}

	e.SetWaveform(savedWave)
	e.SetEnvelope(savedEnv)
}

// Bank stores up to MaxPatterns patterns with unique names.
type Bank struct {
	patterns []*Pattern
}

func NewBank() *Bank { return &Bank{} }

// Add stores p and returns its index.
func (b *Bank) Add(p *Pattern) (int, error) {
	if len(b.patterns) >= MaxPatterns {
		return 0, fmt.Errorf("%w (%d)", ErrBankFull, MaxPatterns)
	}
	if b.Find(p.Name) >= 0 {
		return 0, fmt.Errorf("%q: %w", p.Name, ErrDuplicatePattern)
	}
	b.patterns = append(b.patterns, p)
	return len(b.patterns) - 1, nil
}

// Find returns the index of the named pattern or -1.
func (b *Bank) Find(name string) int {
	for i, p := range b.patterns {
		if p.Name == name {
			return i
		}
	}
	return -1
}

func (b *Bank) Get(name string) (*Pattern, error) {
	i := b.Find(name)
	if i < 0 {
		return nil, fmt.Errorf("%q: %w", name, ErrPatternNotFound)
	}
	return b.patterns[i], nil
}

func (b *Bank) Remove(name string) error {
	i := b.Find(name)
	if i < 0 {
		return fmt.Errorf("%q: %w", name, ErrPatternNotFound)
	}
	b.patterns = append(b.patterns[:i], b.patterns[i+1:]...)
	return nil
}

func (b *Bank) Len() int { return len(b.patterns) }

// Patterns returns the stored patterns in insertion order.
func (b *Bank) Patterns() []*Pattern {
	return append([]*Pattern(nil), b.patterns...)
}

func (b *Bank) Names() []string {
	names := make([]string, len(b.patterns))
	for i, p := range b.patterns {
		names[i] = p.Name
	}
	return names
}

// LoadPresets adds the built-in patterns. Names already in use are skipped.
func (b *Bank) LoadPresets() {
	arp := NewPattern("arp", 16, 140)
	arp.Waveform = Sine
	arp.Envelope = PluckEnvelope()
	for i, n := range []uint8{60, 63, 67, 72, 67, 63, 60, 63, 67, 72, 67, 63, 60, 63, 67, 72} {
		arp.Steps[i] = NoteStepVel(n, 90)
	}

	techno := NewPattern("techno", 16, 128)
	techno.Waveform = Sine
	techno.Envelope = NewEnvelope(1, 80, 0, 30)
	for i := 0; i < 16; i += 4 {
		techno.Steps[i] = NoteStepVel(36, 127)
	}

	bass := NewPattern("bass", 16, 120)
	bass.Waveform = Sawtooth
	bass.Envelope = NewEnvelope(5, 100, 60, 50)
	fillNotes(bass, []uint8{36, restNote, 36, 36, 39, restNote, 39, 36, 43, restNote, 43, 43, 41, restNote, 41, 36}, 100)

	chip := NewPattern("chiptune", 16, 150)
	chip.Waveform = Square
	chip.Envelope = NewEnvelope(2, 30, 80, 20)
	fillNotes(chip, []uint8{72, 74, 76, 72, 79, restNote, 79, restNote, 76, 74, 72, 74, 76, 72, 71, restNote}, 110)

	pad := NewPattern("pad", 8, 80)
	pad.Waveform = Triangle
	pad.Envelope = PadEnvelope()
	fillNotes(pad, []uint8{60, restNote, 64, restNote, 67, restNote, 72, restNote}, 80)

	for _, p := range []*Pattern{arp, techno, bass, chip, pad} {
		b.Add(p)
	}
}

func fillNotes(p *Pattern, notes []uint8, velocity uint8) {
	for i, n := range notes {
		if n != restNote {
			p.Steps[i] = NoteStepVel(n, velocity)
		}
	}
}
