package audio

const (
	TableSize = 256

	fracBits  = 16
	lfsrSeed  = 0xACE1
	lfsrTaps  = 0xB400
	rampLevel = 24000
)

// Oscillator is a Q16.16 phase accumulator indexing a 256 entry cycle.
// The integer part of the phase selects the table position, the fractional
// part is used for interpolation.
type Oscillator struct {
	Waveform Waveform
	FreqHz   uint32

	phase    uint32
	phaseInc uint32
	lfsr     uint16
}

func NewOscillator(w Waveform, freqHz uint32) Oscillator {
	return Oscillator{
		Waveform: w,
		FreqHz:   freqHz,
		phaseInc: PhaseIncrement(freqHz),
		lfsr:     lfsrSeed,
	}
}

// PhaseIncrement returns the per-sample phase advance for freqHz:
// (freq * TableSize) << 16 / SampleRate, computed in 64 bits.
func PhaseIncrement(freqHz uint32) uint32 {
	return uint32((uint64(freqHz) * TableSize << fracBits) / SampleRate)
}

func (o *Oscillator) SetFreq(freqHz uint32) {
	o.FreqHz = freqHz
	o.phaseInc = PhaseIncrement(freqHz)
}

func (o *Oscillator) SetMIDINote(note uint8) {
	o.SetFreq(MIDIFreq(note))
}

func (o *Oscillator) ResetPhase() { o.phase = 0 }

func (o *Oscillator) Phase() uint32    { return o.phase }
func (o *Oscillator) PhaseInc() uint32 { return o.phaseInc }

// Tick returns the sample at the current phase and advances the phase,
// wrapping modulo 2^32.
func (o *Oscillator) Tick() int16 {
	var s int16
	switch o.Waveform {
	case Sine:
		s = o.sine()
	case Square:
		s = o.square()
	case Sawtooth:
		s = o.sawtooth()
	case Triangle:
		s = o.triangle()
	case Noise:
		s = o.noise()
	}
	o.phase += o.phaseInc
	return s
}

func (o *Oscillator) pos() int32 {
	return int32(o.phase>>fracBits) & (TableSize - 1)
}

func (o *Oscillator) sine() int16 {
	idx := o.pos()
	frac := int32(o.phase & 0xFFFF)
	s0 := int32(sineTable[idx])
	s1 := int32(sineTable[(idx+1)&(TableSize-1)])
	return int16(s0 + ((s1 - s0) * frac >> 16))
}

func (o *Oscillator) square() int16 {
	if o.pos() < TableSize/2 {
		return rampLevel
	}
	return -rampLevel
}

func (o *Oscillator) sawtooth() int16 {
	return int16(o.pos()*2*rampLevel/TableSize - rampLevel)
}

func (o *Oscillator) triangle() int16 {
	pos := o.pos()
	if pos < TableSize/2 {
		return int16(pos*2*rampLevel/(TableSize/2) - rampLevel)
	}
	return int16((TableSize-1-pos)*2*rampLevel/(TableSize/2) - rampLevel)
}

// noise steps a 16-bit Galois LFSR and scales it to 3/4 of full range.
func (o *Oscillator) noise() int16 {
	bit := o.lfsr & 1
	o.lfsr >>= 1
	if bit == 1 {
		o.lfsr ^= lfsrTaps
	}
	v := int16(o.lfsr)
	v *= 3
	return v / 4
}
