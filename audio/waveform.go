package audio

// Waveform selects the shape an Oscillator generates.
type Waveform int

const (
	Sine Waveform = iota
	Square
	Sawtooth
	Triangle
	Noise
)

// ParseWaveform accepts full names and the short aliases used on the command line.
func ParseWaveform(s string) (Waveform, bool) {
	switch s {
	case "sine", "sin", "s":
		return Sine, true
	case "square", "sq", "q":
		return Square, true
	case "saw", "sawtooth", "w":
		return Sawtooth, true
	case "triangle", "tri", "t":
		return Triangle, true
	case "noise", "n":
		return Noise, true
	}
	return Sine, false
}

func (w Waveform) ShortName() string {
	switch w {
	case Sine:
		return "Sin"
	case Square:
		return "Sqr"
	case Sawtooth:
		return "Saw"
	case Triangle:
		return "Tri"
	case Noise:
		return "Noi"
	}
	return "???"
}

func (w Waveform) String() string {
	switch w {
	case Sine:
		return "Sine"
	case Square:
		return "Square"
	case Sawtooth:
		return "Sawtooth"
	case Triangle:
		return "Triangle"
	case Noise:
		return "Noise"
	}
	return "Unknown"
}
