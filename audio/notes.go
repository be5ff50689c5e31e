package audio

import "strconv"

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteNameToMIDI parses names like "C4", "A#3" or "Bb5" into a MIDI note number.
// Letters are case-insensitive, the accidental is '#' or 'b', and the octave is a
// decimal number where C4 is 60.
func NoteNameToMIDI(name string) (uint8, bool) {
	if name == "" {
		return 0, false
	}

	var base int
	switch name[0] {
	case 'C', 'c':
		base = 0
	case 'D', 'd':
		base = 2
	case 'E', 'e':
		base = 4
	case 'F', 'f':
		base = 5
	case 'G', 'g':
		base = 7
	case 'A', 'a':
		base = 9
	case 'B', 'b':
		base = 11
	default:
		return 0, false
	}
	rest := name[1:]

	switch {
	case len(rest) > 0 && rest[0] == '#':
		base++
		rest = rest[1:]
	case len(rest) > 0 && rest[0] == 'b':
		base--
		rest = rest[1:]
	}

	if rest == "" || len(rest) > 3 {
		return 0, false
	}
	octave := 0
	for _, c := range []byte(rest) {
		if c < '0' || c > '9' {
			return 0, false
		}
		octave = octave*10 + int(c-'0')
	}

	midi := (octave+1)*12 + base
	if midi < 0 || midi > 127 {
		return 0, false
	}
	return uint8(midi), true
}

// MIDINoteName returns the pitch class of note without the octave, e.g. "A#".
func MIDINoteName(note uint8) string {
	return noteNames[note%12]
}

// MIDIOctave returns the octave of note, with notes below 12 reported as octave 0.
func MIDIOctave(note uint8) uint8 {
	if note < 12 {
		return 0
	}
	return note/12 - 1
}

// FormatNote returns the full name of note, e.g. 69 -> "A4".
func FormatNote(note uint8) string {
	return MIDINoteName(note) + strconv.Itoa(int(MIDIOctave(note)))
}
