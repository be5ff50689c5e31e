package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	log "github.com/golang/glog"
	"golang.org/x/term"

	"github.com/mrdg/trustsynth/audio"
)

const (
	keyCtrlC = 0x03
	keyEsc   = 0x1b

	maxOctaveShift = 4
	velocityStep   = 10
)

// keyNotes maps two rows of a QWERTY keyboard onto piano keys. The bottom
// row plays naturals from C3 with sharps on the home row; the top row plays
// naturals from C4 with sharps on the number row.
var keyNotes = map[byte]uint8{
	'z': 48, 'x': 50, 'c': 52, 'v': 53, 'b': 55, 'n': 57, 'm': 59, ',': 60, '.': 62, '/': 64,
	's': 49, 'd': 51, 'g': 54, 'h': 56, 'j': 58, 'l': 61, ';': 63,

	'q': 60, 'w': 62, 'e': 64, 'r': 65, 't': 67, 'y': 69, 'u': 71, 'i': 72, 'o': 74, 'p': 76,
	'2': 61, '3': 63, '5': 66, '6': 68, '7': 70, '9': 73, '0': 75,
}

const keyboardHelp = `keyboard mode
  z s x d c v g b h n j m , l . ; /   C3 - E4
  q 2 w 3 e r 5 t 6 y 7 u i 9 o 0 p   C4 - E5
  - =  octave down/up    [ ]  velocity down/up    esc  quit
`

type noteSink interface {
	NoteOn(note, velocity uint8)
	NoteOff(note uint8)
}

// A terminal only reports key presses, so every note is released after a
// fixed gate time.
type keyboard struct {
	sink     noteSink
	gate     time.Duration
	octave   int
	velocity uint8
	held     map[uint8]time.Time // note -> release time
}

func newKeyboard(sink noteSink, cfg KeysConfig) *keyboard {
	return &keyboard{
		sink:     sink,
		gate:     time.Duration(cfg.GateMs) * time.Millisecond,
		velocity: uint8(cfg.Velocity),
		held:     make(map[uint8]time.Time),
	}
}

func (k *keyboard) note(key byte) (uint8, bool) {
	if key >= 'A' && key <= 'Z' {
		key += 'a' - 'A'
	}
	base, ok := keyNotes[key]
	if !ok {
		return 0, false
	}
	n := int(base) + 12*k.octave
	if n < 0 || n > 127 {
		return 0, false
	}
	return uint8(n), true
}

// handleKey reacts to one key press and returns a line to show the player.
func (k *keyboard) handleKey(key byte, now time.Time) (msg string, quit bool) {
	switch key {
	case keyEsc, keyCtrlC:
		return "", true
	case '-':
		k.octave = max(k.octave-1, -maxOctaveShift)
		return fmt.Sprintf("octave %+d", k.octave), false
	case '=':
		k.octave = min(k.octave+1, maxOctaveShift)
		return fmt.Sprintf("octave %+d", k.octave), false
	case '[':
		k.velocity = uint8(max(int(k.velocity)-velocityStep, 1))
		return fmt.Sprintf("velocity %d", k.velocity), false
	case ']':
		k.velocity = uint8(min(int(k.velocity)+velocityStep, 127))
		return fmt.Sprintf("velocity %d", k.velocity), false
	}

	note, ok := k.note(key)
	if !ok {
		return "", false
	}
	if _, ok := k.held[note]; ok {
		k.sink.NoteOff(note)
	}
	k.sink.NoteOn(note, k.velocity)
	k.held[note] = now.Add(k.gate)
	return audio.FormatNote(note), false
}

// release ends every note whose gate has passed.
func (k *keyboard) release(now time.Time) {
	for note, t := range k.held {
		if !now.Before(t) {
			k.sink.NoteOff(note)
			delete(k.held, note)
		}
	}
}

func (k *keyboard) releaseAll() {
	for note := range k.held {
		k.sink.NoteOff(note)
		delete(k.held, note)
	}
}

func runKeyboard(k *keyboard, in *os.File, w io.Writer) error {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("keyboard mode needs a terminal")
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	defer term.Restore(fd, old)

	log.Infof("keyboard mode: gate %v, velocity %d", k.gate, k.velocity)
	// Raw mode turns off output post-processing, so lines need "\r\n".
	io.WriteString(w, strings.ReplaceAll(keyboardHelp, "\n", "\r\n"))

	keys := make(chan byte, 16)
	errc := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go func() {
		buf := make([]byte, 16)
		for {
			n, err := in.Read(buf)
			if err != nil {
				errc <- err
				return
			}
			for _, b := range buf[:n] {
				select {
				case keys <- b:
				case <-done:
					return
				}
			}
		}
	}()

	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case key := <-keys:
			msg, quit := k.handleKey(key, time.Now())
			if quit {
				k.releaseAll()
				return nil
			}
			if msg != "" {
				fmt.Fprintf(w, "%s\r\n", msg)
			}
		case now := <-ticker.C:
			k.release(now)
		case err := <-errc:
			k.releaseAll()
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}
