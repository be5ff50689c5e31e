package main

import (
	"reflect"
	"testing"
	"time"
)

type noteEvent struct {
	on       bool
	note     uint8
	velocity uint8
}

type recordingSink struct {
	events []noteEvent
}

func (s *recordingSink) NoteOn(note, velocity uint8) {
	s.events = append(s.events, noteEvent{on: true, note: note, velocity: velocity})
}

func (s *recordingSink) NoteOff(note uint8) {
	s.events = append(s.events, noteEvent{note: note})
}

func TestKeyboardNotes(t *testing.T) {
	k := newKeyboard(&recordingSink{}, KeysConfig{GateMs: 100, Velocity: 100})
	tests := []struct {
		key  byte
		want uint8
	}{
		{'z', 48},
		{'Z', 48},
		{'s', 49},
		{'/', 64},
		{'q', 60},
		{'y', 69},
		{'2', 61},
		{'p', 76},
	}
	for _, tt := range tests {
		got, ok := k.note(tt.key)
		if !ok {
			t.Errorf("%q: expected a note", tt.key)
			continue
		}
		if want := tt.want; want != got {
			t.Errorf("%q: want %v, got %v", tt.key, want, got)
		}
	}
	for _, key := range []byte{'f', 'k', '4', '8', ' ', 'a'} {
		if _, ok := k.note(key); ok {
			t.Errorf("%q: expected no note", key)
		}
	}
}

func TestKeyboardControls(t *testing.T) {
	k := newKeyboard(&recordingSink{}, KeysConfig{GateMs: 100, Velocity: 100})
	now := time.Now()

	for i := 0; i < 6; i++ {
		k.handleKey('=', now)
	}
	if want, got := maxOctaveShift, k.octave; want != got {
		t.Errorf("octave: want %v, got %v", want, got)
	}
	if note, _ := k.note('p'); note != 124 {
		t.Errorf("p at +4: want 124, got %v", note)
	}
	for i := 0; i < 10; i++ {
		k.handleKey('-', now)
	}
	if want, got := -maxOctaveShift, k.octave; want != got {
		t.Errorf("octave: want %v, got %v", want, got)
	}

	msg, _ := k.handleKey('[', now)
	if want, got := "velocity 90", msg; want != got {
		t.Errorf("want %q, got %q", want, got)
	}
	for i := 0; i < 5; i++ {
		k.handleKey(']', now)
	}
	if want, got := uint8(127), k.velocity; want != got {
		t.Errorf("velocity: want %v, got %v", want, got)
	}

	for _, key := range []byte{keyEsc, keyCtrlC} {
		if _, quit := k.handleKey(key, now); !quit {
			t.Errorf("%#x should quit", key)
		}
	}
}

func TestKeyboardGate(t *testing.T) {
	sink := &recordingSink{}
	k := newKeyboard(sink, KeysConfig{GateMs: 100, Velocity: 80})
	start := time.Now()

	msg, quit := k.handleKey('y', start)
	if quit {
		t.Fatal("note key should not quit")
	}
	if want, got := "A4", msg; want != got {
		t.Errorf("want %q, got %q", want, got)
	}
	k.handleKey('q', start.Add(50*time.Millisecond))

	k.release(start.Add(99 * time.Millisecond))
	if want, got := []noteEvent{{true, 69, 80}, {true, 60, 80}}, sink.events; !reflect.DeepEqual(want, got) {
		t.Fatalf("want %v, got %v", want, got)
	}

	k.release(start.Add(100 * time.Millisecond))
	if want, got := (noteEvent{note: 69}), sink.events[len(sink.events)-1]; want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	if want, got := 1, len(k.held); want != got {
		t.Errorf("held: want %v, got %v", want, got)
	}

	k.releaseAll()
	if want, got := (noteEvent{note: 60}), sink.events[len(sink.events)-1]; want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	if want, got := 0, len(k.held); want != got {
		t.Errorf("held: want %v, got %v", want, got)
	}
}

func TestKeyboardRetrigger(t *testing.T) {
	sink := &recordingSink{}
	k := newKeyboard(sink, KeysConfig{GateMs: 100, Velocity: 100})
	now := time.Now()
	k.handleKey('e', now)
	k.handleKey('e', now.Add(10*time.Millisecond))

	if want, got := []noteEvent{{true, 64, 100}, {false, 64, 0}, {true, 64, 100}}, sink.events; !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
	// The gate restarts from the second press.
	k.release(now.Add(100 * time.Millisecond))
	if want, got := 1, len(k.held); want != got {
		t.Errorf("held: want %v, got %v", want, got)
	}
}
