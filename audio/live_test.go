package audio

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestPropsDefaults(t *testing.T) {
	l := NewLive(NewEngine())
	tests := []struct {
		key  string
		want interface{}
	}{
		{PropWave, Sine},
		{PropEnvAttack, uint32(10)},
		{PropEnvDecay, uint32(50)},
		{PropEnvSustain, uint32(70)},
		{PropEnvRelease, uint32(100)},
		{PropReleaseFromLevel, false},
		{PropVolume, uint8(200)},
	}
	for _, tt := range tests {
		got, err := l.Get(tt.key)
		if err != nil {
			t.Fatal(err)
		}
		if want := tt.want; !reflect.DeepEqual(want, got) {
			t.Errorf("%s: want %v (%T), got %v (%T)", tt.key, want, want, got, got)
		}
	}

	if want, got := []string{
		PropEnvAttack, PropEnvDecay, PropEnvRelease, PropReleaseFromLevel, PropEnvSustain, PropVolume, PropWave,
	}, l.Keys(); !reflect.DeepEqual(want, got) {
		t.Errorf("keys: want %v, got %v", want, got)
	}
}

func TestLivePropsSet(t *testing.T) {
	l := NewLive(NewEngine())
	tests := []struct {
		key     string
		value   interface{}
		want    interface{}
		wantErr bool
	}{
		{key: PropWave, value: "saw", want: Sawtooth},
		{key: PropWave, value: Noise, want: Noise},
		{key: PropWave, value: "organ", wantErr: true},
		{key: PropWave, value: 3, wantErr: true},
		{key: PropEnvAttack, value: 250, want: uint32(250)},
		{key: PropEnvAttack, value: 2.5, want: uint32(2)},
		{key: PropEnvAttack, value: 10_001, wantErr: true},
		{key: PropEnvAttack, value: -1, wantErr: true},
		{key: PropEnvSustain, value: 100, want: uint32(100)},
		{key: PropEnvSustain, value: 101, wantErr: true},
		{key: PropEnvRelease, value: "long", wantErr: true},
		{key: PropReleaseFromLevel, value: "on", want: true},
		{key: PropReleaseFromLevel, value: 0, want: false},
		{key: PropReleaseFromLevel, value: "maybe", wantErr: true},
		{key: PropVolume, value: 255, want: uint8(255)},
		{key: PropVolume, value: 256, wantErr: true},
		{key: "filter.cutoff", value: 1, wantErr: true},
	}
	for _, tt := range tests {
		err := l.Set(tt.key, tt.value)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s=%v: expected error", tt.key, tt.value)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s=%v: %v", tt.key, tt.value, err)
			continue
		}
		got, _ := l.Get(tt.key)
		if want := tt.want; !reflect.DeepEqual(want, got) {
			t.Errorf("%s=%v: want %v, got %v", tt.key, tt.value, want, got)
		}
	}
}

func TestLoadPreset(t *testing.T) {
	e := NewEngine()
	l := NewLive(e)
	if err := LoadPreset("pad", l); err != nil {
		t.Fatal(err)
	}
	l.Configure(e)
	if want, got := PadEnvelope(), e.Envelope; want != got {
		t.Errorf("envelope: want %+v, got %+v", want, got)
	}
	if err := LoadPreset("strings", l); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("want ErrUnknownPreset, got %v", err)
	}
}

func TestPresetsMatchEnvelopes(t *testing.T) {
	if want, got := []string{"default", "organ", "pluck", "pad"}, PresetNames(); !reflect.DeepEqual(want, got) {
		t.Fatalf("want %v, got %v", want, got)
	}
	for _, name := range PresetNames() {
		e := NewEngine()
		l := NewLive(e)
		if err := LoadPreset(name, l); err != nil {
			t.Fatal(err)
		}
		l.Configure(e)
		want, err := LookupEnvelope(name)
		if err != nil {
			t.Fatal(err)
		}
		if got := e.Envelope; want != got {
			t.Errorf("%s: want %+v, got %+v", name, want, got)
		}
	}
	if _, err := LookupEnvelope("strings"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("want ErrUnknownPreset, got %v", err)
	}
}

func TestLiveProcessAppliesProps(t *testing.T) {
	e := NewEngine()
	l := NewLive(e)
	if err := l.Set(PropWave, "square"); err != nil {
		t.Fatal(err)
	}
	if err := LoadPreset("organ", l); err != nil {
		t.Fatal(err)
	}
	if err := l.Set(PropReleaseFromLevel, true); err != nil {
		t.Fatal(err)
	}

	// Nothing changes until the audio side runs.
	if want, got := Sine, e.Waveform; want != got {
		t.Errorf("waveform before Process: want %v, got %v", want, got)
	}

	l.Process(make([]int16, 64))
	want := OrganEnvelope()
	want.ReleaseFromLevel = true
	if got := e.Envelope; want != got {
		t.Errorf("envelope: want %+v, got %+v", want, got)
	}
	if want, got := Square, e.Waveform; want != got {
		t.Errorf("waveform: want %v, got %v", want, got)
	}
}

func TestLiveProcessEvents(t *testing.T) {
	e := NewEngine()
	l := NewLive(e)
	l.NoteOn(60, 100)
	l.NoteOn(64, 100)
	l.NoteOff(60)

	if want, got := 0, e.ActiveVoiceCount(); want != got {
		t.Fatalf("active voices before Process: want %v, got %v", want, got)
	}

	out := make([]int16, 256*Channels)
	l.Process(out)
	if want, got := 2, e.ActiveVoiceCount(); want != got {
		t.Errorf("active voices: want %v, got %v", want, got)
	}
	if want, got := EnvRelease, e.Voices[0].Env.State(); want != got {
		t.Errorf("voice 0: want %v, got %v", want, got)
	}
	if want, got := EnvAttack, e.Voices[1].Env.State(); want != got {
		t.Errorf("voice 1: want %v, got %v", want, got)
	}

	l.AllNotesOff()
	l.Process(out)
	if want, got := EnvRelease, e.Voices[1].Env.State(); want != got {
		t.Errorf("voice 1 after all notes off: want %v, got %v", want, got)
	}
}

func TestLiveProcessOddBuffer(t *testing.T) {
	l := NewLive(NewEngine())
	out := []int16{1, 2, 3, 4, 5}
	l.Process(out)
	if want, got := []int16{0, 0, 0, 0, 0}, out; !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestLivePlay(t *testing.T) {
	l := NewLive(NewEngine())
	if l.Playing() {
		t.Fatal("nothing queued yet")
	}
	l.Play([]int16{100, 100, 200, 200, 32000, 32000})
	if !l.Playing() {
		t.Fatal("expected queued buffer")
	}

	out := make([]int16, 4)
	l.Process(out)
	if want, got := []int16{100, 100, 200, 200}, out; !reflect.DeepEqual(want, got) {
		t.Errorf("first buffer: want %v, got %v", want, got)
	}
	l.Process(out)
	if want, got := []int16{32000, 32000, 0, 0}, out; !reflect.DeepEqual(want, got) {
		t.Errorf("second buffer: want %v, got %v", want, got)
	}
	if l.Playing() {
		t.Error("buffer should be finished")
	}
}

func TestLivePlayMixesAndClamps(t *testing.T) {
	newEngine := func() *Engine {
		e := NewEngine()
		e.SetWaveform(Square)
		e.SetEnvelope(OrganEnvelope())
		e.SetMasterVolume(255)
		return e
	}
	const frames = 300

	dry := newEngine()
	dry.NoteOn(69, 127)
	want := make([]int16, frames*Channels)
	dry.Render(want, frames)

	l := NewLive(newEngine())
	l.NoteOn(69, 127)
	tape := make([]int16, frames*Channels)
	for i := range tape {
		tape[i] = 20000
	}
	l.Play(tape)
	got := make([]int16, frames*Channels)
	l.Process(got)

	var clipped bool
	for i := range want {
		w := int16(clamp(int32(want[i])+20000, -maxLevel, maxLevel))
		if w == maxLevel {
			clipped = true
		}
		if w != got[i] {
			t.Fatalf("sample %d: want %v, got %v", i, w, got[i])
		}
	}
	if !clipped {
		t.Error("expected some samples to clip")
	}
}

func TestLiveVoices(t *testing.T) {
	l := NewLive(NewEngine())
	if err := l.Set(PropWave, "saw"); err != nil {
		t.Fatal(err)
	}
	l.NoteOn(60, 100)
	l.NoteOn(64, 90)
	buf := make([]int16, 64*Channels)
	l.Process(buf)

	want := []VoiceStatus{
		{Index: 0, Note: 60, Velocity: 100, Env: EnvAttack, Waveform: Sawtooth},
		{Index: 1, Note: 64, Velocity: 90, Env: EnvAttack, Waveform: Sawtooth},
	}
	if got := l.Voices(); !reflect.DeepEqual(want, got) {
		t.Errorf("want %+v, got %+v", want, got)
	}
	status := l.Status()
	for _, line := range []string{
		"Active Voices: 2/8",
		"Voice 0: C4 vel=100 env=Atk wf=Saw",
		"Voice 1: E4 vel=90 env=Atk wf=Saw",
	} {
		if !strings.Contains(status, line) {
			t.Errorf("status missing %q:\n%s", line, status)
		}
	}

	// default release is 100 ms, 4800 frames
	l.AllNotesOff()
	for i := 0; i < 100; i++ {
		l.Process(buf)
	}
	if got := l.Voices(); len(got) != 0 {
		t.Errorf("want no voices after release, got %+v", got)
	}
}
