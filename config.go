package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/mrdg/trustsynth/audio"
	"github.com/mrdg/trustsynth/output"
)

type Config struct {
	Backend         string           `toml:"backend"`
	FramesPerBuffer int              `toml:"frames_per_buffer"`
	Synth           SynthConfig      `toml:"synth"`
	Keys            KeysConfig       `toml:"keys"`
	Patterns        []*PatternConfig `toml:"patterns"`
}

// SynthConfig holds the starting engine settings. Unset envelope times keep
// the values of the preset, or of the default envelope when there is none.
type SynthConfig struct {
	Waveform         string `toml:"waveform"`
	Preset           string `toml:"preset"`
	AttackMs         *int   `toml:"attack_ms"`
	DecayMs          *int   `toml:"decay_ms"`
	SustainPct       *int   `toml:"sustain_pct"`
	ReleaseMs        *int   `toml:"release_ms"`
	Volume           *int   `toml:"volume"`
	ReleaseFromLevel bool   `toml:"release_from_level"`
}

type KeysConfig struct {
	GateMs   int `toml:"gate_ms"`
	Velocity int `toml:"velocity"`
}

type PatternConfig struct {
	Name     string   `toml:"name"`
	BPM      int      `toml:"bpm"`
	Waveform string   `toml:"waveform"`
	Preset   string   `toml:"preset"`
	Notes    []string `toml:"notes"`
}

func defaultConfig() *Config {
	return &Config{
		Backend:         output.Backends[0],
		FramesPerBuffer: 256,
		Keys: KeysConfig{
			GateMs:   300,
			Velocity: 100,
		},
	}
}

func ParseConfigFile(file string) (*Config, error) {
	bs, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file at %q: %w", file, err)
	}
	cfg, err := parseConfig(bs)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config from TOML file %q: %w", file, err)
	}
	return cfg, nil
}

func parseConfig(bs []byte) (*Config, error) {
	cfg := defaultConfig()
	if err := toml.Unmarshal(bs, cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if !slices.Contains(output.Backends, c.Backend) {
		return fmt.Errorf("backend %q: %w", c.Backend, output.ErrUnknownBackend)
	}
	if c.FramesPerBuffer <= 0 {
		return fmt.Errorf("frames_per_buffer must be positive, got %d", c.FramesPerBuffer)
	}
	if c.Keys.GateMs <= 0 {
		return fmt.Errorf("keys.gate_ms must be positive, got %d", c.Keys.GateMs)
	}
	if c.Keys.Velocity < 1 || c.Keys.Velocity > 127 {
		return fmt.Errorf("keys.velocity must be in range 1 - 127, got %d", c.Keys.Velocity)
	}
	return nil
}

// apply sets the synth section on d. The preset goes first so explicit
// envelope times override it.
func (s SynthConfig) apply(d audio.Device) error {
	if s.Preset != "" {
		if err := audio.LoadPreset(s.Preset, d); err != nil {
			return err
		}
	}
	if s.Waveform != "" {
		if err := d.Set(audio.PropWave, s.Waveform); err != nil {
			return err
		}
	}
	for _, p := range []struct {
		key string
		val *int
	}{
		{audio.PropEnvAttack, s.AttackMs},
		{audio.PropEnvDecay, s.DecayMs},
		{audio.PropEnvSustain, s.SustainPct},
		{audio.PropEnvRelease, s.ReleaseMs},
		{audio.PropVolume, s.Volume},
	} {
		if p.val == nil {
			continue
		}
		if err := d.Set(p.key, *p.val); err != nil {
			return err
		}
	}
	return d.Set(audio.PropReleaseFromLevel, s.ReleaseFromLevel)
}

// addPatterns builds the configured patterns and stores them in bank.
func (c *Config) addPatterns(bank *audio.Bank) error {
	for _, pc := range c.Patterns {
		p, err := pc.build()
		if err != nil {
			return err
		}
		if _, err := bank.Add(p); err != nil {
			return err
		}
	}
	return nil
}

func (pc *PatternConfig) build() (*audio.Pattern, error) {
	if pc.Name == "" {
		return nil, fmt.Errorf("pattern without a name")
	}
	if len(pc.Notes) == 0 || len(pc.Notes) > audio.MaxSteps {
		return nil, fmt.Errorf("pattern %s: need 1 - %d notes, got %d", pc.Name, audio.MaxSteps, len(pc.Notes))
	}
	if pc.BPM < 0 || pc.BPM > 999 {
		return nil, fmt.Errorf("pattern %s: bpm out of range: %d", pc.Name, pc.BPM)
	}
	p := audio.NewPattern(pc.Name, len(pc.Notes), uint16(pc.BPM))
	if pc.Waveform != "" {
		w, ok := audio.ParseWaveform(pc.Waveform)
		if !ok {
			return nil, fmt.Errorf("pattern %s: not a valid waveform type: %s", pc.Name, pc.Waveform)
		}
		p.Waveform = w
	}
	if pc.Preset != "" {
		env, err := audio.LookupEnvelope(pc.Preset)
		if err != nil {
			return nil, fmt.Errorf("pattern %s: %w", pc.Name, err)
		}
		p.Envelope = env
	}
	for i, n := range pc.Notes {
		if err := p.SetNote(i, n); err != nil {
			return nil, fmt.Errorf("pattern %s: %w", pc.Name, err)
		}
	}
	return p, nil
}
