package audio

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownPreset = errors.New("unknown preset")

// Device is anything with named, settable parameters, such as Props.
type Device interface {
	Set(key string, val interface{}) error
	Get(key string) (interface{}, error)
}

// envelopePreset holds the millisecond values behind the Envelope presets so
// they can be applied through a Device.
type envelopePreset struct {
	name                            string
	attack, decay, sustain, release int
}

var envelopePresets = []envelopePreset{
	{"default", 10, 50, 70, 100},
	{"organ", 1, 1, 100, 10},
	{"pluck", 2, 200, 0, 50},
	{"pad", 300, 100, 80, 500},
}

// PresetNames lists the envelope presets in display order.
func PresetNames() []string {
	names := make([]string, len(envelopePresets))
	for i, p := range envelopePresets {
		names[i] = p.name
	}
	return names
}

func unknownPreset(name string) error {
	return fmt.Errorf("%w: %v (use: %s)", ErrUnknownPreset, name, strings.Join(PresetNames(), ", "))
}

// LookupEnvelope is EnvelopePreset with an error naming the valid presets.
func LookupEnvelope(name string) (Envelope, error) {
	env, ok := EnvelopePreset(name)
	if !ok {
		return Envelope{}, unknownPreset(name)
	}
	return env, nil
}

// LoadPreset sets the envelope properties of the named preset on d. The
// release mode is left alone.
func LoadPreset(name string, d Device) error {
	for _, p := range envelopePresets {
		if p.name != name {
			continue
		}
		for _, kv := range []struct {
			key string
			val int
		}{
			{PropEnvAttack, p.attack},
			{PropEnvDecay, p.decay},
			{PropEnvSustain, p.sustain},
			{PropEnvRelease, p.release},
		} {
			if err := d.Set(kv.key, kv.val); err != nil {
				return fmt.Errorf("preset %s: %w", name, err)
			}
		}
		return nil
	}
	return unknownPreset(name)
}
