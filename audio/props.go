package audio

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
)

const (
	PropWave             = "wave"
	PropEnvAttack        = "env.attack"
	PropEnvDecay         = "env.decay"
	PropEnvSustain       = "env.sustain"
	PropEnvRelease       = "env.release"
	PropReleaseFromLevel = "env.release_from_level"
	PropVolume           = "volume"
)

// Props is a registry of named parameters. Values live in atomic.Values so
// the audio goroutine can read them while another goroutine calls Set.
// Registration is not synchronized and must finish before Props is shared.
type Props struct {
	properties map[string]*property
}

type property struct {
	value atomic.Value
	set   setter
}

func NewProps() *Props {
	return &Props{properties: make(map[string]*property)}
}

func (p *Props) lookup(key string) (*property, error) {
	prop, ok := p.properties[key]
	if !ok {
		return nil, fmt.Errorf("unknown property %s (use: %s)", key, strings.Join(p.Keys(), ", "))
	}
	return prop, nil
}

// Set validates value and stores it under key.
func (p *Props) Set(key string, value interface{}) error {
	prop, err := p.lookup(key)
	if err != nil {
		return err
	}
	if err := prop.set(value, &prop.value); err != nil {
		return fmt.Errorf("set property %s: %w", key, err)
	}
	return nil
}

func (p *Props) Get(key string) (interface{}, error) {
	prop, err := p.lookup(key)
	if err != nil {
		return nil, err
	}
	return prop.value.Load(), nil
}

// Keys returns the registered property names in sorted order.
func (p *Props) Keys() []string {
	keys := make([]string, 0, len(p.properties))
	for k := range p.properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Register adds key with its setter and initial value. The returned value
// is what readers load from.
func (p *Props) Register(key string, set setter, init interface{}) (*atomic.Value, error) {
	if _, ok := p.properties[key]; ok {
		return nil, fmt.Errorf("property %s registered twice", key)
	}
	prop := &property{set: set}
	if err := set(init, &prop.value); err != nil {
		return nil, fmt.Errorf("register %s: %w", key, err)
	}
	p.properties[key] = prop
	return &prop.value, nil
}

func (p *Props) MustRegister(key string, set setter, init interface{}) *atomic.Value {
	v, err := p.Register(key, set, init)
	if err != nil {
		panic(err)
	}
	return v
}

type setter func(val interface{}, dest *atomic.Value) error

var (
	setEnvTime = setUint32(0, 10_000)
	setPercent = setUint32(0, 100)
)

func setUint32(min, max uint32) setter {
	return func(v interface{}, dest *atomic.Value) error {
		var n int64
		switch x := v.(type) {
		case int:
			n = int64(x)
		case uint32:
			n = int64(x)
		case int64:
			n = x
		case float64:
			n = int64(x)
		default:
			return fmt.Errorf("value is not a number: %v", v)
		}
		if n < int64(min) || n > int64(max) {
			return fmt.Errorf("property value is not in valid range %v - %v: %v", min, max, n)
		}
		dest.Store(uint32(n))
		return nil
	}
}

func setVolume(v interface{}, dest *atomic.Value) error {
	var n atomic.Value
	if err := setUint32(0, 255)(v, &n); err != nil {
		return err
	}
	dest.Store(uint8(n.Load().(uint32)))
	return nil
}

func setWaveform(v interface{}, dest *atomic.Value) error {
	switch x := v.(type) {
	case Waveform:
		dest.Store(x)
		return nil
	case string:
		w, ok := ParseWaveform(x)
		if !ok {
			return fmt.Errorf("not a valid waveform type: %v", x)
		}
		dest.Store(w)
		return nil
	}
	return fmt.Errorf("value is not a string: %v", v)
}

func setBool(v interface{}, dest *atomic.Value) error {
	switch x := v.(type) {
	case bool:
		dest.Store(x)
	case int:
		dest.Store(x != 0)
	case string:
		switch x {
		case "on", "true", "yes":
			dest.Store(true)
		case "off", "false", "no":
			dest.Store(false)
		default:
			return fmt.Errorf("not a valid switch value: %v", x)
		}
	default:
		return fmt.Errorf("value is not a bool: %v", v)
	}
	return nil
}
