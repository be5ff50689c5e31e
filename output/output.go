// Package output connects an audio source to the sound card.
package output

import (
	"errors"
	"fmt"
)

// Source fills interleaved stereo 16-bit buffers. Process is called from the
// audio thread and must not block.
type Source interface {
	Process(out []int16)
}

type Output interface {
	Start() error
	Close() error
}

var ErrUnknownBackend = errors.New("unknown audio backend")

// Backends lists the names accepted by Open. The first one is the default.
var Backends = []string{"portaudio", "oto"}

// Open prepares a stream that pulls frames per buffer from src. It does not
// start playback.
func Open(backend string, src Source, frames int) (Output, error) {
	var (
		out Output
		err error
	)
	switch backend {
	case "", "portaudio":
		out, err = openPortAudio(src, frames)
	case "oto":
		out, err = openOto(src, frames)
	default:
		return nil, fmt.Errorf("%q: %w", backend, ErrUnknownBackend)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}
