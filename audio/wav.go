package audio

import (
	"errors"
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	wavreader "github.com/youpy/go-wav"
)

const bitDepth = 16

var ErrUnsupportedWAV = errors.New("unsupported wav format")

// WriteWAV stores interleaved stereo samples as a 48 kHz 16-bit PCM file.
func WriteWAV(path string, samples []int16) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	return writeWAV(f, path, samples)
}

type wavFile interface {
	io.WriteSeeker
	io.Closer
}

// writeWAV encodes samples into f and closes it. A failed close is reported
// since it can mean the header was never flushed.
func writeWAV(f wavFile, path string, samples []int16) error {
	enc := wav.NewEncoder(f, SampleRate, bitDepth, Channels, 1)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: Channels,
			SampleRate:  SampleRate,
		},
		Data:           make([]int, len(samples)),
		SourceBitDepth: bitDepth,
	}
	for i, s := range samples {
		buf.Data[i] = int(s)
	}
	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// ReadWAV loads a 48 kHz 16-bit PCM file as interleaved stereo. Mono files
// are duplicated onto both channels.
func ReadWAV(path string) ([]int16, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := wavreader.NewReader(f)
	format, err := r.Format()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if format.BitsPerSample != bitDepth || format.SampleRate != SampleRate {
		return nil, fmt.Errorf("%s: %d Hz %d-bit: %w", path, format.SampleRate, format.BitsPerSample, ErrUnsupportedWAV)
	}
	stereo := format.NumChannels == 2
	if !stereo && format.NumChannels != 1 {
		return nil, fmt.Errorf("%s: %d channels: %w", path, format.NumChannels, ErrUnsupportedWAV)
	}

	var out []int16
	for {
		samples, err := r.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		for _, sample := range samples {
			left := int16(r.IntValue(sample, 0))
			right := left
			if stereo {
				right = int16(r.IntValue(sample, 1))
			}
			out = append(out, left, right)
		}
	}
	return out, nil
}
