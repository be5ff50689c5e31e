package output

import (
	"encoding/binary"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/mrdg/trustsynth/audio"
)

type otoOutput struct {
	ctx    *oto.Context
	player *oto.Player
}

func openOto(src Source, frames int) (*otoOutput, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   audio.SampleRate,
		ChannelCount: audio.Channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   time.Duration(frames) * time.Second / audio.SampleRate,
	})
	if err != nil {
		return nil, err
	}
	<-ready
	return &otoOutput{
		ctx:    ctx,
		player: ctx.NewPlayer(newPCMReader(src, frames)),
	}, nil
}

func (o *otoOutput) Start() error {
	o.player.Play()
	return o.player.Err()
}

func (o *otoOutput) Close() error {
	return o.player.Close()
}

// pcmReader turns a Source into the little-endian byte stream oto pulls from.
type pcmReader struct {
	src Source
	buf []int16
}

func newPCMReader(src Source, frames int) *pcmReader {
	return &pcmReader{src: src, buf: make([]int16, frames*audio.Channels)}
}

func (r *pcmReader) Read(p []byte) (int, error) {
	frameBytes := audio.Channels * audio.BytesPerSample
	n := len(p) / frameBytes * audio.Channels
	if cap(r.buf) < n {
		r.buf = make([]int16, n)
	}
	buf := r.buf[:n]
	r.src.Process(buf)
	for i, s := range buf {
		binary.LittleEndian.PutUint16(p[i*audio.BytesPerSample:], uint16(s))
	}
	return n * audio.BytesPerSample, nil
}
