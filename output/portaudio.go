package output

import (
	"github.com/gordonklaus/portaudio"

	"github.com/mrdg/trustsynth/audio"
)

type portAudio struct {
	stream *portaudio.Stream
}

func openPortAudio(src Source, frames int) (*portAudio, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	stream, err := portaudio.OpenDefaultStream(0, audio.Channels, audio.SampleRate, frames, src.Process)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	return &portAudio{stream: stream}, nil
}

func (p *portAudio) Start() error {
	return p.stream.Start()
}

func (p *portAudio) Close() error {
	p.stream.Stop()
	err := p.stream.Close()
	portaudio.Terminate()
	return err
}
