package audio

const (
	SampleRate     = 48000
	Channels       = 2
	BytesPerSample = 2
	MaxVoices      = 8
)

// MsToSamples converts a duration in milliseconds to a number of frames.
func MsToSamples(ms uint32) uint32 {
	return uint32(uint64(SampleRate) * uint64(ms) / 1000)
}

// SamplesToMs converts a number of frames to milliseconds, rounding down.
func SamplesToMs(samples uint32) uint32 {
	return uint32(uint64(samples) * 1000 / SampleRate)
}
