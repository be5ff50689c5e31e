package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mrdg/trustsynth/audio"
)

const stepWidth = 4

func renderPattern(w io.Writer, p *audio.Pattern) {
	env := p.Envelope
	fmt.Fprintf(w, "%s  ♩ = %d  %s  A=%dms D=%dms S=%d%% R=%dms\n",
		colorize(p.Name, colorBlue), p.BPM, p.Waveform,
		audio.SamplesToMs(env.AttackSamples), audio.SamplesToMs(env.DecaySamples),
		env.SustainPercent(), audio.SamplesToMs(env.ReleaseSamples))

	var numbers, notes, waves strings.Builder
	for i, s := range p.Steps {
		sep := ""
		if i > 0 && i%audio.StepsPerBeat == 0 {
			sep = " "
		}
		numbers.WriteString(sep + fmt.Sprintf("%*d", stepWidth, i+1))
		note := fmt.Sprintf("%*s", stepWidth, s.String())
		if !s.IsRest() {
			note = colorize(note, colorGreen)
		}
		notes.WriteString(sep + note)
		waves.WriteString(sep + fmt.Sprintf("%*s", stepWidth, s.WaveName()))
	}
	fmt.Fprintln(w, colorize(numbers.String(), colorMagenta))
	fmt.Fprintln(w, notes.String())
	fmt.Fprintln(w, waves.String())
}

func renderPatternList(w io.Writer, patterns []*audio.Pattern) {
	if len(patterns) == 0 {
		fmt.Fprintln(w, "no patterns")
		return
	}
	var maxNameLen int
	for _, p := range patterns {
		maxNameLen = max(maxNameLen, len(p.Name))
	}
	for i, p := range patterns {
		name := p.Name + strings.Repeat(" ", maxNameLen-len(p.Name))
		fmt.Fprintf(w, "%2d %s %3d steps %3d bpm %-8s %5d ms\n",
			i+1, colorize(name, colorBlue), p.Len(), p.BPM, p.Waveform, p.TotalDurationMs())
	}
}

func renderStatus(w io.Writer, status string, playing bool, patterns int) {
	io.WriteString(w, status)
	state := "idle"
	if playing {
		state = colorize("playing", colorGreen)
	}
	fmt.Fprintf(w, "  Playback: %s\n", state)
	fmt.Fprintf(w, "  Patterns: %d/%d\n", patterns, audio.MaxPatterns)
}

func renderProp(w io.Writer, key string, v interface{}) {
	fmt.Fprintf(w, "%s = %v\n", colorize(key, colorYellow), v)
}

func renderHelp(w io.Writer, cmd command) {
	fmt.Fprintf(w, "  %-52s %s\n", colorize(cmd.usage, colorGreen), cmd.help)
}

const (
	colorBlack = iota + 30
	colorRed
	colorGreen
	colorYellow
	colorBlue
	colorMagenta
)

func colorize(text string, color int) string {
	return fmt.Sprintf("\033[%dm%s\033[0m", color, text)
}
