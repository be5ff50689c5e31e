package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	log "github.com/golang/glog"

	"github.com/mrdg/trustsynth/audio"
	"github.com/mrdg/trustsynth/output"
)

type renderOptions struct {
	file    string
	note    string
	freq    int
	pattern string
	loops   int
	dur     int
}

func main() {
	var (
		configFile = flag.String("config", "", "TOML config file")
		backend    = flag.String("backend", "", "audio backend: portaudio or oto")
		run        = flag.String("run", "", "file with commands to run before the prompt")
		history    = flag.String("history", "", "file to keep command history in")
		keys       = flag.Bool("keys", false, "play the synth from the computer keyboard")
		render     renderOptions
	)
	flag.StringVar(&render.file, "render", "", "write a wav file instead of starting audio output")
	flag.StringVar(&render.note, "note", "A4", "note to render")
	flag.IntVar(&render.freq, "freq", 0, "frequency to render instead of -note")
	flag.StringVar(&render.pattern, "pattern", "", "pattern to render instead of -note")
	flag.IntVar(&render.loops, "loops", 1, "pattern loops to render")
	flag.IntVar(&render.dur, "dur", 500, "note length in ms")
	flag.Parse()

	cfg := defaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = ParseConfigFile(*configFile); err != nil {
			log.Exitf("failed to load config: %v", err)
		}
	}
	if *backend != "" {
		cfg.Backend = *backend
		if err := cfg.validate(); err != nil {
			log.Exitf("invalid flags: %v", err)
		}
	}

	live := audio.NewLive(audio.NewEngine())
	if err := cfg.Synth.apply(live); err != nil {
		log.Exitf("failed to configure synth: %v", err)
	}
	bank := audio.NewBank()
	bank.LoadPresets()
	if err := cfg.addPatterns(bank); err != nil {
		log.Exitf("failed to load patterns: %v", err)
	}
	env := newEnv(live, bank)

	if render.file != "" {
		if err := doRender(env, render); err != nil {
			log.Exitf("failed to render: %v", err)
		}
		return
	}

	out, err := output.Open(cfg.Backend, live, cfg.FramesPerBuffer)
	if err != nil {
		log.Exitf("failed to open %s output: %v", cfg.Backend, err)
	}
	defer out.Close()
	if err := out.Start(); err != nil {
		log.Exitf("failed to start %s output: %v", cfg.Backend, err)
	}
	log.Infof("audio started: backend %s, %d frames per buffer", cfg.Backend, cfg.FramesPerBuffer)

	if *run != "" {
		if err := runFile(env, *run); err != nil {
			log.Exitf("failed to run %s: %v", *run, err)
		}
	}

	if *keys {
		err = runKeyboard(newKeyboard(live, cfg.Keys), os.Stdin, os.Stdout)
	} else {
		err = repl(env, *history)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		out.Close()
		os.Exit(1)
	}
}

// doRender writes a pattern, a frequency or a note to a wav file.
func doRender(e *env, opts renderOptions) error {
	if opts.dur <= 0 {
		return fmt.Errorf("-dur must be positive, got %d", opts.dur)
	}
	var buf []int16
	switch {
	case opts.pattern != "":
		p, err := e.bank.Get(opts.pattern)
		if err != nil {
			return err
		}
		buf = p.RenderLoops(e.engine(), opts.loops)
	case opts.freq > 0:
		buf = e.engine().RenderFreq(uint32(opts.freq), uint32(opts.dur))
	default:
		var err error
		if buf, err = e.engine().PlayNoteByName(opts.note, uint32(opts.dur)); err != nil {
			return err
		}
	}
	if err := audio.WriteWAV(opts.file, buf); err != nil {
		return err
	}
	log.Infof("wrote %d frames to %s", len(buf)/audio.Channels, opts.file)
	return nil
}

// runFile evaluates one command per line. Blank lines and lines starting
// with '#' are skipped.
func runFile(e *env, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		result, err := e.eval(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		fmt.Print(result)
	}
	return scanner.Err()
}
