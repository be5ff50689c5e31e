package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mrdg/trustsynth/audio"
	"github.com/mrdg/trustsynth/dub"
)

const (
	defaultNoteMs   = 500
	defaultVelocity = 100
)

var errNothingRendered = errors.New("nothing rendered yet")

type command struct {
	name     string
	usage    string
	help     string
	run      func(*env, []dub.Node) (string, error)
	arity    int // -n means len(args) must be >= n
	optional int // extra args allowed on top of arity
}

func (c command) checkArity(n int) error {
	if c.arity < 0 {
		if least := -c.arity; n < least {
			return fmt.Errorf("%s: wrong number of arguments: need at least %v, got %v", c.name, least, n)
		}
		return nil
	}
	if n < c.arity || n > c.arity+c.optional {
		return fmt.Errorf("%s: wrong number of arguments: usage: %s", c.name, c.usage)
	}
	return nil
}

var commands []command

func init() {
	commands = []command{
		{"on", "on <note> [velocity]", "start a note on the live engine", onCommand, 1, 1},
		{"off", "off <note>", "release a note", offCommand, 1, 0},
		{"panic", "panic", "release all notes", panicCommand, 0, 0},
		{"note", "note <note> [ms]", "render and play a single note", noteCommand, 1, 1},
		{"freq", "freq <hz> [ms]", "render and play a frequency", freqCommand, 1, 1},
		{"set", "set <property> <value>", "change a synth property", setCommand, 2, 0},
		{"get", "get [property]", "show one or all synth properties", getCommand, 0, 1},
		{"preset", "preset <" + strings.Join(audio.PresetNames(), "|") + ">", "load an envelope preset", presetCommand, 1, 0},
		{"status", "status", "show the engine settings", statusCommand, 0, 0},
		{"save", "save <file.wav>", "write the last rendered sound", saveCommand, 1, 0},
		{"load", "load <file.wav>", "play a 48 kHz 16-bit wav file", loadCommand, 1, 0},
		{"patterns", "patterns", "list patterns", patternsCommand, 0, 0},
		{"pattern", "pattern <new|show|rm|play|wave|env|bpm> <name> ...", "edit and play patterns", patternCommand, -2, 0},
		{"steps", "steps <name> <note>... | steps <name> <note> '<match>", "set pattern steps", stepsCommand, -2, 0},
		{"help", "help [command]", "show this help", helpCommand, 0, 1},
	}
}

var patternCommands = []command{
	{"new", "pattern new <name> [steps] [bpm]", "create an empty pattern", patternNewCommand, 1, 2},
	{"show", "pattern show <name>", "print the step grid", patternShowCommand, 1, 0},
	{"rm", "pattern rm <name>", "delete a pattern", patternRmCommand, 1, 0},
	{"play", "pattern play <name> [loops]", "render and play a pattern", patternPlayCommand, 1, 1},
	{"wave", "pattern wave <name> <waveform>", "set the pattern waveform", patternWaveCommand, 2, 0},
	{"env", "pattern env <name> <preset>", "set the pattern envelope", patternEnvCommand, 2, 0},
	{"bpm", "pattern bpm <name> <bpm>", "set the pattern tempo", patternBPMCommand, 2, 0},
}

func onCommand(e *env, args []dub.Node) (string, error) {
	var note uint8
	velocity := defaultVelocity
	if err := readArgs(args, &note, &velocity); err != nil {
		return "", err
	}
	if velocity < 0 || velocity > 127 {
		return "", fmt.Errorf("velocity out of range 0 - 127: %d", velocity)
	}
	e.live.NoteOn(note, uint8(velocity))
	return "", nil
}

func offCommand(e *env, args []dub.Node) (string, error) {
	var note uint8
	if err := readArgs(args, &note); err != nil {
		return "", err
	}
	e.live.NoteOff(note)
	return "", nil
}

func panicCommand(e *env, args []dub.Node) (string, error) {
	e.live.AllNotesOff()
	return "", nil
}

func durationArg(args []dub.Node) (uint32, error) {
	ms := defaultNoteMs
	if err := readArgs(args, &ms); err != nil {
		return 0, err
	}
	if ms <= 0 || ms > 60_000 {
		return 0, fmt.Errorf("duration out of range 1 - 60000 ms: %d", ms)
	}
	return uint32(ms), nil
}

func noteCommand(e *env, args []dub.Node) (string, error) {
	ms, err := durationArg(args[1:])
	if err != nil {
		return "", err
	}
	var buf []int16
	switch n := args[0].(type) {
	case dub.Identifier:
		buf, err = e.engine().PlayNoteByName(string(n), ms)
		if err != nil {
			return "", err
		}
	default:
		note, err := noteArg(n)
		if err != nil {
			return "", err
		}
		buf = e.engine().RenderNote(note, defaultVelocity, ms)
	}
	e.play(buf)
	return "", nil
}

func freqCommand(e *env, args []dub.Node) (string, error) {
	var hz int
	if err := readArgs(args[:1], &hz); err != nil {
		return "", err
	}
	if hz <= 0 || hz > audio.SampleRate/2 {
		return "", fmt.Errorf("frequency out of range 1 - %d Hz: %d", audio.SampleRate/2, hz)
	}
	ms, err := durationArg(args[1:])
	if err != nil {
		return "", err
	}
	e.play(e.engine().RenderFreq(uint32(hz), ms))
	return "", nil
}

func setCommand(e *env, args []dub.Node) (string, error) {
	var prop string
	if err := readArgs(args[:1], &prop); err != nil {
		return "", err
	}
	switch v := args[1].(type) {
	case dub.Int:
		return "", e.live.Set(prop, int(v))
	case dub.Float:
		return "", e.live.Set(prop, float64(v))
	case dub.String:
		return "", e.live.Set(prop, string(v))
	case dub.Identifier:
		return "", e.live.Set(prop, string(v))
	default:
		return "", fmt.Errorf("unsupported property type: %v", v)
	}
}

func getCommand(e *env, args []dub.Node) (string, error) {
	keys := e.live.Keys()
	if len(args) == 1 {
		var prop string
		if err := readArgs(args, &prop); err != nil {
			return "", err
		}
		keys = []string{prop}
	}
	var b strings.Builder
	for _, k := range keys {
		v, err := e.live.Get(k)
		if err != nil {
			return "", err
		}
		renderProp(&b, k, v)
	}
	return b.String(), nil
}

func presetCommand(e *env, args []dub.Node) (string, error) {
	var name string
	if err := readArgs(args, &name); err != nil {
		return "", err
	}
	return "", audio.LoadPreset(name, e.live)
}

func statusCommand(e *env, args []dub.Node) (string, error) {
	var b strings.Builder
	renderStatus(&b, e.live.Status(), e.live.Playing(), e.bank.Len())
	return b.String(), nil
}

func saveCommand(e *env, args []dub.Node) (string, error) {
	var file string
	if err := readArgs(args, &file); err != nil {
		return "", err
	}
	if len(e.last) == 0 {
		return "", errNothingRendered
	}
	if err := audio.WriteWAV(file, e.last); err != nil {
		return "", err
	}
	return fmt.Sprintf("wrote %d ms to %s\n", audio.SamplesToMs(uint32(len(e.last)/audio.Channels)), file), nil
}

func loadCommand(e *env, args []dub.Node) (string, error) {
	var file string
	if err := readArgs(args, &file); err != nil {
		return "", err
	}
	buf, err := audio.ReadWAV(file)
	if err != nil {
		return "", err
	}
	e.play(buf)
	return "", nil
}

func patternsCommand(e *env, args []dub.Node) (string, error) {
	var b strings.Builder
	renderPatternList(&b, e.bank.Patterns())
	return b.String(), nil
}

func patternCommand(e *env, args []dub.Node) (string, error) {
	var sub string
	if err := readArgs(args[:1], &sub); err != nil {
		return "", err
	}
	return dispatch(e, patternCommands, sub, args[1:])
}

func patternNewCommand(e *env, args []dub.Node) (string, error) {
	var name string
	steps, bpm := 16, audio.DefaultBPM
	if err := readArgs(args, &name, &steps, &bpm); err != nil {
		return "", err
	}
	if steps < 1 || steps > audio.MaxSteps {
		return "", fmt.Errorf("steps out of range 1 - %d: %d", audio.MaxSteps, steps)
	}
	if bpm < 1 || bpm > 999 {
		return "", fmt.Errorf("bpm out of range 1 - 999: %d", bpm)
	}
	if _, err := e.bank.Add(audio.NewPattern(name, steps, uint16(bpm))); err != nil {
		return "", err
	}
	return "", nil
}

func (e *env) pattern(arg dub.Node) (*audio.Pattern, error) {
	var name string
	if err := readArgs([]dub.Node{arg}, &name); err != nil {
		return nil, err
	}
	return e.bank.Get(name)
}

func patternShowCommand(e *env, args []dub.Node) (string, error) {
	p, err := e.pattern(args[0])
	if err != nil {
		return "", err
	}
	var b strings.Builder
	renderPattern(&b, p)
	return b.String(), nil
}

func patternRmCommand(e *env, args []dub.Node) (string, error) {
	var name string
	if err := readArgs(args, &name); err != nil {
		return "", err
	}
	return "", e.bank.Remove(name)
}

func patternPlayCommand(e *env, args []dub.Node) (string, error) {
	p, err := e.pattern(args[0])
	if err != nil {
		return "", err
	}
	loops := 1
	if err := readArgs(args[1:], &loops); err != nil {
		return "", err
	}
	if loops < 1 || loops > 64 {
		return "", fmt.Errorf("loops out of range 1 - 64: %d", loops)
	}
	e.play(p.RenderLoops(e.engine(), loops))
	return "", nil
}

func patternWaveCommand(e *env, args []dub.Node) (string, error) {
	p, err := e.pattern(args[0])
	if err != nil {
		return "", err
	}
	var name string
	if err := readArgs(args[1:], &name); err != nil {
		return "", err
	}
	w, ok := audio.ParseWaveform(name)
	if !ok {
		return "", fmt.Errorf("not a valid waveform type: %s", name)
	}
	p.Waveform = w
	return "", nil
}

func patternEnvCommand(e *env, args []dub.Node) (string, error) {
	p, err := e.pattern(args[0])
	if err != nil {
		return "", err
	}
	var name string
	if err := readArgs(args[1:], &name); err != nil {
		return "", err
	}
	env, err := audio.LookupEnvelope(name)
	if err != nil {
		return "", err
	}
	p.Envelope = env
	return "", nil
}

func patternBPMCommand(e *env, args []dub.Node) (string, error) {
	p, err := e.pattern(args[0])
	if err != nil {
		return "", err
	}
	var bpm int
	if err := readArgs(args[1:], &bpm); err != nil {
		return "", err
	}
	if bpm < 1 || bpm > 999 {
		return "", fmt.Errorf("bpm out of range 1 - 999: %d", bpm)
	}
	p.BPM = uint16(bpm)
	return "", nil
}

// stepsCommand fills a pattern from step 1 with the given notes, or sets every
// step selected by a match expression to one note. Match expressions count
// in 4/4 with sixteenth steps, so the pattern length must be a multiple of 4.
func stepsCommand(e *env, args []dub.Node) (string, error) {
	p, err := e.pattern(args[0])
	if err != nil {
		return "", err
	}
	if expr, ok := args[len(args)-1].(dub.MatchExpr); ok {
		if len(args) != 3 {
			return "", fmt.Errorf("usage: steps <name> <note> '<match>")
		}
		if p.Len()%audio.StepsPerBeat != 0 {
			return "", fmt.Errorf("pattern %s: %d steps is not a whole number of beats", p.Name, p.Len())
		}
		step, err := stepArg(args[1])
		if err != nil {
			return "", err
		}
		idx, err := dub.MatchSteps(expr, p.Len()/audio.StepsPerBeat, 4, 16)
		if err != nil {
			return "", err
		}
		for _, i := range idx {
			p.SetStep(i, step)
		}
		return "", nil
	}

	notes := args[1:]
	if len(notes) > p.Len() {
		return "", fmt.Errorf("%d notes for %d steps: %w", len(notes), p.Len(), audio.ErrStepOutOfRange)
	}
	steps := make([]audio.Step, len(notes))
	for i, n := range notes {
		if steps[i], err = stepArg(n); err != nil {
			return "", err
		}
	}
	for i, s := range steps {
		p.SetStep(i, s)
	}
	return "", nil
}

// stepArg reads a note name, a MIDI note number or a rest ("--" or ".").
func stepArg(arg dub.Node) (audio.Step, error) {
	if id, ok := arg.(dub.Identifier); ok && strings.Trim(string(id), "-.") == "" {
		return audio.RestStep(), nil
	}
	note, err := noteArg(arg)
	if err != nil {
		return audio.Step{}, err
	}
	return audio.NoteStep(note), nil
}

func helpCommand(e *env, args []dub.Node) (string, error) {
	var b strings.Builder
	if len(args) == 1 {
		var name string
		if err := readArgs(args, &name); err != nil {
			return "", err
		}
		if name == "pattern" {
			for _, cmd := range patternCommands {
				renderHelp(&b, cmd)
			}
		}
		for _, cmd := range commands {
			if cmd.name == name && name != "pattern" {
				renderHelp(&b, cmd)
			}
		}
		if b.Len() == 0 {
			return "", fmt.Errorf("unknown command: %s", name)
		}
		return b.String(), nil
	}
	for _, cmd := range commands {
		renderHelp(&b, cmd)
	}
	return b.String(), nil
}
