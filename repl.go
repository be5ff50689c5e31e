package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	log "github.com/golang/glog"

	"github.com/mrdg/trustsynth/audio"
	"github.com/mrdg/trustsynth/dub"
)

type env struct {
	live *audio.Live
	bank *audio.Bank
	last []int16 // most recent rendered buffer, written by save
}

func newEnv(live *audio.Live, bank *audio.Bank) *env {
	return &env{live: live, bank: bank}
}

// engine returns a fresh offline engine using the current live settings.
func (e *env) engine() *audio.Engine {
	eng := audio.NewEngine()
	e.live.Configure(eng)
	return eng
}

// play keeps buf for save and sends it to the output.
func (e *env) play(buf []int16) {
	log.V(1).Infof("playing %d frames", len(buf)/audio.Channels)
	e.last = buf
	e.live.Play(buf)
}

func (e *env) eval(input string) (string, error) {
	command, err := dub.Parse(input)
	if err != nil {
		return "", err
	}
	return dispatch(e, commands, string(command.Name), command.Args)
}

func dispatch(e *env, table []command, name string, args []dub.Node) (string, error) {
	for _, cmd := range table {
		if name != cmd.name {
			continue
		}
		if err := cmd.checkArity(len(args)); err != nil {
			return "", err
		}
		result, err := cmd.run(e, args)
		if err != nil {
			return result, fmt.Errorf("%s error: %w", cmd.name, err)
		}
		return result, nil
	}
	return "", fmt.Errorf("unknown command: %s", name)
}

func repl(e *env, historyFile string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "synth> ",
		HistoryFile:     historyFile,
		AutoComplete:    completer(e),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				return nil
			}
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		result, err := e.eval(line)
		if err != nil {
			log.Warningf("%s: %v", line, err)
			fmt.Fprintln(rl.Stderr(), colorize(err.Error(), colorRed))
			continue
		}
		if result != "" {
			fmt.Fprint(rl.Stdout(), result)
		}
	}
}

func completer(e *env) *readline.PrefixCompleter {
	patterns := readline.PcItemDynamic(func(string) []string { return e.bank.Names() })
	props := readline.PcItemDynamic(func(string) []string { return e.live.Keys() })

	var items []readline.PrefixCompleterInterface
	for _, cmd := range commands {
		switch cmd.name {
		case "pattern":
			var subs []readline.PrefixCompleterInterface
			for _, sub := range patternCommands {
				subs = append(subs, readline.PcItem(sub.name, patterns))
			}
			items = append(items, readline.PcItem(cmd.name, subs...))
		case "steps":
			items = append(items, readline.PcItem(cmd.name, patterns))
		case "set", "get":
			items = append(items, readline.PcItem(cmd.name, props))
		case "preset":
			var names []readline.PrefixCompleterInterface
			for _, name := range audio.PresetNames() {
				names = append(names, readline.PcItem(name))
			}
			items = append(items, readline.PcItem(cmd.name, names...))
		default:
			items = append(items, readline.PcItem(cmd.name))
		}
	}
	return readline.NewPrefixCompleter(items...)
}

// readArgs copies args into slots. Missing trailing args leave their slot
// untouched, so slots can be pre-filled with defaults.
func readArgs(args []dub.Node, slots ...interface{}) error {
	if len(args) > len(slots) {
		return errors.New("too many arguments")
	}
	for n, arg := range args {
		dest := slots[n]
		switch p := dest.(type) {
		case *string:
			switch s := arg.(type) {
			case dub.String:
				*p = string(s)
			case dub.Identifier:
				*p = string(s)
			default:
				return fmt.Errorf("argument error: expected a string or identifier")
			}
		case *float64:
			switch n := arg.(type) {
			case dub.Float:
				*p = float64(n)
			case dub.Int:
				*p = float64(n)
			default:
				return fmt.Errorf("argument error: expected a number")
			}
		case *int:
			n, ok := arg.(dub.Int)
			if !ok {
				return fmt.Errorf("argument error: expected an integer")
			}
			*p = int(n)
		case *uint8:
			note, err := noteArg(arg)
			if err != nil {
				return err
			}
			*p = note
		case *dub.MatchExpr:
			m, ok := arg.(dub.MatchExpr)
			if !ok {
				return fmt.Errorf("argument error: expected a match expression")
			}
			*p = m
		default:
			panic("readArgs: unhandled destination type: " + fmt.Sprint(p))
		}
	}
	return nil
}

// noteArg accepts a note name like "C#4" or a MIDI note number.
func noteArg(arg dub.Node) (uint8, error) {
	switch n := arg.(type) {
	case dub.Identifier:
		note, ok := audio.NoteNameToMIDI(string(n))
		if !ok {
			return 0, fmt.Errorf("%q: %w", string(n), audio.ErrInvalidNoteName)
		}
		return note, nil
	case dub.Int:
		if n < 0 || n > 127 {
			return 0, fmt.Errorf("note number out of range 0 - 127: %d", n)
		}
		return uint8(n), nil
	}
	return 0, fmt.Errorf("argument error: expected a note")
}
