package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/wildfunctions/algebra/pkg/engine"
)

const prompt = "\033[32m>\033[0m "

// repl reads one request per line until EOF or an interrupt on an empty line.
func repl(e *engine.Engine, cfg engine.Config) error {
	history := ""
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, ".algebra_history")
	}
	l, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       history,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer l.Close()

	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			if line == "" {
				return nil
			}
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r := e.Run(line)
		if r.Err != nil {
			fmt.Fprintf(l.Stderr(), "error: %v\n", r.Err)
			continue
		}
		out := r.Output
		if cfg.LaTeX {
			out = r.LaTeX
		}
		fmt.Fprintf(l.Stdout(), "%s: %s\n", r.Operation, out)
	}
}
