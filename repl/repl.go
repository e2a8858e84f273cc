package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"stg/lexer"
	"stg/machine"
	"stg/parser"
	"strings"

	"github.com/peterh/liner"
)

const (
	prompt      = "stg> "
	historyFile = ".stg_history"
)

func red(s string) string { return "\x1b[31m" + s + "\x1b[0m" }

// Start runs the interactive loop. Each line is a whole program and
// must bind main; the machine runs it to halt and prints the terminal
// instruction. Type :quit (or Ctrl+D) to exit.
func Start(out io.Writer) {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		line, err := ln.Prompt(prompt)
		if err == io.EOF {
			fmt.Fprintln(out)
			return
		}
		if err == liner.ErrPromptAborted {
			continue
		}
		if err != nil {
			fmt.Fprintln(out, red(err.Error()))
			return
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.TrimSpace(line) == ":quit" {
			return
		}

		run(out, line)
		ln.AppendHistory(line)
	}
}

func run(out io.Writer, line string) {
	p := parser.New(lexer.New(line))
	program := p.ParseProgram()

	if errs := p.Errors(); len(errs) > 0 {
		for _, msg := range errs {
			fmt.Fprintln(out, red("parse error: "+msg))
		}
		return
	}

	st, err := machine.Compile(program)
	if err != nil {
		fmt.Fprintln(out, red(err.Error()))
		return
	}
	st.Quiet = true

	if err := machine.Run(st); err != nil {
		fmt.Fprintln(out, red(err.Error()))
		return
	}

	fmt.Fprintln(out, st.Code.Inspect())
}
