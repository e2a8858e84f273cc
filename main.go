package main

import (
	"fmt"
	"os"
	"stg/lexer"
	"stg/machine"
	"stg/parser"
	"stg/repl"
)

const appName = "stg"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch cmd := os.Args[1]; cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:], false))
	case "trace":
		os.Exit(cmdRun(os.Args[2:], true))
	case "repl":
		fmt.Println("Welcome to the STG REPL.")
		fmt.Println("Each line is a program; it must bind main.")
		repl.Start(os.Stdout)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`Usage:
  %s run <file.stg>      Run a program and print the terminal instruction.
  %s trace <file.stg>    Run a program, printing every machine state.
  %s repl                Start the REPL.
`, appName, appName, appName)
}

func cmdRun(args []string, trace bool) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run|trace <file.stg>\n", appName)
		return 2
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, args[0], err)
		return 1
	}

	p := parser.New(lexer.New(string(src)))
	program := p.ParseProgram()

	if errs := p.Errors(); len(errs) > 0 {
		for _, msg := range errs {
			fmt.Fprintf(os.Stderr, "parse error: %s\n", msg)
		}
		return 1
	}

	st, err := machine.Compile(program)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if trace {
		if err := machine.Trace(st, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	st.Quiet = true
	if err := machine.Run(st); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fmt.Println(st.Code.Inspect())
	return 0
}
