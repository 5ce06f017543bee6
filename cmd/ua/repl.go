package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"nickandperla.net/ua/internal/format"
	"nickandperla.net/ua/internal/scanner"
	"nickandperla.net/ua/internal/word"
	"nickandperla.net/ua/pkg/ua"
)

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func printBanner() {
	fmt.Println("ua REPL (Ctrl+D to exit)")
	fmt.Println()
	fmt.Println("Type primitive names or ASCII digraphs; lines are")
	fmt.Println("formatted to glyphs before they run. `3 is ¯3, * is ×,")
	fmt.Println("% is ÷, a line like `x = 5` becomes `x ← 5`.")
	fmt.Println()
}

func runREPL(runtime *ua.Runtime) {
	printBanner()

	reader := bufio.NewReader(os.Stdin)
	var pending strings.Builder

	for {
		if pending.Len() > 0 {
			fmt.Print("... ")
		} else {
			fmt.Print("ua> ")
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return
		}
		pending.WriteString(strings.TrimRight(line, "\r\n"))

		input := pending.String()
		if strings.TrimSpace(input) == "" {
			pending.Reset()
			continue
		}

		formatted, err := runtime.Format(input)
		if err != nil {
			if incomplete(err) {
				pending.WriteString("\n")
				continue
			}
			pending.Reset()
			fmt.Printf("Error: %v\n", err)
			continue
		}

		// Echo the line when formatting changed it, so glyphs are
		// visible before the result.
		trimmed := strings.TrimRight(formatted, "\n")
		if trimmed != input {
			fmt.Println(trimmed)
		}

		before := len(runtime.Stack())
		if err := runtime.Run(input); err != nil {
			if incomplete(err) {
				pending.WriteString("\n")
				continue
			}
			pending.Reset()
			fmt.Printf("Error: %v\n", err)
			continue
		}
		pending.Reset()

		stack := runtime.Stack()
		if before > len(stack) {
			before = len(stack)
		}
		for i := len(stack) - 1; i >= before; i-- {
			fmt.Println(stack[i].Show())
		}
	}
}

// incomplete reports whether the error means the source just is not
// finished yet, so the REPL should keep reading lines.
func incomplete(err error) bool {
	var fe *format.Error
	if errors.As(err, &fe) {
		return fe.Incomplete
	}
	var se *scanner.IncompleteError
	if errors.As(err, &se) {
		return true
	}
	var ue *word.UnclosedError
	return errors.As(err, &ue)
}
