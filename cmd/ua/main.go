// Command ua is the ua interpreter CLI.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"nickandperla.net/ua/pkg/ua"
)

func main() {
	var (
		evalStr   = flag.String("e", "", "Evaluate ua string")
		file      = flag.String("f", "", "Execute ua file")
		fmtOnly   = flag.Bool("fmt", false, "Format the file (or -e string) and exit")
		modeStr   = flag.String("mode", "normal", "Run mode: normal, test, or all")
		dir       = flag.String("dir", ".", "Directory imports resolve against")
		histPath  = flag.String("history", "", "SQLite history path (REPL only)")
		verbosity = flag.Int("v", 0, "Log verbosity")
	)

	flag.Parse()

	commonlog.Configure(*verbosity, nil)

	mode, err := ua.ParseMode(*modeStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	opts := []ua.Option{
		ua.WithMode(mode),
		ua.WithDir(*dir),
	}
	if *histPath != "" {
		opts = append(opts, ua.WithSQLiteHistory(*histPath))
	}

	runtime := ua.New(opts...)
	defer runtime.Close()

	switch {
	case *fmtOnly && *file != "":
		if err := runtime.FormatFile(*file); err != nil {
			fatal(err)
		}

	case *fmtOnly && *evalStr != "":
		formatted, err := runtime.Format(*evalStr)
		if err != nil {
			fatal(err)
		}
		fmt.Print(formatted)

	case *evalStr != "":
		if err := runtime.Run(*evalStr); err != nil {
			fatal(err)
		}
		printStack(runtime)

	case *file != "":
		if err := runtime.RunFile(*file); err != nil {
			fatal(err)
		}
		printStack(runtime)

	case !isTerminal(os.Stdin):
		input, err := io.ReadAll(os.Stdin)
		if err != nil {
			fatal(err)
		}
		if err := runtime.Run(string(input)); err != nil {
			fatal(err)
		}
		printStack(runtime)

	default:
		runREPL(runtime)
	}
}

// printStack renders the final stack, top first, the way the REPL
// shows results.
func printStack(runtime *ua.Runtime) {
	stack := runtime.Stack()
	for i := len(stack) - 1; i >= 0; i-- {
		fmt.Println(stack[i].Show())
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
