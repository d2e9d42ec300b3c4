package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"

	"github.com/wippyai/jsa-runtime/errors"
	"github.com/wippyai/jsa-runtime/jsa"
	"github.com/wippyai/jsa-runtime/runtime"
)

func main() {
	var (
		expr        = flag.String("e", "", "Evaluate expression and exit")
		funcName    = flag.String("func", "", "Global function to call after loading the script")
		funcArgs    = flag.String("args", "", "Arguments for -func (comma-separated)")
		noConsole   = flag.Bool("no-console", false, "Do not install console.log")
		interactive = flag.Bool("i", false, "Interactive REPL with TUI")
	)
	flag.Parse()

	scriptFile := flag.Arg(0)

	// With no script and a terminal on stdin, default to the REPL.
	if *interactive || (*expr == "" && scriptFile == "" && term.IsTerminal(int(os.Stdin.Fd()))) {
		if err := runInteractive(scriptFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(scriptFile, *expr, *funcName, *funcArgs, !*noConsole); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(scriptFile, expr, funcName, argsStr string, console bool) error {
	rt, err := runtime.New(&runtime.Options{
		SourceURL:     scriptFile,
		EnableConsole: console,
	})
	if err != nil {
		return fmt.Errorf("create runtime: %w", err)
	}
	defer rt.Close()

	// Script from a file, stdin ("-" or piped), or -e.
	if scriptFile != "" || expr == "" {
		source, sourceURL, err := readScript(scriptFile)
		if err != nil {
			return err
		}
		if _, err := rt.EvalSource(string(source), sourceURL, 0); err != nil {
			return formatJSError(err)
		}
	}

	if expr != "" {
		v, err := rt.EvalSource(expr, "<arg>", 0)
		if err != nil {
			return formatJSError(err)
		}
		return printValue(rt, v)
	}

	if funcName != "" {
		var args []any
		if argsStr != "" {
			for _, a := range strings.Split(argsStr, ",") {
				args = append(args, parseArg(a))
			}
		}
		v, err := rt.Call(funcName, args...)
		if err != nil {
			return formatJSError(err)
		}
		return printValue(rt, v)
	}

	return nil
}

func readScript(scriptFile string) ([]byte, string, error) {
	if scriptFile == "" || scriptFile == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return data, "<stdin>", nil
	}
	data, err := os.ReadFile(scriptFile)
	if err != nil {
		return nil, "", fmt.Errorf("read file: %w", err)
	}
	return data, scriptFile, nil
}

// parseArg interprets a CLI argument as a number, boolean, or string.
func parseArg(s string) any {
	s = strings.TrimSpace(s)
	switch s {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	var f float64
	if _, err := fmt.Sscanf(s, "%g", &f); err == nil {
		return f
	}
	return s
}

func printValue(rt *runtime.Runtime, v jsa.Value) error {
	if v.IsUndefined() {
		return nil
	}
	exported, err := runtime.Export(rt.Context(), v)
	if err != nil {
		return err
	}
	fmt.Println(formatExported(exported))
	return nil
}

// formatExported renders exported Go data roughly the way a JS REPL would.
func formatExported(v any) string {
	switch tv := v.(type) {
	case nil:
		return "null"
	case string:
		return tv
	case []byte:
		return fmt.Sprintf("ArrayBuffer(%d)", len(tv))
	case []any:
		parts := make([]string, len(tv))
		for i, item := range tv {
			parts[i] = formatExported(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		parts := make([]string, 0, len(tv))
		for k, item := range tv {
			parts = append(parts, k+": "+formatExported(item))
		}
		sort.Strings(parts)
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprintf("%v", tv)
	}
}

func formatJSError(err error) error {
	js, ok := errors.IsJSError(err)
	if !ok {
		return err
	}
	if js.Stack != "" {
		return fmt.Errorf("%s\n%s", js.Message, js.Stack)
	}
	return fmt.Errorf("%s", js.Message)
}
