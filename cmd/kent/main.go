package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	kentscript "github.com/musikaalvin/kentscript"
)

const (
	appName    = "kent"
	configFile = "kent.yaml"
	promptMain = ">>> "
	promptCont = "... "
)

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch cmd := os.Args[1]; cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "version":
		fmt.Println(kentscript.Version)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`KentScript %s

Usage:
  %s run <file.kent>    Run a script.
  %s repl               Start the REPL.
  %s version            Print the version.

Configuration is read from %s in the working directory when present.
`, kentscript.Version, appName, appName, appName, configFile)
}

func loadConfig() kentscript.Config {
	cfg, err := kentscript.LoadConfig(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s: %v (using defaults)\n", appName, configFile, err)
	}
	return cfg
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run <file.kent>\n", appName)
		return 2
	}
	cfg := loadConfig()
	ip := kentscript.New(kentscript.WithWorkers(cfg.Workers))
	defer ip.Shutdown()
	if !ip.RunFile(args[0]) {
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(_ []string) int {
	cfg := loadConfig()
	fmt.Printf("KentScript %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.\n",
		kentscript.Version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, cfg.HistoryFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ip := kentscript.New(kentscript.WithWorkers(cfg.Workers))
	defer ip.Shutdown()

	paint := func(color func(string) string, s string) string {
		if !cfg.Color {
			return s
		}
		return color(s)
	}

	for {
		code, ok := readBalanced(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			return 0
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if strings.EqualFold(trimmed, ":quit") {
				return 0
			}
			fmt.Println("unknown command. Type :quit to exit.")
			continue
		}

		v, err := ip.EvalSource(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, paint(red, err.Error()))
			continue
		}
		fmt.Println(paint(blue, kentscript.FormatValue(v)))
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

// readBalanced collects input lines until braces, brackets and parentheses
// balance outside of string literals, so multi-line blocks can be typed
// naturally.
func readBalanced(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if openDelims(b.String()) <= 0 {
			return b.String(), true
		}
	}
}

// openDelims counts unclosed (, [ and { outside string literals and comments.
func openDelims(src string) int {
	depth := 0
	var inStr byte
	for i := 0; i < len(src); i++ {
		c := src[i]
		if inStr != 0 {
			if c == '\\' {
				i++
			} else if c == inStr {
				inStr = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			inStr = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '/':
			if i+1 < len(src) {
				if src[i+1] == '/' {
					for i < len(src) && src[i] != '\n' {
						i++
					}
				} else if src[i+1] == '*' {
					end := strings.Index(src[i+2:], "*/")
					if end < 0 {
						return depth + 1 // unclosed comment keeps reading
					}
					i += 2 + end + 1
				}
			}
		}
	}
	return depth
}
