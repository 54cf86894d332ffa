// Command lb runs letterbox programs.
//
//	lb run examples/fib.lb 7      execute a file with inputs
//	lb repl                       interactive session with persistent variables
//	lb dump examples/fib.lb       show the scanned instructions
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/tevino/abool/v2"

	letterbox "github.com/CNatcharian/letterbox-lang"
)

const (
	appName     = "lb"
	historyFile = ".letterbox_history"
	promptMain  = "==> "
	promptCont  = "... "
)

var (
	banner = fmt.Sprintf("letterbox %s REPL\nCtrl+C cancels a running program, Ctrl+D exits. Type :help for commands.",
		letterbox.Version)
	helpText = `
REPL commands:
  :help    Show this help
  :vars    List the variables that are set
  :reset   Clear every variable
  :quit    Exit the REPL
`

	errColor  = color.New(color.FgRed)
	warnColor = color.New(color.FgYellow)
	headColor = color.New(color.FgCyan)
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch cmd := os.Args[1]; cmd {
	case "run":
		// getopt wants the command name in argv[0].
		os.Exit(cmdRun(os.Args[1:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "dump":
		os.Exit(cmdDump(os.Args[1:]))
	case "version":
		fmt.Printf("%s %s (built %s)\n", appName, letterbox.Version, letterbox.BuildDate)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`letterbox %s (built %s)

Usage:
  %s run [-n] [-s] [-t timeout] [-v] <file.lb> [args...]   Run a program.
  %s repl                                                  Start the REPL.
  %s dump [-s] <file.lb>                                   Show the scanned instructions.
  %s version                                               Print the compiled version.

Arguments after the file become the program's inputs, read with G:
plain numbers arrive as numbers, everything else as text.

Flags for run:
  -n   do not add a trailing newline when output lacks one
  -s   scan control bodies compositionally instead of greedily
  -t   wall-clock limit, e.g. -t 5s
  -v   trace each instruction to stderr
`, letterbox.Version, letterbox.BuildDate, appName, appName, appName, appName)
}

// lastByteWriter remembers the final byte written so the commands can
// decide whether output already ends with a newline.
type lastByteWriter struct {
	w     io.Writer
	wrote bool
	last  byte
}

func (lw *lastByteWriter) Write(p []byte) (int, error) {
	n, err := lw.w.Write(p)
	if n > 0 {
		lw.wrote = true
		lw.last = p[n-1]
	}
	return n, err
}

// parseInputs types the command line arguments the way G reads them:
// anything that parses as a number is a number, the rest is text.
func parseInputs(args []string) []letterbox.Val {
	out := make([]letterbox.Val, 0, len(args))
	for _, a := range args {
		if f, err := strconv.ParseFloat(a, 64); err == nil {
			out = append(out, letterbox.Num(f))
			continue
		}
		out = append(out, letterbox.Text(a))
	}
	return out
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	opts, optind, err := getopt.Getopts(args, "nst:v")
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 2
	}

	var (
		noNewline bool
		composed  bool
		trace     bool
		timeout   time.Duration
	)
	for _, opt := range opts {
		switch opt.Option {
		case 'n':
			noNewline = true
		case 's':
			composed = true
		case 't':
			d, err := time.ParseDuration(opt.Value)
			if err != nil || d <= 0 {
				fmt.Fprintf(os.Stderr, "%s: invalid -t duration %q\n", appName, opt.Value)
				return 2
			}
			timeout = d
		case 'v':
			trace = true
		}
	}

	rest := args[optind:]
	if len(rest) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run [-n] [-s] [-t timeout] [-v] <file.lb> [args...]\n", appName)
		return 2
	}
	file := rest[0]

	srcBytes, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}
	src := string(srcBytes)

	out := &lastByteWriter{w: os.Stdout}
	progOpts := []letterbox.Option{
		letterbox.WithOutput(out),
		letterbox.WithInputs(parseInputs(rest[1:])...),
	}
	if composed {
		progOpts = append(progOpts, letterbox.WithComposedBodies())
	}
	if trace {
		progOpts = append(progOpts, letterbox.WithLogf(func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, "%s: "+format+"\n", append([]any{appName}, args...)...)
		}))
	}

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := letterbox.NewProgram(progOpts...).Run(ctx, src); err != nil {
		errColor.Fprintln(os.Stderr, letterbox.WrapErrorWithName(err, file, src))
		return 1
	}
	if !noNewline && out.wrote && out.last != '\n' {
		fmt.Println()
	}
	return 0
}

// -----------------------------------------------------------------------------
// dump
// -----------------------------------------------------------------------------

func cmdDump(args []string) int {
	opts, optind, err := getopt.Getopts(args, "s")
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 2
	}
	composed := false
	for _, opt := range opts {
		if opt.Option == 's' {
			composed = true
		}
	}

	rest := args[optind:]
	if len(rest) != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s dump [-s] <file.lb>\n", appName)
		return 2
	}

	srcBytes, err := os.ReadFile(rest[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, rest[0], err)
		return 1
	}

	lx := letterbox.NewLexer(string(srcBytes))
	if composed {
		lx = letterbox.NewComposedLexer(string(srcBytes))
	}
	fmt.Print(letterbox.FormatProgram(lx.Scan()))
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(_ []string) int {
	headColor.Println(banner)

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

	// Ctrl+C during a run cancels that run; at the prompt it exits.
	running := abool.New()
	interrupted := abool.New()
	var (
		cancelMu  sync.Mutex
		cancelRun context.CancelFunc
	)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		for range sigc {
			interrupted.Set()
			if running.IsSet() {
				cancelMu.Lock()
				if cancelRun != nil {
					cancelRun()
				}
				cancelMu.Unlock()
				continue
			}
			ln.Close()
			os.Exit(130)
		}
	}()

	store := letterbox.NewStorage()
	out := &lastByteWriter{w: os.Stdout}
	prog := letterbox.NewProgram(letterbox.WithStorage(store), letterbox.WithOutput(out))

	for {
		code, ok := readBalanced(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit", ":q":
				return 0
			case ":reset":
				store.ResetAll()
				fmt.Println("all variables cleared")
			case ":vars":
				printVars(store)
			case ":help":
				fmt.Print(helpText)
			default:
				fmt.Println("unknown command. Type :help for the list.")
			}
			continue
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancelMu.Lock()
		cancelRun = cancel
		cancelMu.Unlock()

		out.wrote = false
		running.Set()
		err := prog.Run(ctx, code)
		running.UnSet()

		cancelMu.Lock()
		cancelRun = nil
		cancelMu.Unlock()
		cancel()

		if out.wrote && out.last != '\n' {
			fmt.Println()
		}
		if interrupted.IsSet() {
			interrupted.UnSet()
			warnColor.Println("interrupted")
		} else if err != nil && !errors.Is(err, context.Canceled) {
			errColor.Fprintln(os.Stderr, letterbox.WrapErrorWithName(err, "repl", code))
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}

	return 0
}

// readBalanced reads a chunk of input, continuing onto more lines while
// a text literal is still open (an odd number of quotes). EOF reports
// done; an aborted prompt yields an empty chunk.
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

		src := b.String()
		if strings.Count(src, "'")%2 == 0 {
			return src, true
		}
	}
}

func printVars(store *letterbox.Storage) {
	snap := store.Snapshot()
	if len(snap) == 0 {
		fmt.Println("no variables set")
		return
	}
	names := make([]byte, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	for _, name := range names {
		fmt.Printf("  %c = %s\n", name, snap[name])
	}
}
