package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	env "github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/wippyai/js-bridge/bridge"
)

// config is read from the environment before flags are applied.
type config struct {
	LogLevel string        `env:"JSBRIDGE_LOG_LEVEL" envDefault:"warn"`
	Wait     time.Duration `env:"JSBRIDGE_WAIT" envDefault:"0s"`
}

func main() {
	var (
		scriptFile  = flag.String("script", "", "Path to JavaScript file to run")
		evalSrc     = flag.String("eval", "", "JavaScript source to evaluate")
		wait        = flag.Duration("wait", 0, "Keep the event loop alive after the script returns")
		list        = flag.Bool("list", false, "List registered modules and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *wait == 0 {
		*wait = cfg.Wait
	}

	log, err := buildLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	bridge.SetLogger(log)

	if *scriptFile == "" && *evalSrc == "" && !*list && !*interactive {
		fmt.Fprintln(os.Stderr, "Usage: run -script <file.js> [-wait 1s]")
		fmt.Fprintln(os.Stderr, "       run -eval '<source>'")
		fmt.Fprintln(os.Stderr, "       run -list")
		fmt.Fprintln(os.Stderr, "       run -i  (interactive mode)")
		os.Exit(1)
	}

	ctx := bridge.NewAppContext(bridge.WithLogger(log))
	defer ctx.Destroy()

	if err := registerBuiltins(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *list {
		listModules(ctx)
		return
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(ctx, *scriptFile, *evalSrc, *wait); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx *bridge.AppContext, scriptFile, evalSrc string, wait time.Duration) error {
	name := "eval.js"
	src := evalSrc
	if scriptFile != "" {
		data, err := os.ReadFile(scriptFile)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		name = scriptFile
		src = string(data)
	}

	rt := bridge.NewRuntime()
	ctx.AttachRuntime(rt)
	ctx.Install()
	rt.Start()
	defer rt.Stop()

	v, err := rt.RunScript(name, src)
	if err != nil {
		return fmt.Errorf("run %s: %w", name, err)
	}

	// Give pending promises and timers a chance to settle.
	if wait > 0 {
		time.Sleep(wait)
	}

	if v != nil {
		if s := v.String(); s != "undefined" {
			fmt.Println(s)
		}
	}
	return nil
}

func listModules(ctx *bridge.AppContext) {
	holders := ctx.Registry().Holders()
	fmt.Printf("Registered modules: %d\n", len(holders))

	for _, h := range holders {
		def := h.Definition()
		fmt.Printf("\n%s\n", def.Name())

		if consts := def.Constants(); len(consts) > 0 {
			fmt.Printf("  constants: %d\n", len(consts))
		}
		for _, fn := range def.Functions() {
			types := make([]string, len(fn.ArgTypes()))
			for i, t := range fn.ArgTypes() {
				types[i] = t.String()
			}
			fmt.Printf("  %s(%s)  [%s]\n", fn.Name(), strings.Join(types, ", "), fn.Convention())
		}
		if events := def.Events(); len(events) > 0 {
			fmt.Printf("  events: %s\n", strings.Join(events, ", "))
		}
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
