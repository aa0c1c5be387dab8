// Package main is the entry point for the stanza editor.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/stanza-edit/stanza/internal/diag"
	"github.com/stanza-edit/stanza/internal/engine/buffer"
	"github.com/stanza-edit/stanza/internal/plugin/lua"

	glua "github.com/yuin/gopher-lua"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	if opts.showVersion {
		fmt.Printf("stanza %s (%s)\n", version, commit)
		return 0
	}

	buf := buffer.New()
	if opts.path != "" {
		f, err := os.Open(opts.path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		buf, err = buffer.FromReader(f)
		f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: reading %s: %v\n", opts.path, err)
			return 1
		}
	}

	diags := diag.NewSet(buf)
	if opts.diagnosticsPath != "" {
		payload, err := os.ReadFile(opts.diagnosticsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if _, err := diags.Publish(payload); err != nil {
			fmt.Fprintf(os.Stderr, "Error: loading diagnostics: %v\n", err)
			return 1
		}
	}

	if opts.scriptPath != "" {
		if err := runScript(opts.scriptPath, buf); err != nil {
			fmt.Fprintf(os.Stderr, "Error: running %s: %v\n", opts.scriptPath, err)
			return 1
		}
	}

	ed, err := newEditor(buf, diags, opts.path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	defer ed.shutdown()

	if err := ed.run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// runScript runs a plugin script against the buffer before the editor
// starts, with the marks module preloaded.
func runScript(path string, buf *buffer.Buffer) error {
	L := glua.NewState()
	defer L.Close()
	L.PreloadModule(lua.ModuleName, lua.Loader(buf))
	return L.DoFile(path)
}

type options struct {
	path            string
	diagnosticsPath string
	scriptPath      string
	showVersion     bool
}

func parseFlags() options {
	var opts options

	flag.StringVar(&opts.diagnosticsPath, "diagnostics", "",
		"Path to an LSP publishDiagnostics JSON file to load")
	flag.StringVar(&opts.scriptPath, "script", "",
		"Path to a Lua script to run against the buffer on startup")
	flag.BoolVar(&opts.showVersion, "version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [file]\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	opts.path = flag.Arg(0)
	return opts
}
