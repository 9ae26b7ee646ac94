// Command sourcetree builds a source.Source tree from a JSON manifest and
// writes its generated text and, if any node carries mapping information,
// a v3 source map alongside it. It exists as a demo CLI for this library
// the way cmd/esbuild is a demo CLI for the bundler package it wraps.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	json "github.com/go-json-experiment/json"

	"github.com/gosourcetree/sourcetree/internal/config"
	"github.com/gosourcetree/sourcetree/internal/exitcode"
	"github.com/gosourcetree/sourcetree/internal/logger"
	"github.com/gosourcetree/sourcetree/internal/srcerr"
)

var helpText = func(colors logger.Colors) string {
	return `
` + colors.Bold + `Usage:` + colors.Reset + `
  sourcetree [options]

` + colors.Bold + `Options:` + colors.Reset + `
  --manifest=...       Path to the manifest JSON file (default: read stdin)
  --out=...            Write generated text here (default: stdout)
  --out-map=...        Write the source map here (default: <out>.map, or
                        stderr if --out is stdout)
  --columns=false      Collapse mappings to line granularity
  --final-source        Let the last chunk elide a trailing newline
  --color=...           Force color terminal escapes (true | false)
  --log-level=...       silent | error | warning | info (default info)

` + colors.Bold + `Manifest shape:` + colors.Reset + `
  { "root": <node>, "columns": true, "finalSource": false }

  The "columns" and "finalSource" keys are read but not used; mapping
  options come only from --columns and --final-source.

  A node is one of:
    { "type": "raw", "text": "..." }
    { "type": "original", "text": "...", "name": "..." }
    { "type": "sourceMap", "text": "...", "name": "...", "map": {...} }
    { "type": "concat", "children": [<node>, ...] }
    { "type": "replace", "child": <node>, "replacements": [
        { "start": 0, "end": 2, "content": "...", "name": null }
    ] }
    { "type": "cached", "child": <node> }
`
}

func main() {
	osArgs := os.Args[1:]

	manifestPath := ""
	outPath := ""
	outMapPath := ""
	columnsSet := true
	finalSource := false

	argsEnd := 0
	for _, arg := range osArgs {
		switch {
		case arg == "-h", arg == "-help", arg == "--help":
			logger.PrintText(os.Stdout, logger.LevelSilent, osArgs, helpText)
			os.Exit(0)

		case strings.HasPrefix(arg, "--manifest="):
			manifestPath = arg[len("--manifest="):]

		case strings.HasPrefix(arg, "--out-map="):
			outMapPath = arg[len("--out-map="):]

		case strings.HasPrefix(arg, "--out="):
			outPath = arg[len("--out="):]

		case arg == "--columns=false":
			columnsSet = false

		case arg == "--columns=true":
			columnsSet = true

		case arg == "--final-source":
			finalSource = true

		default:
			osArgs[argsEnd] = arg
			argsEnd++
		}
	}
	osArgs = osArgs[:argsEnd]

	options := logger.OutputOptionsForArgs(os.Args[1:])
	log := logger.NewStderrLog(options)

	if err := run(manifestPath, outPath, outMapPath, columnsSet, finalSource, log); err != nil {
		log.AddError(err.Error())
		log.Done()
		exitcode.Exit(err)
		return
	}
	log.Done()
}

func run(manifestPath, outPath, outMapPath string, columns, finalSource bool, log logger.Log) error {
	data, err := readManifest(manifestPath)
	if err != nil {
		return exitcode.Set(err, 1)
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return exitcode.Set(srcerr.Wrap(srcerr.KindJSONParse, "invalid manifest", err), 1)
	}

	src, err := build(m.Root)
	if err != nil {
		return exitcode.Set(err, 1)
	}

	opts := config.MapOptions{Columns: columns, FinalSource: finalSource}

	if err := writeText(outPath, src.Text()); err != nil {
		return exitcode.Set(err, 1)
	}

	sm, err := src.Map(opts)
	if err != nil {
		return exitcode.Set(err, 1)
	}
	if sm == nil {
		log.AddWarning("no mapping information in this tree; no source map written")
		return nil
	}

	mapData, err := sm.ToJSON()
	if err != nil {
		return exitcode.Set(err, 1)
	}
	return writeMap(outPath, outMapPath, mapData)
}

func readManifest(path string) ([]byte, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed reading manifest from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed reading %s: %w", path, err)
	}
	return data, nil
}

func writeText(outPath, text string) error {
	if outPath == "" {
		_, err := fmt.Fprint(os.Stdout, text)
		return err
	}
	if err := os.WriteFile(outPath, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed writing %s: %w", outPath, err)
	}
	return nil
}

func writeMap(outPath, outMapPath string, mapData []byte) error {
	if outMapPath == "" {
		if outPath == "" {
			_, err := fmt.Fprintln(os.Stderr, string(mapData))
			return err
		}
		outMapPath = outPath + ".map"
	}
	if err := os.WriteFile(outMapPath, mapData, 0644); err != nil {
		return fmt.Errorf("failed writing %s: %w", outMapPath, err)
	}
	return nil
}
