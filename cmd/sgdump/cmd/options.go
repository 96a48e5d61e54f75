package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-drift/scenegraph/pkg/engine"
	"gopkg.in/yaml.v3"
)

// options are the flags shared by every subcommand.
type options struct {
	file   string
	layers *bool
	json   bool
	addr   string
	sets   []assignment
}

// assignment is one --set name=value flag.
type assignment struct {
	name  string
	value any
}

func parseOptions(args []string) (*options, error) {
	opts := &options{}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--layers":
			on := true
			opts.layers = &on
		case arg == "--no-layers":
			off := false
			opts.layers = &off
		case arg == "--json":
			opts.json = true
		case arg == "--addr" || arg == "--set":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires a value", arg)
			}
			if err := opts.apply(arg, args[i+1]); err != nil {
				return nil, err
			}
			i++
		case strings.HasPrefix(arg, "--addr="):
			opts.addr = strings.TrimPrefix(arg, "--addr=")
		case strings.HasPrefix(arg, "--set="):
			if err := opts.apply("--set", strings.TrimPrefix(arg, "--set=")); err != nil {
				return nil, err
			}
		case strings.HasPrefix(arg, "-"):
			return nil, fmt.Errorf("unknown flag: %s", arg)
		default:
			if opts.file != "" {
				return nil, fmt.Errorf("unexpected argument: %s", arg)
			}
			opts.file = arg
		}
	}
	if opts.file == "" {
		return nil, fmt.Errorf("an AVG document is required")
	}
	return opts, nil
}

func (o *options) apply(flag, value string) error {
	if flag == "--addr" {
		o.addr = value
		return nil
	}
	name, raw, ok := strings.Cut(value, "=")
	if !ok || name == "" {
		return fmt.Errorf("--set expects name=value, got %q", value)
	}
	o.sets = append(o.sets, assignment{name: name, value: parseValue(raw)})
	return nil
}

// parseValue reads a flag value as a YAML scalar so numbers and booleans
// keep their type. Anything else stays a string.
func parseValue(raw string) any {
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil || v == nil {
		return raw
	}
	switch v.(type) {
	case int, float64, bool, string:
		return v
	}
	return raw
}

// open loads the configuration next to the document, applies the flags
// on top of it and returns an engine for the document.
func (o *options) open() (*engine.Engine, error) {
	cfg, err := engine.LoadConfig(filepath.Dir(o.file))
	if err != nil {
		return nil, err
	}
	if o.layers != nil {
		cfg.AllowLayers = *o.layers
	}
	if o.addr != "" {
		cfg.DebugAddr = o.addr
	}
	return engine.Open(o.file, *cfg)
}
