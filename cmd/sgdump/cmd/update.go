package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/go-drift/scenegraph/pkg/sg"
)

func init() {
	RegisterCommand(&Command{
		Name:  "update",
		Short: "Show the layers touched by parameter changes",
		Long: `Build the scene graph of an AVG document, apply parameter changes and
report what the second frame hands to a renderer: the layers created,
changed (with their flags) and the nodes modified in place.

Flags:
  --layers           Give bound elements layers of their own
  --no-layers        Flatten the graphic into nodes (overrides sgdump.yaml)
  --json             Print the second frame as JSON
  --set name=value   Parameter change to apply (repeatable, at least one)`,
		Usage: "sgdump update --set name=value [--layers] [--json] <file>",
		Run:   runUpdate,
	})
}

func runUpdate(args []string) error {
	opts, err := parseOptions(args)
	if err != nil {
		return err
	}
	if len(opts.sets) == 0 {
		return fmt.Errorf("at least one --set name=value is required\n\nUsage: sgdump update --set name=value <file>")
	}
	e, err := opts.open()
	if err != nil {
		return err
	}

	first := e.SceneGraph()
	fmt.Printf("frame 1: %d layers created\n", len(first.Updates().CreatedLayers()))
	e.EndFrame()

	for _, s := range opts.sets {
		if !e.SetProperty(s.name, s.value) {
			return fmt.Errorf("parameter %s not applied", s.name)
		}
	}

	scene := e.SceneGraph()
	defer e.EndFrame()

	if opts.json {
		data, err := json.MarshalIndent(scene, "", "  ")
		if err != nil {
			return fmt.Errorf("encode scene graph: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	printUpdates(scene.Updates())
	return nil
}

func printUpdates(updates *sg.SceneGraphUpdates) {
	if updates.Empty() {
		fmt.Println("frame 2: no changes")
		return
	}
	fmt.Println("frame 2:")
	updates.MapCreated(func(layer *sg.Layer) {
		fmt.Printf("  created  %s\n", layer.Name())
	})
	updates.MapChanged(func(layer *sg.Layer) {
		fmt.Printf("  changed  %-20s [%s]\n", layer.Name(), layer.Flags())
	})
	for _, node := range updates.ModifiedNodes() {
		fmt.Printf("  modified %s\n", node)
	}
}
