package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-drift/scenegraph/pkg/engine"
)

const (
	defaultServeAddr = "localhost:9999"
	servePollPeriod  = 50 * time.Millisecond
)

func init() {
	RegisterCommand(&Command{
		Name:  "serve",
		Short: "Serve the scene graph over HTTP",
		Long: `Build the scene graph of an AVG document and serve it on the debug
endpoints until interrupted. Parameters posted to /parameters are applied
on the next frame and the resulting changes are logged.

Endpoints:
  /health /scenegraph /dump /parameters /frames /runtime /debug

Flags:
  --addr host:port   Listen address (default: debugAddr from sgdump.yaml, else localhost:9999)
  --layers           Give bound elements layers of their own
  --no-layers        Flatten the graphic into nodes (overrides sgdump.yaml)
  --set name=value   Set a parameter before building (repeatable)`,
		Usage: "sgdump serve [--addr host:port] [--layers] <file>",
		Run:   runServe,
	})
}

func runServe(args []string) error {
	opts, err := parseOptions(args)
	if err != nil {
		return err
	}
	e, err := opts.open()
	if err != nil {
		return err
	}
	for _, s := range opts.sets {
		if !e.SetProperty(s.name, s.value) {
			log.Printf("warning: parameter %s not applied", s.name)
		}
	}

	addr := e.Config().DebugAddr
	if addr == "" {
		addr = defaultServeAddr
	}
	bound, err := e.StartDebugServer(addr)
	if err != nil {
		return err
	}
	defer e.StopDebugServer()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Serving %s on http://%s (Ctrl+C to stop)\n", opts.file, bound)
	return serveFrames(ctx, e)
}

// serveFrames produces a frame whenever the engine has pending changes,
// until ctx is done.
func serveFrames(ctx context.Context, e *engine.Engine) error {
	ticker := time.NewTicker(servePollPeriod)
	defer ticker.Stop()

	for {
		if e.Dirty() {
			updates := e.SceneGraph().Updates()
			log.Printf("frame %d: %d created, %d changed, %d modified",
				e.Frames(), len(updates.CreatedLayers()), len(updates.ChangedLayers()), len(updates.ModifiedNodes()))
			e.EndFrame()
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
