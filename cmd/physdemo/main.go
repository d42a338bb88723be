// Command physdemo is a small smoke-test harness for the world package:
// it loads a YAML scenario, runs it for a fixed number of steps, and
// prints each body's settled transform. Grounded on the reference
// engine's own eg command (a flag-driven dispatcher of runnable
// examples), scaled down to the single scenario this module needs.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/kitskub/physics3d/shape"
	"github.com/kitskub/physics3d/world"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML scenario config (defaults to world.DefaultConfig)")
	steps := flag.Int("steps", 180, "number of fixed timesteps to run")
	flag.Parse()

	cfg := world.DefaultConfig()
	if *configPath != "" {
		loaded, err := world.LoadConfig(*configPath)
		if err != nil {
			slog.Error("failed to load config", "path", *configPath, "err", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	w := world.New(cfg)
	floor, err := w.CreateStaticBody(shape.NewBox(50, 1, 50, 0))
	if err != nil {
		slog.Error("failed to create floor", "err", err)
		os.Exit(1)
	}
	floor.World().Loc.SetS(0, -1, 0)

	box, err := w.CreateBody(shape.NewBox(0.5, 0.5, 0.5, 0), 1, 0.2)
	if err != nil {
		slog.Error("failed to create box", "err", err)
		os.Exit(1)
	}
	box.World().Loc.SetS(0, 5, 0)

	for i := 0; i < *steps; i++ {
		w.Update()
	}

	for _, b := range w.Bodies() {
		loc, rot := b.World().Loc, b.World().Rot
		fmt.Printf("body %d: loc=(%.3f %.3f %.3f) rot=(%.3f %.3f %.3f %.3f) sleeping=%t\n",
			b.ID(), loc.X, loc.Y, loc.Z, rot.X, rot.Y, rot.Z, rot.W, b.IsSleeping())
	}
}
