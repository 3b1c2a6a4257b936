// Command sketchreplay replays a recorded input script against a sketch
// editor and writes the exported files to a directory.
//
// A script is a JSON array of events:
//
//	[
//	  {"op": "color", "value": "#1e90ff"},
//	  {"op": "start", "x": 10, "y": 10},
//	  {"op": "sample", "x": 100, "y": 100},
//	  {"op": "end"},
//	  {"op": "key", "value": "ctrl+s"}
//	]
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gogpu/sketch"
)

func main() {
	var (
		width    = flag.Float64("width", 800, "logical canvas width")
		height   = flag.Float64("height", 600, "logical canvas height")
		scale    = flag.Float64("scale", 1, "device pixel ratio")
		script   = flag.String("script", "", "event script (JSON), - for stdin")
		output   = flag.String("output", ".", "directory for exported files")
		store    = flag.String("store", "", "autosave directory (default: in memory)")
		autosave = flag.Bool("autosave", false, "autosave after every commit")
		verbose  = flag.Bool("v", false, "log editor activity to stderr")
	)
	flag.Parse()

	if *script == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *verbose {
		sketch.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	in := os.Stdin
	if *script != "-" {
		f, err := os.Open(*script)
		if err != nil {
			log.Fatalf("Failed to open script: %v", err)
		}
		defer f.Close()
		in = f
	}
	events, err := readScript(in)
	if err != nil {
		log.Fatalf("Failed to read script: %v", err)
	}

	opts := []sketch.EditorOption{
		sketch.WithScale(*scale),
		sketch.WithAutosave(*autosave),
		sketch.WithNotifier(sketch.NotifierFunc(func(msg string) { log.Println(msg) })),
	}
	if *store != "" {
		opts = append(opts, sketch.WithStore(sketch.NewFileStore(*store)))
	}
	ed := sketch.NewEditor(*width, *height, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r := &replayer{ed: ed, sink: sketch.DirSink(*output)}
	if err := r.run(ctx, events); err != nil {
		log.Fatalf("Replay failed: %v", err)
	}
	log.Printf("Replayed %d events (%dx%d, %d undo entries)\n",
		len(events), ed.Width(), ed.Height(), ed.UndoLen())
}
