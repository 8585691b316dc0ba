package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"plotview/internal/config"
	"plotview/internal/feed"
	"plotview/internal/tui"
	"plotview/internal/updater"
	"plotview/internal/view"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML config file")
		elementID  = flag.String("id", "", "element that receives the plots (default: first configured element)")
		watch      = flag.Bool("watch", false, "re-render files when they change")
		debug      = flag.Bool("debug", false, "write a debug log")
		strict     = flag.Bool("strict", false, "fail updates for elements that are not mounted")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: plotview [flags] [file.json ... | -]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatal(err)
		}
	}
	if *watch {
		cfg.Watch = true
	}

	// The alt screen owns stderr while the program runs.
	log.SetOutput(io.Discard)
	if *debug || cfg.DebugLog != "" {
		path := cfg.DebugLog
		if path == "" {
			path = "debug.log"
		}
		f, err := tea.LogToFile(path, "plotview")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
	}

	target := *elementID
	if target == "" {
		target = cfg.Elements[0]
	}
	ids := cfg.Elements
	if !slices.Contains(ids, target) {
		ids = append(ids, target)
	}

	screen := tui.NewScreen(view.NewStore())
	for _, id := range ids {
		screen.Mount(id)
	}
	opts := []updater.Option{updater.WithLogger(log.Default())}
	if *strict {
		opts = append(opts, updater.WithStrictLookup())
	}
	u := updater.New(screen, screen, opts...)

	m := screen.NewModel(u.Update, tui.Settings{
		RotateStep: cfg.Camera.RotateStep,
		ZoomStep:   cfg.Camera.ZoomStep,
		Accent:     cfg.Theme.Accent,
		Border:     cfg.Theme.Border,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return screen.Run(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	})
	g.Go(func() error {
		run(gctx, u.Update, target, flag.Args(), cfg.Watch)
		return nil
	})
	if err := g.Wait(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run feeds the plot sources named on the command line into target. Feed
// failures are logged; the viewer stays up.
func run(ctx context.Context, sink feed.Sink, target string, args []string, watch bool) {
	if len(args) == 1 && args[0] == "-" {
		if err := feed.Stream(ctx, target, os.Stdin, sink); err != nil {
			log.Printf("stdin: %v", err)
		}
		return
	}
	if len(args) == 0 {
		return
	}
	if err := feed.Files(ctx, target, args, sink); err != nil {
		log.Printf("load: %v", err)
	}
	if !watch {
		return
	}
	w, err := feed.NewWatcher(target, args, sink)
	if err != nil {
		log.Printf("watch: %v", err)
		return
	}
	if err := w.Run(ctx); err != nil {
		log.Printf("watch: %v", err)
	}
}
