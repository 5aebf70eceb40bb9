package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/gabrielfornes/notetabs/internal/anim"
	"github.com/gabrielfornes/notetabs/internal/app"
	"github.com/gabrielfornes/notetabs/internal/config"
	"github.com/gabrielfornes/notetabs/internal/kv"
	"github.com/gabrielfornes/notetabs/internal/nav"
	"github.com/gabrielfornes/notetabs/internal/storage"
	"github.com/gabrielfornes/notetabs/internal/tui"
)

// Version is set at build time via ldflags
var Version = ""

const shortRevision = 12

var (
	configPath  = flag.String("config", "", "path to config file")
	debugFlag   = flag.Bool("debug", false, "enable debug logging")
	logPath     = flag.String("log", "", "log file (default ~/.config/notetabs/notetabs.log)")
	versionFlag = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Printf("notetabs version %s\n", effectiveVersion(Version))
		os.Exit(0)
	}

	logFile := setupLogging(*logPath, *debugFlag)
	if logFile != nil {
		defer logFile.Close()
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing notetabs: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	backend, err := kv.Open(ctx, cfg.Storage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing notetabs: %v\n", err)
		os.Exit(1)
	}
	defer backend.Close()

	store := storage.New(backend, storage.WithKey(cfg.Storage.Key))
	store.Load(ctx)
	log.WithField("notes", store.Len()).Debug("notes loaded")

	start := storage.IndexOf(storage.Category(cfg.UI.StartCategory))
	if start < 0 {
		log.WithField("category", cfg.UI.StartCategory).Warn("unknown start category, using the first tab")
		start = 0
	}
	a := app.New(store,
		nav.WithStart(start),
		nav.WithSwipeFraction(cfg.Navigation.SwipeFraction),
		nav.WithFlingVelocity(cfg.Navigation.FlingVelocity),
	)

	opts := tui.Options{
		Spring: anim.Params{
			Response: cfg.Navigation.SpringResponse,
			Damping:  cfg.Navigation.SpringDamping,
			FPS:      cfg.Navigation.FPS,
		},
		Markdown:    cfg.UI.Markdown,
		ScrollDelay: cfg.UI.AutoScrollDelay,
	}

	// Only the file backend can change underneath us in a way we can see.
	if fs, ok := backend.(*kv.FileStore); ok && cfg.Storage.Watch {
		w, err := fs.Watch(cfg.Storage.Key)
		if err != nil {
			log.WithError(err).Warn("could not watch notes file")
		} else {
			defer w.Close()
			opts.StoreChanges = w.Changes()
		}
	}

	model := tui.NewModel(ctx, a, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running notetabs: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// setupLogging sends logs to a file since the terminal belongs to the UI.
// Logs are discarded when the file cannot be opened.
func setupLogging(path string, debugLevel bool) *os.File {
	log.SetLevel(log.InfoLevel)
	if debugLevel {
		log.SetLevel(log.DebugLevel)
	}
	log.SetOutput(io.Discard)

	if path == "" {
		path = filepath.Join(config.Dir(), "notetabs.log")
	}
	path = config.ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil
	}
	log.SetOutput(f)
	return f
}

// effectiveVersion prefers the ldflags version, then the module version,
// then the VCS revision stamped into a local build.
func effectiveVersion(v string) string {
	if v != "" {
		return v
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	return buildVersion(info)
}

func buildVersion(info *debug.BuildInfo) string {
	if mv := info.Main.Version; mv != "" && mv != "(devel)" {
		return mv
	}

	vcs := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		vcs[s.Key] = s.Value
	}
	rev := vcs["vcs.revision"]
	if rev == "" {
		return "devel"
	}
	if len(rev) > shortRevision {
		rev = rev[:shortRevision]
	}
	v := "devel+" + rev
	if vcs["vcs.modified"] == "true" {
		v += "+dirty"
	}
	return v
}
