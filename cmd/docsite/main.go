package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/b-editor/docsite/internal/apiref"
	"github.com/b-editor/docsite/internal/config"
	"github.com/b-editor/docsite/internal/content"
	"github.com/b-editor/docsite/internal/logfields"
	"github.com/b-editor/docsite/internal/metrics"
	"github.com/b-editor/docsite/internal/server"
	"github.com/b-editor/docsite/internal/store"
	"github.com/b-editor/docsite/internal/sync"
	"github.com/b-editor/docsite/internal/version"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`
	Version bool   `help:"Print version and exit"`

	Serve struct {
	} `cmd:"" help:"Serve the documentation site"`

	Resolve struct {
		Lang string `arg:"" help:"Content language"`
		Slug string `arg:"" optional:"" help:"Slash-separated page slug"`
	} `cmd:"" help:"Resolve a slug and print the source document"`

	Tree struct {
		Lang string `arg:"" help:"Content language"`
		Path string `arg:"" optional:"" help:"Directory below the language root"`
		Flat bool   `help:"List only the first level"`
	} `cmd:"" help:"Print the navigation tree as JSON"`

	API struct {
		Index struct {
		} `cmd:"" help:"Print the namespace index as JSON"`

		Search struct {
			Query string `arg:"" help:"Search query"`
		} `cmd:"" help:"Search the API reference index"`
	} `cmd:"" help:"Query the API reference records"`
}

func main() {
	ctx := kong.Parse(&CLI)

	if CLI.Version {
		fmt.Printf("docsite %s (commit %s, built %s)\n", version.Version, version.GitCommit, version.BuildTime)
		return
	}

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		// Commands that only read local records can run with defaults.
		slog.Warn("Configuration not loaded, using defaults", "error", err)
		cfg = config.Default()
	}
	if CLI.Verbose {
		cfg.Logging.Level = config.LogLevelDebug
	}
	cfg.Logging.SetupLogging()

	switch ctx.Command() {
	case "serve":
		if err := runServe(cfg); err != nil {
			slog.Error("Serve failed", "error", err)
			os.Exit(1)
		}
	case "resolve <lang>", "resolve <lang> <slug>":
		if err := runResolve(cfg, CLI.Resolve.Lang, CLI.Resolve.Slug); err != nil {
			slog.Error("Resolve failed", "error", err)
			os.Exit(1)
		}
	case "tree <lang>", "tree <lang> <path>":
		if err := runTree(cfg, CLI.Tree.Lang, CLI.Tree.Path, !CLI.Tree.Flat); err != nil {
			slog.Error("Tree failed", "error", err)
			os.Exit(1)
		}
	case "api index":
		if err := runAPIIndex(cfg); err != nil {
			slog.Error("Index failed", "error", err)
			os.Exit(1)
		}
	case "api search <query>":
		if err := runAPISearch(cfg, CLI.API.Search.Query); err != nil {
			slog.Error("Search failed", "error", err)
			os.Exit(1)
		}
	default:
		slog.Error("Unknown command", "command", ctx.Command())
		os.Exit(1)
	}
}

// buildStore constructs the configured store backend, wrapped with the sqlite
// fetch cache when one is configured. The returned GitStore is non-nil only
// for the git backend. recorder may be nil for commands that do not serve
// metrics.
func buildStore(cfg *config.Config, recorder metrics.Recorder) (store.Store, *store.GitStore, func(), error) {
	var (
		st       store.Store
		gitStore *store.GitStore
	)
	switch cfg.Store.Backend {
	case "github":
		st = store.NewGitHubStore(cfg.Store)
	case "git":
		gs, err := store.NewGitStore(cfg.Store)
		if err != nil {
			return nil, nil, nil, err
		}
		st, gitStore = gs, gs
	case "dir":
		st = store.NewDirStore(cfg.Store.Dir)
	default:
		return nil, nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	cleanup := func() {}
	if cfg.Cache.Path != "" {
		cached, err := store.WithCache(st, cfg.Cache.Path, cfg.Cache.TTLDuration())
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open fetch cache: %w", err)
		}
		st = cached.WithRecorder(recorder)
		cleanup = func() { _ = cached.Close() }
	}
	slog.Info("Content store ready", logfields.Store(cfg.Store.Backend))
	return st, gitStore, cleanup, nil
}

func runServe(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)

	st, gitStore, cleanup, err := buildStore(cfg, recorder)
	if err != nil {
		return err
	}
	defer cleanup()

	library := apiref.NewLibrary(cfg.APIReference.Dir, cfg.APIReference.RootNamespace).WithRecorder(recorder)
	if cfg.APIReference.Watch {
		watcher := apiref.NewWatcher(library, cfg.APIReference.Dir)
		go func() {
			if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
				slog.Warn("Record watcher stopped", "error", err)
			}
		}()
	}

	if gitStore != nil && cfg.Sync.IntervalDuration() > 0 {
		publisher, err := sync.NewPublisher(cfg.Sync.NATS)
		if err != nil {
			return err
		}
		defer publisher.Close()

		refresher, err := sync.NewRefresher(gitStore, publisher, cfg.Sync.IntervalDuration())
		if err != nil {
			return err
		}
		if err := refresher.Start(ctx); err != nil {
			return err
		}
		defer func() { _ = refresher.Stop() }()
	}

	srv := server.New(cfg, st, library, recorder, registry)
	if err := srv.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runResolve(cfg *config.Config, lang, rawSlug string) error {
	st, _, cleanup, err := buildStore(cfg, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	var slug []string
	if trimmed := strings.Trim(rawSlug, "/"); trimmed != "" {
		slug = strings.Split(trimmed, "/")
	}

	doc, err := content.NewResolver(st).Resolve(context.Background(), lang, slug)
	if err != nil {
		return err
	}
	fmt.Println(doc.Content)
	return nil
}

func runTree(cfg *config.Config, lang, path string, recursive bool) error {
	st, _, cleanup, err := buildStore(cfg, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	storePath := lang
	if path != "" {
		storePath = lang + "/" + strings.Trim(path, "/")
	}

	tree, err := content.BuildTree(context.Background(), st, lang, storePath, recursive)
	if err != nil {
		return err
	}
	return printJSON(tree)
}

func runAPIIndex(cfg *config.Config) error {
	library := apiref.NewLibrary(cfg.APIReference.Dir, cfg.APIReference.RootNamespace)
	namespaces, err := library.Namespaces()
	if err != nil {
		return err
	}
	return printJSON(namespaces)
}

func runAPISearch(cfg *config.Config, query string) error {
	library := apiref.NewLibrary(cfg.APIReference.Dir, cfg.APIReference.RootNamespace)
	results, err := library.Search(query)
	if err != nil {
		return err
	}
	return printJSON(results)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
