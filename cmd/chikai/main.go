// Package main is the chikai CLI entry point.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/chikai/internal/cli"
	"github.com/hyperjump/chikai/internal/config"
	"github.com/hyperjump/chikai/internal/demo"
	"github.com/hyperjump/chikai/internal/extract"
	"github.com/hyperjump/chikai/internal/indexer"
	"github.com/hyperjump/chikai/internal/models"
	"github.com/hyperjump/chikai/internal/search"
	"github.com/hyperjump/chikai/internal/server"
	"github.com/hyperjump/chikai/internal/storage"
	"github.com/hyperjump/chikai/internal/watcher"
	"github.com/hyperjump/chikai/pkg/utils"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/chikai/config.yaml"
	defaultServerURL  = "http://localhost:8080"

	envConfigPath = "CHIKAI_CONFIG"
	envServerURL  = "CHIKAI_SERVER"
)

// configPathDefault returns the config path from CHIKAI_CONFIG, or the built-in default.
func configPathDefault() string {
	if p := os.Getenv(envConfigPath); p != "" {
		return p
	}
	return defaultConfigPath
}

// serverURLDefault returns the server URL from CHIKAI_SERVER, or the built-in default.
func serverURLDefault() string {
	if u := os.Getenv(envServerURL); u != "" {
		return u
	}
	return defaultServerURL
}

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used.
// A missing default config is not an error: built-in defaults are returned with an
// empty resolved path, so watch changes are not persisted.
// Returns the config and the path that was actually loaded (for saving, etc.).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			cfg := &config.Config{}
			config.ApplyDefaults(cfg)
			return cfg, "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ingest":
		runIngest()
	case "search":
		runSearch()
	case "status":
		runStatus()
	case "reset":
		runReset()
	case "watch":
		runWatch()
	case "demo":
		runDemo()
	case "version", "--version", "-v":
		fmt.Printf("chikai version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", configPathDefault(), "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (directory changes, file ingestion, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fail("Failed to load config: %v", err)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fail("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components := initializeComponents(cfg, logger, debugMode)

	idx := components.Indexer
	exts := cfg.Watch.Extensions
	watchOpts := []watcher.WatcherOption{}
	if debugMode {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	watchSvc := watcher.NewWatcher(
		cfg.Watch.Directories,
		exts,
		cfg.Watch.RecursiveOrDefault(),
		func(path string) {
			n, err := idx.IndexFile(watchCtx, path, exts)
			if err != nil {
				logger.Warn("watch ingest file failed", zap.String("path", path), zap.Error(err))
				return
			}
			logger.Debug("watch ingested file", zap.String("path", path), zap.Int("entries", n))
		},
		watchOpts...,
	)
	if err := watchSvc.Start(watchCtx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	watchSvc.SyncExistingFiles()
	logger.Info("collection ready", zap.Int("items", components.Engine.Size()), zap.Strings("watch", watchSvc.Directories()))

	srv := server.NewServer(
		components.Engine,
		components.Indexer,
		&cfg.Server,
		logger,
		watchSvc,
		resolvedConfigPath,
		cfg,
	)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func printIngestUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: chikai ingest [flags] [file ... | -]\n\n")
	fmt.Fprintf(fs.Output(), "Each non-empty line of a text file (row of a spreadsheet, paragraph of a document)\nbecomes one stored string. With no files, or with -, lines are read from stdin.\n\n")
	fs.PrintDefaults()
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	serverURL := fs.String("server", serverURLDefault(), "server URL")
	source := fs.String("source", "", "source label for the strings (default: file path, or \"cli\" for stdin)")
	fs.Usage = func() { printIngestUsage(fs) }
	_ = fs.Parse(os.Args[2:])

	client := newAPIClient(*serverURL)
	inputs := fs.Args()
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	ext := extract.NewExtractor()
	for _, in := range inputs {
		entries, label, err := inputEntries(ext, in, os.Stdin)
		if err != nil {
			fail("Failed to read %s: %v", in, err)
		}
		if *source != "" {
			label = *source
		}
		resp, err := client.ingest(&models.IngestRequest{Strings: entries, Source: label})
		if err != nil {
			fail("Ingest failed: %v", err)
		}
		fmt.Printf("Ingested %d strings from %s (total %d)\n", resp.Ingested, in, resp.Total)
	}
}

// inputEntries returns the entries of one ingest input and its default source label.
// "-" reads lines from stdin.
func inputEntries(ext *extract.Extractor, input string, stdin io.Reader) ([]string, string, error) {
	if input == "-" {
		entries, err := readEntries(stdin)
		return entries, models.SourceCLI, err
	}
	abs, err := filepath.Abs(input)
	if err != nil {
		return nil, "", err
	}
	entries, err := ext.Entries(abs)
	return entries, abs, err
}

// readEntries returns the trimmed non-empty lines of r.
func readEntries(r io.Reader) ([]string, error) {
	entries := []string{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			entries = append(entries, line)
		}
	}
	return entries, sc.Err()
}

// printSearchUsage prints search subcommand usage.
func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: chikai search [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces. Multi-word queries work with or without quotes.\nFlags may also follow the query.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Metrics:
  order_sensitive    character edit distance (aliases: levenshtein, edit)
  order_insensitive  word-set distance, 0..100 (aliases: jaccard, words)

Examples:
  chikai search aple
  chikai search -k 3 -metric words device premium
  chikai search "device premium" -metric jaccard -output json
  chikai search -file products.txt -k 5 premium device
`)
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves flags (and their values) ahead of the query words so that
// flag.Parse() sees them. Go's flag package stops at the first non-flag argument, so
// "chikai search aple -k 2" would otherwise leave -k unparsed. Query words keep their
// relative order. Every search flag takes a value, given either as "-k=2" or as the next
// argument; anything after "--" is a query word.
func searchArgsReorder(args []string) []string {
	flags := make([]string, 0, len(args)+1)
	positional := make([]string, 0, len(args))
	var rest []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--":
			rest = args[i+1:]
			i = len(args)
		case len(a) > 1 && a[0] == '-':
			flags = append(flags, a)
			if !strings.Contains(a, "=") && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		default:
			positional = append(positional, a)
		}
	}
	if rest != nil {
		flags = append(flags, "--")
		positional = append(positional, rest...)
	}
	return append(flags, positional...)
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// flagWasSet reports whether the named flag was given on the command line.
func flagWasSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func runSearch() {
	searchArgs := searchArgsReorder(os.Args[2:])

	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", configPathDefault(), "config file path (used with -file)")
	serverURL := fs.String("server", serverURLDefault(), "server URL")
	k := fs.Int("k", 0, "number of results (default: the server's search.default_k)")
	metricName := fs.String("metric", "", "distance metric: order_sensitive or order_insensitive (default: the server's)")
	var files stringList
	fs.Var(&files, "file", "search a local collection loaded from this file or directory instead of the server (repeatable)")
	outputFormat := fs.String("output", "text", "output format: text (ranked with distances), compact (one result per line), or json (parseable)")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgs)

	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		printSearchUsage(fs)
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fail("%v", err)
	}

	searchQuery := &models.SearchQuery{Query: queryStr, Metric: *metricName}
	if flagWasSet(fs, "k") {
		searchQuery.K = models.IntPtr(*k)
	}

	var response *models.SearchResponse
	if len(files) > 0 {
		response, err = searchLocal(*configPath, files, searchQuery)
	} else {
		response, err = newAPIClient(*serverURL).search(searchQuery)
	}
	if err != nil {
		fail("Search failed: %v", err)
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fail("Output failed: %v", err)
	}
}

// searchLocal loads files (or directories, filtered by watch.extensions) into a fresh
// in-memory collection and runs the query against it.
func searchLocal(configPath string, files []string, query *models.SearchQuery) (*models.SearchResponse, error) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	components := initializeComponents(cfg, logger, cfg.Debug)
	ctx := context.Background()
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			if _, _, err := components.Indexer.IndexDirectory(ctx, f, cfg.Watch.Extensions); err != nil {
				return nil, err
			}
			continue
		}
		// Single file: no extension filter
		if _, err := components.Indexer.IndexFile(ctx, f, nil); err != nil {
			return nil, err
		}
	}
	return components.Engine.Search(ctx, query)
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", serverURLDefault(), "server URL")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	status, err := newAPIClient(*serverURL).status()
	if err != nil {
		fail("Status failed: %v", err)
	}
	if err := writeStatus(os.Stdout, status, *outputFormat); err != nil {
		fail("%v", err)
	}
}

func writeStatus(w io.Writer, status *statusResponse, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	case "text", "":
		fmt.Fprintf(w, "items:          %d   # stored strings\n", status.Items)
		fmt.Fprintf(w, "tracked_files:  %d   # files ingested from disk\n", status.TrackedFiles)
		fmt.Fprintf(w, "poisoned:       %t\n", status.Poisoned)
		if len(status.Config) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "# configuration")
			for _, key := range []string{"default_metric", "default_k", "max_k", "watch_directories", "watch_extensions", "watch_recursive"} {
				if v, ok := status.Config[key]; ok {
					fmt.Fprintf(w, "%-16s%v\n", key+":", v)
				}
			}
		}
		if status.Poisoned {
			fmt.Fprintln(w, "\nThe collection is unusable until reset: chikai reset")
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q; use text or json", format)
	}
}

func runReset() {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	serverURL := fs.String("server", serverURLDefault(), "server URL")
	_ = fs.Parse(os.Args[2:])

	if err := newAPIClient(*serverURL).reset(); err != nil {
		fail("Reset failed: %v", err)
	}
	fmt.Println("Collection reset")
}

func runWatch() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: chikai watch <add|remove|list> [path]")
		fmt.Println("  chikai watch add <path>     Add directory to watch")
		fmt.Println("  chikai watch remove <path>  Remove directory from watch")
		fmt.Println("  chikai watch list           List watched directories")
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	serverURL := fs.String("server", serverURLDefault(), "server URL")
	_ = fs.Parse(os.Args[3:])
	client := newAPIClient(*serverURL)
	switch sub {
	case "add", "remove":
		if fs.NArg() < 1 {
			fail("Usage: chikai watch %s <path>", sub)
		}
		path, err := filepath.Abs(fs.Arg(0))
		if err != nil {
			fail("Invalid path: %v", err)
		}
		done := "Added"
		if sub == "add" {
			err = client.watchAdd(path)
		} else {
			err = client.watchRemove(path)
			done = "Removed"
		}
		if err != nil {
			fail("Watch %s failed: %v", sub, err)
		}
		fmt.Printf("%s: %s\n", done, path)
	case "list":
		dirs, err := client.watchList()
		if err != nil {
			fail("List failed: %v", err)
		}
		for _, d := range dirs {
			fmt.Println(d)
		}
	default:
		fail("Unknown watch subcommand: %s", sub)
	}
}

// parseKValues parses a comma-separated list of non-negative integers.
func parseKValues(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid k %q: %w", part, err)
		}
		if k < 0 {
			return nil, fmt.Errorf("invalid k %d: %w", k, models.ErrInvalidK)
		}
		out = append(out, k)
	}
	return out, nil
}

func runDemo() {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	configPath := fs.String("config", configPathDefault(), "config file path")
	count := fs.Int("count", 0, "number of product names to generate (default: demo.count)")
	seed := fs.Uint64("seed", 0, "random seed (default: demo.seed, or time-based when both are 0)")
	kList := fs.String("k", "20,100", "comma-separated k values for the timed searches")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fail("Failed to load config: %v", err)
	}
	kValues, err := parseKValues(*kList)
	if err != nil {
		fail("%v", err)
	}
	logger, err := utils.NewLogger(cfg.Debug || *debug)
	if err != nil {
		fail("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	n := cfg.Demo.Count
	if *count > 0 {
		n = *count
	}
	s := uint64(cfg.Demo.Seed)
	if *seed != 0 {
		s = *seed
	}
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}

	components := initializeComponents(cfg, logger, cfg.Debug || *debug)
	err = demo.Run(context.Background(), components.Engine, demo.Options{
		Count:   n,
		Seed:    s,
		KValues: kValues,
		Out:     os.Stdout,
		Logger:  logger,
	})
	if err != nil {
		fail("Demo failed: %v", err)
	}
}

// Components holds initialized services.
type Components struct {
	Storage *storage.MemoryStorage
	Engine  *search.Engine
	Indexer *indexer.Indexer
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, debug bool) *Components {
	store := storage.NewMemoryStorage()
	engine := search.NewEngine(store, &cfg.Search, logger)

	idxOpts := []indexer.IndexerOption{}
	if debug && logger != nil {
		idxOpts = append(idxOpts, indexer.WithLogger(logger))
	}
	idx := indexer.NewIndexer(store, extract.NewExtractor(), idxOpts...)

	return &Components{
		Storage: store,
		Engine:  engine,
		Indexer: idx,
	}
}

func printUsage() {
	fmt.Println(`chikai - In-memory nearest-neighbour string search

Usage:
  chikai server [flags]                Start the HTTP server
  chikai ingest [flags] [file ... | -] Append strings to the server's collection
  chikai search [flags] <query>        Find the k nearest strings
  chikai status [flags]                Show collection status
  chikai reset [flags]                 Clear the collection (also recovers a poisoned store)
  chikai watch <add|remove|list>       Manage watched directories
  chikai demo [flags]                  Run the product-name walkthrough locally
  chikai version                       Show version
  chikai help                          Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/chikai/config.yaml, or $CHIKAI_CONFIG)
  --debug            Enable debug logging (directory changes, file ingestion, etc.)

Search Flags:
  --server string    Server URL (default: http://localhost:8080, or $CHIKAI_SERVER)
  --k int            Number of results (default: server's search.default_k)
  --metric string    order_sensitive (levenshtein) or order_insensitive (jaccard)
  --file path        Search a local collection loaded from the file (repeatable)
  --output string    text, compact or json (default: text)

Ingest Flags:
  --server string    Server URL
  --source string    Source label stored with each string

Demo Flags:
  --count int        Number of generated names (default: demo.count, 7000)
  --seed uint        Random seed (same seed, same names)
  --k list           Comma-separated k values for the timed runs (default: 20,100)

Environment:
  A .env file in the current directory is loaded first. CHIKAI_CONFIG and
  CHIKAI_SERVER override the default config path and server URL.

Examples:
  chikai server
  printf 'apple\nbanana\norange\npear\napricot\n' | chikai ingest
  chikai search -k 2 aple
  chikai search "device premium" -metric jaccard -k 5
  chikai search --output json aple
  chikai ingest products.xlsx notes.md
  chikai status --output json
  chikai demo -count 10000 -seed 42
  chikai watch add /path/to/lists`)
}
