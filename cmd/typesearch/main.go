// Copyright 2025 The TypeSearch Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the typesearch lookup tool and IPC server.

TypeSearch answers one question: which @types package provides type
definitions for a given library name, global identifier or module specifier?
It downloads the search index published for the DefinitelyTyped packages,
caches it locally as msgpack, and resolves terms against a Patricia trie of
tokens. Results are ranked with exact name matches first and monthly
downloads after that.

# Usage

Look up a single term:

	typesearch lodash
	typesearch '$'
	typesearch -limit 3 react-dom

Print only "package<TAB>url" lines:

	typesearch -plain jquery

List indexed tokens starting with a prefix:

	typesearch -complete lod

Run the interactive prompt or the IPC server:

	typesearch -c
	typesearch -s

# Configuration

The TOML config lives in $XDG_CONFIG_HOME/typesearch/config.toml and is
created with defaults on first run:

	[feed]
	url = "https://typespublisher.blob.core.windows.net/typespublisher/data/search-index-min.json"
	timeout_sec = 20
	max_retries = 2
	cache_ttl_min = 1440
	offline = false

	[search]
	limit = 0
	fold_case = false
	namespace = "@types/"
	suggestions = 5

	[server]
	max_limit = 64
	max_term_len = 214

	[log]
	level = "warn"
	format = "text"

# Index cache

The downloaded index is stored in the user cache dir as index.msgpack. It is
served without a network round trip while younger than cache_ttl_min; after
that it is refreshed, and kept as a fallback if the download fails. -offline
serves the cache whatever its age, -refresh forces a download.

# IPC Protocol

With -s the process reads msgpack requests from stdin and writes one msgpack
response per request to stdout:

	{"id": "q1", "q": "lodash", "l": 5}
	{"id": "q1", "r": [{"p": "@types/lodash", "u": "https://lodash.com", "d": 4200, "r": 1}], "c": 1, "t": 38}

	{"id": "a1", "action": "reload"}
	{"id": "a2", "action": "stats"}

See package server for the full message set.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bastiangx/typesearch/internal/cli"
	"github.com/bastiangx/typesearch/internal/logger"
	"github.com/bastiangx/typesearch/internal/utils"
	"github.com/bastiangx/typesearch/pkg/config"
	"github.com/bastiangx/typesearch/pkg/feed"
	"github.com/bastiangx/typesearch/pkg/index"
	"github.com/bastiangx/typesearch/pkg/records"
	"github.com/bastiangx/typesearch/pkg/search"
	"github.com/bastiangx/typesearch/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version   = "0.3.0"
	AppName   = "typesearch"
	gh        = "https://github.com/bastiangx/typesearch"
	cacheFile = "index.msgpack"
	exitGrace = time.Second
)

// Exit codes.
const (
	exitOK      = 0
	exitNoMatch = 1
	exitUsage   = 1
	exitError   = 2
)

// sigHandler cancels the running context on SIGINT or SIGTERM and exits once
// the grace period ends or a second signal arrives.
func sigHandler(cancel context.CancelFunc) {
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		cancel()
		select {
		case <-c:
		case <-time.After(exitGrace):
		}
		os.Exit(exitOK)
	}()
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigHandler(cancel)

	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run the interactive prompt")
	serverMode := flag.Bool("s", false, "Run the msgpack IPC server on stdin/stdout")
	configFile := flag.String("config", "", "Path to a custom config file")
	refresh := flag.Bool("refresh", false, "Download the index even if the cache is fresh")
	offline := flag.Bool("offline", false, "Serve the cached index only")
	limit := flag.Int("limit", -1, "Maximum number of results (0 for all, default from config)")
	plain := flag.Bool("plain", false, "Print package<TAB>url lines without styling")
	complete := flag.Bool("complete", false, "List indexed tokens starting with the term")
	noFilter := flag.Bool("no-filter", false, "Accept terms with unexpected characters in CLI mode")
	rebuildConfig := flag.Bool("rebuild-config", false, "Overwrite the default config file with defaults and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <term>\n       %s -c | -s\n\n", AppName, AppName)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(exitOK)
	}

	if *rebuildConfig {
		if err := config.RebuildConfigFile(); err != nil {
			fatal("Failed to rebuild config", err)
		}
		fmt.Fprintf(os.Stderr, "Config written to %s\n", config.GetActiveConfigPath(""))
		os.Exit(exitOK)
	}

	term := flag.Arg(0)
	if term == "" && !*cliMode && !*serverMode {
		flag.Usage()
		os.Exit(exitUsage)
	}

	appConfig, configPath, err := config.LoadConfigWithPriority(*configFile)
	if err != nil {
		fatal("Failed to load config", err)
	}
	if err := logger.Setup(os.Stderr, appConfig.Log.Level, appConfig.Log.Format, *debugMode); err != nil {
		log.Warn("Invalid log config, using defaults", "err", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(configPath))

	if *limit >= 0 {
		appConfig.Search.Limit = *limit
	}
	if *offline {
		appConfig.Feed.Offline = true
	}

	loader, err := newLoader(appConfig.Feed)
	if err != nil {
		fatal("Failed to set up index cache", err)
	}
	buildStore := func(recs []records.SearchRecord, err error) (*index.Store, error) {
		if err != nil {
			return nil, err
		}
		return index.Load(recs, index.WithFoldCase(appConfig.Search.FoldCase))
	}

	load := loader.Load
	if *refresh && !appConfig.Feed.Offline {
		load = loader.Refresh
	}
	store, err := buildStore(load(ctx))
	if err != nil {
		fatal("Failed to load index", err)
	}
	log.Debug("Index ready", "records", store.Len(), "tokens", store.TokenCount())

	searcher := search.New(store,
		search.WithNamespace(appConfig.Search.Namespace),
		search.WithLimit(appConfig.Search.Limit))

	switch {
	case *serverMode:
		reload := func(ctx context.Context) (*index.Store, error) {
			return buildStore(loader.Reload(ctx))
		}
		srv := server.NewServer(searcher, reload, appConfig.Server, os.Stdin, os.Stdout)
		if err := srv.Start(ctx); err != nil {
			fatal("Server error", err)
		}
	case *cliMode:
		handler := cli.NewInputHandler(searcher, os.Stdout, appConfig.Search, appConfig.Server.MaxTermLen, *noFilter)
		if err := handler.Start(os.Stdin); err != nil {
			fatal("CLI error", err)
		}
	case *complete:
		n := appConfig.Search.Limit
		if n <= 0 {
			n = 20
		}
		tokens := store.Complete(term, n)
		if len(tokens) == 0 {
			os.Exit(exitNoMatch)
		}
		cli.PrintTokens(os.Stdout, term, tokens)
	default:
		os.Exit(lookup(searcher, appConfig.Search, term, *plain))
	}
}

// fatal logs err and exits with exitError, keeping exit code 1 for "no match".
func fatal(msg string, err error) {
	log.Error(msg, "err", err)
	os.Exit(exitError)
}

// lookup runs a one-shot search and returns the exit code.
func lookup(searcher *search.Searcher, cfg config.SearchConfig, term string, plain bool) int {
	term = utils.StripNamespace(term, cfg.Namespace)
	results, err := searcher.Search(term)
	if err != nil {
		log.Error("Search failed", "err", err)
		return exitError
	}
	if len(results) == 0 {
		log.Warnf("No type definitions found for '%s'", term)
		if hints := searcher.Suggest(term, cfg.Suggestions); len(hints) > 0 && !plain {
			cli.PrintHints(os.Stderr, hints)
		}
		return exitNoMatch
	}
	if plain {
		cli.PrintPlain(os.Stdout, results)
	} else {
		cli.PrintResults(os.Stdout, term, results)
	}
	return exitOK
}

// newLoader wires the fetcher and the on-disk cache.
func newLoader(cfg config.FeedConfig) (*feed.Loader, error) {
	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		return nil, err
	}
	cachePath, err := pathResolver.GetCachePath(cacheFile)
	if err != nil {
		return nil, err
	}
	log.Debugf("Using index cache at: %s", cachePath)

	url := cfg.URL
	if url == "" {
		url = feed.DefaultURL
	}
	loader := feed.NewLoader(feed.NewFetcher(url, cfg.Timeout(), cfg.MaxRetries), feed.NewCache(cachePath), cfg.CacheTTL())
	loader.SetOffline(cfg.Offline)
	return loader, nil
}

// printVersion shows the version banner.
func printVersion() {
	banner := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ TypeSearch ] Finds the @types package for any library")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}
