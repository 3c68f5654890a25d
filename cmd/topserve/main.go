// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the topserve completion server and CLI [DBG] application.

topserve answers one question about a fixed corpus of sentences: which
sentence starting with this prompt occurs most often? Ties go to the
sentence that ends first, then to the earlier letter. The corpus is loaded
once at startup and never changes afterwards.

# Usage

Serve completions for a text corpus over stdin/stdout:

	topserve -corpus cats.txt

Run the interactive CLI and cross-check every answer against a full scan:

	topserve -corpus cats.txt -c -verify

# Corpus

A corpus is either a text file with one sentence per line (blank lines and
lines starting with '#' are skipped) or a binary .bin file holding
pre-counted sentences. Every sentence must only use the configured alphabet,
lowercase a..z by default.

# Configuration

Runtime configuration lives in a TOML file:

	[server]
	min_prompt = 0
	max_prompt = 60
	reload = true

	[corpus]
	path = "cats.txt"
	alphabet = "abcdefghijklmnopqrstuvwxyz"
	encoding = "utf-8"

	[cli]
	fold_case = false
	verify = false
	show_count = true

The file is created with defaults if it doesn't exist. With reload enabled,
the server picks up new prompt limits without a restart.

# IPC Protocol

See package server. Requests and responses are msgpack maps:

	{"id": "req1", "p": "ab"}
	{"id": "req1", "s": "abazacy", "n": 3, "f": true, "t": 4}

# Command Line Flags

	-corpus string     Corpus file (.txt or .bin)
	-alphabet string   Letters allowed in sentences, in tie-break order
	-encoding string   Text corpus encoding: utf-8, latin1 or cp1252
	-config string     Path to config.toml
	-c                 Run the CLI instead of the IPC server
	-verify            Check every CLI answer against a full subtree scan
	-d                 Debug logging
	-level string      Log level when -d is not set
	-log-format string text, json or logfmt
	-rebuild-config    Rewrite the default config file and exit
	-version           Show version
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/topserve/internal/cli"
	"github.com/bastiangx/topserve/internal/logger"
	"github.com/bastiangx/topserve/internal/utils"
	"github.com/bastiangx/topserve/pkg/config"
	"github.com/bastiangx/topserve/pkg/corpus"
	"github.com/bastiangx/topserve/pkg/server"
	"github.com/bastiangx/topserve/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0-beta"
	AppName = "topserve"
	gh      = "https://github.com/bastiangx/topserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		cancel()
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires config, corpus, trie and the chosen front end together.
// It does not implement logic for them and only manages the flow.
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigHandler(cancel)

	defaults := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	corpusPath := flag.String("corpus", defaults.Corpus.Path, "Corpus file (.txt one sentence per line, or .bin)")
	alphabet := flag.String("alphabet", defaults.Corpus.Alphabet, "Letters allowed in sentences, in tie-break order")
	encoding := flag.String("encoding", defaults.Corpus.Encoding, "Text corpus encoding (utf-8, latin1, cp1252)")
	configPath := flag.String("config", "", "Path to config.toml (default: user config dir)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	level := flag.String("level", "warn", "Log level when -d is not set")
	logFormat := flag.String("log-format", "text", "Log format: text, json or logfmt")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	verify := flag.Bool("verify", defaults.CLI.Verify, "Check every CLI answer against a full subtree scan")
	rebuildConfig := flag.Bool("rebuild-config", false, "Rewrite the default config file and exit")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	setupLogging(*debugMode, *level, *logFormat)

	if *rebuildConfig {
		path, err := config.RebuildConfigFile()
		if err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		log.Infof("Wrote default config to %s", path)
		return
	}

	pathResolver, err := utils.NewPathResolver(AppName)
	if err != nil {
		log.Print("Either env is not set or system is not supported")
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}
	if *debugMode {
		log.Debug("Runtime", "info", pathResolver.GetRuntimeInfo())
	}

	cfg, activeConfigPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	// builtin defaults have no file behind them, persist them somewhere writable
	if activeConfigPath == "" {
		if fallback, err := pathResolver.GetConfigPath("config.toml"); err == nil {
			if err := config.SaveConfig(cfg, fallback); err != nil {
				log.Warnf("Failed to save fallback config: %v", err)
			} else {
				activeConfigPath = fallback
			}
		}
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activeConfigPath))

	// flags given explicitly win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "corpus":
			cfg.Corpus.Path = *corpusPath
		case "alphabet":
			cfg.Corpus.Alphabet = *alphabet
		case "encoding":
			cfg.Corpus.Encoding = *encoding
		case "verify":
			cfg.CLI.Verify = *verify
		}
	})

	resolvedCorpus, err := pathResolver.GetCorpusPath(cfg.Corpus.Path)
	if err != nil {
		log.Fatalf("Failed to resolve corpus (set -corpus or [corpus] path): %v", err)
	}

	letters, err := suggest.NewAlphabet(cfg.Corpus.Alphabet)
	if err != nil {
		log.Fatalf("Invalid alphabet %q: %v", cfg.Corpus.Alphabet, err)
	}

	entries, err := corpus.Load(resolvedCorpus, corpus.Options{Encoding: cfg.Corpus.Encoding})
	if err != nil {
		log.Fatalf("Failed to load corpus: %v", err)
	}

	trie, err := suggest.BuildEntries(entries, suggest.WithAlphabet(letters))
	if err != nil {
		log.Fatalf("Failed to build trie: %v", err)
	}
	log.Debug("Trie ready", "stats", trie.Stats())

	// CLI would be mainly used for testing and dbg purposes.
	if *cliMode {
		log.SetReportTimestamp(false)
		inputHandler := cli.NewInputHandler(trie, os.Stdin, os.Stdout, cfg.Server.MaxPrompt, cfg.CLI.FoldCase, cfg.CLI.ShowCount)
		if cfg.CLI.Verify {
			scan, err := suggest.NewScan(entries, trie.Alphabet())
			if err != nil {
				log.Fatalf("Failed to build verifier: %v", err)
			}
			inputHandler.SetVerifier(scan)
		}
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		if n := inputHandler.Mismatches(); n > 0 {
			log.Errorf("%d answers disagreed with the verifier", n)
			os.Exit(1)
		}
		return
	}
	if cfg.CLI.Verify {
		log.Warn("-verify only applies to CLI mode")
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(trie, cfg, os.Stdin, os.Stdout)
	srv.SetConfigPath(activeConfigPath)

	if cfg.Server.Reload && activeConfigPath != "" {
		watcher, err := config.NewWatcher(activeConfigPath, srv.UpdateConfig)
		if err != nil {
			log.Warnf("Config reload disabled: %v", err)
		} else if err := watcher.Start(ctx); err != nil {
			log.Warnf("Config reload disabled: %v", err)
		} else {
			defer watcher.Stop()
		}
	}

	showStartupInfo(resolvedCorpus, trie.Stats())

	if err := srv.Start(); err != nil {
		log.Errorf("Server stopped: %v", err)
		os.Exit(1)
	}
}

// setupLogging installs the global logger. Everything goes to stderr.
func setupLogging(debug bool, level, format string) {
	logLevel := logger.ParseLevel(level)
	if debug {
		logLevel = log.DebugLevel
	}

	formatter := log.TextFormatter
	switch format {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	}

	log.SetDefault(logger.NewWithConfig("", logLevel, false, debug, formatter))
}

// printVersion shows the styled version banner.
func printVersion() {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ topserve ] Most frequent sentence for any prompt")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(corpusPath string, stats map[string]int) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	fmt.Fprintln(os.Stderr, "==========")
	fmt.Fprintln(os.Stderr, " topserve ")
	fmt.Fprintln(os.Stderr, "==========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("corpus: ( %s )", corpusPath)
	log.Infof("sentences: %s (%s distinct)", utils.FormatWithCommas(stats["sentences"]), utils.FormatWithCommas(stats["distinct"]))
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "==========")

	log.SetLevel(currentLevel)
}
