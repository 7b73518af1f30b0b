package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/agalitsyn/flagutils"

	"github.com/agalitsyn/todos/version"
)

const EnvPrefix = "TODOS"

type Config struct {
	Debug bool

	Log struct {
		Level string `toml:"level"`
	} `toml:"log"`

	DB struct {
		Path string `toml:"path"`
	} `toml:"db"`

	NoColor bool `toml:"no_color"`
}

func (c Config) String() string {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stdout, err)
		os.Exit(0)
	}
	return string(b)
}

func ParseFlags() Config {
	var cfg Config

	printVersion := flag.Bool("version", false, "Show version.")
	configPath := flag.String("config", "", "Path to TOML config file.")
	logLevel := flag.String("log-level", "info", "Log level (trace | debug | info).")
	dbPath := flag.String("db", "todos.db", "Path to SQLite database file.")
	noColor := flag.Bool("no-color", false, "Disable colored output.")

	flag.Usage = usage

	flagutils.Prefix = EnvPrefix
	flagutils.Parse()
	flag.Parse()

	if *printVersion {
		fmt.Fprintln(os.Stdout, version.String())
		os.Exit(0)
	}

	if *configPath != "" {
		if _, err := toml.DecodeFile(*configPath, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "could not read config %s: %s\n", *configPath, err)
			os.Exit(2)
		}
	}

	// explicitly set flags and env values win over the config file
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["log-level"] || cfg.Log.Level == "" {
		cfg.Log.Level = *logLevel
	}
	if set["db"] || cfg.DB.Path == "" {
		cfg.DB.Path = *dbPath
	}
	if set["no-color"] {
		cfg.NoColor = *noColor
	}

	switch cfg.Log.Level {
	case "debug", "trace":
		cfg.Debug = true
	}

	return cfg
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: %s [flags] [command] [args]\n\n", os.Args[0])
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  list                                  Show all todos (default).")
	fmt.Fprintln(out, "  watch                                 Show todos and refresh on every change.")
	fmt.Fprintln(out, "  add [-due D] [-priority P] [-description T] TITLE")
	fmt.Fprintln(out, "  countdown [-due D] [-priority P] [-description T] TOTAL TITLE")
	fmt.Fprintln(out, "  toggle ID")
	fmt.Fprintln(out, "  inc [-by N] ID")
	fmt.Fprintln(out, "  dec [-by N] ID")
	fmt.Fprintln(out, "  set ID COUNT")
	fmt.Fprintln(out, "  rm ID")
	fmt.Fprintln(out, "\nFlags:")
	flag.PrintDefaults()
}
