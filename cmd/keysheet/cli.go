package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/mkarczewski/keysheet"
	"github.com/mkarczewski/keysheet/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	DB       *sqlite.DB
	Keywords keysheet.KeywordService

	// File holds values loaded from the YAML config file; flags take
	// precedence over it where both are set.
	File *FileConfig
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool   `short:"v" help:"Enable debug logging"`
	Config  string `help:"Path to config file" type:"path"`
	DB      string `help:"Path to the keyword database" type:"path"`

	Run  RunCmd  `cmd:"" help:"Expand seed keywords against autosuggest engines"`
	List ListCmd `cmd:"" help:"List discovered keywords"`
}

// RunCmd is the "run" subcommand. Tuning flags are pointers so that unset
// flags fall through to the config file and then to the defaults.
type RunCmd struct {
	Seeds    []string `arg:"" optional:"" help:"Seed keywords"`
	SeedFile string   `help:"File with one seed keyword per line" type:"path"`

	Engines          []string       `short:"e" help:"Engines to query (default: all)"`
	Max              *int           `help:"Max keywords per engine"`
	Delay            *time.Duration `help:"Minimum delay between a worker's requests"`
	FailureThreshold *int           `help:"Consecutive failures before a worker halts"`
	QueryTimeout     *time.Duration `help:"Timeout for a single upstream query"`
	StarveTimeout    *time.Duration `help:"How long a worker waits for frontier keywords"`
	ShutdownGrace    *time.Duration `help:"How long shutdown waits for in-flight queries"`

	ProxyFile string `help:"File with one proxy endpoint per line" type:"path"`
	ProxyType string `help:"Proxy type: https or socks5" enum:"https,socks5," default:""`

	TorSocks    string `help:"Tor SOCKS address for the duckduckgo-tor engine"`
	TorControl  string `help:"Tor control port address"`
	TorPassword string `help:"Tor control port password"`

	Output string `short:"o" help:"Keyword output file" type:"path"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Engine string `help:"Only keywords attributed to this engine"`
	Limit  int    `default:"50" help:"Maximum rows to print (0 for all)"`
	Offset int    `help:"Rows to skip"`
}
