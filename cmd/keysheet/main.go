package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/mkarczewski/keysheet"
	"github.com/mkarczewski/keysheet/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()
	defer m.Close()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// ConfigPath and DBPath are resolved defaults; flags override them.
	ConfigPath string
	DBPath     string

	// SQLite database used by the keyword service.
	DB *sqlite.DB

	// KeywordService for end-to-end testing.
	KeywordService keysheet.KeywordService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPath: DefaultConfigPath(),
		DBPath:     DefaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("keysheet"),
		kong.Description("Expand seed keywords through search engine autosuggest."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'keysheet --help' to see available commands")
	}
	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	configPath := cli.Config
	explicit := configPath != ""
	if configPath == "" {
		configPath = m.ConfigPath
	}
	deps.File, err = LoadFileConfig(configPath, explicit)
	if err != nil {
		return fmt.Errorf("failed to load config: %s", keysheet.ErrorMessage(err))
	}

	dbPath := cli.DB
	if dbPath == "" {
		dbPath = deps.File.Database
	}
	if dbPath == "" {
		dbPath = m.DBPath
	}
	if dir := filepath.Dir(dbPath); dir != "." && dbPath != ":memory:" {
		_ = os.MkdirAll(dir, 0o755)
	}
	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}

	m.KeywordService = sqlite.NewKeywordService(m.DB)
	deps.DB = m.DB
	deps.Keywords = m.KeywordService

	return kongCtx.Run(deps)
}
