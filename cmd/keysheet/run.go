package main

import (
	"fmt"
	"time"

	"github.com/mkarczewski/keysheet"
	"github.com/mkarczewski/keysheet/expand"
	"github.com/mkarczewski/keysheet/fs"
	keysheethttp "github.com/mkarczewski/keysheet/http"
	keyslog "github.com/mkarczewski/keysheet/slog"
	"github.com/mkarczewski/keysheet/tor"
)

// defaultOutputFile matches the tool's historical output name.
const defaultOutputFile = "keywords_output.txt"

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	cfg, err := c.resolveConfig(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", keysheet.ErrorMessage(err))
		return err
	}

	seeds, err := c.resolveSeeds(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", keysheet.ErrorMessage(err))
		return err
	}

	output := c.Output
	if output == "" {
		output = deps.File.Output
	}
	if output == "" {
		output = defaultOutputFile
	}
	writer := fs.NewWriter(output)
	defer writer.Close()

	sink := keyslog.NewLoggingSink(keysheet.MultiSink{writer, deps.Keywords}, deps.Logger)

	bindings, err := c.buildBindings(deps, cfg)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", keysheet.ErrorMessage(err))
		return err
	}

	seen := expand.NewSet()
	expander := &expand.Expander{
		Queue:         expand.NewQueue(),
		Seen:          seen,
		Sink:          sink,
		Bindings:      bindings,
		MaxPerEngine:  cfg.MaxPerEngine,
		QueryTimeout:  cfg.QueryTimeout,
		StarveTimeout: cfg.StarveTimeout,
		ShutdownGrace: cfg.ShutdownGrace,
		Logger:        deps.Logger,
	}

	started := time.Now()
	result, err := expander.Run(deps.Ctx, seeds)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", keysheet.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Expanded %d seed(s) into %d unique keywords in %s\n",
		len(seeds), result.Unique, time.Since(started).Round(time.Millisecond))
	for _, s := range result.Sources {
		line := fmt.Sprintf("  %-16s processed %4d, failures %2d, %s", s.Engine, s.Processed, s.Failures, s.State)
		if s.Reason != "" {
			line += " (" + s.Reason + ")"
		}
		fmt.Fprintln(deps.Stdout, line)
	}
	if result.Abandoned > 0 {
		fmt.Fprintf(deps.Stdout, "  %d worker(s) abandoned after the shutdown grace period\n", result.Abandoned)
	}
	fmt.Fprintf(deps.Stdout, "Keywords written to %s\n", output)

	return nil
}

// resolveConfig merges defaults, the config file, and flags, then validates.
func (c *RunCmd) resolveConfig(deps *Dependencies) (keysheet.Config, error) {
	file := deps.File
	cfg := keysheet.DefaultConfig()

	if file.MaxPerEngine != nil {
		cfg.MaxPerEngine = *file.MaxPerEngine
	}
	if file.Delay != nil {
		cfg.Delay = file.Delay.Std()
	}
	if file.FailureThreshold != nil {
		cfg.FailureThreshold = *file.FailureThreshold
	}
	if file.QueryTimeout != nil {
		cfg.QueryTimeout = file.QueryTimeout.Std()
	}
	if file.StarveTimeout != nil {
		cfg.StarveTimeout = file.StarveTimeout.Std()
	}
	if file.ShutdownGrace != nil {
		cfg.ShutdownGrace = file.ShutdownGrace.Std()
	}

	if c.Max != nil {
		cfg.MaxPerEngine = *c.Max
	}
	if c.Delay != nil {
		cfg.Delay = *c.Delay
	}
	if c.FailureThreshold != nil {
		cfg.FailureThreshold = *c.FailureThreshold
	}
	if c.QueryTimeout != nil {
		cfg.QueryTimeout = *c.QueryTimeout
	}
	if c.StarveTimeout != nil {
		cfg.StarveTimeout = *c.StarveTimeout
	}
	if c.ShutdownGrace != nil {
		cfg.ShutdownGrace = *c.ShutdownGrace
	}

	names := c.Engines
	if len(names) == 0 {
		names = file.Engines
	}
	if len(names) == 0 {
		cfg.Engines = keysheet.Engines()
	} else {
		for _, name := range names {
			engine, err := keysheet.ParseEngine(name)
			if err != nil {
				return cfg, err
			}
			cfg.Engines = append(cfg.Engines, engine)
		}
	}

	proxies, proxyType, err := c.resolveProxies(deps)
	if err != nil {
		return cfg, err
	}
	if len(proxies) > 0 {
		cfg.ProxyEnabled = true
		cfg.ProxyType = proxyType
		cfg.Proxies = proxies
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// resolveProxies loads the proxy list from the flag file, the config file
// list, or the config file's own proxy file, in that order.
func (c *RunCmd) resolveProxies(deps *Dependencies) ([]string, keysheet.ProxyType, error) {
	file := deps.File
	typ := keysheet.ProxyType(c.ProxyType)
	if typ == "" {
		typ = keysheet.ProxyType(file.Proxy.Type)
	}
	if typ == "" {
		typ = keysheet.ProxyHTTPS
	}

	path := c.ProxyFile
	if path == "" && len(file.Proxy.List) > 0 {
		return file.Proxy.List, typ, nil
	}
	if path == "" {
		path = file.Proxy.File
	}
	if path == "" {
		return nil, typ, nil
	}

	// The proxy list shares the seed file format: one entry per line.
	proxies, err := fs.NewSeedFile(path).Seeds(deps.Ctx)
	if err != nil {
		return nil, typ, err
	}
	return proxies, typ, nil
}

// resolveSeeds combines positional seeds with the seed file, if given.
func (c *RunCmd) resolveSeeds(deps *Dependencies) ([]string, error) {
	seeds := c.Seeds
	if c.SeedFile != "" {
		fromFile, err := fs.NewSeedFile(c.SeedFile).Seeds(deps.Ctx)
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, fromFile...)
	}
	if len(seeds) == 0 {
		return nil, keysheet.Errorf(keysheet.EINVALID, "No seed keywords given. Pass them as arguments or with --seed-file.")
	}
	return seeds, nil
}

// buildBindings constructs one source binding per configured engine.
func (c *RunCmd) buildBindings(deps *Dependencies, cfg keysheet.Config) ([]expand.Binding, error) {
	var opts []keysheethttp.Option
	if cfg.ProxyEnabled {
		opts = append(opts, keysheethttp.WithProxies(expand.NewRotator(cfg.Proxies), cfg.ProxyType))
	}
	opts = append(opts, keysheethttp.WithTimeout(cfg.QueryTimeout))
	client := keysheethttp.NewClient(opts...)

	bindings := make([]expand.Binding, 0, len(cfg.Engines))
	for _, engine := range cfg.Engines {
		source, err := c.buildSource(deps, cfg, client, engine)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, expand.Binding{
			Source:  keyslog.NewLoggingSource(source, deps.Logger),
			Pacer:   expand.NewPacer(cfg.Delay),
			Breaker: expand.NewBreaker(cfg.FailureThreshold),
		})
	}
	return bindings, nil
}

func (c *RunCmd) buildSource(deps *Dependencies, cfg keysheet.Config, client *keysheethttp.Client, engine keysheet.Engine) (keysheet.Source, error) {
	switch engine {
	case keysheet.EngineGoogle:
		return keysheethttp.NewGoogleSource(client), nil
	case keysheet.EngineYouTube:
		return keysheethttp.NewYouTubeSource(client), nil
	case keysheet.EngineBing:
		return keysheethttp.NewBingSource(client), nil
	case keysheet.EngineAmazon:
		return keysheethttp.NewAmazonSource(client), nil
	case keysheet.EngineYahoo:
		return keysheethttp.NewYahooSource(client), nil
	case keysheet.EngineEbay:
		return keysheethttp.NewEbaySource(client), nil
	case keysheet.EngineDuckDuckGo:
		return keysheethttp.NewDuckDuckGoSource(client), nil
	case keysheet.EngineDuckDuckGoTor:
		return c.buildTorSource(deps, cfg)
	default:
		return nil, keysheet.Errorf(keysheet.EINVALID, "unknown engine %q", engine)
	}
}

// buildTorSource routes DuckDuckGo queries through the local Tor daemon and
// wires the control-port identity rotator.
func (c *RunCmd) buildTorSource(deps *Dependencies, cfg keysheet.Config) (keysheet.Source, error) {
	socksAddr := c.TorSocks
	if socksAddr == "" {
		socksAddr = deps.File.Tor.Socks
	}
	if socksAddr == "" {
		socksAddr = tor.DefaultSOCKSAddr
	}
	controlAddr := c.TorControl
	if controlAddr == "" {
		controlAddr = deps.File.Tor.Control
	}
	if controlAddr == "" {
		controlAddr = tor.DefaultControlAddr
	}
	password := c.TorPassword
	if password == "" {
		password = deps.File.Tor.Password
	}

	torClient, err := tor.NewClient(socksAddr, cfg.QueryTimeout)
	if err != nil {
		return nil, err
	}
	controller, err := tor.NewController(controlAddr, password)
	if err != nil {
		return nil, err
	}

	client := keysheethttp.NewClient(keysheethttp.WithHTTPClient(torClient.HTTPClient()))
	return keysheethttp.NewDuckDuckGoTorSource(client, controller, deps.Logger), nil
}
