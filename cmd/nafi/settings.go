package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"nafi/internal/config"
	"nafi/internal/diagfmt"
	"nafi/internal/driver"
	"nafi/internal/observ"
	"nafi/internal/prof"
)

// settings is the merged view of built-in defaults, nafi.toml and flags,
// in increasing priority.
type settings struct {
	manifest *config.Manifest

	// format is [output].format; "" lets each command pick its default.
	format     string
	colorOut   bool
	colorErr   bool
	diagFormat string
	timings    bool
	ui         uiMode
	opts       driver.Options
}

// prepare resolves settings and installs the tracer into cmd's context.
// The returned cleanup flushes the tracer and must always run.
func prepare(cmd *cobra.Command) (*settings, func(), error) {
	flags := cmd.Flags()
	manifest, err := loadManifest(flags)
	if err != nil {
		return nil, nil, err
	}
	cfg := manifest.Config
	s := &settings{manifest: manifest, format: cfg.Output.Format}

	colorMode, err := stringSetting(flags, "color", cfg.Output.Color)
	if err != nil {
		return nil, nil, err
	}
	switch colorMode {
	case "on":
		s.colorOut, s.colorErr = true, true
	case "off":
	case "auto":
		s.colorOut, s.colorErr = isTerminalWriter(cmd.OutOrStdout()), isTerminalWriter(cmd.ErrOrStderr())
	default:
		return nil, nil, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorMode)
	}
	// fatih/color сам решает по isatty; здесь решение уже принято
	color.NoColor = !s.colorOut

	if s.diagFormat, err = flags.GetString("diagnostics"); err != nil {
		return nil, nil, fmt.Errorf("failed to get diagnostics flag: %w", err)
	}
	if s.diagFormat != "pretty" && s.diagFormat != "json" {
		return nil, nil, fmt.Errorf("invalid --diagnostics value %q (expected pretty|json)", s.diagFormat)
	}
	if s.timings, err = flags.GetBool("timings"); err != nil {
		return nil, nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	uiFlag, err := flags.GetString("ui")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if s.ui, err = readUIMode(uiFlag); err != nil {
		return nil, nil, err
	}

	if s.opts.MaxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return nil, nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if s.opts.Jobs, err = intSetting(flags, "jobs", cfg.Jobs.Max); err != nil {
		return nil, nil, err
	}
	if s.opts.Intern, err = boolSetting(flags, "intern", cfg.Lexer.Intern); err != nil {
		return nil, nil, err
	}
	if s.timings {
		s.opts.Timer = observ.NewTimer()
	}
	if err := s.openCache(flags); err != nil {
		return nil, nil, err
	}

	profiler, err := startProfiling(flags)
	if err != nil {
		return nil, nil, err
	}
	traceCleanup, err := setupTracing(cmd, cfg.Trace)
	if err != nil {
		_ = profiler.Stop()
		return nil, nil, err
	}
	cleanup := func() {
		traceCleanup()
		if err := profiler.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
		}
	}
	return s, cleanup, nil
}

func startProfiling(flags *pflag.FlagSet) (*prof.Session, error) {
	var cfg prof.Config
	for name, dst := range map[string]*string{"cpu-profile": &cfg.CPU, "mem-profile": &cfg.Mem, "runtime-trace": &cfg.Trace} {
		v, err := flags.GetString(name)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*dst = v
	}
	if !cfg.Enabled() {
		return nil, nil
	}
	return prof.Start(cfg)
}

func loadManifest(flags *pflag.FlagSet) (*config.Manifest, error) {
	path, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path == "" {
		m, _, err := config.Discover(".")
		return m, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return &config.Manifest{Path: path, Config: cfg}, nil
}

func (s *settings) openCache(flags *pflag.FlagSet) error {
	enabled, err := boolSetting(flags, "cache", s.manifest.Config.Cache.Enabled)
	if err != nil || !enabled {
		return err
	}
	dir, err := stringSetting(flags, "cache-dir", s.manifest.CacheDir())
	if err != nil {
		return err
	}
	if dir == "" {
		s.opts.Cache, err = driver.OpenDiskCache("nafi")
	} else {
		s.opts.Cache, err = driver.OpenDiskCacheAt(dir)
	}
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	return nil
}

func (s *settings) prettyOpts() diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:     s.colorErr,
		Context:   2,
		ShowNotes: true,
	}
}

// outputFormat picks [output].format when it is one of allowed, else def.
func (s *settings) outputFormat(flags *pflag.FlagSet, allowed ...string) (string, error) {
	format, err := flags.GetString("format")
	if err != nil {
		return "", fmt.Errorf("failed to get format flag: %w", err)
	}
	if !flags.Changed("format") && s.format != "" {
		for _, a := range allowed {
			if a == s.format {
				format = s.format
			}
		}
	}
	for _, a := range allowed {
		if a == format {
			return format, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (expected %s)", format, strings.Join(allowed, "|"))
}

func stringSetting(flags *pflag.FlagSet, name, fromConfig string) (string, error) {
	v, err := flags.GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	if flags.Changed(name) || fromConfig == "" {
		return v, nil
	}
	return fromConfig, nil
}

func intSetting(flags *pflag.FlagSet, name string, fromConfig int) (int, error) {
	v, err := flags.GetInt(name)
	if err != nil {
		return 0, fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	if flags.Changed(name) {
		return v, nil
	}
	return fromConfig, nil
}

func boolSetting(flags *pflag.FlagSet, name string, fromConfig bool) (bool, error) {
	v, err := flags.GetBool(name)
	if err != nil {
		return false, fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	if flags.Changed(name) {
		return v, nil
	}
	return fromConfig, nil
}
