package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/runnerr0/jobtrack/internal/config"
	"github.com/runnerr0/jobtrack/internal/storage"
	"github.com/runnerr0/jobtrack/internal/tracker"
	"github.com/runnerr0/jobtrack/internal/urlid"
)

// dateLayout is the calendar date format accepted by date flags.
const dateLayout = "2006-01-02"

// loadConfig reads the config named by --config, or JOBTRACK_CONFIG / the
// default path, then applies environment overrides.
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if globals.Config != "" {
		path, perr := config.ExpandPath(globals.Config)
		if perr != nil {
			return nil, perr
		}
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadOrCreate()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// setupLogging installs the default slog handler on stderr.
func setupLogging(cfg config.LoggingConfig, verbose bool) {
	level := parseLevel(cfg.Level)
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// resolveDBPath applies the precedence --db-path > JOBTRACK_DB_PATH > config.
// The environment is already folded into cfg by loadConfig.
func resolveDBPath(globals *GlobalFlags, cfg *config.Config) (string, error) {
	if globals.DBPath != "" {
		return config.ExpandPath(globals.DBPath)
	}
	return cfg.DatabasePath()
}

// newStore builds a tracker.Store over backend configured from cfg.
func newStore(backend storage.Backend, cfg *config.Config) *tracker.Store {
	normalizer := urlid.NewNormalizer(cfg.Identity.TrackingParams...)
	return tracker.NewStore(backend,
		tracker.WithHasher(urlid.NewHasher(urlid.WithNormalizer(normalizer))),
		tracker.WithDefaultSettings(settingsFromConfig(cfg.Settings)),
	)
}

func settingsFromConfig(s config.SettingsConfig) tracker.Settings {
	return tracker.Settings{
		OverlayEnabled:  s.OverlayEnabled,
		OverlayPosition: s.OverlayPosition,
		Theme:           s.Theme,
		Notifications:   s.Notifications,
	}
}

// openService loads config, opens the database and starts the tracker
// service. The returned function closes both.
func openService(globals *GlobalFlags) (*tracker.Service, func(), error) {
	cfg, err := loadConfig(globals)
	if err != nil {
		return nil, nil, err
	}
	setupLogging(cfg.Logging, globals.Verbose)

	dbPath, err := resolveDBPath(globals, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve db path: %w", err)
	}
	slog.Debug("opening database", "path", dbPath)

	backend, err := storage.Open(dbPath, cfg.Storage.SQLiteJournalMode)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	svc := tracker.NewService(newStore(backend, cfg))
	cleanup := func() {
		svc.Close()
		backend.Close()
	}

	if err := svc.Initialize(context.Background()); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("initialize storage: %w", err)
	}
	return svc, cleanup, nil
}

// parseDate parses a --from/--to style calendar date in the local zone.
func parseDate(flag, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s value %q (want YYYY-MM-DD)", flag, s)
	}
	return t, nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printApplication prints one record in the human format shared by add,
// show and update.
func printApplication(app tracker.Application) {
	fmt.Printf("ID:       %s\n", app.ID)
	fmt.Printf("Title:    %s\n", app.Title)
	if app.Company != "" {
		fmt.Printf("Company:  %s\n", app.Company)
	}
	if app.Location != "" {
		fmt.Printf("Location: %s\n", app.Location)
	}
	fmt.Printf("Status:   %s\n", app.Status.Label())
	fmt.Printf("URL:      %s\n", app.URL)
	fmt.Printf("Domain:   %s\n", app.Domain)
	fmt.Printf("Applied:  %s\n", app.DateApplied.Local().Format(time.RFC3339))
	fmt.Printf("Modified: %s\n", app.DateModified.Local().Format(time.RFC3339))
	if app.Notes != "" {
		fmt.Printf("Notes:    %s\n", app.Notes)
	}
}

// truncate shortens s to max runes, adding "..." when cut.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
