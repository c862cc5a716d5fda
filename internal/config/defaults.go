package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path:              "~/.config/jobtrack",
			SQLiteFile:        "jobtrack.db",
			SQLiteJournalMode: "wal",
		},
		Identity: IdentityConfig{
			TrackingParams: []string{},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Settings: SettingsConfig{
			OverlayEnabled:  true,
			OverlayPosition: "top",
			Theme:           "light",
			Notifications:   true,
		},
	}
}
