package config

// ConfigDiff describes what changed between two configs.
// Only fields that can be safely hot-reloaded are tracked.
type ConfigDiff struct {
	LogLevelChanged bool
	NewLogLevel     LogLevel

	// Search tuning can be applied to a running bot without
	// reconnecting to Discord or reloading the datasets.
	SearchTuningChanged bool
	NewSearchLimit      int
	NewSuggestThreshold float64
}

// Diff compares old and new configs and returns what changed.
// Only tracks changes that are safe to apply without restart.
func Diff(old, new *Config) ConfigDiff {
	d := ConfigDiff{}

	if old.Server.LogLevel != new.Server.LogLevel {
		d.LogLevelChanged = true
		d.NewLogLevel = new.Server.LogLevel
	}

	if old.SRD.SearchLimit != new.SRD.SearchLimit ||
		old.SRD.SuggestThreshold != new.SRD.SuggestThreshold {
		d.SearchTuningChanged = true
		d.NewSearchLimit = new.SRD.SearchLimit
		d.NewSuggestThreshold = new.SRD.SuggestThreshold
	}

	return d
}
