package config_test

import (
	"testing"

	"github.com/tavernbot/tavern/internal/config"
)

func TestDiff_NoChanges(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{
		Server: config.ServerConfig{LogLevel: config.LogInfo},
		SRD:    config.SRDConfig{SearchLimit: 10, SuggestThreshold: 0.8},
	}
	d := config.Diff(cfg, cfg)
	if d.LogLevelChanged {
		t.Error("expected LogLevelChanged=false for identical configs")
	}
	if d.SearchTuningChanged {
		t.Error("expected SearchTuningChanged=false for identical configs")
	}
}

func TestDiff_LogLevelChanged(t *testing.T) {
	t.Parallel()
	old := &config.Config{Server: config.ServerConfig{LogLevel: config.LogInfo}}
	new := &config.Config{Server: config.ServerConfig{LogLevel: config.LogDebug}}

	d := config.Diff(old, new)
	if !d.LogLevelChanged {
		t.Error("expected LogLevelChanged=true")
	}
	if d.NewLogLevel != config.LogDebug {
		t.Errorf("expected NewLogLevel=debug, got %q", d.NewLogLevel)
	}
}

func TestDiff_SearchTuningChanged(t *testing.T) {
	t.Parallel()
	old := &config.Config{SRD: config.SRDConfig{SearchLimit: 10, SuggestThreshold: 0.8}}
	new := &config.Config{SRD: config.SRDConfig{SearchLimit: 25, SuggestThreshold: 0.7}}

	d := config.Diff(old, new)
	if !d.SearchTuningChanged {
		t.Error("expected SearchTuningChanged=true")
	}
	if d.NewSearchLimit != 25 {
		t.Errorf("expected NewSearchLimit=25, got %d", d.NewSearchLimit)
	}
	if d.NewSuggestThreshold != 0.7 {
		t.Errorf("expected NewSuggestThreshold=0.7, got %.2f", d.NewSuggestThreshold)
	}
}

func TestDiff_DataDirChangeIsNotHotReloadable(t *testing.T) {
	t.Parallel()
	old := &config.Config{SRD: config.SRDConfig{DataDir: "a"}}
	new := &config.Config{SRD: config.SRDConfig{DataDir: "b"}}

	d := config.Diff(old, new)
	if d.SearchTuningChanged {
		t.Error("data_dir change should not trigger SearchTuningChanged")
	}
	if d.LogLevelChanged {
		t.Error("data_dir change should not trigger LogLevelChanged")
	}
}

func TestDiff_MultipleChanges(t *testing.T) {
	t.Parallel()
	old := &config.Config{
		Server: config.ServerConfig{LogLevel: config.LogInfo},
		SRD:    config.SRDConfig{SearchLimit: 10},
	}
	new := &config.Config{
		Server: config.ServerConfig{LogLevel: config.LogWarn},
		SRD:    config.SRDConfig{SearchLimit: 15},
	}

	d := config.Diff(old, new)
	if !d.LogLevelChanged {
		t.Error("expected LogLevelChanged=true")
	}
	if !d.SearchTuningChanged {
		t.Error("expected SearchTuningChanged=true")
	}
}
