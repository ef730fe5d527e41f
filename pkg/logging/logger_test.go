package logging

import (
	"testing"

	"github.com/inkwell-cms/inkwell/pkg/config"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LoggingConfig
	}{
		{
			name: "json format",
			cfg:  config.LoggingConfig{Level: "INFO", Format: "json"},
		},
		{
			name: "text format",
			cfg:  config.LoggingConfig{Level: "DEBUG", Format: "text"},
		},
		{
			name: "unknown level falls back to info",
			cfg:  config.LoggingConfig{Level: "LOUD", Format: "json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := InitLogger(&tt.cfg); err != nil {
				t.Fatalf("InitLogger() error: %v", err)
			}
			if Logger == nil {
				t.Fatal("InitLogger() left Logger nil")
			}
		})
	}
}

func TestGetLoggerFallback(t *testing.T) {
	old := Logger
	defer func() { Logger = old }()

	Logger = nil
	if got := GetLogger(); got == nil {
		t.Error("GetLogger() should never return nil")
	}
}
