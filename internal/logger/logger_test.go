package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithCarriesDomainFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := wrap(zap.New(core)).With(PlaceID("p100"))

	log.Info("bookmark added", UserID(7))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["place_id"] != "p100" {
		t.Errorf("place_id = %v, want p100", fields["place_id"])
	}
	if fields["user_id"] != int64(7) {
		t.Errorf("user_id = %v, want 7", fields["user_id"])
	}
}

func TestNewLevel(t *testing.T) {
	tests := []struct {
		level  string
		pretty bool
		debug  bool
		warn   bool
	}{
		{"debug", false, true, true},
		{"WARN", false, false, true},
		{" error ", true, false, false},
		{"", true, true, true},        // development default
		{"bogus", false, false, true}, // production default is info
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := New(tt.level, tt.pretty).(*loggerImpl)
			if got := l.base.Core().Enabled(zapcore.DebugLevel); got != tt.debug {
				t.Errorf("debug enabled = %v, want %v", got, tt.debug)
			}
			if got := l.base.Core().Enabled(zapcore.WarnLevel); got != tt.warn {
				t.Errorf("warn enabled = %v, want %v", got, tt.warn)
			}
		})
	}
}
