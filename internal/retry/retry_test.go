package retry

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ablemap/ablemap/internal/logger"
)

func fastPolicy() Policy {
	return Policy{
		ConnectTimeout: 500 * time.Millisecond,
		RetryInterval:  5 * time.Millisecond,
		MaxWait:        20 * time.Millisecond,
		PingTimeout:    50 * time.Millisecond,
		WarnThreshold:  1,
	}
}

func TestConnectSucceedsAfterRetries(t *testing.T) {
	var calls atomic.Int32
	ping := func(context.Context) error {
		if calls.Add(1) < 3 {
			return errors.New("connection refused")
		}
		return nil
	}

	err := Connect(context.Background(), "test", "localhost", fastPolicy(), ping, logger.New("error", false))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("ping called %d times, want 3", calls.Load())
	}
}

func TestConnectTimesOut(t *testing.T) {
	boom := errors.New("connection refused")
	p := fastPolicy()
	p.ConnectTimeout = 60 * time.Millisecond

	err := Connect(context.Background(), "test", "localhost", p, func(context.Context) error { return boom }, logger.New("error", false))
	if !errors.Is(err, boom) {
		t.Fatalf("Connect() error = %v, want wrapped %v", err, boom)
	}
}

func TestPolicyValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Policy)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Policy) {}, wantErr: false},
		{name: "zero connect timeout", mutate: func(p *Policy) { p.ConnectTimeout = 0 }, wantErr: true},
		{name: "zero retry interval", mutate: func(p *Policy) { p.RetryInterval = 0 }, wantErr: true},
		{name: "zero max wait", mutate: func(p *Policy) { p.MaxWait = 0 }, wantErr: true},
		{name: "zero ping timeout", mutate: func(p *Policy) { p.PingTimeout = 0 }, wantErr: true},
		{name: "negative warn threshold", mutate: func(p *Policy) { p.WarnThreshold = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := fastPolicy()
			tt.mutate(&p)
			if err := p.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
