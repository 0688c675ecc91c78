package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ablemap/ablemap/internal/domain"
	"github.com/ablemap/ablemap/internal/logger"
)

func TestKakaoProviderVerify(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantErr  error
		wantID   string
		wantNick string
	}{
		{
			name:     "valid token",
			status:   http.StatusOK,
			body:     `{"id": 4242, "properties": {"nickname": "neo"}}`,
			wantID:   "4242",
			wantNick: "neo",
		},
		{
			name:     "nickname from account profile",
			status:   http.StatusOK,
			body:     `{"id": 7, "kakao_account": {"profile": {"nickname": "trinity"}}}`,
			wantID:   "7",
			wantNick: "trinity",
		},
		{name: "expired token", status: http.StatusUnauthorized, body: `{"code": -401}`, wantErr: domain.ErrAuthentication},
		{name: "malformed token", status: http.StatusBadRequest, body: `{}`, wantErr: domain.ErrAuthentication},
		{name: "provider outage", status: http.StatusBadGateway, body: ``, wantErr: domain.ErrIdentityUnavailable},
		{name: "garbage payload", status: http.StatusOK, body: `not json`, wantErr: domain.ErrIdentityUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v2/user/me", r.URL.Path)
				assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := NewKakaoProvider(srv.URL, time.Second, logger.New("error", false))
			subject, err := p.Verify(context.Background(), "tok")

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.Subject{Provider: "kakao", ID: tt.wantID, Nickname: tt.wantNick}, subject)
		})
	}
}

func TestKakaoProviderBreakerOpens(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewKakaoProvider(srv.URL, time.Second, logger.New("error", false))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := p.Verify(ctx, "tok")
		require.True(t, errors.Is(err, domain.ErrIdentityUnavailable))
	}
	assert.Equal(t, "open", p.State())

	_, err := p.Verify(ctx, "tok")
	assert.True(t, errors.Is(err, domain.ErrIdentityUnavailable))
	assert.Equal(t, int32(5), hits.Load(), "open breaker must not reach the provider")
}

func TestKakaoProviderRejectionsDoNotTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewKakaoProvider(srv.URL, time.Second, logger.New("error", false))
	for i := 0; i < 10; i++ {
		_, err := p.Verify(context.Background(), "bad")
		require.True(t, errors.Is(err, domain.ErrAuthentication))
	}
	assert.Equal(t, "closed", p.State())
}

func TestKakaoProviderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	p := NewKakaoProvider(url, 200*time.Millisecond, logger.New("error", false))
	_, err := p.Verify(context.Background(), "tok")
	assert.True(t, errors.Is(err, domain.ErrIdentityUnavailable))
}
