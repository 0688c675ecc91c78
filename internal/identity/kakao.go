package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"

	"github.com/ablemap/ablemap/internal/domain"
	"github.com/ablemap/ablemap/internal/logger"
	"github.com/ablemap/ablemap/internal/utils"
	"github.com/ablemap/ablemap/internal/version"
)

const kakaoUserPath = "/v2/user/me"

// KakaoProvider validates Kakao access tokens by asking the Kakao user API
// who owns them.
type KakaoProvider struct {
	baseURL string
	client  *http.Client
	cb      *gobreaker.CircuitBreaker[domain.Subject]
	log     logger.Logger
}

type kakaoUser struct {
	ID         int64 `json:"id"`
	Properties struct {
		Nickname string `json:"nickname"`
	} `json:"properties"`
	KakaoAccount struct {
		Profile struct {
			Nickname string `json:"nickname"`
		} `json:"profile"`
	} `json:"kakao_account"`
}

// NewKakaoProvider creates a provider for baseURL (ex: https://kapi.kakao.com).
// The breaker opens after 5 consecutive provider failures and tries again
// after 30s. Rejected credentials never count as failures.
func NewKakaoProvider(baseURL string, timeout time.Duration, log logger.Logger) *KakaoProvider {
	p := &KakaoProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}

	p.cb = gobreaker.NewCircuitBreaker[domain.Subject](gobreaker.Settings{
		Name:        "kakao-user-api",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrAuthentication)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("identity provider circuit breaker state change",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()))
		},
	})
	return p
}

func (p *KakaoProvider) Name() string { return domain.DefaultAuthProvider }

// State reports the breaker state ("closed", "half-open", "open").
func (p *KakaoProvider) State() string { return p.cb.State().String() }

func (p *KakaoProvider) Verify(ctx context.Context, credential string) (domain.Subject, error) {
	subject, err := p.cb.Execute(func() (domain.Subject, error) {
		return p.fetch(ctx, credential)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return domain.Subject{}, fmt.Errorf("%w: %v", domain.ErrIdentityUnavailable, err)
	}
	return subject, err
}

func (p *KakaoProvider) fetch(ctx context.Context, credential string) (domain.Subject, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+kakaoUserPath, nil)
	if err != nil {
		return domain.Subject{}, fmt.Errorf("failed to build kakao request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+credential)
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := p.client.Do(req)
	if err != nil {
		return domain.Subject{}, fmt.Errorf("%w: %v", domain.ErrIdentityUnavailable, err)
	}
	defer utils.DrainClose(resp.Body)

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusForbidden:
		return domain.Subject{}, fmt.Errorf("%w: kakao responded %d", domain.ErrAuthentication, resp.StatusCode)
	default:
		return domain.Subject{}, fmt.Errorf("%w: kakao responded %d", domain.ErrIdentityUnavailable, resp.StatusCode)
	}

	var u kakaoUser
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&u); err != nil {
		return domain.Subject{}, fmt.Errorf("%w: invalid kakao payload: %v", domain.ErrIdentityUnavailable, err)
	}
	if u.ID == 0 {
		return domain.Subject{}, fmt.Errorf("%w: kakao payload without id", domain.ErrAuthentication)
	}

	nickname := u.Properties.Nickname
	if nickname == "" {
		nickname = u.KakaoAccount.Profile.Nickname
	}
	return domain.Subject{
		Provider: p.Name(),
		ID:       strconv.FormatInt(u.ID, 10),
		Nickname: nickname,
	}, nil
}
