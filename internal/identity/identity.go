package identity

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Snapshot is the caller-visible identity state: who the user is and
// whether the gate has resolved. Controllers must not read or write
// storage until Ready is true.
type Snapshot struct {
	UserID      string
	DisplayName string
	Ready       bool
}

// Provider resolves a session token into an identity snapshot. The
// sign-in flow itself (email codes, CAPTCHA, session issuance) lives in
// the external auth service; this side only verifies tokens it is handed.
type Provider interface {
	Identify(ctx context.Context, token string) (Snapshot, error)
}

// HTTPVerifier asks the external auth provider to introspect a session
// token.
type HTTPVerifier struct {
	client *resty.Client
	logger *zap.Logger
}

func NewHTTPVerifier(baseURL string, logger *zap.Logger) *HTTPVerifier {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(5 * time.Second)
	return &HTTPVerifier{client: client, logger: logger}
}

type introspection struct {
	Active      bool   `json:"active"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

func (v *HTTPVerifier) Identify(ctx context.Context, token string) (Snapshot, error) {
	var out introspection
	resp, err := v.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&out).
		Get("/session")
	if err != nil {
		return Snapshot{}, fmt.Errorf("introspect session: %w", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return Snapshot{}, nil
	}
	if resp.IsError() {
		return Snapshot{}, fmt.Errorf("introspect session: status %d", resp.StatusCode())
	}
	if !out.Active || out.UserID == "" {
		return Snapshot{}, nil
	}
	return Snapshot{UserID: out.UserID, DisplayName: out.DisplayName, Ready: true}, nil
}

// StaticProvider maps fixed tokens to users. Used for local development
// and tests where no auth service is running.
type StaticProvider struct {
	mu    sync.RWMutex
	users map[string]Snapshot
}

func NewStaticProvider() *StaticProvider {
	return &StaticProvider{users: make(map[string]Snapshot)}
}

// Add registers a token for a user.
func (p *StaticProvider) Add(token, userID, displayName string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users[token] = Snapshot{UserID: userID, DisplayName: displayName, Ready: true}
}

// Identify returns a not-ready snapshot for unknown tokens; never an
// error.
func (p *StaticProvider) Identify(_ context.Context, token string) (Snapshot, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.users[token], nil
}
