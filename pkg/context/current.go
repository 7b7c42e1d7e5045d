package context

import (
	"context"
	"sync"
)

type contextKey struct{}

// Current carries request scoped identity: the request id set on entry and
// the account id once a bearer token has been accepted.
type Current struct {
	mu        sync.RWMutex
	requestID string
	clientIP  string
	accountID string
	tokenID   string
}

func NewCurrent(requestID, clientIP string) *Current {
	return &Current{requestID: requestID, clientIP: clientIP}
}

func (c *Current) RequestID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.requestID
}

func (c *Current) ClientIP() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.clientIP
}

// Authenticate records the account and token that authorized the request.
func (c *Current) Authenticate(accountID, tokenID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accountID = accountID
	c.tokenID = tokenID
}

// Account reports the authenticated account id, if any.
func (c *Current) Account() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accountID, c.accountID != ""
}

func (c *Current) TokenID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokenID
}

// LogArgs returns the non-empty identifiers as slog key/value pairs.
func (c *Current) LogArgs() []any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	args := make([]any, 0, 6)
	if c.requestID != "" {
		args = append(args, "request_id", c.requestID)
	}
	if c.accountID != "" {
		args = append(args, "account_id", c.accountID)
	}
	if c.tokenID != "" {
		args = append(args, "token_id", c.tokenID)
	}
	return args
}

func WithCurrent(ctx context.Context, current *Current) context.Context {
	return context.WithValue(ctx, contextKey{}, current)
}

func FromContext(ctx context.Context) (*Current, bool) {
	current, ok := ctx.Value(contextKey{}).(*Current)
	return current, ok
}

// GetCurrent never returns nil; an anonymous Current is returned when ctx has none.
func GetCurrent(ctx context.Context) *Current {
	if current, ok := FromContext(ctx); ok {
		return current
	}
	return &Current{}
}
