package identity

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/mostaqbalcity/forumclient/internal/api"
	"github.com/mostaqbalcity/forumclient/internal/models"
	"github.com/mostaqbalcity/forumclient/internal/pkg/apperrors"
)

// ChangeFunc is called with the new identity after every transition: the user
// on login/refresh, nil on logout.
type ChangeFunc func(user *models.User)

// Context holds the current authenticated identity. It is a process-wide
// single instance constructed once per session and handed to consumers
// explicitly.
type Context struct {
	client *api.Client
	tokens *TokenStore
	logger zerolog.Logger

	mu        sync.RWMutex
	current   *models.User
	loading   bool
	lastErr   error
	observers map[int]ChangeFunc
	nextObsID int
}

// NewContext creates an identity context over the given client and token
// store.
func NewContext(client *api.Client, tokens *TokenStore, logger zerolog.Logger) *Context {
	return &Context{
		client:    client,
		tokens:    tokens,
		logger:    logger,
		observers: make(map[int]ChangeFunc),
	}
}

// Resume resolves a persisted credential into an identity at process start.
// Absent credential is not an error; an expired or rejected one is cleared
// the same way the browser client clears its stored token on a 401.
func (c *Context) Resume(ctx context.Context) error {
	token := c.tokens.Token()
	if token == "" {
		return nil
	}

	if expired(token) {
		c.logger.Info().Msg("Stored credential has expired, logging out")
		c.Logout()
		c.setError(apperrors.ErrTokenExpired)
		return apperrors.ErrTokenExpired
	}

	return c.fetchProfile(ctx)
}

// Login exchanges credentials for a token, persists it, and installs the
// returned user as the current identity.
func (c *Context) Login(ctx context.Context, username, password string) (*models.User, error) {
	c.setLoading(true)
	defer c.setLoading(false)

	resp, err := c.client.Login(ctx, api.LoginRequest{Username: username, Password: password})
	if err != nil {
		c.setError(err)
		return nil, err
	}

	if err := c.tokens.Save(resp.AccessToken); err != nil {
		c.setError(err)
		return nil, err
	}

	user := resp.User
	c.setUser(&user)
	c.logger.Info().Int64("userID", user.ID).Str("username", user.Username).Msg("Logged in")
	return &user, nil
}

// Register submits a registration. It does not log the user in; the account
// waits for admin approval.
func (c *Context) Register(ctx context.Context, req api.RegisterRequest) (*models.User, error) {
	c.setLoading(true)
	defer c.setLoading(false)

	user, err := c.client.Register(ctx, req)
	if err != nil {
		c.setError(err)
		return nil, err
	}
	c.setError(nil)
	return user, nil
}

// Logout clears the persisted credential and the identity. Client-only: there
// is no backend call and it cannot fail upstream.
func (c *Context) Logout() {
	if err := c.tokens.Clear(); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to clear stored credential")
	}
	c.setUser(nil)
	c.logger.Info().Msg("Logged out")
}

// Refresh re-resolves the current credential into a profile. Any 401-class
// failure forces a logout.
func (c *Context) Refresh(ctx context.Context) error {
	return c.fetchProfile(ctx)
}

func (c *Context) fetchProfile(ctx context.Context) error {
	c.setLoading(true)
	defer c.setLoading(false)

	user, err := c.client.Profile(ctx)
	if err != nil {
		if apperrors.IsAuthFailure(err) {
			c.logger.Warn().Err(err).Msg("Session expired, logging out")
			c.Logout()
		}
		c.setError(err)
		return err
	}

	c.setUser(user)
	return nil
}

// Current returns the authenticated user, nil when logged out.
func (c *Context) Current() *models.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Loading reports whether an identity resolution is in flight.
func (c *Context) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// LastError returns the most recent identity error, nil after a successful
// transition.
func (c *Context) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// OnChange registers an observer for identity transitions and returns its
// deregistration func. Observers are called synchronously after the state
// settles.
func (c *Context) OnChange(fn ChangeFunc) func() {
	c.mu.Lock()
	id := c.nextObsID
	c.nextObsID++
	c.observers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

func (c *Context) setUser(user *models.User) {
	c.mu.Lock()
	c.current = user
	c.lastErr = nil
	observers := make([]ChangeFunc, 0, len(c.observers))
	for _, fn := range c.observers {
		observers = append(observers, fn)
	}
	c.mu.Unlock()

	for _, fn := range observers {
		fn(user)
	}
}

func (c *Context) setLoading(loading bool) {
	c.mu.Lock()
	c.loading = loading
	c.mu.Unlock()
}

func (c *Context) setError(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}

// expired checks the token's exp claim locally, without verifying the
// signature; verification belongs to the backend. A token that cannot be
// parsed is treated as expired.
func expired(token string) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(time.Now())
}
