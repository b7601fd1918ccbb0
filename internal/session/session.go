package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mostaqbalcity/forumclient/internal/api"
	"github.com/mostaqbalcity/forumclient/internal/config"
	"github.com/mostaqbalcity/forumclient/internal/identity"
	"github.com/mostaqbalcity/forumclient/internal/models"
	"github.com/mostaqbalcity/forumclient/internal/push"
	"github.com/mostaqbalcity/forumclient/internal/store"
)

// Session wires the client's long-lived dependencies together: token store,
// REST client, identity context, push channel, and the per-identity stores.
// Stores exist only while an identity is present; the push channel connects
// and disconnects with it.
type Session struct {
	cfg    *config.Config
	logger zerolog.Logger

	Tokens   *identity.TokenStore
	API      *api.Client
	Identity *identity.Context
	Push     *push.Channel

	mu            sync.RWMutex
	feed          *store.FeedStore
	conversations *store.ConversationStore
	users         *store.UserDirectory
	subs          []*push.Subscription
	pumps         sync.WaitGroup

	unsubIdentity func()
	baseCtx       context.Context
	cancel        context.CancelFunc

	onView func()
}

// SetOnViewChange registers a callback invoked after any store mutates, so
// the presentation layer can recompute its derived views. Set it before
// Start.
func (s *Session) SetOnViewChange(fn func()) {
	s.onView = fn
}

func (s *Session) viewChanged() {
	if s.onView != nil {
		s.onView()
	}
}

// New builds a session from configuration. No network traffic happens until
// Start.
func New(cfg *config.Config, logger zerolog.Logger) (*Session, error) {
	tokens, err := identity.NewTokenStore(cfg.Credentials.TokenFile)
	if err != nil {
		return nil, err
	}

	client := api.NewClient(cfg.Backend.BaseURL, tokens, cfg.RequestTimeout(), logger)

	s := &Session{
		cfg:      cfg,
		logger:   logger,
		Tokens:   tokens,
		API:      client,
		Identity: identity.NewContext(client, tokens, logger),
		Push:     push.NewChannel(cfg.Backend.SocketURL, tokens, logger),
	}
	s.baseCtx, s.cancel = context.WithCancel(context.Background())
	s.unsubIdentity = s.Identity.OnChange(s.onIdentityChanged)
	return s, nil
}

// Start resolves a persisted credential, falling back to the configured
// username/password when resumption yields no identity. The identity-change
// observer takes it from there.
func (s *Session) Start(ctx context.Context) error {
	if err := s.Identity.Resume(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Could not resume stored session")
	}
	if s.Identity.Current() != nil {
		return nil
	}

	if s.cfg.Credentials.Username == "" {
		return nil
	}
	_, err := s.Identity.Login(ctx, s.cfg.Credentials.Username, s.cfg.Credentials.Password)
	return err
}

// Close tears the session down: identity observer, push subscriptions,
// channel.
func (s *Session) Close() {
	s.unsubIdentity()
	s.teardown()
	s.cancel()
}

// Feed returns the feed store, nil while logged out.
func (s *Session) Feed() *store.FeedStore {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.feed
}

// Conversations returns the conversation store, nil while logged out.
func (s *Session) Conversations() *store.ConversationStore {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conversations
}

// Users returns the admin user directory, nil while logged out or when the
// identity is not an admin.
func (s *Session) Users() *store.UserDirectory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users
}

// onIdentityChanged reacts to login and logout.
func (s *Session) onIdentityChanged(user *models.User) {
	if user == nil {
		s.teardown()
		return
	}
	s.setup(*user)
}

// setup connects the push channel, builds stores for the identity, loads
// their initial state, and starts the event pumps.
func (s *Session) setup(user models.User) {
	s.teardown()

	if err := s.Push.Connect(s.baseCtx); err != nil {
		// Degraded mode: REST still works, manual reload recovers state.
		s.logger.Warn().Err(err).Msg("Continuing without push channel")
	}

	feed := store.NewFeedStore(s.API, s.logger)
	feed.SetOnChange(s.viewChanged)
	conversations := store.NewConversationStore(s.API, user, s.logger)
	conversations.SetOnChange(s.viewChanged)
	var users *store.UserDirectory
	if user.IsAdmin {
		users = store.NewUserDirectory(s.API, false, s.logger)
		users.SetOnChange(s.viewChanged)
	}

	s.mu.Lock()
	s.feed = feed
	s.conversations = conversations
	s.users = users
	s.mu.Unlock()

	if err := feed.Load(s.baseCtx); err != nil {
		s.logger.Warn().Err(err).Msg("Initial feed load failed")
	}
	if err := conversations.Load(s.baseCtx); err != nil {
		s.logger.Warn().Err(err).Msg("Initial conversations load failed")
	}
	if users != nil {
		if err := users.Load(s.baseCtx); err != nil {
			s.logger.Warn().Err(err).Msg("Initial user directory load failed")
		}
	}

	s.pumpPosts(feed)
	s.pumpMessages(conversations)
	if users != nil {
		s.pumpUsers(users)
	}
}

// teardown closes subscriptions, waits for their pumps, disconnects the push
// channel, and drops the stores.
func (s *Session) teardown() {
	s.mu.Lock()
	subs := s.subs
	s.subs = nil
	s.feed = nil
	s.conversations = nil
	s.users = nil
	s.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
	s.pumps.Wait()
	s.Push.Disconnect()
}

func (s *Session) pumpPosts(feed *store.FeedStore) {
	sub := s.Push.Subscribe(models.EventPostUpdate, 0)
	s.track(sub)
	s.pumps.Add(1)
	go func() {
		defer s.pumps.Done()
		for ev := range sub.Events() {
			var event models.PostEvent
			if err := json.Unmarshal(ev.Data, &event); err != nil {
				s.logger.Error().Err(err).Msg("Bad post_update payload")
				continue
			}
			feed.ApplyRemoteEvent(event)
		}
	}()
}

func (s *Session) pumpMessages(conversations *store.ConversationStore) {
	sub := s.Push.Subscribe(models.EventMessageUpdate, 0)
	s.track(sub)
	s.pumps.Add(1)
	go func() {
		defer s.pumps.Done()
		for ev := range sub.Events() {
			var message models.Message
			if err := json.Unmarshal(ev.Data, &message); err != nil {
				s.logger.Error().Err(err).Msg("Bad message_update payload")
				continue
			}
			conversations.ApplyRemoteEvent(s.baseCtx, message)
		}
	}()
}

func (s *Session) pumpUsers(users *store.UserDirectory) {
	registered := s.Push.Subscribe(models.EventUserRegistered, 0)
	status := s.Push.Subscribe(models.EventUserStatusChanged, 0)
	s.track(registered)
	s.track(status)

	s.pumps.Add(2)
	go func() {
		defer s.pumps.Done()
		for ev := range registered.Events() {
			var user models.User
			if err := json.Unmarshal(ev.Data, &user); err != nil {
				s.logger.Error().Err(err).Msg("Bad user_registered payload")
				continue
			}
			users.ApplyRegistered(user)
		}
	}()
	go func() {
		defer s.pumps.Done()
		for ev := range status.Events() {
			var event models.UserStatusEvent
			if err := json.Unmarshal(ev.Data, &event); err != nil {
				s.logger.Error().Err(err).Msg("Bad user_status_changed payload")
				continue
			}
			users.ApplyStatusChange(event)
		}
	}()
}

func (s *Session) track(sub *push.Subscription) {
	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()
}
