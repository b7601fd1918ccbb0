package store

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mostaqbalcity/forumclient/internal/api"
	"github.com/mostaqbalcity/forumclient/internal/models"
)

// UserDirectory mirrors the user list the admin screens render, reconciling
// it against user_registered and user_status_changed push events. In pending
// mode it holds only accounts awaiting approval and any status change removes
// the account from the list; otherwise status changes flip the matching flag
// and only a rejection removes the account.
type UserDirectory struct {
	client      *api.Client
	logger      zerolog.Logger
	pendingOnly bool

	mu    sync.RWMutex
	users []models.User

	onChange func()
}

// NewUserDirectory creates a directory over the admin user endpoints.
func NewUserDirectory(client *api.Client, pendingOnly bool, logger zerolog.Logger) *UserDirectory {
	return &UserDirectory{client: client, pendingOnly: pendingOnly, logger: logger}
}

// SetOnChange registers the change callback. Must be set before the store is
// shared across goroutines.
func (d *UserDirectory) SetOnChange(fn func()) {
	d.onChange = fn
}

// Load replaces local state from the matching admin endpoint. Last-good state
// is retained on failure.
func (d *UserDirectory) Load(ctx context.Context) error {
	var (
		users []models.User
		err   error
	)
	if d.pendingOnly {
		users, err = d.client.GetPendingUsers(ctx)
	} else {
		users, err = d.client.GetAllUsers(ctx)
	}
	if err != nil {
		d.logger.Warn().Err(err).Bool("pendingOnly", d.pendingOnly).Msg("Failed to load users")
		return err
	}

	d.mu.Lock()
	d.users = users
	d.mu.Unlock()
	d.notify()
	return nil
}

// ApplyRegistered adds a freshly registered user delivered by push, unless
// the id is already present.
func (d *UserDirectory) ApplyRegistered(user models.User) {
	d.mu.Lock()
	for _, u := range d.users {
		if u.ID == user.ID {
			d.mu.Unlock()
			return
		}
	}
	d.users = append(d.users, user)
	d.mu.Unlock()
	d.notify()
}

// ApplyStatusChange reconciles a user_status_changed push event into the
// list.
func (d *UserDirectory) ApplyStatusChange(event models.UserStatusEvent) {
	d.mu.Lock()
	defer func() {
		d.mu.Unlock()
		d.notify()
	}()

	if d.pendingOnly || event.Status == models.UserStatusRejected {
		for i, u := range d.users {
			if u.ID == event.UserID {
				d.users = append(d.users[:i], d.users[i+1:]...)
				return
			}
		}
		return
	}

	for i := range d.users {
		if d.users[i].ID != event.UserID {
			continue
		}
		switch event.Status {
		case models.UserStatusApproved:
			d.users[i].IsApproved = true
		case models.UserStatusBanned:
			d.users[i].IsBanned = true
		case models.UserStatusUnbanned:
			d.users[i].IsBanned = false
		}
		return
	}
}

// Users returns a copy of the current list.
func (d *UserDirectory) Users() []models.User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.User, len(d.users))
	copy(out, d.users)
	return out
}

// Search filters the list the way the admin messaging screen does: match on
// username, full name, building or apartment number. An empty query returns
// everything.
func (d *UserDirectory) Search(query string) []models.User {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return d.Users()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	var matched []models.User
	for _, u := range d.users {
		if strings.Contains(strings.ToLower(u.Username), query) ||
			strings.Contains(strings.ToLower(u.FullName), query) ||
			strings.Contains(strconv.Itoa(u.BuildingNumber), query) ||
			strings.Contains(strconv.Itoa(u.ApartmentNumber), query) {
			matched = append(matched, u)
		}
	}
	return matched
}

func (d *UserDirectory) notify() {
	if d.onChange != nil {
		d.onChange()
	}
}
