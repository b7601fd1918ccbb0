package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mostaqbalcity/forumclient/internal/api"
	"github.com/mostaqbalcity/forumclient/internal/models"
)

// FeedStore maintains the group-chat feed for the current session. It is the
// single owner of the post collection; everything consumers render is derived
// from it through VisiblePosts.
type FeedStore struct {
	client *api.Client
	logger zerolog.Logger

	mu    sync.RWMutex
	posts []models.Post

	onChange func()
}

// NewFeedStore creates an empty feed store over the given client.
func NewFeedStore(client *api.Client, logger zerolog.Logger) *FeedStore {
	return &FeedStore{client: client, logger: logger}
}

// SetOnChange registers the callback invoked after every state change, so the
// rendering layer can recompute its view. Must be set before the store is
// shared across goroutines.
func (s *FeedStore) SetOnChange(fn func()) {
	s.onChange = fn
}

// Load fetches the full post collection, replacing local state entirely. The
// backend returns newest first; the feed renders oldest first. On failure the
// last-good state is retained and the error is returned for a retryable
// banner.
func (s *FeedStore) Load(ctx context.Context) error {
	posts, err := s.client.GetPosts(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load posts")
		return err
	}

	// Reverse to oldest-first for display
	for i, j := 0, len(posts)-1; i < j; i, j = i+1, j-1 {
		posts[i], posts[j] = posts[j], posts[i]
	}

	s.mu.Lock()
	s.posts = posts
	s.mu.Unlock()

	s.notify()
	return nil
}

// ApplyRemoteEvent consumes a push-delivered post event. A partial event
// (id plus deletion fields, no content or author) updates the matching entry
// in place, preserving fields the event does not carry. A full event appends
// a new post; if its id is already present it updates in place instead, so a
// replayed delivery cannot double-insert.
func (s *FeedStore) ApplyRemoteEvent(event models.PostEvent) {
	s.mu.Lock()

	if event.IsPartial() {
		for i := range s.posts {
			if s.posts[i].ID != event.ID {
				continue
			}
			if event.IsDeleted != nil {
				s.posts[i].IsDeleted = *event.IsDeleted
			}
			if event.DeletionType != models.DeletionNone {
				s.posts[i].DeletionType = event.DeletionType
			}
			if event.Content != "" {
				s.posts[i].Content = event.Content
			}
			break
		}
		s.mu.Unlock()
		s.notify()
		return
	}

	post := event.ToPost()
	replaced := false
	for i := range s.posts {
		if s.posts[i].ID == post.ID {
			s.posts[i] = post
			replaced = true
			break
		}
	}
	if !replaced {
		// Arrival order; the transport delivers in server-send order and the
		// feed does not re-sort on append.
		s.posts = append(s.posts, post)
	}
	s.mu.Unlock()
	s.notify()
}

// Send publishes a new post. Local state is not mutated; the post appears
// when its push echo arrives. A lost echo means the post stays invisible
// until the next Load.
func (s *FeedStore) Send(ctx context.Context, content string) error {
	return s.client.CreatePost(ctx, api.CreatePostRequest{Content: content})
}

// Delete removes a post, then refreshes from the backend rather than waiting
// for an echo the deleting client may not receive.
func (s *FeedStore) Delete(ctx context.Context, postID int64) error {
	if err := s.client.DeletePost(ctx, postID); err != nil {
		s.logger.Warn().Err(err).Int64("postID", postID).Msg("Failed to delete post")
		return err
	}
	return s.Load(ctx)
}

// VisiblePosts returns the feed normalized into the uniform message shape:
// sentinel recipient, forced-read state, deletion placeholders in place of
// removed content, banned authors anonymized.
func (s *FeedStore) VisiblePosts() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	visible := make([]models.Message, len(s.posts))
	for i, post := range s.posts {
		visible[i] = post.AsMessage()
	}
	return visible
}

// Len returns the number of posts currently held.
func (s *FeedStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}

func (s *FeedStore) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}
