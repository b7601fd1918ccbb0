package store

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mostaqbalcity/forumclient/internal/api"
	"github.com/mostaqbalcity/forumclient/internal/models"
)

var (
	resident = models.User{ID: 7, Username: "resident7", FullName: "Resident Seven"}
	admin    = models.User{ID: 99, Username: "admin", IsAdmin: true}
	neighbor = models.User{ID: 12, Username: "neighbor", FullName: "Next Door"}
)

func at(minute int) time.Time {
	return time.Date(2025, 3, 10, 12, minute, 0, 0, time.UTC)
}

// fakeBackend is an in-process stand-in for the community backend, just
// enough surface for the stores under test.
type fakeBackend struct {
	srv *httptest.Server

	mu            sync.Mutex
	messages      []models.Message
	posts         []models.Post
	markReadCalls []int64
	deleteCalls   []string
	sendPaths     []string
	failMarkRead  bool
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := &fakeBackend{}
	router := gin.New()

	router.GET("/messages", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		c.JSON(http.StatusOK, b.messages)
	})
	router.POST("/messages/admin", func(c *gin.Context) {
		b.record(&b.sendPaths, c.FullPath())
		c.Status(http.StatusCreated)
	})
	router.POST("/messages/reply/:userId", func(c *gin.Context) {
		b.record(&b.sendPaths, "/messages/reply/"+c.Param("userId"))
		c.Status(http.StatusCreated)
	})
	router.POST("/messages/:id/read", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.failMarkRead {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "mark read failed"})
			return
		}
		id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
		b.markReadCalls = append(b.markReadCalls, id)
		c.Status(http.StatusOK)
	})
	router.DELETE("/messages/:senderId/:recipientId/:id", func(c *gin.Context) {
		b.mu.Lock()
		b.deleteCalls = append(b.deleteCalls, c.Param("senderId")+"/"+c.Param("recipientId")+"/"+c.Param("id"))
		id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
		kept := b.messages[:0]
		for _, m := range b.messages {
			if m.ID != id {
				kept = append(kept, m)
			}
		}
		b.messages = kept
		b.mu.Unlock()
		c.Status(http.StatusOK)
	})

	router.GET("/posts", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		c.JSON(http.StatusOK, b.posts)
	})
	router.POST("/posts", func(c *gin.Context) {
		b.record(&b.sendPaths, c.FullPath())
		c.Status(http.StatusCreated)
	})
	router.DELETE("/posts/:id", func(c *gin.Context) {
		b.mu.Lock()
		b.deleteCalls = append(b.deleteCalls, "/posts/"+c.Param("id"))
		id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
		kept := b.posts[:0]
		for _, p := range b.posts {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		b.posts = kept
		b.mu.Unlock()
		c.Status(http.StatusOK)
	})

	router.GET("/admin/users", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		c.JSON(http.StatusOK, []models.User{resident, neighbor})
	})
	router.GET("/admin/pending-users", func(c *gin.Context) {
		c.JSON(http.StatusOK, []models.User{})
	})

	b.srv = httptest.NewServer(router)
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) record(dst *[]string, value string) {
	b.mu.Lock()
	*dst = append(*dst, value)
	b.mu.Unlock()
}

func (b *fakeBackend) client() *api.Client {
	return api.NewClient(b.srv.URL, api.StaticToken("test-token"), 5*time.Second, zerolog.Nop())
}

func (b *fakeBackend) markReads() []int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]int64, len(b.markReadCalls))
	copy(out, b.markReadCalls)
	return out
}

func (b *fakeBackend) deletes() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.deleteCalls))
	copy(out, b.deleteCalls)
	return out
}

func (b *fakeBackend) sends() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.sendPaths))
	copy(out, b.sendPaths)
	return out
}

func dm(id int64, from, to models.User, content string, created time.Time, read bool) models.Message {
	return models.Message{
		ID:        id,
		Sender:    from,
		Recipient: to,
		Content:   content,
		CreatedAt: created,
		IsRead:    read,
	}
}
