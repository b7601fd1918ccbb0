package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/mostaqbalcity/forumclient/internal/config"
	"github.com/mostaqbalcity/forumclient/internal/pkg/logger"
	"github.com/mostaqbalcity/forumclient/internal/session"
)

func main() {
	// .env is optional; explicit environment wins either way
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(filepath.Join("configs", "config.yaml"))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	logger.Configure(logger.Config{
		Level:  logger.LogLevel(strings.ToLower(cfg.Logging.Level)),
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})
	lgr := logger.Default()

	if err := run(cfg, lgr); err != nil {
		lgr.Error().Err(err).Msg("Client exited with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config, lgr zerolog.Logger) error {
	sess, err := session.New(cfg, lgr)
	if err != nil {
		return err
	}
	defer sess.Close()

	sess.SetOnViewChange(func() { logViews(sess, lgr) })

	ctx := context.Background()
	if err := sess.Start(ctx); err != nil {
		return err
	}

	user := sess.Identity.Current()
	if user == nil {
		lgr.Info().Msg("No identity; set FORUM_USERNAME/FORUM_PASSWORD or provide a token file")
		return nil
	}
	lgr.Info().
		Int64("userID", user.ID).
		Str("username", user.Username).
		Bool("admin", user.IsAdmin).
		Bool("pushConnected", sess.Push.Connected()).
		Msg("Session established")
	logViews(sess, lgr)

	// Block until interrupted; stores keep merging push deltas meanwhile.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	lgr.Info().Msg("Shutting down")
	return nil
}

// logViews prints the derived views the UI would render.
func logViews(sess *session.Session, lgr zerolog.Logger) {
	feed := sess.Feed()
	conversations := sess.Conversations()
	if feed == nil || conversations == nil {
		return
	}

	lgr.Info().Int("posts", feed.Len()).Msg("Feed updated")
	for _, conv := range conversations.Conversations() {
		lgr.Info().
			Int64("counterpart", conv.UserID).
			Str("username", conv.Username).
			Int("messages", len(conv.Messages)).
			Int("unread", conv.UnreadCount).
			Msg("Conversation")
	}
}
