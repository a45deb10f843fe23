package service

import (
	"context"
	"time"

	"github.com/BloggingApp/blog-service/internal/mailer"
	"github.com/BloggingApp/blog-service/internal/metrics"
	"github.com/BloggingApp/blog-service/internal/model"
	"go.uber.org/zap"
)

const notifyTimeout = 10 * time.Second

// notifier sends emails after the primary write has committed. Its failures
// are logged and counted, never returned to the caller.
type notifier struct {
	logger  *zap.Logger
	sender  mailer.Sender
	metrics metrics.Recorder
}

func newNotifier(logger *zap.Logger, sender mailer.Sender, recorder metrics.Recorder) *notifier {
	return &notifier{
		logger:  logger,
		sender:  sender,
		metrics: recorder,
	}
}

func (n *notifier) welcome(ctx context.Context, author *model.Author) {
	subject, html, err := mailer.WelcomeEmail(author.Nome)
	n.send(ctx, "welcome", author.Email, subject, html, err)
}

func (n *notifier) postPublished(ctx context.Context, author *model.Author, post *model.Post) {
	subject, html, err := mailer.PostPublishedEmail(author.Nome, post.Title, post.Content)
	n.send(ctx, "post_published", author.Email, subject, html, err)
}

func (n *notifier) send(ctx context.Context, kind string, to string, subject string, html string, renderErr error) {
	if n.sender == nil {
		return
	}

	if renderErr != nil {
		n.metrics.RecordNotificationFailure(kind)
		n.logger.Sugar().Errorf("failed to render %s email for %s: %s", kind, to, renderErr.Error())
		return
	}

	// a client disconnect must not drop the email
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := n.sender.Send(ctx, to, subject, html); err != nil {
		n.metrics.RecordNotificationFailure(kind)
		n.logger.Sugar().Errorf("failed to send %s email to %s: %s", kind, to, err.Error())
	}
}
