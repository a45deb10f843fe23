package mailer

import (
	"context"
	"errors"
	"time"

	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/repository/redisrepo"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultMaxAttempts  = 3
	defaultPollTimeout  = 5 * time.Second
	defaultRetryBackoff = 30 * time.Second
)

// Queue is a Sender that only enqueues. Delivery happens in Worker.
type Queue struct {
	repo redisrepo.Default
	now  func() time.Time
}

func NewQueue(repo redisrepo.Default) *Queue {
	return &Queue{
		repo: repo,
		now:  time.Now,
	}
}

func (q *Queue) Send(ctx context.Context, to string, subject string, html string) error {
	return q.repo.LPushJSON(ctx, redisrepo.MAIL_OUTBOX_KEY, dto.MailMessage{
		To:         to,
		Subject:    subject,
		HTML:       html,
		EnqueuedAt: q.now(),
	})
}

type Worker struct {
	logger       *zap.Logger
	repo         redisrepo.Default
	sender       Sender
	maxAttempts  int
	pollTimeout  time.Duration
	retryBackoff time.Duration
	now          func() time.Time
	sleep        func(ctx context.Context, d time.Duration) error
}

func NewWorker(logger *zap.Logger, repo redisrepo.Default, sender Sender) *Worker {
	return &Worker{
		logger:       logger,
		repo:         repo,
		sender:       sender,
		maxAttempts:  defaultMaxAttempts,
		pollTimeout:  defaultPollTimeout,
		retryBackoff: defaultRetryBackoff,
		now:          time.Now,
		sleep:        sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run drains the outbox until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	w.logDepth(ctx)

	for ctx.Err() == nil {
		err := w.processNext(ctx)
		if err == nil || errors.Is(err, redis.Nil) || ctx.Err() != nil {
			continue
		}

		w.logger.Sugar().Errorf("failed to read mail outbox: %s", err.Error())
		select {
		case <-ctx.Done():
		case <-time.After(time.Second):
		}
	}
}

func (w *Worker) processNext(ctx context.Context) error {
	msg, err := redisrepo.Pop[dto.MailMessage](w.repo, ctx, redisrepo.MAIL_OUTBOX_KEY, w.pollTimeout)
	if err != nil {
		return err
	}

	if wait := msg.NotBefore.Sub(w.now()); wait > 0 {
		if err := w.sleep(ctx, wait); err != nil {
			// put it back so a restarted worker picks it up
			w.push(context.WithoutCancel(ctx), redisrepo.MAIL_OUTBOX_KEY, msg)
			return err
		}
	}

	if err := w.sender.Send(ctx, msg.To, msg.Subject, msg.HTML); err != nil {
		msg.Attempts++
		w.logger.Sugar().Errorf("failed to send email(%s) to %s, attempt %d: %s", msg.Subject, msg.To, msg.Attempts, err.Error())

		if msg.Attempts >= w.maxAttempts {
			w.push(ctx, redisrepo.MAIL_DEAD_KEY, msg)
			w.logDepth(ctx)
			return nil
		}

		msg.NotBefore = w.now().Add(w.retryBackoff << (msg.Attempts - 1))
		w.push(ctx, redisrepo.MAIL_OUTBOX_KEY, msg)
	}

	return nil
}

func (w *Worker) push(ctx context.Context, key string, msg *dto.MailMessage) {
	if err := w.repo.LPushJSON(ctx, key, msg); err != nil {
		w.logger.Sugar().Errorf("failed to requeue email(%s) to %s: %s", msg.Subject, msg.To, err.Error())
	}
}

func (w *Worker) logDepth(ctx context.Context) {
	pending, err := w.repo.LLen(ctx, redisrepo.MAIL_OUTBOX_KEY).Result()
	if err != nil {
		w.logger.Sugar().Errorf("failed to read mail outbox length: %s", err.Error())
		return
	}
	dead, err := w.repo.LLen(ctx, redisrepo.MAIL_DEAD_KEY).Result()
	if err != nil {
		w.logger.Sugar().Errorf("failed to read mail dead letter length: %s", err.Error())
		return
	}

	w.logger.Info("mail outbox",
		zap.Int64("pending", pending),
		zap.Int64("dead", dead),
	)
}
