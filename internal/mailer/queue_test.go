package mailer

import (
	"context"
	"testing"
	"time"

	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/repository/redisrepo"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestQueueSendEnqueuesMessage(t *testing.T) {
	rdb := newFakeRedis()
	q := NewQueue(rdb)
	q.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	require.NoError(t, q.Send(context.Background(), "mario@rossi.it", "Ciao", "<p>hi</p>"))

	msg, err := redisrepo.Pop[dto.MailMessage](rdb, context.Background(), redisrepo.MAIL_OUTBOX_KEY, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "mario@rossi.it", msg.To)
	assert.Equal(t, "Ciao", msg.Subject)
	assert.Equal(t, "<p>hi</p>", msg.HTML)
	assert.Equal(t, 0, msg.Attempts)
	assert.True(t, msg.EnqueuedAt.Equal(q.now()))
}

func TestWorkerDelivers(t *testing.T) {
	rdb := newFakeRedis()
	sender := &fakeSender{}
	w := NewWorker(zap.NewNop(), rdb, sender)

	require.NoError(t, NewQueue(rdb).Send(context.Background(), "a@b.it", "s", "h"))
	require.NoError(t, w.processNext(context.Background()))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, sentMail{to: "a@b.it", subject: "s", html: "h"}, sender.sent[0])
	assert.EqualValues(t, 0, rdb.LLen(context.Background(), redisrepo.MAIL_OUTBOX_KEY).Val())
}

func TestWorkerEmptyOutbox(t *testing.T) {
	w := NewWorker(zap.NewNop(), newFakeRedis(), &fakeSender{})
	assert.ErrorIs(t, w.processNext(context.Background()), redis.Nil)
}

// fakeClock drives Worker.now and Worker.sleep without real waiting.
type fakeClock struct {
	now    time.Time
	slept  []time.Duration
	cancel bool
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if c.cancel {
		return context.Canceled
	}
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
	return nil
}

func newTestWorker(rdb *fakeRedis, sender Sender) (*Worker, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	w := NewWorker(zap.NewNop(), rdb, sender)
	w.now = clock.Now
	w.sleep = clock.Sleep
	return w, clock
}

func TestWorkerRetriesThenDeadLetters(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	sender := &fakeSender{fail: true}
	w, clock := newTestWorker(rdb, sender)

	require.NoError(t, NewQueue(rdb).Send(ctx, "a@b.it", "s", "h"))

	for i := 0; i < defaultMaxAttempts-1; i++ {
		require.NoError(t, w.processNext(ctx))
		assert.EqualValues(t, 1, rdb.LLen(ctx, redisrepo.MAIL_OUTBOX_KEY).Val())
	}

	require.NoError(t, w.processNext(ctx))
	assert.Equal(t, defaultMaxAttempts, sender.calls)
	assert.EqualValues(t, 0, rdb.LLen(ctx, redisrepo.MAIL_OUTBOX_KEY).Val())
	assert.EqualValues(t, 1, rdb.LLen(ctx, redisrepo.MAIL_DEAD_KEY).Val())
	assert.Equal(t, []time.Duration{defaultRetryBackoff, 2 * defaultRetryBackoff}, clock.slept)

	dead, err := redisrepo.Pop[dto.MailMessage](rdb, ctx, redisrepo.MAIL_DEAD_KEY, time.Second)
	require.NoError(t, err)
	assert.Equal(t, defaultMaxAttempts, dead.Attempts)
}

func TestWorkerSchedulesRetry(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	w, clock := newTestWorker(rdb, &fakeSender{fail: true})

	require.NoError(t, NewQueue(rdb).Send(ctx, "a@b.it", "s", "h"))
	require.NoError(t, w.processNext(ctx))
	assert.Empty(t, clock.slept)

	retry, err := redisrepo.Pop[dto.MailMessage](rdb, ctx, redisrepo.MAIL_OUTBOX_KEY, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, retry.Attempts)
	assert.True(t, retry.NotBefore.Equal(clock.now.Add(defaultRetryBackoff)))
}

func TestWorkerRequeuesWhenStoppedWhileWaiting(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	sender := &fakeSender{}
	w, clock := newTestWorker(rdb, sender)
	clock.cancel = true

	require.NoError(t, rdb.LPushJSON(ctx, redisrepo.MAIL_OUTBOX_KEY, dto.MailMessage{
		To:        "a@b.it",
		Subject:   "s",
		HTML:      "h",
		Attempts:  1,
		NotBefore: clock.now.Add(time.Minute),
	}))

	assert.ErrorIs(t, w.processNext(ctx), context.Canceled)
	assert.Zero(t, sender.calls)

	msg, err := redisrepo.Pop[dto.MailMessage](rdb, ctx, redisrepo.MAIL_OUTBOX_KEY, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, msg.Attempts)
}

func TestWorkerLogsQueueDepth(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	require.NoError(t, NewQueue(rdb).Send(ctx, "a@b.it", "s", "h"))
	require.NoError(t, NewQueue(rdb).Send(ctx, "c@d.it", "s", "h"))
	require.NoError(t, rdb.LPushJSON(ctx, redisrepo.MAIL_DEAD_KEY, dto.MailMessage{To: "e@f.it"}))

	core, logs := observer.New(zap.InfoLevel)
	w := NewWorker(zap.New(core), rdb, &fakeSender{})
	w.logDepth(ctx)

	entries := logs.FilterMessage("mail outbox").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 2, fields["pending"])
	assert.EqualValues(t, 1, fields["dead"])
}

func TestWorkerRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := NewWorker(zap.NewNop(), newFakeRedis(), &fakeSender{})

	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}
