package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeRedis struct {
	mu    sync.Mutex
	lists map[string][]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{lists: make(map[string][]string)}
}

func (f *fakeRedis) LPushJSON(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists[key] = append([]string{string(raw)}, f.lists[key]...)
	return nil
}

func (f *fakeRedis) BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, key := range keys {
		list := f.lists[key]
		if len(list) == 0 {
			continue
		}
		last := list[len(list)-1]
		f.lists[key] = list[:len(list)-1]
		return redis.NewStringSliceResult([]string{key, last}, nil)
	}

	return redis.NewStringSliceResult(nil, redis.Nil)
}

func (f *fakeRedis) LLen(ctx context.Context, key string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	return redis.NewIntResult(int64(len(f.lists[key])), nil)
}

type sentMail struct {
	to      string
	subject string
	html    string
}

type fakeSender struct {
	mu    sync.Mutex
	fail  bool
	calls int
	sent  []sentMail
}

func (s *fakeSender) Send(ctx context.Context, to string, subject string, html string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.fail {
		return errors.New("smtp down")
	}
	s.sent = append(s.sent, sentMail{to: to, subject: subject, html: html})
	return nil
}
