package redis

import (
	"context"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNewLoginLockout_Defaults(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	l := NewLoginLockout(client, 0, 0)
	if l.maxAttempts != defaultMaxAttempts {
		t.Errorf("maxAttempts: want %d, got %d", defaultMaxAttempts, l.maxAttempts)
	}
	if l.window != defaultWindow {
		t.Errorf("window: want %v, got %v", defaultWindow, l.window)
	}

	l = NewLoginLockout(client, 3, time.Minute)
	if l.maxAttempts != 3 || l.window != time.Minute {
		t.Errorf("unexpected settings: %d %v", l.maxAttempts, l.window)
	}
}

func TestLoginLockout_Key(t *testing.T) {
	l := &LoginLockout{}
	if got := l.key("antonia"); got != "lockout:antonia" {
		t.Fatalf("unexpected key: %q", got)
	}
}

// recordingHook captures commands instead of sending them. Each pipeline
// run is recorded as one batch.
type recordingHook struct {
	batches [][]string
}

func argsLine(cmd redis.Cmder) string {
	return strings.TrimSpace(fmt.Sprintln(cmd.Args()...))
}

func (h *recordingHook) DialHook(redis.DialHook) redis.DialHook {
	return func(context.Context, string, string) (net.Conn, error) {
		return nil, fmt.Errorf("no network in tests")
	}
}

func (h *recordingHook) ProcessHook(redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		h.batches = append(h.batches, []string{argsLine(cmd)})
		return nil
	}
}

func (h *recordingHook) ProcessPipelineHook(redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(_ context.Context, cmds []redis.Cmder) error {
		batch := make([]string, 0, len(cmds))
		for _, cmd := range cmds {
			batch = append(batch, argsLine(cmd))
		}
		h.batches = append(h.batches, batch)
		return nil
	}
}

func TestLoginLockout_RecordFailureSendsCounterAndTTLTogether(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()
	hook := &recordingHook{}
	client.AddHook(hook)

	l := NewLoginLockout(client, 3, time.Minute)
	if err := l.RecordFailure(context.Background(), "antonia"); err != nil {
		t.Fatalf("RecordFailure: %v", err)
	}

	if len(hook.batches) != 1 {
		t.Fatalf("expected a single round trip, got %q", hook.batches)
	}
	batch := strings.Join(hook.batches[0], "|")
	incr := strings.Index(batch, "incr lockout:antonia")
	expire := strings.Index(batch, "expire lockout:antonia 60 nx")
	if incr < 0 || expire < incr {
		t.Fatalf("expected INCR then EXPIRE NX in one batch, got %q", hook.batches[0])
	}
}
