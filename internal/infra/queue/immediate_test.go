package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestImmediateQueueDetachesJobFromCaller(t *testing.T) {
	jobCtx := make(chan context.Context, 1)
	release := make(chan struct{})
	q := NewImmediateQueue(func(ctx context.Context, name string, payload map[string]any) {
		<-release
		jobCtx <- ctx
	})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, q.Enqueue(ctx, "regenerate_routines", map[string]any{"user_id": int64(7)}))

	// the request that scheduled the job finishes before the job runs
	cancel()
	close(release)

	select {
	case got := <-jobCtx:
		require.NoError(t, got.Err())
	case <-time.After(time.Second):
		t.Fatal("job handler never ran")
	}
}

func TestImmediateQueueDeliversNameAndPayload(t *testing.T) {
	type delivery struct {
		name    string
		payload map[string]any
	}
	got := make(chan delivery, 1)
	q := NewImmediateQueue(nil)
	q.SetHandler(func(ctx context.Context, name string, payload map[string]any) {
		got <- delivery{name: name, payload: payload}
	})

	require.NoError(t, q.Enqueue(context.Background(), "regenerate_routines", map[string]any{"user_id": int64(3)}))

	select {
	case d := <-got:
		require.Equal(t, "regenerate_routines", d.name)
		require.Equal(t, int64(3), d.payload["user_id"])
	case <-time.After(time.Second):
		t.Fatal("job was not delivered")
	}
}

func TestImmediateQueueWithoutHandler(t *testing.T) {
	q := NewImmediateQueue(nil)
	require.NoError(t, q.Enqueue(context.Background(), "regenerate_routines", nil))
}
