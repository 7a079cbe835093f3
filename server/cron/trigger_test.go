package cron

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRunnable is a test implementation of Runnable.
type mockRunnable struct {
	runCount atomic.Int32
	runErr   error
}

func (m *mockRunnable) Run(ctx context.Context) error {
	m.runCount.Add(1)
	return m.runErr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewCronTrigger(t *testing.T) {
	runnable := &mockRunnable{}

	tests := []struct {
		name    string
		spec    string
		wantErr bool
	}{
		{
			name: "valid spec - every five minutes",
			spec: "*/5 * * * *",
		},
		{
			name: "valid spec - every hour",
			spec: "0 * * * *",
		},
		{
			name: "valid spec - weekdays at 7am",
			spec: "0 7 * * 1-5",
		},
		{
			name:    "invalid spec - empty",
			spec:    "",
			wantErr: true,
		},
		{
			name:    "invalid spec - wrong format",
			spec:    "not a cron spec",
			wantErr: true,
		},
		{
			name:    "invalid spec - seconds field not accepted",
			spec:    "0 0 2 * * *",
			wantErr: true,
		},
		{
			name:    "invalid spec - invalid value",
			spec:    "60 2 * * *",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trigger, err := NewCronTrigger(tt.spec, runnable, discardLogger())

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidCronSpec)
				assert.Nil(t, trigger)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.spec, trigger.Spec())
			}
		})
	}
}

func TestCronTrigger_NextRun(t *testing.T) {
	trigger, err := NewCronTrigger("0 2 * * *", &mockRunnable{}, discardLogger())
	require.NoError(t, err)

	nextRun := trigger.NextRun()
	assert.True(t, nextRun.After(time.Now()), "next run should be in the future")
	assert.Equal(t, 2, nextRun.Hour())
	assert.Equal(t, 0, nextRun.Minute())
}

func TestCronTrigger_Start_CancellationStopsLoop(t *testing.T) {
	runnable := &mockRunnable{}
	trigger, err := NewCronTrigger("0 0 1 1 *", runnable, discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	trigger.Start(ctx)
	time.Sleep(10 * time.Millisecond)
	cancel()
	time.Sleep(10 * time.Millisecond)

	assert.Equal(t, int32(0), runnable.runCount.Load())
}

func TestCronTrigger_ExecuteRun(t *testing.T) {
	tests := []struct {
		name   string
		runErr error
	}{
		{name: "success"},
		{name: "error is logged, not returned", runErr: errors.New("upstream down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runnable := &mockRunnable{runErr: tt.runErr}
			trigger, err := NewCronTrigger("* * * * *", runnable, discardLogger())
			require.NoError(t, err)

			trigger.executeRun(context.Background())
			assert.Equal(t, int32(1), runnable.runCount.Load())
		})
	}
}

type ctxKey struct{}

func TestRunnableFunc(t *testing.T) {
	var got context.Context
	ctx := context.WithValue(context.Background(), ctxKey{}, "v")
	f := RunnableFunc(func(ctx context.Context) error {
		got = ctx
		return nil
	})

	require.NoError(t, f.Run(ctx))
	assert.Equal(t, ctx, got)
}
