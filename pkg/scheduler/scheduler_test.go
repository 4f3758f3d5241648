package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()

	nop := zerolog.Nop()

	s, err := NewScheduler(WithLocation(time.UTC), WithLogger(&nop))
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Stop() })

	return s
}

func TestAddCronRejectsDuplicates(t *testing.T) {
	s := newTestScheduler(t)
	ctx := context.Background()

	require.NoError(t, s.AddCron(ctx, "b", "0 3 * * *", func(context.Context) {}))
	require.NoError(t, s.AddCron(ctx, "a", "* * * * *", func(context.Context) {}))
	assert.Error(t, s.AddCron(ctx, "a", "* * * * *", func(context.Context) {}))
	assert.Error(t, s.AddCron(ctx, "bad", "not a cron", func(context.Context) {}))

	infos := s.GetJobInfos()
	require.Len(t, infos, 2)
	assert.Equal(t, "a", infos[0].Name)
	assert.Equal(t, "b", infos[1].Name)
	assert.Equal(t, StatusScheduled, infos[0].Status)

	_, ok := s.JobID("a")
	assert.True(t, ok)
}

func TestRunNowRecordsSuccess(t *testing.T) {
	s := newTestScheduler(t)

	var calls atomic.Int32

	require.NoError(t, s.AddCron(context.Background(), "count", "0 0 1 1 *", func(context.Context) { calls.Add(1) }))
	s.Start()

	require.NoError(t, s.RunNow("count"))

	assert.Eventually(t, func() bool {
		infos := s.GetJobInfos()
		return calls.Load() == 1 && infos[0].Runs == 1 && !infos[0].LastSuccess.IsZero()
	}, 3*time.Second, 10*time.Millisecond)

	assert.Error(t, s.RunNow("missing"))
}

func TestPanicIsRecorded(t *testing.T) {
	s := newTestScheduler(t)

	require.NoError(t, s.AddCron(context.Background(), "boom", "0 0 1 1 *", func(context.Context) { panic("kaput") }))
	s.Start()

	require.NoError(t, s.RunNow("boom"))

	assert.Eventually(t, func() bool {
		info := s.GetJobInfos()[0]
		return info.Status == StatusError && info.Error == "panic in job: kaput"
	}, 3*time.Second, 10*time.Millisecond)
}

func TestRemoveJobByName(t *testing.T) {
	s := newTestScheduler(t)

	require.NoError(t, s.AddCron(context.Background(), "gone", "* * * * *", func(context.Context) {}))
	require.NoError(t, s.RemoveJobByName("gone"))
	assert.Empty(t, s.GetJobInfos())
	assert.Error(t, s.RemoveJobByName("gone"))
}
