package jobs

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/hydrogen/pkg/configs"
	"github.com/yeisme/hydrogen/pkg/internal/model"
	"github.com/yeisme/hydrogen/pkg/internal/repository"
	"github.com/yeisme/hydrogen/pkg/internal/storage/db"
	"github.com/yeisme/hydrogen/pkg/queue"
	"github.com/yeisme/hydrogen/pkg/scheduler"
)

func newRunner(t *testing.T) (*Runner, *repository.Repositories) {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())

	client, err := db.OpenMemory(context.Background(), name, model.All()...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	cfg := configs.Defaults()
	repos := repository.New(client.GetDB())

	return NewRunner(repos, &cfg), repos
}

func TestLoginRetention(t *testing.T) {
	r, repos := newRunner(t)
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 3, 0, 0, 0, time.UTC)
	r.SetClock(func() time.Time { return now })

	require.NoError(t, repos.Logins.Create(ctx, &model.Login{UserID: 1, LastLoggedIn: now.AddDate(0, 0, -181)}))
	require.NoError(t, repos.Logins.Create(ctx, &model.Login{UserID: 1, LastLoggedIn: now.AddDate(0, 0, -179)}))

	n, err := r.LoginRetention(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	left, err := repos.Logins.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestCodeExpiry(t *testing.T) {
	r, repos := newRunner(t)
	ctx := context.Background()
	now := time.Now()
	r.SetClock(func() time.Time { return now })

	require.NoError(t, repos.Codes.Replace(ctx, &model.Code{UserID: 1, Email: "old@example.com", OTPCode: "111111", CreatedAt: now.Add(-time.Hour)}))
	require.NoError(t, repos.Codes.Replace(ctx, &model.Code{UserID: 2, Email: "new@example.com", OTPCode: "222222", CreatedAt: now.Add(-time.Minute)}))

	n, err := r.CodeExpiry(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = repos.Codes.FindByEmail(ctx, "old@example.com")
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repos.Codes.FindByEmail(ctx, "new@example.com")
	assert.NoError(t, err)
}

func TestWatchOrphansAndSweep(t *testing.T) {
	r, _ := newRunner(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ps := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 8}, nil)
	defer ps.Close()

	require.NoError(t, r.WatchOrphans(ctx, ps))

	for _, key := range []string{"a.mp3", "b.mp3"} {
		msg, err := queue.NewWatermillMessage(queue.TopicContentOrphaned, queue.ContentOrphanedPayload{
			Content: queue.ContentPayload{Kind: "song", ID: 1},
			Object:  queue.ObjectRef{Kind: "song", Bucket: "hydrogen-songs", Key: key},
			Error:   "remove failed",
		})
		require.NoError(t, err)
		require.NoError(t, ps.Publish(queue.TopicContentOrphaned, msg))
	}

	require.NoError(t, ps.Publish(queue.TopicContentOrphaned, message.NewMessage("bad", []byte("{"))))

	var total int64

	assert.Eventually(t, func() bool {
		total += r.OrphanSweep(ctx)
		return total == 2
	}, 3*time.Second, 20*time.Millisecond)

	assert.Zero(t, r.OrphanSweep(ctx))
}

func TestWatchOrphansRequiresSubscriber(t *testing.T) {
	r, _ := newRunner(t)
	assert.Error(t, r.WatchOrphans(context.Background(), nil))
}

func TestRegister(t *testing.T) {
	r, _ := newRunner(t)

	sched, err := scheduler.NewScheduler()
	require.NoError(t, err)

	defer func() { _ = sched.Stop() }()

	cfg := configs.Defaults().Jobs
	require.NoError(t, Register(context.Background(), sched, r, cfg))

	names := map[string]bool{}
	for _, info := range sched.GetJobInfos() {
		names[info.Name] = true
	}

	assert.Equal(t, map[string]bool{JobLoginRetention: true, JobCodeExpiry: true, JobOrphanSweep: true}, names)

	assert.Error(t, Register(context.Background(), sched, r, cfg), "duplicate names are rejected")
	assert.Error(t, Register(context.Background(), nil, r, cfg))
}
