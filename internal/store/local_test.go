package store

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/models"
)

func TestLocalStoreEmptyCollections(t *testing.T) {
	local := newTestLocal(t)

	jobs, err := local.Jobs()
	require.NoError(t, err)
	require.Empty(t, jobs)

	settings, err := local.Settings()
	require.NoError(t, err)
	require.Equal(t, models.DefaultSettings(), settings)
}

func TestLocalStoreRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	local, err := NewLocalStore(fs, "data")
	require.NoError(t, err)

	completed := int64(1_700_000_123_456)
	in := []models.Job{
		{ID: "a", PONumber: "PO-1", Status: models.JobCompleted, CompletedAt: &completed},
		{ID: "b", PONumber: "PO-2", Status: models.JobPending},
	}
	require.NoError(t, local.SaveJobs(in))

	// a second store over the same filesystem sees the same data
	reopened, err := NewLocalStore(fs, "data")
	require.NoError(t, err)
	out, err := reopened.Jobs()
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestLocalChangeHubNotifies(t *testing.T) {
	local := newTestLocal(t)

	ch, cancel := local.Subscribe(EntityJobs)
	defer cancel()

	require.NoError(t, local.SaveJobs([]models.Job{{ID: "a"}}))
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no change notification after write")
	}

	// other entities don't cross-notify
	require.NoError(t, local.SaveUsers([]models.User{{ID: "u"}}))
	select {
	case <-ch:
		t.Fatal("user write must not notify job subscribers")
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	require.NoError(t, local.SaveJobs([]models.Job{{ID: "b"}}))
	select {
	case <-ch:
		t.Fatal("cancelled subscriber still notified")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLocalSubscriptionDeliversSnapshotAndUpdates(t *testing.T) {
	f := newLocalFacade(t, nil)

	got := make(chan []models.Job, 8)
	stop := f.SubscribeJobs(func(jobs []models.Job) {
		got <- jobs
	})
	defer stop()

	// initial snapshot arrives without waiting a full poll interval
	select {
	case jobs := <-got:
		require.Empty(t, jobs)
	case <-time.After(pollInterval):
		t.Fatal("no initial snapshot within one interval")
	}

	require.NoError(t, f.local.SaveJobs([]models.Job{{ID: "a", PONumber: "PO-1"}}))

	deadline := time.After(2 * time.Second)
	for {
		select {
		case jobs := <-got:
			if len(jobs) == 1 && jobs[0].ID == "a" {
				return
			}
		case <-deadline:
			t.Fatal("update never delivered")
		}
	}
}
