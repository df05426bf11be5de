package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/models"
	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/utils"
)

func newLocalFacade(t *testing.T, seeds []SeedUser) *Facade {
	t.Helper()
	local, err := NewLocalStore(afero.NewMemMapFs(), "data")
	require.NoError(t, err)
	return NewFacade(NewHealth(nil), local, seeds)
}

func fixedClock(f *Facade) func(time.Time) {
	return func(next time.Time) {
		f.now = func() time.Time { return next }
	}
}

func TestSaveJobDefaults(t *testing.T) {
	f := newLocalFacade(t, nil)
	ctx := context.Background()

	job, err := f.SaveJob(ctx, models.Job{PONumber: "PO-100", PartNumber: "X-1", Quantity: 10})
	require.NoError(t, err)
	require.NotEmpty(t, job.ID)
	require.Equal(t, models.PriorityNormal, job.Priority)
	require.Equal(t, models.JobPending, job.Status)
	require.NotZero(t, job.CreatedAt)
	require.Nil(t, job.CompletedAt)
}

func TestCompletedStatusMatchesCompletedAt(t *testing.T) {
	f := newLocalFacade(t, nil)
	ctx := context.Background()

	job, err := f.SaveJob(ctx, models.Job{PONumber: "PO-200"})
	require.NoError(t, err)

	completed, err := f.CompleteJob(ctx, job.ID)
	require.NoError(t, err)
	require.Equal(t, models.JobCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	reopened, err := f.ReopenJob(ctx, job.ID)
	require.NoError(t, err)
	require.Equal(t, models.JobPending, reopened.Status)
	require.Nil(t, reopened.CompletedAt)

	// saving with status completed but no timestamp fills one in
	reopened.Status = models.JobCompleted
	saved, err := f.SaveJob(ctx, *reopened)
	require.NoError(t, err)
	require.NotNil(t, saved.CompletedAt)

	// saving with a stale timestamp but non-completed status clears it
	saved.Status = models.JobOnHold
	held, err := f.SaveJob(ctx, *saved)
	require.NoError(t, err)
	require.Nil(t, held.CompletedAt)
}

func TestSaveJobRejectsNegativeQuantity(t *testing.T) {
	f := newLocalFacade(t, nil)
	_, err := f.SaveJob(context.Background(), models.Job{PONumber: "PO-300", Quantity: -1})
	require.Error(t, err)
	require.Equal(t, KindValidation, KindOf(err))
}

func TestConcurrentLocalSavesDoNotDropEntities(t *testing.T) {
	f := newLocalFacade(t, nil)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, 2*n)
	for i := 0; i < n; i++ {
		i := i
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := f.SaveJob(ctx, models.Job{ID: fmt.Sprintf("job-%d", i), PONumber: fmt.Sprintf("PO-%d", i)})
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := f.SaveUser(ctx, models.User{ID: fmt.Sprintf("user-%d", i), Name: fmt.Sprintf("User %d", i), Username: fmt.Sprintf("u%d", i), Role: models.RoleEmployee, IsActive: true})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	jobs, err := f.ListJobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, n)

	users, err := f.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, n)
}

func TestCompleteMissingJob(t *testing.T) {
	f := newLocalFacade(t, nil)
	_, err := f.CompleteJob(context.Background(), "nope")
	require.Error(t, err)
	require.Equal(t, KindNotFound, KindOf(err))
}

func TestDurationMinutesRounding(t *testing.T) {
	cases := []struct {
		name       string
		start, end int64
		want       int
	}{
		{"ninety seconds rounds up", 0, 90_000, 2},
		{"zero elapsed", 50_000, 50_000, 0},
		{"clock skew floors at zero", 120_000, 60_000, 0},
		{"twenty nine seconds rounds down", 0, 29_000, 0},
		{"eight hours", 0, 8 * 60 * 60_000, 480},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, DurationMinutes(tc.start, tc.end))
		})
	}
}

func TestStartAndStopTimeLog(t *testing.T) {
	f := newLocalFacade(t, nil)
	ctx := context.Background()
	setNow := fixedClock(f)

	t0 := time.UnixMilli(1_700_000_000_000)
	setNow(t0)

	job, err := f.SaveJob(ctx, models.Job{PONumber: "PO-100", PartNumber: "X-1", Quantity: 10})
	require.NoError(t, err)

	entry, err := f.StartTimeLog(ctx, job.ID, "u1", "U", "Cutting")
	require.NoError(t, err)
	require.Nil(t, entry.EndTime)
	require.Nil(t, entry.DurationMinutes)
	require.Equal(t, t0.UnixMilli(), entry.StartTime)

	// side effect: the job went in-progress
	after, err := f.GetJobByID(ctx, job.ID)
	require.NoError(t, err)
	require.Equal(t, models.JobInProgress, after.Status)

	active, err := f.ListActiveLogs(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)

	// ninety seconds later: 1.5 minutes rounds to 2
	setNow(t0.Add(90 * time.Second))
	stopped, err := f.StopTimeLog(ctx, entry.ID)
	require.NoError(t, err)
	require.NotNil(t, stopped.EndTime)
	require.NotNil(t, stopped.DurationMinutes)
	require.Equal(t, 2, *stopped.DurationMinutes)

	active, err = f.ListActiveLogs(ctx)
	require.NoError(t, err)
	require.Empty(t, active)
}

func TestStopMissingLogFailsLocally(t *testing.T) {
	f := newLocalFacade(t, nil)
	_, err := f.StopTimeLog(context.Background(), "missing")
	require.Error(t, err)
	require.Equal(t, KindNotFound, KindOf(err))
}

func TestUpdateTimeLogReopenAndClose(t *testing.T) {
	f := newLocalFacade(t, nil)
	ctx := context.Background()

	entry, err := f.StartTimeLog(ctx, "j1", "u1", "U", "Milling")
	require.NoError(t, err)

	end := entry.StartTime + 10*60_000
	updated, err := f.UpdateTimeLog(ctx, models.TimeLog{
		ID: entry.ID, JobID: "j1", UserID: "u1", UserName: "U",
		Operation: "Milling", StartTime: entry.StartTime, EndTime: &end,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.DurationMinutes)
	require.Equal(t, 10, *updated.DurationMinutes)

	// clearing EndTime re-opens and clears the duration
	reopened, err := f.UpdateTimeLog(ctx, models.TimeLog{
		ID: entry.ID, JobID: "j1", UserID: "u1", UserName: "U",
		Operation: "Milling", StartTime: entry.StartTime, EndTime: nil,
	})
	require.NoError(t, err)
	require.Nil(t, reopened.DurationMinutes)
	require.True(t, reopened.Active())
}

func TestDeleteJobCascadesLogs(t *testing.T) {
	f := newLocalFacade(t, nil)
	ctx := context.Background()

	jobA, err := f.SaveJob(ctx, models.Job{PONumber: "PO-A"})
	require.NoError(t, err)
	jobB, err := f.SaveJob(ctx, models.Job{PONumber: "PO-B"})
	require.NoError(t, err)

	_, err = f.StartTimeLog(ctx, jobA.ID, "u1", "U", "Cutting")
	require.NoError(t, err)
	_, err = f.StartTimeLog(ctx, jobA.ID, "u2", "V", "Deburr")
	require.NoError(t, err)
	keep, err := f.StartTimeLog(ctx, jobB.ID, "u3", "W", "Turning")
	require.NoError(t, err)

	require.NoError(t, f.DeleteJob(ctx, jobA.ID))

	jobs, err := f.ListJobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.Equal(t, jobB.ID, jobs[0].ID)

	logs, err := f.ListLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, keep.ID, logs[0].ID)
}

func TestLoginUserLocal(t *testing.T) {
	seeds := GuaranteedUsers("9090")
	f := newLocalFacade(t, seeds)
	ctx := context.Background()

	u, err := f.LoginUser(ctx, "ADMIN", "9090") // username is case-insensitive
	require.NoError(t, err)
	require.NotNil(t, u)
	require.Equal(t, models.RoleAdmin, u.Role)

	u, err = f.LoginUser(ctx, "admin", "wrong")
	require.NoError(t, err)
	require.Nil(t, u)

	u, err = f.LoginUser(ctx, "ghost", "9090")
	require.NoError(t, err)
	require.Nil(t, u)
}

func TestLoginInactiveUserRejected(t *testing.T) {
	f := newLocalFacade(t, nil)
	ctx := context.Background()

	hash, err := utils.HashPIN("4321")
	require.NoError(t, err)
	_, err = f.SaveUser(ctx, models.User{Name: "Benched", Username: "benched", PinHash: hash, Role: models.RoleEmployee, IsActive: false})
	require.NoError(t, err)

	u, err := f.LoginUser(ctx, "benched", "4321")
	require.NoError(t, err)
	require.Nil(t, u)
}

func TestSettingsLocalAuthoritative(t *testing.T) {
	f := newLocalFacade(t, nil)
	ctx := context.Background()

	settings, err := f.GetSettings(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, settings.CustomOperations) // defaults before any save

	settings.LunchDeductionMins = 45
	settings.CustomOperations = []string{"Cutting", "Anodize"}
	require.NoError(t, f.SaveSettings(ctx, settings))

	got, err := f.GetSettings(ctx)
	require.NoError(t, err)
	require.Equal(t, 45, got.LunchDeductionMins)
	require.Equal(t, []string{"Cutting", "Anodize"}, got.CustomOperations)
}
