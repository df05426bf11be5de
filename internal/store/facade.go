package store

import (
	"context"
	"log"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/models"
	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/utils"
)

const (
	loginTimeout = 1 * time.Second
	pollInterval = 1 * time.Second
)

// Facade is the single persistence surface the rest of the application calls.
// It holds no entity state of its own: every operation is routed to the
// remote backend while a handle is live, else to local storage.
type Facade struct {
	health *Health
	local  *LocalStore
	seeds  []SeedUser

	now func() time.Time // injectable clock
}

func NewFacade(health *Health, local *LocalStore, seeds []SeedUser) *Facade {
	return &Facade{health: health, local: local, seeds: seeds, now: time.Now}
}

func (f *Facade) Status() Status { return f.health.Status() }

// backend is the explicit two-variant selector: remote-present or local-only.
// Taking a snapshot once per operation keeps each method to a single routing
// decision even if the handle is dropped mid-flight.
type backend struct {
	remote Remote
	local  *LocalStore
}

func (f *Facade) backend() backend {
	return backend{remote: f.health.Remote(), local: f.local}
}

// remoteWrite runs op against the remote backend when a handle is live.
// Handled reports whether the remote path was taken; a remote failure is
// classified and returned as-is — writes never silently fall back to local.
func (f *Facade) remoteWrite(b backend, op func(r Remote) error) (handled bool, err error) {
	if b.remote == nil {
		return false, nil
	}
	if err := op(b.remote); err != nil {
		serr := Classify(err)
		f.health.MarkDisconnected(serr)
		return true, serr
	}
	f.health.MarkConnected()
	return true, nil
}

func (f *Facade) nowMillis() int64 { return f.now().UnixMilli() }

// ---- jobs ----

func (f *Facade) ListJobs(ctx context.Context) ([]models.Job, error) {
	b := f.backend()
	if b.remote != nil {
		jobs, err := b.remote.Jobs(ctx)
		if err != nil {
			serr := Classify(err)
			f.health.MarkDisconnected(serr)
			return nil, serr
		}
		f.health.MarkConnected()
		return jobs, nil
	}
	return b.local.Jobs()
}

func (f *Facade) GetJobByID(ctx context.Context, id string) (*models.Job, error) {
	b := f.backend()
	if b.remote != nil {
		job, err := b.remote.GetJob(ctx, id)
		if err != nil {
			serr := Classify(err)
			f.health.MarkDisconnected(serr)
			return nil, serr
		}
		f.health.MarkConnected()
		return job, nil
	}
	jobs, err := b.local.Jobs()
	if err != nil {
		return nil, err
	}
	for i := range jobs {
		if jobs[i].ID == id {
			return &jobs[i], nil
		}
	}
	return nil, nil
}

// SaveJob creates or updates a job, filling defaults and keeping the
// completed-status/completedAt invariant.
func (f *Facade) SaveJob(ctx context.Context, job models.Job) (*models.Job, error) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.CreatedAt == 0 {
		job.CreatedAt = f.nowMillis()
	}
	if job.Priority == "" {
		job.Priority = models.PriorityNormal
	}
	if job.Status == "" {
		job.Status = models.JobPending
	}
	if job.Quantity < 0 {
		return nil, NewError(KindValidation, "Quantity cannot be negative")
	}
	// status == completed iff completedAt set
	if job.Status == models.JobCompleted && job.CompletedAt == nil {
		now := f.nowMillis()
		job.CompletedAt = &now
	}
	if job.Status != models.JobCompleted {
		job.CompletedAt = nil
	}

	b := f.backend()
	if handled, err := f.remoteWrite(b, func(r Remote) error {
		return r.SaveJob(ctx, job)
	}); handled {
		if err != nil {
			return nil, err
		}
		return &job, nil
	}

	if _, err := b.local.UpdateJobs(func(jobs []models.Job) ([]models.Job, bool) {
		for i := range jobs {
			if jobs[i].ID == job.ID {
				jobs[i] = job
				return jobs, true
			}
		}
		return append(jobs, job), true
	}); err != nil {
		return nil, err
	}
	return &job, nil
}

// DeleteJob removes a job and cascades to every time log referencing it.
func (f *Facade) DeleteJob(ctx context.Context, id string) error {
	b := f.backend()
	if handled, err := f.remoteWrite(b, func(r Remote) error {
		if err := r.DeleteJob(ctx, id); err != nil {
			return err
		}
		return r.DeleteLogsForJob(ctx, id)
	}); handled {
		return err
	}

	if _, err := b.local.UpdateJobs(func(jobs []models.Job) ([]models.Job, bool) {
		kept := jobs[:0]
		for _, j := range jobs {
			if j.ID != id {
				kept = append(kept, j)
			}
		}
		return kept, true
	}); err != nil {
		return err
	}

	_, err := b.local.UpdateLogs(func(logs []models.TimeLog) ([]models.TimeLog, bool) {
		kept := logs[:0]
		for _, l := range logs {
			if l.JobID != id {
				kept = append(kept, l)
			}
		}
		return kept, true
	})
	return err
}

func (f *Facade) CompleteJob(ctx context.Context, id string) (*models.Job, error) {
	job, err := f.GetJobByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, NewError(KindNotFound, "Job not found")
	}
	now := f.nowMillis()
	job.Status = models.JobCompleted
	job.CompletedAt = &now
	return f.SaveJob(ctx, *job)
}

func (f *Facade) ReopenJob(ctx context.Context, id string) (*models.Job, error) {
	job, err := f.GetJobByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, NewError(KindNotFound, "Job not found")
	}
	job.Status = models.JobPending
	job.CompletedAt = nil
	return f.SaveJob(ctx, *job)
}

// ---- time logs ----

func (f *Facade) ListLogs(ctx context.Context) ([]models.TimeLog, error) {
	b := f.backend()
	if b.remote != nil {
		logs, err := b.remote.Logs(ctx)
		if err != nil {
			serr := Classify(err)
			f.health.MarkDisconnected(serr)
			return nil, serr
		}
		f.health.MarkConnected()
		return logs, nil
	}
	return b.local.Logs()
}

func (f *Facade) ListActiveLogs(ctx context.Context) ([]models.TimeLog, error) {
	logs, err := f.ListLogs(ctx)
	if err != nil {
		return nil, err
	}
	return filterActive(logs), nil
}

func filterActive(logs []models.TimeLog) []models.TimeLog {
	active := make([]models.TimeLog, 0, len(logs))
	for _, l := range logs {
		if l.Active() {
			active = append(active, l)
		}
	}
	return active
}

// StartTimeLog opens a work session and, as a best-effort side effect, moves
// the referenced job to in-progress. The log write follows the normal
// no-fallback rule; the job-status update alone is allowed to fail without
// failing the operation, since the session already exists by then.
func (f *Facade) StartTimeLog(ctx context.Context, jobID, userID, userName, operation string) (*models.TimeLog, error) {
	entry := models.TimeLog{
		ID:        uuid.NewString(),
		JobID:     jobID,
		UserID:    userID,
		UserName:  userName,
		Operation: operation,
		StartTime: f.nowMillis(),
	}

	b := f.backend()
	if handled, err := f.remoteWrite(b, func(r Remote) error {
		return r.SaveLog(ctx, entry)
	}); handled {
		if err != nil {
			return nil, err
		}
		if job, gerr := b.remote.GetJob(ctx, jobID); gerr == nil && job != nil && job.Status != models.JobInProgress {
			job.Status = models.JobInProgress
			job.CompletedAt = nil
			if serr := b.remote.SaveJob(ctx, *job); serr != nil {
				log.Printf("startTimeLog: job status update failed for %s: %v", jobID, serr)
			}
		} else if gerr != nil {
			log.Printf("startTimeLog: job lookup failed for %s: %v", jobID, gerr)
		}
		return &entry, nil
	}

	if _, err := b.local.UpdateLogs(func(logs []models.TimeLog) ([]models.TimeLog, bool) {
		return append(logs, entry), true
	}); err != nil {
		return nil, err
	}

	if _, err := b.local.UpdateJobs(func(jobs []models.Job) ([]models.Job, bool) {
		for i := range jobs {
			if jobs[i].ID == jobID && jobs[i].Status != models.JobInProgress {
				jobs[i].Status = models.JobInProgress
				jobs[i].CompletedAt = nil
				return jobs, true
			}
		}
		return jobs, false
	}); err != nil {
		log.Printf("startTimeLog: local job status update failed for %s: %v", jobID, err)
	}
	return &entry, nil
}

// StopTimeLog closes a session and computes its duration in whole minutes,
// floored at zero. A missing log id fails on both backends.
func (f *Facade) StopTimeLog(ctx context.Context, logID string) (*models.TimeLog, error) {
	end := f.nowMillis()

	b := f.backend()
	if b.remote != nil {
		entry, err := b.remote.GetLog(ctx, logID)
		if err != nil {
			serr := Classify(err)
			f.health.MarkDisconnected(serr)
			return nil, serr
		}
		f.health.MarkConnected()
		if entry == nil {
			return nil, NewError(KindNotFound, "Log not found")
		}
		closeLog(entry, end)
		if handled, err := f.remoteWrite(b, func(r Remote) error {
			return r.SaveLog(ctx, *entry)
		}); handled && err != nil {
			return nil, err
		}
		return entry, nil
	}

	var stopped *models.TimeLog
	if _, err := b.local.UpdateLogs(func(logs []models.TimeLog) ([]models.TimeLog, bool) {
		for i := range logs {
			if logs[i].ID == logID {
				closeLog(&logs[i], end)
				cp := logs[i]
				stopped = &cp
				return logs, true
			}
		}
		return logs, false
	}); err != nil {
		return nil, err
	}
	if stopped == nil {
		return nil, NewError(KindNotFound, "Log not found")
	}
	return stopped, nil
}

func closeLog(l *models.TimeLog, end int64) {
	minutes := DurationMinutes(l.StartTime, end)
	l.EndTime = &end
	l.DurationMinutes = &minutes
}

// DurationMinutes rounds the elapsed time to whole minutes, never negative.
func DurationMinutes(start, end int64) int {
	minutes := int(math.Round(float64(end-start) / 60000.0))
	if minutes < 0 {
		return 0
	}
	return minutes
}

// UpdateTimeLog applies an administrator edit with direct field mutation.
// Clearing EndTime re-opens the session; setting it recomputes the duration.
func (f *Facade) UpdateTimeLog(ctx context.Context, entry models.TimeLog) (*models.TimeLog, error) {
	if entry.EndTime == nil {
		entry.DurationMinutes = nil
	} else {
		minutes := DurationMinutes(entry.StartTime, *entry.EndTime)
		entry.DurationMinutes = &minutes
	}

	b := f.backend()
	if b.remote != nil {
		existing, err := b.remote.GetLog(ctx, entry.ID)
		if err != nil {
			serr := Classify(err)
			f.health.MarkDisconnected(serr)
			return nil, serr
		}
		f.health.MarkConnected()
		if existing == nil {
			return nil, NewError(KindNotFound, "Log not found")
		}
		if handled, err := f.remoteWrite(b, func(r Remote) error {
			return r.SaveLog(ctx, entry)
		}); handled && err != nil {
			return nil, err
		}
		return &entry, nil
	}

	found := false
	if _, err := b.local.UpdateLogs(func(logs []models.TimeLog) ([]models.TimeLog, bool) {
		for i := range logs {
			if logs[i].ID == entry.ID {
				logs[i] = entry
				found = true
				return logs, true
			}
		}
		return logs, false
	}); err != nil {
		return nil, err
	}
	if !found {
		return nil, NewError(KindNotFound, "Log not found")
	}
	return &entry, nil
}

func (f *Facade) DeleteTimeLog(ctx context.Context, logID string) error {
	b := f.backend()
	if handled, err := f.remoteWrite(b, func(r Remote) error {
		return r.DeleteLog(ctx, logID)
	}); handled {
		return err
	}

	_, err := b.local.UpdateLogs(func(logs []models.TimeLog) ([]models.TimeLog, bool) {
		kept := logs[:0]
		for _, l := range logs {
			if l.ID != logID {
				kept = append(kept, l)
			}
		}
		return kept, len(kept) != len(logs)
	})
	return err
}

// ---- users ----

// ListUsers returns the current user set. Local-mode loads reconcile the
// guaranteed accounts first so a tampered or emptied store self-repairs.
func (f *Facade) ListUsers(ctx context.Context) ([]models.User, error) {
	b := f.backend()
	if b.remote != nil {
		users, err := b.remote.Users(ctx)
		if err != nil {
			serr := Classify(err)
			f.health.MarkDisconnected(serr)
			return nil, serr
		}
		f.health.MarkConnected()
		return users, nil
	}
	return ReconcileLocalUsers(b.local, f.seeds)
}

func (f *Facade) SaveUser(ctx context.Context, u models.User) (*models.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	b := f.backend()
	if handled, err := f.remoteWrite(b, func(r Remote) error {
		return r.SaveUser(ctx, u)
	}); handled {
		if err != nil {
			return nil, err
		}
		return &u, nil
	}

	if _, err := b.local.UpdateUsers(func(users []models.User) ([]models.User, bool) {
		for i := range users {
			if users[i].ID == u.ID {
				users[i] = u
				return users, true
			}
		}
		return append(users, u), true
	}); err != nil {
		return nil, err
	}
	return &u, nil
}

func (f *Facade) DeleteUser(ctx context.Context, id string) error {
	b := f.backend()
	if handled, err := f.remoteWrite(b, func(r Remote) error {
		return r.DeleteUser(ctx, id)
	}); handled {
		return err
	}

	_, err := b.local.UpdateUsers(func(users []models.User) ([]models.User, bool) {
		kept := users[:0]
		for _, u := range users {
			if u.ID != id {
				kept = append(kept, u)
			}
		}
		return kept, len(kept) != len(users)
	})
	return err
}

// LoginUser authenticates by case-insensitive username and PIN. The remote
// fetch runs under a hard timeout; any remote problem — timeout, error, or
// simply no match — falls through to local storage (after seed
// reconciliation) so a slow or unreachable backend can never lock the shop
// out. A credential mismatch returns (nil, nil), not an error.
func (f *Facade) LoginUser(ctx context.Context, username, pin string) (*models.User, error) {
	b := f.backend()
	if b.remote != nil {
		fetchCtx, cancel := context.WithTimeout(ctx, loginTimeout)
		users, err := b.remote.Users(fetchCtx)
		cancel()
		if err == nil {
			f.health.MarkConnected()
			if u := matchUser(users, username, pin); u != nil {
				return u, nil
			}
		} else {
			serr := Classify(err)
			f.health.MarkDisconnected(serr)
			log.Printf("login: remote fetch failed (%s), falling back to local: %v", serr.Kind, err)
		}
	}

	users, err := ReconcileLocalUsers(b.local, f.seeds)
	if err != nil {
		return nil, err
	}
	return matchUser(users, username, pin), nil
}

func matchUser(users []models.User, username, pin string) *models.User {
	for i := range users {
		u := &users[i]
		if !u.IsActive {
			continue
		}
		if strings.EqualFold(u.Username, username) && utils.CheckPIN(pin, u.PinHash) {
			return u
		}
	}
	return nil
}

// ---- settings ----

func (f *Facade) GetSettings(ctx context.Context) (models.SystemSettings, error) {
	b := f.backend()
	if b.remote != nil {
		s, err := b.remote.Settings(ctx)
		if err != nil {
			serr := Classify(err)
			f.health.MarkDisconnected(serr)
			return models.DefaultSettings(), serr
		}
		f.health.MarkConnected()
		if s == nil {
			return models.DefaultSettings(), nil
		}
		return *s, nil
	}
	return b.local.Settings()
}

// SaveSettings is local-authoritative with a remote mirror: the local write
// happens first for immediate availability, then the mirror. A mirror failure
// still propagates even though the local write already stands.
func (f *Facade) SaveSettings(ctx context.Context, s models.SystemSettings) error {
	s.ID = models.SettingsID
	if err := f.local.SaveSettings(s); err != nil {
		return err
	}

	b := f.backend()
	if handled, err := f.remoteWrite(b, func(r Remote) error {
		return r.SaveSettings(ctx, s)
	}); handled {
		return err
	}
	return nil
}
