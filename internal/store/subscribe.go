package store

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/models"
)

// Subscriptions deliver the full current set on every change. Streams never
// fail into the caller: a remote error is recorded against connectivity and
// the last-known local snapshot is forwarded instead, so the UI keeps
// rendering in degraded mode.
//
// Local changes arrive through the store's change hub; a 1-second ticker
// drives remote refreshes (the hosted database has no change streams) and
// doubles as the local-mode heartbeat. The returned stop func releases the
// ticker and the hub subscription.

func (f *Facade) SubscribeJobs(cb func([]models.Job)) (stop func()) {
	return f.subscribe(EntityJobs, func(ctx context.Context) error {
		b := f.backend()
		if b.remote != nil {
			jobs, err := b.remote.Jobs(ctx)
			if err != nil {
				return err
			}
			f.health.MarkConnected()
			cb(jobs)
			return nil
		}
		jobs, err := b.local.Jobs()
		if err != nil {
			return err
		}
		cb(jobs)
		return nil
	}, func() {
		jobs, err := f.local.Jobs()
		if err != nil {
			log.Printf("subscribeJobs: local snapshot failed: %v", err)
			return
		}
		cb(jobs)
	})
}

func (f *Facade) SubscribeLogs(cb func([]models.TimeLog)) (stop func()) {
	return f.subscribe(EntityLogs, func(ctx context.Context) error {
		b := f.backend()
		if b.remote != nil {
			logs, err := b.remote.Logs(ctx)
			if err != nil {
				return err
			}
			f.health.MarkConnected()
			cb(logs)
			return nil
		}
		logs, err := b.local.Logs()
		if err != nil {
			return err
		}
		cb(logs)
		return nil
	}, func() {
		logs, err := f.local.Logs()
		if err != nil {
			log.Printf("subscribeLogs: local snapshot failed: %v", err)
			return
		}
		cb(logs)
	})
}

// SubscribeActiveLogs is a derived view over SubscribeLogs filtered to
// still-running sessions.
func (f *Facade) SubscribeActiveLogs(cb func([]models.TimeLog)) (stop func()) {
	return f.SubscribeLogs(func(logs []models.TimeLog) {
		cb(filterActive(logs))
	})
}

func (f *Facade) SubscribeUsers(cb func([]models.User)) (stop func()) {
	return f.subscribe(EntityUsers, func(ctx context.Context) error {
		b := f.backend()
		if b.remote != nil {
			users, err := b.remote.Users(ctx)
			if err != nil {
				return err
			}
			f.health.MarkConnected()
			cb(users)
			return nil
		}
		users, err := ReconcileLocalUsers(b.local, f.seeds)
		if err != nil {
			return err
		}
		cb(users)
		return nil
	}, func() {
		users, err := f.local.Users()
		if err != nil {
			log.Printf("subscribeUsers: local snapshot failed: %v", err)
			return
		}
		cb(users)
	})
}

// subscribe runs deliver immediately, then again on every local change
// notification or ticker tick, until stop is called. A deliver error is
// classified, recorded, and degraded to the local fallback snapshot — never
// surfaced to the subscriber.
func (f *Facade) subscribe(e Entity, deliver func(ctx context.Context) error, fallback func()) (stop func()) {
	changes, cancel := f.local.Subscribe(e)
	done := make(chan struct{})

	run := func() {
		ctx, cancelCtx := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelCtx()
		if err := deliver(ctx); err != nil {
			serr := Classify(err)
			f.health.MarkDisconnected(serr)
			log.Printf("subscription %s degraded (%s): %v", e, serr.Kind, err)
			fallback()
		}
	}

	go func() {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		run()
		for {
			select {
			case <-done:
				return
			case <-changes:
				run()
			case <-ticker.C:
				run()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			close(done)
		})
	}
}
