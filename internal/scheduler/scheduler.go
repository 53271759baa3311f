package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hassaan22/minaret/internal/assets"
	"github.com/hassaan22/minaret/internal/model"
	"github.com/hassaan22/minaret/internal/playback"
	"github.com/hassaan22/minaret/internal/storage"
	"github.com/hassaan22/minaret/internal/timetable"
)

// ErrPreemptionTimeout marks a stop that exceeded its bound during
// preemption. Non-fatal: the new session proceeds anyway.
var ErrPreemptionTimeout = errors.New("stop timed out during preemption")

const (
	defaultStopTimeout = 10 * time.Second
	defaultPlayWindow  = 5 * time.Minute
	refreshInterval    = 6 * time.Hour
	dayLayout          = "2006-01-02"
)

type activeSession struct {
	session model.PlaybackSession
	seq     uint64
	reset   *pointTimer
	// closed once the backend Start call has returned; a stop must not be
	// issued while the play command is still in flight
	started chan struct{}
}

// Config wires the scheduler's collaborators.
type Config struct {
	Provider timetable.Provider
	Cache    *assets.Cache
	Driver   playback.Driver
	Media    storage.Storage
	DeviceID string
	Settings model.Settings

	// Recorder receives every session state change for the history log.
	Recorder func(model.PlaybackSession)
	// OnStatus is invoked on every status transition.
	OnStatus func(model.Status)

	StopTimeout time.Duration
	PlayWindow  time.Duration
	Now         func() time.Time
}

// Scheduler is the single scheduling authority of the process. All
// mutation of the armed set and the active session is serialized behind
// one mutex; firing callbacks run in their own goroutines so a suspended
// fetch never blocks other armed timers.
type Scheduler struct {
	cache    *assets.Cache
	media    storage.Storage
	recorder func(model.PlaybackSession)
	onStatus func(model.Status)

	stopTimeout time.Duration
	playWindow  time.Duration
	nowFn       func() time.Time

	mu       sync.Mutex
	provider timetable.Provider
	driver   playback.Driver
	deviceID string
	settings model.Settings
	table    *model.TimeTable
	entries  []model.ScheduleEntry
	timers   map[model.EventKind]*pointTimer
	midnight *pointTimer
	firedDay string
	fired    map[model.EventKind]bool
	active   *activeSession
	seq      uint64
	status   model.Status
}

func New(cfg Config) *Scheduler {
	s := &Scheduler{
		cache:       cfg.Cache,
		media:       cfg.Media,
		recorder:    cfg.Recorder,
		onStatus:    cfg.OnStatus,
		stopTimeout: cfg.StopTimeout,
		playWindow:  cfg.PlayWindow,
		nowFn:       cfg.Now,
		provider:    cfg.Provider,
		driver:      cfg.Driver,
		deviceID:    cfg.DeviceID,
		settings:    cfg.Settings,
		timers:      make(map[model.EventKind]*pointTimer),
		fired:       make(map[model.EventKind]bool),
		status:      model.StatusIdle,
	}
	if s.stopTimeout <= 0 {
		s.stopTimeout = defaultStopTimeout
	}
	if s.playWindow <= 0 {
		s.playWindow = defaultPlayWindow
	}
	if s.nowFn == nil {
		s.nowFn = time.Now
	}
	return s
}

func (s *Scheduler) now() time.Time { return s.nowFn() }

// Configure swaps the settings and the dispatched provider/driver. The
// caller refreshes afterwards to re-arm against the new configuration.
func (s *Scheduler) Configure(settings model.Settings, provider timetable.Provider, driver playback.Driver, deviceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	s.provider = provider
	s.driver = driver
	s.deviceID = deviceID
}

// Run refreshes on startup, then on a periodic interval until ctx is
// cancelled. The midnight re-arm is handled by rearm itself.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Refresh(ctx); err != nil {
		log.Error().Err(err).Msg("initial refresh failed")
	}

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	log.Info().Msg("scheduler loop started")
	for {
		select {
		case <-ctx.Done():
			s.Shutdown()
			log.Info().Msg("scheduler loop stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				log.Error().Err(err).Msg("periodic refresh failed")
			}
		}
	}
}

// Refresh fetches the day's timetable and rebuilds the armed set. On
// fetch failure the previous armed set stays intact. When every enabled
// entry of the current day has passed, tomorrow's timetable is targeted
// instead. Idempotent for unchanged inputs.
func (s *Scheduler) Refresh(ctx context.Context) error {
	now := s.now()

	s.mu.Lock()
	settings := s.settings
	provider := s.provider
	s.mu.Unlock()

	if provider == nil {
		return fmt.Errorf("no timetable provider configured")
	}

	table, err := fetchValidated(ctx, provider, startOfDay(now))
	if err != nil {
		log.Error().Err(err).Msg("timetable refresh failed, keeping previous schedule")
		return err
	}

	entries := buildEntries(table, settings)
	if !anyFuture(entries, now) {
		// past the last enabled instant: target tomorrow's timetable
		next, nerr := fetchValidated(ctx, provider, startOfDay(now).AddDate(0, 0, 1))
		if nerr == nil {
			table = next
			entries = buildEntries(next, settings)
		} else {
			log.Warn().Err(nerr).Msg("could not fetch next day timetable")
		}
	}

	s.mu.Lock()
	s.table = table
	s.entries = entries
	s.rearm(now)
	armed := len(s.timers)
	s.mu.Unlock()

	log.Info().
		Str("day", table.Day.Format(dayLayout)).
		Str("source", table.Source).
		Int("armed", armed).
		Msg("schedule refreshed")
	return nil
}

func fetchValidated(ctx context.Context, provider timetable.Provider, day time.Time) (*model.TimeTable, error) {
	table, err := provider.Fetch(ctx, day)
	if err != nil {
		return nil, err
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// buildEntries derives the day's schedule entries: entry.At = T[kind] +
// offset, enabled per kind. Offsets may cross midnight; the future-only
// arming rule in rearm is the sole filter.
func buildEntries(table *model.TimeTable, settings model.Settings) []model.ScheduleEntry {
	offset := time.Duration(settings.OffsetMinutes) * time.Minute
	entries := make([]model.ScheduleEntry, 0, len(model.Kinds))
	for _, kind := range model.Kinds {
		entries = append(entries, model.ScheduleEntry{
			Kind:    kind,
			At:      table.Times[kind].Add(offset),
			Enabled: settings.Enabled(kind),
			Offset:  offset,
		})
	}
	return entries
}

func anyFuture(entries []model.ScheduleEntry, now time.Time) bool {
	for _, e := range entries {
		if e.Enabled && e.At.After(now) {
			return true
		}
	}
	return false
}

// rearm cancels every armed callback before arming the new set, so no
// window exists where old and new callbacks could both fire. Entries whose
// instant has passed are skipped, never fired retroactively.
// Caller holds s.mu.
func (s *Scheduler) rearm(now time.Time) {
	for _, t := range s.timers {
		t.Cancel()
	}
	s.timers = make(map[model.EventKind]*pointTimer)
	if s.midnight != nil {
		s.midnight.Cancel()
	}

	for _, entry := range s.entries {
		if !entry.Enabled || !entry.At.After(now) {
			continue
		}
		kind := entry.Kind
		s.timers[kind] = newPointTimer(entry.At, func() { s.onFire(kind) })
	}

	// local midnight refresh picks up the next day's timetable
	midnight := startOfDay(now).AddDate(0, 0, 1).Add(time.Minute)
	s.midnight = newPointTimer(midnight, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := s.Refresh(ctx); err != nil {
			log.Error().Err(err).Msg("midnight refresh failed")
		}
	})
}

// onFire runs in the firing timer's goroutine; a per-day guard prevents
// double playback when refresh re-arms around a firing instant.
func (s *Scheduler) onFire(kind model.EventKind) {
	now := s.now()
	day := now.Format(dayLayout)

	s.mu.Lock()
	if day != s.firedDay {
		s.firedDay = day
		s.fired = make(map[model.EventKind]bool)
	}
	if s.fired[kind] {
		s.mu.Unlock()
		log.Debug().Str("kind", string(kind)).Msg("already fired today, skipping")
		return
	}
	s.fired[kind] = true
	s.mu.Unlock()

	log.Info().Str("kind", string(kind)).Msg("scheduled callback fired")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	if err := s.Trigger(ctx, kind); err != nil {
		log.Error().Err(err).Str("kind", string(kind)).Msg("scheduled trigger failed")
	}
}

// Trigger requests playback for kind immediately. The most recently
// issued request wins: an active session is stopped first, and a request
// superseded while waiting on the asset abandons silently.
func (s *Scheduler) Trigger(ctx context.Context, kind model.EventKind) error {
	s.mu.Lock()
	s.seq++
	mySeq := s.seq
	prev := s.active
	s.active = nil
	settings := s.settings
	driver := s.driver
	deviceID := s.deviceID
	s.mu.Unlock()

	if prev != nil {
		prev.reset.Cancel()
		s.stopSession(ctx, driver, deviceID, prev, model.SessionStopped)
	}

	if driver == nil || deviceID == "" {
		s.setStatus(mySeq, model.StatusIdle)
		return fmt.Errorf("no playback target configured")
	}

	assetID, sourceURL := settings.AssetFor(kind)
	s.setStatus(mySeq, model.StatusDownloading)

	path, err := s.cache.Resolve(ctx, assetID, sourceURL)
	if err != nil {
		// abandon this trigger; the next attempt may retry the fetch
		s.setStatus(mySeq, model.StatusIdle)
		log.Error().Err(err).Str("kind", string(kind)).Msg("trigger abandoned, asset not ready")
		return err
	}

	mediaURL, err := s.media.PublishAudio(path, assetID+".mp3")
	if err != nil {
		s.setStatus(mySeq, model.StatusIdle)
		log.Error().Err(err).Str("kind", string(kind)).Msg("could not publish audio for playback")
		return err
	}

	targetID := 0
	if settings.TargetID != nil {
		targetID = *settings.TargetID
	}
	sess := model.PlaybackSession{
		ID:        uuid.NewString(),
		Kind:      kind,
		AssetID:   assetID,
		TargetID:  targetID,
		State:     model.SessionActive,
		StartedAt: s.now(),
	}

	s.mu.Lock()
	if s.seq != mySeq {
		// a newer request arrived while the asset resolved; it wins
		s.mu.Unlock()
		return nil
	}
	active := &activeSession{session: sess, seq: mySeq, started: make(chan struct{})}
	active.reset = newPointTimer(s.now().Add(s.playWindow), func() { s.finishSession(mySeq) })
	s.active = active
	s.mu.Unlock()

	startErr := driver.Start(ctx, deviceID, mediaURL)
	close(active.started)

	if startErr != nil {
		active.reset.Cancel()
		s.mu.Lock()
		claimed := s.active == active
		if claimed {
			s.active = nil
		}
		s.mu.Unlock()
		if claimed {
			// a successor that already took the session records its end
			sess.State = model.SessionFailed
			s.endSession(&sess, startErr)
		}
		s.setStatus(mySeq, model.StatusIdle)
		return startErr
	}

	s.mu.Lock()
	superseded := s.seq != mySeq
	s.mu.Unlock()
	if superseded {
		// a newer request claimed this session while the play command was
		// in flight; it waited for our Start, stops after it, and records
		// the outcome
		return nil
	}

	s.setStatus(mySeq, model.StatusPlaying)
	s.record(sess)
	log.Info().Str("kind", string(kind)).Str("url", mediaURL).Msg("playback started")
	return nil
}

// StopPlayback stops the active session if any. Stopping with nothing
// active is a no-op, not an error.
func (s *Scheduler) StopPlayback(ctx context.Context) error {
	s.mu.Lock()
	s.seq++
	mySeq := s.seq
	prev := s.active
	s.active = nil
	driver := s.driver
	deviceID := s.deviceID
	s.mu.Unlock()

	if prev != nil {
		prev.reset.Cancel()
		s.stopSession(ctx, driver, deviceID, prev, model.SessionStopped)
	}
	s.setStatus(mySeq, model.StatusIdle)
	return nil
}

// stopSession issues a bounded stop. Exceeding the bound is logged as a
// warning and the caller proceeds (best-effort stop). The stop waits,
// bounded the same way, for the session's Start call to return first, so
// the backend never receives stop and play out of order.
func (s *Scheduler) stopSession(ctx context.Context, driver playback.Driver, deviceID string, sess *activeSession, state model.SessionState) {
	if sess.started != nil {
		select {
		case <-sess.started:
		case <-time.After(s.stopTimeout):
			log.Warn().Str("session", sess.session.ID).
				Msg("start still in flight, proceeding to stop")
		case <-ctx.Done():
		}
	}

	if driver != nil && deviceID != "" {
		stopCtx, cancel := context.WithTimeout(ctx, s.stopTimeout)
		done := make(chan error, 1)
		go func() { done <- driver.Stop(stopCtx, deviceID) }()
		select {
		case err := <-done:
			if err != nil {
				log.Error().Err(err).Msg("backend stop failed")
			}
		case <-stopCtx.Done():
			log.Warn().Err(ErrPreemptionTimeout).Str("session", sess.session.ID).
				Msg("proceeding without stop confirmation")
		}
		cancel()
	}

	sess.session.State = state
	s.endSession(&sess.session, nil)
}

// finishSession returns the process to idle once the play window for a
// session elapses without it having been stopped or preempted.
func (s *Scheduler) finishSession(seq uint64) {
	s.mu.Lock()
	if s.active == nil || s.active.seq != seq {
		s.mu.Unlock()
		return
	}
	sess := s.active.session
	s.active = nil
	changed := s.status != model.StatusIdle
	s.status = model.StatusIdle
	hook := s.onStatus
	s.mu.Unlock()

	sess.State = model.SessionDone
	s.endSession(&sess, nil)
	if changed && hook != nil {
		hook(model.StatusIdle)
	}
}

func (s *Scheduler) endSession(sess *model.PlaybackSession, cause error) {
	now := s.now()
	sess.EndedAt = &now
	if cause != nil {
		msg := cause.Error()
		sess.Error = &msg
	}
	s.record(*sess)
}

func (s *Scheduler) record(sess model.PlaybackSession) {
	if s.recorder != nil {
		s.recorder(sess)
	}
}

// setStatus applies a transition only if seq is still the newest request,
// so an abandoned trigger never clobbers its successor's status.
func (s *Scheduler) setStatus(seq uint64, st model.Status) {
	s.mu.Lock()
	if seq != 0 && seq != s.seq {
		s.mu.Unlock()
		return
	}
	changed := s.status != st
	s.status = st
	hook := s.onStatus
	s.mu.Unlock()

	if changed && hook != nil {
		hook(st)
	}
}

// Snapshot is the read-only projection consumed by the status publisher.
type Snapshot struct {
	Status  model.Status
	Table   *model.TimeTable
	Entries []model.ScheduleEntry
	Active  *model.PlaybackSession
}

func (s *Scheduler) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{Status: s.status, Table: s.table}
	snap.Entries = append(snap.Entries, s.entries...)
	if s.active != nil {
		sess := s.active.session
		snap.Active = &sess
	}
	if snap.Status == model.StatusIdle && s.cache != nil && s.cache.Fetching() {
		// a background prefetch counts as downloading
		snap.Status = model.StatusDownloading
	}
	return snap
}

// Prefetch warms the asset cache for the configured audio URLs. Failures
// are reported and retried on the next trigger attempt.
func (s *Scheduler) Prefetch(ctx context.Context) {
	s.mu.Lock()
	settings := s.settings
	s.mu.Unlock()

	for _, kind := range []model.EventKind{model.KindTest, model.KindFajr} {
		id, url := settings.AssetFor(kind)
		if url == "" {
			continue
		}
		if _, err := s.cache.Resolve(ctx, id, url); err != nil {
			log.Error().Err(err).Str("asset", id).Msg("audio prefetch failed")
		}
	}
}

// Shutdown cancels every armed callback and resets to idle.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	for _, t := range s.timers {
		t.Cancel()
	}
	s.timers = make(map[model.EventKind]*pointTimer)
	if s.midnight != nil {
		s.midnight.Cancel()
		s.midnight = nil
	}
	prev := s.active
	s.active = nil
	driver := s.driver
	deviceID := s.deviceID
	s.status = model.StatusIdle
	s.mu.Unlock()

	if prev != nil {
		prev.reset.Cancel()
		ctx, cancel := context.WithTimeout(context.Background(), s.stopTimeout)
		s.stopSession(ctx, driver, deviceID, prev, model.SessionStopped)
		cancel()
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
