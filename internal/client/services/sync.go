// Package services contains the application services of the snapdiary
// client. This file defines the sync coordinator: the single owner of the
// in-memory entry view and the durable queue of pending mutations, covering
// initial load, optimistic mutation, and replay-on-reconnect.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/avasilenko/snapdiary/internal/client/client"
	"github.com/avasilenko/snapdiary/internal/client/models"
	"github.com/avasilenko/snapdiary/internal/client/repositories/entries"
	"github.com/avasilenko/snapdiary/internal/client/repositories/kv"
	"github.com/avasilenko/snapdiary/internal/client/repositories/pending"
	"github.com/avasilenko/snapdiary/internal/common"
	"github.com/avasilenko/snapdiary/internal/logging"
)

// NoticeKind classifies the transient notifications shown to the user.
type NoticeKind string

const (
	NoticeSaved          NoticeKind = "saved"
	NoticeSavedOffline   NoticeKind = "saved_offline"
	NoticeSyncError      NoticeKind = "sync_error"
	NoticeDeleted        NoticeKind = "deleted"
	NoticeDeletedOffline NoticeKind = "deleted_offline"
	NoticeSyncComplete   NoticeKind = "sync_complete"
	NoticeOfflineCache   NoticeKind = "offline_cache"
)

// Notice is a transient, non-blocking notification. There is no persistent
// error state: retry is implicit and driven by connectivity transitions.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Snapshot is the read-only state published to the presentation layer.
// Entries is a copy; consumers mutate only through the coordinator.
type Snapshot struct {
	Entries          []models.DiaryEntry
	Loading          bool
	Saving           bool
	Offline          bool
	PendingSyncCount int
}

// Coordinator orchestrates the offline-first data flow: it mutates the
// in-memory view optimistically, persists to the local store
// unconditionally, attempts the remote call, and converts failures into
// queued pending actions that replay on reconnect.
//
// The coordinator exclusively owns both the view and the durable queue.
// Nothing here propagates an error to the presentation layer for a remote
// or local-storage failure; those are logged and absorbed.
type Coordinator struct {
	client  client.Client
	entries entries.Repository
	pending pending.Repository
	kv      kv.Repository
	online  func() bool
	log     logging.Logger

	mu           sync.Mutex
	view         []models.DiaryEntry
	loading      bool
	saving       bool
	offline      bool
	pendingCount int
	closed       bool
	onChange     func(Snapshot)
	onNotice     func(Notice)

	// replaying coalesces concurrent replay passes: a second online edge
	// arriving mid-replay is dropped, never run as an overlapping pass.
	replaying atomic.Bool
}

// NewCoordinator wires the coordinator to its collaborators. The online
// func is the connectivity probe consulted before remote attempts.
func NewCoordinator(
	c client.Client,
	entryRepo entries.Repository,
	pendingRepo pending.Repository,
	kvRepo kv.Repository,
	online func() bool,
	log logging.Logger,
) *Coordinator {
	return &Coordinator{
		client:  c,
		entries: entryRepo,
		pending: pendingRepo,
		kv:      kvRepo,
		online:  online,
		log:     log,
	}
}

// OnChange registers the reactive-view callback. It is invoked
// synchronously with every optimistic mutation.
func (c *Coordinator) OnChange(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// OnNotice registers the transient-notification callback.
func (c *Coordinator) OnNotice(fn func(Notice)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onNotice = fn
}

// Close detaches the coordinator from its consumers: late results (such as
// a remote fetch arriving after teardown) are discarded instead of being
// published to a detached view.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.onChange = nil
	c.onNotice = nil
}

// Snapshot returns a copy of the current published state.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Coordinator) snapshotLocked() Snapshot {
	entriesCopy := make([]models.DiaryEntry, len(c.view))
	copy(entriesCopy, c.view)
	return Snapshot{
		Entries:          entriesCopy,
		Loading:          c.loading,
		Saving:           c.saving,
		Offline:          c.offline,
		PendingSyncCount: c.pendingCount,
	}
}

func (c *Coordinator) publishLocked() {
	if c.closed || c.onChange == nil {
		return
	}
	c.onChange(c.snapshotLocked())
}

func (c *Coordinator) notify(kind NoticeKind, msg string) {
	c.mu.Lock()
	fn := c.onNotice
	closed := c.closed
	c.mu.Unlock()
	if closed || fn == nil {
		return
	}
	fn(Notice{Kind: kind, Message: msg})
}

// sortByDateDesc orders entries newest first. The sort is stable: entries
// sharing a date keep their encounter order.
func sortByDateDesc(list []models.DiaryEntry) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Date.After(list[j].Date)
	})
}

func (c *Coordinator) refreshPendingCount(ctx context.Context) {
	n, err := c.pending.Count(ctx)
	if err != nil {
		c.log.Error(ctx, "failed to count pending actions", "error", err)
		return
	}
	c.mu.Lock()
	c.pendingCount = n
	c.publishLocked()
	c.mu.Unlock()
}

// Load runs the load path: local cache first (usable UI within one local
// I/O round trip, regardless of network state), then — when online — the
// remote truth, which overwrites the local cache. It never blocks the UI
// on network failure and never returns an error.
func (c *Coordinator) Load(ctx context.Context) {
	c.mu.Lock()
	c.loading = true
	c.publishLocked()
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.loading = false
		c.publishLocked()
		c.mu.Unlock()
	}()

	cached, err := c.entries.GetAll(ctx)
	if err != nil {
		c.log.Error(ctx, "failed to load entries from local store", "error", err)
	}

	if len(cached) > 0 {
		sortByDateDesc(cached)
		c.mu.Lock()
		c.view = cached
		c.publishLocked()
		c.mu.Unlock()
	} else {
		c.migrateLegacySnapshot(ctx)
	}

	c.refreshPendingCount(ctx)

	if !c.online() {
		c.log.Info(ctx, "offline, serving cached entries")
		c.mu.Lock()
		c.offline = true
		c.publishLocked()
		c.mu.Unlock()
		return
	}

	fetched, err := c.client.FetchEntries(ctx)
	if err != nil {
		// leave the locally published view intact
		c.log.Warn(ctx, "remote fetch failed, keeping cached entries", "error", err)
		c.mu.Lock()
		c.offline = true
		c.publishLocked()
		c.mu.Unlock()
		c.notify(NoticeOfflineCache, "Showing cached entries. Will sync when online.")
		return
	}

	sortByDateDesc(fetched)
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.view = fetched
	c.offline = false
	c.publishLocked()
	c.mu.Unlock()

	// remote is authoritative once reachable
	if err := c.entries.ReplaceAll(ctx, fetched); err != nil {
		c.log.Error(ctx, "failed to overwrite local cache", "error", err)
	}
	if err := c.kv.Set(ctx, kv.KeyLastSyncAt, []byte(time.Now().UTC().Format(time.RFC3339))); err != nil {
		c.log.Error(ctx, "failed to record sync time", "error", err)
	}
}

// migrateLegacySnapshot loads the flat JSON snapshot left by the old
// storage scheme, publishes it, and moves it into the structured store.
// One-time and idempotent: the key is removed after a successful copy.
func (c *Coordinator) migrateLegacySnapshot(ctx context.Context) {
	raw, err := c.kv.Get(ctx, kv.KeyLegacyEntries)
	if err != nil {
		c.log.Error(ctx, "failed to read legacy snapshot", "error", err)
		return
	}
	if len(raw) == 0 {
		return
	}

	var legacy []models.DiaryEntry
	if err := json.Unmarshal(raw, &legacy); err != nil {
		c.log.Error(ctx, "failed to parse legacy snapshot", "error", err)
		return
	}

	sortByDateDesc(legacy)
	c.mu.Lock()
	c.view = legacy
	c.publishLocked()
	c.mu.Unlock()

	for i := range legacy {
		if err := c.entries.Save(ctx, &legacy[i]); err != nil {
			c.log.Error(ctx, "failed to migrate legacy entry", "id", legacy[i].ID, "error", err)
			return
		}
	}
	if err := c.kv.Delete(ctx, kv.KeyLegacyEntries); err != nil {
		c.log.Error(ctx, "failed to drop legacy snapshot", "error", err)
		return
	}
	c.log.Info(ctx, "migrated legacy snapshot", "count", len(legacy))
}

// Refresh force-fetches from the remote service (pull-to-refresh). Unlike
// Load it reports failure to the caller, and it refuses to run offline.
func (c *Coordinator) Refresh(ctx context.Context) error {
	if !c.online() {
		c.notify(NoticeOfflineCache, "You are offline. Cannot refresh.")
		return client.ErrUnavailable
	}

	fetched, err := c.client.FetchEntries(ctx)
	if err != nil {
		return err
	}

	sortByDateDesc(fetched)
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.view = fetched
	c.offline = false
	c.publishLocked()
	c.mu.Unlock()

	if err := c.entries.ReplaceAll(ctx, fetched); err != nil {
		c.log.Error(ctx, "failed to overwrite local cache", "error", err)
	}
	return nil
}

func (c *Coordinator) setSaving(saving bool) {
	c.mu.Lock()
	c.saving = saving
	c.publishLocked()
	c.mu.Unlock()
}

func (c *Coordinator) enqueue(ctx context.Context, action models.PendingAction) {
	if _, err := c.pending.Add(ctx, action); err != nil {
		c.log.Error(ctx, "failed to enqueue pending action", "type", action.Type, "error", err)
		return
	}
	c.refreshPendingCount(ctx)
}

// fanOutCreate issues the private-scope write plus one independent group
// insert per non-private target. Every write is attempted even when an
// earlier one fails; overall success requires all of them to succeed.
func (c *Coordinator) fanOutCreate(ctx context.Context, entry *models.DiaryEntry, targetGroups []string) error {
	var errs []error
	for _, target := range targetGroups {
		if target == common.ScopePrivate {
			if _, err := c.client.CreateEntry(ctx, entry); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		if err := c.client.CreateGroupEntry(ctx, target, entry); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Add applies a new entry: optimistic prepend, unconditional local persist,
// then the remote fan-out. Offline or failing remotes degrade to a queued
// create; the optimistic local state is never rolled back, so the user
// experience is "saved", not "failed".
func (c *Coordinator) Add(ctx context.Context, entry *models.DiaryEntry, targetGroups []string) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if len(targetGroups) == 0 {
		targetGroups = []string{common.ScopePrivate}
	}
	entry.GroupIDs = targetGroups
	if err := entry.Validate(); err != nil {
		return err
	}

	c.setSaving(true)
	defer c.setSaving(false)

	c.mu.Lock()
	c.view = append([]models.DiaryEntry{*entry}, c.view...)
	c.publishLocked()
	c.mu.Unlock()

	// persisted whether or not we are online, so the entry survives even
	// if the remote call never completes
	if err := c.entries.Save(ctx, entry); err != nil {
		c.log.Error(ctx, "failed to persist entry locally", "id", entry.ID, "error", err)
	}

	if !c.online() {
		c.enqueue(ctx, models.NewCreateAction(*entry, targetGroups))
		c.notify(NoticeSavedOffline, "Saved offline. Will sync when online.")
		return nil
	}

	if err := c.fanOutCreate(ctx, entry, targetGroups); err != nil {
		c.log.Error(ctx, "remote create failed", "id", entry.ID, "error", err)
		c.enqueue(ctx, models.NewCreateAction(*entry, targetGroups))
		c.notify(NoticeSyncError, "Network error. Saved offline.")
		return nil
	}

	c.notify(NoticeSaved, "Memory saved successfully!")
	return nil
}

// Update mirrors Add but replaces the matching entry in place. Only the
// private-scope record is updated remotely: group-scoped copies are not
// retrospectively edited in this design.
func (c *Coordinator) Update(ctx context.Context, entry *models.DiaryEntry, targetGroups []string) error {
	if len(targetGroups) == 0 {
		targetGroups = []string{common.ScopePrivate}
	}
	if err := entry.Validate(); err != nil {
		return err
	}

	c.setSaving(true)
	defer c.setSaving(false)

	c.mu.Lock()
	for i := range c.view {
		if c.view[i].ID == entry.ID {
			c.view[i] = *entry
			break
		}
	}
	c.publishLocked()
	c.mu.Unlock()

	if err := c.entries.Save(ctx, entry); err != nil {
		c.log.Error(ctx, "failed to persist entry locally", "id", entry.ID, "error", err)
	}

	patch := models.PatchFrom(entry)

	if !c.online() {
		c.enqueue(ctx, models.NewUpdateAction(entry.ID, patch, targetGroups))
		c.notify(NoticeSavedOffline, "Updated offline. Will sync when online.")
		return nil
	}

	if _, err := c.client.UpdateEntry(ctx, entry.ID, patch); err != nil {
		c.log.Error(ctx, "remote update failed", "id", entry.ID, "error", err)
		c.enqueue(ctx, models.NewUpdateAction(entry.ID, patch, targetGroups))
		c.notify(NoticeSyncError, "Network error. Saved offline.")
		return nil
	}

	c.notify(NoticeSaved, "Memory updated successfully!")
	return nil
}

// Delete removes the entry optimistically from the view and the local
// store before the remote call; offline or failing remotes queue the
// deletion for replay.
func (c *Coordinator) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	filtered := c.view[:0]
	for _, e := range c.view {
		if e.ID != id {
			filtered = append(filtered, e)
		}
	}
	c.view = filtered
	c.publishLocked()
	c.mu.Unlock()

	if err := c.entries.DeleteByID(ctx, id); err != nil {
		c.log.Error(ctx, "failed to delete entry locally", "id", id, "error", err)
	}

	if !c.online() {
		c.enqueue(ctx, models.NewDeleteAction(id))
		c.notify(NoticeDeletedOffline, "Deleted locally. Will sync when online.")
		return nil
	}

	if err := c.client.DeleteEntry(ctx, id); err != nil {
		c.log.Error(ctx, "remote delete failed", "id", id, "error", err)
		c.enqueue(ctx, models.NewDeleteAction(id))
		c.notify(NoticeSyncError, "Network error. Queued for deletion.")
		return nil
	}

	c.notify(NoticeDeleted, "Memory deleted.")
	return nil
}

func (c *Coordinator) applyAction(ctx context.Context, a *models.PendingAction) error {
	if err := a.Validate(); err != nil {
		return err
	}
	switch a.Type {
	case models.ActionCreate:
		return c.fanOutCreate(ctx, &a.Create.Entry, a.Create.TargetGroups)
	case models.ActionUpdate:
		_, err := c.client.UpdateEntry(ctx, a.Update.EntryID, a.Update.Patch)
		return err
	case models.ActionDelete:
		return c.client.DeleteEntry(ctx, a.Delete.EntryID)
	default:
		return common.ErrUnknownAction
	}
}

// Replay drains the pending queue against the remote service. It is
// edge-triggered by the connectivity watcher, single-flight (a second
// online edge during a pass is ignored), and works on a snapshot of the
// queue read at the start: actions enqueued mid-pass wait for the next
// transition.
//
// The queue is iterated strictly sequentially, oldest first, so a create
// replays before any update or delete that targets the same entry. A
// failing action stays queued and the loop moves on; one stuck action must
// never block unrelated ones. An action is removed only after its remote
// call succeeds, so a crash between success and dequeue can replay it a
// second time on the next transition.
func (c *Coordinator) Replay(ctx context.Context) {
	if !c.replaying.CompareAndSwap(false, true) {
		c.log.Debug(ctx, "replay already in progress, skipping")
		return
	}
	defer c.replaying.Store(false)

	actions, err := c.pending.GetAll(ctx)
	if err != nil {
		c.log.Error(ctx, "failed to read pending actions", "error", err)
		return
	}
	if len(actions) == 0 {
		return
	}

	c.log.Info(ctx, "replaying pending actions", "count", len(actions))

	for i := range actions {
		a := &actions[i]
		if err := c.applyAction(ctx, a); err != nil {
			c.log.Error(ctx, "replay failed for action",
				"id", a.ID, "type", a.Type, "entry_id", a.EntryID(), "error", err)
			continue
		}
		if err := c.pending.Remove(ctx, a.ID); err != nil {
			c.log.Error(ctx, "failed to dequeue replayed action", "id", a.ID, "error", err)
		}
	}

	c.refreshPendingCount(ctx)
	c.notify(NoticeSyncComplete, "Sync complete!")
	c.Load(ctx)
}
