package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/avasilenko/snapdiary/internal/client/models"
	"github.com/avasilenko/snapdiary/internal/client/repositories/kv"
	"github.com/avasilenko/snapdiary/internal/common"
)

const entryDateLayout = "2006-01-02"

func moodChoices() string {
	names := make([]string, 0, len(models.Moods))
	for _, m := range models.Moods {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}

// Add interactively collects a new diary entry and hands it to the sync
// coordinator. The entry is visible and durable immediately; delivery to
// the server is the coordinator's problem.
func (a *App) Add(ctx context.Context) error {
	photo, err := GetSimpleText(a.reader, "Photo URL", os.Stdout)
	if err != nil {
		return err
	}

	caption, err := GetMultiline(a.reader, "Caption", os.Stdout)
	if err != nil {
		return err
	}

	mood, err := GetSimpleText(a.reader, "Mood ("+moodChoices()+")", os.Stdout)
	if err != nil {
		return err
	}

	dateText, err := GetSimpleText(a.reader, "Date (YYYY-MM-DD, empty for today)", os.Stdout)
	if err != nil {
		return err
	}
	date := time.Now().UTC()
	if dateText != "" {
		date, err = time.Parse(entryDateLayout, dateText)
		if err != nil {
			printlnFn("Invalid date:", err.Error())
			return err
		}
	}

	tags, err := GetCommaSeparated(a.reader, "Tags (comma-separated, optional)", os.Stdout)
	if err != nil {
		return err
	}

	groups, err := GetCommaSeparated(a.reader, "Share with groups (comma-separated ids, empty for private)", os.Stdout)
	if err != nil {
		return err
	}
	targets := append([]string{common.ScopePrivate}, groups...)

	entry := models.DiaryEntry{
		Photo:    photo,
		Caption:  caption,
		Mood:     models.Mood(mood),
		Date:     date,
		Tags:     tags,
		UserName: a.userName,
	}

	if err := a.coordinator.Add(ctx, &entry, targets); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	return nil
}

// Edit updates an existing entry. Empty answers keep the current values.
func (a *App) Edit(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Enter entry id to edit", os.Stdout)
	if err != nil {
		return err
	}

	entry, ok := a.findEntry(id)
	if !ok {
		printlnFn("No entry with id", id)
		return common.ErrNotFound
	}

	caption, err := GetSimpleText(a.reader, "Caption ["+entry.Caption+"]", os.Stdout)
	if err != nil {
		return err
	}
	if caption != "" {
		entry.Caption = caption
	}

	mood, err := GetSimpleText(a.reader, "Mood ["+string(entry.Mood)+"]", os.Stdout)
	if err != nil {
		return err
	}
	if mood != "" {
		entry.Mood = models.Mood(mood)
	}

	if err := a.coordinator.Update(ctx, &entry, entry.GroupIDs); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	return nil
}

func (a *App) findEntry(id string) (models.DiaryEntry, bool) {
	for _, e := range a.coordinator.Snapshot().Entries {
		if e.ID == id {
			return e, true
		}
	}
	return models.DiaryEntry{}, false
}

// List prints the diary newest first: one line per entry.
func (a *App) List(ctx context.Context) error {
	snap := a.coordinator.Snapshot()
	if len(snap.Entries) == 0 {
		printlnFn("No entries yet")
		return nil
	}
	for _, e := range snap.Entries {
		caption := e.Caption
		if len(caption) > 40 {
			caption = caption[:37] + "..."
		}
		printlnFn(fmt.Sprintf("%s  %-8s %-40s %s",
			e.Date.Format(entryDateLayout), e.Mood, caption, e.ID))
	}
	return nil
}

// Show prints a single entry in full.
func (a *App) Show(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Enter entry id to show", os.Stdout)
	if err != nil {
		return err
	}

	entry, ok := a.findEntry(id)
	if !ok {
		printlnFn("No entry with id", id)
		return common.ErrNotFound
	}

	printlnFn("Date:    ", entry.Date.Format(entryDateLayout))
	printlnFn("Mood:    ", string(entry.Mood))
	printlnFn("Photo:   ", entry.Photo)
	printlnFn("Caption: ", entry.Caption)
	if len(entry.Tags) > 0 {
		printlnFn("Tags:    ", strings.Join(entry.Tags, ", "))
	}
	if entry.Location != nil {
		printlnFn("Location:", entry.Location.Name)
	}
	if len(entry.GroupIDs) > 0 {
		printlnFn("Groups:  ", strings.Join(entry.GroupIDs, ", "))
	}
	if len(entry.Likes) > 0 {
		printlnFn("Likes:   ", len(entry.Likes))
	}
	for _, c := range entry.Comments {
		printlnFn(fmt.Sprintf("  %s: %s", c.UserName, c.Text))
	}
	return nil
}

// Delete removes an entry after an id prompt.
func (a *App) Delete(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Enter entry id to delete", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.coordinator.Delete(ctx, id); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	return nil
}

// Refresh force-fetches the diary from the server.
func (a *App) Refresh(ctx context.Context) error {
	if err := a.coordinator.Refresh(ctx); err != nil {
		printlnFn("Refresh failed:", err.Error())
		return err
	}
	printlnFn("Refreshed")
	return nil
}

// Status reports connectivity, the pending-queue badge and the time of the
// last successful reconcile.
func (a *App) Status(ctx context.Context) error {
	snap := a.coordinator.Snapshot()
	if a.watcher.Online() {
		printlnFn("Server:  reachable")
	} else {
		printlnFn("Server:  unreachable")
	}
	printlnFn("Entries: ", len(snap.Entries))
	printlnFn("Pending: ", snap.PendingSyncCount)
	if raw, err := a.repos.KV.Get(ctx, kv.KeyLastSyncAt); err == nil && len(raw) > 0 {
		printlnFn("Last sync:", string(raw))
	} else {
		printlnFn("Last sync: never")
	}
	return nil
}
