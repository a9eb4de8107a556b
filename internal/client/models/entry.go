// Package models defines the diary entry types and the pending-action
// records used by the offline sync queue.
package models

import (
	"time"

	"github.com/avasilenko/snapdiary/internal/common"
)

// Mood classifies the feeling attached to an entry. The set is closed;
// the form UI offers exactly these values.
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodCalm    Mood = "calm"
	MoodExcited Mood = "excited"
	MoodTired   Mood = "tired"
	MoodSad     Mood = "sad"
	MoodAnxious Mood = "anxious"
	MoodLoved   Mood = "loved"
	MoodAngry   Mood = "angry"
)

// Moods lists every valid mood, in the order the entry form shows them.
var Moods = []Mood{
	MoodHappy, MoodCalm, MoodExcited, MoodTired,
	MoodSad, MoodAnxious, MoodLoved, MoodAngry,
}

// Valid reports whether m is one of the known moods.
func (m Mood) Valid() bool {
	for _, known := range Moods {
		if m == known {
			return true
		}
	}
	return false
}

// Location is an optional geodetic point attached to an entry. Coordinates
// are WGS-84; any map-projection transform happens at the rendering
// boundary, never here.
type Location struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Name string  `json:"name,omitempty"`
}

// Comment is a remark left on a shared entry.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// DiaryEntry is the user-visible unit of record.
//
// The ID is assigned client-side at creation time and stays stable for the
// entry's lifetime; an entry without an ID never enters the local store.
// Tags (user-entered) and AITags (machine-suggested) are independent sets
// and are never merged.
type DiaryEntry struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	Photo    string    `json:"photo"`
	Caption  string    `json:"caption"`
	Mood     Mood      `json:"mood"`
	Location *Location `json:"location,omitempty"`
	Tags     []string  `json:"tags,omitempty"`
	AITags   []string  `json:"aiTags,omitempty"`
	Palette  []string  `json:"palette,omitempty"`

	// GroupIDs records which sharing targets this entry was published to.
	// The canonical identity of the entry is still its private-scope record.
	GroupIDs []string  `json:"groupIds,omitempty"`
	Likes    []string  `json:"likes,omitempty"`
	Comments []Comment `json:"comments,omitempty"`

	UserID     string `json:"userId,omitempty"`
	UserName   string `json:"userName,omitempty"`
	UserAvatar string `json:"userAvatar,omitempty"`
}

// Validate checks the invariants required before an entry may be stored.
func (e *DiaryEntry) Validate() error {
	if e.ID == "" {
		return common.ErrMissingID
	}
	if !e.Mood.Valid() {
		return common.ErrInvalidMood
	}
	return nil
}

// EntryPatch is a partial update of an entry's mutable fields. Nil fields
// are left untouched by the receiver.
type EntryPatch struct {
	Date     *time.Time `json:"date,omitempty"`
	Photo    *string    `json:"photo,omitempty"`
	Caption  *string    `json:"caption,omitempty"`
	Mood     *Mood      `json:"mood,omitempty"`
	Location *Location  `json:"location,omitempty"`
	Tags     *[]string  `json:"tags,omitempty"`
	AITags   *[]string  `json:"aiTags,omitempty"`
	Palette  *[]string  `json:"palette,omitempty"`
	Likes    *[]string  `json:"likes,omitempty"`
	Comments *[]Comment `json:"comments,omitempty"`
}

// PatchFrom builds the patch that carries every mutable field of e.
// Updates always ship the full field set rather than a diff.
func PatchFrom(e *DiaryEntry) EntryPatch {
	date := e.Date
	return EntryPatch{
		Date:     &date,
		Photo:    &e.Photo,
		Caption:  &e.Caption,
		Mood:     &e.Mood,
		Location: e.Location,
		Tags:     &e.Tags,
		AITags:   &e.AITags,
		Palette:  &e.Palette,
		Likes:    &e.Likes,
		Comments: &e.Comments,
	}
}

// Apply overlays the non-nil patch fields onto e.
func (p EntryPatch) Apply(e *DiaryEntry) {
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Photo != nil {
		e.Photo = *p.Photo
	}
	if p.Caption != nil {
		e.Caption = *p.Caption
	}
	if p.Mood != nil {
		e.Mood = *p.Mood
	}
	if p.Location != nil {
		e.Location = p.Location
	}
	if p.Tags != nil {
		e.Tags = *p.Tags
	}
	if p.AITags != nil {
		e.AITags = *p.AITags
	}
	if p.Palette != nil {
		e.Palette = *p.Palette
	}
	if p.Likes != nil {
		e.Likes = *p.Likes
	}
	if p.Comments != nil {
		e.Comments = *p.Comments
	}
}
