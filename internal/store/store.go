package store

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"jobbook/internal/models"
)

const (
	namespace     = "jobbook"
	kindIntake    = "intake"
	kindCalendar  = "calendar"
	schemaVersion = "v1"
)

// Key builds the storage key for a record kind and user. The layout
// {ns}:{kind}:{version}:{userID} lets a future schema change bump the
// version segment without colliding with old data.
func Key(kind, userID string) string {
	return strings.Join([]string{namespace, kind, schemaVersion, userID}, ":")
}

// IntakeKey returns the storage key for a user's intake record.
func IntakeKey(userID string) string { return Key(kindIntake, userID) }

// CalendarKey returns the storage key for a user's calendar item list.
func CalendarKey(userID string) string { return Key(kindCalendar, userID) }

// RecordStore persists the two per-user record kinds over a KV medium.
// Every failure mode degrades to "no data": persistence is a convenience
// layer here, never a reason to surface an error to the UI. Loads treat
// corrupt or mis-shaped payloads as absent; saves and clears are
// best-effort and swallow failures after logging them.
type RecordStore struct {
	kv     KV
	logger *zap.Logger
}

func NewRecordStore(kv KV, logger *zap.Logger) *RecordStore {
	return &RecordStore{kv: kv, logger: logger}
}

// LoadIntake returns the stored intake for the user, or nil when nothing
// usable is stored.
func (s *RecordStore) LoadIntake(userID string) *models.Intake {
	raw, ok := s.get(IntakeKey(userID), userID)
	if !ok {
		return nil
	}
	var in models.Intake
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		s.logger.Warn("discarding corrupt intake record",
			zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	if !validIntake(in) {
		s.logger.Warn("discarding mis-shaped intake record",
			zap.String("user_id", userID))
		return nil
	}
	return &in
}

// SaveIntake replaces the user's intake record wholesale.
func (s *RecordStore) SaveIntake(userID string, in models.Intake) {
	s.set(IntakeKey(userID), userID, in)
}

// ClearIntake removes the user's intake record.
func (s *RecordStore) ClearIntake(userID string) {
	s.delete(IntakeKey(userID), userID)
}

// LoadItems returns the user's full calendar item list, or an empty list
// when nothing usable is stored.
func (s *RecordStore) LoadItems(userID string) []models.CalendarItem {
	raw, ok := s.get(CalendarKey(userID), userID)
	if !ok {
		return []models.CalendarItem{}
	}
	var items []models.CalendarItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn("discarding corrupt calendar record",
			zap.String("user_id", userID), zap.Error(err))
		return []models.CalendarItem{}
	}
	for _, it := range items {
		if !validItem(it) {
			s.logger.Warn("discarding mis-shaped calendar record",
				zap.String("user_id", userID), zap.String("item_id", it.ID))
			return []models.CalendarItem{}
		}
	}
	if items == nil {
		items = []models.CalendarItem{}
	}
	return items
}

// SaveItems replaces the user's full calendar item list. The store always
// holds the complete current list, not a diff log.
func (s *RecordStore) SaveItems(userID string, items []models.CalendarItem) {
	if items == nil {
		items = []models.CalendarItem{}
	}
	s.set(CalendarKey(userID), userID, items)
}

// ClearItems removes the user's calendar item list entirely. Observably
// equivalent to saving an empty list.
func (s *RecordStore) ClearItems(userID string) {
	s.delete(CalendarKey(userID), userID)
}

func (s *RecordStore) get(key, userID string) (string, bool) {
	raw, err := s.kv.Get(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("record load failed",
				zap.String("key", key), zap.String("user_id", userID), zap.Error(err))
		}
		return "", false
	}
	return raw, true
}

func (s *RecordStore) set(key, userID string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn("record encode failed",
			zap.String("key", key), zap.String("user_id", userID), zap.Error(err))
		return
	}
	if err := s.kv.Set(key, string(data)); err != nil {
		s.logger.Warn("record save failed",
			zap.String("key", key), zap.String("user_id", userID), zap.Error(err))
	}
}

func (s *RecordStore) delete(key, userID string) {
	if err := s.kv.Delete(key); err != nil {
		s.logger.Warn("record clear failed",
			zap.String("key", key), zap.String("user_id", userID), zap.Error(err))
	}
}

// validIntake rejects payloads missing the required fields. Only
// validated submissions ever reach the store, so a record without them is
// a shape mismatch, not user data.
func validIntake(in models.Intake) bool {
	return strings.TrimSpace(in.FullName) != "" &&
		strings.TrimSpace(in.Phone) != "" &&
		strings.TrimSpace(in.Address) != ""
}

// validItem rejects items whose tagged fields do not match the schema.
func validItem(it models.CalendarItem) bool {
	if it.ID == "" || it.Title == "" || it.CreatedAt <= 0 {
		return false
	}
	if !it.Type.Valid() {
		return false
	}
	_, err := time.Parse("2006-01-02", it.DateKey)
	return err == nil
}
