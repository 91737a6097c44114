package services

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"jobbook/internal/calendar"
	"jobbook/internal/identity"
	"jobbook/internal/models"
	"jobbook/internal/store"
)

// AddDialog is the one open "add item" modal, if any. At most one is open
// per user at a time; opening a new one replaces it.
type AddDialog struct {
	DateKey string `json:"dateKey"`
	Title   string `json:"title"`
}

// DayCell is one grid cell with its bucketed items, ready for rendering.
type DayCell struct {
	DateKey string                `json:"dateKey"`
	InMonth bool                  `json:"inMonth"`
	Today   bool                  `json:"today"`
	Items   []models.CalendarItem `json:"items"`
}

// ScheduleView is the controller state exposed to the UI layer.
type ScheduleView struct {
	MonthLabel string            `json:"monthLabel"`
	Selected   models.ActionType `json:"selectedType"`
	Cells      []DayCell         `json:"cells"`
	Dialog     *AddDialog        `json:"dialog,omitempty"`
	ItemCount  int               `json:"itemCount"`
}

type scheduleState struct {
	viewDate time.Time
	selected models.ActionType
	items    []models.CalendarItem
	dialog   *AddDialog
}

// ScheduleService drives the monthly calendar per user. It owns the
// authoritative in-memory item list; every mutation produces a new list
// followed by a wholesale persist of the complete list.
type ScheduleService struct {
	mu     sync.Mutex
	store  *store.RecordStore
	now    func() time.Time
	newID  func() string
	states map[string]*scheduleState
}

func NewScheduleService(records *store.RecordStore) *ScheduleService {
	return &ScheduleService{
		store:  records,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
		states: make(map[string]*scheduleState),
	}
}

// View returns the rendered month for the identity's current view state.
func (s *ScheduleService) View(id identity.Snapshot) (ScheduleView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.state(id)
	if err != nil {
		return ScheduleView{}, err
	}
	return s.render(st), nil
}

// NavigateMonth moves the displayed month: "prev", "next", or "today".
// View-state only; storage is untouched.
func (s *ScheduleService) NavigateMonth(id identity.Snapshot, direction string) (ScheduleView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.state(id)
	if err != nil {
		return ScheduleView{}, err
	}
	switch direction {
	case "prev":
		st.viewDate = calendar.AddMonths(st.viewDate, -1)
	case "next":
		st.viewDate = calendar.AddMonths(st.viewDate, 1)
	case "today":
		st.viewDate = calendar.AddMonths(s.now(), 0)
	default:
		return ScheduleView{}, ErrBadDirection
	}
	return s.render(st), nil
}

// SelectType changes the action type used for subsequent additions.
func (s *ScheduleService) SelectType(id identity.Snapshot, typ string) (ScheduleView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.state(id)
	if err != nil {
		return ScheduleView{}, err
	}
	t, ok := models.ParseActionType(typ)
	if !ok {
		return ScheduleView{}, ErrUnknownType
	}
	st.selected = t
	return s.render(st), nil
}

// OpenDialog opens the add-item modal for a day with an empty draft
// title, replacing any modal already open.
func (s *ScheduleService) OpenDialog(id identity.Snapshot, dateKey string) (ScheduleView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.state(id)
	if err != nil {
		return ScheduleView{}, err
	}
	if _, perr := time.Parse("2006-01-02", dateKey); perr != nil {
		return ScheduleView{}, ErrBadDateKey
	}
	st.dialog = &AddDialog{DateKey: dateKey}
	return s.render(st), nil
}

// CloseDialog dismisses the add-item modal without adding anything.
func (s *ScheduleService) CloseDialog(id identity.Snapshot) (ScheduleView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.state(id)
	if err != nil {
		return ScheduleView{}, err
	}
	st.dialog = nil
	return s.render(st), nil
}

// AddItem creates a calendar item on the open dialog's day. A blank title
// falls back to the selected type's default. The new item is prepended
// and the complete list re-saved; there is no delta persistence.
func (s *ScheduleService) AddItem(id identity.Snapshot, title string) (ScheduleView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.state(id)
	if err != nil {
		return ScheduleView{}, err
	}
	if st.dialog == nil {
		return ScheduleView{}, ErrNoOpenDialog
	}

	final := strings.TrimSpace(title)
	if final == "" {
		final = st.selected.DefaultTitle()
	}
	item := models.CalendarItem{
		ID:        s.newID(),
		DateKey:   st.dialog.DateKey,
		Type:      st.selected,
		Title:     final,
		CreatedAt: s.now().UnixMilli(),
	}
	st.items = append([]models.CalendarItem{item}, st.items...)
	st.dialog = nil
	s.store.SaveItems(id.UserID, st.items)
	return s.render(st), nil
}

// DeleteItem removes the item with the given id, if present, and
// re-saves the complete list.
func (s *ScheduleService) DeleteItem(id identity.Snapshot, itemID string) (ScheduleView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.state(id)
	if err != nil {
		return ScheduleView{}, err
	}
	kept := st.items[:0:0]
	for _, it := range st.items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	if kept == nil {
		kept = []models.CalendarItem{}
	}
	st.items = kept
	s.store.SaveItems(id.UserID, st.items)
	return s.render(st), nil
}

// ClearAll empties the user's schedule. The confirm flag must be set:
// this is an irrecoverable bulk delete. The stored record is removed
// outright rather than overwritten with an empty list; both leave the
// same observable "no data" state.
func (s *ScheduleService) ClearAll(id identity.Snapshot, confirm bool) (ScheduleView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.state(id)
	if err != nil {
		return ScheduleView{}, err
	}
	if !confirm {
		return ScheduleView{}, ErrConfirmRequired
	}
	st.items = []models.CalendarItem{}
	s.store.ClearItems(id.UserID)
	return s.render(st), nil
}

// Items returns a copy of the user's current item list.
func (s *ScheduleService) Items(id identity.Snapshot) ([]models.CalendarItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.state(id)
	if err != nil {
		return nil, err
	}
	out := make([]models.CalendarItem, len(st.items))
	copy(out, st.items)
	return out, nil
}

// state returns the per-user schedule, creating it on the first ready
// sighting. The stored list is read once here, not polled; afterwards
// the in-memory list is authoritative.
func (s *ScheduleService) state(id identity.Snapshot) (*scheduleState, error) {
	if !id.Ready {
		return nil, ErrIdentityNotReady
	}
	if st, ok := s.states[id.UserID]; ok {
		return st, nil
	}
	st := &scheduleState{
		viewDate: calendar.AddMonths(s.now(), 0),
		selected: models.ActionInspection,
		items:    s.store.LoadItems(id.UserID),
	}
	s.states[id.UserID] = st
	return st, nil
}

func (s *ScheduleService) render(st *scheduleState) ScheduleView {
	buckets := calendar.BucketByDay(st.items)
	grid := calendar.BuildGrid(st.viewDate)

	cells := make([]DayCell, 0, len(grid))
	for _, cell := range grid {
		items := buckets[cell.DateKey]
		if items == nil {
			items = []models.CalendarItem{}
		}
		cells = append(cells, DayCell{
			DateKey: cell.DateKey,
			InMonth: cell.InMonth,
			Today:   calendar.IsToday(cell.Date),
			Items:   items,
		})
	}
	return ScheduleView{
		MonthLabel: calendar.MonthLabel(st.viewDate),
		Selected:   st.selected,
		Cells:      cells,
		Dialog:     st.dialog,
		ItemCount:  len(st.items),
	}
}
