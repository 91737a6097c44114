package services

import (
	"strings"
	"sync"
	"time"

	"jobbook/internal/identity"
	"jobbook/internal/models"
	"jobbook/internal/store"
)

// IntakePhase is the observable state of the intake form.
type IntakePhase string

const (
	PhaseLoading IntakePhase = "loading"
	PhaseReady   IntakePhase = "ready"
)

// Validation messages, one per missing required field.
const (
	MsgFullNameRequired = "Full name is required"
	MsgPhoneRequired    = "Phone number is required"
	MsgAddressRequired  = "Address is required"
)

// hubPath is where a completed intake navigates to.
const hubPath = "/hub"

// IntakeDraft mirrors the editable form fields.
type IntakeDraft struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Notes    string `json:"notes"`
}

// IntakeView is the controller state exposed to the UI layer.
type IntakeView struct {
	Phase IntakePhase `json:"phase"`
	Draft IntakeDraft `json:"draft"`
	Error string      `json:"error,omitempty"`
}

type intakeState struct {
	draft  IntakeDraft
	errMsg string
}

// IntakeService drives the intake form per user: load the stored record
// into a draft on the identity-ready transition, validate edits, persist
// on submit. Validation failures are recoverable; the draft is retained
// and only the visible error message changes.
type IntakeService struct {
	mu     sync.Mutex
	store  *store.RecordStore
	now    func() time.Time
	states map[string]*intakeState
}

func NewIntakeService(records *store.RecordStore) *IntakeService {
	return &IntakeService{
		store:  records,
		now:    time.Now,
		states: make(map[string]*intakeState),
	}
}

// State returns the current form state for the identity. While the gate
// is not ready the phase stays loading and storage is never touched.
func (s *IntakeService) State(id identity.Snapshot) IntakeView {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !id.Ready {
		return IntakeView{Phase: PhaseLoading}
	}
	st := s.state(id)
	return IntakeView{Phase: PhaseReady, Draft: st.draft, Error: st.errMsg}
}

// Submit replaces the draft with the submitted fields and attempts to
// persist. On success the completion time is stamped, the record saved
// wholesale, and nav is told to show the hub.
func (s *IntakeService) Submit(id identity.Snapshot, draft IntakeDraft, nav Navigator) (IntakeView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !id.Ready {
		return IntakeView{Phase: PhaseLoading}, ErrIdentityNotReady
	}
	st := s.state(id)
	st.draft = draft

	switch {
	case strings.TrimSpace(draft.FullName) == "":
		st.errMsg = MsgFullNameRequired
	case strings.TrimSpace(draft.Phone) == "":
		st.errMsg = MsgPhoneRequired
	case strings.TrimSpace(draft.Address) == "":
		st.errMsg = MsgAddressRequired
	default:
		st.errMsg = ""
	}
	if st.errMsg != "" {
		return IntakeView{Phase: PhaseReady, Draft: st.draft, Error: st.errMsg}, nil
	}

	s.store.SaveIntake(id.UserID, models.Intake{
		FullName:    draft.FullName,
		Phone:       draft.Phone,
		Address:     draft.Address,
		Notes:       draft.Notes,
		CompletedAt: s.now().UnixMilli(),
	})
	if nav != nil {
		nav.NavigateTo(hubPath)
	}
	return IntakeView{Phase: PhaseReady, Draft: st.draft}, nil
}

// Clear destroys the stored intake and forgets the draft, so the next
// State call re-derives a fresh one.
func (s *IntakeService) Clear(id identity.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !id.Ready {
		return ErrIdentityNotReady
	}
	s.store.ClearIntake(id.UserID)
	delete(s.states, id.UserID)
	return nil
}

// state returns the per-user draft, creating it on the first ready
// sighting: from the stored record when one exists, otherwise pre-filled
// with the identity's display name.
func (s *IntakeService) state(id identity.Snapshot) *intakeState {
	if st, ok := s.states[id.UserID]; ok {
		return st
	}
	st := &intakeState{}
	if in := s.store.LoadIntake(id.UserID); in != nil {
		st.draft = IntakeDraft{
			FullName: in.FullName,
			Phone:    in.Phone,
			Address:  in.Address,
			Notes:    in.Notes,
		}
	} else {
		st.draft.FullName = id.DisplayName
	}
	s.states[id.UserID] = st
	return st
}
