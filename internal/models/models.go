package models

// ActionType classifies a scheduled job action.
type ActionType string

const (
	ActionInspection ActionType = "Inspection"
	ActionInstall    ActionType = "Install"
	ActionRepair     ActionType = "Repair"
	ActionPhoneCall  ActionType = "Phone Call"
	ActionFollowUp   ActionType = "Follow-up"
	ActionInvoice    ActionType = "Invoice"
	ActionOther      ActionType = "Other"
)

// ActionTypes lists every valid action type in display order.
var ActionTypes = []ActionType{
	ActionInspection,
	ActionInstall,
	ActionRepair,
	ActionPhoneCall,
	ActionFollowUp,
	ActionInvoice,
	ActionOther,
}

// ParseActionType maps a string onto the closed action-type set.
func ParseActionType(s string) (ActionType, bool) {
	t := ActionType(s)
	return t, t.Valid()
}

// Valid reports whether t is a member of the closed action-type set.
func (t ActionType) Valid() bool {
	switch t {
	case ActionInspection, ActionInstall, ActionRepair, ActionPhoneCall,
		ActionFollowUp, ActionInvoice, ActionOther:
		return true
	}
	return false
}

// Label returns the user-facing name of the action type.
func (t ActionType) Label() string {
	return string(t)
}

// DefaultTitle returns the title used for an item added with a blank
// title. Phone calls default to "Client call"; every other type uses its
// own label.
func (t ActionType) DefaultTitle() string {
	if t == ActionPhoneCall {
		return "Client call"
	}
	return t.Label()
}

// Intake is the singleton per-user profile record collected during
// onboarding. Saving replaces the whole record; there is no partial merge.
type Intake struct {
	FullName    string `json:"fullName"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Notes       string `json:"notes,omitempty"`
	CompletedAt int64  `json:"completedAt"` // epoch milliseconds, stamped at save time
}

// CalendarItem is one scheduled job action tied to a single day.
type CalendarItem struct {
	ID        string     `json:"id"`
	DateKey   string     `json:"dateKey"` // YYYY-MM-DD, local calendar day
	Type      ActionType `json:"type"`
	Title     string     `json:"title"`
	CreatedAt int64      `json:"createdAt"` // epoch milliseconds, immutable
}
