package slots

import "time"

// Slot is a top-level named container for an event/session. MatchCount and
// POVCount are derived at read time by walking the child collections; they
// are never stored and never trusted across calls.
type Slot struct {
	ID          string `json:"id" msgpack:"id"`
	Name        string `json:"name" msgpack:"name"`
	Description string `json:"description,omitempty" msgpack:"description"`
	Date        string `json:"date" msgpack:"date"`
	CreatedAt   string `json:"createdAt" msgpack:"createdAt"`
	MatchCount  int    `json:"matchCount" msgpack:"-"`
	POVCount    int    `json:"povCount" msgpack:"-"`
}

// slotDoc is the Firestore shape of a slot document.
type slotDoc struct {
	Name        string    `firestore:"name"`
	Description string    `firestore:"description"`
	Date        string    `firestore:"date"`
	CreatedAt   time.Time `firestore:"createdAt"`
}

// CreateSlotRequest is validated at the HTTP boundary; the service trusts it.
type CreateSlotRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

// UpdateSlotRequest carries a partial update; nil fields stay untouched.
type UpdateSlotRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
}
