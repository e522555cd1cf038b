package matches

import "time"

// Match is a single in-game round within a slot. POVCount and Players are
// derived at read time from the POV subcollection.
type Match struct {
	ID          string   `json:"id" msgpack:"id"`
	SlotID      string   `json:"slotId" msgpack:"slotId"`
	MatchNumber int      `json:"matchNumber" msgpack:"matchNumber"`
	MapName     string   `json:"mapName" msgpack:"-"`
	Description string   `json:"description,omitempty" msgpack:"description"`
	CreatedAt   string   `json:"createdAt" msgpack:"createdAt"`
	POVCount    int      `json:"povCount" msgpack:"-"`
	Players     []string `json:"players" msgpack:"-"`
}

type matchDoc struct {
	MatchNumber int       `firestore:"matchNumber"`
	Description string    `firestore:"description"`
	CreatedAt   time.Time `firestore:"createdAt"`
}

type CreateMatchRequest struct {
	MatchNumber int    `json:"matchNumber"`
	Description string `json:"description"`
}

// UpdateMatchRequest carries a partial update; nil fields stay untouched.
type UpdateMatchRequest struct {
	MatchNumber *int    `json:"matchNumber"`
	Description *string `json:"description"`
}
