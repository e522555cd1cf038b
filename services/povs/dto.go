package povs

import "time"

// POV is one player's uploaded recording within a match. The videoId is the
// sole material used to address playback and thumbnails; youtubeUrl is
// advisory only.
type POV struct {
	ID         string `json:"id" msgpack:"id"`
	SlotID     string `json:"slotId" msgpack:"slotId"`
	MatchID    string `json:"matchId" msgpack:"matchId"`
	PlayerName string `json:"playerName" msgpack:"playerName"`
	Title      string `json:"title" msgpack:"title"`
	Date       string `json:"date" msgpack:"date"`
	VideoID    string `json:"videoId" msgpack:"videoId"`
	YouTubeURL string `json:"youtubeUrl" msgpack:"youtubeUrl"`
	CreatedAt  string `json:"createdAt" msgpack:"createdAt"`
}

type povDoc struct {
	PlayerName string    `firestore:"playerName"`
	Title      string    `firestore:"title"`
	Date       string    `firestore:"date"`
	VideoID    string    `firestore:"videoId"`
	YouTubeURL string    `firestore:"youtubeUrl"`
	CreatedAt  time.Time `firestore:"createdAt"`
}

type CreatePOVRequest struct {
	PlayerName string `json:"playerName"`
	Title      string `json:"title"`
	Date       string `json:"date"`
	YouTubeURL string `json:"youtubeUrl"`

	// Resolved from YouTubeURL at the HTTP boundary.
	VideoID string `json:"-"`
}

// POVRef addresses one POV by its full hierarchy path, for bulk operations
// spanning matches.
type POVRef struct {
	SlotID  string `json:"slotId"`
	MatchID string `json:"matchId"`
	ID      string `json:"id"`
}

// Filters holds the query parameters of the flattened listing.
type Filters struct {
	Search   string
	Players  []string
	DateFrom string
	DateTo   string
}
