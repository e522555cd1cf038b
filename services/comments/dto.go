package comments

import "time"

// Comment belongs to exactly one POV, addressed by the full hierarchy path.
// The author is fixed; there are no user accounts.
type Comment struct {
	ID        string `json:"id" msgpack:"id"`
	Text      string `json:"text" msgpack:"text"`
	Author    string `json:"author" msgpack:"author"`
	CreatedAt string `json:"createdAt" msgpack:"createdAt"`
}

type commentDoc struct {
	Text      string    `firestore:"text"`
	Author    string    `firestore:"author"`
	CreatedAt time.Time `firestore:"createdAt"`
}

type AddCommentRequest struct {
	Text string `json:"text"`
}
