package comments

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/charmbracelet/log"

	"github.com/eclipse-gg/pov-archive/pkg/ident"
	"github.com/eclipse-gg/pov-archive/pkg/metrics"
	"github.com/eclipse-gg/pov-archive/repos/docstore"
	"github.com/eclipse-gg/pov-archive/repos/mirror"
)

const fixedAuthor = "Anonymous"

type CommentsService struct {
	store  docstore.Store
	mirror *mirror.Store
	ids    ident.Generator
}

func NewCommentsService(store docstore.Store, mirrorStore *mirror.Store, ids ident.Generator) *CommentsService {
	return &CommentsService{
		store:  store,
		mirror: mirrorStore,
		ids:    ids,
	}
}

// The mirror keys comments by the composite slot/match/pov scope.
func (s *CommentsService) localComments() map[string][]Comment {
	out := map[string][]Comment{}
	s.mirror.Read(mirror.CommentsKey, &out)
	return out
}

func scopeKey(slotID, matchID, povID string) string {
	return slotID + "/" + matchID + "/" + povID
}

// Add writes the comment to the mirror first, then attempts the remote
// insert. The mirror record is returned either way.
func (s *CommentsService) Add(ctx context.Context, slotID, matchID, povID, text string) Comment {
	comment := Comment{
		ID:        s.ids.NewID(),
		Text:      text,
		Author:    fixedAuthor,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	byScope := s.localComments()
	key := scopeKey(slotID, matchID, povID)
	byScope[key] = append(byScope[key], comment)
	s.mirror.Write(mirror.CommentsKey, byScope)

	if !s.store.Available() {
		return comment
	}

	_, err := s.store.Add(ctx, s.store.Collection("slots", slotID, "matches", matchID, "povs", povID, "comments"), map[string]any{
		"text":      text,
		"author":    fixedAuthor,
		"createdAt": firestore.ServerTimestamp,
	})
	if err != nil {
		log.Warn("Comment creation failed remotely, keeping local fallback", "pov", povID, "error", err)
		metrics.RemoteFailures.WithLabelValues("comment", "create").Inc()
	}
	return comment
}

// Get lists a POV's comments newest first, falling back to the mirror on
// any remote error.
func (s *CommentsService) Get(ctx context.Context, slotID, matchID, povID string) []Comment {
	if !s.store.Available() {
		metrics.FallbackReads.WithLabelValues("comment").Inc()
		return s.localSorted(slotID, matchID, povID)
	}

	docs, err := s.store.GetAll(ctx, s.store.Collection("slots", slotID, "matches", matchID, "povs", povID, "comments").OrderBy("createdAt", firestore.Desc))
	if err != nil {
		log.Warn("Comment fetch failed, using mirror", "pov", povID, "error", err)
		metrics.RemoteFailures.WithLabelValues("comment", "list").Inc()
		metrics.FallbackReads.WithLabelValues("comment").Inc()
		return s.localSorted(slotID, matchID, povID)
	}

	list := make([]Comment, 0, len(docs))
	for _, doc := range docs {
		comment, err := docToComment(doc)
		if err != nil {
			log.Warn("Comment decode failed, using mirror", "pov", povID, "error", err)
			metrics.FallbackReads.WithLabelValues("comment").Inc()
			return s.localSorted(slotID, matchID, povID)
		}
		list = append(list, comment)
	}
	return list
}

func (s *CommentsService) localSorted(slotID, matchID, povID string) []Comment {
	list := s.localComments()[scopeKey(slotID, matchID, povID)]
	if list == nil {
		list = []Comment{}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt > list[j].CreatedAt
	})
	return list
}

func docToComment(doc *firestore.DocumentSnapshot) (Comment, error) {
	var d commentDoc
	if err := doc.DataTo(&d); err != nil {
		return Comment{}, fmt.Errorf(
			"consistency error. Converting %+v to internal comment struct failed: %w",
			doc,
			err,
		)
	}

	return Comment{
		ID:        doc.Ref.ID,
		Text:      d.Text,
		Author:    d.Author,
		CreatedAt: d.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}
