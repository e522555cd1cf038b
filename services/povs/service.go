package povs

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

type POVService struct {
	store  docstore.Store
	mirror *mirror.Store
	ids    ident.Generator
}

func NewPOVService(store docstore.Store, mirrorStore *mirror.Store, ids ident.Generator) *POVService {
	return &POVService{
		store:  store,
		mirror: mirrorStore,
		ids:    ids,
	}
}

// The mirror keys POVs by a composite slot/match scope.
func (s *POVService) localPOVs() map[string][]POV {
	out := map[string][]POV{}
	s.mirror.Read(mirror.POVsKey, &out)
	return out
}

func (s *POVService) saveLocalPOVs(byMatch map[string][]POV) {
	s.mirror.Write(mirror.POVsKey, byMatch)
}

func scopeKey(slotID, matchID string) string {
	return slotID + "/" + matchID
}

// Create writes the POV to the mirror first, then attempts the remote
// insert. The caller has already validated the fields and resolved the
// video ID.
func (s *POVService) Create(ctx context.Context, slotID, matchID string, req CreatePOVRequest) POV {
	local := POV{
		ID:         s.ids.NewID(),
		SlotID:     slotID,
		MatchID:    matchID,
		PlayerName: req.PlayerName,
		Title:      req.Title,
		Date:       req.Date,
		VideoID:    req.VideoID,
		YouTubeURL: req.YouTubeURL,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	byMatch := s.localPOVs()
	key := scopeKey(slotID, matchID)
	byMatch[key] = append(byMatch[key], local)
	s.saveLocalPOVs(byMatch)

	if !s.store.Available() {
		return local
	}

	ref, err := s.store.Add(ctx, s.store.Collection("slots", slotID, "matches", matchID, "povs"), map[string]any{
		"playerName": req.PlayerName,
		"title":      req.Title,
		"date":       req.Date,
		"videoId":    req.VideoID,
		"youtubeUrl": req.YouTubeURL,
		"createdAt":  firestore.ServerTimestamp,
	})
	if err != nil {
		log.Warn("POV creation failed remotely, keeping local fallback", "slot", slotID, "match", matchID, "error", err)
		metrics.RemoteFailures.WithLabelValues("pov", "create").Inc()
		return local
	}

	remote := local
	remote.ID = ref.ID
	return remote
}

// GetByMatch lists the POVs of one match newest first. Remote errors degrade
// to the mirror scoped to exactly this slot/match pair.
func (s *POVService) GetByMatch(ctx context.Context, slotID, matchID string) []POV {
	if !s.store.Available() {
		metrics.FallbackReads.WithLabelValues("pov").Inc()
		return s.localByMatch(slotID, matchID)
	}

	docs, err := s.store.GetAll(ctx, s.store.Collection("slots", slotID, "matches", matchID, "povs").OrderBy("createdAt", firestore.Desc))
	if err != nil {
		log.Warn("POV fetch failed, using mirror", "slot", slotID, "match", matchID, "error", err)
		metrics.RemoteFailures.WithLabelValues("pov", "list").Inc()
		metrics.FallbackReads.WithLabelValues("pov").Inc()
		return s.localByMatch(slotID, matchID)
	}

	list := make([]POV, 0, len(docs))
	for _, doc := range docs {
		pov, err := docToPOV(doc, slotID, matchID)
		if err != nil {
			log.Warn("POV decode failed, using mirror", "slot", slotID, "match", matchID, "error", err)
			metrics.FallbackReads.WithLabelValues("pov").Inc()
			return s.localByMatch(slotID, matchID)
		}
		list = append(list, pov)
	}
	return list
}

// Delete removes the POV from the mirror, then remotely deletes the POV and
// its comments in one batch.
func (s *POVService) Delete(ctx context.Context, slotID, matchID, povID string) {
	byMatch := s.localPOVs()
	key := scopeKey(slotID, matchID)
	kept := byMatch[key][:0]
	for _, pov := range byMatch[key] {
		if pov.ID != povID {
			kept = append(kept, pov)
		}
	}
	byMatch[key] = kept
	s.saveLocalPOVs(byMatch)
	s.dropLocalComments(slotID, matchID, povID)

	if !s.store.Available() {
		return
	}

	if err := s.deleteRemote(ctx, slotID, matchID, povID); err != nil {
		log.Warn("POV delete failed remotely", "slot", slotID, "match", matchID, "pov", povID, "error", err)
		metrics.RemoteFailures.WithLabelValues("pov", "delete").Inc()
	}
}

// DeleteBulk removes a selection of POVs across matches one by one, each
// with the usual mirror-first semantics. There is no atomicity across the
// selection; a remote failure on one entry does not stop the rest.
func (s *POVService) DeleteBulk(ctx context.Context, refs []POVRef) int {
	for _, ref := range refs {
		s.Delete(ctx, ref.SlotID, ref.MatchID, ref.ID)
	}
	return len(refs)
}

func (s *POVService) deleteRemote(ctx context.Context, slotID, matchID, povID string) error {
	commentDocs, err := s.store.GetAll(ctx, s.store.Collection("slots", slotID, "matches", matchID, "povs", povID, "comments").Query)
	if err != nil {
		return err
	}

	batch := s.store.Batch()
	for _, commentDoc := range commentDocs {
		batch.Delete(commentDoc.Ref)
	}
	batch.Delete(s.store.Doc("slots", slotID, "matches", matchID, "povs", povID))

	return s.store.CommitBatch(ctx, batch)
}

func (s *POVService) dropLocalComments(slotID, matchID, povID string) {
	var byScope map[string][]map[string]any
	s.mirror.Read(mirror.CommentsKey, &byScope)
	if byScope == nil {
		return
	}
	delete(byScope, slotID+"/"+matchID+"/"+povID)
	s.mirror.Write(mirror.CommentsKey, byScope)
}

// GetAllFlattened walks every slot, every match, every POV and returns a
// flat list sorted descending by creation time. No pagination; the archive
// is small. Any failure returns the flattened mirror sorted the same way.
func (s *POVService) GetAllFlattened(ctx context.Context) []POV {
	if !s.store.Available() {
		metrics.FallbackReads.WithLabelValues("pov").Inc()
		return s.localFlattened()
	}

	list, err := s.remoteFlattened(ctx)
	if err != nil {
		log.Warn("Hierarchy walk failed, using mirror", "error", err)
		metrics.RemoteFailures.WithLabelValues("pov", "flatten").Inc()
		metrics.FallbackReads.WithLabelValues("pov").Inc()
		return s.localFlattened()
	}
	return list
}

func (s *POVService) remoteFlattened(ctx context.Context) ([]POV, error) {
	slotDocs, err := s.store.GetAll(ctx, s.store.Collection("slots").Query)
	if err != nil {
		return nil, err
	}

	list := []POV{}
	for _, slotDoc := range slotDocs {
		matchDocs, err := s.store.GetAll(ctx, s.store.Collection("slots", slotDoc.Ref.ID, "matches").Query)
		if err != nil {
			return nil, err
		}
		for _, matchDoc := range matchDocs {
			povDocs, err := s.store.GetAll(ctx, s.store.Collection("slots", slotDoc.Ref.ID, "matches", matchDoc.Ref.ID, "povs").Query)
			if err != nil {
				return nil, err
			}
			for _, povDoc := range povDocs {
				pov, err := docToPOV(povDoc, slotDoc.Ref.ID, matchDoc.Ref.ID)
				if err != nil {
					return nil, err
				}
				list = append(list, pov)
			}
		}
	}

	sortByCreatedDesc(list)
	return list, nil
}

func (s *POVService) localByMatch(slotID, matchID string) []POV {
	list := s.localPOVs()[scopeKey(slotID, matchID)]
	if list == nil {
		list = []POV{}
	}
	return list
}

func (s *POVService) localFlattened() []POV {
	list := []POV{}
	for _, scoped := range s.localPOVs() {
		list = append(list, scoped...)
	}
	sortByCreatedDesc(list)
	return list
}

func sortByCreatedDesc(list []POV) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt > list[j].CreatedAt
	})
}

// GetAllPlayers returns the distinct player names across the archive,
// sorted ascending.
func (s *POVService) GetAllPlayers(ctx context.Context) []string {
	seen := map[string]bool{}
	players := []string{}
	for _, pov := range s.GetAllFlattened(ctx) {
		if !seen[pov.PlayerName] {
			seen[pov.PlayerName] = true
			players = append(players, pov.PlayerName)
		}
	}
	sort.Strings(players)
	return players
}

// GetByPlayer returns every POV of one player, newest first.
func (s *POVService) GetByPlayer(ctx context.Context, playerName string) []POV {
	list := []POV{}
	for _, pov := range s.GetAllFlattened(ctx) {
		if pov.PlayerName == playerName {
			list = append(list, pov)
		}
	}
	return list
}

func docToPOV(doc *firestore.DocumentSnapshot, slotID, matchID string) (POV, error) {
	var d povDoc
	if err := doc.DataTo(&d); err != nil {
		// If this fails, we have an inconsistency error as we control both the data written to
		// Firestore and the shape of our document struct.
		return POV{}, fmt.Errorf(
			"consistency error. Converting %+v to internal pov struct failed: %w",
			doc,
			err,
		)
	}

	return POV{
		ID:         doc.Ref.ID,
		SlotID:     slotID,
		MatchID:    matchID,
		PlayerName: d.PlayerName,
		Title:      d.Title,
		Date:       d.Date,
		VideoID:    d.VideoID,
		YouTubeURL: d.YouTubeURL,
		CreatedAt:  d.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}
