package matches

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/charmbracelet/log"
	"golang.org/x/xerrors"

	"github.com/eclipse-gg/pov-archive/pkg/gamemap"
	"github.com/eclipse-gg/pov-archive/pkg/ident"
	"github.com/eclipse-gg/pov-archive/pkg/metrics"
	"github.com/eclipse-gg/pov-archive/repos/docstore"
	"github.com/eclipse-gg/pov-archive/repos/mirror"
)

type MatchesService struct {
	store  docstore.Store
	mirror *mirror.Store
	ids    ident.Generator
}

func NewMatchesService(store docstore.Store, mirrorStore *mirror.Store, ids ident.Generator) *MatchesService {
	return &MatchesService{
		store:  store,
		mirror: mirrorStore,
		ids:    ids,
	}
}

// The mirror keys matches per owning slot.
func (s *MatchesService) localMatches() map[string][]Match {
	out := map[string][]Match{}
	s.mirror.Read(mirror.MatchesKey, &out)
	return out
}

func (s *MatchesService) saveLocalMatches(byslot map[string][]Match) {
	s.mirror.Write(mirror.MatchesKey, byslot)
}

// Create writes the match to the mirror first, then attempts the remote
// insert. matchNumber is never validated against the map table.
func (s *MatchesService) Create(ctx context.Context, slotID string, req CreateMatchRequest) Match {
	local := Match{
		ID:          s.ids.NewID(),
		SlotID:      slotID,
		MatchNumber: req.MatchNumber,
		MapName:     gamemap.Name(req.MatchNumber),
		Description: req.Description,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	byslot := s.localMatches()
	byslot[slotID] = append(byslot[slotID], local)
	s.saveLocalMatches(byslot)

	if !s.store.Available() {
		return local
	}

	ref, err := s.store.Add(ctx, s.store.Collection("slots", slotID, "matches"), map[string]any{
		"matchNumber": req.MatchNumber,
		"description": req.Description,
		"createdAt":   firestore.ServerTimestamp,
	})
	if err != nil {
		log.Warn("Match creation failed remotely, keeping local fallback", "slot", slotID, "error", err)
		metrics.RemoteFailures.WithLabelValues("match", "create").Inc()
		return local
	}

	remote := local
	remote.ID = ref.ID
	return remote
}

// GetBySlot lists matches ordered by matchNumber, each with a POV count and
// the distinct player names of its POVs. Remote errors degrade to the mirror
// scoped to this slot.
func (s *MatchesService) GetBySlot(ctx context.Context, slotID string) []Match {
	if !s.store.Available() {
		metrics.FallbackReads.WithLabelValues("match").Inc()
		return s.localBySlot(slotID)
	}

	docs, err := s.store.GetAll(ctx, s.store.Collection("slots", slotID, "matches").OrderBy("matchNumber", firestore.Asc))
	if err != nil {
		log.Warn("Match fetch failed, using mirror", "slot", slotID, "error", err)
		metrics.RemoteFailures.WithLabelValues("match", "list").Inc()
		metrics.FallbackReads.WithLabelValues("match").Inc()
		return s.localBySlot(slotID)
	}

	list := make([]Match, 0, len(docs))
	for _, doc := range docs {
		match, err := docToMatch(doc, slotID)
		if err != nil {
			log.Warn("Match decode failed, using mirror", "slot", slotID, "error", err)
			metrics.FallbackReads.WithLabelValues("match").Inc()
			return s.localBySlot(slotID)
		}

		povDocs, err := s.store.GetAll(ctx, s.store.Collection("slots", slotID, "matches", doc.Ref.ID, "povs").Query)
		if err != nil {
			log.Warn("Counting POVs failed", "slot", slotID, "match", doc.Ref.ID, "error", err)
		} else {
			match.POVCount = len(povDocs)
			seen := map[string]bool{}
			for _, povDoc := range povDocs {
				name, _ := povDoc.DataAt("playerName")
				player, ok := name.(string)
				if !ok || seen[player] {
					continue
				}
				seen[player] = true
				match.Players = append(match.Players, player)
			}
		}

		list = append(list, match)
	}
	return list
}

// GetByID mirrors the slot lookup semantics: not-found propagates,
// connectivity failures scan the mirror within the slot scope.
func (s *MatchesService) GetByID(ctx context.Context, slotID, matchID string) (Match, error) {
	if !s.store.Available() {
		if match, ok := s.localByID(slotID, matchID); ok {
			return match, nil
		}
		return Match{}, xerrors.Errorf("match %s/%s: %w", slotID, matchID, docstore.ErrNotFound)
	}

	snap, err := s.store.GetDoc(ctx, s.store.Doc("slots", slotID, "matches", matchID))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return Match{}, xerrors.Errorf("match %s/%s: %w", slotID, matchID, err)
		}
		log.Warn("Match lookup failed, scanning mirror", "slot", slotID, "match", matchID, "error", err)
		metrics.RemoteFailures.WithLabelValues("match", "get").Inc()
		if match, ok := s.localByID(slotID, matchID); ok {
			return match, nil
		}
		return Match{}, err
	}

	return docToMatch(snap, slotID)
}

// Update merges the partial update into the mirror synchronously, then
// attempts the remote partial update.
func (s *MatchesService) Update(ctx context.Context, slotID, matchID string, req UpdateMatchRequest) {
	byslot := s.localMatches()
	for i := range byslot[slotID] {
		if byslot[slotID][i].ID == matchID {
			if req.MatchNumber != nil {
				byslot[slotID][i].MatchNumber = *req.MatchNumber
			}
			if req.Description != nil {
				byslot[slotID][i].Description = *req.Description
			}
			s.saveLocalMatches(byslot)
			break
		}
	}

	if !s.store.Available() {
		return
	}

	var updates []firestore.Update
	if req.MatchNumber != nil {
		updates = append(updates, firestore.Update{Path: "matchNumber", Value: *req.MatchNumber})
	}
	if req.Description != nil {
		updates = append(updates, firestore.Update{Path: "description", Value: *req.Description})
	}
	if len(updates) == 0 {
		return
	}
	if err := s.store.Update(ctx, s.store.Doc("slots", slotID, "matches", matchID), updates); err != nil {
		log.Warn("Match update failed remotely, mirror already updated", "slot", slotID, "match", matchID, "error", err)
		metrics.RemoteFailures.WithLabelValues("match", "update").Inc()
	}
}

// Delete removes the match from the mirror, then cascades remotely through
// POVs and their comments in one atomic batch.
func (s *MatchesService) Delete(ctx context.Context, slotID, matchID string) {
	byslot := s.localMatches()
	kept := byslot[slotID][:0]
	for _, match := range byslot[slotID] {
		if match.ID != matchID {
			kept = append(kept, match)
		}
	}
	byslot[slotID] = kept
	s.saveLocalMatches(byslot)
	s.dropLocalDescendants(slotID, matchID)

	if !s.store.Available() {
		return
	}

	if err := s.deleteRemote(ctx, slotID, matchID); err != nil {
		log.Warn("Match cascade delete failed remotely", "slot", slotID, "match", matchID, "error", err)
		metrics.RemoteFailures.WithLabelValues("match", "delete").Inc()
	}
}

func (s *MatchesService) deleteRemote(ctx context.Context, slotID, matchID string) error {
	povDocs, err := s.store.GetAll(ctx, s.store.Collection("slots", slotID, "matches", matchID, "povs").Query)
	if err != nil {
		return err
	}

	batch := s.store.Batch()
	for _, povDoc := range povDocs {
		commentDocs, err := s.store.GetAll(ctx, s.store.Collection("slots", slotID, "matches", matchID, "povs", povDoc.Ref.ID, "comments").Query)
		if err != nil {
			return err
		}
		for _, commentDoc := range commentDocs {
			batch.Delete(commentDoc.Ref)
		}
		batch.Delete(povDoc.Ref)
	}
	batch.Delete(s.store.Doc("slots", slotID, "matches", matchID))

	return s.store.CommitBatch(ctx, batch)
}

func (s *MatchesService) dropLocalDescendants(slotID, matchID string) {
	scope := slotID + "/" + matchID
	dropScoped := func(key string) {
		var byScope map[string][]map[string]any
		s.mirror.Read(key, &byScope)
		if byScope == nil {
			return
		}
		for k := range byScope {
			if k == scope || strings.HasPrefix(k, scope+"/") {
				delete(byScope, k)
			}
		}
		s.mirror.Write(key, byScope)
	}
	dropScoped(mirror.POVsKey)
	dropScoped(mirror.CommentsKey)
}

func (s *MatchesService) localBySlot(slotID string) []Match {
	list := s.localMatches()[slotID]
	if list == nil {
		list = []Match{}
	}
	for i := range list {
		list[i].SlotID = slotID
		list[i].MapName = gamemap.Name(list[i].MatchNumber)
	}
	return list
}

func (s *MatchesService) localByID(slotID, matchID string) (Match, bool) {
	for _, match := range s.localBySlot(slotID) {
		if match.ID == matchID {
			return match, true
		}
	}
	return Match{}, false
}

func docToMatch(doc *firestore.DocumentSnapshot, slotID string) (Match, error) {
	var d matchDoc
	if err := doc.DataTo(&d); err != nil {
		// If this fails, we have an inconsistency error as we control both the data written to
		// Firestore and the shape of our document struct.
		return Match{}, fmt.Errorf(
			"consistency error. Converting %+v to internal match struct failed: %w",
			doc,
			err,
		)
	}

	return Match{
		ID:          doc.Ref.ID,
		SlotID:      slotID,
		MatchNumber: d.MatchNumber,
		MapName:     gamemap.Name(d.MatchNumber),
		Description: d.Description,
		CreatedAt:   d.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}
