package slots

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/charmbracelet/log"
	"golang.org/x/xerrors"

	"github.com/eclipse-gg/pov-archive/pkg/ident"
	"github.com/eclipse-gg/pov-archive/pkg/metrics"
	"github.com/eclipse-gg/pov-archive/repos/docstore"
	"github.com/eclipse-gg/pov-archive/repos/mirror"
)

const collectionName = "slots"

type SlotService struct {
	store  docstore.Store
	mirror *mirror.Store
	ids    ident.Generator
}

func NewSlotService(store docstore.Store, mirrorStore *mirror.Store, ids ident.Generator) *SlotService {
	return &SlotService{
		store:  store,
		mirror: mirrorStore,
		ids:    ids,
	}
}

func (s *SlotService) localSlots() []Slot {
	var out []Slot
	s.mirror.Read(mirror.SlotsKey, &out)
	if out == nil {
		out = []Slot{}
	}
	return out
}

func (s *SlotService) saveLocalSlots(list []Slot) {
	s.mirror.Write(mirror.SlotsKey, list)
}

// Create writes the slot to the mirror first, then attempts the remote
// insert. A remote failure keeps the mirror record and is not an error.
func (s *SlotService) Create(ctx context.Context, req CreateSlotRequest) Slot {
	local := Slot{
		ID:          s.ids.NewID(),
		Name:        req.Name,
		Description: req.Description,
		Date:        req.Date,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	s.saveLocalSlots(append(s.localSlots(), local))

	if !s.store.Available() {
		return local
	}

	ref, err := s.store.Add(ctx, s.store.Collection(collectionName), map[string]any{
		"name":        req.Name,
		"description": req.Description,
		"date":        req.Date,
		"createdAt":   firestore.ServerTimestamp,
	})
	if err != nil {
		log.Warn("Slot creation failed remotely, keeping local fallback", "error", err)
		metrics.RemoteFailures.WithLabelValues("slot", "create").Inc()
		return local
	}

	remote := local
	remote.ID = ref.ID
	return remote
}

// GetAll lists slots newest first, with match and POV counts walked from the
// child collections per slot. Any remote error degrades to the mirror.
func (s *SlotService) GetAll(ctx context.Context) []Slot {
	if !s.store.Available() {
		metrics.FallbackReads.WithLabelValues("slot").Inc()
		return s.localSlots()
	}

	docs, err := s.store.GetAll(ctx, s.store.Collection(collectionName).OrderBy("createdAt", firestore.Desc))
	if err != nil {
		log.Warn("Slot fetch failed, using mirror", "error", err)
		metrics.RemoteFailures.WithLabelValues("slot", "list").Inc()
		metrics.FallbackReads.WithLabelValues("slot").Inc()
		return s.localSlots()
	}

	list := make([]Slot, 0, len(docs))
	for _, doc := range docs {
		slot, err := docToSlot(doc)
		if err != nil {
			log.Warn("Slot decode failed, using mirror", "error", err)
			metrics.FallbackReads.WithLabelValues("slot").Inc()
			return s.localSlots()
		}

		// N+1 walk. Count failures leave the counts at zero rather than
		// failing the listing.
		matchDocs, err := s.store.GetAll(ctx, s.store.Collection(collectionName, doc.Ref.ID, "matches").Query)
		if err != nil {
			log.Warn("Counting matches failed", "slot", doc.Ref.ID, "error", err)
		} else {
			slot.MatchCount = len(matchDocs)
			for _, matchDoc := range matchDocs {
				n, err := s.store.Count(ctx, s.store.Collection(collectionName, doc.Ref.ID, "matches", matchDoc.Ref.ID, "povs"))
				if err != nil {
					log.Warn("Counting POVs failed", "slot", doc.Ref.ID, "match", matchDoc.Ref.ID, "error", err)
					continue
				}
				slot.POVCount += n
			}
		}

		list = append(list, slot)
	}
	return list
}

// GetByID is a remote point lookup. Not-found propagates; a connectivity
// failure falls back to a linear mirror scan, and only if the mirror misses
// too does the original error surface.
func (s *SlotService) GetByID(ctx context.Context, slotID string) (Slot, error) {
	if !s.store.Available() {
		if slot, ok := s.localSlotByID(slotID); ok {
			return slot, nil
		}
		return Slot{}, xerrors.Errorf("slot %s: %w", slotID, docstore.ErrNotFound)
	}

	snap, err := s.store.GetDoc(ctx, s.store.Doc(collectionName, slotID))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return Slot{}, xerrors.Errorf("slot %s: %w", slotID, err)
		}
		log.Warn("Slot lookup failed, scanning mirror", "slot", slotID, "error", err)
		metrics.RemoteFailures.WithLabelValues("slot", "get").Inc()
		if slot, ok := s.localSlotByID(slotID); ok {
			return slot, nil
		}
		return Slot{}, err
	}

	return docToSlot(snap)
}

// Update merges the partial update into the mirror synchronously, then
// attempts the remote partial update. Remote failure is non-fatal.
func (s *SlotService) Update(ctx context.Context, slotID string, req UpdateSlotRequest) {
	list := s.localSlots()
	for i := range list {
		if list[i].ID == slotID {
			applyUpdate(&list[i], req)
			s.saveLocalSlots(list)
			break
		}
	}

	if !s.store.Available() {
		return
	}

	updates := fieldUpdates(req)
	if len(updates) == 0 {
		return
	}
	if err := s.store.Update(ctx, s.store.Doc(collectionName, slotID), updates); err != nil {
		log.Warn("Slot update failed remotely, mirror already updated", "slot", slotID, "error", err)
		metrics.RemoteFailures.WithLabelValues("slot", "update").Inc()
	}
}

// Delete removes the slot from the mirror, then cascades remotely: every
// match, every POV, every comment, deleted leaf-to-root in one atomic batch.
// The mirror deletion is not rolled back when the batch fails.
func (s *SlotService) Delete(ctx context.Context, slotID string) {
	list := s.localSlots()
	kept := list[:0]
	for _, slot := range list {
		if slot.ID != slotID {
			kept = append(kept, slot)
		}
	}
	s.saveLocalSlots(kept)
	s.dropLocalDescendants(slotID)

	if !s.store.Available() {
		return
	}

	if err := s.deleteRemote(ctx, slotID); err != nil {
		log.Warn("Slot cascade delete failed remotely", "slot", slotID, "error", err)
		metrics.RemoteFailures.WithLabelValues("slot", "delete").Inc()
	}
}

func (s *SlotService) deleteRemote(ctx context.Context, slotID string) error {
	matchDocs, err := s.store.GetAll(ctx, s.store.Collection(collectionName, slotID, "matches").Query)
	if err != nil {
		return err
	}

	batch := s.store.Batch()
	for _, matchDoc := range matchDocs {
		povDocs, err := s.store.GetAll(ctx, s.store.Collection(collectionName, slotID, "matches", matchDoc.Ref.ID, "povs").Query)
		if err != nil {
			return err
		}
		for _, povDoc := range povDocs {
			commentDocs, err := s.store.GetAll(ctx, s.store.Collection(collectionName, slotID, "matches", matchDoc.Ref.ID, "povs", povDoc.Ref.ID, "comments").Query)
			if err != nil {
				return err
			}
			for _, commentDoc := range commentDocs {
				batch.Delete(commentDoc.Ref)
			}
			batch.Delete(povDoc.Ref)
		}
		batch.Delete(matchDoc.Ref)
	}
	batch.Delete(s.store.Doc(collectionName, slotID))

	return s.store.CommitBatch(ctx, batch)
}

// dropLocalDescendants clears the mirrored child containers scoped to the
// slot, so no mirrored entity outlives its parent.
func (s *SlotService) dropLocalDescendants(slotID string) {
	var matchesByScope map[string][]map[string]any
	s.mirror.Read(mirror.MatchesKey, &matchesByScope)
	if matchesByScope != nil {
		delete(matchesByScope, slotID)
		s.mirror.Write(mirror.MatchesKey, matchesByScope)
	}

	dropScoped := func(key string) {
		var byScope map[string][]map[string]any
		s.mirror.Read(key, &byScope)
		if byScope == nil {
			return
		}
		for scope := range byScope {
			if strings.HasPrefix(scope, slotID+"/") {
				delete(byScope, scope)
			}
		}
		s.mirror.Write(key, byScope)
	}
	dropScoped(mirror.POVsKey)
	dropScoped(mirror.CommentsKey)
}

func (s *SlotService) localSlotByID(slotID string) (Slot, bool) {
	for _, slot := range s.localSlots() {
		if slot.ID == slotID {
			return slot, true
		}
	}
	return Slot{}, false
}

func applyUpdate(slot *Slot, req UpdateSlotRequest) {
	if req.Name != nil {
		slot.Name = *req.Name
	}
	if req.Description != nil {
		slot.Description = *req.Description
	}
	if req.Date != nil {
		slot.Date = *req.Date
	}
}

func fieldUpdates(req UpdateSlotRequest) []firestore.Update {
	var updates []firestore.Update
	if req.Name != nil {
		updates = append(updates, firestore.Update{Path: "name", Value: *req.Name})
	}
	if req.Description != nil {
		updates = append(updates, firestore.Update{Path: "description", Value: *req.Description})
	}
	if req.Date != nil {
		updates = append(updates, firestore.Update{Path: "date", Value: *req.Date})
	}
	return updates
}

func docToSlot(doc *firestore.DocumentSnapshot) (Slot, error) {
	var d slotDoc
	if err := doc.DataTo(&d); err != nil {
		// If this fails, we have an inconsistency error as we control both the data written to
		// Firestore and the shape of our document struct.
		return Slot{}, fmt.Errorf(
			"consistency error. Converting %+v to internal slot struct failed: %w",
			doc,
			err,
		)
	}

	return Slot{
		ID:          doc.Ref.ID,
		Name:        d.Name,
		Description: d.Description,
		Date:        d.Date,
		CreatedAt:   d.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}
