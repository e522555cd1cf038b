package docstore

import (
	"context"

	"cloud.google.com/go/firestore"
)

// Store is the document-store surface the repositories depend on. Client is
// the production implementation; Mock stands in for tests that need a
// reachable-but-failing remote.
type Store interface {
	Available() bool
	Collection(parts ...string) *firestore.CollectionRef
	Doc(parts ...string) *firestore.DocumentRef
	GetDoc(ctx context.Context, ref *firestore.DocumentRef) (*firestore.DocumentSnapshot, error)
	GetAll(ctx context.Context, q firestore.Query) ([]*firestore.DocumentSnapshot, error)
	Count(ctx context.Context, coll *firestore.CollectionRef) (int, error)
	Add(ctx context.Context, coll *firestore.CollectionRef, data map[string]any) (*firestore.DocumentRef, error)
	Update(ctx context.Context, ref *firestore.DocumentRef, updates []firestore.Update) error
	Delete(ctx context.Context, ref *firestore.DocumentRef) error
	Batch() *firestore.WriteBatch
	CommitBatch(ctx context.Context, batch *firestore.WriteBatch) error
}

var _ Store = (*Client)(nil)
var _ Store = (*Mock)(nil)
