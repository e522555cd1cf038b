package docstore

import (
	"context"

	"cloud.google.com/go/firestore"
)

// Mock is a Store whose remote is reachable but broken: Available reports
// true and every operation fails with Err. The refs it hands out carry no
// client and must never be used for real calls.
type Mock struct {
	Err error
}

func (m *Mock) Available() bool {
	return true
}

func (m *Mock) Collection(parts ...string) *firestore.CollectionRef {
	return &firestore.CollectionRef{}
}

func (m *Mock) Doc(parts ...string) *firestore.DocumentRef {
	return &firestore.DocumentRef{}
}

func (m *Mock) GetDoc(ctx context.Context, ref *firestore.DocumentRef) (*firestore.DocumentSnapshot, error) {
	return nil, m.Err
}

func (m *Mock) GetAll(ctx context.Context, q firestore.Query) ([]*firestore.DocumentSnapshot, error) {
	return nil, m.Err
}

func (m *Mock) Count(ctx context.Context, coll *firestore.CollectionRef) (int, error) {
	return 0, m.Err
}

func (m *Mock) Add(ctx context.Context, coll *firestore.CollectionRef, data map[string]any) (*firestore.DocumentRef, error) {
	return nil, m.Err
}

func (m *Mock) Update(ctx context.Context, ref *firestore.DocumentRef, updates []firestore.Update) error {
	return m.Err
}

func (m *Mock) Delete(ctx context.Context, ref *firestore.DocumentRef) error {
	return m.Err
}

func (m *Mock) Batch() *firestore.WriteBatch {
	return nil
}

func (m *Mock) CommitBatch(ctx context.Context, batch *firestore.WriteBatch) error {
	return m.Err
}
