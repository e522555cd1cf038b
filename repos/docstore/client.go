package docstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"golang.org/x/xerrors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Every remote call runs under a bounded timeout so a hung connection
// degrades to fallback behavior instead of hanging the caller. Cascading
// batch deletes get a larger budget.
const (
	opTimeout    = 10 * time.Second
	batchTimeout = 15 * time.Second
)

var (
	// ErrTimeout marks an operation that exceeded its budget. Callers treat
	// it exactly like any other remote failure.
	ErrTimeout = errors.New("document store operation timed out")

	// ErrNotFound is distinct from connectivity failures: the store answered
	// and the document is not there.
	ErrNotFound = errors.New("document not found")
)

// Client wraps the Firestore primitives the repositories need. A nil
// underlying client means the store was not configured at startup; that
// state never changes at runtime.
type Client struct {
	fs *firestore.Client
}

func New(fs *firestore.Client) *Client {
	return &Client{fs: fs}
}

// Available reports whether the document store was configured at startup.
func (c *Client) Available() bool {
	return c != nil && c.fs != nil
}

// Collection resolves a nested collection from alternating collection/doc
// path segments, e.g. Collection("slots", slotID, "matches").
func (c *Client) Collection(parts ...string) *firestore.CollectionRef {
	return c.fs.Collection(strings.Join(parts, "/"))
}

// Doc resolves a document from alternating collection/doc path segments.
func (c *Client) Doc(parts ...string) *firestore.DocumentRef {
	return c.fs.Doc(strings.Join(parts, "/"))
}

// GetDoc is a timeout-bounded point lookup.
func (c *Client) GetDoc(ctx context.Context, ref *firestore.DocumentRef) (*firestore.DocumentSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	snap, err := ref.Get(ctx)
	if err != nil {
		return nil, translate(err)
	}
	return snap, nil
}

// GetAll runs an ordered (or plain) query to completion.
func (c *Client) GetAll(ctx context.Context, q firestore.Query) ([]*firestore.DocumentSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, translate(err)
	}
	return docs, nil
}

// Count fetches a child collection and returns its size. Counts are derived
// per read and never cached across calls.
func (c *Client) Count(ctx context.Context, coll *firestore.CollectionRef) (int, error) {
	docs, err := c.GetAll(ctx, coll.Query)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

// Add inserts a document with a server-assigned ID.
func (c *Client) Add(ctx context.Context, coll *firestore.CollectionRef, data map[string]any) (*firestore.DocumentRef, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	ref, _, err := coll.Add(ctx, data)
	if err != nil {
		return nil, translate(err)
	}
	return ref, nil
}

// Update applies a partial update to an existing document.
func (c *Client) Update(ctx context.Context, ref *firestore.DocumentRef, updates []firestore.Update) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := ref.Update(ctx, updates); err != nil {
		return translate(err)
	}
	return nil
}

// Delete removes a single document.
func (c *Client) Delete(ctx context.Context, ref *firestore.DocumentRef) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := ref.Delete(ctx); err != nil {
		return translate(err)
	}
	return nil
}

// Batch starts an atomic multi-delete batch.
func (c *Client) Batch() *firestore.WriteBatch {
	return c.fs.Batch()
}

// CommitBatch commits a cascade batch under the larger budget.
func (c *Client) CommitBatch(ctx context.Context, batch *firestore.WriteBatch) error {
	ctx, cancel := context.WithTimeout(ctx, batchTimeout)
	defer cancel()

	if _, err := batch.Commit(ctx); err != nil {
		return translate(err)
	}
	return nil
}

// translate maps Firestore errors onto the adapter's taxonomy.
func translate(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || status.Code(err) == codes.DeadlineExceeded:
		return xerrors.Errorf("%w: %v", ErrTimeout, err)
	case status.Code(err) == codes.NotFound:
		return xerrors.Errorf("%w: %v", ErrNotFound, err)
	default:
		return err
	}
}
