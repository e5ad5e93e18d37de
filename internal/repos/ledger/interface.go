package ledger

import (
	"database/sql"
	"errors"
	"time"
)

// ErrDuplicateReference means a marker already exists for the external
// key: the operation it guards has been applied before.
var ErrDuplicateReference = errors.New("duplicate reference")

// Kinds of externally triggered balance mutations.
const (
	KindPurchase   = "purchase"
	KindWithdrawal = "withdrawal"
)

// Entry is an idempotency marker. One exists per external reference or
// nonce; its presence is the durable proof the mutation applied exactly
// once. Markers are never updated or deleted.
type Entry struct {
	ExternalKey string
	PlayerID    string
	Kind        string
	Amount      int64
	CreatedAt   time.Time
}

// Ledger persists idempotency markers. Insert is the only write.
type Ledger interface {
	// Exists reports whether a marker was already recorded for the key,
	// reading inside the caller's transaction.
	Exists(tx *sql.Tx, externalKey string) (bool, error)

	// Insert creates the marker inside the caller's transaction.
	// ErrDuplicateReference if the key was already recorded.
	Insert(tx *sql.Tx, e Entry) error
}
