// Package audit keeps a tamper-evident log of security relevant events.
// Each entry stores the hash of its predecessor so edits or deletions in the
// middle of the chain are detectable.
package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

const (
	ActionLogin        = "auth.login"
	ActionGoogleLogin  = "auth.google_login"
	ActionRegister     = "user.register"
	ActionDataExport   = "privacy.export"
	ActionDataDeletion = "privacy.delete"
	ActionRetention    = "privacy.retention_cleanup"

	StatusSuccess = "success"
	StatusFailure = "failure"
)

// GenesisHash is the prev_hash of the first entry.
const GenesisHash = "0000000000000000000000000000000000000000000000000000000000000000"

// Entry is one link of the chain.
type Entry struct {
	Seq       int64     `json:"seq"`
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Action    string    `json:"action"`
	Resource  string    `json:"resource"`
	Status    string    `json:"status"`
	Details   string    `json:"details"`
	PrevHash  string    `json:"prevHash"`
	Hash      string    `json:"hash"`
	CreatedAt time.Time `json:"createdAt"`
}

// Event is what callers record; the logger fills in ids, time and hashes.
type Event struct {
	UserID   string
	Action   string
	Resource string
	Status   string
	Details  string
}

// Repo persists entries. AppendChained must read the current tail and insert
// the sealed entry atomically with respect to other appends.
type Repo interface {
	AppendChained(ctx context.Context, entry Entry) (Entry, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Entry, error)
	ListAll(ctx context.Context) ([]Entry, error)
}

// Seal links entry to prev and computes its hash.
func Seal(entry Entry, prevHash string) Entry {
	if prevHash == "" {
		prevHash = GenesisHash
	}
	entry.PrevHash = prevHash
	entry.CreatedAt = entry.CreatedAt.UTC().Truncate(time.Microsecond)
	entry.Hash = computeHash(entry)
	return entry
}

func computeHash(e Entry) string {
	payload := strings.Join([]string{
		e.PrevHash,
		e.ID,
		e.UserID,
		e.Action,
		e.Resource,
		e.Status,
		e.Details,
		e.CreatedAt.UTC().Format(time.RFC3339Nano),
	}, "|")
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
