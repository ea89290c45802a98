package models

import (
	"time"

	"github.com/google/uuid"
)

// Photo kinds: evidence taken before and after the intervention.
const (
	PhotoKindBefore = "before"
	PhotoKindAfter  = "after"
)

// Photo is a piece of photographic evidence attached to an order. An order
// cannot be marked complete, nor validated, without at least one photo of
// each kind.
type Photo struct {
	ID         uuid.UUID `db:"id" json:"id"`
	OrderID    uuid.UUID `db:"order_id" json:"order_id"`
	Kind       string    `db:"kind" json:"kind"`
	URL        string    `db:"url" json:"url"`
	StorageID  string    `db:"storage_id" json:"storage_id"`
	UploadedAt time.Time `db:"uploaded_at" json:"uploaded_at"`
}
