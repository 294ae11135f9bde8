// Package engine is the synchronization core: it decides for every read
// and write whether the remote store or the local cache is trusted,
// merges their states, and protects in-progress user input from
// background reconciliation.
package engine

import (
	"context"
	"encoding/json"

	"github.com/inovacc/worklog/internal/gateway"
	"github.com/inovacc/worklog/internal/model"
)

// CollectionAPI is the slice of the fetch gateway the engine depends on.
// *gateway.Gateway implements it; tests substitute a fake.
type CollectionAPI interface {
	List(ctx context.Context, et model.EntityType, opts gateway.ListOptions) ([]byte, error)
	Create(ctx context.Context, et model.EntityType, payload any) (json.RawMessage, error)
	Update(ctx context.Context, et model.EntityType, id string, patch any) (json.RawMessage, error)
	Delete(ctx context.Context, et model.EntityType, id string) error
}
