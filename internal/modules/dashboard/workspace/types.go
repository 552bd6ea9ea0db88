package workspace

import (
	"encoding/json"

	"github.com/schoolboard/core/internal/pkg/draftsync"
)

// StateDTO is the editor's view of one collection draft.
type StateDTO struct {
	Collection string            `json:"collection"`
	Items      []json.RawMessage `json:"items"`
	Dirty      bool              `json:"dirty"`
	Conflict   bool              `json:"conflict"`
	Saving     bool              `json:"saving"`
}

type moveDTO struct {
	Direction draftsync.Direction `json:"direction" binding:"required"`
}
