package sessions

import (
	"bytes"
	"encoding/json"

	"counseld/internal/models"
)

// Field distinguishes an omitted JSON key from an explicit null: Set is false
// for omitted keys, true with a nil Value for explicit nulls, and true with a
// non-nil Value otherwise. Omitted fields keep their stored value; explicit
// nulls clear it.
type Field[T any] struct {
	Set   bool
	Value *T
}

// UnmarshalJSON is only invoked for keys present in the payload, which is what
// makes the tri-state work.
func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if bytes.Equal(b, []byte("null")) {
		f.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}

// Patch is a partial session update.
type Patch struct {
	Notes   Field[string]                `json:"notes"`
	Outcome Field[models.SessionOutcome] `json:"outcome"`
}
