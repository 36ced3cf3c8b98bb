package sessions

import (
	"encoding/json"
	"testing"

	"counseld/internal/models"
)

func TestPatchUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Patch
	}{
		{
			name: "both omitted",
			body: `{}`,
			want: Patch{},
		},
		{
			name: "explicit nulls",
			body: `{"notes":null,"outcome":null}`,
			want: Patch{Notes: setNull[string](), Outcome: setNull[models.SessionOutcome]()},
		},
		{
			name: "values present",
			body: `{"notes":"went well","outcome":"COMPLETED"}`,
			want: Patch{Notes: setValue("went well"), Outcome: setValue(models.OutcomeCompleted)},
		},
		{
			name: "mixed",
			body: `{"outcome":"NO_SHOW"}`,
			want: Patch{Outcome: setValue(models.OutcomeNoShow)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Patch
			if err := json.Unmarshal([]byte(tt.body), &got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			assertField(t, "notes", got.Notes, tt.want.Notes)
			assertField(t, "outcome", got.Outcome, tt.want.Outcome)
		})
	}
}

func assertField[T comparable](t *testing.T, name string, got, want Field[T]) {
	t.Helper()
	if got.Set != want.Set {
		t.Fatalf("%s: Set = %v, want %v", name, got.Set, want.Set)
	}
	if (got.Value == nil) != (want.Value == nil) {
		t.Fatalf("%s: Value = %v, want %v", name, got.Value, want.Value)
	}
	if got.Value != nil && *got.Value != *want.Value {
		t.Fatalf("%s: Value = %v, want %v", name, *got.Value, *want.Value)
	}
}

func TestPatchRejectsMalformedOutcome(t *testing.T) {
	var got Patch
	if err := json.Unmarshal([]byte(`{"outcome":42}`), &got); err == nil {
		t.Fatal("numeric outcome should fail to decode")
	}
}
