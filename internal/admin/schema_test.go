package admin

import (
	"reflect"
	"testing"
)

func TestSchemaLookup(t *testing.T) {
	entity, ok := Schema("vehicles")
	if !ok {
		t.Fatalf("expected vehicles schema")
	}
	if entity.Name != "vehicles" {
		t.Fatalf("expected name vehicles, got %s", entity.Name)
	}
	if len(entity.Fields) == 0 {
		t.Fatalf("expected fields")
	}
	if entity.Fields[0].Name != "id" {
		t.Fatalf("expected id as the first field, got %s", entity.Fields[0].Name)
	}

	if _, ok := Schema("nonsense"); ok {
		t.Fatalf("expected unknown entity to miss")
	}
}

func TestNamesSortedAndComplete(t *testing.T) {
	want := []string{"stations", "statuses", "submissions", "users", "vehicles"}
	if got := Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
