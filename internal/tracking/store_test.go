package tracking

import (
	"testing"

	"github.com/parketr3s/parke-tres/internal/model"
)

func testVisitor(id string) model.Visitor {
	return model.Visitor{
		ID:               id,
		Child:            model.Child{Name: "Sofía", Age: 6},
		Guardian:         model.Guardian{Name: "María", Phone: "+573001112233"},
		TotalMinutes:     60,
		RemainingMinutes: 60,
		InitialMinutes:   60,
		Status:           model.StatusRegistered,
	}
}

func TestStoreAddAndGetReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Add(testVisitor("a"))

	got, ok := s.Get("a")
	if !ok {
		t.Fatal("expected visitor to be found")
	}
	got.RemainingMinutes = 1

	again, _ := s.Get("a")
	if again.RemainingMinutes != 60 {
		t.Errorf("mutating a returned copy changed the store: remaining = %d, want 60", again.RemainingMinutes)
	}
}

func TestStoreGetMissing(t *testing.T) {
	s := NewStore()
	if _, ok := s.Get("nope"); ok {
		t.Error("expected ok=false for unknown id")
	}
}

func TestStoreApplyMergesOnlySetFields(t *testing.T) {
	s := NewStore()
	s.Add(testVisitor("a"))

	remaining := 12
	status := model.StatusActive
	if !s.Apply("a", Update{RemainingMinutes: &remaining, Status: &status}) {
		t.Fatal("Apply returned false for existing id")
	}

	v, _ := s.Get("a")
	if v.RemainingMinutes != 12 || v.Status != model.StatusActive {
		t.Errorf("got remaining=%d status=%s, want 12 ACTIVE", v.RemainingMinutes, v.Status)
	}
	if v.TotalMinutes != 60 {
		t.Errorf("untouched field changed: total = %d, want 60", v.TotalMinutes)
	}
}

func TestStoreApplyMissingIsNoOp(t *testing.T) {
	s := NewStore()
	remaining := 5
	if s.Apply("ghost", Update{RemainingMinutes: &remaining}) {
		t.Error("Apply returned true for unknown id")
	}
	if s.Len() != 0 {
		t.Errorf("store grew on no-op Apply: len = %d", s.Len())
	}
}

func TestStoreListAllInsertionOrder(t *testing.T) {
	s := NewStore()
	for _, id := range []string{"c", "a", "b"} {
		s.Add(testVisitor(id))
	}
	// Re-adding must not move the visitor to the back.
	s.Add(testVisitor("c"))

	var got []string
	for _, v := range s.ListAll() {
		got = append(got, v.ID)
	}
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}
