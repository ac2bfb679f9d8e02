package entities

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestIDSet_AddRemoveHas(t *testing.T) {
	s := NewIDSet()

	if s.Has("u1") {
		t.Error("empty set should not contain u1")
	}

	s.Add("u1")
	if !s.Has("u1") {
		t.Error("expected u1 after Add")
	}

	// Adding twice must not change length
	s.Add("u1")
	if s.Len() != 1 {
		t.Errorf("expected len 1 after duplicate Add, got %d", s.Len())
	}

	s.Remove("u1")
	if s.Has("u1") {
		t.Error("expected u1 removed")
	}

	// Removing an absent id is a no-op
	s.Remove("u1")
	if s.Len() != 0 {
		t.Errorf("expected len 0, got %d", s.Len())
	}
}

func TestIDSet_IDsSorted(t *testing.T) {
	s := NewIDSet("c", "a", "b")

	got := s.IDs()
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}
}

func TestIDSet_Clone(t *testing.T) {
	s := NewIDSet("u1", "u2")
	c := s.Clone()

	c.Add("u3")
	if s.Has("u3") {
		t.Error("mutating clone must not affect original")
	}
	if !c.Has("u1") || !c.Has("u2") {
		t.Error("clone should contain original ids")
	}
}

func TestIDSet_JSONRoundTrip(t *testing.T) {
	s := NewIDSet("b", "a")

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `["a","b"]` {
		t.Errorf("marshal = %s, want [\"a\",\"b\"]", data)
	}

	var back IDSet
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !back.Has("a") || !back.Has("b") || back.Len() != 2 {
		t.Errorf("unmarshal produced %v", back.IDs())
	}
}

func TestIDSet_AddOnZeroValue(t *testing.T) {
	var s IDSet
	s.Add("u1")
	if !s.Has("u1") {
		t.Error("Add on zero-value set should work")
	}
}
