package repository

import "testing"

func TestMarshalAttrs_NilBecomesEmptyObject(t *testing.T) {
	data, err := marshalAttrs(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("data = %q, want %q", string(data), "{}")
	}
}

func TestUnmarshalAttrs_EmptyBecomesEmptyMap(t *testing.T) {
	attrs, err := unmarshalAttrs(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attrs == nil {
		t.Fatal("attrs is nil, want empty map")
	}
	if len(attrs) != 0 {
		t.Errorf("attrs length = %d, want 0", len(attrs))
	}
}

func TestUnmarshalAttrs_InvalidJSON(t *testing.T) {
	if _, err := unmarshalAttrs([]byte("{broken")); err == nil {
		t.Error("expected error, got nil")
	}
}
