package engine

import "testing"

func TestValue_StringTotality(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"str", Str("x"), "x"},
		{"int", Int(42), "42"},
		{"int negative", Int(-3), "-3"},
		{"coll", Coll([]Value{Str("a"), Str("b")}), "a\nb"},
		{"empty coll", Coll(nil), ""},
		{"rec without text", Rec(NewRecord()), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValue_RecTextFieldAgreesWithBareName(t *testing.T) {
	rec := NewRecord()
	rec.Set("text", Str("joined\nlines"))
	rec.Set("lines", Coll([]Value{Str("joined"), Str("lines")}))

	v := Rec(rec)
	if v.String() != "joined\nlines" {
		t.Fatalf("{name} should resolve to the text field, got %q", v.String())
	}

	fieldV := resolveField(v, "text")
	if fieldV.String() != v.String() {
		t.Fatalf("{name} and {name.text} must agree: %q vs %q", v.String(), fieldV.String())
	}
}

func TestRecord_PreservesInsertionOrder(t *testing.T) {
	rec := NewRecord()
	rec.Set("b", Str("2"))
	rec.Set("a", Str("1"))
	rec.Set("b", Str("2-updated")) // overwrite must not move position

	keys := rec.Keys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Fatalf("unexpected key order: %v", keys)
	}
}
