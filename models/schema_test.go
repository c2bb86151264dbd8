package models

import "testing"

func TestSchema_HasCanonicalColumns(t *testing.T) {
	if len(Schema) != 22 {
		t.Fatalf("schema has %d fields, want 22", len(Schema))
	}
	headers := Headers()
	if headers[0] != "Date" || headers[1] != "Time" {
		t.Fatalf("first headers = %v, want Date, Time", headers[:2])
	}
	if headers[len(headers)-1] != "Observations" {
		t.Fatalf("last header = %q, want Observations", headers[len(headers)-1])
	}

	seenKey := map[string]bool{}
	seenHeader := map[string]bool{}
	for _, f := range Schema {
		if seenKey[f.Key] || seenHeader[f.Header] {
			t.Fatalf("duplicate field %q / %q", f.Key, f.Header)
		}
		seenKey[f.Key] = true
		seenHeader[f.Header] = true
	}
}

func TestLookup_ByKeyAndHeader(t *testing.T) {
	byKey, ok := Lookup(FieldPain)
	if !ok {
		t.Fatalf("Lookup(%q) not found", FieldPain)
	}
	byHeader, ok := Lookup("Pain (0-10)")
	if !ok || byHeader.Key != byKey.Key {
		t.Fatalf("Lookup by header = %+v, %v", byHeader, ok)
	}
	if !byKey.Numeric() || byKey.Max != 10 {
		t.Fatalf("pain should be a 0-10 scale, got %+v", byKey)
	}
	if _, ok := Lookup("Mood"); ok {
		t.Fatalf("Lookup(Mood) should miss")
	}
	if got := HeaderOf("Mood"); got != "Mood" {
		t.Fatalf("HeaderOf(Mood) = %q", got)
	}
}

func TestModelColumns_AreNumeric(t *testing.T) {
	for _, c := range ModelColumns {
		f, ok := Lookup(c)
		if !ok || !f.Numeric() {
			t.Fatalf("model column %q is not a numeric field", c)
		}
	}
	for _, c := range TreeTargets {
		f, _ := Lookup(c)
		if f.Kind != KindScale {
			t.Fatalf("tree target %q should be a scale", c)
		}
	}
}
