package models

import (
	"encoding/json"
	"testing"
)

func TestAccessListUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"array form", `["admin","teacher"]`, []string{"admin", "teacher"}},
		{"array dedup", `["teacher","teacher","admin"]`, []string{"admin", "teacher"}},
		{"array drops unknown roles", `["admin","owner"]`, []string{"admin"}},
		{"legacy object form", `{"admin":true}`, []string{"admin"}},
		{"legacy object both roles", `{"admin":true,"teacher":true}`, []string{"admin", "teacher"}},
		{"legacy object false entries", `{"admin":false,"teacher":true}`, []string{"teacher"}},
		{"legacy object unknown keys", `{"owner":true,"admin":true}`, []string{"admin"}},
		{"empty array", `[]`, []string{}},
		{"null", `null`, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got AccessList
			if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
				t.Fatalf("Unmarshal(%s): %v", tt.in, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestAccessListUnmarshalRejectsGarbage(t *testing.T) {
	var got AccessList
	if err := json.Unmarshal([]byte(`"admin"`), &got); err == nil {
		t.Error("expected error for scalar input")
	}
}

func TestAccessListHas(t *testing.T) {
	a := AccessList{"admin"}
	if !a.Has("admin") {
		t.Error("Has(admin) = false, want true")
	}
	if a.Has("teacher") {
		t.Error("Has(teacher) = true, want false")
	}
	var empty AccessList
	if empty.Has("admin") {
		t.Error("empty list should not contain any role")
	}
}

func TestAccessListMarshalNormalizes(t *testing.T) {
	a := AccessList{"teacher", "admin", "teacher"}
	b, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `["admin","teacher"]` {
		t.Errorf("Marshal = %s, want [\"admin\",\"teacher\"]", b)
	}
}

func TestUintListContains(t *testing.T) {
	l := UintList{3, 7, 12}
	if !l.Contains(7) {
		t.Error("Contains(7) = false, want true")
	}
	if l.Contains(5) {
		t.Error("Contains(5) = true, want false")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	var j JSON = []byte(`{"a":1}`)
	v, err := j.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if v != `{"a":1}` {
		t.Errorf("Value = %v", v)
	}

	var back JSON
	if err := back.Scan([]byte(`{"b":2}`)); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if string(back) != `{"b":2}` {
		t.Errorf("Scan = %s", back)
	}
}
