package model_test

import (
	"encoding/json"
	"testing"

	"github.com/Dicklesworthstone/hal_browser/pkg/model"
)

func TestParseValuePreservesMemberOrder(t *testing.T) {
	src := `{"zebra":1,"alpha":2,"Middle":3}`

	v, err := model.ParseValue([]byte(src))
	if err != nil {
		t.Fatalf("ParseValue failed: %v", err)
	}
	if v.Kind() != model.KindObject {
		t.Fatalf("Expected object, got %s", v.Kind())
	}

	var keys []string
	for _, m := range v.Members() {
		keys = append(keys, m.Key)
	}
	want := []string{"zebra", "alpha", "Middle"}
	if len(keys) != len(want) {
		t.Fatalf("Expected %d members, got %d", len(want), len(keys))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Member %d: expected key %q, got %q", i, want[i], keys[i])
		}
	}

	// Marshalling must reproduce the source order, not sort keys.
	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != src {
		t.Errorf("Round trip changed document:\n  in:  %s\n  out: %s", src, out)
	}
}

func TestParseValueDuplicateKeysLastWriteWins(t *testing.T) {
	v, err := model.ParseValue([]byte(`{"name":"first","name":"second","other":true}`))
	if err != nil {
		t.Fatalf("ParseValue failed: %v", err)
	}

	if got := v.Len(); got != 2 {
		t.Fatalf("Expected 2 members after duplicate collapse, got %d", got)
	}
	name, ok := v.Get("name")
	if !ok {
		t.Fatal("Missing name member")
	}
	if s, _ := name.AsString(); s != "second" {
		t.Errorf("Expected last value to win, got %q", s)
	}
	// The duplicate keeps its original position.
	if v.Members()[0].Key != "name" {
		t.Errorf("Expected name to stay first, got %q", v.Members()[0].Key)
	}
}

func TestParseValueNumberFidelity(t *testing.T) {
	cases := []string{
		"12345678901234567890",
		"0.1",
		"-3.25e10",
		"7",
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			v, err := model.ParseValue([]byte(src))
			if err != nil {
				t.Fatalf("ParseValue failed: %v", err)
			}
			n, ok := v.AsNumber()
			if !ok {
				t.Fatalf("Expected number, got %s", v.Kind())
			}
			if n.String() != src {
				t.Errorf("Number text changed: %q -> %q", src, n.String())
			}
		})
	}
}

func TestParseValueScalarsAndNesting(t *testing.T) {
	v, err := model.ParseValue([]byte(`{"s":"x","b":true,"n":null,"a":[1,"two",false],"o":{"inner":[]}}`))
	if err != nil {
		t.Fatalf("ParseValue failed: %v", err)
	}

	s, _ := v.Get("s")
	if got, _ := s.AsString(); got != "x" {
		t.Errorf("Expected string x, got %q", got)
	}
	b, _ := v.Get("b")
	if got, _ := b.AsBool(); !got {
		t.Errorf("Expected true")
	}
	n, _ := v.Get("n")
	if n.Kind() != model.KindNull {
		t.Errorf("Expected null, got %s", n.Kind())
	}
	a, _ := v.Get("a")
	if a.Kind() != model.KindArray || a.Len() != 3 {
		t.Errorf("Expected 3-element array, got %s len %d", a.Kind(), a.Len())
	}
	o, _ := v.Get("o")
	inner, ok := o.Get("inner")
	if !ok || inner.Kind() != model.KindArray || inner.Len() != 0 {
		t.Errorf("Expected empty inner array")
	}
}

func TestParseValueRejectsGarbage(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"not json", "<html>nope</html>"},
		{"truncated", `{"a":`},
		{"trailing", `{"a":1} extra`},
		{"empty", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := model.ParseValue([]byte(tc.src)); err == nil {
				t.Errorf("Expected error for %q", tc.src)
			}
		})
	}
}

func TestWithoutMemberDoesNotMutate(t *testing.T) {
	v, err := model.ParseValue([]byte(`{"links":[{"rel":"self","href":"/api"}],"name":"svc"}`))
	if err != nil {
		t.Fatalf("ParseValue failed: %v", err)
	}

	stripped := v.WithoutMember("links")
	if stripped.Len() != 1 {
		t.Errorf("Expected 1 member after strip, got %d", stripped.Len())
	}
	if _, ok := stripped.Get("links"); ok {
		t.Error("links member survived the strip")
	}
	// Original stays intact.
	if _, ok := v.Get("links"); !ok {
		t.Error("WithoutMember mutated the original value")
	}
	if v.Len() != 2 {
		t.Errorf("Original member count changed to %d", v.Len())
	}

	// Removing an absent member returns the value unchanged.
	same := stripped.WithoutMember("links")
	if same.Len() != stripped.Len() {
		t.Errorf("Strip of absent member changed the value")
	}
}

func TestIndentKeepsOrder(t *testing.T) {
	v, err := model.ParseValue([]byte(`{"z":1,"a":{"y":2,"b":3}}`))
	if err != nil {
		t.Fatalf("ParseValue failed: %v", err)
	}
	out, err := v.Indent("  ")
	if err != nil {
		t.Fatalf("Indent failed: %v", err)
	}
	want := "{\n  \"z\": 1,\n  \"a\": {\n    \"y\": 2,\n    \"b\": 3\n  }\n}"
	if out != want {
		t.Errorf("Indent output mismatch:\n%s\nwant:\n%s", out, want)
	}
}

func TestValueConstructors(t *testing.T) {
	obj := model.Object(
		model.Member{Key: "name", Value: model.String("o1")},
		model.Member{Key: "count", Value: model.Number("3")},
		model.Member{Key: "open", Value: model.Bool(false)},
		model.Member{Key: "tags", Value: model.Array(model.String("a"), model.Null())},
	)

	out, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"name":"o1","count":3,"open":false,"tags":["a",null]}`
	if string(out) != want {
		t.Errorf("Expected %s, got %s", want, out)
	}

	var zero model.Value
	if zero.Kind() != model.KindNull {
		t.Errorf("Zero value should be null, got %s", zero.Kind())
	}
}
