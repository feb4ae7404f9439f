package core

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestResolveCategory(t *testing.T) {
	customs := []CustomCategory{
		{ID: "c1", Name: "Pets", Color: "#112233"},
		{ID: "c2", Name: "Food", Color: "#000000"},
	}

	cases := []struct {
		name      string
		wantColor string
		custom    bool
	}{
		{"Food", CategoryFood.Color(), false}, // built-in wins
		{"Pets", "#112233", true},
		{"Gadgets", CategoryOther.Color(), false},
		{"", CategoryOther.Color(), false},
	}
	for _, tc := range cases {
		c := ResolveCategory(tc.name, customs)
		if c.Color() != tc.wantColor {
			t.Errorf("%q color = %s, want %s", tc.name, c.Color(), tc.wantColor)
		}
		if c.IsCustom() != tc.custom {
			t.Errorf("%q custom = %v, want %v", tc.name, c.IsCustom(), tc.custom)
		}
	}
}

func TestCategoryMarshal(t *testing.T) {
	b, err := json.Marshal(ResolveCategory("Pets", []CustomCategory{{ID: "c1", Name: "Pets", Color: "#112233"}}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, want := range []string{`"id":"c1"`, `"name":"Pets"`, `"custom":true`} {
		if !strings.Contains(s, want) {
			t.Errorf("%s missing %s", s, want)
		}
	}
}

func TestCustomCategoryValidate(t *testing.T) {
	cases := []struct {
		c  CustomCategory
		ok bool
	}{
		{CustomCategory{Name: "Pets", Color: "#A1B2C3"}, true},
		{CustomCategory{Name: "", Color: "#A1B2C3"}, false},
		{CustomCategory{Name: "Pets", Color: "red"}, false},
		{CustomCategory{Name: "overall", Color: "#A1B2C3"}, false},
	}
	for i, tc := range cases {
		err := tc.c.Validate()
		if tc.ok != (err == nil) {
			t.Errorf("case %d: err = %v, ok = %v", i, err, tc.ok)
		}
	}
}

func TestIncomeSources(t *testing.T) {
	for _, s := range IncomeSources() {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if IncomeSource("salary").IsValid() {
		t.Error("source names are case sensitive")
	}
}
