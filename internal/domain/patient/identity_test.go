package patient

import (
	"errors"
	"testing"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase passthrough", "jane doe", "doe jane"},
		{"case folded", "Jane DOE", "doe jane"},
		{"surrounding whitespace", "  jane doe  ", "doe jane"},
		{"internal whitespace collapsed", "jane \t doe", "doe jane"},
		{"word order insensitive", "doe jane", "doe jane"},
		{"punctuation separators", "Doe, Jane", "doe jane"},
		{"single token", "Madonna", "madonna"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeName(tt.in); got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeNameIdempotent(t *testing.T) {
	for _, in := range []string{"Jane Doe", "  doe,  JANE ", "a b c"} {
		once := NormalizeName(in)
		if twice := NormalizeName(once); twice != once {
			t.Errorf("NormalizeName not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestResolveIdentityEquivalentSearches(t *testing.T) {
	base := VisitSearch{IDNumber: 12345678, Name: "Jane Doe"}
	variants := []VisitSearch{
		{IDNumber: 12345678, Name: "jane doe"},
		{IDNumber: 12345678, Name: "  JANE   DOE  "},
		{IDNumber: 12345678, Name: "Doe Jane"},
	}

	want, err := ResolveIdentity(base)
	if err != nil {
		t.Fatalf("ResolveIdentity(base) error: %v", err)
	}
	for _, v := range variants {
		got, err := ResolveIdentity(v)
		if err != nil {
			t.Fatalf("ResolveIdentity(%+v) error: %v", v, err)
		}
		if got != want {
			t.Errorf("ResolveIdentity(%+v) = %v, want %v", v, got, want)
		}
	}
}

func TestResolveIdentityAdultChildDisjoint(t *testing.T) {
	adult, err := ResolveIdentity(VisitSearch{IDNumber: 42, Name: "Jane Doe"})
	if err != nil {
		t.Fatalf("adult resolve: %v", err)
	}
	child, err := ResolveIdentity(VisitSearch{IDNumber: 42, Name: "Jane Doe", IsChild: true, ParentName: "Jane Doe"})
	if err != nil {
		t.Fatalf("child resolve: %v", err)
	}
	if adult == child {
		t.Fatalf("adult and child resolved to the same key: %v", adult)
	}
	if adult.String() == child.String() {
		t.Fatalf("adult and child key strings collide: %q", adult.String())
	}
}

func TestResolveIdentityChildParentName(t *testing.T) {
	a, err := ResolveIdentity(VisitSearch{IDNumber: 42, Name: "bobby tables", IsChild: true, ParentName: "Jane Doe"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	b, err := ResolveIdentity(VisitSearch{IDNumber: 42, Name: "Tables, Bobby", IsChild: true, ParentName: "doe JANE"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if a != b {
		t.Errorf("equivalent child searches resolved differently: %v vs %v", a, b)
	}

	c, err := ResolveIdentity(VisitSearch{IDNumber: 42, Name: "bobby tables", IsChild: true, ParentName: "John Doe"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if a == c {
		t.Errorf("different parents resolved to the same key: %v", a)
	}
}

func TestResolveIdentityValidation(t *testing.T) {
	tests := []struct {
		name   string
		search VisitSearch
		field  string
	}{
		{"zero id_number", VisitSearch{Name: "Jane Doe"}, "id_number"},
		{"negative id_number", VisitSearch{IDNumber: -1, Name: "Jane Doe"}, "id_number"},
		{"empty name", VisitSearch{IDNumber: 42, Name: "   "}, "name"},
		{"child without parent_name", VisitSearch{IDNumber: 42, Name: "bobby", IsChild: true}, "parent_name"},
		{"child with blank parent_name", VisitSearch{IDNumber: 42, Name: "bobby", IsChild: true, ParentName: "  "}, "parent_name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveIdentity(tt.search)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("want *ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("offending field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestResolveIdentityIgnoresParentNameForAdults(t *testing.T) {
	a, err := ResolveIdentity(VisitSearch{IDNumber: 42, Name: "Jane Doe"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	b, err := ResolveIdentity(VisitSearch{IDNumber: 42, Name: "Jane Doe", ParentName: "Someone Else"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if a != b {
		t.Errorf("stray parent_name changed an adult key: %v vs %v", a, b)
	}
}
