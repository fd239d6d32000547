package patient

import (
	"fmt"
	"sort"
	"strings"
)

// VisitSearch is the patient-search payload submitted by a facility. For a
// pediatric search the caller supplies the child's name plus the parent's
// name and national ID number.
type VisitSearch struct {
	IDNumber   int64  `json:"id_number"`
	Name       string `json:"name"`
	IsChild    bool   `json:"is_child"`
	ParentName string `json:"parent_name,omitempty"`
}

// IdentityKey is the canonical identity a search resolves to. All visit
// records belonging to one patient group under one key. It is computed per
// request and never persisted as its own record.
//
// Adult and pediatric keys are disjoint even when name and id_number
// coincide: a parent's ID number backs both their own record and their
// child's, and those histories must never merge.
type IdentityKey struct {
	Name       string
	IDNumber   int64
	IsChild    bool
	ParentName string // normalized; empty for adults
}

// String renders the key for logging and in-memory grouping.
func (k IdentityKey) String() string {
	if k.IsChild {
		return fmt.Sprintf("child:%d:%s:%s", k.IDNumber, k.Name, k.ParentName)
	}
	return fmt.Sprintf("adult:%d:%s", k.IDNumber, k.Name)
}

// ResolveIdentity maps a search to its canonical identity key. It is a pure
// function: identical normalized inputs always yield an identical key.
func ResolveIdentity(search VisitSearch) (IdentityKey, error) {
	if search.IDNumber <= 0 {
		return IdentityKey{}, &ValidationError{Field: "id_number", Reason: "must be a positive integer"}
	}

	name := NormalizeName(search.Name)
	if name == "" {
		return IdentityKey{}, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	key := IdentityKey{
		Name:     name,
		IDNumber: search.IDNumber,
		IsChild:  search.IsChild,
	}

	if search.IsChild {
		parent := NormalizeName(search.ParentName)
		if parent == "" {
			return IdentityKey{}, &ValidationError{Field: "parent_name", Reason: "required when is_child is true"}
		}
		key.ParentName = parent
	}

	return key, nil
}

// NormalizeName lowercases a name, collapses whitespace, and sorts its word
// tokens. Matching is therefore insensitive to incidental formatting and word
// order across submitting facilities: "John Doe", "  doe JOHN " and
// "DOE, JOHN" all normalize identically.
func NormalizeName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || r == '.' {
			return ' '
		}
		return r
	}, name)

	parts := strings.Fields(strings.ToLower(cleaned))
	sort.Strings(parts)
	return strings.Join(parts, " ")
}
