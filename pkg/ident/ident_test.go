package ident

import "testing"

func TestFromAnonymousDistinctFromUserIds(t *testing.T) {
	a := FromAnonymous(0)
	b := FromAnonymous(1)
	if a == b {
		t.Fatalf("expected distinct anonymous ids, got %q and %q", a, b)
	}
	if a.Empty() {
		t.Fatalf("anonymous id should not be empty")
	}
}

func TestIdEqualityIsStable(t *testing.T) {
	a := Id("db")
	b := Id("db")
	if a != b {
		t.Fatalf("expected equal Ids to compare equal")
	}
	m := map[Id]int{a: 1}
	if m[b] != 1 {
		t.Fatalf("expected Id to work as a stable map key")
	}
}
