package ident

import "fmt"

// Id is an interned symbolic name. Go's native string equality and
// hashing already give stable, value-based comparison and map-key
// behavior, so Id is defined directly over string rather than wrapping
// an explicit intern table — the same design the teacher uses for
// Room/Connector identity (plain string keys into a map).
type Id string

// String returns the human-readable form of the Id.
func (id Id) String() string {
	return string(id)
}

// Empty reports whether id is the zero value.
func (id Id) Empty() bool {
	return id == ""
}

// FromAnonymous returns a compiler-generated Id for an anonymous inline
// type spec, distinct from any Id a user could write (identifiers can't
// start with '$' per the lexer's identifier grammar).
func FromAnonymous(index int) Id {
	return Id(fmt.Sprintf("$anon%d", index))
}
