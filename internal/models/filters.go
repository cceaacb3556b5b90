package models

import "strings"

// Filters is the compatibility bitmask shown by the front-end.
// The bit values are shared with the front-end and must not change.
type Filters int

const (
	Windows Filters = 1 << iota
	Mac
	Rhino
	Grasshopper
	Rhino6
	Rhino7
	Rhino8

	None Filters = 0
	All          = Windows | Mac | Rhino | Grasshopper | Rhino6 | Rhino7 | Rhino8
)

var filterNames = []struct {
	flag Filters
	name string
}{
	{Windows, "Windows"},
	{Mac, "Mac"},
	{Rhino, "Rhino"},
	{Grasshopper, "Grasshopper"},
	{Rhino6, "Rhino6"},
	{Rhino7, "Rhino7"},
	{Rhino8, "Rhino8"},
}

// Union returns the set containing the flags of both f and other
func (f Filters) Union(other Filters) Filters {
	return f | other
}

// Has reports whether every flag in flag is set in f
func (f Filters) Has(flag Filters) bool {
	return f&flag == flag
}

// IsNone reports whether no flag is set
func (f Filters) IsNone() bool {
	return f == None
}

// Valid reports whether f only uses known flags
func (f Filters) Valid() bool {
	return f&^All == 0
}

// String returns the set flags joined with "|", or "None"
func (f Filters) String() string {
	if f.IsNone() {
		return "None"
	}

	var names []string
	for _, fn := range filterNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	if !f.Valid() {
		names = append(names, "Unknown")
	}
	return strings.Join(names, "|")
}
