package fptree

import "errors"

var (
	// ErrInvalidSupport indicates a minimum support below one.
	ErrInvalidSupport = errors.New("fptree: minimum support must be a positive integer")
	// ErrItemNotInHeader indicates an item that is not frequent in the tree.
	ErrItemNotInHeader = errors.New("fptree: item not present in header table")
	// ErrCorruptTree indicates serialized tree data that cannot be rebuilt.
	ErrCorruptTree = errors.New("fptree: corrupt serialized tree")
)
