package dictionary

import "errors"

var (
	// ErrNestedAlias indicates a canonical name that is itself an alias key.
	ErrNestedAlias = errors.New("nested alias")

	// ErrEmptyCategory indicates a category with no canonical members.
	ErrEmptyCategory = errors.New("empty category")
)
