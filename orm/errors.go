package orm

import "errors"

// ErrNotFound is returned when a query expects exactly one row but finds none.
var ErrNotFound = errors.New("orm: not found")

// ErrUnknownRelation is returned when Join, LeftJoin or Preload names a
// relation that was never registered on the query.
var ErrUnknownRelation = errors.New("orm: unknown relation")
