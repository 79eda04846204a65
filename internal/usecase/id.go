package usecase

import "github.com/oklog/ulid/v2"

// newULID returns a lexicographically sortable id for payment and activity
// rows, so scans by id follow creation order.
func newULID() string { return ulid.Make().String() }
