package idgen

import "github.com/oklog/ulid/v2"

// New returns a ULID string. IDs sort by creation time.
func New() string {
	return ulid.Make().String()
}
