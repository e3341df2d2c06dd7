package db

import (
	"time"
)

// KVRecord is one row of the key/value table.
type KVRecord struct {
	Key     string    `db:"key"`
	Value   []byte    `db:"value"`
	Updated time.Time `db:"updated"`
}
