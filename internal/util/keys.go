package util

import (
	"crypto/sha256"
	"fmt"
)

// QueryKey returns a deterministic storage key for a query over one object.
// The hash covers bucket, key and predicate with separators so that
// ("a","bc") and ("ab","c") never collide.
func QueryKey(prefix, bucket, key, predicate string) string {
	sum := sha256.Sum256([]byte(bucket + "\x00" + key + "\x00" + predicate))
	return fmt.Sprintf("%s:%x", prefix, sum)[:len(prefix)+1+16] // prefix + ":" + first 16 hex chars
}
