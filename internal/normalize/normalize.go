// Package normalize maps raw indicator values onto bounded sub-scores using
// ordered threshold tables. Every indicator family shares the same scan:
// buckets are checked from the most extreme boundary toward the least extreme
// and the first match wins.
package normalize

// Op is the comparison a bucket applies to its boundary. Each indicator
// family keeps the boundary semantics of its source table: rate and reserve
// buckets compare strictly, growth buckets are inclusive on the low side.
type Op int

const (
	OpBelow   Op = iota // value < boundary
	OpAbove             // value > boundary
	OpAtLeast           // value >= boundary
	OpAny               // terminal bucket, matches anything
)

// Bucket is one classification band of a threshold table.
type Bucket struct {
	Label    string
	Op       Op
	Boundary float64
	Score    float64
}

// Table is an ordered set of buckets for one indicator family.
type Table struct {
	Name    string
	Buckets []Bucket
}

// SubScore is a normalized [0,1] contribution from a single indicator.
type SubScore struct {
	Score float64 `json:"score"`
	Label string  `json:"label"`
}

// Unclassified is returned when no bucket matches; it is the least favorable
// outcome, never an error.
var Unclassified = SubScore{Score: 0.0, Label: "unclassified"}

func (b Bucket) matches(value float64) bool {
	switch b.Op {
	case OpBelow:
		return value < b.Boundary
	case OpAbove:
		return value > b.Boundary
	case OpAtLeast:
		return value >= b.Boundary
	case OpAny:
		return true
	}
	return false
}

// Normalize scans the table in order and returns the first matching bucket's
// sub-score. Out-of-range values land in the nearest terminal bucket by
// construction of the tables; a table with no matching bucket yields
// Unclassified.
func Normalize(value float64, table Table) SubScore {
	for _, b := range table.Buckets {
		if b.matches(value) {
			return SubScore{Score: Clamp01(b.Score), Label: b.Label}
		}
	}
	return Unclassified
}

// Clamp01 bounds v to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Clamp bounds v to [lo,hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
