// Package model defines domain types for estalvi records, aggregates and forecasts.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Field names every input file is expected to carry.
const (
	FieldType     = "Tipus"
	FieldCategory = "Categoria"
	FieldDate     = "Data"
	FieldValue    = "Valor"
)

// ErrUnknownBucket is returned when a bucket name cannot be resolved.
var ErrUnknownBucket = errors.New("unknown bucket")

// RawRecord is one data line of the input file keyed by header name.
// Missing trailing fields are present with an empty value.
type RawRecord map[string]string

// Type returns the record's type tag.
func (r RawRecord) Type() string { return r[FieldType] }

// Category returns the record's category tag.
func (r RawRecord) Category() string { return r[FieldCategory] }

// Date returns the raw date string.
func (r RawRecord) Date() string { return r[FieldDate] }

// Value returns the raw numeric string.
func (r RawRecord) Value() string { return r[FieldValue] }

// ConsumptionPoint is a dated reading for the electric and water buckets.
type ConsumptionPoint struct {
	Date  time.Time
	Value float64
}

// Bucket is one of the four independently tracked domain categories.
type Bucket int

const (
	Electric Bucket = iota
	Water
	Office
	Cleaning
)

// AllBuckets lists buckets in display order.
var AllBuckets = []Bucket{Electric, Water, Office, Cleaning}

var bucketNames = [...]string{"electric", "water", "office", "cleaning"}

func (b Bucket) String() string {
	if b < 0 || int(b) >= len(bucketNames) {
		return "unknown"
	}
	return bucketNames[b]
}

// IsMonthly reports whether the bucket is tracked as a monthly time series
// (electric, water) rather than as category totals (office, cleaning).
func (b Bucket) IsMonthly() bool {
	return b == Electric || b == Water
}

// ParseBucket resolves a bucket by name, case-insensitively.
func ParseBucket(name string) (Bucket, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, bn := range bucketNames {
		if n == bn {
			return Bucket(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBucket, name)
}
