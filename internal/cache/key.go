package cache

import (
	"sort"
	"strconv"
	"strings"
)

// Params are the named inputs of a cached operation.
type Params map[string]string

// Coord formats a coordinate with four decimals (about 11 m), which is the
// precision cache keys are bucketed at.
func Coord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// Number formats v in its shortest exact representation.
func Number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// CanonicalKey builds "operation:k1=v1&k2=v2" with parameters sorted by name,
// so the same parameter set always yields the same key.
func CanonicalKey(operation string, params Params) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+params[name])
	}

	return operation + ":" + strings.Join(pairs, "&")
}
