// Package matcher selects records whose description or tags approximately
// contain a query.
package matcher

import (
	"math"
	"strings"

	"cmdsaver/model"
)

// Threshold is the score a field must exceed for its record to match.
const Threshold = 70

// Search returns, in collection order, every record whose description or
// space-joined tags score above Threshold against query. Matching is case
// insensitive and an empty query matches nothing.
func Search(query string, records []model.Record) []model.Record {
	q := strings.ToLower(query)
	matches := []model.Record{}
	for _, r := range records {
		if Matches(q, r) {
			matches = append(matches, r)
		}
	}
	return matches
}

// Matches reports whether the lowercased query matches r.
func Matches(query string, r model.Record) bool {
	if PartialRatio(query, strings.ToLower(r.Description)) > Threshold {
		return true
	}
	return PartialRatio(query, strings.ToLower(strings.Join(r.Tags, " "))) > Threshold
}

// PartialRatio scores 0-100 how well the shorter string aligns with its best
// matching substring of the longer one. Windows that hang off either end of
// the longer string are scored too. Either string empty scores 0. Halves
// round to even.
func PartialRatio(a, b string) int {
	short, long := []rune(a), []rune(b)
	if len(short) == 0 || len(long) == 0 {
		return 0
	}
	if len(short) > len(long) {
		short, long = long, short
	}

	n := len(short)
	best := 0.0
	for start := 1 - n; start < len(long); start++ {
		lo := max(start, 0)
		hi := min(start+n, len(long))
		if r := ratio(short, long[lo:hi]); r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return int(math.RoundToEven(best))
}

// ratio is the normalized indel similarity 200*LCS/(len(a)+len(b)).
func ratio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	return 200 * float64(lcsLength(a, b)) / float64(total)
}

// lcsLength is the longest common subsequence length, using two rows.
func lcsLength(a, b []rune) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
