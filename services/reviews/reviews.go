// Package reviews combines the two review sources of a room into one ranked list.
//
// The remote API keeps some reviews embedded in the room record and others in a
// standalone collection. Both are shown together; a review stored in both places is
// shown twice, since the data carries no key that would identify the duplicate.
package reviews

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"stayease/models"
)

// NotRated is the rendered average of a subject without reviews.
const NotRated = "N/A"

// Merge concatenates both collections and orders the result newest first. Reviews with
// equal timestamps keep their source order, embedded before standalone.
func Merge(embedded, standalone []models.Review) []models.Review {
	merged := make([]models.Review, 0, len(embedded)+len(standalone))
	merged = append(merged, embedded...)
	merged = append(merged, standalone...)
	SortNewestFirst(merged)
	return merged
}

// SortNewestFirst sorts rs in place by descending timestamp.
func SortNewestFirst(rs []models.Review) {
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].Timestamp.After(rs[j].Timestamp)
	})
}

// Average returns the arithmetic mean rating. ok is false for an empty set.
func Average(rs []models.Review) (avg float64, ok bool) {
	if len(rs) == 0 {
		return 0, false
	}
	var sum float64
	for _, r := range rs {
		sum += r.Rating
	}
	return sum / float64(len(rs)), true
}

// FormatAverage renders the mean rating with one decimal, or NotRated when there are no
// reviews. Zero would read as a worst-rated room rather than an unrated one.
func FormatAverage(rs []models.Review) string {
	avg, ok := Average(rs)
	if !ok {
		return NotRated
	}
	return fmt.Sprintf("%.1f", avg)
}

// Initials returns the avatar initials for a reviewer name: the first letter of the first
// and last words, upper-cased.
func Initials(name string) string {
	words := strings.Fields(name)
	switch len(words) {
	case 0:
		return ""
	case 1:
		return firstUpper(words[0])
	default:
		return firstUpper(words[0]) + firstUpper(words[len(words)-1])
	}
}

func firstUpper(word string) string {
	r, _ := utf8.DecodeRuneInString(word)
	return string(unicode.ToUpper(r))
}
