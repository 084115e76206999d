package cli

import (
	"sort"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// maxSuggestionDistance is the maximum edit distance at which we consider a
// string "close enough" to suggest as an alternative.
const maxSuggestionDistance = 3

// Suggest returns the entries of haystack within a short edit distance of needle,
// closest first. It's used to produce "maybe you meant...?" messages.
func Suggest(needle string, haystack []string) []string {
	r := []rune(needle)
	type suggestion struct {
		s    string
		dist int
	}
	options := make([]suggestion, 0, len(haystack))
	for _, straw := range haystack {
		if straw == "" {
			continue
		}
		if dist := levenshtein.DistanceForStrings(r, []rune(straw), levenshtein.DefaultOptions); dist <= maxSuggestionDistance {
			options = append(options, suggestion{s: straw, dist: dist})
		}
	}
	sort.Slice(options, func(i, j int) bool { return options[i].dist < options[j].dist })
	ret := make([]string, len(options))
	for i, o := range options {
		ret[i] = o.s
	}
	return ret
}

// SuggestMessage formats the result of Suggest into a single human-readable message,
// or returns the empty string if there was nothing close enough to suggest.
func SuggestMessage(needle string, haystack []string) string {
	options := Suggest(needle, haystack)
	if len(options) == 0 {
		return ""
	}
	if len(options) == 1 {
		return "\nMaybe you meant " + options[0] + " ?"
	}
	return "\nMaybe you meant " + strings.Join(options[:len(options)-1], ", ") + " or " + options[len(options)-1] + " ?"
}
