package common

import (
	"os"
	"sort"
	"strings"
)

// ReadLines reads the whole file and splits it into lines. CRLF endings are
// normalised and a single trailing newline does not produce an empty last line.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}

// SortedCopy returns a sorted copy of names, leaving the input untouched.
func SortedCopy(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	sort.Strings(out)
	return out
}

// EqualSorted reports whether a and b hold the same sequence once sorted.
// Multiplicity matters here, unlike set reconciliation.
func EqualSorted(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	sa, sb := SortedCopy(a), SortedCopy(b)
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}
