package collect

import "strings"

// MakeTextList joins items into a comma-separated, Oxford-comma'd English
// list ("a", "a and b", "a, b, and c"), used by cmd/luatok to report ignored
// extra positional arguments in a single readable warning line.
func MakeTextList(items []string) string {
	if len(items) < 1 {
		return ""
	}

	output := ""

	if len(items) == 1 {
		output += items[0]
	} else if len(items) == 2 {
		output += items[0] + " and " + items[1]
	} else {
		// if its more than two, use an oxford comma
		items[len(items)-1] = "and " + items[len(items)-1]
		output += strings.Join(items, ", ")
	}

	return output
}
