package firmware

import "strings"

// tokens splits the argument part of a command line on the comma or
// space separator set, skipping empty fields.
func tokens(args []byte) []string {
	return strings.FieldsFunc(string(args), func(r rune) bool {
		return r == ' ' || r == ','
	})
}

// atoi parses a base-10 integer the lenient way: optional sign, then
// the longest leading digit run; anything else ends the number. A
// token with no leading digits parses as zero, never as an error.
func atoi(s string) int {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	n := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		n = n*10 + int(s[i]-'0')
		i++
	}
	if neg {
		return -n
	}
	return n
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
