// internal/ci/parse.go
package ci

// atoi converts the leading decimal digits of s, with an optional sign.
// ok is false when s is not entirely a decimal number; the value is then
// whatever prefix parsed, 0 when none did.
func atoi(s string) (n int, ok bool) {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		neg = s[i] == '-'
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		if n < 1<<30 {
			n = n*10 + int(s[i]-'0')
		}
		i++
	}
	if neg {
		n = -n
	}
	return n, i > start && i == len(s)
}

// parseInt is atoi that warns when the argument was not a clean number.
func (c *Console) parseInt(cmd, tok string) int {
	n, ok := atoi(tok)
	if !ok {
		c.log.Warn("non-numeric argument treated as number", "command", cmd, "arg", tok, "value", n)
	}
	return n
}
