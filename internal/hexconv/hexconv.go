package hexconv

// Halfbyte maps hex digits into their values. Any other character maps into 0xFF, so
// the check for validity of two digits at once may look like a|b > 0x0f.
var Halfbyte = func() (table [256]byte) {
	for i := range table {
		table[i] = 0xFF
	}

	for c := byte('0'); c <= '9'; c++ {
		table[c] = c - '0'
	}

	for c := byte('a'); c <= 'f'; c++ {
		table[c] = c - 'a' + 10
		table[c-'a'+'A'] = c - 'a' + 10
	}

	return table
}()
