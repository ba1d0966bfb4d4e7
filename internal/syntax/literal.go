package syntax

import (
	"strconv"
	"strings"
)

// Int returns the value of an integer literal. A 0x, 0o or 0b prefix
// selects the base; any other literal is decimal, leading zeros
// included.
func (lit *BasicLit) Int() (int64, error) {
	raw := lit.Raw
	if len(raw) > 2 && raw[0] == '0' {
		switch strings.ToLower(raw[:2]) {
		case "0x", "0o", "0b":
			return strconv.ParseInt(raw, 0, 64)
		}
	}
	return strconv.ParseInt(raw, 10, 64)
}

// Float returns the value of a float literal.
func (lit *BasicLit) Float() (float64, error) {
	return strconv.ParseFloat(lit.Raw, 64)
}
