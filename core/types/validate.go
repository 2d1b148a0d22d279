package types

import (
	"fmt"
	"strings"
)

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

// ValidateAccountName enforces the account name grammar: 3-63 characters,
// lowercase, first character a letter, last character a letter or digit,
// interior characters letters, digits, '-' or '.', with no ".." or "--"
// runs.
func ValidateAccountName(name string) error {
	if len(name) < MinAccountNameLength || len(name) > MaxAccountNameLength {
		return fmt.Errorf("account name %q must be %d-%d characters", name, MinAccountNameLength, MaxAccountNameLength)
	}
	if !isLower(name[0]) {
		return fmt.Errorf("account name %q must start with a letter", name)
	}
	last := name[len(name)-1]
	if !isLower(last) && !isDigit(last) {
		return fmt.Errorf("account name %q must end with a letter or digit", name)
	}
	prev := byte(0)
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case isLower(c) || isDigit(c):
		case c == '-' || c == '.':
			if prev == c {
				return fmt.Errorf("account name %q repeats %q", name, string(c))
			}
		default:
			return fmt.Errorf("account name %q contains invalid character %q", name, string(c))
		}
		prev = c
	}
	return nil
}

// ValidateAssetSymbol enforces the symbol grammar: 3-16 uppercase letters
// with at most one interior '.'.
func ValidateAssetSymbol(symbol string) error {
	if len(symbol) < MinSymbolLength || len(symbol) > MaxSymbolLength {
		return fmt.Errorf("asset symbol %q must be %d-%d characters", symbol, MinSymbolLength, MaxSymbolLength)
	}
	if symbol[0] == '.' || symbol[len(symbol)-1] == '.' {
		return fmt.Errorf("asset symbol %q may not begin or end with a dot", symbol)
	}
	if strings.Count(symbol, ".") > 1 {
		return fmt.Errorf("asset symbol %q may contain at most one dot", symbol)
	}
	for i := 0; i < len(symbol); i++ {
		c := symbol[i]
		if !isUpper(c) && c != '.' {
			return fmt.Errorf("asset symbol %q contains invalid character %q", symbol, string(c))
		}
	}
	return nil
}
