package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateAccountName(t *testing.T) {
	valid := []string{
		"abc",
		"nathan",
		"sam.adams",
		"dot-and-dash",
		"a23456789012",
		"abcdefghijklmnopqrstuvwxyz-0123456789",
		"end9",
		strings.Repeat("a", 63),
	}
	for _, name := range valid {
		require.NoError(t, ValidateAccountName(name), "name %q", name)
	}

	invalid := []string{
		"",
		"!",
		"Sam",
		"6j",
		"j-",
		"-j",
		"aaaa.",
		".aaaa",
		"double..dot",
		"double--dash",
		"has space",
		"sh",
		strings.Repeat("a", 64),
		strings.Repeat("a", 120),
	}
	for _, name := range invalid {
		require.Error(t, ValidateAccountName(name), "name %q", name)
	}
}

func TestValidateAssetSymbol(t *testing.T) {
	valid := []string{
		"ABC",
		"TEST",
		"USD.BACKED",
		"ABCDEFGHIJKLMNOP",
	}
	for _, sym := range valid {
		require.NoError(t, ValidateAssetSymbol(sym), "symbol %q", sym)
	}

	invalid := []string{
		"",
		"A",
		"qqq",
		"11",
		"AB",
		".AAA",
		"AAA.",
		"AB CD",
		"A.B.C",
		"ABCDEFGHIJKLMNOPQ",
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ",
	}
	for _, sym := range invalid {
		require.Error(t, ValidateAssetSymbol(sym), "symbol %q", sym)
	}
}
