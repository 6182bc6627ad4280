package dataprocessing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// CellFormatter converts a raw cell value into its normalized representation.
// A non-nil error means the raw value did not match the expected shape; the
// caller decides whether to keep the raw value or fail (MalformedValuePolicy).
type CellFormatter func(raw string) (string, error)

// MalformedValuePolicy controls what happens when a CellFormatter rejects a
// value.
type MalformedValuePolicy int

const (
	// KeepRawValue leaves the original value untouched and counts it as
	// flagged. This is the default: data is never thrown away silently.
	KeepRawValue MalformedValuePolicy = iota
	// FailOnMalformedValue aborts the parse on the first rejected value.
	FailOnMalformedValue
)

// trailingIdentifierRe matches a trailing parenthesized numeric identifier,
// e.g. the " (1234)" in "chrome.exe (1234)". The parenthetical must be purely
// numeric; "svc (Local Service)" is a legitimate name and stays intact.
var trailingIdentifierRe = regexp.MustCompile(`\s*\(\d+\)$`)

// StripTrailingIdentifier removes a trailing parenthesized numeric identifier
// and any whitespace before it. Values without such a suffix are returned
// unchanged.
func StripTrailingIdentifier(raw string) string {
	return trailingIdentifierRe.ReplaceAllString(raw, "")
}

// FormatHexByteSequence decodes a compact hex byte-sequence value: a leading
// byte-count field followed by whitespace-separated two-digit hex tokens in
// little-endian order. The bytes are reassembled most-significant first into a
// 0x-prefixed literal zero-padded to at least eight hex digits, longer
// sequences keeping two digits per token:
//
//	"00000004 e8 03 00 00" → "0x000003e8"
//	"00000002 2c 01"       → "0x0000012c"
//
// The byte count is parsed as hexadecimal, matching the rest of the sequence.
// An error is returned when the declared count does not match the token count
// or any token is not exactly two hex digits.
func FormatHexByteSequence(raw string) (string, error) {
	fields := strings.Fields(raw)
	if len(fields) < 2 {
		return "", fmt.Errorf("hex byte sequence %q: want byte count followed by byte tokens", raw)
	}

	declared, err := strconv.ParseUint(fields[0], 16, 32)
	if err != nil {
		return "", fmt.Errorf("hex byte sequence %q: invalid byte count %q", raw, fields[0])
	}

	tokens := fields[1:]
	if uint64(len(tokens)) != declared {
		return "", fmt.Errorf("hex byte sequence %q: declared %d bytes but found %d tokens", raw, declared, len(tokens))
	}

	var b strings.Builder
	b.Grow(2 + 2*len(tokens))
	b.WriteString("0x")
	for pad := 8 - 2*len(tokens); pad > 0; pad-- {
		b.WriteByte('0')
	}
	for i := len(tokens) - 1; i >= 0; i-- {
		tok := tokens[i]
		if len(tok) != 2 || !isHexByte(tok) {
			return "", fmt.Errorf("hex byte sequence %q: token %q is not two hex digits", raw, tok)
		}
		b.WriteString(strings.ToLower(tok))
	}
	return b.String(), nil
}

func isHexByte(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
