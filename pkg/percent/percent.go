// Package percent converts arbitrary bytes into tokens that are safe to use
// both as a URL path segment and as a filename, and back.
package percent

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

const upperhex = "0123456789ABCDEF"

var ErrDecode = errors.New("malformed percent-encoding")

// DecodeError reports a truncated or non-hex escape at Offset.
type DecodeError struct {
	Input  string
	Offset int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s at offset %d in %q", ErrDecode, e.Offset, e.Input)
}

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// Encode escapes every byte outside [A-Za-z0-9-_.~] as %XY.
func Encode(b []byte) string {
	escapes := 0
	for _, c := range b {
		if !unreserved(c) {
			escapes++
		}
	}
	if escapes == 0 {
		return string(b)
	}

	var sb strings.Builder
	sb.Grow(len(b) + 2*escapes)
	for _, c := range b {
		if unreserved(c) {
			sb.WriteByte(c)
		} else {
			sb.WriteByte('%')
			sb.WriteByte(upperhex[c>>4])
			sb.WriteByte(upperhex[c&15])
		}
	}
	return sb.String()
}

func EncodeString(s string) string {
	return Encode([]byte(s))
}

// Decode reverses Encode. Characters that are not part of an escape are
// copied as-is, so Decode also accepts input that Encode would never produce.
func Decode(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			out = append(out, s[i])
			continue
		}

		if i+2 >= len(s) {
			return nil, &DecodeError{Input: s, Offset: i}
		}
		hi, ok := unhex(s[i+1])
		if !ok {
			return nil, &DecodeError{Input: s, Offset: i}
		}
		lo, ok := unhex(s[i+2])
		if !ok {
			return nil, &DecodeError{Input: s, Offset: i}
		}
		out = append(out, hi<<4|lo)
		i += 2
	}
	return out, nil
}
