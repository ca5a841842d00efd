package common

import "strings"

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// Used for passwords read from the terminal.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}

// TrimmedOrNil trims s and returns nil when nothing is left, so optional
// text fields are sent to the backend as JSON null instead of "".
func TrimmedOrNil(s string) *string {
	t := strings.TrimSpace(s)
	if t == "" {
		return nil
	}
	return &t
}
