package mapi

import (
	"encoding/json"
	"fmt"
)

// masked is the only rendering of a Secret outside of wire use.
const masked = "***"

// Secret holds a sensitive string (password, private key, access token).
// Its String and Format renderings are always masked so a Secret can never
// reach a log line or error message by accident; the real value is only
// reachable through Value and JSON marshalling.
type Secret struct {
	value string
}

// NewSecret wraps a sensitive value.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// Value returns the real secret value.
func (s Secret) Value() string {
	return s.value
}

// IsZero reports whether the secret is empty.
func (s Secret) IsZero() bool {
	return s.value == ""
}

// String implements fmt.Stringer with a masked placeholder.
func (s Secret) String() string {
	return masked
}

// Format ensures every fmt verb renders the mask, including %v, %s and %q.
func (s Secret) Format(f fmt.State, verb rune) {
	if verb == 'q' {
		fmt.Fprintf(f, "%q", masked)

		return
	}

	fmt.Fprint(f, masked)
}

// MarshalJSON serializes the real value; secrets only cross the process
// boundary on the wire or into the credential store.
func (s Secret) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.value)
}

// UnmarshalJSON reads the real value.
func (s *Secret) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &s.value)
}
