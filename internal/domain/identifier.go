package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Identifier is a catalog key that may be written as a JSON string or number.
// The textual form is preserved exactly, so "00123" never collapses to 123.
type Identifier string

// UnmarshalJSON accepts strings and numbers.
func (id *Identifier) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = Identifier(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("identifier must be a string or number: %w", err)
	}
	*id = Identifier(n.String())
	return nil
}

// Matches compares two identifiers as trimmed strings.
func (id Identifier) Matches(other string) bool {
	return strings.TrimSpace(string(id)) == strings.TrimSpace(other)
}

func (id Identifier) String() string {
	return strings.TrimSpace(string(id))
}
