package types

import (
	"encoding/json"
	"fmt"
)

// ID is a server-assigned identity for a persisted resource. Backends are
// inconsistent about the JSON representation (some send numbers, some send
// strings), so ID accepts both and normalizes to a string.
type ID string

// UnmarshalJSON accepts both string and numeric JSON values.
func (id *ID) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty id")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}
