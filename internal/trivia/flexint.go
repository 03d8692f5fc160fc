package trivia

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexInt accepts a JSON number or a numeric string. Browser forms post select
// values as strings, so both `2` and `"2"` decode to 2. Values must fit in 32
// bits to match the storage columns.
type FlexInt struct {
	Value int
	Valid bool
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = FlexInt{}
		return nil
	}

	var raw string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return ErrNotInteger
		}
		raw = strings.TrimSpace(raw)
	} else {
		raw = string(data)
	}

	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return ErrNotInteger
	}
	*f = FlexInt{Value: int(n), Valid: true}
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(f.Value)), nil
}
