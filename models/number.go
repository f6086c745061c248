package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Number is a float that also decodes from numeric strings such as "180" or
// "72.5 kg". Form inputs post their raw string values.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	f, err := decodeNumeric(b)
	if err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// Count is the integer counterpart of Number; fractions are truncated.
type Count int

func (c *Count) UnmarshalJSON(b []byte) error {
	f, err := decodeNumeric(b)
	if err != nil {
		return err
	}
	*c = Count(f)
	return nil
}

// decodeNumeric accepts a JSON number, null, or a string whose leading part is
// a decimal number. Empty strings decode to 0.
func decodeNumeric(b []byte) (float64, error) {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		return f, nil
	}
	if string(b) == "null" {
		return 0, nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return 0, err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || s[end] == '.' || (end == 0 && (s[0] == '-' || s[0] == '+'))) {
		end++
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return f, nil
}
