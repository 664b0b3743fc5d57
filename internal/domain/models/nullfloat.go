package models

import (
	"encoding/json"
	"strconv"
)

// NullFloat is a float64 that may be missing.
//
// A missing value (Valid == false) is distinct from 0.0. Business rules such as
// "ticket médio zero" depend on telling the two apart, so a zero Value with
// Valid == false must never be read as a real zero.
//
// JSON:
//   - missing → null
//   - present → number
type NullFloat struct {
	Value float64
	Valid bool
}

// Float returns a present NullFloat holding v.
func Float(v float64) NullFloat {
	return NullFloat{Value: v, Valid: true}
}

// Missing returns the missing NullFloat.
func Missing() NullFloat {
	return NullFloat{}
}

// Or returns the value when present, otherwise def.
func (n NullFloat) Or(def float64) float64 {
	if !n.Valid {
		return def
	}
	return n.Value
}

// String formats a present value with two decimals, or "-" when missing.
func (n NullFloat) String() string {
	if !n.Valid {
		return "-"
	}
	return strconv.FormatFloat(n.Value, 'f', 2, 64)
}

// MarshalJSON encodes a missing value as null.
func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// UnmarshalJSON decodes null as missing.
func (n *NullFloat) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = NullFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = Float(v)
	return nil
}
