package domain

import (
	"bytes"
	"strconv"
)

// FlexFloat is a float64 that also accepts string-typed JSON numbers,
// as submitted by form-driven clients. Missing, empty or unparseable
// values decode to 0 rather than failing the whole payload.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		unquoted, err := strconv.Unquote(string(data))
		if err != nil {
			*f = 0
			return nil
		}
		data = bytes.TrimSpace([]byte(unquoted))
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexFloat(v)
	return nil
}

// Value returns the normalized float64.
func (f FlexFloat) Value() float64 { return float64(f) }

// FlexInt is the integer counterpart of FlexFloat. Fractional input is
// truncated toward zero.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	var v FlexFloat
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	*f = FlexInt(v)
	return nil
}

// Value returns the normalized int.
func (f FlexInt) Value() int { return int(f) }
