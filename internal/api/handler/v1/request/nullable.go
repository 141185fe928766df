package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/aya-platform/volunteer-hub/internal/domain"
)

var (
	errNotANumber = errors.New("must be a whole number")
	errNotADate   = errors.New("must be a date in YYYY-MM-DD format")
)

// NullableInt accepts a number, a numeric string, an empty string or null.
// Empty strings become null.
type NullableInt struct {
	Value *int
}

func (n *NullableInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		n.Value = nil
		return nil
	}

	var v int
	if err := json.Unmarshal(data, &v); err == nil {
		n.Value = &v
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errNotANumber
	}

	return n.UnmarshalParam(s)
}

// UnmarshalParam is used by gin for form and query binding.
func (n *NullableInt) UnmarshalParam(param string) error {
	param = strings.TrimSpace(param)
	if param == "" {
		n.Value = nil
		return nil
	}

	v, err := strconv.Atoi(param)
	if err != nil {
		return errNotANumber
	}
	n.Value = &v

	return nil
}

// NullableDate accepts a YYYY-MM-DD string, an empty string or null.
type NullableDate struct {
	Value *time.Time
}

func (d *NullableDate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		d.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errNotADate
	}

	return d.UnmarshalParam(s)
}

func (d *NullableDate) UnmarshalParam(param string) error {
	param = strings.TrimSpace(param)
	if param == "" {
		d.Value = nil
		return nil
	}

	t, err := time.Parse(domain.DateLayout, param)
	if err != nil {
		return errNotADate
	}
	d.Value = &t

	return nil
}
