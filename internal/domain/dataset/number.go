package dataset

import (
	"bytes"
	"errors"
	"math"
	"strconv"
	"strings"
)

var errNotNumeric = errors.New("not numeric")

// flexNumber accepts a JSON number or a numeric string.
type flexNumber struct {
	raw     string
	present bool
}

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	n.present = true
	if len(b) > 0 && b[0] == '"' {
		s, err := strconv.Unquote(string(b))
		if err != nil {
			return err
		}
		n.raw = strings.TrimSpace(s)
		return nil
	}
	n.raw = string(b)
	return nil
}

func (n flexNumber) missing() bool {
	return !n.present || n.raw == ""
}

func (n flexNumber) float() (float64, error) {
	f, err := strconv.ParseFloat(n.raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotNumeric
	}
	return f, nil
}

func (n flexNumber) int() (int, error) {
	f, err := n.float()
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, errNotNumeric
	}
	return int(f), nil
}
