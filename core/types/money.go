// Package types - Money and identifier helpers
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// DisplayPlaces is the number of decimal places prices are shown with
const DisplayPlaces = 2

// FormatAmount renders an amount for display, rounded half away from zero to two places
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(DisplayPlaces)
}

// ParseAmount parses a backend price. The backend sends DecimalField values as
// strings; absent, null and empty values are zero.
func ParseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return decimal.Zero, nil
	}
	s := string(raw)
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// NormalizeID returns the canonical string form of an identifier.
// Integer forms (7, 7.0, "007", "7.00", json.Number("7")) all map to "7";
// any other string is returned trimmed. Unsupported kinds yield "".
func NormalizeID(v interface{}) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return normalizeIDString(id)
	case json.Number:
		return normalizeIDString(id.String())
	case int:
		return strconv.Itoa(id)
	case int32:
		return strconv.FormatInt(int64(id), 10)
	case int64:
		return strconv.FormatInt(id, 10)
	case uint:
		return strconv.FormatUint(uint64(id), 10)
	case uint64:
		return strconv.FormatUint(id, 10)
	case float64:
		if id == math.Trunc(id) && !math.IsInf(id, 0) {
			return strconv.FormatFloat(id, 'f', 0, 64)
		}
		return strconv.FormatFloat(id, 'f', -1, 64)
	case fmt.Stringer:
		return normalizeIDString(id.String())
	default:
		return ""
	}
}

func normalizeIDString(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	digits := s
	if whole, frac, ok := strings.Cut(s, "."); ok {
		if frac == "" || strings.Trim(frac, "0") != "" {
			return s
		}
		digits = whole
	}
	if n, err := strconv.ParseInt(digits, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	return s
}

// NumericID converts a canonical id to the integer the backend expects.
func NumericID(id string) (int, bool) {
	n, err := strconv.Atoi(NormalizeID(id))
	if err != nil {
		return 0, false
	}
	return n, true
}
