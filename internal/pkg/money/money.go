package money

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Currency is the platform-wide currency code. Every amount in the system is
// denominated in Moroccan dirham; there is no multi-currency support.
const Currency = "MAD"

// Amount is a monetary value in centimes (1/100 MAD). Amounts are stored in
// MySQL as DECIMAL(12,2) and travel through JSON as dirham numbers, so binary
// floats never reach storage.
type Amount int64

// FromMAD converts a dirham value (as received from JSON) to an Amount,
// rounding to the nearest centime.
func FromMAD(v float64) Amount {
	return Amount(math.Round(v * 100))
}

// MAD returns the value in dirhams.
func (a Amount) MAD() float64 { return float64(a) / 100 }

// String formats the amount as "1234.50 MAD".
func (a Amount) String() string {
	return fmt.Sprintf("%s %s", a.decimalString(), Currency)
}

func (a Amount) decimalString() string {
	neg := a < 0
	v := int64(a)
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%d.%02d", v/100, v%100)
	if neg {
		return "-" + s
	}
	return s
}

// GormDataType keeps the column a fixed-point decimal.
func (Amount) GormDataType() string { return "decimal(12,2)" }

func (a Amount) Value() (driver.Value, error) {
	return a.decimalString(), nil
}

func (a *Amount) Scan(value interface{}) error {
	if a == nil {
		return fmt.Errorf("money.Amount: Scan on nil pointer")
	}
	if value == nil {
		*a = 0
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return a.parseDecimal(string(v))
	case string:
		return a.parseDecimal(v)
	case int64:
		*a = Amount(v * 100)
		return nil
	case float64:
		*a = FromMAD(v)
		return nil
	default:
		return fmt.Errorf("money.Amount: unsupported Scan type %T", value)
	}
}

func (a *Amount) parseDecimal(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*a = 0
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("money.Amount: invalid decimal %q", raw)
	}
	*a = FromMAD(f)
	return nil
}

// MarshalJSON emits the dirham value as a plain JSON number with two decimals.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.decimalString()), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*a = FromMAD(f)
	return nil
}
