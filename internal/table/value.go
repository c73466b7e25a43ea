package table

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical persisted form of date values.
const DateLayout = "2006-01-02"

// FormatValue renders a scalar to its canonical string form. Nil renders as
// the empty string.
func FormatValue(kind Kind, value any) string {
	if value == nil {
		return ""
	}
	switch kind {
	case KindMoney:
		return value.(decimal.Decimal).StringFixed(2)
	case KindQuantity:
		return value.(decimal.Decimal).StringFixed(3)
	case KindDate:
		return value.(time.Time).Format(DateLayout)
	case KindInteger:
		return strconv.Itoa(value.(int))
	case KindBoolean:
		return strconv.FormatBool(value.(bool))
	default:
		return value.(string)
	}
}

// ParseValue is the inverse of FormatValue. The empty string parses to nil.
func ParseValue(kind Kind, raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}
	switch kind {
	case KindMoney, KindQuantity:
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s value %q: %w", kind, raw, err)
		}
		return d, nil
	case KindDate:
		t, err := time.Parse(DateLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("parse date value %q: %w", raw, err)
		}
		return t, nil
	case KindInteger:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("parse integer value %q: %w", raw, err)
		}
		return n, nil
	case KindBoolean:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("parse boolean value %q: %w", raw, err)
		}
		return b, nil
	default:
		return raw, nil
	}
}
