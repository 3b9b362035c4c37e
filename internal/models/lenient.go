package models

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// Amount is a monetary value that decodes leniently: numbers and numeric
// strings are parsed, everything else (null, booleans, objects, garbage)
// becomes zero. Decoding an Amount never fails.
type Amount struct {
	decimal.Decimal
}

func NewAmount(v float64) Amount {
	return Amount{decimal.NewFromFloat(v)}
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	a.Decimal = parseAmount(b)
	return nil
}

func parseAmount(b []byte) decimal.Decimal {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		return decimal.Zero
	}
	if s[0] == '"' {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return decimal.Zero
		}
		s = strings.TrimSpace(unq)
		if s == "" {
			return decimal.Zero
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ObjectID is a document id. Numbers keep their literal text; any other
// non-string value decodes as "".
type ObjectID string

func (id *ObjectID) UnmarshalJSON(b []byte) error {
	*id = ObjectID(looseString(b, true))
	return nil
}

// UnmarshalJSON reads a status string; a mistyped value decodes as "".
func (s *OrderStatus) UnmarshalJSON(b []byte) error {
	*s = OrderStatus(looseString(b, false))
	return nil
}

// UnmarshalJSON reads a payment status string; a mistyped value decodes as ""
// and is later counted as unpaid.
func (s *PaymentStatus) UnmarshalJSON(b []byte) error {
	*s = PaymentStatus(looseString(b, false))
	return nil
}

func looseString(b []byte, numbers bool) string {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return ""
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return ""
		}
		return s
	}
	if numbers && (b[0] == '-' || (b[0] >= '0' && b[0] <= '9')) {
		return string(b)
	}
	return ""
}

// Timestamp is a createdAt value. Valid is false when the source was missing
// or could not be parsed; such orders are left out of day buckets.
//
// Strings without an offset are wall-clock values: Time holds them as UTC
// fields and In resolves them in the viewer's zone.
type Timestamp struct {
	Time  time.Time
	Valid bool
	wall  bool
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t, Valid: true}
}

const wallLayout = "2006-01-02T15:04:05.999999999"

// Layouts accepted for string timestamps, most specific first. Only the
// first two carry an offset.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	wallLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// In returns the instant in loc. A wall-clock value is read as local time
// in loc.
func (t Timestamp) In(loc *time.Location) time.Time {
	if !t.wall {
		return t.Time.In(loc)
	}
	y, m, d := t.Time.Date()
	h, mi, s := t.Time.Clock()
	return time.Date(y, m, d, h, mi, s, t.Time.Nanosecond(), loc)
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	*t = parseTimestamp(b)
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	if t.wall {
		return json.Marshal(t.Time.Format(wallLayout))
	}
	return json.Marshal(t.Time)
}

func parseTimestamp(b []byte) Timestamp {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return Timestamp{}
	}

	if b[0] != '"' {
		// epoch milliseconds
		ms, err := strconv.ParseInt(string(b), 10, 64)
		if err != nil {
			return Timestamp{}
		}
		return NewTimestamp(time.UnixMilli(ms))
	}

	s, err := strconv.Unquote(string(b))
	if err != nil {
		return Timestamp{}
	}
	s = strings.TrimSpace(s)

	for i, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		ts := NewTimestamp(parsed)
		ts.wall = i >= 2
		return ts
	}
	// a bare date is UTC midnight
	if parsed, err := time.Parse(time.DateOnly, s); err == nil {
		return NewTimestamp(parsed)
	}
	return Timestamp{}
}

// UnmarshalJSON accepts a populated product object or a bare id string (an
// unpopulated reference). Any other shape, or an object with mistyped fields,
// yields an empty reference.
func (p *ProductRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) > 0 && b[0] == '"':
		*p = ProductRef{}
		return json.Unmarshal(b, &p.ID)
	case len(b) > 0 && b[0] == '{':
		type plain ProductRef
		var v plain
		if err := json.Unmarshal(b, &v); err != nil {
			v = plain{}
		}
		*p = ProductRef(v)
		return nil
	default:
		*p = ProductRef{}
		return nil
	}
}
