package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrEmptyDate is returned by NormalizeDate for nil or blank values
var ErrEmptyDate = errors.New("empty date")

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NormalizeDate converts the date representations found in stored documents into a UTC time.
// Accepted inputs: time.Time, ISO-8601 strings (date-only strings are midnight UTC),
// Unix milliseconds, protobuf-style timestamps (AsTime) and serialized Firestore timestamp
// objects ({"seconds","nanoseconds"} or {"_seconds","_nanoseconds"}).
func NormalizeDate(v interface{}) (time.Time, error) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, ErrEmptyDate
	case time.Time:
		if val.IsZero() {
			return time.Time{}, ErrEmptyDate
		}
		return val.UTC(), nil
	case *time.Time:
		if val == nil {
			return time.Time{}, ErrEmptyDate
		}
		return NormalizeDate(*val)
	case DateValue:
		if val.IsEmpty() {
			return time.Time{}, ErrEmptyDate
		}
		if !val.Valid {
			return time.Time{}, fmt.Errorf("invalid date %q", val.Raw)
		}
		return val.Time, nil
	case string:
		return parseDateString(val)
	case []byte:
		return parseDateString(string(val))
	case int64:
		return time.UnixMilli(val).UTC(), nil
	case int:
		return time.UnixMilli(int64(val)).UTC(), nil
	case float64:
		return time.UnixMilli(int64(val)).UTC(), nil
	case interface{ AsTime() time.Time }:
		return val.AsTime().UTC(), nil
	case map[string]interface{}:
		return parseTimestampObject(val)
	default:
		return time.Time{}, fmt.Errorf("unsupported date type %T", v)
	}
}

func parseDateString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrEmptyDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

func parseTimestampObject(m map[string]interface{}) (time.Time, error) {
	secs, ok := m["seconds"]
	if !ok {
		secs, ok = m["_seconds"]
	}
	if !ok {
		return time.Time{}, fmt.Errorf("timestamp object without seconds")
	}
	nanos, ok := m["nanoseconds"]
	if !ok {
		nanos = m["_nanoseconds"]
	}

	s, err := toInt64(secs)
	if err != nil {
		return time.Time{}, err
	}
	n, _ := toInt64(nanos)
	return time.Unix(s, n).UTC(), nil
}

func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case json.Number:
		return n.Int64()
	case string:
		return strconv.ParseInt(n, 10, 64)
	default:
		return 0, fmt.Errorf("unsupported number type %T", v)
	}
}

// DateValue is a stored date that may be missing or unparseable.
// Raw keeps the original text of a value that could not be parsed.
type DateValue struct {
	Time  time.Time
	Raw   string
	Valid bool
}

// NewDate wraps a known-good time
func NewDate(t time.Time) DateValue {
	if t.IsZero() {
		return DateValue{}
	}
	return DateValue{Time: t.UTC(), Valid: true}
}

// ParseDateValue never fails: unparseable input is kept in Raw with Valid=false
func ParseDateValue(v interface{}) DateValue {
	t, err := NormalizeDate(v)
	if err == nil {
		return DateValue{Time: t, Valid: true}
	}
	if errors.Is(err, ErrEmptyDate) {
		return DateValue{}
	}
	return DateValue{Raw: fmt.Sprint(v)}
}

// IsEmpty reports whether no date was stored at all
func (d DateValue) IsEmpty() bool {
	return !d.Valid && d.Raw == ""
}

// Ptr returns the time or nil
func (d DateValue) Ptr() *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}

// DocumentValue encodes the date for the document store
func (d DateValue) DocumentValue() interface{} {
	switch {
	case d.Valid:
		return d.Time
	case d.Raw != "":
		return d.Raw
	default:
		return nil
	}
}

// Value implements driver.Valuer
func (d DateValue) Value() (driver.Value, error) {
	switch {
	case d.Valid:
		return d.Time.UTC().Format(time.RFC3339Nano), nil
	case d.Raw != "":
		return d.Raw, nil
	default:
		return nil, nil
	}
}

// Scan implements sql.Scanner
func (d *DateValue) Scan(src interface{}) error {
	*d = ParseDateValue(src)
	return nil
}

// MarshalJSON writes RFC 3339 or null; unparseable values are not exposed
func (d DateValue) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format(time.RFC3339))
}

// UnmarshalJSON accepts null, "" or any string NormalizeDate understands
func (d *DateValue) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t, err := NormalizeDate(raw)
	if errors.Is(err, ErrEmptyDate) {
		*d = DateValue{}
		return nil
	}
	if err != nil {
		return err
	}
	*d = DateValue{Time: t, Valid: true}
	return nil
}

// DaysBetween counts calendar days from start to end, rounding partial days up
func DaysBetween(start, end time.Time) int {
	if !end.After(start) {
		return 0
	}
	d := end.Sub(start)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// MonthKey formats the YYYY-MM bucket used to group sales
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}
