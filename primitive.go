package wiremap

import (
	"encoding/base64"
	"io"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	dateLayout    = "2006-01-02"
	rfc1123Layout = "Mon, 02 Jan 2006 15:04:05 GMT"
)

// iso8601Duration validates the shape of TimeSpan values such as
// "P123DT22H14M12.011S". The value is validated, never reformatted.
var iso8601Duration = regexp.MustCompile(
	`^[-+]?P(?:[-+]?[0-9,.]*Y)?(?:[-+]?[0-9,.]*M)?(?:[-+]?[0-9,.]*W)?(?:[-+]?[0-9,.]*D)?` +
		`(?:T(?:[-+]?[0-9,.]*H)?(?:[-+]?[0-9,.]*M)?(?:[-+]?[0-9,.]*S)?)?$`)

func serializePrimitive(m *Primitive, value any, objectName string) (any, error) {
	switch m.Kind {
	case KindAny, KindObject:
		return value, nil

	case KindNumber:
		if _, ok := toFloat(value); !ok {
			return nil, &TypeError{ObjectName: objectName, Value: value, Expected: "of type number"}
		}
		return value, nil

	case KindString:
		if _, ok := value.(string); !ok {
			return nil, &TypeError{ObjectName: objectName, Value: value, Expected: "of type string"}
		}
		return value, nil

	case KindBoolean:
		if _, ok := value.(bool); !ok {
			return nil, &TypeError{ObjectName: objectName, Value: value, Expected: "of type bool"}
		}
		return value, nil

	case KindUUID:
		str, ok := value.(string)
		if !ok || !isCanonicalUUID(str) {
			return nil, &TypeError{ObjectName: objectName, Value: value, Expected: "a valid UUID string"}
		}
		return value, nil

	case KindStream:
		switch value.(type) {
		case string, []byte, io.Reader, func() io.Reader:
			return value, nil
		}
		return nil, &TypeError{ObjectName: objectName, Value: value,
			Expected: "a string, byte slice, reader or reader producer"}

	case KindDate:
		t, ok := toTime(value)
		if !ok {
			return nil, &TypeError{ObjectName: objectName, Value: value,
				Expected: "a time.Time or an RFC 3339 string"}
		}
		// Day precision only.
		return t.UTC().Format(dateLayout), nil

	case KindDateTime:
		t, ok := toTime(value)
		if !ok {
			return nil, &TypeError{ObjectName: objectName, Value: value,
				Expected: "a time.Time or an RFC 3339 string"}
		}
		return t.UTC().Format(time.RFC3339), nil

	case KindDateTimeRFC1123:
		t, ok := toTime(value)
		if !ok {
			return nil, &TypeError{ObjectName: objectName, Value: value,
				Expected: "a time.Time or an RFC 3339 string"}
		}
		return t.UTC().Format(rfc1123Layout), nil

	case KindUnixTime:
		t, ok := toTime(value)
		if !ok {
			return nil, &TypeError{ObjectName: objectName, Value: value,
				Expected: "a time.Time or an RFC 3339 string"}
		}
		return t.Unix(), nil

	case KindTimeSpan:
		str, ok := value.(string)
		if !ok || !iso8601Duration.MatchString(str) {
			return nil, &TypeError{ObjectName: objectName, Value: value,
				Expected: "an ISO 8601 duration string"}
		}
		return value, nil

	case KindByteArray:
		b, ok := value.([]byte)
		if !ok {
			return nil, &TypeError{ObjectName: objectName, Value: value, Expected: "a byte slice"}
		}
		return base64.StdEncoding.EncodeToString(b), nil

	case KindBase64URL:
		b, ok := value.([]byte)
		if !ok {
			return nil, &TypeError{ObjectName: objectName, Value: value, Expected: "a byte slice"}
		}
		// Unpadded URL-safe alphabet: "+" and "/" become "-" and "_".
		return base64.RawURLEncoding.EncodeToString(b), nil
	}
	return nil, schemaErrorf("unknown primitive kind %d for %s", m.Kind, objectName)
}

func deserializePrimitive(m *Primitive, wire any, objectName string) (any, error) {
	switch m.Kind {
	case KindString, KindObject, KindStream, KindUUID, KindTimeSpan, KindAny:
		return wire, nil

	case KindNumber:
		if _, ok := toFloat(wire); ok {
			return wire, nil
		}
		if str, ok := wire.(string); ok {
			if f, err := strconv.ParseFloat(str, 64); err == nil {
				return f, nil
			}
		}
		// Unparsable numeric wire text deliberately falls back to the raw
		// value instead of failing.
		return wire, nil

	case KindBoolean:
		switch wire {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return wire, nil

	case KindDate, KindDateTime:
		return parseTimestamp(wire, objectName, time.RFC3339, dateLayout)

	case KindDateTimeRFC1123:
		return parseTimestamp(wire, objectName, rfc1123Layout, time.RFC1123)

	case KindUnixTime:
		seconds, ok := toFloat(wire)
		if !ok {
			str, sok := wire.(string)
			if !sok {
				return nil, &TypeError{ObjectName: objectName, Value: wire,
					Expected: "an integer count of seconds"}
			}
			f, err := strconv.ParseFloat(str, 64)
			if err != nil {
				return nil, &TypeError{ObjectName: objectName, Value: wire,
					Expected: "an integer count of seconds"}
			}
			seconds = f
		}
		// Zero reads as absent, not the epoch.
		if seconds == 0 {
			return nil, nil
		}
		return time.Unix(int64(seconds), 0).UTC(), nil

	case KindByteArray:
		str, ok := wire.(string)
		if !ok {
			return nil, &TypeError{ObjectName: objectName, Value: wire, Expected: "a base64 string"}
		}
		b, err := base64.StdEncoding.DecodeString(str)
		if err != nil {
			return nil, &TypeError{ObjectName: objectName, Value: wire, Expected: "a base64 string"}
		}
		return b, nil

	case KindBase64URL:
		str, ok := wire.(string)
		if !ok {
			return nil, &TypeError{ObjectName: objectName, Value: wire, Expected: "a base64url string"}
		}
		b, err := base64.RawURLEncoding.DecodeString(str)
		if err != nil {
			return nil, &TypeError{ObjectName: objectName, Value: wire, Expected: "a base64url string"}
		}
		return b, nil
	}
	return nil, schemaErrorf("unknown primitive kind %d for %s", m.Kind, objectName)
}

func serializeEnum(m *Enum, value any, objectName string) (any, error) {
	if len(m.AllowedValues) == 0 {
		return nil, schemaErrorf("enum mapper for %s declares no allowed values", objectName)
	}
	ok := lo.ContainsBy(m.AllowedValues, func(allowed any) bool {
		if as, isStr := allowed.(string); isStr {
			vs, vok := value.(string)
			return vok && strings.EqualFold(as, vs)
		}
		return reflect.DeepEqual(allowed, value)
	})
	if !ok {
		return nil, &EnumError{ObjectName: objectName, Value: value, Allowed: m.AllowedValues}
	}
	// Membership is case-insensitive but the original casing is preserved.
	return value, nil
}

func isCanonicalUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed, true
		}
		if parsed, err := time.Parse(dateLayout, t); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func parseTimestamp(wire any, objectName string, layouts ...string) (any, error) {
	if t, ok := wire.(time.Time); ok {
		return t, nil
	}
	str, ok := wire.(string)
	if !ok {
		return nil, &TypeError{ObjectName: objectName, Value: wire, Expected: "a timestamp string"}
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, str); err == nil {
			return t, nil
		}
	}
	return nil, &TypeError{ObjectName: objectName, Value: wire, Expected: "a timestamp string"}
}
