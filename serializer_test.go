package wiremap

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSerialize_RequiredNullableContract(t *testing.T) {
	s := NewSerializer(nil)

	t.Run("required and nullable accepts explicit null but not absence", func(t *testing.T) {
		r := require.New(t)
		m := &Primitive{Base: Base{SerializedName: "count", Required: true, Nullable: Bool(true)}, Kind: KindNumber}

		out, err := s.Serialize(m, Null{}, "")
		r.NoError(err)
		r.Equal(Null{}, out)

		_, err = s.Serialize(m, nil, "")
		var absErr *AbsenceError
		r.ErrorAs(err, &absErr)
		r.Equal("count", absErr.ObjectName)
		r.Contains(absErr.Error(), "cannot be undefined")
	})

	t.Run("required without nullable rejects both", func(t *testing.T) {
		r := require.New(t)
		m := &Primitive{Base: Base{SerializedName: "count", Required: true}, Kind: KindNumber}

		_, err := s.Serialize(m, nil, "")
		r.ErrorContains(err, "cannot be null or undefined")

		_, err = s.Serialize(m, Null{}, "")
		r.ErrorContains(err, "cannot be null or undefined")
	})

	t.Run("optional non-nullable rejects exactly null", func(t *testing.T) {
		r := require.New(t)
		m := &Primitive{Base: Base{SerializedName: "count", Nullable: Bool(false)}, Kind: KindNumber}

		out, err := s.Serialize(m, nil, "")
		r.NoError(err)
		r.Nil(out)

		_, err = s.Serialize(m, Null{}, "")
		r.ErrorContains(err, "cannot be null")
	})

	t.Run("optional with nullable unset accepts both", func(t *testing.T) {
		r := require.New(t)
		m := &Primitive{Base: Base{SerializedName: "count"}, Kind: KindNumber}

		out, err := s.Serialize(m, nil, "")
		r.NoError(err)
		r.Nil(out)

		out, err = s.Serialize(m, Null{}, "")
		r.NoError(err)
		r.Equal(Null{}, out)
	})

	t.Run("contract applies on deserialize too", func(t *testing.T) {
		r := require.New(t)
		m := &Primitive{Base: Base{SerializedName: "count", Required: true}, Kind: KindNumber}

		_, err := s.Deserialize(m, nil, "")
		r.ErrorContains(err, "cannot be null or undefined")
	})
}

func TestSerialize_Defaults(t *testing.T) {
	s := NewSerializer(nil)

	t.Run("default fills an absent value", func(t *testing.T) {
		r := require.New(t)
		m := &Primitive{Base: Base{SerializedName: "tier", DefaultValue: "standard"}, Kind: KindString}

		out, err := s.Serialize(m, nil, "")
		r.NoError(err)
		r.Equal("standard", out)
	})

	t.Run("default does not replace an explicit null", func(t *testing.T) {
		r := require.New(t)
		m := &Primitive{Base: Base{SerializedName: "tier", DefaultValue: "standard"}, Kind: KindString}

		out, err := s.Serialize(m, Null{}, "")
		r.NoError(err)
		r.Equal(Null{}, out)
	})

	t.Run("default satisfies required", func(t *testing.T) {
		r := require.New(t)
		m := &Primitive{Base: Base{SerializedName: "tier", Required: true, DefaultValue: "standard"}, Kind: KindString}

		out, err := s.Serialize(m, nil, "")
		r.NoError(err)
		r.Equal("standard", out)
	})
}

func TestDeserialize_ConstantAlwaysWins(t *testing.T) {
	r := require.New(t)
	s := NewSerializer(nil)
	m := &Primitive{Base: Base{SerializedName: "apiVersion", Constant: true, DefaultValue: "2020-06-01"}, Kind: KindString}

	out, err := s.Deserialize(m, "1999-01-01", "")
	r.NoError(err)
	r.Equal("2020-06-01", out)

	out, err = s.Deserialize(m, nil, "")
	r.NoError(err)
	r.Equal("2020-06-01", out)
}

func TestSerialize_ScalarTypeChecks(t *testing.T) {
	s := NewSerializer(nil)

	t.Run("number accepts any numeric host type", func(t *testing.T) {
		r := require.New(t)
		m := &Primitive{Base: Base{SerializedName: "n"}, Kind: KindNumber}

		out, err := s.Serialize(m, 42, "")
		r.NoError(err)
		r.Equal(42, out)

		out, err = s.Serialize(m, 2.5, "")
		r.NoError(err)
		r.Equal(2.5, out)

		out, err = s.Serialize(m, int64(7), "")
		r.NoError(err)
		r.Equal(int64(7), out)

		_, err = s.Serialize(m, "42", "")
		var typeErr *TypeError
		r.ErrorAs(err, &typeErr)
		r.Contains(typeErr.Error(), "must be of type number")
	})

	t.Run("string and boolean are strict", func(t *testing.T) {
		r := require.New(t)

		_, err := s.Serialize(&Primitive{Base: Base{SerializedName: "s"}, Kind: KindString}, 1, "")
		r.ErrorContains(err, "must be of type string")

		_, err = s.Serialize(&Primitive{Base: Base{SerializedName: "b"}, Kind: KindBoolean}, "true", "")
		r.ErrorContains(err, "must be of type bool")

		out, err := s.Serialize(&Primitive{Base: Base{SerializedName: "b"}, Kind: KindBoolean}, true, "")
		r.NoError(err)
		r.Equal(true, out)
	})

	t.Run("uuid requires the canonical form", func(t *testing.T) {
		r := require.New(t)
		m := &Primitive{Base: Base{SerializedName: "id"}, Kind: KindUUID}

		out, err := s.Serialize(m, "12345678-1234-1234-1234-123456789abc", "")
		r.NoError(err)
		r.Equal("12345678-1234-1234-1234-123456789abc", out)

		_, err = s.Serialize(m, "urn:uuid:12345678-1234-1234-1234-123456789abc", "")
		r.ErrorContains(err, "valid UUID")

		_, err = s.Serialize(m, "not-a-uuid", "")
		r.ErrorContains(err, "valid UUID")
	})

	t.Run("timespan validates ISO 8601 durations without reformatting", func(t *testing.T) {
		r := require.New(t)
		m := &Primitive{Base: Base{SerializedName: "ttl"}, Kind: KindTimeSpan}

		out, err := s.Serialize(m, "P123DT22H14M12.011S", "")
		r.NoError(err)
		r.Equal("P123DT22H14M12.011S", out)

		_, err = s.Serialize(m, "5 minutes", "")
		r.ErrorContains(err, "ISO 8601 duration")
	})

	t.Run("stream accepts bytes, strings and readers", func(t *testing.T) {
		r := require.New(t)
		m := &Primitive{Base: Base{SerializedName: "body"}, Kind: KindStream}

		out, err := s.Serialize(m, []byte("payload"), "")
		r.NoError(err)
		r.Equal([]byte("payload"), out)

		out, err = s.Serialize(m, strings.NewReader("payload"), "")
		r.NoError(err)
		r.NotNil(out)

		_, err = s.Serialize(m, 5, "")
		r.ErrorContains(err, "reader")
	})

	t.Run("any and object pass values through untouched", func(t *testing.T) {
		r := require.New(t)

		v := map[string]any{"free": "form"}
		out, err := s.Serialize(&Primitive{Base: Base{SerializedName: "x"}, Kind: KindAny}, v, "")
		r.NoError(err)
		r.Equal(v, out)

		out, err = s.Serialize(&Primitive{Base: Base{SerializedName: "x"}, Kind: KindObject}, v, "")
		r.NoError(err)
		r.Equal(v, out)
	})
}

func TestSerialize_Timestamps(t *testing.T) {
	s := NewSerializer(nil)
	in := time.Date(2017, 9, 8, 11, 21, 37, 0, time.UTC)

	t.Run("date keeps day precision only", func(t *testing.T) {
		r := require.New(t)
		out, err := s.Serialize(&Primitive{Base: Base{SerializedName: "d"}, Kind: KindDate}, in, "")
		r.NoError(err)
		r.Equal("2017-09-08", out)
	})

	t.Run("datetime is RFC 3339 in UTC", func(t *testing.T) {
		r := require.New(t)
		shifted := in.In(time.FixedZone("plus2", 2*3600))
		out, err := s.Serialize(&Primitive{Base: Base{SerializedName: "d"}, Kind: KindDateTime}, shifted, "")
		r.NoError(err)
		r.Equal("2017-09-08T11:21:37Z", out)
	})

	t.Run("rfc1123 uses the GMT form", func(t *testing.T) {
		r := require.New(t)
		out, err := s.Serialize(&Primitive{Base: Base{SerializedName: "d"}, Kind: KindDateTimeRFC1123}, in, "")
		r.NoError(err)
		r.Equal("Fri, 08 Sep 2017 11:21:37 GMT", out)
	})

	t.Run("unix time is whole seconds", func(t *testing.T) {
		r := require.New(t)
		out, err := s.Serialize(&Primitive{Base: Base{SerializedName: "d"}, Kind: KindUnixTime}, in, "")
		r.NoError(err)
		r.Equal(in.Unix(), out)
	})

	t.Run("string inputs are accepted", func(t *testing.T) {
		r := require.New(t)
		out, err := s.Serialize(&Primitive{Base: Base{SerializedName: "d"}, Kind: KindDate}, "2017-09-08T11:21:37Z", "")
		r.NoError(err)
		r.Equal("2017-09-08", out)
	})
}

func TestDeserialize_Timestamps(t *testing.T) {
	s := NewSerializer(nil)

	t.Run("datetime parses RFC 3339", func(t *testing.T) {
		r := require.New(t)
		out, err := s.Deserialize(&Primitive{Base: Base{SerializedName: "d"}, Kind: KindDateTime}, "2017-09-08T11:21:37Z", "")
		r.NoError(err)
		r.True(time.Date(2017, 9, 8, 11, 21, 37, 0, time.UTC).Equal(out.(time.Time)))
	})

	t.Run("date parses bare dates", func(t *testing.T) {
		r := require.New(t)
		out, err := s.Deserialize(&Primitive{Base: Base{SerializedName: "d"}, Kind: KindDate}, "2017-09-08", "")
		r.NoError(err)
		r.True(time.Date(2017, 9, 8, 0, 0, 0, 0, time.UTC).Equal(out.(time.Time)))
	})

	t.Run("rfc1123 parses the GMT form", func(t *testing.T) {
		r := require.New(t)
		out, err := s.Deserialize(&Primitive{Base: Base{SerializedName: "d"}, Kind: KindDateTimeRFC1123}, "Fri, 08 Sep 2017 11:21:37 GMT", "")
		r.NoError(err)
		r.True(time.Date(2017, 9, 8, 11, 21, 37, 0, time.UTC).Equal(out.(time.Time)))
	})

	t.Run("unix time zero reads as absent", func(t *testing.T) {
		r := require.New(t)
		m := &Primitive{Base: Base{SerializedName: "d"}, Kind: KindUnixTime}

		out, err := s.Deserialize(m, 0, "")
		r.NoError(err)
		r.Nil(out)

		out, err = s.Deserialize(m, 1504869697, "")
		r.NoError(err)
		r.True(time.Unix(1504869697, 0).UTC().Equal(out.(time.Time)))
	})

	t.Run("garbage timestamps fail", func(t *testing.T) {
		r := require.New(t)
		_, err := s.Deserialize(&Primitive{Base: Base{SerializedName: "d"}, Kind: KindDateTime}, "yesterday", "")
		var typeErr *TypeError
		r.ErrorAs(err, &typeErr)
	})
}

func TestDeserialize_LenientScalars(t *testing.T) {
	s := NewSerializer(nil)

	t.Run("numeric wire text parses, unparsable text passes through raw", func(t *testing.T) {
		r := require.New(t)
		m := &Primitive{Base: Base{SerializedName: "n"}, Kind: KindNumber}

		out, err := s.Deserialize(m, 41, "")
		r.NoError(err)
		r.Equal(41, out)

		out, err = s.Deserialize(m, "3.5", "")
		r.NoError(err)
		r.Equal(3.5, out)

		out, err = s.Deserialize(m, "three", "")
		r.NoError(err)
		r.Equal("three", out)
	})

	t.Run("boolean literals convert, everything else passes through", func(t *testing.T) {
		r := require.New(t)
		m := &Primitive{Base: Base{SerializedName: "b"}, Kind: KindBoolean}

		out, err := s.Deserialize(m, "true", "")
		r.NoError(err)
		r.Equal(true, out)

		out, err = s.Deserialize(m, "false", "")
		r.NoError(err)
		r.Equal(false, out)

		out, err = s.Deserialize(m, true, "")
		r.NoError(err)
		r.Equal(true, out)

		out, err = s.Deserialize(m, "yes", "")
		r.NoError(err)
		r.Equal("yes", out)
	})
}

func TestBase64Codecs(t *testing.T) {
	s := NewSerializer(nil)
	// The standard encoding of these bytes is "+/+/", exercising both
	// alphabet substitutions of the URL-safe form.
	raw := []byte{0xfb, 0xff, 0xbf}

	t.Run("byte array uses padded standard base64", func(t *testing.T) {
		r := require.New(t)
		m := &Primitive{Base: Base{SerializedName: "blob"}, Kind: KindByteArray}

		wire, err := s.Serialize(m, []byte("hello"), "")
		r.NoError(err)
		r.Equal("aGVsbG8=", wire)

		back, err := s.Deserialize(m, wire, "")
		r.NoError(err)
		r.Equal([]byte("hello"), back)
	})

	t.Run("base64url uses the unpadded url-safe alphabet", func(t *testing.T) {
		r := require.New(t)
		m := &Primitive{Base: Base{SerializedName: "blob"}, Kind: KindBase64URL}

		wire, err := s.Serialize(m, raw, "")
		r.NoError(err)
		r.Equal("-_-_", wire)

		back, err := s.Deserialize(m, wire, "")
		r.NoError(err)
		r.Equal(raw, back)
	})

	t.Run("corrupt wire text fails with a type error", func(t *testing.T) {
		r := require.New(t)

		_, err := s.Deserialize(&Primitive{Base: Base{SerializedName: "blob"}, Kind: KindByteArray}, "!!!", "")
		var typeErr *TypeError
		r.ErrorAs(err, &typeErr)

		_, err = s.Deserialize(&Primitive{Base: Base{SerializedName: "blob"}, Kind: KindBase64URL}, "+/+/", "")
		r.ErrorAs(err, &typeErr)
	})
}

func TestEnum(t *testing.T) {
	s := NewSerializer(nil)

	t.Run("membership is case-insensitive, casing preserved", func(t *testing.T) {
		r := require.New(t)
		m := &Enum{Base: Base{SerializedName: "color"}, AllowedValues: []any{"Red", "Blue"}}

		out, err := s.Serialize(m, "red", "")
		r.NoError(err)
		r.Equal("red", out)

		_, err = s.Serialize(m, "green", "")
		var enumErr *EnumError
		r.ErrorAs(err, &enumErr)
		r.Contains(enumErr.Error(), "valid values")
	})

	t.Run("non-string members compare by deep equality", func(t *testing.T) {
		r := require.New(t)
		m := &Enum{Base: Base{SerializedName: "level"}, AllowedValues: []any{1, 2, 3}}

		out, err := s.Serialize(m, 2, "")
		r.NoError(err)
		r.Equal(2, out)

		_, err = s.Serialize(m, 9, "")
		r.Error(err)
	})

	t.Run("deserialize does not re-validate membership", func(t *testing.T) {
		r := require.New(t)
		m := &Enum{Base: Base{SerializedName: "color"}, AllowedValues: []any{"Red", "Blue"}}

		out, err := s.Deserialize(m, "Chartreuse", "")
		r.NoError(err)
		r.Equal("Chartreuse", out)
	})

	t.Run("an enum without members is a configuration error", func(t *testing.T) {
		r := require.New(t)
		_, err := s.Serialize(&Enum{Base: Base{SerializedName: "color"}}, "red", "")
		r.ErrorIs(err, ErrSchema)
	})
}

func TestObjectNameDefaultsToSerializedName(t *testing.T) {
	r := require.New(t)
	s := NewSerializer(nil)
	m := &Primitive{Base: Base{SerializedName: "retryAfter", Required: true}, Kind: KindNumber}

	_, err := s.Serialize(m, nil, "")
	r.ErrorContains(err, "retryAfter")

	_, err = s.Serialize(m, nil, "options.retryAfter")
	r.ErrorContains(err, "options.retryAfter")
}
