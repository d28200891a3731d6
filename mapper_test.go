package wiremap

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	r := require.New(t)

	r.Equal("Number", KindNumber.String())
	r.Equal("DateTimeRfc1123", KindDateTimeRFC1123.String())
	r.Equal("Base64Url", KindBase64URL.String())
	r.Equal("any", KindAny.String())
	r.Equal("Unknown", Kind(200).String())
}

func TestNullMarshalsAsJSONNull(t *testing.T) {
	r := require.New(t)

	data, err := json.Marshal(map[string]any{"v": Null{}})
	r.NoError(err)
	r.JSONEq(`{"v":null}`, string(data))
}

func TestLegacyDiscriminator(t *testing.T) {
	r := require.New(t)

	d := LegacyDiscriminator("kind")
	r.Equal("kind", d.SerializedName)
	r.Equal("kind", d.ClientName)
}

func TestPropertiesPreserveInsertionOrder(t *testing.T) {
	r := require.New(t)

	props := NewProperties(
		Prop("c", strProp("c")),
		Prop("a", strProp("a")),
		Prop("b", strProp("b")),
	)

	var keys []string
	for pair := props.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	r.Equal([]string{"c", "a", "b"}, keys)
}
