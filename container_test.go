package wiremap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSequence_Serialize(t *testing.T) {
	s := NewSerializer(nil)
	m := &Sequence{
		Base:    Base{SerializedName: "names"},
		Element: &Primitive{Base: Base{SerializedName: "names"}, Kind: KindString},
	}

	t.Run("typed slices work through reflection", func(t *testing.T) {
		r := require.New(t)
		out, err := s.Serialize(m, []string{"a", "b"}, "")
		r.NoError(err)
		r.Equal([]any{"a", "b"}, out)
	})

	t.Run("non-list values fail", func(t *testing.T) {
		r := require.New(t)
		_, err := s.Serialize(m, "a", "")
		var typeErr *TypeError
		r.ErrorAs(err, &typeErr)
		r.Contains(typeErr.Error(), "must be an array")
	})

	t.Run("element errors carry the sequence object name", func(t *testing.T) {
		r := require.New(t)
		_, err := s.Serialize(m, []any{"a", 1}, "request.names")
		r.ErrorContains(err, "request.names")
	})

	t.Run("missing element mapper is a configuration error", func(t *testing.T) {
		r := require.New(t)
		_, err := s.Serialize(&Sequence{Base: Base{SerializedName: "names"}}, []any{}, "")
		r.ErrorIs(err, ErrSchema)
	})
}

func TestSequence_DeserializeWrapsBareValues(t *testing.T) {
	r := require.New(t)
	s := NewSerializer(nil)
	m := &Sequence{
		Base:    Base{SerializedName: "names"},
		Element: &Primitive{Base: Base{SerializedName: "names"}, Kind: KindString},
	}

	out, err := s.Deserialize(m, "solo", "")
	r.NoError(err)
	r.Equal([]any{"solo"}, out)

	out, err = s.Deserialize(m, []any{"a", "b"}, "")
	r.NoError(err)
	r.Equal([]any{"a", "b"}, out)
}

func TestDictionary_Serialize(t *testing.T) {
	s := NewSerializer(nil)
	m := &Dictionary{
		Base:  Base{SerializedName: "metadata"},
		Value: &Primitive{Base: Base{SerializedName: "metadata"}, Kind: KindString},
	}

	t.Run("entries serialize by value mapper", func(t *testing.T) {
		r := require.New(t)
		out, err := s.Serialize(m, map[string]any{"a": "1", "b": "2"}, "")
		r.NoError(err)
		r.Equal(map[string]any{"a": "1", "b": "2"}, out)
	})

	t.Run("entry errors extend the object name with the key", func(t *testing.T) {
		r := require.New(t)
		_, err := s.Serialize(m, map[string]any{"owner": 7}, "blob.metadata")
		r.ErrorContains(err, "blob.metadata.owner")
	})

	t.Run("non-object values fail", func(t *testing.T) {
		r := require.New(t)
		_, err := s.Serialize(m, []any{"a"}, "")
		var typeErr *TypeError
		r.ErrorAs(err, &typeErr)
	})

	t.Run("missing value mapper is a configuration error", func(t *testing.T) {
		r := require.New(t)
		_, err := s.Serialize(&Dictionary{Base: Base{SerializedName: "metadata"}}, map[string]any{}, "")
		r.ErrorIs(err, ErrSchema)
	})
}

func TestDictionary_DeserializeTypedMaps(t *testing.T) {
	r := require.New(t)
	s := NewSerializer(nil)
	m := &Dictionary{
		Base:  Base{SerializedName: "counts"},
		Value: &Primitive{Base: Base{SerializedName: "counts"}, Kind: KindNumber},
	}

	out, err := s.Deserialize(m, map[string]int{"a": 1}, "")
	r.NoError(err)
	r.Equal(map[string]any{"a": 1}, out)
}
