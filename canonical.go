package wiremap

import (
	"encoding/json"
	"fmt"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
)

// MarshalCanonical renders a serialized wire tree as canonical JSON
// (RFC 8785), byte-stable across map key order. Use it when serialized
// payloads are compared, hashed or signed.
func MarshalCanonical(wire any) ([]byte, error) {
	data, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("could not encode wire value: %w", err)
	}
	canonical, err := jsoncanonicalizer.Transform(data)
	if err != nil {
		return nil, fmt.Errorf("could not canonicalize wire value: %w", err)
	}
	return canonical, nil
}
