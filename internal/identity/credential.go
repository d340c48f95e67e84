package identity

import (
	"encoding/json"
	"strings"

	dErrors "guardpost/pkg/domain-errors"
)

// The session credential format changed twice over the system's lifetime:
// first a bare numeric id, then a JSON-encoded id string, now a JSON identity
// object. Old cookies must keep working, so decoding tries each format in
// order instead of recovering from parse failures ad hoc.

// credentialDecoder attempts to interpret a raw credential as one historical
// format. It reports ok=false when the credential is not in that format.
type credentialDecoder struct {
	name   string
	decode func(raw string) (Identity, bool)
}

var credentialDecoders = []credentialDecoder{
	{"json-number", decodeJSONNumber},
	{"json-string", decodeJSONString},
	{"json-object", decodeJSONObject},
	{"raw-id", decodeRawID},
}

// DecodeCredential resolves a session credential into an Identity. Every
// input yields either an identity with a non-empty id or a bad_credential
// domain error; it never panics.
func DecodeCredential(raw string) (Identity, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Identity{}, dErrors.New(dErrors.CodeBadCredential, "session credential is empty")
	}

	for _, dec := range credentialDecoders {
		id, ok := dec.decode(trimmed)
		if !ok {
			continue
		}
		// Canonical ids carry no surrounding whitespace, whichever encoding
		// delivered them.
		id.ID = strings.TrimSpace(id.ID)
		if id.ID == "" {
			return Identity{}, dErrors.New(dErrors.CodeBadCredential, "session credential carries no reviewer id")
		}
		return id, nil
	}

	// Valid JSON of a shape no format ever used (array, bool, null).
	return Identity{}, dErrors.New(dErrors.CodeBadCredential, "unrecognized session credential format")
}

// decodeJSONNumber handles the legacy bare numeric id, e.g. 42.
func decodeJSONNumber(raw string) (Identity, bool) {
	var n json.Number
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		return Identity{}, false
	}
	return Identity{ID: n.String()}, true
}

// decodeJSONString handles the JSON-encoded id string, e.g. "42".
func decodeJSONString(raw string) (Identity, bool) {
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Identity{}, false
	}
	return Identity{ID: s}, true
}

// decodeJSONObject handles the current identity object,
// e.g. {"id":"42","username":"ana"}.
func decodeJSONObject(raw string) (Identity, bool) {
	if !strings.HasPrefix(raw, "{") {
		return Identity{}, false
	}
	var id Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return Identity{}, false
	}
	return id, true
}

// decodeRawID treats anything that is not JSON at all as a bare id,
// e.g. a plain cookie value written before credentials were encoded.
func decodeRawID(raw string) (Identity, bool) {
	if json.Valid([]byte(raw)) {
		return Identity{}, false
	}
	return Identity{ID: raw}, true
}
