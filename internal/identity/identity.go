// Package identity resolves the reviewer behind a request. A session
// credential is decoded into an Identity, which may then be enriched with
// directory data. Identities are immutable once resolved for a request.
package identity

import "encoding/json"

// Identity is the resolved reviewer behind a session credential. ID is the
// stable external identifier; Username and GlobalName are optional directory
// data. Records embed the identity by value so they stay interpretable even
// if the directory entry later changes or disappears.
type Identity struct {
	ID         string `json:"id"`
	Username   string `json:"username,omitempty"`
	GlobalName string `json:"global_name,omitempty"`
}

// DisplayTag returns the human-readable tag for the reviewer: the username
// when the directory knows one, otherwise the raw id.
func (i Identity) DisplayTag() string {
	if i.Username != "" {
		return i.Username
	}
	return i.ID
}

// EncodeCredential serializes the identity into the current session
// credential format (a JSON object). Older formats are still accepted by
// DecodeCredential but never produced.
func (i Identity) EncodeCredential() string {
	b, err := json.Marshal(i)
	if err != nil {
		// Identity contains only strings; marshal cannot fail.
		return ""
	}
	return string(b)
}
