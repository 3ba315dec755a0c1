package persistence

import (
	"bytes"
	"encoding/gob"
	"time"

	"github.com/petrijr/aslflow/pkg/api"
)

// definitionPayload is the wire form of a StoredDefinition in key-value
// backends.
type definitionPayload struct {
	Name        string
	Revision    string
	Fingerprint string
	Document    string
	CreatedAtNs int64
}

// EncodeDefinition serializes def using encoding/gob.
func EncodeDefinition(def api.StoredDefinition) ([]byte, error) {
	payload := definitionPayload{
		Name:        def.Name,
		Revision:    def.Revision,
		Fingerprint: def.Fingerprint,
		Document:    def.Document,
		CreatedAtNs: def.CreatedAt.UTC().UnixNano(),
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&payload); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeDefinition is the inverse of EncodeDefinition. Empty input means
// the definition does not exist.
func DecodeDefinition(data []byte) (api.StoredDefinition, error) {
	if len(data) == 0 {
		return api.StoredDefinition{}, ErrDefinitionNotFound
	}
	var payload definitionPayload
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&payload); err != nil {
		return api.StoredDefinition{}, err
	}
	return api.StoredDefinition{
		Name:        payload.Name,
		Revision:    payload.Revision,
		Fingerprint: payload.Fingerprint,
		Document:    payload.Document,
		CreatedAt:   time.Unix(0, payload.CreatedAtNs).UTC(),
	}, nil
}
