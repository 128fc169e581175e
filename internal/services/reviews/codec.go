package reviews

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	perr "reviewflow/internal/platform/errors"
	"reviewflow/internal/platform/net/http/bind"
)

// Decode parses and validates a single record
// parse and validation failures are the malformed-input class, callers
// soft-skip them rather than failing the invocation
func Decode(b []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return Record{}, perr.JSONErrf("invalid review record: %v", err)
	}
	if err := bind.Struct(&rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Encode renders a record as canonical UTF-8 JSON
// field order is fixed by the struct so repeated encodes are byte-identical
func Encode(rec Record) ([]byte, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, perr.JSONErrf("encode review record: %v", err)
	}
	return b, nil
}

// DecodeBatch splits a batch payload into raw per-record messages
// accepts a JSON array or line-delimited JSON, records are returned
// unparsed so a bad element cannot abort its siblings
func DecodeBatch(b []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimLeft(b, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var out []json.RawMessage
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return nil, perr.JSONErrf("invalid batch array: %v", err)
		}
		return out, nil
	}

	// JSONL fallback, one record per non-blank line
	var out []json.RawMessage
	for _, line := range bytes.Split(b, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		out = append(out, json.RawMessage(line))
	}
	return out, nil
}

// SplitKey derives the deterministic object key for record i of a batch
// an embedded review id wins, otherwise the key is the batch key with a
// zero-padded position suffix, repeated runs over the same batch always
// produce the same keys
func SplitKey(batchKey string, i int, rec Record) string {
	if rec.ReviewID != "" {
		return rec.ReviewID + ".json"
	}
	base := strings.TrimSuffix(batchKey, path.Ext(batchKey))
	return fmt.Sprintf("%s-%06d.json", base, i)
}
