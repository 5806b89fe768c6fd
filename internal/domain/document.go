package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DocumentFilename is the name under which exported collections are delivered.
const DocumentFilename = "quotes.json"

// EncodeDocument renders quotes as a pretty-printed JSON array.
func EncodeDocument(quotes []Quote) ([]byte, error) {
	if quotes == nil {
		quotes = []Quote{}
	}

	data, err := json.MarshalIndent(quotes, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding quotes document: %w", err)
	}

	return data, nil
}

// DecodeDocument parses an uploaded document. The top-level value must be a
// JSON array whose elements are objects; the fields of each element are not
// validated.
func DecodeDocument(data []byte) ([]Quote, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, NewMalformedError("document is empty", nil)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		var probe any
		if json.Unmarshal(trimmed, &probe) == nil {
			return nil, NewMalformedError("top-level value is not an array", nil)
		}

		return nil, NewMalformedError("invalid JSON", err)
	}

	quotes := make([]Quote, 0, len(raw))
	for i, elem := range raw {
		elem = bytes.TrimSpace(elem)
		if len(elem) == 0 || elem[0] != '{' {
			return nil, NewMalformedError(fmt.Sprintf("element %d is not an object", i), nil)
		}

		var q Quote
		if err := json.Unmarshal(elem, &q); err != nil {
			return nil, NewMalformedError(fmt.Sprintf("element %d", i), err)
		}

		quotes = append(quotes, q)
	}

	return quotes, nil
}
