package wikiquery

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

type errorEnvelope struct {
	Error    *APIError       `json:"error"`
	ServedBy string          `json:"servedby"`
	Query    json.RawMessage `json:"query"`
}

// Decode parses a reply body. A server-side error envelope is returned as
// an *APIError; a body of the wrong shape, including one without a query
// object, as a *DecodeError. Absent lists, props, continuation, warnings
// and batchcomplete are not errors.
func Decode(data []byte) (*Response, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &DecodeError{Err: errors.New("body is not a JSON object")}
	}

	var env errorEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if env.Error != nil {
		env.Error.ServedBy = env.ServedBy
		return nil, env.Error
	}
	if query := bytes.TrimSpace(env.Query); len(query) == 0 || query[0] != '{' {
		return nil, &DecodeError{Err: errors.New("reply has no query object")}
	}

	var resp Response
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return &resp, nil
}

// DecodeReader reads r to the end and decodes it.
func DecodeReader(r io.Reader) (*Response, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return Decode(data)
}
