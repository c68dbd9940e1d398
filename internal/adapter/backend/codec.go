// Package backend implements the framed RPC channel to the DevFlow backend:
// a line-delimited JSON-RPC 2.0 codec and the two transport clients
// (subprocess stdio and TCP) that carry it.
package backend

import (
	"bytes"
	"encoding/json"
	"fmt"

	"devflow-shell/internal/domain"
)

const protocolVersion = "2.0"

// Request is one framed JSON-RPC request line.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      uint64          `json:"id"`
}

// Response is one framed JSON-RPC response line. Exactly one of Result and
// Error is present in a well-formed response.
type Response struct {
	JSONRPC string           `json:"jsonrpc"`
	Result  json.RawMessage  `json:"result,omitempty"`
	Error   *domain.RPCError `json:"error,omitempty"`
	ID      *uint64          `json:"id,omitempty"`
}

var jsonNull = []byte("null")

// EncodeRequest serializes one call into a newline-terminated request line.
// params may be any JSON-marshalable value; nil omits the field.
func EncodeRequest(method string, params any, id uint64) ([]byte, error) {
	req := Request{JSONRPC: protocolVersion, Method: method, ID: id}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("marshal params for %s: %w", method, err)
		}
		req.Params = raw
	}
	line, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request %s: %w", method, err)
	}
	return append(line, '\n'), nil
}

// DecodeResponse parses exactly one response line. Malformed JSON and a
// response carrying neither result nor error both surface as
// domain.ErrInvalidResponse, distinct from application RPC errors.
func DecodeResponse(line []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(bytes.TrimSpace(line), &resp); err != nil {
		return nil, domain.NewBridgeError("DecodeResponse", domain.ErrInvalidResponse, err.Error())
	}
	// A JSON null result is indistinguishable from an absent one to callers.
	if bytes.Equal(bytes.TrimSpace(resp.Result), jsonNull) {
		resp.Result = nil
	}
	if resp.Result == nil && resp.Error == nil {
		return nil, domain.NewBridgeError("DecodeResponse", domain.ErrInvalidResponse,
			"response carries neither result nor error")
	}
	return &resp, nil
}

// correlate checks a decoded response against the outstanding request id and
// extracts its payload. A structured backend error is returned to the caller
// even when its id mismatches, since the backend clearly understood the call.
func correlate(op string, resp *Response, id uint64) (json.RawMessage, error) {
	if resp.Error != nil {
		return nil, resp.Error
	}
	if resp.ID == nil || *resp.ID != id {
		got := "none"
		if resp.ID != nil {
			got = fmt.Sprintf("%d", *resp.ID)
		}
		return nil, domain.NewBridgeError(op, domain.ErrInvalidResponse,
			fmt.Sprintf("response id %s does not match request id %d", got, id))
	}
	return resp.Result, nil
}
