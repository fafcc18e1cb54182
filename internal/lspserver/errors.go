package lspserver

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the Facade itself, independent of the
// engine/session taxonomy in internal/rime (spec §7).
var (
	ErrShutdown       = errors.New("lspserver: connection shut down")
	ErrUnknownMethod  = errors.New("lspserver: unknown method")
	ErrInvalidParams  = errors.New("lspserver: invalid params")
)

// RPCError is a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	if e.Data != nil {
		return fmt.Sprintf("rpc error %d: %s (data: %v)", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Standard JSON-RPC / LSP error codes (spec §7: "converts any error raised
// during initialize into the LSP internal-error code").
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

func internalError(err error) *RPCError {
	return &RPCError{Code: CodeInternalError, Message: err.Error()}
}
