package lspserver

import (
	"encoding/json"
	"errors"
)

// Dispatcher reads framed JSON-RPC messages from a Transport and routes
// them to a Server, writing back responses. One Dispatcher serves one
// client connection (spec §6: "one server instance per connection").
type Dispatcher struct {
	transport *Transport
	server    *Server
	progress  ProgressReporter
}

// NewDispatcher builds a Dispatcher over t, driving server.
func NewDispatcher(t *Transport, server *Server) *Dispatcher {
	return &Dispatcher{transport: t, server: server, progress: NewTransportProgress(t)}
}

// Run reads and dispatches messages until the transport closes or a
// shutdown/exit sequence completes.
func (d *Dispatcher) Run() error {
	for {
		req, err := d.transport.ReadMessage()
		if err != nil {
			if errors.Is(err, ErrShutdown) {
				return nil
			}
			return err
		}

		switch req.Method {
		case "":
			// A message with no method and a non-nil ID is a response to
			// one of our own outgoing Request calls.
			if req.ID != nil {
				raw, _ := json.Marshal(req)
				d.transport.HandleClientResponse(raw)
			}
			continue
		case "exit":
			return d.transport.Close()
		}

		d.handle(req)
	}
}

func (d *Dispatcher) handle(req *rpcRequest) {
	var result any
	var rpcErr *RPCError

	switch req.Method {
	case "initialize":
		result, rpcErr = d.server.Initialize(req.Params)
	case "initialized":
		// no response expected; nothing to do.
	case "shutdown":
		d.server.Shutdown()
	case "textDocument/didOpen":
		if err := d.server.DidOpen(req.Params); err != nil {
			rpcErr = &RPCError{Code: CodeInvalidParams, Message: err.Error()}
		}
	case "textDocument/didChange":
		if err := d.server.DidChange(req.Params); err != nil {
			rpcErr = &RPCError{Code: CodeInvalidParams, Message: err.Error()}
		}
	case "textDocument/didClose":
		if err := d.server.DidClose(req.Params); err != nil {
			rpcErr = &RPCError{Code: CodeInvalidParams, Message: err.Error()}
		}
	case "workspace/didChangeConfiguration":
		if err := d.server.DidChangeConfiguration(req.Params); err != nil {
			rpcErr = &RPCError{Code: CodeInvalidParams, Message: err.Error()}
		}
	case "textDocument/completion":
		result, rpcErr = d.server.Completion(req.Params)
	case "workspace/executeCommand":
		result, rpcErr = d.server.ExecuteCommand(req.Params, d.progress)
	default:
		rpcErr = &RPCError{Code: CodeMethodNotFound, Message: "method not found: " + req.Method}
	}

	if req.ID != nil {
		_ = d.transport.Respond(*req.ID, result, rpcErr)
	}
}
