package lspserver

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// Transport implements the LSP base protocol (JSON-RPC 2.0 framed with
// Content-Length headers) from the server side: it reads requests and
// notifications from the client and writes responses and server-to-client
// notifications/requests back. Adapted from the client-facing framing in
// Keystorm's internal/lsp/transport.go, with the read/write roles
// reversed.
type Transport struct {
	reader *bufio.Reader
	writer io.Writer
	closer io.Closer

	mu      sync.Mutex
	nextID  atomic.Int64
	pending map[int64]chan *rpcMessage

	closed atomic.Bool
	done   chan struct{}
}

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *int64          `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	// Result and Error are set only on a client's response to one of our
	// own Request calls; Dispatcher.Run forwards them to the waiter.
	Result json.RawMessage `json:"result,omitempty"`
	Error  *RPCError       `json:"error,omitempty"`
}

type rpcMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *int64          `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// NewTransport wraps r/w/c (typically stdin/stdout, or one side of a TCP
// connection) as the server-side base protocol.
func NewTransport(r io.Reader, w io.Writer, c io.Closer) *Transport {
	return &Transport{
		reader:  bufio.NewReaderSize(r, 64*1024),
		writer:  w,
		closer:  c,
		pending: make(map[int64]chan *rpcMessage),
		done:    make(chan struct{}),
	}
}

// Close closes the transport and releases resources.
func (t *Transport) Close() error {
	if t.closed.Swap(true) {
		return nil
	}
	close(t.done)
	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}

// IsClosed reports whether Close has been called.
func (t *Transport) IsClosed() bool {
	return t.closed.Load()
}

// ReadMessage blocks for the next framed message from the client.
func (t *Transport) ReadMessage() (*rpcRequest, error) {
	var contentLength int
	for {
		line, err := t.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		if strings.HasPrefix(strings.ToLower(line), "content-length:") {
			parts := strings.SplitN(line, ":", 2)
			if len(parts) == 2 {
				if n, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
					contentLength = n
				}
			}
		}
	}
	if contentLength == 0 {
		return nil, fmt.Errorf("lspserver: missing Content-Length header")
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(t.reader, body); err != nil {
		return nil, fmt.Errorf("lspserver: read body: %w", err)
	}

	var req rpcRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("lspserver: unmarshal request: %w", err)
	}
	return &req, nil
}

// Respond writes a response to a request with the given id.
func (t *Transport) Respond(id int64, result any, rpcErr *RPCError) error {
	msg := rpcMessage{JSONRPC: "2.0", ID: &id}
	if rpcErr != nil {
		msg.Error = rpcErr
	} else if result != nil {
		data, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("lspserver: marshal result: %w", err)
		}
		msg.Result = data
	} else {
		msg.Result = json.RawMessage("null")
	}
	return t.send(msg)
}

// Notify sends a server-to-client notification (no id, no response
// expected) — e.g. window/logMessage, $/progress.
func (t *Transport) Notify(method string, params any) error {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("lspserver: marshal params: %w", err)
	}
	return t.send(rpcMessage{JSONRPC: "2.0", Method: method, Params: data})
}

// Request sends a server-to-client request (e.g.
// window/workDoneProgress/create) and waits for the response.
func (t *Transport) Request(method string, params any, result any) error {
	if t.closed.Load() {
		return ErrShutdown
	}

	id := t.nextID.Add(1)
	ch := make(chan *rpcMessage, 1)
	t.mu.Lock()
	t.pending[id] = ch
	t.mu.Unlock()
	defer func() {
		t.mu.Lock()
		delete(t.pending, id)
		t.mu.Unlock()
	}()

	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("lspserver: marshal params: %w", err)
	}
	if err := t.send(rpcMessage{JSONRPC: "2.0", ID: &id, Method: method, Params: data}); err != nil {
		return err
	}

	select {
	case <-t.done:
		return ErrShutdown
	case resp := <-ch:
		if resp.Error != nil {
			return resp.Error
		}
		if result != nil && len(resp.Result) > 0 {
			return json.Unmarshal(resp.Result, result)
		}
		return nil
	}
}

// HandleClientResponse feeds a response the client sent to one of our
// outgoing Request calls back to its waiter. The caller's read loop must
// route any incoming message with a non-nil ID and no Method here instead
// of treating it as a request.
func (t *Transport) HandleClientResponse(data json.RawMessage) {
	var msg rpcMessage
	if err := json.Unmarshal(data, &msg); err != nil || msg.ID == nil {
		return
	}
	t.mu.Lock()
	ch, ok := t.pending[*msg.ID]
	if ok {
		delete(t.pending, *msg.ID)
	}
	t.mu.Unlock()
	if ok {
		select {
		case ch <- &msg:
		default:
		}
	}
}

func (t *Transport) send(msg rpcMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("lspserver: marshal message: %w", err)
	}
	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(data))

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := io.WriteString(t.writer, header); err != nil {
		return fmt.Errorf("lspserver: write header: %w", err)
	}
	if _, err := t.writer.Write(data); err != nil {
		return fmt.Errorf("lspserver: write body: %w", err)
	}
	return nil
}
