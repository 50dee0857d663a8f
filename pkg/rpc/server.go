// Package rpc carries the JSON-RPC 2.0 protocol between the calling agent
// and the tool dispatcher, over newline-delimited stdio and optionally
// HTTP. stdout stays a clean protocol channel; all logging goes to stderr.
package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"sync"

	"go.uber.org/zap"

	hwerrors "github.com/hostwire/hostwire/pkg/errors"
	"github.com/hostwire/hostwire/pkg/tools"
)

const ProtocolVersion = "2024-11-05"

const (
	CodeParseError      = -32700
	CodeInvalidRequest  = -32600
	CodeMethodNotFound  = -32601
	CodeInvalidParams   = -32602
	CodeInternalError   = -32603
	CodeExecutionFailed = -32000
	CodeTimeout         = -32001
)

type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the request carries no id and therefore
// must not receive a response.
func (r Request) IsNotification() bool {
	return len(r.ID) == 0 || string(r.ID) == "null"
}

type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *ResponseError  `json:"error,omitempty"`
}

type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ToolDispatcher is the dispatch layer the server routes tool calls into.
type ToolDispatcher interface {
	Dispatch(ctx context.Context, name string, args json.RawMessage) (map[string]any, error)
}

type Server struct {
	dispatcher ToolDispatcher
	log        *zap.Logger
	name       string
	version    string
}

func NewServer(dispatcher ToolDispatcher, name, version string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		dispatcher: dispatcher,
		log:        log,
		name:       name,
		version:    version,
	}
}

// ServeStdio reads one request per line and writes one response per line.
// Each request is handled in its own goroutine so a long-running subprocess
// wait does not serialize the others; the writer is mutex-guarded.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	lines := make(chan []byte)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 64*1024), 10*1024*1024)
		for scanner.Scan() {
			line := make([]byte, len(scanner.Bytes()))
			copy(line, scanner.Bytes())
			lines <- line
		}
		scanErr <- scanner.Err()
	}()

	var writeMu sync.Mutex
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return hwerrors.WrapAndTrace(err)
					}
				default:
				}
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				resp := s.Handle(ctx, line)
				if resp == nil {
					return
				}
				data, err := json.Marshal(resp)
				if err != nil {
					s.log.Error("could not marshal response", zap.Error(err))
					return
				}
				writeMu.Lock()
				defer writeMu.Unlock()
				if _, err := out.Write(append(data, '\n')); err != nil {
					s.log.Error("could not write response", zap.Error(err))
				}
			}()
		}
	}
}

// Handle processes one raw request and returns the response, or nil when
// the request was a notification.
func (s *Server) Handle(ctx context.Context, raw []byte) *Response {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return errorResponse(json.RawMessage("null"), CodeParseError, "parse error")
	}
	if req.Method == "" {
		return errorResponse(idOrNull(req.ID), CodeInvalidRequest, "invalid request: missing method")
	}

	s.log.Debug("handling request", zap.String("method", req.Method))

	switch req.Method {
	case "initialize":
		return s.result(req, map[string]any{
			"protocolVersion": ProtocolVersion,
			"capabilities":    map[string]any{"tools": map[string]any{}},
			"serverInfo":      map[string]any{"name": s.name, "version": s.version},
		})
	case "notifications/initialized", "notifications/cancelled":
		return nil
	case "ping":
		return s.result(req, map[string]any{})
	case "tools/list":
		return s.result(req, map[string]any{"tools": tools.Definitions()})
	case "tools/call":
		return s.toolCall(ctx, req)
	default:
		if req.IsNotification() {
			return nil
		}
		return errorResponse(req.ID, CodeMethodNotFound, "method not found: "+req.Method)
	}
}

type toolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

func (s *Server) toolCall(ctx context.Context, req Request) *Response {
	var params toolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil || params.Name == "" {
		return errorResponse(idOrNull(req.ID), CodeInvalidParams, "invalid tools/call params")
	}

	args := params.Arguments
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	payload, err := s.dispatcher.Dispatch(ctx, params.Name, args)
	if err != nil {
		return errorResponse(idOrNull(req.ID), codeFor(err), err.Error())
	}

	text, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return errorResponse(idOrNull(req.ID), CodeInternalError, "could not serialize tool result")
	}

	return s.result(req, map[string]any{
		"content": []map[string]any{{"type": "text", "text": string(text)}},
		"isError": false,
	})
}

// codeFor maps the error taxonomy onto the wire codes. Anything outside
// the taxonomy is an internal error.
func codeFor(err error) int {
	var invalid *hwerrors.InvalidRequestError
	var notFound *hwerrors.MethodNotFoundError
	var execFailed *hwerrors.ExecutionFailedError
	var timeout *hwerrors.TimeoutError
	switch {
	case hwerrors.As(err, &invalid):
		return CodeInvalidParams
	case hwerrors.As(err, &notFound):
		return CodeMethodNotFound
	case hwerrors.As(err, &execFailed):
		return CodeExecutionFailed
	case hwerrors.As(err, &timeout):
		return CodeTimeout
	default:
		return CodeInternalError
	}
}

func (s *Server) result(req Request, result any) *Response {
	if req.IsNotification() {
		return nil
	}
	return &Response{JSONRPC: "2.0", ID: req.ID, Result: result}
}

func errorResponse(id json.RawMessage, code int, message string) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &ResponseError{Code: code, Message: message},
	}
}

func idOrNull(id json.RawMessage) json.RawMessage {
	if len(id) == 0 {
		return json.RawMessage("null")
	}
	return id
}
