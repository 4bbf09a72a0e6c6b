package ipc

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/dalfonso89/rolimons-bridge/internal/logger"

	"github.com/viant/jsonrpc"
	"github.com/viant/jsonrpc/transport"
)

// maxMessageBytes bounds one request line
const maxMessageBytes = 4 << 20

// parseErrorCode is the JSON-RPC 2.0 code for a line that is not valid JSON
const parseErrorCode = -32700

// StdioOption configures a StdioServer
type StdioOption func(s *StdioServer)

// WithReader reads requests from r instead of stdin
func WithReader(r io.Reader) StdioOption {
	return func(s *StdioServer) {
		s.reader = r
	}
}

// WithWriter writes responses to w instead of stdout
func WithWriter(w io.Writer) StdioOption {
	return func(s *StdioServer) {
		s.writer = w
	}
}

// StdioServer speaks newline-delimited JSON-RPC. Every request runs in its
// own goroutine and responses are written as they complete, so they may
// arrive out of order and must be matched by id.
type StdioServer struct {
	ctx     context.Context
	handler transport.Handler
	reader  io.Reader
	writer  io.Writer
	logger  *logger.Logger

	writeMutex sync.Mutex

	mutex    sync.Mutex
	closed   bool
	inFlight sync.WaitGroup
}

func newStdioServer(ctx context.Context, server *Server, options ...StdioOption) *StdioServer {
	s := &StdioServer{
		ctx:    ctx,
		reader: os.Stdin,
		writer: os.Stdout,
		logger: server.logger,
	}
	for _, option := range options {
		option(s)
	}
	s.handler = server.newHandler(s)
	return s
}

// ListenAndServe dispatches requests until the input ends or ctx is done.
// At end of input it returns once every in-flight invocation has answered.
func (s *StdioServer) ListenAndServe() error {
	lines := make(chan []byte)
	scanDone := make(chan error, 1)

	go func() {
		scanner := bufio.NewScanner(s.reader)
		scanner.Buffer(make([]byte, 0, 64*1024), maxMessageBytes)
		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- line:
			case <-s.ctx.Done():
				return
			}
		}
		scanDone <- scanner.Err()
	}()

	for {
		select {
		case <-s.ctx.Done():
			return s.ctx.Err()
		case line := <-lines:
			s.dispatch(line)
		case err := <-scanDone:
			s.inFlight.Wait()
			return err
		}
	}
}

// Shutdown stops accepting requests and waits for in-flight invocations
// to answer or for ctx to end.
func (s *StdioServer) Shutdown(ctx context.Context) error {
	s.mutex.Lock()
	s.closed = true
	s.mutex.Unlock()

	done := make(chan struct{})
	go func() {
		s.inFlight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Notify writes a server notification to the output
func (s *StdioServer) Notify(ctx context.Context, notification *jsonrpc.Notification) error {
	return s.write(notification)
}

func (s *StdioServer) dispatch(line []byte) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return
	}

	var envelope struct {
		Id json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(line, &envelope); err != nil {
		s.writeResponse(&jsonrpc.Response{
			Jsonrpc: jsonrpc.Version,
			Error:   &jsonrpc.Error{Code: parseErrorCode, Message: "parse error: " + err.Error()},
		})
		return
	}

	if !s.track() {
		return
	}

	isNotification := len(envelope.Id) == 0 || string(envelope.Id) == "null"
	go func() {
		defer s.inFlight.Done()
		if isNotification {
			s.notify(line)
			return
		}
		s.serve(line)
	}()
}

// track registers an invocation unless Shutdown has begun
func (s *StdioServer) track() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return false
	}
	s.inFlight.Add(1)
	return true
}

func (s *StdioServer) serve(line []byte) {
	request := &jsonrpc.Request{}
	if err := json.Unmarshal(line, request); err != nil {
		s.writeResponse(&jsonrpc.Response{
			Jsonrpc: jsonrpc.Version,
			Error:   jsonrpc.NewInvalidRequest(err.Error(), nil),
		})
		return
	}

	response := &jsonrpc.Response{Id: request.Id, Jsonrpc: jsonrpc.Version}
	s.handler.Serve(s.ctx, request, response)
	s.writeResponse(response)
}

func (s *StdioServer) notify(line []byte) {
	notification := &jsonrpc.Notification{}
	if err := json.Unmarshal(line, notification); err != nil {
		s.logger.Warnf("Dropping malformed notification: %v", err)
		return
	}
	s.handler.OnNotification(s.ctx, notification)
}

func (s *StdioServer) writeResponse(response *jsonrpc.Response) {
	if err := s.write(response); err != nil {
		s.logger.Errorf("Failed to write response: %v", err)
	}
}

func (s *StdioServer) write(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()
	_, err = s.writer.Write(data)
	return err
}
