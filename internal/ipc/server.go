package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"os"
)

// Handler processes one request and returns the response.
type Handler func(Request) *Response

// Server listens on a unix socket for client requests
type Server struct {
	path     string
	listener net.Listener
	handler  Handler
}

// NewServer creates and starts an IPC server on the given socket path
func NewServer(path string, handler Handler) (*Server, error) {
	// Remove stale socket from a previous run
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to remove stale socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", path, err)
	}

	// Only the owning user may drive the daemon
	if err := os.Chmod(path, 0600); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s := &Server{path: path, listener: listener, handler: handler}
	go s.acceptLoop()
	return s, nil
}

// Close shuts down the server and removes the socket
func (s *Server) Close() error {
	err := s.listener.Close()
	os.Remove(s.path)
	return err
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Listener closed
			return
		}
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		var resp *Response
		if err := json.Unmarshal(line, &req); err != nil {
			resp = NewErrorResponse(fmt.Errorf("malformed request: %w", err))
		} else {
			resp = s.handler(req)
		}

		out, err := json.Marshal(resp)
		if err != nil {
			log.Printf("Failed to marshal IPC response: %v", err)
			return
		}
		out = append(out, '\n')
		if _, err := conn.Write(out); err != nil {
			return
		}
	}
}
