package ipc

import "encoding/json"

// CommandType identifies the IPC command
type CommandType string

const (
	CmdGetStatus CommandType = "GET_STATUS"
	CmdSend      CommandType = "SEND"
	CmdShutdown  CommandType = "SHUTDOWN"
)

// Request is a command sent from client to daemon
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// SendPayload carries one ribbon command name plus an optional explicit
// target window.
type SendPayload struct {
	Name   string `json:"name"`
	Window uint32 `json:"window,omitempty"`
}

// Response is the daemon's reply to a request
type Response struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// NewOKResponse creates a success response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	resp := &Response{Status: StatusOK}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		resp.Data = raw
	}
	return resp, nil
}

// NewErrorResponse creates an error response
func NewErrorResponse(err error) *Response {
	return &Response{Status: StatusError, Error: err.Error()}
}
