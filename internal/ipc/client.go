package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"
)

const dialTimeout = 5 * time.Second

// Client connects to a running daemon's socket
type Client struct {
	conn net.Conn
}

// NewClient dials the daemon socket
func NewClient(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon (is it running?): %w", err)
	}
	return &Client{conn: conn}, nil
}

// Close closes the connection
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) sendRequest(req Request) (*Response, error) {
	out, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	out = append(out, '\n')
	if _, err := c.conn.Write(out); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(c.conn)
	line, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("malformed response: %w", err)
	}
	if resp.Status == StatusError {
		return &resp, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return &resp, nil
}

// GetStatus fetches the daemon's current layout snapshot
func (c *Client) GetStatus() (json.RawMessage, error) {
	resp, err := c.sendRequest(Request{Command: CmdGetStatus})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Send enqueues one ribbon command by name
func (c *Client) Send(name string, window uint32) error {
	payload, err := json.Marshal(SendPayload{Name: name, Window: window})
	if err != nil {
		return err
	}
	_, err = c.sendRequest(Request{Command: CmdSend, Payload: payload})
	return err
}

// Shutdown asks the daemon to restore all windows and exit
func (c *Client) Shutdown() error {
	_, err := c.sendRequest(Request{Command: CmdShutdown})
	return err
}
