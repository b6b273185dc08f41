package transport

import (
	"fmt"
	"net"
	"sync"
	"time"
)

// NetworkTransport writes to a printer listening on a raw TCP socket,
// usually port 9100.
type NetworkTransport struct {
	conn net.Conn
	mu   sync.Mutex
}

// ConnectNetwork dials a network printer.
func ConnectNetwork(host string, port int, timeout time.Duration) (*NetworkTransport, error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	address := fmt.Sprintf("%s:%d", host, port)
	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to network printer: %w", err)
	}

	return &NetworkTransport{conn: conn}, nil
}

// Write sends data to the network printer.
func (t *NetworkTransport) Write(data []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.conn.Write(data)
}

// Close closes the network connection.
func (t *NetworkTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn != nil {
		return t.conn.Close()
	}
	return nil
}
