package transport

import (
	"fmt"
	"sync"

	"github.com/tarm/serial"
)

// SerialTransport writes to a printer on a serial port.
type SerialTransport struct {
	port *serial.Port
	mu   sync.Mutex
}

// ConnectSerial opens a serial printer.
func ConnectSerial(device string, baud int) (*SerialTransport, error) {
	if baud == 0 {
		baud = 9600 // default for most thermal printers
	}

	port, err := serial.OpenPort(&serial.Config{Name: device, Baud: baud})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}

	return &SerialTransport{port: port}, nil
}

// Write sends data to the serial printer.
func (t *SerialTransport) Write(data []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.port.Write(data)
}

// Close closes the serial port.
func (t *SerialTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port != nil {
		return t.port.Close()
	}
	return nil
}
