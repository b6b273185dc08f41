package transport

import (
	"fmt"
	"strconv"

	"github.com/vjloable/fredelicacies-pos-sub004/internal/config"
)

// Transport delivers encoded receipt bytes to a printer. Implementations
// serialize writes with an internal mutex, so one transport can be shared
// across handlers.
type Transport interface {
	Write(data []byte) (int, error)
	Close() error
}

// Open builds the transport selected by the printer configuration.
// Transport "none" returns a nil Transport: the service runs render-only.
func Open(cfg config.PrinterConfig) (Transport, error) {
	switch cfg.Transport {
	case "none", "":
		return nil, nil
	case "network":
		return ConnectNetwork(cfg.Network.Host, cfg.Network.Port, cfg.Network.DialTimeout)
	case "serial":
		return ConnectSerial(cfg.Serial.Device, cfg.Serial.BaudRate)
	case "usb":
		vid, err := parseID(cfg.USB.VendorID)
		if err != nil {
			return nil, fmt.Errorf("invalid USB vendor id %q: %w", cfg.USB.VendorID, err)
		}
		pid, err := parseID(cfg.USB.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid USB product id %q: %w", cfg.USB.ProductID, err)
		}
		return ConnectUSB(vid, pid)
	default:
		return nil, fmt.Errorf("unknown printer transport: %s", cfg.Transport)
	}
}

func parseID(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}
