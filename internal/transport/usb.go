package transport

import (
	"fmt"
	"sync"

	"github.com/google/gousb"
)

// USBTransport writes to a USB printer through its bulk OUT endpoint.
type USBTransport struct {
	ctx      *gousb.Context
	device   *gousb.Device
	iface    *gousb.Interface
	endpoint *gousb.OutEndpoint
	mu       sync.Mutex
}

// ConnectUSB opens the USB printer with the given vendor and product id.
// Requires libusb; fails if the device is absent or exposes no OUT
// endpoint.
func ConnectUSB(vid, pid uint16) (*USBTransport, error) {
	ctx := gousb.NewContext()

	dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(vid), gousb.ID(pid))
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("failed to open USB device: %w", err)
	}
	if dev == nil {
		ctx.Close()
		return nil, fmt.Errorf("USB device not found: %04X:%04X", vid, pid)
	}

	// Interface 0, alt setting 0 works for most printers. Some need the
	// kernel driver detached first.
	iface, _, err := dev.DefaultInterface()
	if err != nil {
		dev.SetAutoDetach(true)
		iface, _, err = dev.DefaultInterface()
	}
	if err == nil {
		if ep := findOutEndpoint(iface); ep != nil {
			return &USBTransport{ctx: ctx, device: dev, iface: iface, endpoint: ep}, nil
		}
		iface.Close()
	}

	// Fall back to walking every configuration and interface.
	for _, cfgDesc := range dev.Desc.Configs {
		cfg, err := dev.Config(cfgDesc.Number)
		if err != nil {
			continue
		}
		for _, ifaceDesc := range cfgDesc.Interfaces {
			iface, err := cfg.Interface(ifaceDesc.Number, 0)
			if err != nil {
				continue
			}
			if ep := findOutEndpoint(iface); ep != nil {
				return &USBTransport{ctx: ctx, device: dev, iface: iface, endpoint: ep}, nil
			}
			iface.Close()
		}
		cfg.Close()
	}

	dev.Close()
	ctx.Close()
	return nil, fmt.Errorf("no OUT endpoint found for USB printer %04X:%04X", vid, pid)
}

func findOutEndpoint(iface *gousb.Interface) *gousb.OutEndpoint {
	for _, epDesc := range iface.Setting.Endpoints {
		if epDesc.Direction == gousb.EndpointDirectionOut {
			if ep, err := iface.OutEndpoint(epDesc.Number); err == nil {
				return ep
			}
		}
	}
	return nil
}

// Write sends data to the USB printer.
func (t *USBTransport) Write(data []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.endpoint.Write(data)
}

// Close releases the interface, device and USB context.
func (t *USBTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.iface != nil {
		t.iface.Close()
	}
	if t.device != nil {
		t.device.Close()
	}
	if t.ctx != nil {
		return t.ctx.Close()
	}
	return nil
}
