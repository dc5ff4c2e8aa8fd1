package transport

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// SerialPort is an opened serial port.
type SerialPort struct {
	serial.Port
	Name     string
	BaudRate int
}

// OpenSerial opens a serial port in 8N1 mode with RTS released.
func OpenSerial(name string, baudRate int, readTimeout time.Duration) (*SerialPort, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open port %s: %w", name, err)
	}
	if readTimeout > 0 {
		if err = port.SetReadTimeout(readTimeout); err != nil {
			port.Close()
			return nil, fmt.Errorf("failed to set read timeout: %w", err)
		}
	}
	if err = port.SetRTS(false); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set RTS: %w", err)
	}
	return &SerialPort{Port: port, Name: name, BaudRate: baudRate}, nil
}

// String implements fmt.Stringer.
func (p *SerialPort) String() string {
	return fmt.Sprintf("%s@%d", p.Name, p.BaudRate)
}

// ListPorts lists the serial ports available.
func ListPorts() ([]string, error) {
	return serial.GetPortsList()
}
