package api

import (
	"errors"
	"fmt"
)

// ErrShortSamples indicates the sample data ends before all enabled channels.
var ErrShortSamples = errors.New("io samples truncated")

// Sample is one set of I/O readings keyed by channel name: "dio-N" for
// digital lines and "adc-N" for analog inputs.
type Sample struct {
	Digital map[string]bool
	Analog  map[string]uint16
}

// ParseIOSamples interprets the sample data of an IOSample frame:
// sample count, 16-bit digital mask, 8-bit analog mask, then for each
// sample an optional 16-bit digital word and one 16-bit reading per
// enabled analog channel.
func ParseIOSamples(data []byte) ([]Sample, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("io samples header: %d bytes: %w", len(data), ErrShortSamples)
	}
	count := int(data[0])
	dioMask := uint16(data[1])<<8 | uint16(data[2])
	adcMask := data[3]
	data = data[4:]

	samples := make([]Sample, 0, count)
	for n := 0; n < count; n++ {
		s := Sample{Digital: make(map[string]bool), Analog: make(map[string]uint16)}
		if dioMask != 0 {
			if len(data) < 2 {
				return samples, ErrShortSamples
			}
			word := uint16(data[0])<<8 | uint16(data[1])
			data = data[2:]
			for bit := uint(0); bit < 16; bit++ {
				if dioMask&(1<<bit) != 0 {
					s.Digital[fmt.Sprintf("dio-%d", bit)] = word&(1<<bit) != 0
				}
			}
		}
		for bit := uint(0); bit < 8; bit++ {
			if adcMask&(1<<bit) == 0 {
				continue
			}
			if len(data) < 2 {
				return samples, ErrShortSamples
			}
			s.Analog[fmt.Sprintf("adc-%d", bit)] = uint16(data[0])<<8 | uint16(data[1])
			data = data[2:]
		}
		samples = append(samples, s)
	}
	return samples, nil
}
