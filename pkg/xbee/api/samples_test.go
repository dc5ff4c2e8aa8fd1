package api

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseIOSamples(t *testing.T) {
	samples, err := ParseIOSamples([]byte{0x01, 0x00, 0x0c, 0x81, 0x00, 0x08, 0x02, 0x00, 0x0b, 0xb8})
	require.NoError(t, err)
	require.Equal(t, []Sample{
		{
			Digital: map[string]bool{"dio-2": false, "dio-3": true},
			Analog:  map[string]uint16{"adc-0": 0x200, "adc-7": 0xbb8},
		},
	}, samples)
}

func TestParseIOSamplesAnalogOnly(t *testing.T) {
	samples, err := ParseIOSamples([]byte{0x01, 0x00, 0x00, 0x02, 0x01, 0x00})
	require.NoError(t, err)
	require.Len(t, samples, 1)
	require.Empty(t, samples[0].Digital)
	require.Equal(t, map[string]uint16{"adc-1": 0x100}, samples[0].Analog)
}

func TestParseIOSamplesTruncated(t *testing.T) {
	for _, data := range [][]byte{
		nil,
		{0x01, 0x00},
		{0x01, 0x00, 0x01, 0x00, 0x00},
		{0x01, 0x00, 0x00, 0x01, 0x02},
	} {
		_, err := ParseIOSamples(data)
		require.True(t, errors.Is(err, ErrShortSamples), "data % x", data)
	}
}
