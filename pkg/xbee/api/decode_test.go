package api

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var testSource = Address64{0x00, 0x13, 0xa2, 0x00, 0x41, 0x52, 0x63, 0x74}

func rawFrame(typ FrameType, parts ...[]byte) RawFrame {
	raw := RawFrame{byte(typ)}
	for _, p := range parts {
		raw = append(raw, p...)
	}
	return raw
}

func rxFrame(data []byte) RawFrame {
	return rawFrame(TypeReceivePacket, testSource[:], []byte{0x12, 0x34, 0x01}, data)
}

// embeddedRemoteAT builds an un-escaped remote AT frame as relayed in received data.
func embeddedRemoteAT(length uint16, opt byte, cmd string, param []byte) []byte {
	payload := []byte{byte(TypeRemoteATCommand), 0x01}
	payload = append(payload, testTarget[:]...)
	payload = append(payload, 0xff, 0xfe, opt)
	payload = append(payload, cmd...)
	payload = append(payload, param...)
	frame := []byte{StartDelimiter, byte(length >> 8), byte(length)}
	frame = append(frame, payload...)
	return append(frame, Checksum(payload))
}

func TestDecodeReceivePacket(t *testing.T) {
	f, err := Decode(rxFrame([]byte("hello")))
	require.NoError(t, err)
	rx, ok := f.(*ReceivePacket)
	require.True(t, ok)
	require.Equal(t, TypeReceivePacket, rx.Type())
	require.Equal(t, testSource, rx.Source)
	require.Equal(t, Address16{0x12, 0x34}, rx.SourceShort)
	require.Equal(t, byte(0x01), rx.Options)
	require.Equal(t, []byte("hello"), rx.Data)
}

func TestDecodeReceivePacketShortData(t *testing.T) {
	for _, data := range [][]byte{nil, {0x7e}, {0x7e, 0x00, 0x11}} {
		f, err := Decode(rxFrame(data))
		require.NoError(t, err)
		require.IsType(t, &ReceivePacket{}, f)
	}
	// 4th byte isn't a remote AT command type.
	f, err := Decode(rxFrame([]byte{0x7e, 0x00, 0x11, 0x10}))
	require.NoError(t, err)
	require.IsType(t, &ReceivePacket{}, f)
}

func TestDecodeExplicitReceive(t *testing.T) {
	raw := rawFrame(TypeExplicitReceive, testSource[:],
		[]byte{0xff, 0xfe, 0xe8, 0xe8, 0x00, 0x11, 0xc1, 0x05, 0x02}, []byte("hi"))
	f, err := Decode(raw)
	require.NoError(t, err)
	rx, ok := f.(*ReceivePacket)
	require.True(t, ok)
	require.Equal(t, TypeExplicitReceive, rx.Type())
	require.Equal(t, testSource, rx.Source)
	require.Equal(t, byte(0xe8), rx.SourceEndpoint)
	require.Equal(t, byte(0xe8), rx.DestEndpoint)
	require.Equal(t, uint16(0x0011), rx.ClusterID)
	require.Equal(t, uint16(0xc105), rx.ProfileID)
	require.Equal(t, byte(0x02), rx.Options)
	require.Equal(t, []byte("hi"), rx.Data)
}

func TestDecodeRemoteATRequest(t *testing.T) {
	for _, cmd := range []string{"D0", "d4"} {
		f, err := Decode(rxFrame(embeddedRemoteAT(0x11, 2, cmd, []byte{0x00, 0x05})))
		require.NoError(t, err)
		req, ok := f.(*RemoteATRequest)
		require.True(t, ok)
		require.Equal(t, TypeRemoteATCommand, req.Type())
		require.Equal(t, testSource, req.Source)
		require.Equal(t, testTarget, req.Target)
		require.Equal(t, ShortAddressUnknown, req.TargetShort)
		require.Equal(t, byte(0x01), req.FrameID)
		require.Equal(t, RemoteATApplyChanges, req.Options)
		require.Equal(t, cmd, req.Command)
		require.Equal(t, []byte{0x00, 0x05}, req.Parameter)
	}
}

func TestDecodeRemoteATLengthBigEndian(t *testing.T) {
	f, err := Decode(rxFrame(embeddedRemoteAT(0x0100, 2, "D0", []byte{0x00, 0x05})))
	require.NoError(t, err)
	require.IsType(t, &RemoteATRequest{}, f)

	_, err = Decode(rxFrame(embeddedRemoteAT(0x0010, 2, "D0", []byte{0x00, 0x05})))
	var ve *DecodeValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, "length", ve.Field)
}

func TestDecodeRemoteATRejected(t *testing.T) {
	testCases := []struct {
		name  string
		data  []byte
		field string
	}{
		{"short declared length", embeddedRemoteAT(0x10, 2, "D0", []byte{0x00, 0x05}), "length"},
		{"truncated", embeddedRemoteAT(0x11, 2, "D0", nil)[:19], "length"},
		{"option", embeddedRemoteAT(0x11, 4, "D0", []byte{0x00, 0x05}), "option"},
		{"not digital pin", embeddedRemoteAT(0x11, 2, "P0", []byte{0x00, 0x05}), "command"},
		{"not ascii", embeddedRemoteAT(0x11, 2, "D\x80", []byte{0x00, 0x05}), "command"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := Decode(rxFrame(tc.data))
			require.Nil(t, f)
			var ve *DecodeValidationError
			require.True(t, errors.As(err, &ve))
			require.Equal(t, tc.field, ve.Field)
			require.Equal(t, tc.data, ve.Raw)
		})
	}
}

func TestDecodeIOSample(t *testing.T) {
	samples := []byte{0x01, 0x00, 0x0c, 0x01, 0x00, 0x08, 0x02, 0x00}
	f, err := Decode(rawFrame(TypeIOSample, testSource[:], []byte{0x56, 0x78, 0x41}, samples))
	require.NoError(t, err)
	io, ok := f.(*IOSample)
	require.True(t, ok)
	require.Equal(t, testSource, io.Source)
	require.Equal(t, Address16{0x56, 0x78}, io.SourceShort)
	require.Equal(t, byte(0x41), io.Options)
	require.Equal(t, samples, io.Samples)
}

func TestDecodeTransmitStatus(t *testing.T) {
	f, err := Decode(rawFrame(TypeTransmitStatus, []byte{0x01, 0x7d, 0x84, 0x00, 0x21, 0x02}))
	require.NoError(t, err)
	require.Equal(t, &TransmitStatus{
		FrameID:         0x01,
		Destination:     Address16{0x7d, 0x84},
		Retries:         0x00,
		DeliveryStatus:  0x21,
		DiscoveryStatus: 0x02,
	}, f)
}

func TestDecodeRemoteATResponse(t *testing.T) {
	f, err := Decode(rawFrame(TypeRemoteATResponse, []byte{0x01}, testTarget[:], []byte{0xff, 0xfe}, []byte("D0"), []byte{0x00, 0x05}))
	require.NoError(t, err)
	require.Equal(t, &RemoteATResponse{
		FrameID:     0x01,
		Source:      testTarget,
		SourceShort: ShortAddressUnknown,
		Command:     "D0",
		Status:      0x00,
		Data:        []byte{0x05},
	}, f)
}

func TestDecodeModemStatus(t *testing.T) {
	f, err := Decode(RawFrame{byte(TypeModemStatus), 0x06})
	require.NoError(t, err)
	require.Equal(t, &ModemStatus{Status: 0x06}, f)
}

func TestDecodeUnknown(t *testing.T) {
	testCases := []struct {
		name string
		raw  RawFrame
	}{
		{"empty", RawFrame{}},
		{"single byte", RawFrame{0x00}},
		{"at response", RawFrame{byte(TypeATResponse), 0x01, 'N', 'I', 0x00}},
		{"truncated rx", rawFrame(TypeReceivePacket, testSource[:])},
		{"truncated explicit rx", rawFrame(TypeExplicitReceive, testSource[:], []byte{0xff, 0xfe})},
		{"truncated io", rawFrame(TypeIOSample, testSource[:4])},
		{"truncated tx status", RawFrame{byte(TypeTransmitStatus), 0x01}},
		{"truncated remote at response", RawFrame{byte(TypeRemoteATResponse), 0x01}},
		{"truncated modem status", RawFrame{byte(TypeModemStatus)}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := Decode(tc.raw)
			require.NoError(t, err)
			require.Equal(t, &Unknown{Raw: tc.raw}, f)
			require.Equal(t, tc.raw.Type(), f.Type())
		})
	}
}

func TestAddress64(t *testing.T) {
	require.Equal(t, "0013a2000a0a0127", Address64{0x00, 0x13, 0xa2, 0x00, 0x0a, 0x0a, 0x01, 0x27}.String())
	for _, s := range []string{"0013a200400a0127", "0x0013A200400A0127", "00:13:a2:00:40:0a:01:27"} {
		a, err := ParseAddress64(s)
		require.NoError(t, err)
		require.Equal(t, testTarget, a)
	}
	for _, s := range []string{"", "0013a200", "0013a200400a01zz"} {
		_, err := ParseAddress64(s)
		require.Error(t, err)
	}
	require.Equal(t, "fffe", ShortAddressUnknown.String())
}

func TestFrameTypeString(t *testing.T) {
	require.Equal(t, "rx", TypeReceivePacket.String())
	require.Equal(t, "remote_at", TypeRemoteATCommand.String())
	require.Equal(t, "tx_status", TypeTransmitStatus.String())
	require.Equal(t, "0x42", FrameType(0x42).String())
}
