package transport

import (
	"net/url"

	"golang.org/x/net/websocket"
)

// DialWebSocket connects to a websocket endpoint carrying the byte stream
// in binary frames.
func DialWebSocket(rawURL string) (*websocket.Conn, error) {
	config, err := websocket.NewConfig(rawURL, originOf(rawURL))
	if err != nil {
		return nil, err
	}
	conn, err := websocket.DialConfig(config)
	if err != nil {
		return nil, err
	}
	conn.PayloadType = websocket.BinaryFrame
	return conn, nil
}

func originOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "http://localhost/"
	}
	scheme := "http"
	if u.Scheme == SchemeWebSocketSecure {
		scheme = "https"
	}
	return scheme + "://" + u.Host + "/"
}
