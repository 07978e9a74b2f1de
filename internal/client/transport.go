package client

import (
	"context"
	"net"
	"net/http"
	"time"

	"chat-gateway-go/internal/config"
)

// newHTTPClient builds the pooled client for one backend. Each timeout class
// maps onto a separate transport knob so a slow connect and a slow answer can
// be bounded independently.
func newHTTPClient(bc config.BackendConfig, idle int) *http.Client {
	dialer := &net.Dialer{
		Timeout:   bc.ConnectTimeout(),
		KeepAlive: 30 * time.Second,
	}
	writeTimeout := bc.WriteTimeout()

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil || writeTimeout <= 0 {
				return conn, err
			}
			return &deadlineConn{Conn: conn, writeTimeout: writeTimeout}, nil
		},
		MaxIdleConns:          idle,
		MaxIdleConnsPerHost:   idle,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   bc.ConnectTimeout(),
		ResponseHeaderTimeout: bc.ReadTimeout(),
		ExpectContinueTimeout: time.Second,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   bc.Timeout(),
	}
}

// deadlineConn arms a fresh write deadline before every Write.
type deadlineConn struct {
	net.Conn
	writeTimeout time.Duration
}

func (c *deadlineConn) Write(p []byte) (int, error) {
	if err := c.Conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return 0, err
	}
	return c.Conn.Write(p)
}
