// Package udp periodically fans the receiver snapshot out to a UDP
// destination (typically a broadcast address on the appliance's LAN) so
// headless listeners can follow position without polling the web API.
package udp

import (
	"context"
	"fmt"
	"net"
	"time"
)

type Broadcaster struct {
	dest     string
	interval time.Duration
	conn     *net.UDPConn
}

func NewBroadcaster(dest string, interval time.Duration) (*Broadcaster, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("interval must be > 0")
	}
	addr, err := net.ResolveUDPAddr("udp", dest)
	if err != nil {
		return nil, fmt.Errorf("resolve dest: %w", err)
	}

	// DialUDP selects a suitable local address automatically.
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("dial udp: %w", err)
	}

	return &Broadcaster{
		dest:     dest,
		interval: interval,
		conn:     conn,
	}, nil
}

// Run sends the payload once per interval until ctx is cancelled. A nil
// or empty payload skips the tick; send errors are returned and end the
// loop (the caller decides whether that is fatal).
func (b *Broadcaster) Run(ctx context.Context, payload func() []byte) error {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := b.Send(payload()); err != nil {
				return err
			}
		}
	}
}

func (b *Broadcaster) Send(payload []byte) error {
	if len(payload) == 0 {
		return nil
	}
	_, err := b.conn.Write(payload)
	return err
}

func (b *Broadcaster) Close() error {
	if b.conn == nil {
		return nil
	}
	return b.conn.Close()
}
