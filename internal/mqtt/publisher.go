// Package mqtt publishes receiver snapshots as retained JSON so late
// subscribers immediately see the last known fix.
package mqtt

import (
	"encoding/json"
	"log"

	paho "github.com/eclipse/paho.mqtt.golang"

	"navmon/internal/gps"
)

type Config struct {
	Enable   bool
	Broker   string
	ClientID string
	Topic    string
}

type Publisher struct {
	cfg    Config
	client paho.Client
}

func New(cfg Config) *Publisher {
	return &Publisher{cfg: cfg}
}

// Connect dials the broker. A disabled publisher connects to nothing and
// every later call is a no-op.
func (p *Publisher) Connect() error {
	if !p.cfg.Enable {
		return nil
	}

	opts := paho.NewClientOptions().
		AddBroker(p.cfg.Broker).
		SetClientID(p.cfg.ClientID).
		SetAutoReconnect(true)

	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	p.client = client
	log.Printf("mqtt connected broker=%s topic=%s", p.cfg.Broker, p.cfg.Topic)
	return nil
}

// PublishSnapshot sends the snapshot as retained JSON at QoS 0. Losing a
// sample is fine; the next tick replaces it.
func (p *Publisher) PublishSnapshot(snap gps.Snapshot) error {
	if p.client == nil {
		return nil
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	token := p.client.Publish(p.cfg.Topic, 0, true, payload)
	token.Wait()
	return token.Error()
}

func (p *Publisher) Close() {
	if p.client == nil {
		return
	}
	p.client.Disconnect(250)
	p.client = nil
}
