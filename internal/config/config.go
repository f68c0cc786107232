package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Receiver ReceiverConfig `yaml:"receiver"`
	Status   StatusConfig   `yaml:"status"`
	Web      WebConfig      `yaml:"web"`
	UDP      UDPConfig      `yaml:"udp"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	PPS      PPSConfig      `yaml:"pps"`
}

// ReceiverConfig selects where the NMEA feed comes from.
type ReceiverConfig struct {
	// Source is "serial" (direct device) or "tcp" (raw NMEA over a socket,
	// e.g. ser2net). Defaults to "serial".
	Source string `yaml:"source"`

	// Device is the serial device path; empty auto-detects /dev/ttyACM*
	// and /dev/ttyUSB*.
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`

	// Addr is host:port for Source=="tcp".
	Addr string `yaml:"addr"`
}

// StatusConfig tunes the indoor/outdoor heuristic. Zero values pick the
// package defaults (10s / 30 dBHz / 5 visible / 3 good).
type StatusConfig struct {
	FixTimeout   time.Duration `yaml:"fix_timeout"`
	SNRThreshold int           `yaml:"snr_threshold_dbhz"`
	MinVisible   int           `yaml:"min_visible"`
	MinGood      int           `yaml:"min_good"`
}

type WebConfig struct {
	Enable bool   `yaml:"enable"`
	Listen string `yaml:"listen"`
}

type UDPConfig struct {
	Enable   bool          `yaml:"enable"`
	Dest     string        `yaml:"dest"`
	Interval time.Duration `yaml:"interval"`
}

type MQTTConfig struct {
	Enable   bool   `yaml:"enable"`
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Topic    string `yaml:"topic"`
}

type PPSConfig struct {
	Enable bool `yaml:"enable"`
	Pin    int  `yaml:"pin"`
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	if cfg.Receiver.Source == "" {
		cfg.Receiver.Source = "serial"
	}
	if cfg.Receiver.Source != "serial" && cfg.Receiver.Source != "tcp" {
		return Config{}, fmt.Errorf("receiver.source must be \"serial\" or \"tcp\", got %q", cfg.Receiver.Source)
	}
	if cfg.Receiver.Source == "tcp" && cfg.Receiver.Addr == "" {
		return Config{}, fmt.Errorf("receiver.addr is required when receiver.source is tcp")
	}
	if cfg.Receiver.Baud == 0 {
		cfg.Receiver.Baud = 9600
	}

	if cfg.Status.FixTimeout < 0 {
		return Config{}, fmt.Errorf("status.fix_timeout must be >= 0")
	}
	if cfg.Status.SNRThreshold < 0 || cfg.Status.MinVisible < 0 || cfg.Status.MinGood < 0 {
		return Config{}, fmt.Errorf("status thresholds must be >= 0")
	}

	if cfg.Web.Enable && cfg.Web.Listen == "" {
		cfg.Web.Listen = ":8080"
	}

	if cfg.UDP.Enable {
		if cfg.UDP.Dest == "" {
			return Config{}, fmt.Errorf("udp.dest is required when udp.enable is true")
		}
		if cfg.UDP.Interval <= 0 {
			cfg.UDP.Interval = 1 * time.Second
		}
	}

	if cfg.MQTT.Enable {
		if cfg.MQTT.Broker == "" {
			return Config{}, fmt.Errorf("mqtt.broker is required when mqtt.enable is true")
		}
		if cfg.MQTT.ClientID == "" {
			cfg.MQTT.ClientID = "navmon"
		}
		if cfg.MQTT.Topic == "" {
			cfg.MQTT.Topic = "navmon/fix"
		}
	}

	if cfg.PPS.Enable && cfg.PPS.Pin <= 0 {
		return Config{}, fmt.Errorf("pps.pin is required when pps.enable is true")
	}

	return cfg, nil
}
