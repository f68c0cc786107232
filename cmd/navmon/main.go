package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"navmon/internal/config"
	"navmon/internal/gps"
	"navmon/internal/mqtt"
	"navmon/internal/nmea"
	"navmon/internal/pps"
	"navmon/internal/udp"
	"navmon/internal/web"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./dev.yaml", "Path to YAML config")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Printf("navmon starting")

	receiver := gps.New(gps.Config{
		Enable: true,
		Source: cfg.Receiver.Source,
		Device: cfg.Receiver.Device,
		Baud:   cfg.Receiver.Baud,
		Addr:   cfg.Receiver.Addr,
		Receiver: nmea.Config{
			FixTimeout:   cfg.Status.FixTimeout,
			SNRThreshold: cfg.Status.SNRThreshold,
			MinVisible:   cfg.Status.MinVisible,
			MinGood:      cfg.Status.MinGood,
		},
	})
	if err := receiver.Start(ctx); err != nil {
		log.Fatalf("receiver start failed: %v", err)
	}
	defer receiver.Close()
	log.Printf("receiver source=%s", cfg.Receiver.Source)

	var ppsSrc web.PPSSource
	if cfg.PPS.Enable {
		ppsSvc := pps.New(pps.Config{Enable: true, Pin: cfg.PPS.Pin})
		if err := ppsSvc.Start(); err != nil {
			// PPS is an accessory; run without it rather than dying.
			log.Printf("pps start failed: %v", err)
		}
		defer ppsSvc.Close()
		ppsSrc = ppsSvc
	}

	if cfg.Web.Enable {
		go func() {
			log.Printf("web listen=%s", cfg.Web.Listen)
			if err := web.Serve(ctx, cfg.Web.Listen, receiver, ppsSrc); err != nil && ctx.Err() == nil {
				log.Printf("web server stopped: %v", err)
				cancel()
			}
		}()
	}

	if cfg.UDP.Enable {
		broadcaster, err := udp.NewBroadcaster(cfg.UDP.Dest, cfg.UDP.Interval)
		if err != nil {
			log.Fatalf("udp broadcaster init failed: %v", err)
		}
		defer broadcaster.Close()
		log.Printf("udp dest=%s interval=%s", cfg.UDP.Dest, cfg.UDP.Interval)

		go func() {
			err := broadcaster.Run(ctx, func() []byte {
				b, err := json.Marshal(receiver.Snapshot())
				if err != nil {
					return nil
				}
				return b
			})
			if err != nil && ctx.Err() == nil {
				log.Printf("udp broadcaster stopped: %v", err)
				cancel()
			}
		}()
	}

	if cfg.MQTT.Enable {
		publisher := mqtt.New(mqtt.Config{
			Enable:   true,
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Topic:    cfg.MQTT.Topic,
		})
		if err := publisher.Connect(); err != nil {
			log.Fatalf("mqtt connect failed: %v", err)
		}
		defer publisher.Close()

		go func() {
			ticker := time.NewTicker(time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := publisher.PublishSnapshot(receiver.Snapshot()); err != nil {
						log.Printf("mqtt publish failed: %v", err)
					}
				}
			}
		}()
	}

	<-ctx.Done()
	log.Printf("navmon stopping")
}
