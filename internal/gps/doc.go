// Package gps runs the receiver service: it opens the configured NMEA
// source (serial device or TCP bridge), feeds lines into the nmea core
// one at a time, and publishes immutable state snapshots for the web,
// UDP and MQTT surfaces.
package gps
