package service

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingChannel signals that a required telemetry channel (x, y or
	// speed) is absent from a driver's input stream.
	ErrMissingChannel = errors.New("required telemetry channel missing")
	// ErrNoData signals that a driver's stream has no usable samples left.
	ErrNoData = errors.New("no usable telemetry data")
	// ErrNoDrivers signals a request without any driver streams.
	ErrNoDrivers = errors.New("no drivers provided")
	// ErrColorMapping signals that the injected driver color mapping does
	// not cover every requested driver.
	ErrColorMapping = errors.New("driver color mapping incomplete")
)

func missingChannel(driver, channel string) error {
	return fmt.Errorf("driver %s: channel %q: %w", driver, channel, ErrMissingChannel)
}

func noData(driver string) error {
	return fmt.Errorf("driver %s: %w", driver, ErrNoData)
}

func misalignedChannel(driver, channel string, got, want int) error {
	return fmt.Errorf("driver %s: channel %q has %d samples, expected %d: %w",
		driver, channel, got, want, ErrNoData)
}
