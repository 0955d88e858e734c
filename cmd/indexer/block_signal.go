//go:build !zmq

package main

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// startBlockSignal without zmq support leaves the consumer on polling.
func startBlockSignal(_ context.Context, addr string, _ *zap.Logger) (<-chan struct{}, error) {
	if addr == "" {
		return nil, nil
	}
	return nil, errors.New("zmq address set but the binary was built without the zmq tag")
}
