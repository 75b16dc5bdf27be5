package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	randomRequestSubject = "vrf.requests"
	vrfAddressSubject    = "vrf.address"
	vrfAddressTimeout    = 5 * time.Second
)

// randomRequest is the wire format of a randomness request
type randomRequest struct {
	Key string `json:"key"`
	Min int64  `json:"min"`
	Max int64  `json:"max"`
}

// vrfAddressReply is the wire format of a VRF address lookup response
type vrfAddressReply struct {
	Key     string `json:"key"`
	Address string `json:"address"`
	Error   string `json:"error,omitempty"`
}

// NATSOracle implements the randomness oracle over NATS. Requests are
// published to the oracle bridge, which relays them to the on-chain VRF
// and feeds reveals back on the reveal subjects.
type NATSOracle struct {
	natsClient *NATSClient
}

// NewNATSOracle creates a new NATS-backed randomness oracle
func NewNATSOracle(natsClient *NATSClient) *NATSOracle {
	return &NATSOracle{natsClient: natsClient}
}

// RequestRandom publishes a randomness request keyed by the entity id.
// The reveal arrives asynchronously on the reveal subjects.
func (o *NATSOracle) RequestRandom(ctx context.Context, key string, min, max int64) error {
	payload, err := json.Marshal(randomRequest{Key: key, Min: min, Max: max})
	if err != nil {
		return fmt.Errorf("failed to marshal randomness request: %w", err)
	}

	if err := o.natsClient.Publish(ctx, randomRequestSubject, payload); err != nil {
		return fmt.Errorf("failed to publish randomness request for %s: %w", key, err)
	}

	log.WithFields(log.Fields{
		"key": key,
		"min": min,
		"max": max,
	}).Debug("Requested randomness from oracle")
	return nil
}

// VRFAddress asks the oracle bridge for the on-chain address of the
// randomness request for key
func (o *NATSOracle) VRFAddress(ctx context.Context, key string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, vrfAddressTimeout)
	defer cancel()

	payload, err := json.Marshal(randomRequest{Key: key})
	if err != nil {
		return "", fmt.Errorf("failed to marshal VRF address request: %w", err)
	}

	data, err := o.natsClient.Request(reqCtx, vrfAddressSubject, payload)
	if err != nil {
		return "", fmt.Errorf("VRF address lookup for %s failed: %w", key, err)
	}

	var reply vrfAddressReply
	if err := json.Unmarshal(data, &reply); err != nil {
		return "", fmt.Errorf("failed to unmarshal VRF address reply: %w", err)
	}
	if reply.Error != "" {
		return "", fmt.Errorf("VRF address lookup for %s: %s", key, reply.Error)
	}

	return reply.Address, nil
}
