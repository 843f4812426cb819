package events

import (
	"fmt"
	"strings"

	"github.com/skillshare-dao/skillshare-dao/internal/config"
)

// New builds the publisher selected by cfg.Backend ("nats", "kafka" or empty/"none").
func New(cfg config.EventsConfig) (Publisher, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "none":
		return Nop{}, nil
	case "nats":
		return NewNATSPublisher(cfg.NATSURL, cfg.Subject)
	case "kafka":
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.Topic)
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
}
