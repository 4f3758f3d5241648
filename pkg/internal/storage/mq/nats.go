package mq

import (
	"context"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"

	"github.com/yeisme/hydrogen/pkg/configs"
)

const (
	natsDrainTimeout   = 30 * time.Second
	natsFlusherTimeout = 10 * time.Second
)

func init() {
	RegisterFactory(configs.MQTypeNATS, natsFactory)
}

func natsOptions(cfg *configs.MQConfig) []nc.Option {
	n := cfg.NATS

	opts := []nc.Option{
		nc.Name(cfg.ClientID),
		nc.MaxReconnects(n.MaxReconnects),
		nc.ReconnectWait(n.ReconnectWait),
		nc.MaxPingsOutstanding(n.MaxPingsOut),
		nc.DrainTimeout(natsDrainTimeout),
		nc.FlusherTimeout(natsFlusherTimeout),
		nc.RetryOnFailedConnect(!n.StrictConnect),
	}

	if n.PingInterval > 0 {
		opts = append(opts, nc.PingInterval(n.PingInterval))
	}

	switch {
	case n.JWT != "":
		opts = append(opts, nc.UserJWTAndSeed(n.JWT, n.NKey))
	case n.User != "":
		opts = append(opts, nc.UserInfo(n.User, n.Password))
	}

	return opts
}

func jetStreamConfig(js configs.MQJetStreamConfig) nats.JetStreamConfig {
	if !js.Enabled {
		return nats.JetStreamConfig{Disabled: true}
	}

	return nats.JetStreamConfig{
		AutoProvision: js.AutoProvision,
		TrackMsgId:    js.TrackMsgID,
		AckAsync:      js.AckAsync,
		DurablePrefix: js.DurablePrefix,
	}
}

// natsURL 集群地址优先，缺少协议时补全 nats://.
func natsURL(n configs.MQNATSConfig) string {
	if len(n.ClusterURLs) > 0 {
		return strings.Join(n.ClusterURLs, ",")
	}

	if !strings.Contains(n.URL, "://") {
		return "nats://" + n.URL
	}

	return n.URL
}

func natsFactory(_ context.Context, cfg *configs.MQConfig, logger watermill.LoggerAdapter) (message.Publisher, message.Subscriber, error) {
	url := natsURL(cfg.NATS)
	opts := natsOptions(cfg)
	js := jetStreamConfig(cfg.NATS.JetStream)
	marshaler := &nats.JSONMarshaler{}

	logger.Debug("connecting nats", watermill.LogFields{"url": url, "jetstream": cfg.NATS.JetStream.Enabled})

	pub, err := nats.NewPublisher(nats.PublisherConfig{
		URL:         url,
		NatsOptions: opts,
		JetStream:   js,
		Marshaler:   marshaler,
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	subCfg := nats.SubscriberConfig{
		URL:         url,
		NatsOptions: opts,
		JetStream:   js,
		Unmarshaler: marshaler,
	}

	if cfg.NATS.QueueGroup {
		subCfg.QueueGroupPrefix = cfg.ClientID
	}

	sub, err := nats.NewSubscriber(subCfg, logger)
	if err != nil {
		_ = pub.Close()

		return nil, nil, err
	}

	return pub, sub, nil
}
