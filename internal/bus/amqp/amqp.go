// Package amqp implements AMQP service.

package amqp

import (
	"context"
	"encoding/json"

	"nbgrader-validate/internal/bus/errors"
	"nbgrader-validate/internal/bus/modelbus"
	"nbgrader-validate/internal/config"
	"nbgrader-validate/internal/syncutils"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// AMQP defines queue client object and sets its attributes.
type AMQP struct {
	config    *config.Config
	log       *zerolog.Logger
	channel   *amqp.Channel
	syncUtils *syncutils.SyncUtils
}

// NewAMQP initializes a new AMQP service. Without an address, or when the broker
// cannot be reached, the service stays disabled.
func NewAMQP(config *config.Config, logger *zerolog.Logger, syncUtils *syncutils.SyncUtils) *AMQP {
	logger.Debug().Msg("calling initializer of AMQP service")
	t := &AMQP{
		config:    config,
		log:       logger,
		syncUtils: syncUtils,
	}
	if config.AMQP.Addr == "" {
		logger.Debug().Msg("AMQP_ADDR is empty, AMQP is disabled")
		return t
	}
	if err := t.init(); err != nil {
		t.channel = nil
		t.log.Error().Err(err).Msg(errors.AMQPInitiationError)
	}
	return t
}

// Enabled reports whether a channel is open.
func (a *AMQP) Enabled() bool {
	return a.channel != nil
}

// init performs declaration and bindings of queues and exchanges.
func (a *AMQP) init() error {
	a.log.Debug().Msg("calling `init` method")
	conn, err := amqp.Dial(a.config.AMQP.Addr)
	if err != nil {
		a.log.Error().Err(err).Msg(errors.AMQPConnectionError)
		return err
	}

	channel, err := conn.Channel()
	if err != nil {
		a.log.Error().Err(err).Msg(errors.AMQPChannelOpeningError)
		_ = conn.Close()
		return err
	}
	a.channel = channel

	if err = channel.Qos(1, 0, false); err != nil {
		a.log.Error().Err(err).Msg(errors.AMQPSettingQosError)
		_ = conn.Close()
		return err
	}

	cfg := a.config.AMQP
	var waitGroup errgroup.Group

	{ // exchange declaration
		for _, name := range []string{cfg.ValidationExchangeInputName, cfg.ValidationExchangeOutputName} {
			name := name
			waitGroup.Go(func() error {
				return channel.ExchangeDeclare(name, "fanout", true, false, false, false, nil)
			})
		}
		if err := waitGroup.Wait(); err != nil {
			a.log.Error().Err(err).Msg(errors.AMQPExchangeDeclarationError)
			_ = conn.Close()
			return err
		}
	}

	{ // queue declaration
		for _, name := range []string{cfg.ValidationQueueName, cfg.ResultsQueueName} {
			name := name
			waitGroup.Go(func() error {
				_, err := channel.QueueDeclare(name, true, false, false, false, amqp.Table{})
				return err
			})
		}
		if err := waitGroup.Wait(); err != nil {
			a.log.Error().Err(err).Msg(errors.AMQPQueueDeclarationError)
			_ = conn.Close()
			return err
		}
	}

	{ // queue binding
		waitGroup.Go(func() error {
			return channel.QueueBind(cfg.ValidationQueueName, "", cfg.ValidationExchangeInputName, false, nil)
		})
		waitGroup.Go(func() error {
			return channel.QueueBind(cfg.ResultsQueueName, "", cfg.ValidationExchangeOutputName, false, nil)
		})
		if err := waitGroup.Wait(); err != nil {
			a.log.Error().Err(err).Msg(errors.AMQPQueueBindingError)
			_ = conn.Close()
			return err
		}
	}

	a.syncUtils.Go(func(ctx context.Context) {
		<-ctx.Done()
		if err := conn.Close(); err != nil {
			a.log.Error().Err(err).Msg("could not close AMQP connection")
			return
		}
		a.log.Debug().Msg("AMQP connection was closed")
	})
	return nil
}

// PublishToExchange publishes a message to the specified exchange.
func (a *AMQP) PublishToExchange(ctx context.Context, exchange string, msg amqp.Publishing) error {
	a.log.Debug().Msg("calling `PublishToExchange` method")
	if !a.Enabled() {
		return errors.ErrDisabled
	}

	if err := a.channel.PublishWithContext(ctx, exchange, "", false, false, msg); err != nil {
		a.log.Error().Err(err).Msg(errors.AMQPPublishingError)
		return err
	}

	a.log.Info().Str("exchange", exchange).Msg("message was successfully published to AMQP")
	return nil
}

// publishJSON serializes v and publishes it to exchange.
func (a *AMQP) publishJSON(ctx context.Context, exchange string, v interface{}) error {
	serialized, err := json.Marshal(v)
	if err != nil {
		a.log.Error().Err(err).Msg(errors.AMQPMarshallingError)
		return err
	}
	return a.PublishToExchange(ctx, exchange, amqp.Publishing{
		ContentType: "application/json",
		Headers:     amqp.Table{},
		Body:        serialized,
	})
}

// PublishValidationRequest submits a validation request to the input exchange.
func (a *AMQP) PublishValidationRequest(ctx context.Context, msg modelbus.MsgValidate) error {
	a.log.Debug().Msg("calling `PublishValidationRequest` method")
	return a.publishJSON(ctx, a.config.AMQP.ValidationExchangeInputName, msg)
}

// PublishValidationResult publishes a validation result event. It is a no-op when AMQP is disabled.
func (a *AMQP) PublishValidationResult(ctx context.Context, msg modelbus.Rsp) error {
	a.log.Debug().Msg("calling `PublishValidationResult` method")
	if !a.Enabled() {
		return nil
	}
	return a.publishJSON(ctx, a.config.AMQP.ValidationExchangeOutputName, msg)
}

// AddQueueListener consumes queueName until the channel closes or ctx is done, passing every
// delivery to fn. Deliveries are acknowledged whether fn succeeds or not.
func (a *AMQP) AddQueueListener(ctx context.Context, queueName string, fn func(ctx context.Context, d *amqp.Delivery) error) error {
	a.log.Debug().Msg("calling `AddQueueListener` method")
	if !a.Enabled() {
		return errors.ErrDisabled
	}
	messages, err := a.channel.Consume(queueName,
		"", false, false, false, false, nil)
	if err != nil {
		a.log.Error().Err(err).Msg(errors.AMQPConsumingError)
		return err
	}

	a.log.Info().Str("queue", queueName).Msg("AMQP: consumer started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-messages:
			if !ok {
				return nil
			}
			a.log.Debug().Str("body", string(delivery.Body)).Msg("AMQP: received message")

			if fnErr := fn(ctx, &delivery); fnErr != nil {
				a.log.Warn().Err(fnErr).Msg(errors.AMQPMessageProcessingError)
			}
			if ackErr := delivery.Ack(false); ackErr != nil {
				a.log.Error().Err(ackErr).Msg(errors.AMQPAckError)
				return ackErr
			}
		}
	}
}
