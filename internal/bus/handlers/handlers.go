// Package handlers implements AMQP handling functions.

package handlers

import (
	"context"
	"encoding/json"

	"nbgrader-validate/internal/agent/agent"
	busamqp "nbgrader-validate/internal/bus/amqp"
	"nbgrader-validate/internal/bus/errors"
	"nbgrader-validate/internal/bus/modelbus"
	"nbgrader-validate/internal/config"
	"nbgrader-validate/internal/validation"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const (
	handlerKey   = "amqp"
	requestIDKey = "request_id"
)

// AMQPHandler defines an AMQP handler object and sets its attributes.
type AMQPHandler struct {
	log   *zerolog.Logger
	amqp  *busamqp.AMQP
	cfg   *config.Config
	agent *agent.Agent
}

// NewAMQPHandler initializes a new AMQP handling service.
func NewAMQPHandler(logger *zerolog.Logger, agent *agent.Agent, amqp *busamqp.AMQP, cfg *config.Config) *AMQPHandler {
	logger.Debug().Msg("calling initializer of AMQP handling service")
	return &AMQPHandler{
		log:   logger,
		agent: agent,
		amqp:  amqp,
		cfg:   cfg,
	}
}

// HandleValidation handles one validation request delivered over AMQP. The result is
// published to the output exchange by the agent.
func (h *AMQPHandler) HandleValidation(ctx context.Context, d *amqp.Delivery) error {
	h.log.Debug().Msg("calling `HandleValidation` method")
	const handler = "validate"

	msg := modelbus.MsgValidate{}
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		h.log.Error().Err(err).Msg(errors.AMQPUnmarshallingError)
		return err
	}
	if err := validation.Struct(msg); err != nil {
		h.log.Error().Err(err).Msg(errors.AMQPUnmarshallingError)
		return err
	}
	if _, err := uuid.Parse(msg.RequestID); err != nil {
		msg.RequestID = uuid.New().String()
	}

	data, err := h.agent.Validate(ctx, msg.RequestID, *msg.Name, handler)
	if err != nil {
		h.log.Error().Err(err).Str(handlerKey, handler).Str(requestIDKey, msg.RequestID).Msg(errors.AMQPHandlerValidationError)
		return err
	}

	h.log.Info().Str(handlerKey, handler).Str(requestIDKey, msg.RequestID).Dict("validation_data", zerolog.Dict().
		Str("path", data.Path).Str("status", data.Status).Int("exit_code", data.ExitCode)).Msg("validation is complete")
	return nil
}

// Handle consumes the validation queue until ctx is done.
func (h *AMQPHandler) Handle(ctx context.Context) error {
	h.log.Debug().Msg("calling `Handle` method")
	if err := h.amqp.AddQueueListener(ctx, h.cfg.AMQP.ValidationQueueName, h.HandleValidation); err != nil {
		h.log.Error().Err(err).Msg(errors.AMQPListeningError)
		return err
	}
	return nil
}
