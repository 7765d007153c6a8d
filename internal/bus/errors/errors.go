// Package errors provides string codes for error instantiation.

package errors

import "errors"

const (
	AMQPConnectionError          = "could not connect to AMQP"
	AMQPChannelOpeningError      = "could not open an AMQP channel"
	AMQPSettingQosError          = "could not set QoS"
	AMQPExchangeDeclarationError = "could not declare an exchange"
	AMQPQueueDeclarationError    = "could not declare a queue"
	AMQPQueueBindingError        = "could not bind a queue"
	AMQPInitiationError          = "could not initialize AMQP"
	AMQPPublishingError          = "could not publish a message"
	AMQPConsumingError           = "failed to start consuming messages from queue"
	AMQPAckError                 = "failed to acknowledge message"
	AMQPMessageProcessingError   = "failed to process message"
	AMQPListeningError           = "failed to listen to queue"
	AMQPUnmarshallingError       = "failed to unmarshall message"
	AMQPMarshallingError         = "failed to marshall message"
	AMQPHandlerValidationError   = "failed to run validation for AMQP-derived query"
)

// ErrDisabled is returned by operations that require a configured AMQP_ADDR.
var ErrDisabled = errors.New("AMQP is disabled: AMQP_ADDR is not set")
