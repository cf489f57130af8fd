package mqtt

import "errors"

var (
	ErrInvalidURL   = errors.New("invalid MQTT server URL")
	ErrNotConnected = errors.New("MQTT client is not connected")
	ErrInvalidTopic = errors.New("invalid theme event topic")
)
