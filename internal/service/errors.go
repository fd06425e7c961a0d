package service

import "errors"

var (
	ErrGatewayNil   = errors.New("task gateway is nil")
	ErrTaskNotFound = errors.New("task not found")
)
