package rps

import "errors"

var ErrInvalidMove = errors.New("invalid move")

type InvalidConfigError string

func (e InvalidConfigError) Error() string { return "invalid config: " + string(e) }

func ErrInvalidConfig(msg string) error { return InvalidConfigError(msg) }
