package session

import "errors"

var ErrSessionClosed = errors.New("session already run")
