package middleware

import (
	"github.com/adl-parti/membership-backend/pkg/logger"
)

type Middleware struct {
	Logger *logger.Logger
}

func New(logger *logger.Logger) *Middleware {
	return &Middleware{Logger: logger}
}
