package estimate_duration

import (
	"context"

	estimateDuration "github.com/m04kA/SMC-GroomingService/internal/usecase/estimate_duration"
)

type EstimateDurationUseCase interface {
	Execute(ctx context.Context, req *estimateDuration.Request) (*estimateDuration.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
