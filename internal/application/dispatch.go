// Package application contains the webhook dispatch service and the policy handlers.
package application

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ericfisherdev/gitmonitor/internal/domain/model"
)

const tracerName = "github.com/ericfisherdev/gitmonitor/internal/application"

// DispatchService routes a webhook delivery to the handlers registered for
// its event name and folds their outcomes into the delivery's result.
type DispatchService struct {
	registry *Registry
	logger   *slog.Logger
	tracer   trace.Tracer
}

// NewDispatchService creates a DispatchService over an immutable registry.
func NewDispatchService(registry *Registry, logger *slog.Logger) *DispatchService {
	return &DispatchService{
		registry: registry,
		logger:   logger,
		tracer:   otel.Tracer(tracerName),
	}
}

// Process runs every handler registered for event against body and appends
// one message per handler to result. Unregistered events are not an error:
// nothing is appended. A handler that fails or panics is reported in result
// and does not stop the remaining handlers.
func (s *DispatchService) Process(ctx context.Context, event string, body []byte, result *model.WebhookResult) {
	factories := s.registry.Lookup(event)
	if len(factories) == 0 {
		s.logger.Debug("no handler registered for event", "event", event)
		return
	}

	for _, factory := range factories {
		s.invoke(ctx, factory(), event, body, result)
	}
}

func (s *DispatchService) invoke(ctx context.Context, handler EventHandler, event string, body []byte, result *model.WebhookResult) {
	name := handler.Name()

	ctx, span := s.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("github.event", event),
	))
	defer span.End()

	outcome, err := execute(ctx, handler, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("event handler failed", "handler", name, "event", event, "error", err)
		result.AppendError(name, err)
		return
	}

	span.SetAttributes(attribute.String("gitmonitor.outcome", outcome.Kind.String()))
	s.logger.Info("event handled",
		"handler", name,
		"event", event,
		"outcome", outcome.Kind.String(),
		"description", outcome.Description,
	)
	result.Append(name, outcome)
}

// execute runs the handler, converting a panic into an error.
func execute(ctx context.Context, handler EventHandler, body []byte) (outcome model.Outcome, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("panic: %v", v)
		}
	}()

	return handler.Execute(ctx, body)
}
