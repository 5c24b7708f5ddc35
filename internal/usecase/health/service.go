// Package health aggregates the availability of the service dependencies.
package health

import (
	"context"
	"time"
)

// ServiceName is reported by every health check.
const ServiceName = "hr-policy-assistant"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "healthy"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names.
const (
	CheckIndex        = "index"
	CheckChatProvider = "chat_provider"
)

// Report aggregates health check results.
type Report struct {
	Status             Status
	Service            string
	ModelName          string
	EmbeddingModelName string
	Timestamp          int64
	Checks             map[string]CheckResult
}

// Models names the models reported by the health check.
type Models struct {
	Chat      string
	Embedding string
}

// Service coordinates health checks.
type Service struct {
	index    IndexPinger
	provider ProviderChecker
	models   Models
	now      func() time.Time
}

// New creates a Service. provider can be nil to skip probing the model provider.
func New(index IndexPinger, provider ProviderChecker, models Models) *Service {
	return &Service{index: index, provider: provider, models: models, now: time.Now}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.index.Ping(ctx); err != nil {
		checks[CheckIndex] = CheckError
	} else {
		checks[CheckIndex] = CheckOK
	}

	if s.provider != nil {
		if err := s.provider.HealthCheck(ctx); err != nil {
			checks[CheckChatProvider] = CheckError
		} else {
			checks[CheckChatProvider] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{
		Status:             status,
		Service:            ServiceName,
		ModelName:          s.models.Chat,
		EmbeddingModelName: s.models.Embedding,
		Timestamp:          s.now().Unix(),
		Checks:             checks,
	}
}
