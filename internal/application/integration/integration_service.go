package integration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finerp/backend/internal/application/monitoring"
	"github.com/finerp/backend/internal/domain/integration"
	"github.com/finerp/backend/internal/domain/shared"
	"github.com/finerp/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Operation names used in logs, metrics and error events
const (
	OpCreate         = "create_integration"
	OpUpdate         = "update_integration"
	OpTestConnection = "test_connection"
	OpSync           = "sync"
)

// Service manages integrations and runs their providers
type Service struct {
	integrations integration.IntegrationRepository
	logs         integration.LogRepository
	registry     *integration.Registry
	sink         monitoring.ErrorSink
	logger       *zap.Logger
	now          func() time.Time
}

// NewService creates a new integration Service. A nil sink drops error events.
func NewService(
	integrations integration.IntegrationRepository,
	logs integration.LogRepository,
	registry *integration.Registry,
	sink monitoring.ErrorSink,
	logger *zap.Logger,
) *Service {
	if sink == nil {
		sink = monitoring.NopSink{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		integrations: integrations,
		logs:         logs,
		registry:     registry,
		sink:         sink,
		logger:       logger,
		now:          time.Now,
	}
}

// Create registers an integration
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req CreateIntegrationRequest, createdBy *uuid.UUID) (*IntegrationResponse, error) {
	i, err := integration.NewIntegration(tenantID, req.Name, integration.ProviderKind(req.Kind), req.Category)
	if err != nil {
		return nil, err
	}
	if err := i.Configure(req.BaseURL, req.AppKey, req.AppSecret, req.Token); err != nil {
		return nil, err
	}
	i.SetDescription(req.Description)
	i.SetSettings(req.Settings)
	if req.Active != nil {
		i.SetActive(*req.Active)
	}
	if createdBy != nil {
		i.SetCreatedBy(*createdBy)
	}

	if err := s.integrations.Save(ctx, i); err != nil {
		err = fmt.Errorf("failed to save integration: %w", err)
		s.report(ctx, i, OpCreate, err, map[string]any{"name": i.Name})
		return nil, err
	}
	return toIntegrationResponse(i), nil
}

// GetByID gets an integration by ID
func (s *Service) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*IntegrationResponse, error) {
	i, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toIntegrationResponse(i), nil
}

// List lists integrations with filtering
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, filter IntegrationListFilter) ([]IntegrationResponse, int64, error) {
	domainFilter := integration.IntegrationFilter{Active: filter.Active}
	domainFilter.Search = filter.Search
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.Filter = domainFilter.Filter.Normalize()
	if filter.Kind != "" {
		kind := integration.ProviderKind(filter.Kind)
		domainFilter.Kind = &kind
	}

	items, err := s.integrations.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.integrations.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]IntegrationResponse, len(items))
	for idx := range items {
		responses[idx] = *toIntegrationResponse(&items[idx])
	}
	return responses, total, nil
}

// Update applies a partial update. Changing connection settings clears the
// tested flag.
func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateIntegrationRequest) (*IntegrationResponse, error) {
	i, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Category != nil {
		name, category := i.Name, i.Category
		if req.Name != nil {
			name = *req.Name
		}
		if req.Category != nil {
			category = *req.Category
		}
		if err := i.Rename(name, category); err != nil {
			return nil, err
		}
	}
	if req.BaseURL != nil || req.AppKey != nil || hasValue(req.AppSecret) || hasValue(req.Token) {
		baseURL, appKey, secret, token := i.BaseURL, i.AppKey, i.AppSecret, i.Token
		if req.BaseURL != nil {
			baseURL = *req.BaseURL
		}
		if req.AppKey != nil {
			appKey = *req.AppKey
		}
		if hasValue(req.AppSecret) {
			secret = *req.AppSecret
		}
		if hasValue(req.Token) {
			token = *req.Token
		}
		if err := i.Configure(baseURL, appKey, secret, token); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		i.SetDescription(*req.Description)
	}
	if req.Settings != nil {
		i.SetSettings(req.Settings)
	}
	if req.Active != nil {
		i.SetActive(*req.Active)
	}

	if err := s.integrations.Save(ctx, i); err != nil {
		err = fmt.Errorf("failed to save integration: %w", err)
		s.report(ctx, i, OpUpdate, err, nil)
		return nil, err
	}
	return toIntegrationResponse(i), nil
}

// Delete deletes an integration
func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return notFound(s.integrations.DeleteForTenant(ctx, tenantID, id), "Integration")
}

// Kinds lists every known provider kind and whether an adapter serves it
func (s *Service) Kinds() []KindResponse {
	registered := make(map[integration.ProviderKind]bool)
	for _, k := range s.registry.Kinds() {
		registered[k] = true
	}
	kinds := integration.AllProviderKinds()
	out := make([]KindResponse, len(kinds))
	for idx, k := range kinds {
		out[idx] = KindResponse{Kind: string(k), Supported: registered[k]}
	}
	return out
}

// TestConnection runs the provider's connection test and stores the outcome.
// A failed test is a result, not an error; it is still reported to the sink.
func (s *Service) TestConnection(ctx context.Context, tenantID, id uuid.UUID) (*integration.TestResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "integration", OpTestConnection)
	defer span.End()

	i, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrIntegrationID, i.ID.String(),
		telemetry.SpanAttrProviderKind, string(i.Kind),
	)

	provider, err := s.registry.Get(i.Kind)
	if err != nil {
		return nil, err
	}

	result, err := provider.TestConnection(ctx, i)
	if err != nil {
		telemetry.RecordError(span, err)
		s.report(ctx, i, OpTestConnection, err, nil)
		result = &integration.TestResult{Success: false, Message: err.Error()}
	} else if !result.Success {
		s.reportTyped(ctx, i, OpTestConnection, monitoring.ErrorTypeProvider, errors.New(result.Message), result.Details)
	}

	i.RecordTest(result.Success)
	if err := s.integrations.Save(ctx, i); err != nil {
		err = fmt.Errorf("failed to save integration: %w", err)
		s.report(ctx, i, OpTestConnection, err, nil)
		return nil, err
	}
	if result.Success {
		s.writeLog(ctx, i, OpTestConnection, result.Message, nil)
	}

	s.logger.Info("Integration connection tested",
		zap.String("tenant_id", tenantID.String()),
		zap.String("integration_id", i.ID.String()),
		zap.String("kind", string(i.Kind)),
		zap.Bool("success", result.Success),
	)
	return result, nil
}

// Sync runs a synchronization. The integration must be active and tested and
// its kind must have a registered provider.
func (s *Service) Sync(ctx context.Context, tenantID uuid.UUID, req SyncIntegrationRequest) (*integration.SyncResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "integration", OpSync)
	defer span.End()

	i, err := s.find(ctx, tenantID, req.IntegrationID)
	if err != nil {
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrIntegrationID, i.ID.String(),
		telemetry.SpanAttrProviderKind, string(i.Kind),
		telemetry.SpanAttrOperation, req.DataType,
	)

	if err := i.CanSync(); err != nil {
		return nil, err
	}
	provider, err := s.registry.Get(i.Kind)
	if err != nil {
		return nil, err
	}

	result, err := provider.Sync(ctx, i, integration.SyncRequest{DataType: req.DataType, Parameters: req.Parameters})
	if err != nil {
		telemetry.RecordError(span, err)
		if integration.IsNotSupported(err) {
			return nil, err
		}
		s.report(ctx, i, OpSync, err, map[string]any{"data_type": req.DataType})
		return nil, fmt.Errorf("sync failed: %w", err)
	}

	i.MarkSynced(s.now())
	if err := s.integrations.Save(ctx, i); err != nil {
		err = fmt.Errorf("failed to save integration: %w", err)
		s.report(ctx, i, OpSync, err, nil)
		return nil, err
	}
	s.writeLog(ctx, i, OpSync, fmt.Sprintf("Synchronized %s", req.DataType), result)

	s.logger.Info("Integration synchronized",
		zap.String("tenant_id", tenantID.String()),
		zap.String("integration_id", i.ID.String()),
		zap.String("data_type", req.DataType),
		zap.Int("processed", result.Processed),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

func (s *Service) find(ctx context.Context, tenantID, id uuid.UUID) (*integration.Integration, error) {
	i, err := s.integrations.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, notFound(err, "Integration")
	}
	return i, nil
}

func (s *Service) report(ctx context.Context, i *integration.Integration, op string, err error, details map[string]any) {
	s.reportTyped(ctx, i, op, monitoring.ClassifyError(err), err, details)
}

func (s *Service) reportTyped(ctx context.Context, i *integration.Integration, op, errorType string, err error, details map[string]any) {
	event := monitoring.NewErrorEvent(i.TenantID, &i.ID, op, err)
	event.ErrorType = errorType
	event.ProviderKind = string(i.Kind)
	if details != nil {
		event.Context = details
	}
	s.sink.Report(ctx, event)
}

// writeLog records a successful operation; failures arrive through the sink
func (s *Service) writeLog(ctx context.Context, i *integration.Integration, op, message string, result *integration.SyncResult) {
	entry := integration.NewLog(i.TenantID, &i.ID, op, integration.LogStatusSuccess, message)
	if result != nil {
		entry.Processed = result.Processed
		entry.Imported = result.Imported
		entry.Updated = result.Updated
		entry.Failed = result.Failed
	}
	if err := s.logs.Create(ctx, entry); err != nil {
		s.logger.Warn("Failed to write integration log",
			zap.String("integration_id", i.ID.String()),
			zap.String("operation", op),
			zap.Error(err),
		)
	}
}

func hasValue(p *string) bool {
	return p != nil && *p != ""
}

func notFound(err error, resource string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError(resource)
	}
	return err
}
