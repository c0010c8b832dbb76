package monitoring

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/finerp/backend/internal/domain/integration"
	"github.com/google/uuid"
)

// Health status values
const (
	StatusHealthy  = "healthy"
	StatusWarning  = "warning"
	StatusCritical = "critical"
)

// DatabaseChecker checks connectivity and table presence
type DatabaseChecker interface {
	Ping(ctx context.Context) error
	CountRows(ctx context.Context, table string) (int64, error)
}

// TableHealth is the state of one critical table
type TableHealth struct {
	Exists bool   `json:"exists"`
	Count  int64  `json:"count"`
	Error  string `json:"error,omitempty"`
}

// DatabaseHealth is the result of a database check
type DatabaseHealth struct {
	Connected bool                   `json:"database_connected"`
	Error     string                 `json:"error,omitempty"`
	Tables    map[string]TableHealth `json:"tables,omitempty"`
	CheckedAt time.Time              `json:"timestamp"`
}

// ErrorAnalysis groups recent persisted integration errors
type ErrorAnalysis struct {
	TotalErrors     int                               `json:"total_errors"`
	ByType          map[string]int                    `json:"error_patterns"`
	ByOperation     map[string]int                    `json:"common_operations"`
	LastDay         []integration.OperationErrorCount `json:"last_24h"`
	MostCommonType  string                            `json:"most_common_error_type,omitempty"`
	Recent          []integration.Log                 `json:"recent,omitempty"`
	Recommendations []string                          `json:"recommendations"`
}

// IntegrationHealth is the report served on /health/integrations
type IntegrationHealth struct {
	Status          string         `json:"status"`
	CheckedAt       time.Time      `json:"timestamp"`
	Database        DatabaseHealth `json:"database"`
	Errors          ErrorAnalysis  `json:"error_analysis"`
	Recommendations []string       `json:"recommendations"`
}

// HealthConfig tunes the analysis
type HealthConfig struct {
	Tables         []string // tables whose presence is checked
	ErrorWindow    int      // number of recent error logs analyzed
	WarnThreshold  int      // errors in the window above which status is warning
	RecentExamples int      // error logs echoed in the report
}

// DefaultHealthConfig returns the default analysis settings
func DefaultHealthConfig() HealthConfig {
	return HealthConfig{
		Tables:         []string{"account_payables", "payments", "integrations", "integration_logs"},
		ErrorWindow:    100,
		WarnThreshold:  10,
		RecentExamples: 5,
	}
}

// HealthService answers the health endpoints
type HealthService struct {
	db     DatabaseChecker
	logs   integration.LogRepository
	config HealthConfig
	now    func() time.Time
}

// NewHealthService creates a new HealthService
func NewHealthService(db DatabaseChecker, logs integration.LogRepository, config HealthConfig) *HealthService {
	def := DefaultHealthConfig()
	if len(config.Tables) == 0 {
		config.Tables = def.Tables
	}
	if config.ErrorWindow <= 0 {
		config.ErrorWindow = def.ErrorWindow
	}
	if config.WarnThreshold <= 0 {
		config.WarnThreshold = def.WarnThreshold
	}
	if config.RecentExamples <= 0 {
		config.RecentExamples = def.RecentExamples
	}
	return &HealthService{db: db, logs: logs, config: config, now: time.Now}
}

// Database pings the database and counts rows of the critical tables
func (s *HealthService) Database(ctx context.Context) DatabaseHealth {
	status := DatabaseHealth{CheckedAt: s.now()}
	if err := s.db.Ping(ctx); err != nil {
		status.Error = err.Error()
		return status
	}
	status.Connected = true
	status.Tables = make(map[string]TableHealth, len(s.config.Tables))
	for _, table := range s.config.Tables {
		count, err := s.db.CountRows(ctx, table)
		if err != nil {
			status.Tables[table] = TableHealth{Error: err.Error()}
			continue
		}
		status.Tables[table] = TableHealth{Exists: true, Count: count}
	}
	return status
}

// Integrations combines the database check with an analysis of the tenant's
// recent integration errors
func (s *HealthService) Integrations(ctx context.Context, tenantID uuid.UUID) (*IntegrationHealth, error) {
	db := s.Database(ctx)
	report := &IntegrationHealth{
		Status:    StatusHealthy,
		CheckedAt: db.CheckedAt,
		Database:  db,
		Errors:    ErrorAnalysis{ByType: map[string]int{}, ByOperation: map[string]int{}, Recommendations: []string{}},
	}

	if !db.Connected {
		report.Status = StatusCritical
		report.Recommendations = s.recommend(db, report.Errors)
		return report, nil
	}

	analysis, err := s.analyze(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	report.Errors = analysis

	switch {
	case analysis.TotalErrors > s.config.WarnThreshold:
		report.Status = StatusWarning
	case missingTables(db):
		report.Status = StatusWarning
	}
	report.Recommendations = s.recommend(db, analysis)
	return report, nil
}

func (s *HealthService) analyze(ctx context.Context, tenantID uuid.UUID) (ErrorAnalysis, error) {
	analysis := ErrorAnalysis{ByType: map[string]int{}, ByOperation: map[string]int{}, Recommendations: []string{}}

	recent, err := s.logs.FindRecentErrors(ctx, tenantID, s.config.ErrorWindow)
	if err != nil {
		return analysis, fmt.Errorf("failed to load integration errors: %w", err)
	}
	lastDay, err := s.logs.CountErrorsByOperation(ctx, tenantID, s.now().Add(-24*time.Hour))
	if err != nil {
		return analysis, fmt.Errorf("failed to count integration errors: %w", err)
	}

	analysis.TotalErrors = len(recent)
	analysis.LastDay = lastDay
	for _, l := range recent {
		errorType := l.ErrorType
		if errorType == "" {
			errorType = ErrorTypeInternal
		}
		analysis.ByType[errorType]++
		analysis.ByOperation[l.Operation]++
	}
	analysis.MostCommonType = mostCommon(analysis.ByType)
	if n := min(s.config.RecentExamples, len(recent)); n > 0 {
		analysis.Recent = recent[:n]
	}
	if hint := hintFor(analysis.MostCommonType); hint != "" {
		analysis.Recommendations = append(analysis.Recommendations, hint)
	}
	return analysis, nil
}

func (s *HealthService) recommend(db DatabaseHealth, analysis ErrorAnalysis) []string {
	out := []string{}
	if !db.Connected {
		out = append(out, "Check the PostgreSQL connection settings", "Confirm the database server is running")
	}
	tables := make([]string, 0, len(db.Tables))
	for table := range db.Tables {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	for _, table := range tables {
		if !db.Tables[table].Exists {
			out = append(out, fmt.Sprintf("Recreate table %s", table))
		}
	}
	if analysis.TotalErrors > s.config.WarnThreshold/2 {
		out = append(out, "Investigate recurring integration errors")
	}
	return append(out, analysis.Recommendations...)
}

func missingTables(db DatabaseHealth) bool {
	for _, t := range db.Tables {
		if !t.Exists {
			return true
		}
	}
	return false
}

// mostCommon returns the key with the highest count; ties go to the
// lexically smallest key so the result is stable
func mostCommon(counts map[string]int) string {
	best, bestCount := "", 0
	for k, c := range counts {
		if c > bestCount || (c == bestCount && k < best) {
			best, bestCount = k, c
		}
	}
	return best
}

func hintFor(errorType string) string {
	switch errorType {
	case ErrorTypeValidation:
		return "Validate integration settings before saving"
	case ErrorTypeDatabase:
		return "Check the database connection and schema"
	case ErrorTypeTimeout:
		return "Raise the provider timeout or check the remote system latency"
	case ErrorTypeNetwork:
		return "Check network access to the integration base URL"
	case ErrorTypeProvider:
		return "Review the provider credentials and API status"
	}
	return ""
}
