package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	apperrors "github.com/target/odoo-school-client/internal/errors"
	"github.com/target/odoo-school-client/internal/odoo"
)

// MsgOffline is shown when a write is refused because the server is unreachable.
const MsgOffline = "Sin conexión con el servidor"

// RecordGateway is the slice of the Odoo client used for model CRUD.
type RecordGateway interface {
	SearchRead(ctx context.Context, model string, domain odoo.Domain, opts odoo.SearchReadOptions) ([]odoo.Record, error)
	Read(ctx context.Context, model string, ids []int64, fields []string) ([]odoo.Record, error)
	SearchCount(ctx context.Context, model string, domain odoo.Domain) (int64, error)
	Create(ctx context.Context, model string, values map[string]any) (int64, error)
	Update(ctx context.Context, model string, ids []int64, values map[string]any) (bool, error)
	DeleteRecords(ctx context.Context, model string, ids []int64) (bool, error)
	CallMethod(ctx context.Context, model, method string, args []any, kwargs map[string]any) (json.RawMessage, error)
}

// HealthChecker reports whether the backend is reachable.
type HealthChecker interface {
	CheckServerHealth(ctx context.Context) bool
}

// Odoo models used by the school application.
const (
	ModelSection    = "school.section"
	ModelStudent    = "school.student"
	ModelEvaluation = "school.evaluation"
	ModelPartner    = "res.partner"
)

// RecordServiceOptions groups dependencies for RecordService.
type RecordServiceOptions struct {
	Gateway RecordGateway
	Health  HealthChecker
	Logger  *slog.Logger
}

// RecordService is model-scoped CRUD over the generic data primitives.
// Writes are refused with ErrCodeOffline when the server does not answer a health probe.
type RecordService struct {
	model   string
	fields  []string
	gateway RecordGateway
	health  HealthChecker
	logger  *slog.Logger
}

// NewRecordService constructs a RecordService for model. fields is the default
// projection for List and Get.
func NewRecordService(model string, fields []string, opts RecordServiceOptions) (*RecordService, error) {
	if model == "" {
		return nil, errors.New("model is required")
	}
	if opts.Gateway == nil {
		return nil, errors.New("Gateway is required")
	}
	if opts.Health == nil {
		return nil, errors.New("Health is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RecordService{
		model:   model,
		fields:  fields,
		gateway: opts.Gateway,
		health:  opts.Health,
		logger:  logger.With("component", "record_service", "model", model),
	}, nil
}

// NewSectionService returns a RecordService for class sections.
func NewSectionService(opts RecordServiceOptions) (*RecordService, error) {
	return NewRecordService(ModelSection, []string{"name", "grade_id", "year_id", "teacher_id", "capacity"}, opts)
}

// NewStudentService returns a RecordService for students.
func NewStudentService(opts RecordServiceOptions) (*RecordService, error) {
	return NewRecordService(ModelStudent, []string{"name", "code", "section_id", "partner_id", "state"}, opts)
}

// NewEvaluationService returns a RecordService for evaluations.
func NewEvaluationService(opts RecordServiceOptions) (*RecordService, error) {
	return NewRecordService(ModelEvaluation, []string{"name", "student_id", "subject_id", "score", "date", "state"}, opts)
}

// NewPartnerService returns a RecordService for contacts.
func NewPartnerService(opts RecordServiceOptions) (*RecordService, error) {
	return NewRecordService(ModelPartner, []string{"name", "email", "phone"}, opts)
}

// Model returns the Odoo model name.
func (s *RecordService) Model() string { return s.model }

// ListOptions pages and sorts List.
type ListOptions struct {
	Fields []string
	Limit  int
	Offset int
	Order  string
}

// List returns records matching domain, projected to opts.Fields or the service defaults.
func (s *RecordService) List(ctx context.Context, domain odoo.Domain, opts ListOptions) ([]odoo.Record, error) {
	fields := opts.Fields
	if len(fields) == 0 {
		fields = s.fields
	}
	recs, err := s.gateway.SearchRead(ctx, s.model, domain, odoo.SearchReadOptions{
		Fields: fields,
		Limit:  opts.Limit,
		Offset: opts.Offset,
		Order:  opts.Order,
	})
	if err != nil {
		return nil, s.mapError("list", err)
	}
	return recs, nil
}

// Get returns one record by id.
func (s *RecordService) Get(ctx context.Context, id int64, fields ...string) (odoo.Record, error) {
	if id <= 0 {
		return nil, apperrors.ValidationField("id", "id must be positive")
	}
	if len(fields) == 0 {
		fields = s.fields
	}
	recs, err := s.gateway.Read(ctx, s.model, []int64{id}, fields)
	if err != nil {
		return nil, s.mapError("get", err)
	}
	if len(recs) == 0 {
		return nil, apperrors.NotFound(fmt.Sprintf("%s %d not found", s.model, id))
	}
	return recs[0], nil
}

// Count returns the number of records matching domain.
func (s *RecordService) Count(ctx context.Context, domain odoo.Domain) (int64, error) {
	n, err := s.gateway.SearchCount(ctx, s.model, domain)
	if err != nil {
		return 0, s.mapError("count", err)
	}
	return n, nil
}

// Create creates a record and returns its id.
func (s *RecordService) Create(ctx context.Context, values map[string]any) (int64, error) {
	if len(values) == 0 {
		return 0, apperrors.Validation("values are required")
	}
	if err := s.preflight(ctx); err != nil {
		return 0, err
	}
	id, err := s.gateway.Create(ctx, s.model, values)
	if err != nil {
		return 0, s.mapError("create", err)
	}
	s.logger.InfoContext(ctx, "record created", "id", id)
	return id, nil
}

// Update writes values to the records in ids.
func (s *RecordService) Update(ctx context.Context, ids []int64, values map[string]any) error {
	if len(ids) == 0 {
		return apperrors.ValidationField("ids", "at least one id is required")
	}
	if err := s.preflight(ctx); err != nil {
		return err
	}
	ok, err := s.gateway.Update(ctx, s.model, ids, values)
	if err != nil {
		return s.mapError("update", err)
	}
	if !ok {
		return apperrors.Internalf("%s update returned false", s.model)
	}
	return nil
}

// Delete unlinks the records in ids.
func (s *RecordService) Delete(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return apperrors.ValidationField("ids", "at least one id is required")
	}
	if err := s.preflight(ctx); err != nil {
		return err
	}
	ok, err := s.gateway.DeleteRecords(ctx, s.model, ids)
	if err != nil {
		return s.mapError("delete", err)
	}
	if !ok {
		return apperrors.Internalf("%s delete returned false", s.model)
	}
	return nil
}

// Action invokes a model method such as action_confirm on ids.
func (s *RecordService) Action(ctx context.Context, method string, ids []int64, kwargs map[string]any) (json.RawMessage, error) {
	if method == "" {
		return nil, apperrors.ValidationField("method", "method is required")
	}
	if err := s.preflight(ctx); err != nil {
		return nil, err
	}
	raw, err := s.gateway.CallMethod(ctx, s.model, method, []any{ids}, kwargs)
	if err != nil {
		return nil, s.mapError(method, err)
	}
	return raw, nil
}

func (s *RecordService) preflight(ctx context.Context) error {
	if !s.health.CheckServerHealth(ctx) {
		s.logger.WarnContext(ctx, "write refused, server unreachable")
		return apperrors.New(apperrors.ErrCodeOffline, MsgOffline)
	}
	return nil
}

// mapError converts a client error into an AppError whose message is safe to show.
// Backend business errors keep the server's own explanation.
func (s *RecordService) mapError(op string, err error) error {
	s.logger.Debug("record operation failed", "op", op, "kind", odoo.KindOf(err), "error", err)
	switch {
	case odoo.IsNoSession(err):
		return apperrors.Wrap(err, apperrors.ErrCodeNoSession, odoo.MsgNoSession)
	case odoo.IsSessionExpired(err):
		return apperrors.Wrap(err, apperrors.ErrCodeSessionExpired, odoo.MsgSessionExpired)
	case odoo.IsNetwork(err):
		return apperrors.Wrap(err, apperrors.ErrCodeOffline, MsgOffline)
	default:
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, detail(err))
	}
}
