// Package api wraps the service operations in the uniform response envelope
// handed to transport layers. Every operation returns an Envelope; failures
// carry one human-readable message and, for engine errors, a taxonomy code.
package api

import (
	"context"
	"strings"

	"gmc/internal/core"
	"gmc/internal/introspect"
	"gmc/internal/service"
)

// Envelope is the response of every boundary operation.
type Envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   string    `json:"error,omitempty"`
	Code    core.Code `json:"code,omitempty"`
	Message string    `json:"message,omitempty"`
}

// Service is the set of operations the handler exposes.
type Service interface {
	ListAvailableMechanicTypes() []core.MechanicType
	MechanicCatalog() []core.MechanicInfo
	BattlePassTemplate() core.BattlePassTemplate
	GenerateSchemaArtifacts(req *core.GenerationRequest) (*service.Artifacts, error)
	ExecuteLiveSchema(ctx context.Context, fields core.FieldMap, rows []core.SeedRow) (*service.ExecutionReport, error)
	ListLiveSchemas(ctx context.Context, pattern string) ([]core.TableSummary, error)
	DescribeLiveSchema(ctx context.Context, name string) (*core.TableDescriptor, error)
	DropLiveSchema(ctx context.Context, name string) (*core.DropResult, error)
	ServerInfo(ctx context.Context) (*introspect.ServerInfo, error)
}

// ExecuteRequest is the input of ExecuteLiveSchema. A zero Schema means the
// default field map; empty Rows means the demonstration players.
type ExecuteRequest struct {
	Schema core.FieldMap  `json:"schema"`
	Rows   []core.SeedRow `json:"rows,omitempty"`
}

// Handler adapts a Service to envelopes.
type Handler struct {
	svc Service
}

// NewHandler returns a handler over svc.
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// OK wraps a successful result.
func OK(data any, message string) Envelope {
	return Envelope{Success: true, Data: data, Message: message}
}

// Fail wraps an error.
func Fail(err error) Envelope {
	return Envelope{Success: false, Error: err.Error(), Code: core.CodeOf(err)}
}

func (h *Handler) ListAvailableMechanicTypes() Envelope {
	return OK(h.svc.ListAvailableMechanicTypes(), "Available game mechanic types retrieved successfully")
}

func (h *Handler) MechanicCatalog() Envelope {
	return OK(h.svc.MechanicCatalog(), "Mechanic catalog retrieved successfully")
}

func (h *Handler) BattlePassTemplate() Envelope {
	return OK(h.svc.BattlePassTemplate(), "Battle pass template retrieved successfully")
}

func (h *Handler) GenerateSchemaArtifacts(req *core.GenerationRequest) Envelope {
	out, err := h.svc.GenerateSchemaArtifacts(req)
	if err != nil {
		return Fail(err)
	}
	return OK(out, "Schema generated successfully")
}

// ExecuteLiveSchema runs the create-seed-verify sequence. A report that lists
// errors is returned as a failed envelope that still carries the report.
func (h *Handler) ExecuteLiveSchema(ctx context.Context, req ExecuteRequest) Envelope {
	fields := req.Schema
	if fields == (core.FieldMap{}) {
		fields = core.DefaultFieldMap()
	}
	report, err := h.svc.ExecuteLiveSchema(ctx, fields, req.Rows)
	if err != nil {
		return Fail(err)
	}
	if !report.Succeeded() {
		return Envelope{
			Success: false,
			Data:    report,
			Error:   strings.Join(report.Errors, "; "),
			Code:    core.CodeOf(report.Err()),
		}
	}
	return OK(report, "Schema executed successfully")
}

func (h *Handler) ListLiveSchemas(ctx context.Context, pattern string) Envelope {
	tables, err := h.svc.ListLiveSchemas(ctx, pattern)
	if err != nil {
		return Fail(err)
	}
	return OK(tables, "Tables retrieved successfully")
}

func (h *Handler) DescribeLiveSchema(ctx context.Context, name string) Envelope {
	d, err := h.svc.DescribeLiveSchema(ctx, name)
	if err != nil {
		return Fail(err)
	}
	return OK(d, "Table details retrieved successfully")
}

func (h *Handler) DropLiveSchema(ctx context.Context, name string) Envelope {
	res, err := h.svc.DropLiveSchema(ctx, name)
	if err != nil {
		return Fail(err)
	}
	return OK(res, "Table "+res.TableName+" dropped successfully")
}

func (h *Handler) ServerInfo(ctx context.Context) Envelope {
	info, err := h.svc.ServerInfo(ctx)
	if err != nil {
		return Fail(err)
	}
	return OK(info, "Database is reachable")
}
