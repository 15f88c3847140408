package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation_app/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct{}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// AuthorizeTenant rejects a caller without a tenant, and an entity owned by another tenant.
func (s *BaseService) AuthorizeTenant(ctx context.Context, callerTenantID, ownerTenantID, what string) error {
	if callerTenantID == "" {
		return fmt.Errorf("%w: no tenant in scope", apperrors.ErrUnauthorized)
	}
	if ownerTenantID != callerTenantID {
		s.LogWarn(ctx, "Cross-tenant access attempt",
			slog.String("tenant_id", callerTenantID),
			slog.String("owner_tenant_id", ownerTenantID),
			slog.String("entity", what))
		return fmt.Errorf("%w: %s belongs to another tenant", apperrors.ErrUnauthorized, what)
	}
	return nil
}
