package core

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// AuditService records who did what. Log is best-effort: an audit write must
// never fail the business operation it describes, so errors are logged and
// swallowed.
type AuditService interface {
	Log(ctx context.Context, userID *uuid.UUID, action, entityType, entityID string, oldValue, newValue *string)
	List(ctx context.Context, limit int) ([]AuditLog, error)
}

type auditService struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func NewAuditService(pool *pgxpool.Pool, log *zap.Logger) AuditService {
	return &auditService{pool: pool, log: log}
}

func (s *auditService) Log(ctx context.Context, userID *uuid.UUID, action, entityType, entityID string, oldValue, newValue *string) {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO audit_logs (user_id, action, entity_type, entity_id, old_value, new_value)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, userID, action, entityType, entityID, oldValue, newValue)
	if err != nil {
		s.log.Warn("audit write failed",
			zap.String("action", action),
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID),
			zap.Error(err),
		)
	}
}

func (s *auditService) List(ctx context.Context, limit int) ([]AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, action, COALESCE(entity_type, ''), COALESCE(entity_id, ''), old_value, new_value, created_at
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	logs := []AuditLog{}
	for rows.Next() {
		var a AuditLog
		if err := rows.Scan(&a.ID, &a.UserID, &a.Action, &a.EntityType, &a.EntityID, &a.OldValue, &a.NewValue, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		logs = append(logs, a)
	}
	return logs, rows.Err()
}
