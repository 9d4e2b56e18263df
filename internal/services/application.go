package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimitrije/keyforge-api/internal/database"
	"github.com/dimitrije/keyforge-api/internal/models"
	"github.com/jackc/pgx/v5"
)

// rowQuerier is satisfied by both the pool and an open transaction.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type ApplicationService struct {
	db          *database.DB
	permissions *PermissionService
	generator   Generator
	quota       int
}

func NewApplicationService(db *database.DB, permissions *PermissionService, generator Generator, quota int) *ApplicationService {
	return &ApplicationService{
		db:          db,
		permissions: permissions,
		generator:   generator,
		quota:       quota,
	}
}

func (s *ApplicationService) Quota() int {
	return s.quota
}

// Create registers an application. Non-privileged owners are held to the
// quota; their count and insert run in one transaction under a per-owner
// advisory lock so concurrent creates cannot overshoot it.
func (s *ApplicationService) Create(ctx context.Context, ownerID, name string) (*models.Application, error) {
	privileged, err := s.permissions.IsPrivileged(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if privileged {
		return s.insert(ctx, s.db.Pool, ownerID, name)
	}

	var app *models.Application
	err = s.db.ExecTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, ownerID); err != nil {
			return fmt.Errorf("lock owner quota: %w", err)
		}
		owned, err := countOwned(ctx, tx, ownerID)
		if err != nil {
			return err
		}
		if owned >= s.quota {
			return ErrQuotaExceeded
		}
		app, err = s.insert(ctx, tx, ownerID, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (s *ApplicationService) insert(ctx context.Context, q rowQuerier, ownerID, name string) (*models.Application, error) {
	apiKey, err := s.generator.APIKey()
	if err != nil {
		return nil, fmt.Errorf("generate api key: %w", err)
	}

	var app models.Application
	err = q.QueryRow(ctx, `
		INSERT INTO applications (name, api_key, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, name, api_key, created_by, created_at
	`, name, apiKey, ownerID).Scan(&app.ID, &app.Name, &app.APIKey, &app.CreatedBy, &app.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("create application: %w", err)
	}
	return &app, nil
}

func (s *ApplicationService) GetByName(ctx context.Context, name string) (*models.Application, error) {
	var app models.Application
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, name, api_key, created_by, created_at
		FROM applications WHERE name = $1
	`, name).Scan(&app.ID, &app.Name, &app.APIKey, &app.CreatedBy, &app.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("get application: %w", err)
	}
	return &app, nil
}

// Delete removes the application; its keys go with it through ON DELETE CASCADE.
func (s *ApplicationService) Delete(ctx context.Context, requesterID, name string) error {
	app, err := s.GetByName(ctx, name)
	if err != nil {
		return err
	}

	if err := s.permissions.Require(ctx, requesterID, app.APIKey); err != nil {
		return err
	}

	result, err := s.db.Pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, app.ID)
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

// List returns every application for admins and support staff, otherwise
// only the requester's own. The boolean reports which view was used.
func (s *ApplicationService) List(ctx context.Context, requesterID string) ([]models.Application, bool, error) {
	privileged, err := s.permissions.IsPrivileged(ctx, requesterID)
	if err != nil {
		return nil, false, err
	}

	var rows pgx.Rows
	if privileged {
		rows, err = s.db.Pool.Query(ctx, `
			SELECT a.id, a.name, a.api_key, a.created_by, a.created_at, COUNT(k.id)
			FROM applications a
			LEFT JOIN keys k ON k.api = a.api_key
			GROUP BY a.id
			ORDER BY a.created_at DESC
		`)
	} else {
		rows, err = s.db.Pool.Query(ctx, `
			SELECT a.id, a.name, a.api_key, a.created_by, a.created_at, COUNT(k.id)
			FROM applications a
			LEFT JOIN keys k ON k.api = a.api_key
			WHERE a.created_by = $1
			GROUP BY a.id
			ORDER BY a.created_at DESC
		`, requesterID)
	}
	if err != nil {
		return nil, false, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var apps []models.Application
	for rows.Next() {
		var a models.Application
		var count int64
		if err := rows.Scan(&a.ID, &a.Name, &a.APIKey, &a.CreatedBy, &a.CreatedAt, &count); err != nil {
			return nil, false, err
		}
		a.KeyCount = int(count)
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return apps, privileged, nil
}

func (s *ApplicationService) CountOwned(ctx context.Context, userID string) (int, error) {
	return countOwned(ctx, s.db.Pool, userID)
}

func countOwned(ctx context.Context, q rowQuerier, userID string) (int, error) {
	var count int64
	err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM applications WHERE created_by = $1
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count applications: %w", err)
	}
	return int(count), nil
}
