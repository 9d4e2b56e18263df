package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dimitrije/keyforge-api/internal/database"
	"github.com/dimitrije/keyforge-api/internal/models"
	"github.com/jackc/pgx/v5"
)

// BindingService redeems keys for a hardware id. It authenticates through the
// key itself, so no permission check applies.
type BindingService struct {
	db  *database.DB
	now func() time.Time
}

func NewBindingService(db *database.DB) *BindingService {
	return &BindingService{db: db, now: time.Now}
}

// decideBinding applies the redemption rules to a locked key row.
func decideBinding(key *models.Key, hwid string, now time.Time) models.BindingReason {
	switch {
	case key.Banned:
		return models.ReasonKeyBanned
	case key.IsExpired(now):
		return models.ReasonKeyExpired
	case key.HasHWID(hwid):
		return models.ReasonAlreadyBound
	case len(key.HWIDs) >= key.DeviceLimit:
		return models.ReasonDeviceLimitReached
	default:
		return models.ReasonBound
	}
}

// Validate checks the key and, when a new device fits under the limit, binds
// it. The key row is locked for the whole decision so concurrent redemptions
// cannot both take the last slot.
func (s *BindingService) Validate(ctx context.Context, req models.ValidationRequest) (*models.ValidationResult, error) {
	result := &models.ValidationResult{}

	err := s.db.ExecTx(ctx, func(tx pgx.Tx) error {
		var appExists bool
		if err := tx.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM applications WHERE api_key = $1)
		`, req.APIKey).Scan(&appExists); err != nil {
			return fmt.Errorf("check application: %w", err)
		}
		if !appExists {
			result.Reason = models.ReasonInvalidApplication
			return nil
		}

		key, err := scanKey(tx.QueryRow(ctx, `
			SELECT `+keyColumns+`
			FROM keys
			WHERE key = $1 AND api = $2
			FOR UPDATE
		`, req.Key, req.APIKey))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				result.Reason = models.ReasonInvalidKey
				return nil
			}
			return fmt.Errorf("load key: %w", err)
		}

		now := s.now().UTC()
		result.Reason = decideBinding(key, req.HWID, now)
		result.Key = key
		if result.Reason != models.ReasonBound {
			return nil
		}

		bound, err := scanKey(tx.QueryRow(ctx, `
			UPDATE keys
			SET hwids = array_append(hwids, $1),
				used = TRUE,
				system_info = COALESCE($2, system_info),
				first_used = COALESCE(first_used, $3)
			WHERE id = $4
			RETURNING `+keyColumns,
			req.HWID, req.SystemInfo, now, key.ID))
		if err != nil {
			return fmt.Errorf("bind hwid: %w", err)
		}
		result.Key = bound
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Accepted = result.Reason.Accepted()
	return result, nil
}
