package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dimitrije/keyforge-api/internal/actions"
	"github.com/dimitrije/keyforge-api/internal/metrics"
	"github.com/dimitrije/keyforge-api/internal/models"
	"github.com/dimitrije/keyforge-api/internal/services"
	"github.com/dimitrije/keyforge-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rs/zerolog"
)

const unknownAction = "unknown"

// ActionServices groups the collaborators the action handler dispatches to.
type ActionServices struct {
	Applications ApplicationServiceInterface
	Keys         KeyServiceInterface
	Binding      BindingServiceInterface
	Supports     SupportServiceInterface
	Permissions  PermissionServiceInterface
}

// ActionHandler serves the single action endpoint. Each request names an
// action and carries a flat field set, either as a JSON object or as query
// parameters.
type ActionHandler struct {
	svc     ActionServices
	parser  *actions.Parser
	metrics *metrics.Metrics
	logger  zerolog.Logger
	timeout time.Duration
}

func NewActionHandler(svc ActionServices, m *metrics.Metrics, logger zerolog.Logger, timeout time.Duration) *ActionHandler {
	return &ActionHandler{
		svc:     svc,
		parser:  actions.NewParser(),
		metrics: m,
		logger:  logger.With().Str("component", "action_handler").Logger(),
		timeout: timeout,
	}
}

func (h *ActionHandler) Handle(c *drift.Context) {
	start := time.Now()

	fields, err := h.readFields(c)
	if err != nil {
		h.respondError(c, unknownAction, start, &actions.ValidationError{Field: "body", Message: "invalid request body"})
		return
	}

	name := fields.String("action")
	if name == "" {
		name = c.QueryParam("action")
	}

	req, err := h.parser.Parse(name, fields)
	if err != nil {
		label := unknownAction
		if known, ok := actions.LookupName(name); ok {
			label = string(known)
		}
		h.respondError(c, label, start, err)
		return
	}
	action := string(req.Action())

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	status, body, err := h.dispatch(ctx, req)
	if err != nil {
		h.respondError(c, action, start, err)
		return
	}

	outcome := metrics.OutcomeSuccess
	if status >= http.StatusBadRequest {
		outcome = metrics.OutcomeRejected
	}
	h.metrics.RecordAction(action, outcome, time.Since(start))
	_ = c.JSON(status, body)
}

func (h *ActionHandler) readFields(c *drift.Context) (actions.Fields, error) {
	if c.Request.Method == http.MethodGet {
		return actions.FromQuery(c.Request.URL.Query()), nil
	}

	var fields map[string]any
	if err := c.BindJSON(&fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return actions.Fields(fields), nil
}

// dispatch runs one request. Every request kind must have a case here.
func (h *ActionHandler) dispatch(ctx context.Context, req actions.Request) (int, any, error) {
	switch r := req.(type) {
	case actions.Test:
		return http.StatusOK, dto.MessageResponse{Envelope: dto.OK("keyforge api is running")}, nil

	case actions.CreateApplication:
		return h.createApplication(ctx, r)

	case actions.DeleteApplication:
		if err := h.svc.Applications.Delete(ctx, r.UserID, r.Name); err != nil {
			return 0, nil, err
		}
		return http.StatusOK, dto.MessageResponse{Envelope: dto.OK("application deleted")}, nil

	case actions.GetApplications:
		apps, isAdmin, err := h.svc.Applications.List(ctx, r.UserID)
		if err != nil {
			return 0, nil, err
		}
		return http.StatusOK, dto.ApplicationListResponse{
			Envelope:     dto.OK(fmt.Sprintf("%d applications", len(apps))),
			Applications: toApplicationResponses(apps),
			IsAdmin:      isAdmin,
		}, nil

	case actions.GetApplicationCount:
		count, err := h.svc.Applications.CountOwned(ctx, r.UserID)
		if err != nil {
			return 0, nil, err
		}
		quota := h.svc.Applications.Quota()
		return http.StatusOK, dto.ApplicationCountResponse{
			Envelope:  dto.OK("application count"),
			Count:     count,
			Quota:     quota,
			Remaining: max(quota-count, 0),
		}, nil

	case actions.CreateKey:
		key, err := h.svc.Keys.Create(ctx, r.UserID, r.APIKey, services.CreateKeyParams{
			Prefix:       r.Prefix,
			LifetimeDays: r.Days,
			DeviceLimit:  r.DeviceLimit,
		})
		if err != nil {
			return 0, nil, err
		}
		return http.StatusCreated, dto.CreateKeyResponse{
			Envelope:    dto.OK("key created"),
			Key:         key.Key,
			ExpiresAt:   key.ExpiresAt,
			DeviceLimit: key.DeviceLimit,
		}, nil

	case actions.BanKey:
		if err := h.svc.Keys.Ban(ctx, r.UserID, r.APIKey, r.Key); err != nil {
			return 0, nil, err
		}
		return http.StatusOK, dto.MessageResponse{Envelope: dto.OK("key banned")}, nil

	case actions.DeleteKey:
		if err := h.svc.Keys.Delete(ctx, r.UserID, r.APIKey, r.Key); err != nil {
			return 0, nil, err
		}
		return http.StatusOK, dto.MessageResponse{Envelope: dto.OK("key deleted")}, nil

	case actions.ResetHWID:
		if err := h.svc.Keys.ResetHWID(ctx, r.UserID, r.APIKey, r.Key); err != nil {
			return 0, nil, err
		}
		return http.StatusOK, dto.MessageResponse{Envelope: dto.OK("hwid reset")}, nil

	case actions.GetKeys:
		keys, err := h.svc.Keys.List(ctx, r.UserID, r.APIKey)
		if err != nil {
			return 0, nil, err
		}
		return http.StatusOK, dto.KeyListResponse{
			Envelope: dto.OK(fmt.Sprintf("%d keys", len(keys))),
			Keys:     toKeyResponses(keys),
		}, nil

	case actions.GetKey:
		key, err := h.svc.Keys.Get(ctx, r.UserID, r.APIKey, r.Key)
		if err != nil {
			return 0, nil, err
		}
		return http.StatusOK, dto.KeyInfoResponse{
			Envelope: dto.OK("key found"),
			KeyInfo:  toKeyResponse(*key),
		}, nil

	case actions.ValidateKey:
		return h.validateKey(ctx, r)

	case actions.AddSupport:
		grant, err := h.svc.Supports.Add(ctx, r.UserID, r.SupportUserID)
		if err != nil {
			return 0, nil, err
		}
		return http.StatusCreated, dto.AddSupportResponse{
			Envelope: dto.OK("support added"),
			Support:  toSupportResponse(*grant),
		}, nil

	case actions.RemoveSupport:
		if err := h.svc.Supports.Remove(ctx, r.UserID, r.SupportUserID); err != nil {
			return 0, nil, err
		}
		return http.StatusOK, dto.MessageResponse{Envelope: dto.OK("support removed")}, nil

	case actions.CheckSupport:
		isSupport, isAdmin, err := h.svc.Supports.Check(ctx, r.UserID)
		if err != nil {
			return 0, nil, err
		}
		return http.StatusOK, dto.CheckSupportResponse{
			Envelope:  dto.OK("support status"),
			IsSupport: isSupport,
			IsAdmin:   isAdmin,
		}, nil

	case actions.GetSupports:
		grants, err := h.svc.Supports.List(ctx, r.UserID)
		if err != nil {
			return 0, nil, err
		}
		return http.StatusOK, dto.SupportListResponse{
			Envelope: dto.OK(fmt.Sprintf("%d support users", len(grants))),
			Supports: toSupportResponses(grants),
		}, nil

	case actions.CheckPermission:
		perm, err := h.svc.Permissions.Resolve(ctx, r.UserID, r.APIKey)
		if err != nil {
			return 0, nil, err
		}
		return http.StatusOK, dto.PermissionResponse{
			Envelope:      dto.OK("permission resolved"),
			HasPermission: perm.HasPermission,
			IsAdmin:       perm.IsAdmin,
		}, nil

	default:
		return 0, nil, fmt.Errorf("no dispatch for action %q", req.Action())
	}
}

func (h *ActionHandler) createApplication(ctx context.Context, r actions.CreateApplication) (int, any, error) {
	app, err := h.svc.Applications.Create(ctx, r.UserID, r.Name)
	if err != nil {
		return 0, nil, err
	}

	owned, err := h.svc.Applications.CountOwned(ctx, r.UserID)
	if err != nil {
		return 0, nil, err
	}

	return http.StatusCreated, dto.CreateApplicationResponse{
		Envelope:    dto.OK("application created"),
		APIKey:      app.APIKey,
		Application: toApplicationResponse(*app),
		Remaining:   max(h.svc.Applications.Quota()-owned, 0),
	}, nil
}

func (h *ActionHandler) validateKey(ctx context.Context, r actions.ValidateKey) (int, any, error) {
	result, err := h.svc.Binding.Validate(ctx, models.ValidationRequest{
		APIKey:     r.APIKey,
		Key:        r.Key,
		HWID:       r.HWID,
		SystemInfo: r.SystemInfo,
	})
	if err != nil {
		return 0, nil, err
	}
	h.metrics.RecordValidation(string(result.Reason))

	resp := dto.ValidateKeyResponse{
		Valid:  result.Accepted,
		Reason: string(result.Reason),
	}
	if result.Accepted {
		resp.Envelope = dto.OK(reasonMessage(result.Reason))
	} else {
		resp.Envelope = dto.Failed(reasonMessage(result.Reason))
	}
	if result.Key != nil {
		info := toKeyResponse(*result.Key)
		resp.KeyInfo = &info
	}
	return reasonStatus(result.Reason), resp, nil
}

func reasonStatus(reason models.BindingReason) int {
	switch reason {
	case models.ReasonBound, models.ReasonAlreadyBound:
		return http.StatusOK
	case models.ReasonInvalidApplication, models.ReasonInvalidKey:
		return http.StatusNotFound
	default:
		return http.StatusForbidden
	}
}

func reasonMessage(reason models.BindingReason) string {
	switch reason {
	case models.ReasonBound:
		return "key bound to device"
	case models.ReasonAlreadyBound:
		return "key valid for this device"
	case models.ReasonInvalidApplication:
		return "invalid application"
	case models.ReasonInvalidKey:
		return "invalid key"
	case models.ReasonKeyBanned:
		return "key is banned"
	case models.ReasonKeyExpired:
		return "key has expired"
	case models.ReasonDeviceLimitReached:
		return "device limit reached"
	default:
		return string(reason)
	}
}

// respondError maps a failure onto the error taxonomy. Unexpected errors are
// logged and reported without detail.
func (h *ActionHandler) respondError(c *drift.Context, action string, start time.Time, err error) {
	status, code, message, field := classify(err)

	outcome := metrics.OutcomeRejected
	if status >= http.StatusInternalServerError {
		outcome = metrics.OutcomeError
		h.logger.Error().Err(err).Str("action", action).Msg("action failed")
	}
	h.metrics.RecordAction(action, outcome, time.Since(start))

	_ = c.JSON(status, dto.ErrorResponse{
		Envelope: dto.Failed(message),
		Code:     code,
		Field:    field,
	})
}

func classify(err error) (status int, code, message, field string) {
	var verr *actions.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, "validation_error", verr.Message, verr.Field
	case errors.Is(err, services.ErrPermissionDenied),
		errors.Is(err, services.ErrCannotRemoveSuperAdmin):
		return http.StatusForbidden, "permission_denied", err.Error(), ""
	case errors.Is(err, services.ErrQuotaExceeded):
		return http.StatusForbidden, "quota_exceeded", err.Error(), ""
	case errors.Is(err, services.ErrApplicationNotFound),
		errors.Is(err, services.ErrKeyNotFound),
		errors.Is(err, services.ErrSupportNotFound):
		return http.StatusNotFound, "not_found", err.Error(), ""
	case errors.Is(err, services.ErrDuplicateName),
		errors.Is(err, services.ErrDuplicateSupport):
		return http.StatusConflict, "duplicate", err.Error(), ""
	default:
		return http.StatusInternalServerError, "server_error", "internal server error", ""
	}
}
