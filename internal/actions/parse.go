package actions

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const defaultDeviceLimit = 1

// ValidationError reports a missing or malformed field. It is always the
// caller's to fix.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Parser turns an action name and its fields into a typed Request.
type Parser struct {
	validate *validator.Validate
}

func NewParser() *Parser {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Parser{validate: v}
}

func (p *Parser) Parse(action string, f Fields) (Request, error) {
	req, err := build(Name(strings.TrimSpace(action)), f)
	if err != nil {
		return nil, err
	}
	if err := p.validate.Struct(req); err != nil {
		return nil, toValidationError(err)
	}
	return req, nil
}

func build(name Name, f Fields) (Request, error) {
	switch name {
	case "":
		return nil, &ValidationError{Field: "action", Message: "action is required"}
	case ActionTest:
		return Test{}, nil
	case ActionCreateApplication:
		return CreateApplication{UserID: f.String("user_id"), Name: f.String("name")}, nil
	case ActionDeleteApplication:
		return DeleteApplication{UserID: f.String("user_id"), Name: f.String("name")}, nil
	case ActionGetApplications:
		return GetApplications{UserID: f.String("user_id")}, nil
	case ActionGetApplicationCount:
		return GetApplicationCount{UserID: f.String("user_id")}, nil
	case ActionCreateKey:
		days, err := f.Float("days")
		if err != nil {
			return nil, &ValidationError{Field: "days", Message: "days must be a number"}
		}
		limit, ok := f.Int("device_limit")
		if !ok || limit <= 0 {
			limit = defaultDeviceLimit
		}
		return CreateKey{
			UserID:      f.String("user_id"),
			APIKey:      f.String("api_key"),
			Prefix:      f.String("prefix"),
			Days:        days,
			DeviceLimit: limit,
		}, nil
	case ActionBanKey:
		return BanKey{keyTarget(f)}, nil
	case ActionDeleteKey:
		return DeleteKey{keyTarget(f)}, nil
	case ActionResetHWID:
		return ResetHWID{keyTarget(f)}, nil
	case ActionGetKey:
		return GetKey{keyTarget(f)}, nil
	case ActionGetKeys:
		return GetKeys{UserID: f.String("user_id"), APIKey: f.String("api_key")}, nil
	case ActionValidateKey:
		return ValidateKey{
			APIKey:     f.String("api_key"),
			Key:        f.String("key"),
			HWID:       f.String("hwid"),
			SystemInfo: f.OptionalString("system_info"),
		}, nil
	case ActionAddSupport:
		return AddSupport{UserID: f.String("user_id"), SupportUserID: f.String("support_user_id")}, nil
	case ActionRemoveSupport:
		return RemoveSupport{UserID: f.String("user_id"), SupportUserID: f.String("support_user_id")}, nil
	case ActionCheckSupport:
		return CheckSupport{UserID: f.String("user_id")}, nil
	case ActionGetSupports:
		return GetSupports{UserID: f.String("user_id")}, nil
	case ActionCheckPermission:
		return CheckPermission{UserID: f.String("user_id"), APIKey: f.String("api_key")}, nil
	default:
		return nil, &ValidationError{Field: "action", Message: fmt.Sprintf("unknown action %q", name)}
	}
}

func keyTarget(f Fields) KeyTarget {
	return KeyTarget{
		UserID: f.String("user_id"),
		APIKey: f.String("api_key"),
		Key:    f.String("key"),
	}
}

// toValidationError reports the first failing field.
func toValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	return &ValidationError{Field: fe.Field(), Message: formatFieldError(fe)}
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Field()
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
