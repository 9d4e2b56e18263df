package actions

import (
	"slices"
	"strings"
)

// Name identifies an action on the wire.
type Name string

// LookupName returns the known action named by s, ignoring surrounding
// whitespace. ok is false for unknown names.
func LookupName(s string) (Name, bool) {
	n := Name(strings.TrimSpace(s))
	return n, slices.Contains(Names, n)
}

const (
	ActionTest                Name = "test"
	ActionCreateApplication   Name = "create_application"
	ActionDeleteApplication   Name = "delete_application"
	ActionGetApplications     Name = "get_applications"
	ActionGetApplicationCount Name = "get_application_count"
	ActionCreateKey           Name = "create_key"
	ActionBanKey              Name = "ban_key"
	ActionDeleteKey           Name = "delete_key"
	ActionResetHWID           Name = "reset_hwid"
	ActionGetKeys             Name = "get_keys"
	ActionGetKey              Name = "get_key"
	ActionValidateKey         Name = "validate_key"
	ActionAddSupport          Name = "add_support"
	ActionRemoveSupport       Name = "remove_support"
	ActionCheckSupport        Name = "check_support"
	ActionGetSupports         Name = "get_supports"
	ActionCheckPermission     Name = "check_permission"
)

// Names lists every known action.
var Names = []Name{
	ActionTest,
	ActionCreateApplication,
	ActionDeleteApplication,
	ActionGetApplications,
	ActionGetApplicationCount,
	ActionCreateKey,
	ActionBanKey,
	ActionDeleteKey,
	ActionResetHWID,
	ActionGetKeys,
	ActionGetKey,
	ActionValidateKey,
	ActionAddSupport,
	ActionRemoveSupport,
	ActionCheckSupport,
	ActionGetSupports,
	ActionCheckPermission,
}

// Request is one parsed action. The set of implementations is closed to
// this package.
type Request interface {
	Action() Name
	request()
}

type Test struct{}

type CreateApplication struct {
	UserID string `json:"user_id" validate:"required,max=255"`
	Name   string `json:"name" validate:"required,max=255"`
}

type DeleteApplication struct {
	UserID string `json:"user_id" validate:"required,max=255"`
	Name   string `json:"name" validate:"required,max=255"`
}

type GetApplications struct {
	UserID string `json:"user_id" validate:"required,max=255"`
}

type GetApplicationCount struct {
	UserID string `json:"user_id" validate:"required,max=255"`
}

type CreateKey struct {
	UserID string  `json:"user_id" validate:"required,max=255"`
	APIKey string  `json:"api_key" validate:"required,max=128"`
	Prefix string  `json:"prefix" validate:"max=64"`
	Days   float64 `json:"days" validate:"gt=0,max=36500"`
	// DeviceLimit is already normalized to at least 1.
	DeviceLimit int `json:"device_limit" validate:"min=1,max=10000"`
}

// KeyTarget names one key of an application on behalf of a user.
type KeyTarget struct {
	UserID string `json:"user_id" validate:"required,max=255"`
	APIKey string `json:"api_key" validate:"required,max=128"`
	Key    string `json:"key" validate:"required,max=255"`
}

type BanKey struct{ KeyTarget }

type DeleteKey struct{ KeyTarget }

type ResetHWID struct{ KeyTarget }

type GetKey struct{ KeyTarget }

type GetKeys struct {
	UserID string `json:"user_id" validate:"required,max=255"`
	APIKey string `json:"api_key" validate:"required,max=128"`
}

type ValidateKey struct {
	APIKey     string  `json:"api_key" validate:"required,max=128"`
	Key        string  `json:"key" validate:"required,max=255"`
	HWID       string  `json:"hwid" validate:"required,max=512"`
	SystemInfo *string `json:"system_info"`
}

type AddSupport struct {
	UserID        string `json:"user_id" validate:"required,max=255"`
	SupportUserID string `json:"support_user_id" validate:"required,max=255"`
}

type RemoveSupport struct {
	UserID        string `json:"user_id" validate:"required,max=255"`
	SupportUserID string `json:"support_user_id" validate:"required,max=255"`
}

type CheckSupport struct {
	UserID string `json:"user_id" validate:"required,max=255"`
}

type GetSupports struct {
	UserID string `json:"user_id" validate:"required,max=255"`
}

type CheckPermission struct {
	UserID string `json:"user_id" validate:"required,max=255"`
	APIKey string `json:"api_key" validate:"required,max=128"`
}

func (Test) Action() Name                { return ActionTest }
func (CreateApplication) Action() Name   { return ActionCreateApplication }
func (DeleteApplication) Action() Name   { return ActionDeleteApplication }
func (GetApplications) Action() Name     { return ActionGetApplications }
func (GetApplicationCount) Action() Name { return ActionGetApplicationCount }
func (CreateKey) Action() Name           { return ActionCreateKey }
func (BanKey) Action() Name              { return ActionBanKey }
func (DeleteKey) Action() Name           { return ActionDeleteKey }
func (ResetHWID) Action() Name           { return ActionResetHWID }
func (GetKeys) Action() Name             { return ActionGetKeys }
func (GetKey) Action() Name              { return ActionGetKey }
func (ValidateKey) Action() Name         { return ActionValidateKey }
func (AddSupport) Action() Name          { return ActionAddSupport }
func (RemoveSupport) Action() Name       { return ActionRemoveSupport }
func (CheckSupport) Action() Name        { return ActionCheckSupport }
func (GetSupports) Action() Name         { return ActionGetSupports }
func (CheckPermission) Action() Name     { return ActionCheckPermission }

func (Test) request()                {}
func (CreateApplication) request()   {}
func (DeleteApplication) request()   {}
func (GetApplications) request()     {}
func (GetApplicationCount) request() {}
func (CreateKey) request()           {}
func (BanKey) request()              {}
func (DeleteKey) request()           {}
func (ResetHWID) request()           {}
func (GetKeys) request()             {}
func (GetKey) request()              {}
func (ValidateKey) request()         {}
func (AddSupport) request()          {}
func (RemoveSupport) request()       {}
func (CheckSupport) request()        {}
func (GetSupports) request()         {}
func (CheckPermission) request()     {}
