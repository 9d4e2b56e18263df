package models

// BindingReason explains the outcome of a key redemption.
type BindingReason string

const (
	ReasonBound              BindingReason = "bound"
	ReasonAlreadyBound       BindingReason = "already_bound"
	ReasonInvalidApplication BindingReason = "invalid_application"
	ReasonInvalidKey         BindingReason = "invalid_key"
	ReasonKeyBanned          BindingReason = "key_banned"
	ReasonKeyExpired         BindingReason = "key_expired"
	ReasonDeviceLimitReached BindingReason = "device_limit_reached"
)

func (r BindingReason) Accepted() bool {
	return r == ReasonBound || r == ReasonAlreadyBound
}

type ValidationRequest struct {
	APIKey     string
	Key        string
	HWID       string
	SystemInfo *string
}

type ValidationResult struct {
	Accepted bool          `json:"accepted"`
	Reason   BindingReason `json:"reason"`
	// Key is the row state after the decision; nil when no key matched.
	Key *Key `json:"key,omitempty"`
}
