package attendance

import "errors"

// Notice is the user-facing toast that accompanies an operation's outcome.
type Notice struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant"`
}

const (
	VariantDefault     = "default"
	VariantDestructive = "destructive"
)

// ValidationError rejects a single action without touching the register.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ConfigError blocks a sync that is missing required settings.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }

// SyncError wraps a network-level failure of the webhook POST.
type SyncError struct {
	Err error
}

func (e *SyncError) Error() string { return "webhook sync failed: " + e.Err.Error() }

func (e *SyncError) Unwrap() error { return e.Err }

var (
	// ErrNoRecords is informational: there is nothing to sync.
	ErrNoRecords = errors.New("no records to sync")
	// ErrSyncInFlight is returned while a previous sync has not settled.
	ErrSyncInFlight = errors.New("sync already in progress")
)

// NoticeFor maps an operation error to the notice shown to the user.
func NoticeFor(err error) Notice {
	var (
		verr *ValidationError
		cerr *ConfigError
		serr *SyncError
	)
	switch {
	case errors.As(err, &verr):
		return Notice{Title: "Scan required", Description: "Enter or scan an RFID/card ID.", Variant: VariantDestructive}
	case errors.As(err, &cerr):
		return Notice{Title: "Webhook required", Description: "Enter your webhook URL.", Variant: VariantDestructive}
	case errors.Is(err, ErrNoRecords):
		return Notice{Title: "No records", Description: "Scan at least one ID before syncing.", Variant: VariantDefault}
	case errors.Is(err, ErrSyncInFlight):
		return Notice{Title: "Syncing...", Description: "A sync is already in progress.", Variant: VariantDefault}
	case errors.As(err, &serr):
		return Notice{Title: "Error", Description: "Failed to trigger the webhook. Please check the URL and try again.", Variant: VariantDestructive}
	default:
		return Notice{Title: "Error", Description: err.Error(), Variant: VariantDestructive}
	}
}
