package types

import "time"

type (
	// BillConfig is shared by all bill subcommands.
	BillConfig struct {
		Base *BaseConfiguration
		// Billing service URL, scheme optional.
		ApiUrl string
		// Directory of the local submission journal.
		JournalDir string
	}

	// CreateConfig holds the flags of "bill create".
	CreateConfig struct {
		BillConfig *BillConfig

		Email         string
		Items         []string
		Denominations []string
		Paid          string
		DraftFile     string
		SaveDraft     string
		RemoveRows    []int
		Interactive   bool
		Timeout       time.Duration
	}
)
