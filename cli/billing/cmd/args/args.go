package args

import "strings"

const (
	ApiUrl        = "api-url"
	DefaultApiUrl = "localhost:8000"

	EmailCmdName        = "email"
	ItemCmdName         = "item"
	DenominationCmdName = "denomination"
	PaidCmdName         = "paid"
	FileCmdName         = "file"
	SaveDraftCmdName    = "save-draft"
	RemoveRowCmdName    = "remove-row"
	InteractiveCmdName  = "interactive"
	TimeoutCmdName      = "timeout"
)

// BuildApiUrl normalizes the user supplied billing service address to an
// absolute base URL.
func BuildApiUrl(url string) string {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}
	return strings.TrimSuffix(url, "/")
}
