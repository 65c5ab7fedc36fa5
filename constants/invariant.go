package constants

const (
	// public URL
	PUBLIC_URL              = "https://solecraft.studio"
	MAX_SUBMISSIONS_TO_SHOW = 50
	MAX_MESSAGE_LENGTH      = 2500
	MAX_DESIGN_BRIEF_LENGTH = 4000

	DEFAULT_APP_ID   = "solecraft-studio"
	ADMIN_STATE_FILE = "admin_state.json"

	SUBMISSION_STATUS_NEW = "New"
)

// BUDGET_RANGES are the four buckets offered on the custom-design form.
// A booking is rejected unless its budget matches one of these exactly.
var BUDGET_RANGES = [4]string{
	"Under $150",
	"$150 - $250",
	"$250 - $400",
	"$400+",
}
