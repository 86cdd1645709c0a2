package constants

import "time"

const (
	AppName            = "nudge"
	DefaultKeyringUser = "remote-connection"
	DefaultConfigPath  = "~/.config/nudge/nudge.db"
	Version            = "v0.2.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// EnvRemoteConnection is the environment variable consulted for the remote
	// record store connection string before falling back to the OS keyring.
	EnvRemoteConnection = "NUDGE_REMOTE_CONNECTION"

	// EnvOpenAIKey is the environment variable holding the extraction API key.
	EnvOpenAIKey = "OPENAI_API_KEY"
)

// Queue prioritization thresholds.
const (
	// StaleAgeDays is the age at which an active task is promoted as stale.
	StaleAgeDays = 3

	// VeryStaleAgeDays is the age at which staleness scoring escalates.
	VeryStaleAgeDays = 5

	// QuickWinMinutes is the estimated duration at or under which a task
	// counts as a quick win.
	QuickWinMinutes = 10

	// QuickWinAfterHour is the hour of day from which quick wins earn a bonus.
	QuickWinAfterHour = 14
)

// Reward accounting.
const (
	// StreakMultiplierMin is the streak length from which reward tiers double.
	StreakMultiplierMin = 3

	// AllClearBonus is paid when a completion empties the active queue.
	AllClearBonus = 5

	// StreakFreezeGapDays is the exact completion gap a streak freeze covers.
	StreakFreezeGapDays = 2
)

// Sync.
const (
	// LedgerPushInterval is the minimum spacing between ledger uploads.
	LedgerPushInterval = 10 * time.Second

	// DefaultSyncInterval is how often the background runner attempts a sync.
	DefaultSyncInterval = 2 * time.Minute

	// CollectionTasks and CollectionLedger name the synced record collections.
	CollectionTasks  = "tasks"
	CollectionLedger = "ledger"

	// LedgerRecordID is the id of the singleton ledger record.
	LedgerRecordID = "ledger"
)

// Notifications.
const (
	NotifierLockfileName   = "notifier.lock"
	NotificationDurationMs = 5000

	// StaleCheckInAfter is how long after creation an untouched active task
	// earns a check-in nudge.
	StaleCheckInAfter = 72 * time.Hour
)
