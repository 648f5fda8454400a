package constants

import "time"

const (
	AppName             = "focusflow"
	DefaultKeyringUser  = "database-connection"
	KeyringIdentityUser = "current-user"
	DefaultConfigDir    = "~/.config/focusflow"
	DefaultDBFileName   = "focusflow.db"
	ConfigFileName      = "config.yaml"
	EnvFileName         = ".env"
	LogFileName         = "focusflow.log"
	Version             = "v0.3.0"

	// Environment overrides
	EnvDBConnection = "FOCUSFLOW_DB_CONNECTION"
	EnvTimezone     = "FOCUSFLOW_TIMEZONE"
	EnvDebug        = "FOCUSFLOW_DEBUG"
	EnvConfigDir    = "FOCUSFLOW_CONFIG_DIR"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "focusflow-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "focusflow-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.focusflow"
	TrayAppExecutable      = "focusflow-tray"

	// Energy constants
	DefaultEnergy     = 75
	MinEnergy         = 0
	MaxEnergy         = 100
	RecentEnergyLimit = 10

	// Reflection constants
	MinMoodRating = 1
	MaxMoodRating = 5

	// Focus session constants
	DefaultFocusDurationMin = 25
	MaxFocusDurationMin     = 180
	MaxTitleLength          = 200

	// Reminder schedule, checked once per minute
	ReminderSpec = "* * * * *"
)
