package constants

const (
	// Config keys
	ConfigStorageDSN           = "storage.dsn"
	ConfigLogDebug             = "log.debug"
	ConfigTimezone             = "timezone"
	ConfigNotificationsEnabled = "notifications.enabled"
	ConfigRemindersEnabled     = "reminders.enabled"

	// Default config values
	DefaultTimezone             = "Local" // Use system local timezone by default
	DefaultNotificationsEnabled = true
	DefaultRemindersEnabled     = true
)
