package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/focusflow/internal/constants"
	"github.com/julianstephens/focusflow/internal/logger"
	"github.com/julianstephens/focusflow/internal/models"
	"github.com/julianstephens/focusflow/internal/utils"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// ErrTrayNotRunning is returned when no live tray process owns the lockfile.
var ErrTrayNotRunning = errors.New(constants.TrayAppExecutable + " is not running")

// Notifier posts desktop notifications to the tray application.
type Notifier struct {
	client  *http.Client
	enabled bool
	retries int
	delay   time.Duration
}

type WebhookPayload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

type Option func(*Notifier)

// WithEnabled turns delivery on or off. A disabled Notifier drops every message.
func WithEnabled(enabled bool) Option {
	return func(n *Notifier) { n.enabled = enabled }
}

// WithRetry sets how many times a failed delivery is retried and the pause between attempts.
func WithRetry(retries int, delay time.Duration) Option {
	return func(n *Notifier) {
		n.retries = retries
		n.delay = delay
	}
}

func New(opts ...Option) *Notifier {
	n := &Notifier{
		client:  &http.Client{Timeout: 5 * time.Second},
		enabled: true,
		retries: constants.NotifyMaxRetries,
		delay:   constants.NotifyRetryDelay,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Notifier) Enabled() bool {
	return n.enabled
}

// Notify delivers text to the running tray application.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	if !n.enabled {
		return nil
	}

	dir, err := GetTrayAppConfigDir()
	if err != nil {
		return err
	}

	lock, err := locateTray(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}

	payload := WebhookPayload{
		Text:       text,
		DurationMs: constants.NotificationDurationMs,
	}
	return n.sendWithRetry(ctx, lock, payload)
}

// TrayStatus returns nil when a live tray application is accepting notifications.
func TrayStatus() error {
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		return err
	}
	_, err = locateTray(filepath.Join(dir, constants.NotifierLockfileName))
	return err
}

// FocusComplete announces that session's countdown finished. Failures are logged only.
func (n *Notifier) FocusComplete(ctx context.Context, session models.FocusSession) {
	if err := n.Notify(ctx, CompletionMessage(session)); err != nil {
		logger.Warn("Focus completion notification failed", "session", session.ID, "error", err)
	}
}

// Remind announces each session that is due now. Failures are logged only.
func (n *Notifier) Remind(ctx context.Context, sessions []models.FocusSession) {
	for _, session := range sessions {
		if err := n.Notify(ctx, ReminderMessage(session)); err != nil {
			logger.Warn("Reminder notification failed", "session", session.ID, "error", err)
		}
	}
}

func CompletionMessage(session models.FocusSession) string {
	return fmt.Sprintf("Focus complete: %s (%s)", session.Title, utils.FormatDuration(session.DurationMin))
}

func ReminderMessage(session models.FocusSession) string {
	return fmt.Sprintf("Time to focus: %s at %s for %s", session.Title, session.ScheduledTime, utils.FormatDuration(session.DurationMin))
}

// GetTrayAppConfigDir returns the configuration directory used by the tray application.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	// The tray may relocate its lockfile through settings.json
	data, err := os.ReadFile(filepath.Join(trayConfigDir, "settings.json"))
	if err != nil {
		return trayConfigDir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &store); err == nil && store.Settings.LockfileDir != nil && *store.Settings.LockfileDir != "" {
		return *store.Settings.LockfileDir, nil
	}
	return trayConfigDir, nil
}

// lockfile is the "port|pid|secret" record the tray writes on startup.
type lockfile struct {
	Port   int
	PID    int
	Secret string
}

func parseLockfile(content string) (lockfile, error) {
	parts := strings.Split(strings.TrimSpace(content), "|")
	if len(parts) != 3 {
		return lockfile{}, errors.New("lockfile is malformed")
	}

	if strings.TrimSpace(parts[0]) == "" {
		return lockfile{}, errors.New("port in lockfile is empty")
	}
	port, err := strconv.Atoi(parts[0])
	if err != nil {
		return lockfile{}, errors.New("invalid port number in lockfile")
	}
	if port < 1 || port > 65535 {
		return lockfile{}, fmt.Errorf("port number %d is outside valid range (1-65535)", port)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return lockfile{}, errors.New("invalid process ID in lockfile")
	}

	secret := strings.TrimSpace(parts[2])
	if secret == "" {
		return lockfile{}, errors.New("secret in lockfile is empty")
	}

	return lockfile{Port: port, PID: pid, Secret: secret}, nil
}

// locateTray reads the lockfile and confirms its PID belongs to the tray executable.
func locateTray(path string) (lockfile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return lockfile{}, ErrTrayNotRunning
	}

	lock, err := parseLockfile(string(content))
	if err != nil {
		return lockfile{}, err
	}

	process, err := findProcessFunc(lock.PID)
	if err != nil || process == nil {
		return lockfile{}, ErrTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayAppExecutable) {
		return lockfile{}, fmt.Errorf("%w: process %d is %s", ErrTrayNotRunning, lock.PID, process.Executable())
	}

	return lock, nil
}

// permanentError marks a response that retrying cannot fix.
type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

func (n *Notifier) sendWithRetry(ctx context.Context, lock lockfile, payload WebhookPayload) error {
	var err error
	for attempt := 0; attempt <= n.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(n.delay):
			}
		}

		err = n.send(ctx, lock, payload)
		var perm permanentError
		if err == nil || errors.As(err, &perm) {
			return err
		}
		logger.Debug("Notification attempt failed", "attempt", attempt+1, "error", err)
	}
	return err
}

func (n *Notifier) send(ctx context.Context, lock lockfile, payload WebhookPayload) error {
	url := fmt.Sprintf("http://127.0.0.1:%d", lock.Port)

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return permanentError{err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return permanentError{err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Focusflow-Secret", lock.Secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, _ := io.ReadAll(res.Body)
	err = fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(body))
	if res.StatusCode < http.StatusInternalServerError {
		return permanentError{err}
	}
	return err
}
