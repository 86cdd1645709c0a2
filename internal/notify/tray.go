package notify

import (
	"bytes"
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

	"github.com/nudgelabs/nudge-core/internal/constants"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// TrayScheduler delivers reminders through the companion tray process. The
// tray writes a lockfile (port|pid|secret) while running; we validate the
// pid actually belongs to it before posting.
type TrayScheduler struct{}

func NewTrayScheduler() *TrayScheduler {
	return &TrayScheduler{}
}

type webhookPayload struct {
	TaskID     string `json:"task_id"`
	Text       string `json:"text"`
	FireAt     string `json:"fire_at,omitempty"`
	Cancel     bool   `json:"cancel,omitempty"`
	DurationMs uint32 `json:"duration_ms"`
}

func (n *TrayScheduler) Schedule(taskID string, at time.Time, text string) error {
	return n.post(webhookPayload{
		TaskID:     taskID,
		Text:       text,
		FireAt:     at.Format(time.RFC3339),
		DurationMs: constants.NotificationDurationMs,
	})
}

func (n *TrayScheduler) Cancel(taskID string) error {
	return n.post(webhookPayload{TaskID: taskID, Cancel: true})
}

func (n *TrayScheduler) post(payload webhookPayload) error {
	configDir, err := trayConfigDir()
	if err != nil {
		return err
	}

	port, secret, err := findAndValidateTrayProcess(filepath.Join(configDir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}

	return sendWebhook(port, secret, payload)
}

func trayConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	return filepath.Join(configDir, constants.AppName+"-tray"), nil
}

func findAndValidateTrayProcess(lockfilePath string) (string, string, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return "", "", errors.New("notification tray is not running")
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("lockfile is malformed")
	}

	port := parts[0]
	portNum, err := strconv.Atoi(port)
	if err != nil || portNum < 1 || portNum > 65535 {
		return "", "", errors.New("invalid port number in lockfile")
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", "", errors.New("invalid process ID in lockfile")
	}
	secret := parts[2]
	if strings.TrimSpace(secret) == "" {
		return "", "", errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", "", errors.New("notification tray process not running")
	}
	if !strings.HasPrefix(process.Executable(), constants.AppName+"-tray") {
		return "", "", fmt.Errorf("process with PID %d is not the notification tray (is %s)", pid, process.Executable())
	}

	return port, secret, nil
}

func sendWebhook(port, secret string, payload webhookPayload) error {
	url := fmt.Sprintf("http://127.0.0.1:%s", port)

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Nudge-Secret", secret)

	client := &http.Client{Timeout: 5 * time.Second}
	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(body))
}
