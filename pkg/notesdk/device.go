package notesdk

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
)

// NewDeviceInfo builds a DeviceInfo with a fresh random device ID and
// whatever the host reveals about itself.
func NewDeviceInfo() DeviceInfo {
	hostname, _ := os.Hostname()

	return DeviceInfo{
		DeviceID:   uuid.NewString(),
		DeviceName: hostname,
		Platform:   runtime.GOOS,
	}
}

// LoadOrCreateDeviceInfo reads a previously saved DeviceInfo from path, or
// creates and persists a new one if the file does not exist. Reusing the
// same file across runs keeps the device ID stable, so the server keeps
// treating the process as the same device and refresh rotation works
// across restarts.
func LoadOrCreateDeviceInfo(path string) (DeviceInfo, error) {
	path = filepath.Clean(path)

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		var info DeviceInfo
		if jsonErr := json.Unmarshal(raw, &info); jsonErr != nil {
			return DeviceInfo{}, fmt.Errorf("notesdk: parse device info: %w", jsonErr)
		}
		if info.DeviceID == "" {
			return DeviceInfo{}, fmt.Errorf("notesdk: device info at %s has no deviceId", path)
		}
		return info, nil
	case !os.IsNotExist(err):
		return DeviceInfo{}, fmt.Errorf("notesdk: read device info: %w", err)
	}

	info := NewDeviceInfo()

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return DeviceInfo{}, fmt.Errorf("notesdk: prepare device info dir: %w", err)
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return DeviceInfo{}, fmt.Errorf("notesdk: encode device info: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return DeviceInfo{}, fmt.Errorf("notesdk: write device info: %w", err)
	}

	return info, nil
}
