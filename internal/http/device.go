package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jotterhq/jotter/internal/domain"
	"github.com/jotterhq/jotter/pkg/httpx"
)

// DeviceInfoHeader carries the client's device fingerprint as JSON. It
// is required on every auth endpoint; deviceId is the only mandatory
// field.
const DeviceInfoHeader = "x-device-info"

// deviceFromHeader parses the device fingerprint, answering 400 when
// the header is missing or unusable.
func deviceFromHeader(w http.ResponseWriter, r *http.Request) (domain.Device, bool) {
	raw := r.Header.Get(DeviceInfoHeader)
	if raw == "" {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidation, "x-device-info header is required")
		return domain.Device{}, false
	}

	var device domain.Device
	if err := json.Unmarshal([]byte(raw), &device); err != nil || strings.TrimSpace(device.DeviceID) == "" {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidation, "x-device-info header is invalid")
		return domain.Device{}, false
	}
	return device, true
}
