package checkout

import (
	"regexp"
	"runtime"
)

// DeviceClass selects the payment presentation: deep links on mobile,
// a scannable QR on everything else.
type DeviceClass int

const (
	DeviceDesktop DeviceClass = iota
	DeviceMobile
)

func (d DeviceClass) String() string {
	if d == DeviceMobile {
		return "mobile"
	}
	return "desktop"
}

var mobileSignal = regexp.MustCompile(`(?i)android|webos|iphone|ipad|ipod|blackberry|iemobile|opera mini|ios`)

// DetectDeviceClass classifies a platform signal (user-agent-style string,
// GOOS value, or an operator-provided override).
func DetectDeviceClass(signal string) DeviceClass {
	if mobileSignal.MatchString(signal) {
		return DeviceMobile
	}
	return DeviceDesktop
}

// PlatformSignal resolves the signal to classify: the configured override
// when present, the runtime OS otherwise.
func PlatformSignal(override string) string {
	if override != "" {
		return override
	}
	return runtime.GOOS
}
