package enrichment

import (
	"fmt"

	"github.com/mssola/user_agent"
)

// UAInfo is the client description attached to login and signup log lines.
type UAInfo struct {
	Browser    string
	OS         string
	DeviceType string
}

func ParseUserAgent(uaString string) *UAInfo {
	if uaString == "" {
		return &UAInfo{Browser: "unknown", OS: "unknown", DeviceType: "unknown"}
	}

	ua := user_agent.New(uaString)

	browser, _ := ua.Browser()
	if browser == "" {
		browser = "unknown"
	}
	os := ua.OS()
	if os == "" {
		os = "unknown"
	}

	deviceType := "desktop"
	if ua.Bot() {
		deviceType = "bot"
	} else if ua.Mobile() {
		deviceType = "mobile"
	}

	return &UAInfo{
		Browser:    browser,
		OS:         os,
		DeviceType: deviceType,
	}
}

func (u *UAInfo) String() string {
	return fmt.Sprintf("%s/%s/%s", u.Browser, u.OS, u.DeviceType)
}
