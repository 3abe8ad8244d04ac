package requestlog

import "strings"

// DeviceName classifies a User-Agent string into a coarse
// "<form factor> <browser>" label for request analytics. An empty or
// missing User-Agent reports as "Unidentified".
func DeviceName(userAgent string) string {
	if userAgent == "" {
		return "Unidentified"
	}

	var device strings.Builder

	if strings.Contains(userAgent, "Mobi") {
		device.WriteString("Mobile ")
	} else {
		device.WriteString("PC ")
	}

	switch {
	case strings.Contains(userAgent, "Chrome") &&
		!strings.Contains(userAgent, "Chromium") &&
		!strings.Contains(userAgent, "FB") &&
		!strings.Contains(userAgent, "Edge"):
		device.WriteString("Chrome")
	case strings.Contains(userAgent, "Safari") &&
		!strings.Contains(userAgent, "Chrome") &&
		!strings.Contains(userAgent, "Chromium"):
		device.WriteString("Safari")
	case strings.Contains(userAgent, "SamsungBrowser"):
		device.WriteString("Samsung Browser")
	case strings.Contains(userAgent, "Firefox") && !strings.Contains(userAgent, "Seamonkey"):
		device.WriteString("Firefox")
	case strings.Contains(userAgent, "Edge"):
		device.WriteString("Edge")
	case strings.Contains(userAgent, "OPR") || strings.Contains(userAgent, "Opera"):
		device.WriteString("Opera")
	case strings.Contains(userAgent, "UCBrowser"):
		device.WriteString("UCBrowser")
	case strings.Contains(userAgent, "MSIE"):
		device.WriteString("Internet Explorer IE")
	case strings.Contains(userAgent, "Seamonkey"):
		device.WriteString("Seamonkey")
	case strings.Contains(userAgent, "Chromium"):
		device.WriteString("Chromium")
	case strings.Contains(userAgent, "coc_coc_browser"):
		device.WriteString("Coc Coc")
	case strings.Contains(userAgent, "Brave"):
		device.WriteString("Brave")
	case strings.Contains(userAgent, "iPhone"),
		strings.Contains(userAgent, "iPad"),
		strings.Contains(userAgent, "iPod"):
		device.WriteString("Default IOS")
	case strings.Contains(userAgent, "Android") && !strings.Contains(userAgent, "Windows Phone"):
		device.WriteString("Default Android")
	default:
		device.WriteString("Default Browser Other OS")
	}

	return device.String()
}
