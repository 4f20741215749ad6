package visitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectDevice(t *testing.T) {
	tests := []struct {
		name       string
		userAgent  string
		wantType   string
		wantMobile bool
	}{
		{"desktop chrome", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0 Safari/537.36", DeviceDesktop, false},
		{"iphone", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148", DeviceMobile, true},
		{"android phone", "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 Chrome/120.0 Mobile Safari/537.36", DeviceMobile, true},
		{"ipad is a tablet although it matches mobile", "Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148", DeviceTablet, true},
		{"android tablet", "Mozilla/5.0 (Linux; Android 13; SM-X200) AppleWebKit/537.36 Chrome/120.0 Safari/537.36", DeviceTablet, true},
		{"blackberry", "BlackBerry9700/5.0.0.351", DeviceMobile, true},
		{"empty", "", DeviceDesktop, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := DetectDevice(Browser{UserAgent: tt.userAgent, ScreenWidth: 390, Timezone: "Africa/Lagos"})
			assert.Equal(t, tt.wantType, info.DeviceType)
			assert.Equal(t, tt.wantMobile, info.IsMobile)
			assert.Equal(t, 390, info.ScreenWidth)
			assert.Equal(t, "Africa/Lagos", info.Timezone)
		})
	}
}

func TestNewPageInfo(t *testing.T) {
	info := NewPageInfo("https://muahibstores.com/category/audio?x=1", "https://google.com", "Audio")
	assert.Equal(t, "/category/audio", info.Pathname)
	assert.Equal(t, "https://google.com", info.Referrer)

	info = NewPageInfo("", "", "")
	assert.Equal(t, "/", info.Pathname)
	assert.Equal(t, "direct", info.Referrer)
}

func TestUTMFromURL(t *testing.T) {
	utm := UTMFromURL("https://muahibstores.com/?utm_source=facebook&utm_medium=cpc&utm_campaign=sale&utm_term=watch&utm_content=")
	assert.Equal(t, "facebook", *utm.Source)
	assert.Equal(t, "cpc", *utm.Medium)
	assert.Equal(t, "sale", *utm.Campaign)
	assert.Equal(t, "watch", *utm.Term)
	assert.Equal(t, "", *utm.Content)

	assert.Equal(t, UTM{}, UTMFromURL("https://muahibstores.com/"))
	assert.Equal(t, UTM{}, UTMFromURL("%zz"))
}

func TestFingerprint(t *testing.T) {
	b := Browser{
		UserAgent:      "Mozilla/5.0",
		Language:       "en-US",
		ScreenWidth:    1920,
		ScreenHeight:   1080,
		TimezoneOffset: -60,
		CanvasData:     "data:image/png;base64,AAAA",
	}
	assert.Equal(t, "8pnidv", Fingerprint(b))
	assert.Equal(t, "kb47s0", Fingerprint(Browser{}))
	assert.Equal(t, Fingerprint(b), Fingerprint(b))

	b.Language = "fr-FR"
	assert.NotEqual(t, "8pnidv", Fingerprint(b))
}
