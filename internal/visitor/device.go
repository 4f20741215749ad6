package visitor

import (
	"net/url"
	"regexp"
	"strings"
)

// Device types
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
)

var mobileAgent = regexp.MustCompile(`(?i)Android|webOS|iPhone|iPad|iPod|BlackBerry|IEMobile|Opera Mini`)

// DeviceInfo classifies the requesting device
type DeviceInfo struct {
	UserAgent    string `json:"userAgent"`
	IsMobile     bool   `json:"isMobile"`
	DeviceType   string `json:"deviceType"`
	ScreenWidth  int    `json:"screenWidth"`
	ScreenHeight int    `json:"screenHeight"`
	Timezone     string `json:"timezone"`
}

// DetectDevice classifies a browser. Tablets are checked before phones,
// so an iPad counts as a tablet even though it also matches the mobile pattern.
func DetectDevice(b Browser) DeviceInfo {
	info := DeviceInfo{
		UserAgent:    b.UserAgent,
		IsMobile:     mobileAgent.MatchString(b.UserAgent),
		DeviceType:   DeviceDesktop,
		ScreenWidth:  b.ScreenWidth,
		ScreenHeight: b.ScreenHeight,
		Timezone:     b.Timezone,
	}
	switch {
	case isTablet(b.UserAgent):
		info.DeviceType = DeviceTablet
	case info.IsMobile:
		info.DeviceType = DeviceMobile
	}
	return info
}

// isTablet matches "iPad", or an "Android" token with no "Mobile" anywhere after it
func isTablet(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	if strings.Contains(ua, "ipad") {
		return true
	}
	i := strings.LastIndex(ua, "android")
	return i >= 0 && !strings.Contains(ua[i+len("android"):], "mobile")
}

// PageInfo describes the page a visitor is on
type PageInfo struct {
	URL      string `json:"url"`
	Pathname string `json:"pathname"`
	Referrer string `json:"referrer"`
	Title    string `json:"title"`
}

// NewPageInfo builds page info from the page URL. An empty referrer becomes "direct".
func NewPageInfo(pageURL, referrer, title string) PageInfo {
	info := PageInfo{URL: pageURL, Referrer: referrer, Title: title}
	if info.Referrer == "" {
		info.Referrer = "direct"
	}
	if u, err := url.Parse(pageURL); err == nil {
		info.Pathname = u.Path
	}
	if info.Pathname == "" {
		info.Pathname = "/"
	}
	return info
}

// UTM holds campaign parameters; absent ones are nil
type UTM struct {
	Source   *string `json:"utm_source"`
	Medium   *string `json:"utm_medium"`
	Campaign *string `json:"utm_campaign"`
	Term     *string `json:"utm_term"`
	Content  *string `json:"utm_content"`
}

// UTMFromURL reads the utm_* query parameters of a page URL
func UTMFromURL(pageURL string) UTM {
	u, err := url.Parse(pageURL)
	if err != nil {
		return UTM{}
	}
	q := u.Query()
	get := func(key string) *string {
		if !q.Has(key) {
			return nil
		}
		v := q.Get(key)
		return &v
	}
	return UTM{
		Source:   get("utm_source"),
		Medium:   get("utm_medium"),
		Campaign: get("utm_campaign"),
		Term:     get("utm_term"),
		Content:  get("utm_content"),
	}
}
