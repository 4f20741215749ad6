package handler

import (
	"strings"

	"github.com/abdul977/muahibstores/internal/visitor"
	"github.com/labstack/echo/v4"
)

// clientContext is what the storefront sends about the browser and page it runs in
type clientContext struct {
	Browser  visitor.Browser `json:"browser"`
	URL      string          `json:"url"`
	Referrer string          `json:"referrer"`
	Title    string          `json:"title"`
}

// browserFrom fills the traits the client did not send from the request headers
func browserFrom(c echo.Context, b visitor.Browser) visitor.Browser {
	req := c.Request()
	if b.UserAgent == "" {
		b.UserAgent = req.UserAgent()
	}
	if b.Language == "" {
		b.Language = primaryLanguage(req.Header.Get("Accept-Language"))
	}
	return b
}

// pageFrom builds the page info, falling back to the Referer header for the page URL
func pageFrom(c echo.Context, cc clientContext) visitor.PageInfo {
	pageURL := cc.URL
	if pageURL == "" {
		pageURL = c.Request().Referer()
	}
	return visitor.NewPageInfo(pageURL, cc.Referrer, cc.Title)
}

// primaryLanguage returns the first tag of an Accept-Language header
func primaryLanguage(header string) string {
	first, _, _ := strings.Cut(header, ",")
	tag, _, _ := strings.Cut(first, ";")
	return strings.TrimSpace(tag)
}

// bindClientContext reads an optional JSON body. An empty body is fine.
func bindClientContext(c echo.Context) (clientContext, error) {
	var cc clientContext
	if c.Request().ContentLength == 0 {
		return cc, nil
	}
	if err := c.Bind(&cc); err != nil {
		return cc, err
	}
	return cc, nil
}
