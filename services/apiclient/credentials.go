package apiclient

import (
	"net/http"
	"time"
)

// Cookie is the persisted subset of a backend cookie.
type Cookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Expires time.Time `json:"expires,omitempty"`
}

// Credentials are the backend cookies held for one browser session. They are
// replayed on every call and updated from Set-Cookie headers.
type Credentials struct {
	Cookies []Cookie `json:"cookies,omitempty"`
}

func (c *Credentials) apply(req *http.Request) {
	if c == nil {
		return
	}
	now := time.Now()
	for _, ck := range c.Cookies {
		if !ck.Expires.IsZero() && ck.Expires.Before(now) {
			continue
		}
		req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	}
}

func (c *Credentials) absorb(resp *http.Response) {
	if c == nil {
		return
	}
	now := time.Now()
	for _, hc := range resp.Cookies() {
		expired := hc.MaxAge < 0 || (!hc.Expires.IsZero() && hc.Expires.Before(now))
		c.remove(hc.Name)
		if expired || hc.Value == "" {
			continue
		}
		ck := Cookie{Name: hc.Name, Value: hc.Value}
		if hc.MaxAge > 0 {
			ck.Expires = now.Add(time.Duration(hc.MaxAge) * time.Second)
		} else if !hc.Expires.IsZero() {
			ck.Expires = hc.Expires
		}
		c.Cookies = append(c.Cookies, ck)
	}
}

func (c *Credentials) remove(name string) {
	kept := c.Cookies[:0]
	for _, ck := range c.Cookies {
		if ck.Name != name {
			kept = append(kept, ck)
		}
	}
	c.Cookies = kept
}

// Clear drops every backend cookie.
func (c *Credentials) Clear() {
	if c != nil {
		c.Cookies = nil
	}
}

// Empty reports whether no backend cookie is held.
func (c *Credentials) Empty() bool {
	return c == nil || len(c.Cookies) == 0
}
