package imgcache

import (
	"encoding/hex"
	"net"
	"net/url"
	"strings"
)

const hrefHexLen = 32

var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
	"ws":    "80",
	"wss":   "443",
	"ftp":   "21",
}

// CacheFilename derives the cache entry name of u:
//
//	{host}_{first 32 hex chars of href}__{last segment of the path}
//
// Existing cache directories depend on this exact layout.
func CacheFilename(u *url.URL) string {
	c := canonical(u)

	encoded := hex.EncodeToString([]byte(c.String()))
	if len(encoded) > hrefHexLen {
		encoded = encoded[:hrefHexLen]
	}

	pathname := c.EscapedPath()
	segment := pathname[strings.LastIndex(pathname, "/")+1:]

	return c.Host + "_" + encoded + "__" + segment
}

// Href returns the serialized form of u used as cache key and request URL:
// lower-case scheme and host, no default port and "/" for an empty path.
func Href(u *url.URL) string {
	return canonical(u).String()
}

func canonical(u *url.URL) *url.URL {
	c := *u
	c.Scheme = strings.ToLower(c.Scheme)
	c.Host = strings.ToLower(c.Host)

	if host, port, err := net.SplitHostPort(c.Host); err == nil && defaultPorts[c.Scheme] == port {
		if strings.Contains(host, ":") {
			host = "[" + host + "]"
		}
		c.Host = host
	}

	if c.Opaque == "" && c.Host != "" && c.Path == "" {
		c.Path = "/"
		c.RawPath = ""
	}
	return &c
}
