package pulsecheck

import "net/url"

// DomainOf returns the host of rawURL without any port, for use as a
// grouping key.
//
// "http://api.example.com:8080/x" yields "api.example.com". IPv6 literals lose
// their brackets. A URL that cannot be parsed yields "".
func DomainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
