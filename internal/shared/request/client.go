package request

import "strings"

const (
	ClientWeb    = "web"
	ClientMobile = "mobile"
	ClientAPI    = "api"
)

// ResolveClientType prefers the X-Client-Type header and falls back to a
// user agent sniff. Browsers get cookies, everything else gets tokens in
// the body only.
func ResolveClientType(header, userAgent string) string {
	switch strings.ToLower(strings.TrimSpace(header)) {
	case ClientWeb:
		return ClientWeb
	case ClientMobile:
		return ClientMobile
	case ClientAPI:
		return ClientAPI
	}

	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "okhttp"), strings.Contains(ua, "dart"), strings.Contains(ua, "cfnetwork"):
		return ClientMobile
	case strings.Contains(ua, "mozilla"):
		return ClientWeb
	default:
		return ClientAPI
	}
}

func IsWebClient(clientType string) bool {
	return clientType == ClientWeb
}
