package research

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Rules decides which search results may become seed URLs.
type Rules struct {
	extensions []*regexp.Regexp
	domains    []string
}

// NewRules compiles the excluded-extension patterns. Patterns are searched,
// not fully matched, against the lower-cased URL.
func NewRules(excludedExtensions []string, excludedDomains []string) (*Rules, error) {
	r := &Rules{}
	for _, p := range excludedExtensions {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid excluded extension pattern %q: %w", p, err)
		}
		r.extensions = append(r.extensions, re)
	}
	for _, d := range excludedDomains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			r.domains = append(r.domains, d)
		}
	}
	return r, nil
}

// Allowed reports whether rawURL passes both exclusion lists.
func (r *Rules) Allowed(rawURL string) bool {
	return r.Reason(rawURL) == ""
}

// Reason returns why rawURL is excluded, or "" when it is allowed.
func (r *Rules) Reason(rawURL string) string {
	lower := strings.ToLower(rawURL)
	for _, re := range r.extensions {
		if re.MatchString(lower) {
			return "extension " + re.String()
		}
	}
	for _, d := range r.domains {
		if strings.Contains(lower, d) {
			return "domain " + d
		}
	}
	return ""
}

// ExtractDomain returns the registrable domain of rawURL with any subdomain
// kept, so news.example.com and example.com are distinct. It returns "" for
// IP addresses, hosts without a known public suffix and unparsable URLs.
func ExtractDomain(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.TrimSuffix(strings.ToLower(parsed.Hostname()), ".")
	if host == "" || net.ParseIP(host) != nil {
		return ""
	}

	suffix, icann := publicsuffix.PublicSuffix(host)
	if !icann && !strings.Contains(suffix, ".") {
		return ""
	}
	if _, err := publicsuffix.EffectiveTLDPlusOne(host); err != nil {
		return ""
	}
	return host
}
