package resolver

import (
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	v1 "github.com/neutree-ai/obsprobe/api/v1"
)

// ErrInvalidTarget is returned when a target URL cannot be probed at all.
var ErrInvalidTarget = errors.New("invalid target")

// ParsedTarget is the probe-ready view of a v1.Target.
type ParsedTarget struct {
	// BaseURL is scheme://host[:port][/path] without a trailing slash.
	BaseURL string
	// Host is the hostname without port.
	Host string
	// HostPort is host:port as given in the URL, or just host when no port was given.
	HostPort string
	Scheme   string
}

// ParseTarget validates the target URL and derives the base URL and host used by the probes.
func ParseTarget(target v1.Target) (*ParsedTarget, error) {
	raw := strings.TrimSpace(target.URL)
	if raw == "" {
		return nil, errors.Wrap(ErrInvalidTarget, "url is empty")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidTarget, "parse url %q: %v", raw, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Wrapf(ErrInvalidTarget, "unsupported scheme %q", u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return nil, errors.Wrapf(ErrInvalidTarget, "url %q has no host", raw)
	}

	base := &url.URL{Scheme: u.Scheme, Host: u.Host, Path: strings.TrimRight(u.Path, "/")}

	return &ParsedTarget{
		BaseURL:  base.String(),
		Host:     host,
		HostPort: u.Host,
		Scheme:   u.Scheme,
	}, nil
}

// Endpoint joins a path onto the base URL.
func (p *ParsedTarget) Endpoint(path string) string {
	return p.BaseURL + path
}

// Address returns host:port for a TCP probe on the target's host.
func (p *ParsedTarget) Address(port int) string {
	return net.JoinHostPort(p.Host, strconv.Itoa(port))
}
