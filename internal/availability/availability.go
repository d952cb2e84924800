// Package availability decides whether a domain name is registered, from WHOIS with
// a DNS fallback
package availability

import (
	"context"
	"domainkeeper/logger"
	"errors"
	"fmt"
	"go.uber.org/zap"
	"io"
	"net"
	"strings"
	"time"
)

const (
	SourceWhois = "whois"
	SourceDNS   = "dns"

	defaultTimeout = 10 * time.Second
	maxWhoisBody   = 1 << 20
)

// patterns WHOIS servers answer with for names nobody holds
var notFoundPatterns = []string{
	"no match for",
	"not found",
	"no data found",
	"no entries found",
	"status: free",
	"status: available",
	"is available for registration",
}

type (
	Report struct {
		Registered bool
		Whois      string
		Server     string
		Source     string
		CheckedAt  time.Time
	}

	Validator interface {
		Check(ctx context.Context, name string) (Report, error)
	}

	NSResolver interface {
		LookupNS(ctx context.Context, name string) ([]*net.NS, error)
	}

	validator struct {
		server   string
		timeout  time.Duration
		resolver NSResolver
	}

	Option func(*validator)
)

func WithResolver(r NSResolver) Option {
	return func(v *validator) {
		v.resolver = r
	}
}

func WithTimeout(d time.Duration) Option {
	return func(v *validator) {
		v.timeout = d
	}
}

// NewValidator queries server, a host:port WHOIS endpoint
func NewValidator(server string, opts ...Option) Validator {
	v := &validator{
		server:   server,
		timeout:  defaultTimeout,
		resolver: net.DefaultResolver,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// IsAvailable reports whether a domain can be used for campaigns right away, i.e. it
// is already registered
func (r Report) IsAvailable() bool {
	return r.Registered
}

func (v *validator) Check(ctx context.Context, name string) (Report, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	body, err := Query(ctx, v.server, name, v.timeout)
	if err == nil {
		return Report{
			Registered: IsRegistered(body),
			Whois:      body,
			Server:     v.server,
			Source:     SourceWhois,
			CheckedAt:  time.Now(),
		}, nil
	}

	logger.Warn("whois query failed, falling back to dns",
		zap.String("domain", name),
		zap.String("server", v.server),
		zap.Error(err))

	lookupCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	ns, err := v.resolver.LookupNS(lookupCtx, name)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return Report{Registered: false, Source: SourceDNS, CheckedAt: time.Now()}, nil
		}
		return Report{}, fmt.Errorf("ns lookup %s: %w", name, err)
	}

	return Report{Registered: len(ns) > 0, Source: SourceDNS, CheckedAt: time.Now()}, nil
}

// Query sends one WHOIS request over TCP and returns the raw answer
func Query(ctx context.Context, server, name string, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", server)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = conn.Close()
	}()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if _, err := conn.Write([]byte(name + "\r\n")); err != nil {
		return "", err
	}

	body, err := io.ReadAll(io.LimitReader(conn, maxWhoisBody))
	if err != nil {
		return "", err
	}
	if len(body) == 0 {
		return "", errors.New("empty whois response")
	}
	return string(body), nil
}

func IsRegistered(body string) bool {
	lower := strings.ToLower(body)
	for _, pattern := range notFoundPatterns {
		if strings.Contains(lower, pattern) {
			return false
		}
	}
	return true
}
