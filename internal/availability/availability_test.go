package availability

import (
	"bufio"
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net"
	"strings"
	"testing"
	"time"
)

// whoisServer answers every query with the body returned by answer
func whoisServer(t *testing.T, answer func(name string) string) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = ln.Close()
	})

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				line, err := bufio.NewReader(c).ReadString('\n')
				if err != nil {
					return
				}
				_, _ = c.Write([]byte(answer(strings.TrimSpace(line))))
			}(conn)
		}
	}()
	return ln.Addr().String()
}

type fakeResolver struct {
	ns  []*net.NS
	err error
}

func (f fakeResolver) LookupNS(ctx context.Context, name string) ([]*net.NS, error) {
	return f.ns, f.err
}

func TestCheck_Whois(t *testing.T) {
	server := whoisServer(t, func(name string) string {
		if name == "taken.com" {
			return "Domain Name: TAKEN.COM\r\nRegistrar: Example Registrar\r\n"
		}
		return "No match for \"" + strings.ToUpper(name) + "\".\r\n"
	})
	v := NewValidator(server, WithResolver(fakeResolver{err: errors.New("must not be called")}))

	report, err := v.Check(context.Background(), "Taken.com")
	require.NoError(t, err)
	assert.True(t, report.Registered)
	assert.True(t, report.IsAvailable())
	assert.Equal(t, SourceWhois, report.Source)
	assert.Equal(t, server, report.Server)
	assert.Contains(t, report.Whois, "TAKEN.COM")

	report, err = v.Check(context.Background(), "free.com")
	require.NoError(t, err)
	assert.False(t, report.Registered)
	assert.Contains(t, report.Whois, "No match")
}

func TestCheck_FallsBackToDNS(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	unreachable := ln.Addr().String()
	require.NoError(t, ln.Close())

	v := NewValidator(unreachable, WithTimeout(time.Second),
		WithResolver(fakeResolver{ns: []*net.NS{{Host: "ns1.example.net."}}}))
	report, err := v.Check(context.Background(), "taken.com")
	require.NoError(t, err)
	assert.True(t, report.Registered)
	assert.Equal(t, SourceDNS, report.Source)
	assert.Empty(t, report.Whois)

	v = NewValidator(unreachable, WithTimeout(time.Second),
		WithResolver(fakeResolver{err: &net.DNSError{Err: "no such host", Name: "free.com", IsNotFound: true}}))
	report, err = v.Check(context.Background(), "free.com")
	require.NoError(t, err)
	assert.False(t, report.Registered)

	v = NewValidator(unreachable, WithTimeout(time.Second),
		WithResolver(fakeResolver{err: &net.DNSError{Err: "server misbehaving", Name: "x.com", IsTemporary: true}}))
	_, err = v.Check(context.Background(), "x.com")
	assert.Error(t, err)
}

func TestIsRegistered(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{"Domain Name: EXAMPLE.COM\nRegistry Expiry Date: 2030-01-01", true},
		{"No match for \"EXAMPLE.COM\".", false},
		{"%% NOT FOUND", false},
		{"Status: free", false},
		{"No Data Found", false},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRegistered(tt.body))
		})
	}
}
