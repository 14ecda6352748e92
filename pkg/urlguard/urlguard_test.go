package urlguard

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip      string
		private bool
	}{
		{"10.0.0.1", true},
		{"10.255.255.255", true},
		{"172.16.0.1", true},
		{"172.31.200.9", true},
		{"192.168.1.1", true},
		{"127.0.0.1", true},
		{"127.255.0.1", true},
		{"169.254.10.10", true},
		{"0.0.0.0", true},
		{"0.1.2.3", true},
		{"100.64.0.1", true},
		{"224.0.0.251", true},
		{"::1", true},
		{"fe80::1", true},
		{"fc00::1", true},
		{"::ffff:192.168.0.1", true},
		{"8.8.8.8", false},
		{"1.1.1.1", false},
		{"93.184.216.34", false},
		{"172.32.0.1", false},
		{"2606:4700::1111", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			ip := net.ParseIP(tt.ip)
			require.NotNil(t, ip)
			assert.Equal(t, tt.private, IsPrivateIP(ip))
		})
	}
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"literal private ip", "http://10.1.2.3/admin", true},
		{"literal loopback", "http://127.0.0.1:8080/", true},
		{"link local", "http://169.254.169.254/latest/meta-data/", true},
		{"multicast", "http://224.0.0.1/", true},
		{"ftp scheme", "ftp://example.com/file", true},
		{"file scheme", "file:///etc/passwd", true},
		{"localhost name", "http://localhost:9000/", true},
		{"dot local domain", "https://printer.local/", true},
		{"garbage", "://not a url", true},
		{"literal public ip", "https://93.184.216.34/", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(ctx, tt.url)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrBlocked)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// The hostname "localhost" is caught before resolution, so resolve a name
// the OS maps to loopback to exercise the DNS path.
func TestValidateResolvesPrivate(t *testing.T) {
	err := Validate(context.Background(), "http://localhost.localdomain/")
	if err == nil {
		t.Skip("localhost.localdomain does not resolve to loopback on this host")
	}
	assert.ErrorIs(t, err, ErrBlocked)
}

func TestRedirectHopRevalidated(t *testing.T) {
	client := Client(0)

	req := mustRequest(t, "http://10.0.0.1/admin")
	via := []*http.Request{mustRequest(t, "https://example.com/")}

	err := client.CheckRedirect(req, via)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBlocked)
}

func TestRedirectHopAllowsPublicTarget(t *testing.T) {
	client := Client(0)

	req := mustRequest(t, "https://93.184.216.34/next")
	via := []*http.Request{mustRequest(t, "https://93.184.216.34/")}

	assert.NoError(t, client.CheckRedirect(req, via))
}

func TestRedirectChainCapped(t *testing.T) {
	client := Client(0)

	req := mustRequest(t, "https://93.184.216.34/hop6")
	via := make([]*http.Request, 5)
	for i := range via {
		via[i] = mustRequest(t, "https://93.184.216.34/hop")
	}

	err := client.CheckRedirect(req, via)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many redirects")
}

func mustRequest(t *testing.T, rawURL string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	require.NoError(t, err)
	return req
}

func TestDialContextRefusesPrivate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("internal"))
	}))
	defer srv.Close()

	client := Client(0)
	resp, err := client.Get(srv.URL)
	if resp != nil {
		resp.Body.Close()
	}
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBlocked)
}
