package downloader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"segfetch/internal"
)

func TestHTTPClient_Do_LogsRequestAndResponseAtDebugLevel(t *testing.T) {
	var buf bufferWriter
	internal.InitLoggerForTest(&buf, internal.LogLevelDebug, true, false)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := DefaultConfig().withDefaults()
	cfg.Credential = Credential{"Authorization": "Bearer topsecret"}
	client := newHTTPClient(cfg)

	req, err := client.newRequest(context.Background(), http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := client.do(req)
	require.NoError(t, err)
	resp.Body.Close()

	out := buf.String()
	require.Contains(t, out, "HTTP Request:")
	require.Contains(t, out, "[REDACTED]")
	require.NotContains(t, out, "topsecret")
	require.Contains(t, out, "HTTP Response:")
}

type bufferWriter struct {
	data []byte
}

func (b *bufferWriter) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}

func (b *bufferWriter) String() string {
	return string(b.data)
}
