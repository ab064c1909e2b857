package http

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewServer_WriteTimeoutCoversFetch(t *testing.T) {
	for _, fetch := range []time.Duration{5 * time.Second, 15 * time.Second, 45 * time.Second, 2 * time.Minute} {
		srv := NewServer(":0", nil, fetch, slog.Default())
		assert.Greater(t, srv.httpServer.WriteTimeout, fetch, "fetch timeout %s", fetch)
		assert.Equal(t, fetch+writeMargin, srv.httpServer.WriteTimeout)
	}
}
