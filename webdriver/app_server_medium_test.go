//go:build medium
// +build medium

package webdriver

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixtureServer(t *testing.T) {
	app, err := NewAppServer(context.Background(), "", true, nil)
	require.NoError(t, err)
	defer app.Close()

	for _, path := range []string{"/", "/home", "/grc/profile/support"} {
		res, err := http.Get(app.GetPortalURL(path))
		require.NoError(t, err)
		body, err := io.ReadAll(res.Body)
		res.Body.Close()
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode, path)
		assert.Contains(t, string(body), "Log into your account", path)
	}

	res, err := http.Get(app.GetPortalURL("/static/profile/Personal.svg"))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestNewAppServer_RemoteRequiresBaseURL(t *testing.T) {
	_, err := NewAppServer(context.Background(), "", false, nil)
	assert.Error(t, err)
}
