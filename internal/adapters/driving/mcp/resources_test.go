package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestHandleSettingsResource(t *testing.T) {
	s, _, settings := newTestServer()
	settings.settings.MaxGap = 7
	settings.settings.WholeWord = true

	res, err := s.handleSettingsResource(context.Background(), readRequest("proxsearch://settings"))
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Equal(t, "application/json", res.Contents[0].MIMEType)

	var view settingsView
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &view))
	assert.Equal(t, 7, view.MaxGap)
	assert.True(t, view.WholeWord)
	assert.Equal(t, "chars", view.GapUnit)
	assert.Equal(t, []string{"zerowidth", "whitespace"}, view.Preprocess)
	assert.Equal(t, int64(500), view.WatchIntervalMS)
}

func TestHandleSettingsResource_Error(t *testing.T) {
	s, _, settings := newTestServer()
	settings.err = errors.New("boom")

	_, err := s.handleSettingsResource(context.Background(), readRequest("proxsearch://settings"))

	assert.Error(t, err)
}

func TestHandleSettingResource(t *testing.T) {
	s, _, settings := newTestServer()
	settings.values = map[string]string{"search.max_gap": "12"}

	tests := []struct {
		name     string
		uri      string
		want     string
		notFound bool
	}{
		{name: "known key", uri: "proxsearch://settings/search.max_gap", want: "12"},
		{name: "unknown key", uri: "proxsearch://settings/nope", notFound: true},
		{name: "empty key", uri: "proxsearch://settings/", notFound: true},
		{name: "wrong scheme", uri: "other://settings/search.max_gap", notFound: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.handleSettingResource(context.Background(), readRequest(tt.uri))
			if tt.notFound {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Contents[0].Text)
			assert.Equal(t, "text/plain", res.Contents[0].MIMEType)
		})
	}
}

func TestExtractSettingKey(t *testing.T) {
	assert.Equal(t, "search.max_gap", extractSettingKey("proxsearch://settings/search.max_gap"))
	assert.Equal(t, "", extractSettingKey("proxsearch://settings"))
}
