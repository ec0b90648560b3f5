package steam

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"steamsync-api/internal/cache"
)

func newTestClient(t *testing.T, h http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return NewClient(Config{
		APIKey:       "test-key",
		APIBaseURL:   srv.URL,
		StoreBaseURL: srv.URL,
		CommunityURL: srv.URL,
		Timeout:      2 * time.Second,
		GameCacheTTL: time.Hour,
	}, opts...)
}

func TestFetchProfile(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ISteamUser/GetPlayerSummaries/v0002/", r.URL.Path)
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"response":{"players":[{
			"steamid":"76561197960287930",
			"personaname":"Rabscuttle",
			"profileurl":"https://steamcommunity.com/id/rabscuttle/",
			"avatar":"https://avatars.example/a.jpg",
			"personastate":"1",
			"communityvisibilitystate":3,
			"timecreated":1063407589,
			"loccountrycode":"US",
			"gameextrainfo":"Team Fortress 2",
			"gameid":"440"
		}]}}`))
	}))

	snap, err := c.FetchProfile(context.Background(), "76561197960287930")
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "key=test-key")
	assert.Contains(t, gotQuery, "steamids=76561197960287930")
	assert.Equal(t, "76561197960287930", snap.SteamID)
	assert.Equal(t, "Rabscuttle", snap.Username)
	assert.Equal(t, 1, snap.PersonaState)
	assert.Equal(t, 3, snap.Visibility)
	assert.Equal(t, time.Unix(1063407589, 0).UTC(), snap.CreatedAt)
	require.NotNil(t, snap.Country)
	assert.Equal(t, "US", *snap.Country)
	require.NotNil(t, snap.GameID)
	assert.Equal(t, "440", *snap.GameID)
	require.NotNil(t, snap.GameName)
	assert.Equal(t, "Team Fortress 2", *snap.GameName)
}

func TestFetchProfile_OptionalFieldsAbsent(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"players":[{"steamid":"1","personaname":"p","personastate":0,"communityvisibilitystate":"1"}]}}`))
	}))

	snap, err := c.FetchProfile(context.Background(), "1")
	require.NoError(t, err)
	assert.Nil(t, snap.Country)
	assert.Nil(t, snap.GameID)
	assert.Nil(t, snap.GameName)
	assert.True(t, snap.CreatedAt.IsZero())
}

func TestFetchProfile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"no players", 200, `{"response":{"players":[]}}`, ErrProfileNotFound},
		{"server error", 500, `oops`, ErrUnreachable},
		{"unauthorized key", 403, `forbidden`, ErrUnreachable},
		{"float persona state", 200, `{"response":{"players":[{"steamid":"1","personastate":1.5}]}}`, ErrMalformedResponse},
		{"word persona state", 200, `{"response":{"players":[{"steamid":"1","personastate":"online"}]}}`, ErrMalformedResponse},
		{"not json", 200, `<html>`, ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			_, err := c.FetchProfile(context.Background(), "1")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFetchProfile_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	c := NewClient(Config{APIKey: "secret-key", APIBaseURL: srv.URL, Timeout: 50 * time.Millisecond})

	_, err := c.FetchProfile(context.Background(), "1")
	require.ErrorIs(t, err, ErrUnreachable)
	assert.True(t, IsRetryable(err))
	assert.NotContains(t, err.Error(), "secret-key")
}

func TestFetchGame(t *testing.T) {
	var calls atomic.Int32
	mem := cache.NewMemoryCache(time.Hour)
	t.Cleanup(func() { _ = mem.Close() })

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/api/appdetails", r.URL.Path)
		assert.Equal(t, "440", r.URL.Query().Get("appids"))
		_, _ = w.Write([]byte(`{"440":{"success":true,"data":{
			"name":"Team Fortress 2",
			"steam_appid":440,
			"short_description":"Nine distinct classes.",
			"header_image":"https://cdn.example/440/header.jpg",
			"screenshots":[{"id":0,"path_full":"https://cdn.example/1.jpg"},{"id":1,"path_full":"https://cdn.example/2.jpg"}]
		}}}`))
	}), WithCache(mem))

	snap, err := c.FetchGame(context.Background(), "440")
	require.NoError(t, err)
	assert.Equal(t, "440", snap.AppID)
	assert.Equal(t, "Team Fortress 2", snap.Name)
	assert.Equal(t, []string{"https://cdn.example/1.jpg", "https://cdn.example/2.jpg"}, snap.Screenshots)

	again, err := c.FetchGame(context.Background(), "440")
	require.NoError(t, err)
	assert.Equal(t, snap, again)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchGame_NotFound(t *testing.T) {
	bodies := map[string]string{
		"missing key":     `{}`,
		"success false":   `{"999":{"success":false}}`,
		"data null":       `{"999":{"success":true,"data":null}}`,
		"empty data list": `{"999":{"success":false,"data":[]}}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			_, err := c.FetchGame(context.Background(), "999")
			assert.ErrorIs(t, err, ErrGameNotFound)
		})
	}
}

func TestFetchGame_FailuresNotCached(t *testing.T) {
	var calls atomic.Int32
	mem := cache.NewMemoryCache(time.Hour)
	t.Cleanup(func() { _ = mem.Close() })

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}), WithCache(mem))

	_, err := c.FetchGame(context.Background(), "440")
	require.ErrorIs(t, err, ErrUnreachable)
	_, err = c.FetchGame(context.Background(), "440")
	require.ErrorIs(t, err, ErrUnreachable)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 0, mem.Len())
}

const inventoryBody = `{
	"assets":[{"appid":440,"contextid":"2","assetid":"1","classid":"101","instanceid":"0","amount":"1"}],
	"descriptions":[
		{"appid":440,"classid":"101","icon_url":"icon-a","name":"Mann Co. Key","name_color":"7D6D00","type":"Tool",
		 "descriptions":[{"type":"html","value":"Used to open crates"},{"type":"html","name":"description","value":"Opens a locked crate"}]},
		{"appid":"440","classid":102,"icon_url":"icon-b","name":"Refined Metal","name_color":"7D6D00","type":"Craft Item"},
		{"appid":"four forty","classid":"103","name":"Broken"},
		{"appid":440,"name":"No Class"}
	],
	"total_inventory_count":3,
	"success":1,
	"rwgrsn":-2
}`

func TestFetchInventory(t *testing.T) {
	var gotPath string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "english", r.URL.Query().Get("l"))
		assert.Equal(t, "2000", r.URL.Query().Get("count"))
		_, _ = w.Write([]byte(inventoryBody))
	}))

	snap, err := c.FetchInventory(context.Background(), "76561197960287930", "440")
	require.NoError(t, err)

	assert.Equal(t, "/inventory/76561197960287930/440/2", gotPath)
	assert.Equal(t, 2, snap.ContextID)
	assert.Equal(t, int64(3), snap.TotalCount)
	require.Len(t, snap.Items, 2)
	assert.Equal(t, "101", snap.Items[0].ClassID)
	assert.Equal(t, "440", snap.Items[0].AppID)
	assert.Len(t, snap.Items[0].Fragments, 2)
	assert.Equal(t, "102", snap.Items[1].ClassID)
	assert.Empty(t, snap.Items[1].Fragments)

	require.Len(t, snap.Rejected, 2)
	assert.Equal(t, 2, snap.Rejected[0].Index)
	assert.ErrorIs(t, snap.Rejected[0].Err, ErrMalformedResponse)
	assert.Equal(t, 3, snap.Rejected[1].Index)
}

func TestFetchInventory_CommunityContext(t *testing.T) {
	var gotPath string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"total_inventory_count":0,"success":1}`))
	}))

	snap, err := c.FetchInventory(context.Background(), "76561197960287930", "753")
	require.NoError(t, err)
	assert.Equal(t, "/inventory/76561197960287930/753/6", gotPath)
	assert.Empty(t, snap.Items)
}

func TestFetchInventory_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"private", 403, `null`, ErrInventoryUnavailable},
		{"null body", 200, `null`, ErrInventoryUnavailable},
		{"unsuccessful", 200, `{"success":0}`, ErrInventoryUnavailable},
		{"string success", 200, `{"success":"2"}`, ErrInventoryUnavailable},
		{"rate limited", 429, ``, ErrUnreachable},
		{"server error", 502, ``, ErrUnreachable},
		{"bad success", 200, `{"success":"yes"}`, ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			_, err := c.FetchInventory(context.Background(), "1", "440")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
