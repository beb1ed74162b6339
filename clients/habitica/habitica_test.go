package habitica

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHabits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tasks/user", r.URL.Path)
		assert.Equal(t, "habits", r.URL.Query().Get("type"))
		assert.Equal(t, "user-1", r.Header.Get("x-api-user"))
		assert.Equal(t, "key-1", r.Header.Get("x-api-key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[
			{"id":"h1","text":"Read","type":"habit","notes":"Goal: 3","up":true},
			{"id":"h2","text":"Walk","type":"habit","notes":""}
		]}`))
	}))
	defer srv.Close()

	c := NewClient("user-1", "key-1")
	c.BaseURL = srv.URL
	c.HTTP = srv.Client()

	habits, err := c.GetHabits(context.Background())
	require.NoError(t, err)
	require.Len(t, habits, 2)
	assert.Equal(t, "Read", habits[0].Text)
	assert.True(t, habits[0].Up)
}

func TestGetDailys(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "dailys", r.URL.Query().Get("type"))
		assert.Equal(t, "2024-03-15", r.URL.Query().Get("dueDate"))
		_, _ = w.Write([]byte(`{"success":true,"data":[
			{"id":"d1","text":"Stretch","type":"daily","isDue":true,"streak":4,"repeat":{"m":true,"f":true}},
			{"id":"d2","text":"Laundry","type":"daily","isDue":false,"repeat":{"su":true}}
		]}`))
	}))
	defer srv.Close()

	c := NewClient("u", "k")
	c.BaseURL = srv.URL

	dailys, err := c.GetDailys(context.Background(), "2024-03-15")
	require.NoError(t, err)
	require.Len(t, dailys, 2)
	assert.True(t, dailys[0].IsDue)
	assert.Equal(t, 4, dailys[0].Streak)
	assert.Equal(t, Repeat{Mon: true, Fri: true}, dailys[0].Repeat)
	assert.False(t, dailys[1].IsDue)
	assert.True(t, dailys[1].Repeat.Sun)
}

func TestGetDailysError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"error":"NotAuthorized","message":"bad key"}`))
	}))
	defer srv.Close()

	c := NewClient("u", "k")
	c.BaseURL = srv.URL

	_, err := c.GetDailys(context.Background(), "")
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "NotAuthorized", apiErr.ErrorCode)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Response.StatusCode)
}

func TestParseGoal(t *testing.T) {
	tests := []struct {
		notes string
		want  int
		ok    bool
	}{
		{"Goal: 3", 3, true},
		{"some notes\nGoal:5", 5, true},
		{"Goal: zero", 0, false},
		{"Goal: -1", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := Task{Notes: tt.notes}.ParseGoal()
		assert.Equal(t, tt.want, got, tt.notes)
		assert.Equal(t, tt.ok, ok, tt.notes)
	}
}
