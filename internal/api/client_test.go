package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobidic/webide/pkg/types"
)

func TestTreeReturnsRawPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/files/project/p1/tree", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"name":"src","type":"FOLDER","parentId":null}]`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	raw, err := c.Tree(context.Background(), "p1")
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(raw, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "src", records[0]["name"])
}

func TestAuthorizationHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("t0ken"))
	_, err := c.MyProjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer t0ken", gotAuth)
}

func TestGetRetriesOnServerError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"fileId":"f1","content":"x","version":2}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	content, err := c.Latest(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, 2, content.Version)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestGetDoesNotRetryClientError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Latest(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "404 must not be retried")
}

func TestMutationErrorsAreFetchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.CreateNode(context.Background(), CreateNodeRequest{
		ProjectID: "p1",
		Name:      "a.py",
		Kind:      types.KindFile,
	})
	require.Error(t, err)
	assert.True(t, IsFetchError(err))
}

func TestChatEnvelopeUnwrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":200,"message":"ok","data":[{"id":"r1","name":"project-1"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	rooms, err := c.ChatRooms(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "project-1", rooms[0].Name)
}

func TestSaveContentPostsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "f1", body["fileId"])
		assert.Equal(t, "print(1)", body["content"])
		w.Write([]byte(`{"fileId":"f1","content":"print(1)","version":5}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	saved, err := c.SaveContent(context.Background(), "f1", "print(1)")
	require.NoError(t, err)
	assert.Equal(t, 5, saved.Version)
}
