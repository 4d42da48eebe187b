package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/justsurfingit/outreach-tracker/internal/dtos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/applications/", time.Second)
}

func TestClient_List(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/applications", r.URL.Path)
		w.Write([]byte(`{"success":true,"applications":[{"id":"a1","companyName":"Acme","founders":[{"name":"Ada"}]}]}`))
	})

	apps, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "a1", apps[0].ID)
	assert.Equal(t, "Ada", apps[0].Founders[0].Name)
}

func TestClient_UpdateField(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/applications/a1", r.URL.Path)
		b, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"comments":"hello"}`, string(b))
		w.Write([]byte(`{"success":true}`))
	})

	assert.NoError(t, c.UpdateField(context.Background(), "a1", "comments", "hello"))
}

func TestClient_ErrorTaxonomy(t *testing.T) {
	t.Run("non-2xx is a StatusError", func(t *testing.T) {
		c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})

		err := c.UpdateField(context.Background(), "a1", "comments", "x")
		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
		assert.Equal(t, "boom", se.Body)
		assert.Contains(t, err.Error(), "failed to update comments")
	})

	t.Run("success false is a BackendError", func(t *testing.T) {
		c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":false,"error":"nope"}`))
		})

		_, err := c.List(context.Background())
		var be *BackendError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, "nope", be.Message)
	})

	t.Run("success false without text uses the fallback", func(t *testing.T) {
		c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":false}`))
		})

		_, err := c.Delete(context.Background(), "a1")
		assert.EqualError(t, err, "Failed to delete application")
	})

	t.Run("unreachable server is a transport error", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		c := New(srv.URL+"/applications", time.Second)

		_, err := c.List(context.Background())
		assert.True(t, errors.Is(err, ErrTransport))
	})
}

func TestClient_CreateAndAction(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var req dtos.ApplicationCreationRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "New Company", req.CompanyName)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"success":true,"application":{"id":"n1","companyName":"New Company","status":"Applied"}}`))
		case http.MethodPatch:
			var req dtos.ActionRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, dtos.ActionFollowUp, req.Action)
			assert.Equal(t, dtos.TargetEmail, req.Target)
			w.Write([]byte(`{"success":true,"statusUpdated":true,"message":"sent"}`))
		}
	})

	app, err := c.Create(context.Background(), &dtos.ApplicationCreationRequest{CompanyName: "New Company"})
	require.NoError(t, err)
	assert.Equal(t, "n1", app.ID)

	resp, err := c.Action(context.Background(), "n1", dtos.ActionRequest{Action: dtos.ActionFollowUp, Target: dtos.TargetEmail})
	require.NoError(t, err)
	assert.True(t, resp.StatusUpdated)
	assert.Equal(t, "sent", resp.Message)
}
