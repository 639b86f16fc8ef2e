package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"dbassistant/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Ask(t *testing.T) {
	var got models.AskRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, AskPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"question":"q","database":"chinook","data":{"title":"T","x_axis":"x","y_axis":"y","data":[{"label":"a","value":1}]}}`))
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	resp, err := c.Ask(context.Background(), models.AskRequest{Question: "q", Database: "chinook", MultipleCharts: true})
	require.NoError(t, err)

	assert.Equal(t, models.AskRequest{Question: "q", Database: "chinook", MultipleCharts: true}, got)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "T", resp.Data.Charts[0].Title)
}

func TestClient_AskApplicationFailureIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":"table not found","question":"q"}`))
	}))
	defer srv.Close()

	resp, err := New(srv.URL).Ask(context.Background(), models.AskRequest{Question: "q"})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "table not found", resp.Error)
}

func TestClient_FailureStatusCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Database 'sakila' not found"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Ask(context.Background(), models.AskRequest{Question: "q", Database: "sakila"})
	require.Error(t, err)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusBadRequest, te.StatusCode)
	assert.Equal(t, "Database 'sakila' not found", te.ServerMessage)
	assert.Equal(t, AskPath, te.Endpoint)
}

func TestClient_FailureStatusWithoutJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Databases(context.Background())
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Empty(t, te.ServerMessage)
	assert.Equal(t, http.StatusBadGateway, te.StatusCode)
}

func TestClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>oops</html>`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Ask(context.Background(), models.AskRequest{Question: "q"})
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusOK, te.StatusCode)
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url).Databases(context.Background())
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 0, te.StatusCode)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestClient_Databases(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DatabasesPath, r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`{"success":true,"databases":{"chinook":"Music","world":"Geo","imdb":"Movies"}}`))
	}))
	defer srv.Close()

	resp, err := New(srv.URL).Databases(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.Databases.Len())
}

func TestClient_Health(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, HealthPath, r.URL.Path)
		w.Write([]byte(`{"status":"healthy","message":"Backend is running"}`))
	}))
	defer srv.Close()

	resp, err := New(srv.URL).Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", resp.Status)
}

func TestClient_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(srv.URL).Ask(ctx, models.AskRequest{Question: "q"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestTransportError_Message(t *testing.T) {
	err := &TransportError{Endpoint: AskPath, StatusCode: 500, ServerMessage: "boom", Err: errors.New("unexpected status")}
	assert.Equal(t, "backend request /api/ask failed with status 500: boom: unexpected status", err.Error())
}
