package client_test

import (
	"context"
	"github.com/cirruslabs/hashmap/internal/client"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUnexpectedStatus(t *testing.T) {
	ctx := context.Background()

	httpServer := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusInternalServerError)
		_, _ = writer.Write([]byte("database is on fire"))
	}))
	defer httpServer.Close()

	client := client.New(strings.TrimPrefix(httpServer.URL, "http://"))

	_, err := client.Get(ctx, "test")
	require.ErrorContains(t, err, "unexpected HTTP 500: database is on fire")

	require.ErrorContains(t, client.Set(ctx, "test", []byte("value")), "database is on fire")
	require.ErrorContains(t, client.Update(ctx, "test", []byte("value")), "database is on fire")
	require.ErrorContains(t, client.Delete(ctx, "test"), "database is on fire")
}

func TestKeyEscaping(t *testing.T) {
	ctx := context.Background()

	var requestURI string

	httpServer := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requestURI = request.RequestURI
		writer.WriteHeader(http.StatusNotFound)
	}))
	defer httpServer.Close()

	_, err := client.New(strings.TrimPrefix(httpServer.URL, "http://")).Get(ctx, "user 1")
	require.ErrorIs(t, err, client.ErrNotFound)
	require.Equal(t, "/api/map/user%201", requestURI)
}
