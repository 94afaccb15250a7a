package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

var ErrNotFound = errors.New("key not found")

type Client struct {
	addr       string
	httpClient *http.Client
}

func New(addr string, opts ...Option) *Client {
	client := &Client{
		addr:       addr,
		httpClient: http.DefaultClient,
	}

	// Apply options
	for _, opt := range opts {
		opt(client)
	}

	return client
}

func (client *Client) Get(ctx context.Context, key string) ([]byte, error) {
	response, err := client.do(ctx, http.MethodGet, key, nil)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	switch response.StatusCode {
	case http.StatusOK:
		// All good, continue
	case http.StatusNotFound:
		// Key does not exist
		return nil, ErrNotFound
	default:
		// Unexpected status code
		return nil, unexpectedStatus(response)
	}

	return io.ReadAll(response.Body)
}

func (client *Client) Set(ctx context.Context, key string, value []byte) error {
	return client.write(ctx, http.MethodPost, key, value)
}

func (client *Client) Update(ctx context.Context, key string, value []byte) error {
	return client.write(ctx, http.MethodPut, key, value)
}

func (client *Client) Delete(ctx context.Context, key string) error {
	return client.write(ctx, http.MethodDelete, key, nil)
}

func (client *Client) write(ctx context.Context, method string, key string, value []byte) error {
	var body io.Reader

	if value != nil {
		body = bytes.NewReader(value)
	}

	response, err := client.do(ctx, method, key, body)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	// Handle unexpected status code
	if response.StatusCode != http.StatusAccepted {
		return unexpectedStatus(response)
	}

	return nil
}

func (client *Client) do(ctx context.Context, method string, key string, body io.Reader) (*http.Response, error) {
	request, err := http.NewRequestWithContext(ctx, method, client.url(key), body)
	if err != nil {
		return nil, err
	}

	if body != nil {
		request.Header.Set("Content-Type", "application/octet-stream")
	}

	return client.httpClient.Do(request)
}

func (client *Client) url(key string) string {
	return fmt.Sprintf("http://%s/api/map/%s", client.addr, url.PathEscape(key))
}

func unexpectedStatus(response *http.Response) error {
	message, _ := io.ReadAll(io.LimitReader(response.Body, 4096))

	if len(message) == 0 {
		return fmt.Errorf("unexpected HTTP %d", response.StatusCode)
	}

	return fmt.Errorf("unexpected HTTP %d: %s", response.StatusCode, message)
}
