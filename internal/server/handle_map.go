package server

import (
	"errors"
	"fmt"
	"github.com/cirruslabs/hashmap/internal/server/fail"
	"github.com/labstack/echo/v4"
	"io"
	"net/http"
	"net/url"
)

var errBodyTooLarge = errors.New("request body is too large")

func (server *Server) get(c echo.Context) error {
	key, err := keyParam(c)
	if err != nil {
		return fail.Fail(c, http.StatusBadRequest, "%v", err)
	}

	value, ok, err := server.hashMap.Get(c.Request().Context(), key)
	if err != nil {
		return fail.Fail(c, http.StatusInternalServerError, "%v", err)
	}

	if !ok {
		return c.NoContent(http.StatusNotFound)
	}

	return c.Blob(http.StatusOK, echo.MIMEOctetStream, value)
}

func (server *Server) set(c echo.Context) error {
	key, err := keyParam(c)
	if err != nil {
		return fail.Fail(c, http.StatusBadRequest, "%v", err)
	}

	value, err := server.readBody(c)
	if err != nil {
		return server.bodyFail(c, err)
	}

	if err := server.hashMap.Set(c.Request().Context(), key, value); err != nil {
		return fail.Fail(c, http.StatusInternalServerError, "%v", err)
	}

	return c.String(http.StatusAccepted, "OK")
}

func (server *Server) update(c echo.Context) error {
	key, err := keyParam(c)
	if err != nil {
		return fail.Fail(c, http.StatusBadRequest, "%v", err)
	}

	value, err := server.readBody(c)
	if err != nil {
		return server.bodyFail(c, err)
	}

	if err := server.hashMap.Update(c.Request().Context(), key, value); err != nil {
		return fail.Fail(c, http.StatusInternalServerError, "%v", err)
	}

	return c.String(http.StatusAccepted, "OK")
}

func (server *Server) delete(c echo.Context) error {
	key, err := keyParam(c)
	if err != nil {
		return fail.Fail(c, http.StatusBadRequest, "%v", err)
	}

	if err := server.hashMap.Delete(c.Request().Context(), key); err != nil {
		return fail.Fail(c, http.StatusInternalServerError, "%v", err)
	}

	return c.String(http.StatusAccepted, "OK")
}

// keyParam returns the decoded key. Echo matches routes against the escaped
// path whenever it differs from the decoded one, in which case the parameter
// is still escaped.
func keyParam(c echo.Context) (string, error) {
	key := c.Param("key")

	if c.Request().URL.RawPath == "" {
		return key, nil
	}

	unescapedKey, err := url.PathUnescape(key)
	if err != nil {
		return "", fmt.Errorf("malformed key %q: %w", key, err)
	}

	return unescapedKey, nil
}

func (server *Server) readBody(c echo.Context) ([]byte, error) {
	body := io.Reader(c.Request().Body)

	if server.bodyLimitBytes != 0 {
		// Read one byte past the limit to detect oversized bodies
		body = io.LimitReader(body, int64(server.bodyLimitBytes)+1)
	}

	value, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	if server.bodyLimitBytes != 0 && uint64(len(value)) > server.bodyLimitBytes {
		return nil, errBodyTooLarge
	}

	return value, nil
}

func (server *Server) bodyFail(c echo.Context, err error) error {
	if errors.Is(err, errBodyTooLarge) {
		return fail.Fail(c, http.StatusRequestEntityTooLarge, "%v, the limit is %d bytes",
			err, server.bodyLimitBytes)
	}

	return fail.Fail(c, http.StatusInternalServerError, "failed to read request body: %v", err)
}
