package middleware

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/labstack/echo/v4"
)

// bindAndRestore decodes the JSON request body into v and then rewinds the
// body so the downstream handler can bind it again. Needed because the
// legacy purchase scheme carries its credential inside the body.
func bindAndRestore(c echo.Context, v interface{}) error {
	req := c.Request()
	data, err := io.ReadAll(req.Body)
	if err != nil {
		return err
	}
	req.Body = io.NopCloser(bytes.NewReader(data))
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
