package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/labstack/echo/v4"

	"wirsuchen.de/backend/internal/language"
)

const maxBodyBytes = 1 << 20

// decodeJSONBody reads exactly one JSON object and rejects unknown fields.
func decodeJSONBody(c echo.Context, dest any) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("could not read request body")
	}
	if len(body) > maxBodyBytes {
		return fmt.Errorf("request body is too large")
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return fmt.Errorf("request body is required")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %v", err)
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}

// requestLanguage resolves the viewer language from lang, then locale, then
// the first Accept-Language entry.
func requestLanguage(c echo.Context) string {
	accept := c.Request().Header.Get("Accept-Language")
	if cut := strings.IndexAny(accept, ",;"); cut >= 0 {
		accept = accept[:cut]
	}
	return language.Resolve(c.QueryParam("lang"), c.QueryParam("locale"), accept)
}
