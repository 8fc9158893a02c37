package httpapi

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"wirsuchen.de/backend/internal/content"
	"wirsuchen.de/backend/internal/language"
	"wirsuchen.de/backend/internal/translation"
)

const maxTranslateTexts = 100

type translateRequest struct {
	Texts          []string `json:"texts"`
	TargetLanguage string   `json:"targetLanguage"`
	SourceLanguage string   `json:"sourceLanguage"`
}

type detectRequest struct {
	Text string `json:"text"`
}

type bulkRequest struct {
	BatchSize int    `json:"batchSize"`
	Offset    int    `json:"offset"`
	Type      string `json:"type"`
	Force     bool   `json:"force"`
}

// handleTranslate never fails on provider errors: untranslated texts come
// back unchanged and complete is false.
func (s *Server) handleTranslate(c echo.Context) error {
	var req translateRequest
	if err := decodeJSONBody(c, &req); err != nil {
		return failValidation(c, map[string]string{"body": err.Error()})
	}

	fieldErrors := map[string]string{}
	target := language.NormalizeCode(req.TargetLanguage)
	if !language.IsSupported(target) {
		fieldErrors["targetLanguage"] = "must be one of " + strings.Join(language.Supported(), ", ")
	}
	source := language.NormalizeCode(req.SourceLanguage)
	if req.SourceLanguage != "" && !language.IsSupported(source) {
		fieldErrors["sourceLanguage"] = "must be one of " + strings.Join(language.Supported(), ", ")
	}
	if len(req.Texts) == 0 {
		fieldErrors["texts"] = "is required"
	} else if len(req.Texts) > maxTranslateTexts {
		fieldErrors["texts"] = "must contain at most 100 entries"
	}
	if len(fieldErrors) > 0 {
		return failValidation(c, fieldErrors)
	}

	translations, err := s.deps.Translations.TranslateTexts(c.Request().Context(), req.Texts, target, source)
	if err != nil {
		s.logger.Warn().Err(err).Str("target_lang", target).Int("texts", len(req.Texts)).Msg("translate request served partially")
	}
	return success(c, map[string]any{
		"translations":   translations,
		"targetLanguage": target,
		"sourceLanguage": source,
		"complete":       err == nil,
	})
}

func (s *Server) handleDetectLanguage(c echo.Context) error {
	var req detectRequest
	if err := decodeJSONBody(c, &req); err != nil {
		return failValidation(c, map[string]string{"body": err.Error()})
	}
	if strings.TrimSpace(req.Text) == "" {
		return failValidation(c, map[string]string{"text": "is required"})
	}

	code := s.deps.Translations.DetectLanguage(req.Text)
	return success(c, map[string]any{
		"language": code,
		"label":    language.Label(code),
	})
}

func (s *Server) handleTranslationStatus(c echo.Context) error {
	ctx := c.Request().Context()

	if contentID := strings.TrimSpace(c.QueryParam("content_id")); contentID != "" {
		coverage, err := s.deps.Translations.ItemCoverage(ctx, contentID)
		if err != nil {
			if errors.Is(err, content.ErrContentIDMalformed) {
				return failValidation(c, map[string]string{"content_id": "must look like <type>-<source>-<id>"})
			}
			s.logger.Error().Err(err).Str("content_id", contentID).Msg("query item translation coverage failed")
			return internalError(c, "Failed to load translation status")
		}
		return success(c, coverage)
	}

	detailed, err := parseBoolFlag(c.QueryParam("detailed"))
	if err != nil {
		return failValidation(c, map[string]string{"detailed": err.Error()})
	}
	report, err := s.deps.Translations.Coverage(ctx, detailed)
	if err != nil {
		s.logger.Error().Err(err).Msg("query translation coverage failed")
		return internalError(c, "Failed to load translation status")
	}
	return success(c, report)
}

func (s *Server) handleBulkTranslate(c echo.Context) error {
	var req bulkRequest
	if err := decodeJSONBody(c, &req); err != nil {
		return failValidation(c, map[string]string{"body": err.Error()})
	}

	fieldErrors := map[string]string{}
	if req.BatchSize < 0 || req.BatchSize > maxPageSize {
		fieldErrors["batchSize"] = "must be between 1 and 100, or 0 for the default"
	}
	if req.Offset < 0 {
		fieldErrors["offset"] = "must be >= 0"
	}
	contentType := content.TypeJob
	if strings.TrimSpace(req.Type) != "" {
		parsed, err := content.ParseType(req.Type)
		if err != nil {
			fieldErrors["type"] = "must be one of job, deal, blog"
		}
		contentType = parsed
	}
	if len(fieldErrors) > 0 {
		return failValidation(c, fieldErrors)
	}

	stats, err := s.deps.Translations.BulkTranslate(c.Request().Context(), translation.BulkOptions{
		Type:      contentType,
		BatchSize: req.BatchSize,
		Offset:    req.Offset,
		Force:     req.Force,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("content_type", string(contentType)).Int("offset", req.Offset).Msg("bulk translation failed")
		return internalError(c, "Bulk translation failed")
	}
	return success(c, stats)
}

func (s *Server) handleCacheStats(c echo.Context) error {
	if s.deps.Cache == nil {
		return failNotFound(c, "Translation cache is not configured")
	}
	stats, err := s.deps.Cache.Stats(c.Request().Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("query cache stats failed")
		return internalError(c, "Failed to load cache stats")
	}
	return success(c, stats)
}

func (s *Server) handleCacheClear(c echo.Context) error {
	if s.deps.Cache == nil {
		return failNotFound(c, "Translation cache is not configured")
	}
	if err := s.deps.Cache.Clear(c.Request().Context()); err != nil {
		s.logger.Error().Err(err).Msg("clear translation cache failed")
		return internalError(c, "Failed to clear cache")
	}
	s.logger.Info().Msg("translation cache cleared")
	return success(c, map[string]any{"cleared": true})
}
