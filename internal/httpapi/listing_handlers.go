package httpapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"wirsuchen.de/backend/internal/content"
	"wirsuchen.de/backend/internal/db"
	"wirsuchen.de/backend/internal/language"
	"wirsuchen.de/backend/internal/listing"
)

type languageOption struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

func (s *Server) handleListing(t content.Type) echo.HandlerFunc {
	return func(c echo.Context) error {
		page, err := parsePositiveInt(c.QueryParam("page"), 1, 1, 1_000_000)
		if err != nil {
			return failValidation(c, map[string]string{"page": err.Error()})
		}
		limit, err := parsePositiveInt(c.QueryParam("limit"), defaultPageSize, 1, maxPageSize)
		if err != nil {
			return failValidation(c, map[string]string{"limit": err.Error()})
		}

		filter := db.ListingFilter{
			Type:     t,
			Language: requestLanguage(c),
			Search:   strings.TrimSpace(c.QueryParam("q")),
			Location: strings.TrimSpace(c.QueryParam("location")),
			Category: strings.TrimSpace(strings.ToLower(c.QueryParam("category"))),
		}

		result, err := s.deps.Listings.FetchPage(c.Request().Context(), listing.Request{
			Filter: filter,
			Page:   page,
			Limit:  limit,
		})
		if err != nil {
			s.logger.Error().Err(err).Str("content_type", string(t)).Str("lang", filter.Language).Msg("query listing failed")
			return internalError(c, "Failed to load listing")
		}

		return success(c, map[string]any{
			"items":      result.Items,
			"sources":    result.Sources,
			"pagination": result.Pagination,
			"language":   filter.Language,
			"filters": map[string]any{
				"q":        filter.Search,
				"location": filter.Location,
				"category": filter.Category,
			},
		})
	}
}

func (s *Server) handleLanguages(c echo.Context) error {
	codes := language.Supported()
	items := make([]languageOption, 0, len(codes))
	for _, code := range codes {
		items = append(items, languageOption{Code: code, Label: language.Label(code)})
	}
	return success(c, map[string]any{
		"items":   items,
		"default": language.Default,
	})
}
