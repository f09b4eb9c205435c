package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"lang_portal/export"
	"lang_portal/generator"
	"lang_portal/portal"
)

const headerGenerationID = "X-Generation-Id"

// --- API ---

// handleGenerate relays the parsed model output unchanged.
func (s *Server) handleGenerate(c echo.Context) error {
	var req generator.Request
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	gen, _, err := s.generate(c, req.Category)
	if err != nil {
		return s.mapError(c, err)
	}
	c.Response().Header().Set(headerGenerationID, gen.ID)
	return c.JSONBlob(http.StatusOK, gen.Items)
}

func (s *Server) handleGetGeneration(c echo.Context) error {
	gen, ok := s.store.get(c.Param("id"))
	if !ok {
		return s.mapError(c, ErrGenerationNotFound)
	}
	return c.JSON(http.StatusOK, gen)
}

// handleDownload serves the vocabulary.json attachment, pretty-printed with
// two-space indentation.
func (s *Server) handleDownload(c echo.Context) error {
	gen, ok := s.store.get(c.Param("id"))
	if !ok {
		return s.mapError(c, ErrGenerationNotFound)
	}
	data, err := export.PrettyJSON(gen.Items)
	if err != nil {
		return s.mapError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", export.FileName))
	return c.Blob(http.StatusOK, export.ContentType, data)
}

// generate runs one generation and stores it for lookup and download.
func (s *Server) generate(c echo.Context, category string) (generator.Generation, generator.Result, error) {
	res, err := s.gen.Generate(c.Request().Context(), category)
	if err != nil {
		return generator.Generation{}, generator.Result{}, err
	}
	gen := generator.Generation{
		ID:        uuid.NewString(),
		Category:  res.Category,
		Model:     res.Model,
		Items:     res.Raw,
		CreatedAt: time.Now().UTC(),
	}
	s.store.add(gen)
	s.logger.Debug().
		Str("request_id", requestID(c)).
		Str("generation_id", gen.ID).
		Str("category", category).
		Int("items", len(res.Items)).
		Msg("vocabulary generated")
	return gen, res, nil
}

// --- Vocabulary generator page ---

type vocabularyView struct {
	layoutView
	Category     string
	Items        []generator.VocabularyItem
	JSON         string
	GenerationID string
	DownloadName string
	Error        string
}

func (s *Server) handleVocabularyPage(c echo.Context) error {
	return c.Render(http.StatusOK, "vocabulary.html", s.vocabularyView(c))
}

// handleVocabularySubmit is the form fallback used without JavaScript.
func (s *Server) handleVocabularySubmit(c echo.Context) error {
	view := s.vocabularyView(c)
	view.Category = c.FormValue("category")

	gen, res, err := s.generate(c, view.Category)
	if err != nil {
		s.logger.Error().Err(err).Str("request_id", requestID(c)).Msg("error generating vocabulary")
		view.Error = generateFailure
		return c.Render(http.StatusInternalServerError, "vocabulary.html", view)
	}

	pretty, err := export.PrettyJSON(gen.Items)
	if err != nil {
		return s.mapError(c, err)
	}
	view.JSON = string(pretty)
	view.GenerationID = gen.ID
	// nil unless the whole output has the vocabulary shape; the table stays empty.
	view.Items = res.Items
	return c.Render(http.StatusOK, "vocabulary.html", view)
}

func (s *Server) vocabularyView(c echo.Context) vocabularyView {
	return vocabularyView{
		layoutView:   newLayoutView("Vocabulary Generator", c.Request().URL.Path),
		DownloadName: export.FileName,
	}
}

// --- Portal pages ---

type layoutView struct {
	Title string
	Path  string
	Nav   []portal.NavItem
}

func newLayoutView(title, path string) layoutView {
	return layoutView{Title: title, Path: path, Nav: portal.Navigation}
}

type pageView struct {
	layoutView
	Page portal.Page
}

func (s *Server) handleIndex(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/dashboard")
}

func (s *Server) handlePage(c echo.Context) error {
	key := c.Param("page")
	if key == portal.NotFoundKey || portal.HasDetail(key) {
		return s.handleNotFound(c)
	}
	return s.renderPage(c, key, "")
}

func (s *Server) handleDetailPage(c echo.Context) error {
	key := c.Param("page")
	if !portal.HasDetail(key) {
		return s.handleNotFound(c)
	}
	return s.renderPage(c, key, c.Param("id"))
}

func (s *Server) handleNotFound(c echo.Context) error {
	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	}
	page, err := s.portal.Render(portal.NotFoundKey, "")
	if err != nil {
		return err
	}
	view := pageView{layoutView: newLayoutView(page.Title, c.Request().URL.Path), Page: page}
	return c.Render(http.StatusNotFound, "page.html", view)
}

func (s *Server) renderPage(c echo.Context, key, id string) error {
	page, err := s.portal.Render(key, id)
	if errors.Is(err, portal.ErrPageNotFound) {
		return s.handleNotFound(c)
	}
	if err != nil {
		return err
	}
	view := pageView{layoutView: newLayoutView(page.Title, portal.NavPath(key)), Page: page}
	return c.Render(http.StatusOK, "page.html", view)
}
