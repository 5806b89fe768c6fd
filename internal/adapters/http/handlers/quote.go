package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotekeeper/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotekeeper/internal/app"
	"github.com/jsamuelsen/quotekeeper/internal/domain"
)

// importFormField is the multipart field that carries an uploaded document.
const importFormField = "file"

// QuoteHandler handles quote-related HTTP endpoints.
type QuoteHandler struct {
	service *app.QuoteService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *app.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		service: service,
	}
}

// QuoteResponse is the HTTP response structure for a quote.
type QuoteResponse struct {
	Text     string `json:"text"`
	Category string `json:"category"`
	ID       string `json:"id,omitempty"`
}

// AddQuoteRequest is the body of POST /api/v1/quotes. Whitespace-only
// values are rejected by the service, not here.
type AddQuoteRequest struct {
	Text     string `json:"text" validate:"required,notblank"`
	Category string `json:"category" validate:"required,notblank"`
}

// SetFilterRequest is the body of PUT /api/v1/filter.
type SetFilterRequest struct {
	Category string `json:"category" validate:"required,notblank"`
}

// SelectionResponse carries a randomly selected quote. Quote is nil and
// Message is set when the category has nothing to show.
type SelectionResponse struct {
	Category string         `json:"category"`
	Quote    *QuoteResponse `json:"quote"`
	Message  string         `json:"message,omitempty"`
}

// CategoriesResponse lists the categories offered for filtering.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
	Selected   string   `json:"selected"`
}

// ImportResponse reports the outcome of an import.
type ImportResponse struct {
	Imported int `json:"imported"`
	Total    int `json:"total"`
}

func toQuoteResponse(q domain.Quote) QuoteResponse {
	return QuoteResponse{
		Text:     q.Text,
		Category: q.Category,
		ID:       q.ID,
	}
}

// selection renders the result of a random pick. ErrNoQuotes is a normal
// outcome and is reported with a message instead of an error status.
func selection(c *gin.Context, category string, quote domain.Quote, err error) {
	switch {
	case errors.Is(err, domain.ErrNoQuotes):
		c.JSON(http.StatusOK, SelectionResponse{
			Category: category,
			Message:  domain.NoQuotesMessage,
		})
	case err != nil:
		dto.HandleError(c, err)
	default:
		resp := toQuoteResponse(quote)
		c.JSON(http.StatusOK, SelectionResponse{
			Category: category,
			Quote:    &resp,
		})
	}
}

// RegisterRoutes registers the quote, category and filter endpoints.
func (h *QuoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.ListQuotes)
	quotes.POST("", h.AddQuote)
	quotes.GET("/random", h.RandomQuote)
	quotes.GET("/export", h.ExportQuotes)
	quotes.POST("/import", h.ImportQuotes)

	rg.GET("/categories", h.ListCategories)
	rg.GET("/filter", h.GetFilter)
	rg.PUT("/filter", h.SetFilter)
}

// ListQuotes handles GET /api/v1/quotes
// Returns the collection in insertion order, one page at a time.
//
// @Summary List quotes
// @Tags quotes
// @Produce json
// @Param cursor query string false "Opaque cursor from a previous page"
// @Param limit query int false "Page size (1-100)"
// @Success 200 {object} dto.PaginatedResponse[QuoteResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/quotes [get]
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	var page dto.PaginationRequest
	if err := dto.BindQueryAndValidate(c, &page); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithDetails(
			dto.ErrorCodeValidation,
			"invalid pagination parameters",
			dto.ValidationErrors(err),
		))

		return
	}

	resp, err := dto.Paginate(h.service.Quotes(), &page)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.MapPage(resp, toQuoteResponse))
}

// AddQuote handles POST /api/v1/quotes
// Adds a quote to the collection. The quote is pushed to the remote server
// in the background when pushing is enabled.
//
// @Summary Add a quote
// @Tags quotes
// @Accept json
// @Produce json
// @Param quote body AddQuoteRequest true "Quote to add"
// @Success 201 {object} QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/quotes [post]
func (h *QuoteHandler) AddQuote(c *gin.Context) {
	var req AddQuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	quote, err := h.service.AddQuote(c.Request.Context(), req.Text, req.Category)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toQuoteResponse(quote))
}

// RandomQuote handles GET /api/v1/quotes/random
// Returns a random quote from the requested category, or from the selected
// filter when no category is given.
//
// @Summary Get a random quote
// @Tags quotes
// @Produce json
// @Param category query string false "Category, or all"
// @Success 200 {object} SelectionResponse
// @Router /api/v1/quotes/random [get]
func (h *QuoteHandler) RandomQuote(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		category = h.service.SelectedCategory()
	}

	quote, err := h.service.RandomQuote(c.Request.Context(), category)
	selection(c, category, quote, err)
}

// ExportQuotes handles GET /api/v1/quotes/export
// Returns the collection as a downloadable quotes document.
//
// @Summary Export quotes
// @Tags quotes
// @Produce json
// @Success 200 {array} QuoteResponse
// @Router /api/v1/quotes/export [get]
func (h *QuoteHandler) ExportQuotes(c *gin.Context) {
	data, err := h.service.Export(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+domain.DocumentFilename+`"`)
	c.Data(http.StatusOK, "application/json", data)
}

// ImportQuotes handles POST /api/v1/quotes/import
// Appends every quote of a quotes document. The document is either the raw
// request body or the multipart form field "file".
//
// @Summary Import quotes
// @Tags quotes
// @Accept json,mpfd
// @Produce json
// @Success 200 {object} ImportResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/quotes/import [post]
func (h *QuoteHandler) ImportQuotes(c *gin.Context) {
	data, err := readDocument(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeBadRequest, err.Error()))
		return
	}

	n, err := h.service.Import(c.Request.Context(), data)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ImportResponse{Imported: n, Total: h.service.Len()})
}

// readDocument returns the uploaded document from a multipart form or the
// raw body.
func readDocument(c *gin.Context) ([]byte, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return io.ReadAll(c.Request.Body)
	}

	header, err := c.FormFile(importFormField)
	if err != nil {
		return nil, err
	}

	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

// ListCategories handles GET /api/v1/categories
// Returns "all" followed by the distinct categories in first-seen order.
//
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {object} CategoriesResponse
// @Router /api/v1/categories [get]
func (h *QuoteHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, CategoriesResponse{
		Categories: h.service.Categories(),
		Selected:   h.service.SelectedCategory(),
	})
}

// GetFilter handles GET /api/v1/filter
// Returns the selected category with a fresh random quote from it.
//
// @Summary Get the selected filter
// @Tags filter
// @Produce json
// @Success 200 {object} SelectionResponse
// @Router /api/v1/filter [get]
func (h *QuoteHandler) GetFilter(c *gin.Context) {
	category := h.service.SelectedCategory()

	quote, err := h.service.RandomQuote(c.Request.Context(), category)
	selection(c, category, quote, err)
}

// SetFilter handles PUT /api/v1/filter
// Stores the selected category and returns a random quote from it.
//
// @Summary Change the selected filter
// @Tags filter
// @Accept json
// @Produce json
// @Param filter body SetFilterRequest true "Category to select"
// @Success 200 {object} SelectionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/filter [put]
func (h *QuoteHandler) SetFilter(c *gin.Context) {
	var req SetFilterRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	quote, err := h.service.SetFilter(c.Request.Context(), req.Category)
	selection(c, req.Category, quote, err)
}

// respondBindError writes a 400 for a request body that failed binding or
// struct validation.
func respondBindError(c *gin.Context, err error) {
	if fields := dto.ValidationErrors(err); len(fields) > 0 {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithDetails(
			dto.ErrorCodeValidation,
			"request validation failed",
			fields,
		))

		return
	}

	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeBadRequest, "invalid request body"))
}
