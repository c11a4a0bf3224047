package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/duynguyendang/pdfdesk/pkg/common/errors"
	"github.com/duynguyendang/pdfdesk/pkg/loader"
)

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// ChatResponse is the reply of POST /chat.
type ChatResponse struct {
	Response string `json:"response"`
	PDFCount int    `json:"pdf_count"`
}

// PDFListResponse is the reply of GET /pdfs.
type PDFListResponse struct {
	PDFs  []string `json:"pdfs"`
	Count int      `json:"count"`
}

// LoadPDFRequest is the body of POST /pdfs. Exactly one of URL and
// Base64Data must be set; Identifier is required with Base64Data.
type LoadPDFRequest struct {
	URL        string `json:"url"`
	Base64Data string `json:"base64_data"`
	Identifier string `json:"identifier"`
}

// LoadPDFResponse is the envelope for every mutating cache operation.
type LoadPDFResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Identifier string `json:"identifier,omitempty"`
}

// HealthResponse is the reply of GET /health.
type HealthResponse struct {
	Status           string `json:"status"`
	AgentInitialized bool   `json:"agent_initialized"`
	PDFCount         int    `json:"pdf_count"`
}

// healthCheck never fails: it reports status even with zero documents cached
// and the agent not yet constructed.
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:           "healthy",
		AgentInitialized: s.agentInitialized(),
		PDFCount:         s.store.Len(),
	})
}

// handleChat forwards a message to the analysis agent.
func (s *Server) handleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, fmt.Errorf("%w: %v", apperrors.ErrValidation, err))
		return
	}

	a, err := s.getAgent(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	answer, err := a.Ask(c.Request.Context(), req.Message)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ChatResponse{
		Response: answer,
		PDFCount: s.store.Len(),
	})
}

// handleListPDFs returns the cached identifiers.
func (s *Server) handleListPDFs(c *gin.Context) {
	ids := s.store.List()
	c.JSON(http.StatusOK, PDFListResponse{PDFs: ids, Count: len(ids)})
}

// handleLoadPDF loads a PDF from a URL or from inline base64 data.
func (s *Server) handleLoadPDF(c *gin.Context) {
	var req LoadPDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, fmt.Errorf("%w: %v", apperrors.ErrValidation, err))
		return
	}

	if req.URL != "" && req.Base64Data != "" {
		handleError(c, fmt.Errorf("%w: provide either 'url' or 'base64_data', not both", apperrors.ErrValidation))
		return
	}
	if req.URL == "" && req.Base64Data == "" {
		handleError(c, fmt.Errorf("%w: must provide either 'url' or 'base64_data'", apperrors.ErrValidation))
		return
	}

	var res loader.Result
	if req.URL != "" {
		res = s.loader.FromURL(c.Request.Context(), req.URL)
	} else {
		res = s.loader.FromBase64(req.Base64Data, req.Identifier)
	}

	if res.Err != nil {
		appErr := apperrors.MapError(res.Err)
		c.JSON(appErr.Code, LoadPDFResponse{Success: false, Message: res.Message})
		return
	}

	c.JSON(http.StatusOK, LoadPDFResponse{
		Success:    true,
		Message:    res.Message,
		Identifier: res.Identifier,
	})
}

// handleClearPDFs removes every cached document.
func (s *Server) handleClearPDFs(c *gin.Context) {
	count := s.store.Clear()
	c.JSON(http.StatusOK, LoadPDFResponse{
		Success: true,
		Message: fmt.Sprintf("Cleared %d PDF(s) from memory", count),
	})
}

// handleRemovePDF removes one cached document by identifier.
func (s *Server) handleRemovePDF(c *gin.Context) {
	// The wildcard keeps URLs with slashes usable as identifiers.
	identifier := strings.TrimPrefix(c.Param("identifier"), "/")
	if identifier == "" {
		handleError(c, fmt.Errorf("%w: empty identifier", apperrors.ErrValidation))
		return
	}

	if !s.store.Remove(identifier) {
		message := fmt.Sprintf("PDF with identifier '%s' not found", identifier)
		if hint := s.store.Suggest(identifier); hint != "" {
			message = fmt.Sprintf("%s (did you mean '%s'?)", message, hint)
		}
		c.JSON(http.StatusNotFound, LoadPDFResponse{Success: false, Message: message})
		return
	}

	c.JSON(http.StatusOK, LoadPDFResponse{
		Success:    true,
		Message:    fmt.Sprintf("Cleared PDF '%s' from memory", identifier),
		Identifier: identifier,
	})
}
