package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medilexica/internal/app"
	"medilexica/internal/transport/http/response"
)

type GlossaryHandler struct {
	glossaryService *app.GlossaryService
}

func NewGlossaryHandler(glossaryService *app.GlossaryService) *GlossaryHandler {
	return &GlossaryHandler{glossaryService: glossaryService}
}

// Search filters the glossary by the query parameter; no query returns the
// full glossary.
func (h *GlossaryHandler) Search(c *gin.Context) {
	terms, err := h.glossaryService.Search(c.Query("query"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "search glossary failed")
		return
	}
	response.OK(c, terms)
}
