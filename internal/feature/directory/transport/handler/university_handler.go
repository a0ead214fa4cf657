// Package handler provides the HTTP handlers for the directory feature.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"account_backend/internal/feature/directory/domain/entity"
	"account_backend/internal/feature/directory/transport/http/dto"
)

// DirectoryUsecase lists the universities.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type DirectoryUsecase interface {
	ListUniversities(ctx context.Context) ([]entity.University, error)
}

// UniversityHandler serves the university directory.
type UniversityHandler struct {
	uc DirectoryUsecase
}

// NewUniversityHandler creates a new UniversityHandler.
func NewUniversityHandler(uc DirectoryUsecase) *UniversityHandler {
	return &UniversityHandler{uc: uc}
}

// List returns every university as JSON.
func (h *UniversityHandler) List(c *gin.Context) {
	universities, err := h.uc.ListUniversities(c.Request.Context())
	if err != nil {
		slog.Error("failed to list universities", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, gin.H{
			"status_code": http.StatusInternalServerError,
			"message":     "internal server error",
		})
		return
	}
	out := make([]dto.UniversityItem, 0, len(universities))
	for _, u := range universities {
		out = append(out, dto.UniversityItem{UUID: u.ID.String(), Name: u.Name})
	}
	c.JSON(http.StatusOK, out)
}
