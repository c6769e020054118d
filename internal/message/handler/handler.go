package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/msgboard/msgboard/backend/go-services/internal/message/service"
	"github.com/msgboard/msgboard/backend/go-services/pkg/logger"
)

// RegisterMessageRoutes binds GET and POST /messages to svc.
func RegisterMessageRoutes(r gin.IRoutes, svc service.Service) {
	h := &Handler{svc: svc}
	r.GET("/messages", h.List)
	r.POST("/messages", h.Create)
}

type Handler struct {
	svc service.Service
}

type createRequest struct {
	Text string `json:"text"`
}

// List returns every stored message as a JSON array.
func (h *Handler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		logger.Debugf("list messages: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// Create accepts { text } and returns the stored message. An empty body or a
// missing text field stores an empty string.
func (h *Handler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, err := h.svc.Create(c.Request.Context(), req.Text)
	if err != nil {
		logger.Debugf("create message: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, m)
}
