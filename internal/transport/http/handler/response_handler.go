package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campusmate/internal/feature/response"
	resp "campusmate/internal/transport/http/response"
)

type ResponseHandler struct {
	svc response.Service
	log *zap.Logger
}

func NewResponseHandler(svc response.Service, log *zap.Logger) *ResponseHandler {
	return &ResponseHandler{svc: svc, log: log}
}

type responseIn struct {
	Content string `json:"content"`
}

// Create 挂在 /queries/:id/responses 下，:id 是父提问
func (h *ResponseHandler) Create(c *gin.Context) {
	var in responseIn
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
		return
	}
	r, err := h.svc.Create(c.Param("id"), in.Content, c.GetString("userId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(r))
}

func (h *ResponseHandler) ListByQuery(c *gin.Context) {
	rs, err := h.svc.ListByQuery(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(rs))
}

func (h *ResponseHandler) Update(c *gin.Context) {
	var in responseIn
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
		return
	}
	r, err := h.svc.Update(c.Param("id"), in.Content)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(r))
}

func (h *ResponseHandler) Delete(c *gin.Context) {
	ok, err := h.svc.Delete(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, "response not found"))
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"id": c.Param("id")}))
}

func (h *ResponseHandler) Accept(c *gin.Context) {
	r, err := h.svc.Accept(c.Param("id"), c.GetString("userId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(r))
}
