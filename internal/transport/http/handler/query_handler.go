package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campusmate/internal/core/cache"
	"campusmate/internal/domain"
	"campusmate/internal/feature/query"
	"campusmate/internal/transport/http/ez"
	resp "campusmate/internal/transport/http/response"
)

const statsCacheKey = "campusmate:queries:stats"

type QueryHandler struct {
	svc   query.Service
	cache *cache.Cache // 可为 nil（未配置 Redis 时直查）
	log   *zap.Logger
}

func NewQueryHandler(svc query.Service, c *cache.Cache, log *zap.Logger) *QueryHandler {
	return &QueryHandler{svc: svc, cache: c, log: log}
}

func fail(c *gin.Context, err error) {
	c.JSON(http.StatusOK, resp.Error(ez.CodeFor(err), err.Error()))
}

type queryIn struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

func (h *QueryHandler) Create(c *gin.Context) {
	var in queryIn
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
		return
	}
	q, err := h.svc.Create(in.Title, in.Content, in.Category, in.Tags, c.GetString("userId"))
	if err != nil {
		fail(c, err)
		return
	}
	h.invalidateStats(c)
	c.JSON(http.StatusOK, resp.OK(q))
}

func (h *QueryHandler) Get(c *gin.Context) {
	q, err := h.svc.Get(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(q))
}

func (h *QueryHandler) List(c *gin.Context) {
	page := atoiDefault(c.Query("page"), 0)
	size := atoiDefault(c.Query("size"), 100)
	qs, err := h.svc.List(page, size)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"list": qs, "page": page, "size": size}))
}

func (h *QueryHandler) Update(c *gin.Context) {
	var in queryIn
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
		return
	}
	upd := domain.QueryUpdate{Title: in.Title, Content: in.Content, Category: in.Category, Tags: in.Tags}
	q, err := h.svc.Update(c.Param("id"), upd, c.GetString("userId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(q))
}

func (h *QueryHandler) Delete(c *gin.Context) {
	ok, err := h.svc.Delete(c.Param("id"), c.GetString("userId"))
	if err != nil {
		fail(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, "query not found"))
		return
	}
	h.invalidateStats(c)
	c.JSON(http.StatusOK, resp.OK(gin.H{"id": c.Param("id")}))
}

func (h *QueryHandler) Upvote(c *gin.Context) {
	q, err := h.svc.Upvote(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(q))
}

func (h *QueryHandler) Downvote(c *gin.Context) {
	q, err := h.svc.Downvote(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(q))
}

func (h *QueryHandler) MarkSolved(c *gin.Context) {
	q, err := h.svc.MarkSolved(c.Param("id"), c.GetString("userId"))
	if err != nil {
		fail(c, err)
		return
	}
	h.invalidateStats(c)
	c.JSON(http.StatusOK, resp.OK(q))
}

func (h *QueryHandler) Search(c *gin.Context) {
	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "missing search term"))
		return
	}
	page := atoiDefault(c.Query("page"), 0)
	size := atoiDefault(c.Query("size"), 10)
	qs, err := h.svc.Search(term, page, size)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"list": qs, "page": page, "size": size}))
}

func (h *QueryHandler) ByCategory(c *gin.Context) {
	qs, err := h.svc.ByCategory(c.Param("category"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(qs))
}

func (h *QueryHandler) ByAuthor(c *gin.Context) {
	qs, err := h.svc.ByAuthor(c.Param("authorId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(qs))
}

func (h *QueryHandler) ByStatus(c *gin.Context) {
	status := domain.QueryStatus(strings.ToUpper(c.Param("status")))
	switch status {
	case domain.StatusOpen, domain.StatusAnswered, domain.StatusClosed:
	default:
		c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "unknown status"))
		return
	}
	qs, err := h.svc.ByStatus(status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(qs))
}

type statsOut struct {
	Open     int64 `json:"open"`
	Answered int64 `json:"answered"`
	Closed   int64 `json:"closed"`
	Total    int64 `json:"total"`
}

// Stats 是聚合读，不涉及实体状态，允许 30s 的 Redis 缓存；
// 写路径会主动失效。
func (h *QueryHandler) Stats(c *gin.Context) {
	load := func(context.Context) (*statsOut, error) {
		m, err := h.svc.Stats()
		if err != nil {
			return nil, err
		}
		out := &statsOut{
			Open:     m[domain.StatusOpen],
			Answered: m[domain.StatusAnswered],
			Closed:   m[domain.StatusClosed],
		}
		out.Total = out.Open + out.Answered + out.Closed
		return out, nil
	}

	var out *statsOut
	var err error
	if h.cache != nil {
		out, err = cache.GetOrLoadJSON(h.cache, c, statsCacheKey, 30*time.Second, load)
	} else {
		out, err = load(c)
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(out))
}

func (h *QueryHandler) invalidateStats(c *gin.Context) {
	if h.cache != nil {
		h.cache.Invalidate(c, statsCacheKey)
	}
}

func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
