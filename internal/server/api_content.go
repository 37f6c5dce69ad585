package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContentList: GET /api/content/:section
// 섹션의 전체 페이지 목록을 반환한다. (draft 제외)
func (h *APIHandler) ContentList(c *gin.Context) {
	pages, err := h.contentSvc.List(c.Param("section"))
	if err != nil {
		status, code := mapAppErrorToHTTP(err)
		writeError(c, status, code)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"pages":   pages,
	})
}

// ContentPage: GET /api/content/:section/:slug
func (h *APIHandler) ContentPage(c *gin.Context) {
	page, err := h.contentSvc.Get(c.Param("section"), c.Param("slug"))
	if err != nil {
		status, code := mapAppErrorToHTTP(err)
		writeError(c, status, code)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"page":    page,
	})
}
