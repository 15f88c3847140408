package handlers

import (
	"net/http"
	"time"

	portssvc "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

type filesHandler struct {
	objects portssvc.ObjectAccessSvc
}

// RegisterFileRoutes registers the signed file URL resolver.
func RegisterFileRoutes(rg *gin.RouterGroup, objects portssvc.ObjectAccessSvc) {
	h := &filesHandler{objects: objects}
	rg.GET("/files", h.resolveFile)
}

// resolveFile godoc
// @Summary Resolve a signed file URL
// @Description Checks a token issued with a suggestion's document file URL and returns the storage key it grants.
// @Tags files
// @Produce json
// @Param token query string true "Signed token"
// @Success 200 {object} map[string]string "storageKey"
// @Failure 400 {object} map[string]string "Missing token"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Token invalid, expired or issued for another tenant"
// @Security BearerAuth
// @Router /files [get]
func (h *filesHandler) resolveFile(c *gin.Context) {
	tenantID, _, ok := requestScope(c)
	if !ok {
		return
	}
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	key, err := h.objects.Verify(tenantID, token, time.Now())
	if err != nil {
		handleServiceError(c, err, "resolve file")
		return
	}
	c.JSON(http.StatusOK, gin.H{"storageKey": key})
}
