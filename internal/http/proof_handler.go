package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bluebin-id/bluebin-api/internal/http/middleware"
	"github.com/bluebin-id/bluebin-api/internal/repository"
	"github.com/bluebin-id/bluebin-api/internal/service"
)

func (h *Handler) uploadProofPhoto(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	scheduleID, err := uuid.Parse(c.PostForm("schedule_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule_id"})
		return
	}
	tpsID, err := uuid.Parse(c.PostForm("tps_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tps_id"})
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.handleError(c, err)
		return
	}
	defer file.Close()

	url, err := h.proofs.UploadPhoto(c.Request.Context(), service.UploadPhotoInput{
		ScheduleID:  scheduleID,
		TPSID:       tpsID,
		Photo:       file,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Principal:   principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"photo_url": url})
}

func (h *Handler) listProofs(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var filter repository.ProofFilter
	if raw := c.Query("schedule_id"); raw != "" {
		scheduleID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule_id"})
			return
		}
		filter.ScheduleID = &scheduleID
	}
	switch c.Query("verified") {
	case "true":
		value := true
		filter.Verified = &value
	case "false":
		value := false
		filter.Verified = &value
	}

	proofs, err := h.proofs.List(c.Request.Context(), principal, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, proofs)
}

func (h *Handler) verifyProof(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	proof, err := h.proofs.Verify(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, proof)
}
