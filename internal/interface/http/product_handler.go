package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/glowedge/skincare-backend/internal/domain/catalog"
)

// ListProducts returns the user's catalog.
func (h *Handler) ListProducts(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	products, err := h.catalogSvc.List(c.Request.Context(), userID)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"items": products})
}

// GetProduct returns one product.
func (h *Handler) GetProduct(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	product, err := h.catalogSvc.Get(c.Request.Context(), userID, id)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct adds a product to the catalog.
func (h *Handler) CreateProduct(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req catalog.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	product, err := h.catalogSvc.Create(c.Request.Context(), userID, req)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct applies a partial edit.
func (h *Handler) UpdateProduct(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req catalog.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	product, err := h.catalogSvc.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product after repairing routines that reference it.
func (h *Handler) DeleteProduct(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.catalogSvc.Delete(c.Request.Context(), userID, id); err != nil {
		abortWithAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadProductImage attaches a photo to a product.
func (h *Handler) UploadProductImage(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "file is required", err))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "failed to read upload", err))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "upload_failed", "failed to read file", err))
		return
	}
	product, err := h.catalogSvc.AttachImage(c.Request.Context(), userID, id, data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProductImage removes a product's photo.
func (h *Handler) DeleteProductImage(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	product, err := h.catalogSvc.RemoveImage(c.Request.Context(), userID, id)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "invalid id", err))
		return uuid.Nil, false
	}
	return id, true
}
