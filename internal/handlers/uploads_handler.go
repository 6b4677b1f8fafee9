package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	apierrors "github.com/gridworks/plotregistry/api/internal/errors"
	"github.com/gridworks/plotregistry/api/internal/storage"
)

// UploadsHandler serves stored objects against the signed URLs issued by
// the record endpoint.
type UploadsHandler struct {
	store *storage.FSStore
}

// NewUploadsHandler creates a new UploadsHandler instance.
func NewUploadsHandler(store *storage.FSStore) *UploadsHandler {
	return &UploadsHandler{
		store: store,
	}
}

// Download handles GET /uploads/*path?exp=&sig=.
// The object is served only when the signature covers the path and expiry
// and the expiry has not passed; everything else is a uniform 404.
func (h *UploadsHandler) Download(c *gin.Context) {
	objectPath := strings.TrimPrefix(c.Param("path"), "/")

	expires, err := strconv.ParseInt(c.Query("exp"), 10, 64)
	if err != nil {
		apierrors.NotFound(c, "Object not found")
		return
	}

	file, err := h.store.Verify(objectPath, expires, c.Query("sig"))
	if err != nil {
		apierrors.NotFound(c, "Object not found")
		return
	}

	c.File(file)
}
