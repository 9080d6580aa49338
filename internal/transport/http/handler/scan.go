package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"agriguard/internal/app"
	"agriguard/internal/transport/http/middleware"
	"agriguard/internal/transport/http/response"
)

const maxImageSize = 5 << 20 // 5 MB

// ScanHandler handles leaf image analysis and scan history requests.
type ScanHandler struct {
	scanService *app.ScanService
}

func NewScanHandler(scanService *app.ScanService) *ScanHandler {
	return &ScanHandler{scanService: scanService}
}

// Analyze accepts a multipart form with "file" (leaf photo), classifies it
// locally, and returns the scan record.
func (h *ScanHandler) Analyze(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Detail(c, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.Detail(c, http.StatusBadRequest, "Missing image file (form field 'file')")
		return
	}

	if file.Size > maxImageSize {
		response.Detail(c, http.StatusBadRequest, "Image too large (max 5MB)")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.Detail(c, http.StatusBadRequest, "Failed to open uploaded file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		response.Detail(c, http.StatusBadRequest, "Failed to read image")
		return
	}

	scan, err := h.scanService.Analyze(c.Request.Context(), userID, data)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrImageEmpty):
			response.Detail(c, http.StatusBadRequest, "Image is empty")
		case errors.Is(err, app.ErrScanEnqueue):
			response.Detail(c, http.StatusServiceUnavailable, "Scan could not be queued, try again later")
		default:
			msg := err.Error()
			if strings.Contains(msg, "cannot open shared object file") || strings.Contains(msg, "Error loading ONNX shared library") {
				msg = "ONNX Runtime library not found. Install it and set VISION_ONNX_LIB to the path to libonnxruntime.so."
			} else {
				msg = "Analysis failed"
			}
			response.Detail(c, http.StatusServiceUnavailable, msg)
		}
		return
	}

	response.OK(c, scan)
}

// History returns the user's scans newest first, paginated with skip/limit.
func (h *ScanHandler) History(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Detail(c, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	skip := intQuery(c, "skip", 0)
	limit := intQuery(c, "limit", 10)

	scans, err := h.scanService.History(c.Request.Context(), userID, skip, limit)
	if err != nil {
		response.Detail(c, http.StatusInternalServerError, "Fetch scan history failed")
		return
	}

	response.OK(c, scans)
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
