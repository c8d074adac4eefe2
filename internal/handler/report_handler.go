package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gwatch.ca/goosewatch/internal/dto"
	"gwatch.ca/goosewatch/internal/service"
	"gwatch.ca/goosewatch/pkg/response"
	"gwatch.ca/goosewatch/pkg/storage"
	"gwatch.ca/goosewatch/pkg/validator"
)

type ReportHandler struct {
	service      service.ReportService
	imageStorage storage.ImageStorage
}

func NewReportHandler(service service.ReportService, imageStorage storage.ImageStorage) *ReportHandler {
	return &ReportHandler{service: service, imageStorage: imageStorage}
}

func (h *ReportHandler) GetReports(c *gin.Context) {
	reports, err := h.service.ListReports(c.Request.Context(), c.Query("type"), c.Query("viewerId"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, reports)
}

func (h *ReportHandler) GetReportByID(c *gin.Context) {
	report, err := h.service.GetReport(c.Request.Context(), c.Param("id"), c.Query("viewerId"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) CreateReport(c *gin.Context) {
	var req dto.CreateReportRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	imageURL, err := h.saveImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.service.SubmitReport(c.Request.Context(), req, imageURL)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, report)
}

// saveImage stores the optional multipart image and returns its URL, or ""
// when no image was attached.
func (h *ReportHandler) saveImage(c *gin.Context) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		// Image is optional; only a present-but-broken part is an error.
		if err == http.ErrMissingFile {
			return "", nil
		}
		return "", fmt.Errorf("failed to read uploaded image")
	}

	if file.Size > storage.MaxImageSize {
		return "", fmt.Errorf("image exceeds the %d byte limit", storage.MaxImageSize)
	}
	if !storage.AllowedImageExtension(file.Filename) {
		return "", fmt.Errorf("only image files are allowed")
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to read uploaded image")
	}
	defer src.Close()

	return h.imageStorage.UploadImage(c.Request.Context(), src, "reports", file.Filename)
}

func (h *ReportHandler) AddComment(c *gin.Context) {
	var req dto.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	report, err := h.service.AddComment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, report)
}

func (h *ReportHandler) ToggleReaction(c *gin.Context) {
	var req dto.ToggleReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	report, err := h.service.ToggleReaction(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
