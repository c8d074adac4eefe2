package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gwatch.ca/goosewatch/internal/campus"
)

type CampusHandler struct{}

func NewCampusHandler() *CampusHandler {
	return &CampusHandler{}
}

func (h *CampusHandler) GetHabitats(c *gin.Context) {
	c.JSON(http.StatusOK, campus.Habitats)
}

func (h *CampusHandler) GetCampusBounds(c *gin.Context) {
	c.JSON(http.StatusOK, campus.UW)
}

func (h *CampusHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
