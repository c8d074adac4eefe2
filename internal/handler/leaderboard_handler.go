package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gwatch.ca/goosewatch/internal/dto"
	"gwatch.ca/goosewatch/internal/repository"
	"gwatch.ca/goosewatch/internal/service"
	"gwatch.ca/goosewatch/pkg/response"
)

// The API layer clamps harder than the store's internal cap.
const maxAPILeaderboardLimit = 25

type LeaderboardHandler struct {
	service service.ReportService
}

func NewLeaderboardHandler(service service.ReportService) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

func (h *LeaderboardHandler) GetWeeklyLeaderboard(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > maxAPILeaderboardLimit {
		limit = maxAPILeaderboardLimit
	}

	entries, err := h.service.WeeklyLeaderboard(c.Request.Context(), limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.WeeklyLeaderboardResponse{
		WindowDays:  repository.LeaderboardWindowDays,
		GeneratedAt: time.Now(),
		Leaderboard: entries,
	})
}
