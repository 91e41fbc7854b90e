package api

import (
	"context"
	"errors"
	"net/http"

	"StreamSync/internal/model"
	"StreamSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// GameService 聚合周期的对外能力，由 service.Aggregator 实现
type GameService interface {
	Run(ctx context.Context) ([]model.MatchedEvent, error)
	Find(ctx context.Context, id string) (*model.MatchedEvent, error)
}

// GamesHandler 赛事 + 直播流查询接口
type GamesHandler struct {
	games  GameService
	logger *logrus.Logger
}

// NewGamesHandler 创建 GamesHandler
func NewGamesHandler(games GameService, logger *logrus.Logger) *GamesHandler {
	return &GamesHandler{games: games, logger: logger}
}

// ListLiveGames 当前赛事及匹配到的直播流。部分来源失败不影响返回，结果可以为空数组
// GET /api/live-games
func (h *GamesHandler) ListLiveGames(c *gin.Context) {
	games, err := h.games.Run(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("ListLiveGames failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch games"})
		return
	}
	c.JSON(http.StatusOK, games)
}

// GetGame 单个赛事，跑完整周期后按 id 过滤
// GET /api/game/:id
func (h *GamesHandler) GetGame(c *gin.Context) {
	id := c.Param("id")
	game, err := h.games.Find(c.Request.Context(), id)
	if errors.Is(err, service.ErrEventNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("id", id).Error("GetGame failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch game"})
		return
	}
	c.JSON(http.StatusOK, game)
}
