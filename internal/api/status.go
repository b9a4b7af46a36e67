package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"kpidash/internal/dashboard"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Loaded         bool   `json:"loaded"`         // 是否已加载数据
	State          string `json:"state"`          // 当前视图状态
	RowCount       int    `json:"rowCount"`       // 数据行数
	RefreshSeconds int    `json:"refreshSeconds"` // 刷新间隔（秒）
	UptimeSeconds  int64  `json:"uptimeSeconds"`  // 服务运行时长
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	view := h.session.View()
	c.JSON(http.StatusOK, StatusResponse{
		Loaded:         view.State == dashboard.StateReady,
		State:          view.State,
		RowCount:       view.RowCount,
		RefreshSeconds: view.RefreshSeconds,
		UptimeSeconds:  int64(time.Since(h.startedAt).Seconds()),
	})
}
