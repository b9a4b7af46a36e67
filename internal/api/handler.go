package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"kpidash/internal/dashboard"
)

// Handler 仪表盘 API 处理器
type Handler struct {
	session   *dashboard.Session
	downloads *reportDownloadStore
	startedAt time.Time
}

// NewHandler 创建 API 处理器
func NewHandler(session *dashboard.Session) *Handler {
	return &Handler{
		session:   session,
		downloads: newReportDownloadStore(),
		startedAt: time.Now(),
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 数据源
	router.POST("/source/upload", h.UploadSource)
	router.POST("/source/sql", h.SQLSource)

	// 列选择
	router.GET("/columns", h.GetColumns)
	router.POST("/selection", h.UpdateSelection)

	// 仪表盘视图
	router.GET("/dashboard", h.GetDashboard)
	router.GET("/chart/line.png", h.LineChartPNG)
	router.GET("/chart/ranking.png", h.RankingChartPNG)

	// 报表导出
	router.POST("/report", h.CreateReport)
	router.GET("/report/download/:token", h.DownloadReport)
}
