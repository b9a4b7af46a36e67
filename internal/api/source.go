package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"kpidash/internal/source"
)

// UploadSource 上传 CSV/Excel 数据源
// POST /api/source/upload (multipart, 字段名 file)
func (h *Handler) UploadSource(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing upload file"})
		return
	}

	kind := source.KindForFilename(fileHeader.Filename)
	if kind == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type, expected .csv or .xlsx"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open upload"})
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return
	}

	view := h.session.SetSource(source.Request{
		Kind:     kind,
		Filename: fileHeader.Filename,
		Content:  content,
	})
	c.JSON(http.StatusOK, view)
}

// sqlSourceRequest SQL 数据源参数
type sqlSourceRequest struct {
	Driver   string `json:"driver"`
	Path     string `json:"path"`
	User     string `json:"user"`
	Password string `json:"password"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	Database string `json:"database"`
	Query    string `json:"query"`
}

// SQLSource 配置 SQL 数据源
// POST /api/source/sql
// 参数不齐全不是错误：返回的视图处于等待状态，不发起连接。
func (h *Handler) SQLSource(c *gin.Context) {
	var req sqlSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	view := h.session.SetSource(source.Request{
		Kind: source.KindSQL,
		SQL: source.SQLParams{
			Driver:   source.DriverKind(req.Driver),
			Path:     req.Path,
			User:     req.User,
			Password: req.Password,
			Host:     req.Host,
			Port:     req.Port,
			Database: req.Database,
			Query:    req.Query,
		},
	})
	c.JSON(http.StatusOK, view)
}
