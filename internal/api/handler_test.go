package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"kpidash/internal/dashboard"
	"kpidash/internal/report"
)

const scenarioCSV = "date,region,sales\n2024-01-01,A,10\n2024-01-02,B,20\n2024-01-03,A,5\n"

func newTestRouter(t *testing.T) (*gin.Engine, *dashboard.Session) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	session := dashboard.NewSession()
	t.Cleanup(session.Close)

	router := gin.New()
	handler := NewHandler(session)
	handler.RegisterRoutes(router.Group("/api"))
	return router, session
}

func uploadCSV(t *testing.T, router *gin.Engine, filename, content string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write form file failed: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/source/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestUploadAndDashboard 上传 CSV 后仪表盘就绪
func TestUploadAndDashboard(t *testing.T) {
	router, _ := newTestRouter(t)

	w := uploadCSV(t, router, "vendas.csv", scenarioCSV)
	if w.Code != http.StatusOK {
		t.Fatalf("upload status = %d, body = %s", w.Code, w.Body.String())
	}

	var view dashboard.View
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("bad view json: %v", err)
	}
	if view.State != dashboard.StateReady {
		t.Fatalf("state = %s (%s)", view.State, view.Message)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("bad view json: %v", err)
	}
	if view.KPIs == nil || view.KPIs.Total != 35 {
		t.Errorf("KPIs = %+v", view.KPIs)
	}
}

// TestUploadUnsupportedType 非 csv/xlsx 扩展名被拒
func TestUploadUnsupportedType(t *testing.T) {
	router, _ := newTestRouter(t)

	w := uploadCSV(t, router, "notes.txt", "hello")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

// TestSQLSourceIncomplete 缺少密码：等待状态，无错误
func TestSQLSourceIncomplete(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(t, router, "/api/source/sql", map[string]any{
		"driver":   "postgres",
		"user":     "u",
		"host":     "localhost",
		"database": "d",
		"query":    "select 1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var view dashboard.View
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("bad view json: %v", err)
	}
	if view.State != dashboard.StateAwaiting {
		t.Errorf("state = %s, want awaiting", view.State)
	}
}

// TestSelectionAndRanking 改选分组后排行出现
func TestSelectionAndRanking(t *testing.T) {
	router, _ := newTestRouter(t)
	uploadCSV(t, router, "vendas.csv", scenarioCSV)

	w := postJSON(t, router, "/api/selection", map[string]any{
		"timeColumn":     "date",
		"metricColumn":   "sales",
		"groupColumns":   []string{"region"},
		"refreshSeconds": 5,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var view dashboard.View
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("bad view json: %v", err)
	}
	if len(view.Ranking) != 2 || view.Ranking[0].Group != "B" || view.Ranking[0].Total != 20 {
		t.Errorf("Ranking = %v", view.Ranking)
	}
	if view.RefreshSeconds != 5 {
		t.Errorf("RefreshSeconds = %d, want 5", view.RefreshSeconds)
	}
}

// TestColumnsEndpoint 列选择器可选项
func TestColumnsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	uploadCSV(t, router, "vendas.csv", scenarioCSV)

	req := httptest.NewRequest(http.MethodGet, "/api/columns", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"numeric":["sales"]`) {
		t.Errorf("columns body = %s", w.Body.String())
	}
}

// TestReportDownloadOnce 报表令牌只能用一次
func TestReportDownloadOnce(t *testing.T) {
	router, _ := newTestRouter(t)
	uploadCSV(t, router, "vendas.csv", scenarioCSV)

	w := postJSON(t, router, "/api/report", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("report status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		DownloadURL string `json:"downloadUrl"`
		Filename    string `json:"filename"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad report json: %v", err)
	}
	if resp.Filename != report.Filename {
		t.Errorf("filename = %q, want %q", resp.Filename, report.Filename)
	}

	req := httptest.NewRequest(http.MethodGet, resp.DownloadURL, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("download status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != report.MIMEType {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), report.Filename) {
		t.Errorf("content disposition = %q", w.Header().Get("Content-Disposition"))
	}
	if w.Body.Len() == 0 {
		t.Error("empty report body")
	}

	// 第二次下载应失效
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("second download status = %d, want 404", w.Code)
	}
}

// TestReportWithoutData 无数据时不能生成报表
func TestReportWithoutData(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(t, router, "/api/report", nil)
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

// TestChartEndpoints 图表 PNG 端点
func TestChartEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	// 未加载数据：404
	req := httptest.NewRequest(http.MethodGet, "/api/chart/line.png", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("line chart without data status = %d, want 404", w.Code)
	}

	uploadCSV(t, router, "vendas.csv", scenarioCSV)
	postJSON(t, router, "/api/selection", map[string]any{
		"timeColumn":   "date",
		"metricColumn": "sales",
		"groupColumns": []string{"region"},
	})

	for _, path := range []string{"/api/chart/line.png", "/api/chart/ranking.png"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, w.Code)
			continue
		}
		if ct := w.Header().Get("Content-Type"); ct != "image/png" {
			t.Errorf("%s content type = %q", path, ct)
		}
	}
}

// TestStatusEndpoint 系统状态
func TestStatusEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad status json: %v", err)
	}
	if resp.Loaded {
		t.Error("fresh session should not be loaded")
	}

	uploadCSV(t, router, "vendas.csv", scenarioCSV)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad status json: %v", err)
	}
	if !resp.Loaded || resp.RowCount != 3 {
		t.Errorf("status after upload = %+v", resp)
	}
}
