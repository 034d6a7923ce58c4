package response

import (
	"Teamflow/internal/api/dto"
	"Teamflow/internal/service"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

func recordJSON(t *testing.T, write func(c *gin.Context)) (int, *dto.Response) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	write(c)

	var body dto.Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("解析响应体失败: %v", err)
	}
	return w.Code, &body
}

func TestSuccessEnvelope(t *testing.T) {
	status, body := recordJSON(t, func(c *gin.Context) {
		Success(c, map[string]string{"hello": "world"})
	})
	if status != http.StatusOK {
		t.Fatalf("HTTP 状态应为 200，实际 %d", status)
	}
	if body.Code != Ok || body.Message != "success" || body.Data == nil {
		t.Fatalf("成功信封不符: %+v", body)
	}
}

func TestErrorMapsBusinessCode(t *testing.T) {
	status, body := recordJSON(t, func(c *gin.Context) {
		Error(c, service.ErrWorkspaceNotFound)
	})
	if status != http.StatusNotFound {
		t.Fatalf("HTTP 状态应为 404，实际 %d", status)
	}
	if body.Code != NotFound || body.Message != service.ErrWorkspaceNotFound.Error() {
		t.Fatalf("错误信封不符: %+v", body)
	}
}
