package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestHealthCheck(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if assert.NoError(t, NewHealthHandler().CheckHealth(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "running")
	}
}

func TestIsAllowedFileType(t *testing.T) {
	assert.True(t, isAllowedFileType("image/jpeg"))
	assert.True(t, isAllowedFileType("image/png"))
	assert.True(t, isAllowedFileType("application/pdf"))
	assert.False(t, isAllowedFileType("application/x-msdownload"))
	assert.False(t, isAllowedFileType(""))
}

func TestSanitizeFolderName(t *testing.T) {
	assert.Equal(t, "chat", sanitizeFolderName("chat"))
	assert.Equal(t, "chat/photos", sanitizeFolderName("/chat/photos/"))
	assert.Equal(t, "", sanitizeFolderName("../secrets"))
}
