package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/erp/ordering/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleBindingError(t *testing.T) {
	type pageQuery struct {
		ID       uint `uri:"id" binding:"required,gt=0"`
		PageSize int  `form:"page_size" binding:"omitempty,lte=100"`
	}

	SetupValidator()

	router := gin.New()
	router.Use(RequestID())
	router.POST("/items/:id", func(c *gin.Context) {
		var req pageQuery
		if err := c.ShouldBindUri(&req); err != nil {
			HandleBindingError(c, err)
			return
		}
		if err := c.ShouldBindQuery(&req); err != nil {
			HandleBindingError(c, err)
			return
		}
		var body struct {
			Name string `json:"name"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleBindingError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(req.ID))
	})

	decode := func(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
		t.Helper()
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp
	}

	t.Run("uri validation reports the uri name", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/items/0", strings.NewReader(`{}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode(t, w)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "id", resp.Error.Details[0].Field)
		assert.NotEmpty(t, resp.Error.RequestID)
	})

	t.Run("query validation reports the form name", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/items/1?page_size=500", strings.NewReader(`{}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode(t, w)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "page_size", resp.Error.Details[0].Field)
		assert.Equal(t, "Must be less than or equal to 100", resp.Error.Details[0].Message)
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/items/1", strings.NewReader(`{"name":`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode(t, w)
		assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
		assert.Empty(t, resp.Error.Details)
	})

	t.Run("valid request passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/items/3?page_size=10", strings.NewReader(`{"name":"x"}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
