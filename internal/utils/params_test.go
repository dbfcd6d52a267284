package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(target string, params gin.Params) *gin.Context {
	gin.SetMode(gin.TestMode)
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = httptest.NewRequest("GET", target, nil)
	ctx.Params = params
	return ctx
}

func TestGetIDParam(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    uint
		wantErr string
	}{
		{"valid", "12", 12, ""},
		{"missing", "", 0, "Project ID not found"},
		{"not a number", "abc", 0, "Invalid Project ID"},
		{"zero", "0", 0, "Invalid Project ID"},
		{"negative", "-3", 0, "Invalid Project ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newContext("/", gin.Params{{Key: "project_id", Value: tt.value}})
			id, err := GetIDParam(ctx, "project_id", "Project")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestGetIDQuery(t *testing.T) {
	id, err := GetIDQuery(newContext("/?company_id=7", nil), "company_id", "Company")
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)

	_, err = GetIDQuery(newContext("/", nil), "company_id", "Company")
	assert.EqualError(t, err, "Company ID is required")
}

func TestGetPagination(t *testing.T) {
	skip, limit, err := GetPagination(newContext("/", nil))
	require.NoError(t, err)
	assert.Equal(t, 0, skip)
	assert.Equal(t, DefaultLimit, limit)

	skip, limit, err = GetPagination(newContext("/?skip=5&limit=20", nil))
	require.NoError(t, err)
	assert.Equal(t, 5, skip)
	assert.Equal(t, 20, limit)

	_, limit, err = GetPagination(newContext("/?limit=50000", nil))
	require.NoError(t, err)
	assert.Equal(t, MaxLimit, limit)

	_, _, err = GetPagination(newContext("/?skip=-1", nil))
	assert.Error(t, err)

	_, _, err = GetPagination(newContext("/?limit=0", nil))
	assert.Error(t, err)
}
