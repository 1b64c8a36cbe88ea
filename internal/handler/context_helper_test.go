package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-management-api/internal/query"
	appErrors "github.com/noah-isme/student-management-api/pkg/errors"
)

func contextFor(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c
}

func TestListSpecParsesQuery(t *testing.T) {
	c := contextFor("/students?ids=1,2&ids=3&ids=x&search=%20al&sort=lastName:desc&page=2&pageSize=25")

	spec := listSpec(c)

	assert.Equal(t, query.Spec{IDs: []int64{1, 2, 3}, Search: "al", Sort: "lastName:desc", Page: 2, PageSize: 25}, spec)
}

func TestListSpecIgnoresInvalidValues(t *testing.T) {
	c := contextFor("/students?page=abc&pageSize=-4")

	spec := listSpec(c)

	assert.Nil(t, spec.IDs)
	assert.Equal(t, 0, spec.Page)
	assert.Equal(t, query.MaxPageSize, spec.PageSize)
}

func TestIDParam(t *testing.T) {
	c := contextFor("/students/12")
	c.Params = gin.Params{{Key: "id", Value: "12"}}
	id, err := idParam(c)
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	for _, raw := range []string{"abc", "0", "-3"} {
		c.Params = gin.Params{{Key: "id", Value: raw}}
		_, err := idParam(c)
		assert.ErrorIs(t, err, appErrors.ErrValidation, raw)
	}
}

func TestListSpecHugePageStaysAddressable(t *testing.T) {
	c := contextFor("/courses?page=18446744073709551&pageSize=1000")

	spec := listSpec(c)

	assert.Equal(t, 1000, spec.Limit())
	assert.GreaterOrEqual(t, spec.Offset(), 0)
}
