package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-management-api/internal/query"
	appErrors "github.com/noah-isme/student-management-api/pkg/errors"
)

// idParam reads the :id path segment as a positive int64.
func idParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// listSpec reads list parameters from the query string. Unparseable values are
// dropped rather than rejected and Normalize fills the gaps.
func listSpec(c *gin.Context) query.Spec {
	spec := query.Spec{
		IDs:    queryIDs(c.QueryArray("ids")),
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		spec.Page = page
	}
	if size, err := strconv.Atoi(c.Query("pageSize")); err == nil {
		spec.PageSize = size
	}
	return spec.Normalize()
}

// queryIDs accepts both ?ids=1&ids=2 and ?ids=1,2.
func queryIDs(values []string) []int64 {
	var ids []int64
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				continue
			}
			ids = append(ids, id)
		}
	}
	return ids
}
