package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medconsole/admin-backend/internal/listview"
	"github.com/medconsole/admin-backend/internal/middleware"
	"github.com/medconsole/admin-backend/internal/model"
	"github.com/medconsole/admin-backend/internal/response"
)

// listQuery reads ?q= and the given category parameters.
func listQuery(c *gin.Context, categories ...string) listview.Query {
	q := listview.Query{Text: strings.TrimSpace(c.Query("q"))}
	for _, key := range categories {
		if v := strings.TrimSpace(c.Query(key)); v != "" {
			if q.Exact == nil {
				q.Exact = make(map[string]string, len(categories))
			}
			q.Exact[key] = v
		}
	}
	return q
}

// pathID returns the :id parameter or responds 400 when it is not a UUID.
func pathID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return "", false
	}
	return id, true
}

// actor returns the authenticated identity or responds 401.
func actor(c *gin.Context) (*model.Admin, bool) {
	admin := middleware.GetIdentity(c)
	if admin == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return nil, false
	}
	return admin, true
}
