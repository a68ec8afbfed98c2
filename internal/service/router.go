// Package service exposes the split calculator, drafts and participant
// directory over a JSON HTTP API.
package service

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/splitshare/internal/draft"
	"github.com/mmynk/splitshare/internal/metrics"
	"github.com/mmynk/splitshare/internal/middleware"
	"github.com/mmynk/splitshare/internal/storage"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Drafts      *draft.Store
	Directory   storage.Store
	Metrics     *metrics.Metrics
	CORSOrigins []string
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.Logging(),
		middleware.Recovery(),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(deps.CORSOrigins),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	splits := NewSplitHandler(deps.Drafts, deps.Directory, deps.Metrics)
	groups := NewGroupHandler(deps.Directory)

	api := r.Group("/api/v1")
	{
		api.POST("/splits/preview", splits.Preview)

		api.POST("/drafts", splits.CreateDraft)
		api.GET("/drafts/:id", splits.GetDraft)
		api.PUT("/drafts/:id", splits.ResetDraft)
		api.DELETE("/drafts/:id", splits.DeleteDraft)
		api.PATCH("/drafts/:id/shares/:participant_id", splits.EditShare)
		api.POST("/drafts/:id/submit", splits.SubmitDraft)

		api.POST("/groups", groups.CreateGroup)
		api.GET("/groups", groups.ListGroups)
		api.GET("/groups/:id", groups.GetGroup)
		api.POST("/groups/:id/members", groups.AddMembers)
	}

	return r
}
