package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hostelcare/backend/internal/assignment"
	"hostelcare/backend/internal/complaint"
	"hostelcare/backend/internal/storage"
	"hostelcare/backend/internal/viewhub"
)

// Handler wires the HTTP surface to the core services.
type Handler struct {
	Complaints *complaint.Service
	Assignment *assignment.Resolver
	Storage    storage.Storage
	Hub        *viewhub.Manager

	jwtSecret       []byte
	provisionSecret []byte
	log             *logrus.Entry
}

func NewHandler(complaints *complaint.Service, resolver *assignment.Resolver, s storage.Storage, hub *viewhub.Manager, jwtSecret, provisionSecret []byte, log *logrus.Logger) *Handler {
	return &Handler{
		Complaints:      complaints,
		Assignment:      resolver,
		Storage:         s,
		Hub:             hub,
		jwtSecret:       jwtSecret,
		provisionSecret: provisionSecret,
		log:             logrus.NewEntry(log),
	}
}

// EnrichRoutes registers all routes on the engine. Everything under /api and
// /ws requires a bearer credential; token issuance requires the provisioning
// secret instead.
func (h *Handler) EnrichRoutes(router *gin.Engine) {
	router.POST("/api/auth/token", h.issueTokenAction)

	api := router.Group("/api", h.RequireActor())
	{
		api.GET("/complaints", h.listComplaintsAction)
		api.POST("/complaints", h.createComplaintAction)
		api.PATCH("/complaints", h.patchComplaintAction)
		api.DELETE("/complaints", h.deleteComplaintAction)
		api.GET("/complaints/stats", h.statsAction)
		api.POST("/complaints/:id/assign", h.assignAction)

		api.GET("/workers", h.listWorkersAction)
		api.POST("/workers", h.createWorkerAction)
		api.PATCH("/workers/:id", h.patchWorkerAction)
		api.DELETE("/workers/:id", h.deleteWorkerAction)
		api.GET("/workers/:id/queue", h.workerQueueAction)
	}

	router.GET("/ws", h.RequireActor(), h.serveWebSocketAction)
}
