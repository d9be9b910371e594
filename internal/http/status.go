package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/collection"
)

type StatusResponse struct {
	collection.Status
	InFlight int `json:"in_flight"`
}

type statusCollection interface {
	Status() collection.Status
	InFlight() int
	DismissError()
}

type StatusController struct {
	collection statusCollection
}

func NewStatusController(c statusCollection) *StatusController {
	return &StatusController{collection: c}
}

// Get returns the sync status and the number of unconfirmed mutations.
// GET /api/status
func (sc *StatusController) Get(c *gin.Context) {
	c.JSON(http.StatusOK, sc.response())
}

// Dismiss clears the error banner without retrying anything.
// DELETE /api/status
func (sc *StatusController) Dismiss(c *gin.Context) {
	sc.collection.DismissError()
	c.JSON(http.StatusOK, sc.response())
}

func (sc *StatusController) response() StatusResponse {
	return StatusResponse{Status: sc.collection.Status(), InFlight: sc.collection.InFlight()}
}
