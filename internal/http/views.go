package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/views"
)

// ViewsController serves data derived from the current collection snapshot.
type ViewsController struct {
	collection CollectionReader
}

func NewViewsController(c CollectionReader) *ViewsController {
	return &ViewsController{collection: c}
}

// Filter returns books matching a search text and category.
// GET /api/books/filter?q=&category=
func (vc *ViewsController) Filter(c *gin.Context) {
	query := c.Query("q")
	category := c.DefaultQuery("category", views.AllCategories)

	all := vc.collection.Snapshot()
	filtered := views.Filter(all, query, category)

	c.JSON(http.StatusOK, gin.H{
		"books":    filtered,
		"count":    len(filtered),
		"total":    len(all),
		"query":    query,
		"category": category,
		"summary":  views.Summary(len(filtered), len(all), query, category),
	})
}

// Categories lists the categories present in the collection, with the
// "All" pseudo-category first as a filter option.
// GET /api/categories
func (vc *ViewsController) Categories(c *gin.Context) {
	categories := views.Categories(vc.collection.Snapshot())
	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"options":    append([]string{views.AllCategories}, categories...),
	})
}

// Stats returns aggregate counts over the whole collection.
// GET /api/stats
func (vc *ViewsController) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, views.ComputeStats(vc.collection.Snapshot()))
}
