package handlers

import (
	"net/http"

	"stayease/utils"
	"stayease/views"

	"github.com/gin-gonic/gin"
)

// Home returns the featured rooms and the testimonial carousel.
func (h *Handler) Home(c *gin.Context) {
	home := views.NewHome(h.deps)
	if err := home.Load(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, home.Page())
}

// ListRooms returns the catalog filtered by the minPrice and maxPrice query parameters.
func (h *Handler) ListRooms(c *gin.Context) {
	var filter views.CatalogFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}
	page, err := views.NewCatalog(h.deps).Load(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) GetRoom(c *gin.Context) {
	detail := views.NewRoomDetail(h.deps, c.Param("id"))
	if err := detail.Load(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	page, _ := detail.Page()
	c.JSON(http.StatusOK, page)
}

type bookRoomRequest struct {
	Date string `json:"date"`
}

// BookRoom books the room for the signed-in user.
func (h *Handler) BookRoom(c *gin.Context) {
	var req bookRoomRequest
	if !bindJSON(c, &req) {
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondError(c, err)
		return
	}

	detail := views.NewRoomDetail(h.deps, c.Param("id"))
	created, err := detail.Book(c.Request.Context(), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}
