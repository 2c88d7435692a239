package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SuggestHandler returns keyword autocomplete suggestions for ?q=
func (api *API) SuggestHandler(c *gin.Context) {
	suggestions, err := api.board.Suggest(c.Request.Context(), c.Query("q"))
	if err != nil {
		SendServiceError(c, "suggest", err)
		return
	}
	c.JSON(http.StatusOK, suggestions)
}

// SuggestLocationsHandler returns location autocomplete suggestions for ?q=
func (api *API) SuggestLocationsHandler(c *gin.Context) {
	suggestions, err := api.board.SuggestLocations(c.Request.Context(), c.Query("q"))
	if err != nil {
		SendServiceError(c, "suggest locations", err)
		return
	}
	c.JSON(http.StatusOK, suggestions)
}
