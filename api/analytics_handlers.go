package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/findmyjob/model"
)

// RecordWebsiteViewHandler counts a page view
func (api *API) RecordWebsiteViewHandler(c *gin.Context) {
	api.activity.RecordWebsiteView()
	c.Status(http.StatusOK)
}

// RecordJobViewHandler counts a view of a job detail page
func (api *API) RecordJobViewHandler(c *gin.Context) {
	id := c.Param("id")
	if result := ValidateJobID(id); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	api.activity.RecordJobView(model.JobID(id))
	c.Status(http.StatusOK)
}

// RecordJobApplyHandler counts a click on a job's apply link
func (api *API) RecordJobApplyHandler(c *gin.Context) {
	id := c.Param("id")
	if result := ValidateJobID(id); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	api.activity.RecordJobApply(model.JobID(id))
	c.Status(http.StatusOK)
}

// RecordSearchHandler logs a search term. Blank terms are ignored.
func (api *API) RecordSearchHandler(c *gin.Context) {
	keyword, ok := c.GetQuery("keyword")
	if !ok {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Query parameter 'keyword' is required")
		return
	}
	api.activity.RecordSearch(keyword)
	c.Status(http.StatusOK)
}

// WebsiteStatsHandler returns site-wide view and apply counts
func (api *API) WebsiteStatsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.reports.WebsiteStats())
}

// JobStatsHandler returns view and apply counts for one job
func (api *API) JobStatsHandler(c *gin.Context) {
	id := c.Param("id")
	if result := ValidateJobID(id); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	c.JSON(http.StatusOK, api.reports.JobStats(model.JobID(id)))
}

// TopSearchesHandler returns today's most frequent search terms (?limit=, default 5)
func (api *API) TopSearchesHandler(c *gin.Context) {
	limit, result := ValidateLimit(c.Query("limit"), "limit", defaultTopLimit, maxTopLimit)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	top := api.reports.TopSearchesToday(limit)
	if top == nil {
		top = []model.KeywordCount{}
	}
	c.JSON(http.StatusOK, top)
}

// HistoryHandler returns per-day totals for the last ?days= days (default 15), today first
func (api *API) HistoryHandler(c *gin.Context) {
	days, result := ValidateLimit(c.Query("days"), "days", defaultDaysLimit, maxDaysLimit)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	c.JSON(http.StatusOK, api.reports.History(days))
}
