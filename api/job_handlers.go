package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/findmyjob/model"
	"github.com/gcbaptista/findmyjob/services"
)

// nonNil keeps empty results serialised as [] rather than null
func nonNil(jobs []model.JobRecord) []model.JobRecord {
	if jobs == nil {
		return []model.JobRecord{}
	}
	return jobs
}

// BrowseJobsHandler runs the public query pipeline with criteria taken from the query string.
// Without criteria every job is returned, newest first.
func (api *API) BrowseJobsHandler(c *gin.Context) {
	criteria, result := ParseCriteria(c)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	jobs, err := api.board.Browse(c.Request.Context(), criteria)
	api.sendJobs(c, jobs, err)
}

// SearchJobsHandler handles GET /api/jobs/search?keyword=. The keyword is not
// recorded here: callers of this route report it via POST /api/analytics/search.
func (api *API) SearchJobsHandler(c *gin.Context) {
	keyword, ok := c.GetQuery("keyword")
	if !ok {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Query parameter 'keyword' is required")
		return
	}
	jobs, err := api.board.Search(c.Request.Context(), services.FilterCriteria{Keyword: keyword})
	api.sendJobs(c, jobs, err)
}

// SearchByLocationHandler handles GET /api/jobs/location?location=
func (api *API) SearchByLocationHandler(c *gin.Context) {
	location, ok := c.GetQuery("location")
	if !ok {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Query parameter 'location' is required")
		return
	}
	jobs, err := api.board.Search(c.Request.Context(), services.FilterCriteria{LocationText: location})
	api.sendJobs(c, jobs, err)
}

func (api *API) sendJobs(c *gin.Context, jobs []model.JobRecord, err error) {
	if err != nil {
		SendServiceError(c, "browse jobs", err)
		return
	}
	c.JSON(http.StatusOK, nonNil(jobs))
}

// AdminBrowseJobsHandler runs the admin query pipeline. The "q" parameter matches
// id, title and company; results default to newest first.
func (api *API) AdminBrowseJobsHandler(c *gin.Context) {
	criteria, result := ParseCriteria(c)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	jobs, err := api.board.AdminBrowse(c.Request.Context(), criteria)
	if err != nil {
		SendServiceError(c, "browse jobs", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"jobs":  nonNil(jobs),
		"total": len(jobs),
	})
}

// GetJobHandler handles requests to get a single job posting
func (api *API) GetJobHandler(c *gin.Context) {
	id := c.Param("id")
	if result := ValidateJobID(id); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	job, err := api.board.GetJob(c.Request.Context(), model.JobID(id))
	if err != nil {
		SendServiceError(c, "get job", err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// CreateJobHandler handles the request to create a job posting.
// Request Body: model.JobRecord (any id in the body is ignored)
func (api *API) CreateJobHandler(c *gin.Context) {
	var job model.JobRecord
	if err := c.ShouldBindJSON(&job); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if result := ValidateJobRecord(&job); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	job.ID = ""

	created, err := api.board.CreateJob(c.Request.Context(), job)
	if err != nil {
		SendServiceError(c, "create job", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateJobHandler replaces the editable fields of a job posting
func (api *API) UpdateJobHandler(c *gin.Context) {
	id := c.Param("id")
	if result := ValidateJobID(id); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	var job model.JobRecord
	if err := c.ShouldBindJSON(&job); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if result := ValidateJobRecord(&job); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	updated, err := api.board.UpdateJob(c.Request.Context(), model.JobID(id), job)
	if err != nil {
		SendServiceError(c, "update job", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteJobHandler removes a job posting. Deleting a missing job succeeds.
func (api *API) DeleteJobHandler(c *gin.Context) {
	id := c.Param("id")
	if result := ValidateJobID(id); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := api.board.DeleteJob(c.Request.Context(), model.JobID(id)); err != nil {
		SendServiceError(c, "delete job", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ImportJobsHandler stores a JSON array of job postings
func (api *API) ImportJobsHandler(c *gin.Context) {
	var jobs []model.JobRecord
	if err := c.ShouldBindJSON(&jobs); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if len(jobs) == 0 {
		result := &ValidationResult{Valid: true}
		result.AddError("jobs", "No jobs provided")
		SendValidationError(c, result)
		return
	}

	for i := range jobs {
		jobs[i].ID = ""
	}
	imported, err := api.board.ImportJobs(c.Request.Context(), jobs)
	if err != nil {
		api.logger.Error("job import stopped", "imported", imported, "error", err)
		SendServiceError(c, "import jobs", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Jobs imported",
		"imported": imported,
	})
}
