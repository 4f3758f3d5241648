package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/hydrogen/pkg/scheduler"
)

// JobsResponse 定时任务列表.
type JobsResponse struct {
	Message string              `json:"message"`
	Jobs    []scheduler.JobInfo `json:"jobs"`
}

// GetJobs 返回所有定时任务的状态.
func (h *Handler) GetJobs(c *gin.Context) {
	jobs := []scheduler.JobInfo{}
	if h.jobs != nil {
		jobs = h.jobs.GetJobInfos()
	}

	Respond(c, http.StatusOK, JobsResponse{Message: "Jobs fetched with success", Jobs: jobs})
}
