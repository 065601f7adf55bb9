package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ixugo/goddd/pkg/reason"
	"github.com/ixugo/goddd/pkg/web"
	"github.com/rainlabel/rainlabel/internal/core/analyze"
)

type AnalyzeAPI struct {
	analyzeCore analyze.Core
}

func NewAnalyzeAPI(core analyze.Core) AnalyzeAPI {
	return AnalyzeAPI{analyzeCore: core}
}

func registerAnalyze(r gin.IRouter, api AnalyzeAPI) {
	group := r.Group("/analyze")
	group.POST("/:name", api.startJob)
	group.GET("/jobs", web.WrapH(api.findJobs))
	group.GET("/jobs/:id", api.getJob)
}

// startJob 对指定视频发起异步分析
func (a AnalyzeAPI) startJob(c *gin.Context) {
	name := trimName(c.Param("name"))
	job, err := a.analyzeCore.StartJob(c.Request.Context(), &analyze.StartJobInput{VideoName: name})
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (a AnalyzeAPI) findJobs(c *gin.Context, in *analyze.FindJobInput) (gin.H, error) {
	items, total, err := a.analyzeCore.FindJobs(c.Request.Context(), in)
	if err != nil {
		return nil, err
	}
	return gin.H{"items": items, "total": total}, nil
}

func (a AnalyzeAPI) getJob(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		web.Fail(c, reason.ErrBadRequest.Withf("invalid job id[%s]", c.Param("id")))
		return
	}
	job, err := a.analyzeCore.GetJob(c.Request.Context(), id)
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}
