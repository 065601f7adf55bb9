package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ixugo/goddd/pkg/reason"
	"github.com/ixugo/goddd/pkg/web"
	"github.com/rainlabel/rainlabel/internal/core/timeline"
)

type SessionAPI struct {
	timelineCore timeline.Core
}

func NewSessionAPI(core timeline.Core) SessionAPI {
	return SessionAPI{timelineCore: core}
}

func registerSession(r gin.IRouter, api SessionAPI) {
	group := r.Group("/sessions")
	group.POST("", web.WrapH(api.createSession))
	group.GET("/:id", api.getSession)
	group.DELETE("/:id", api.closeSession)
	group.POST("/:id/time", api.updateTime)
	group.POST("/:id/seek", api.seek)
	group.GET("/:id/active", api.getActive)
	group.POST("/:id/retry", api.retry)
}

// createSession 创建观看会话，元数据获取异步进行
func (a SessionAPI) createSession(_ *gin.Context, in *timeline.CreateSessionInput) (timeline.SessionView, error) {
	s, err := a.timelineCore.CreateSession(in.VideoName)
	if err != nil {
		return timeline.SessionView{}, err
	}
	return s.View(), nil
}

func (a SessionAPI) getSession(c *gin.Context) {
	s, err := a.timelineCore.GetSession(c.Param("id"))
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.View())
}

func (a SessionAPI) closeSession(c *gin.Context) {
	a.timelineCore.CloseSession(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// updateTime 播放时间推进，返回该时刻的活跃集
func (a SessionAPI) updateTime(c *gin.Context) {
	s, err := a.timelineCore.GetSession(c.Param("id"))
	if err != nil {
		web.Fail(c, err)
		return
	}
	var in timeline.UpdateTimeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		web.Fail(c, reason.ErrBadRequest.Withf("bind err[%s]", err.Error()))
		return
	}
	active := s.UpdateTime(in.Time, in.Duration)
	c.JSON(http.StatusOK, gin.H{"active": active})
}

// seek 跳转，支持标签区间点击和时间轴点击两种形式
func (a SessionAPI) seek(c *gin.Context) {
	s, err := a.timelineCore.GetSession(c.Param("id"))
	if err != nil {
		web.Fail(c, err)
		return
	}
	var in timeline.SeekInput
	if err := c.ShouldBindJSON(&in); err != nil {
		web.Fail(c, reason.ErrBadRequest.Withf("bind err[%s]", err.Error()))
		return
	}

	var t float64
	var active *timeline.ActiveSet
	switch {
	case in.Segment != nil:
		t, active = s.SeekSegment(*in.Segment)
	case in.Timeline != nil:
		t, active = s.SeekTimeline(in.Timeline.X, in.Timeline.Width)
	default:
		web.Fail(c, reason.ErrBadRequest.Withf("segment or timeline is required"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"time": t, "active": active})
}

func (a SessionAPI) getActive(c *gin.Context) {
	s, err := a.timelineCore.GetSession(c.Param("id"))
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": s.View().Active})
}

// retry 元数据获取失败后的手动重试
func (a SessionAPI) retry(c *gin.Context) {
	s, err := a.timelineCore.GetSession(c.Param("id"))
	if err != nil {
		web.Fail(c, err)
		return
	}
	s.Retry()
	c.JSON(http.StatusOK, s.View())
}
