package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/grafov/m3u8"
	"github.com/ixugo/goddd/pkg/reason"
	"github.com/ixugo/goddd/pkg/web"
	"github.com/rainlabel/rainlabel/internal/conf"
	"github.com/rainlabel/rainlabel/internal/core/library"
)

type LibraryAPI struct {
	libraryCore library.Core
}

func NewLibraryAPI(core library.Core) LibraryAPI {
	return LibraryAPI{libraryCore: core}
}

func registerLibrary(r gin.IRouter, api LibraryAPI, media *conf.Media) {
	// 视频文件直接走静态服务，支持 Range 请求
	r.Static("/static/videos", media.VideoDir)

	group := r.Group("/videos")
	group.GET("", web.WrapH(api.findVideos))
	group.GET("/stats", web.WrapH(api.getStats))
	group.GET("/:name", api.getVideo)
	group.GET("/:name/playlist.m3u8", api.getPlaylist)
}

func (a LibraryAPI) findVideos(c *gin.Context, _ *struct{}) (gin.H, error) {
	items, err := a.libraryCore.ListVideos(c.Request.Context())
	if err != nil {
		return nil, err
	}
	return gin.H{"items": items, "total": len(items)}, nil
}

func (a LibraryAPI) getStats(c *gin.Context, _ *struct{}) (*library.StorageStats, error) {
	return a.libraryCore.StorageStats(c.Request.Context())
}

func (a LibraryAPI) getVideo(c *gin.Context) {
	name := trimName(c.Param("name"))
	v, err := a.libraryCore.GetVideo(c.Request.Context(), name)
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// getPlaylist 把演示剪辑拼成 HLS 点播列表
// 剪辑是互相独立的 MP4 文件，片段之间需要 DISCONTINUITY 重置解码器
func (a LibraryAPI) getPlaylist(c *gin.Context) {
	name := trimName(c.Param("name"))
	clips := a.libraryCore.FindClips(name)
	if len(clips) == 0 {
		web.Fail(c, reason.ErrNotFound.Withf("no clips for video[%s]", name))
		return
	}

	pl, err := m3u8.NewMediaPlaylist(0, uint(len(clips)))
	if err != nil {
		web.Fail(c, reason.ErrServer.Withf("playlist err[%s]", err.Error()))
		return
	}
	pl.MediaType = m3u8.VOD

	for i, clip := range clips {
		if i > 0 {
			pl.SetDiscontinuity()
		}
		_ = pl.Append(clip.Path, clip.Duration, "")
	}
	pl.Close()

	c.Header("Content-Type", "application/vnd.apple.mpegurl")
	c.Header("Cache-Control", "no-cache")
	c.String(http.StatusOK, pl.String())
}
