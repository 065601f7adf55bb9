package api

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/ixugo/goddd/pkg/web"
	"github.com/rainlabel/rainlabel/internal/core/annotation"
)

type AnnotationAPI struct {
	annotationCore annotation.Core
}

func NewAnnotationAPI(core annotation.Core) AnnotationAPI {
	return AnnotationAPI{annotationCore: core}
}

func registerAnnotation(r gin.IRouter, api AnnotationAPI) {
	// 标注文档可能有数 MB，压缩后返回
	r.GET("/metadata/:name", gzip.Gzip(gzip.DefaultCompression), api.getMetadata)
}

// getMetadata 返回规范化后的标注文档
// 旧版扁平标签在读取时已聚合，前端无需区分新旧格式
func (a AnnotationAPI) getMetadata(c *gin.Context) {
	name := trimName(c.Param("name"))
	doc, err := a.annotationCore.GetDocument(c.Request.Context(), name)
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}
