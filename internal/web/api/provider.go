package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"github.com/ixugo/goddd/pkg/orm"
	"github.com/ixugo/goddd/pkg/web"
	"github.com/rainlabel/rainlabel/internal/conf"
	"github.com/rainlabel/rainlabel/internal/core/analyze"
	"github.com/rainlabel/rainlabel/internal/core/analyze/store/analyzedb"
	"github.com/rainlabel/rainlabel/internal/core/annotation"
	"github.com/rainlabel/rainlabel/internal/core/annotation/store/annotationfs"
	"github.com/rainlabel/rainlabel/internal/core/library"
	"github.com/rainlabel/rainlabel/internal/core/library/store/librarydb"
	"github.com/rainlabel/rainlabel/internal/core/timeline"
	"github.com/rainlabel/rainlabel/internal/data"
	"github.com/rainlabel/rainlabel/pkg/videoai"
	"gorm.io/gorm"
)

var ProviderSet = wire.NewSet(
	wire.Struct(new(Usecase), "*"),
	NewHTTPHandler,
	NewAnnotationCore,
	NewLibraryCore, NewLibraryAPI,
	NewAnnotationAPI,
	NewTimelineCore, NewSessionAPI,
	NewVideoAI,
	NewAnalyzeCore, NewAnalyzeAPI,
)

type Usecase struct {
	Conf          *conf.Bootstrap
	DB            *gorm.DB
	LibraryAPI    LibraryAPI
	AnnotationAPI AnnotationAPI
	SessionAPI    SessionAPI
	AnalyzeAPI    AnalyzeAPI
}

// NewHTTPHandler 生成Gin框架路由内容
func NewHTTPHandler(uc *Usecase) http.Handler {
	cfg := uc.Conf.Server
	if cfg.HTTP.JwtSecret == "" {
		uc.Conf.Server.HTTP.JwtSecret = orm.GenerateRandomString(32)
	}
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	g := gin.New()
	// 如果启用了 Pprof，设置 Pprof 监控
	if cfg.HTTP.PProf.Enabled {
		web.SetupPProf(g, &cfg.HTTP.PProf.AccessIps)
	}

	// 启动时把视频目录登记进数据库
	if err := data.SyncLibrary(uc.DB, &uc.Conf.Media); err != nil {
		slog.Error("视频库登记失败", "err", err)
	}

	setupRouter(g, uc)
	return g
}

func NewAnnotationCore(c *conf.Bootstrap) annotation.Core {
	return annotation.NewCore(annotationfs.NewStore(&c.Media))
}

func NewLibraryCore(db *gorm.DB, c *conf.Bootstrap, anno annotation.Core) library.Core {
	store := librarydb.NewDB(db).AutoMigrate(orm.GetEnabledAutoMigrate())
	return library.NewCore(store, anno, &c.Media)
}

func NewTimelineCore(anno annotation.Core, log *slog.Logger) timeline.Core {
	return timeline.NewCore(anno, log)
}

func NewVideoAI(c *conf.Bootstrap) (*videoai.Client, func(), error) {
	client, err := videoai.New(&c.Analyze)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

func NewAnalyzeCore(db *gorm.DB, ai *videoai.Client, lib library.Core, c *conf.Bootstrap) analyze.Core {
	store := analyzedb.NewDB(db).AutoMigrate(orm.GetEnabledAutoMigrate())
	return analyze.NewCore(store, ai, lib,
		analyze.WithTimeout(time.Duration(c.Analyze.TimeoutSeconds)*time.Second),
	)
}
