//go:build wireinject

package app

import (
	"log/slog"
	"net/http"

	"github.com/google/wire"
	"github.com/rainlabel/rainlabel/internal/conf"
	"github.com/rainlabel/rainlabel/internal/data"
	"github.com/rainlabel/rainlabel/internal/web/api"
)

func wireApp(bc *conf.Bootstrap, log *slog.Logger) (http.Handler, func(), error) {
	panic(wire.Build(data.ProviderSet, api.ProviderSet))
}
