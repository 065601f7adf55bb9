package conf

import (
	"os"
	"path/filepath"
	"time"

	"github.com/ixugo/goddd/pkg/system"
	"github.com/pelletier/go-toml/v2"
)

// Bootstrap 全局配置
type Bootstrap struct {
	BuildVersion string `toml:"-"`
	ConfigPath   string `toml:"-"`

	Server  Server  `toml:"server"`
	Data    Data    `toml:"data"`
	Media   Media   `toml:"media"`
	Analyze Analyze `toml:"analyze"`
}

type Server struct {
	Debug bool `toml:"debug"`
	HTTP  HTTP `toml:"http"`
}

type HTTP struct {
	Port      int    `toml:"port"`
	JwtSecret string `toml:"jwt_secret"`
	PProf     PProf  `toml:"pprof"`
}

type PProf struct {
	Enabled   bool     `toml:"enabled"`
	AccessIps []string `toml:"access_ips"`
}

type Data struct {
	Database Database `toml:"database"`
}

type Database struct {
	// Dsn 以 postgres/mysql 开头使用对应数据库，否则视为 sqlite 文件路径
	Dsn             string   `toml:"dsn"`
	MaxIdleConns    int32    `toml:"max_idle_conns"`
	MaxOpenConns    int32    `toml:"max_open_conns"`
	ConnMaxLifetime Duration `toml:"conn_max_lifetime"`
	SlowThreshold   Duration `toml:"slow_threshold"`
}

// Media 视频库目录配置，三个目录与旁挂元数据的查找顺序相关
type Media struct {
	VideoDir    string  `toml:"video_dir"`    // 视频文件目录
	MetadataDir string  `toml:"metadata_dir"` // 元数据目录（优先）
	LabelDir    string  `toml:"label_dir"`    // 标注结果目录（兜底）
	ClipSeconds float64 `toml:"clip_seconds"` // 演示剪辑时长，播放列表无元数据时使用
}

// Analyze 视频智能分析配置
type Analyze struct {
	LanguageCode   string `toml:"language_code"`    // 语音识别语言，如 ru-RU
	GCSBucket      string `toml:"gcs_bucket"`       // 超大文件上传的存储桶，留空则仅支持内联上传
	GCSPrefix      string `toml:"gcs_prefix"`       // 对象路径前缀
	TimeoutSeconds int    `toml:"timeout_seconds"`  // 单次分析超时，<=0 表示不限制
	MaxInlineBytes int64  `toml:"max_inline_bytes"` // 内联上传上限，超过走 GCS
}

// Duration toml 中以字符串表示的时长，如 "10s"
type Duration string

func (d Duration) Duration() time.Duration {
	v, err := time.ParseDuration(string(d))
	if err != nil {
		return 0
	}
	return v
}

// DefaultBootstrap 默认配置，首次启动时写入配置文件
func DefaultBootstrap() *Bootstrap {
	return &Bootstrap{
		Server: Server{
			HTTP: HTTP{Port: 8000},
		},
		Data: Data{
			Database: Database{
				Dsn:             "rainlabel.db",
				MaxIdleConns:    10,
				MaxOpenConns:    50,
				ConnMaxLifetime: "6h",
				SlowThreshold:   "200ms",
			},
		},
		Media: Media{
			VideoDir:    filepath.Join(system.Getwd(), "videos"),
			MetadataDir: filepath.Join(system.Getwd(), "metadata"),
			LabelDir:    filepath.Join(system.Getwd(), "labels"),
			ClipSeconds: 60,
		},
		Analyze: Analyze{
			LanguageCode:   "ru-RU",
			GCSPrefix:      "video-intel",
			MaxInlineBytes: 524288000, // API 内联上传上限 500MB
		},
	}
}

// SetupConfig 读取配置文件，不存在时写入默认配置
func SetupConfig(path string) (*Bootstrap, error) {
	bc := DefaultBootstrap()
	bc.ConfigPath = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := WriteConfig(bc, path); err != nil {
				return nil, err
			}
			return bc, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, bc); err != nil {
		return nil, err
	}
	return bc, nil
}

// WriteConfig 将配置写回文件
func WriteConfig(bc *Bootstrap, path string) error {
	data, err := toml.Marshal(bc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
