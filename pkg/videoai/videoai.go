// Package videoai 封装 Video Intelligence 分析调用
// 一次分析拆成两个请求：主特征一个，语音识别单独一个，结果合并后落盘
package videoai

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/storage"
	videointelligence "cloud.google.com/go/videointelligence/apiv1"
	vipb "cloud.google.com/go/videointelligence/apiv1/videointelligencepb"
	"github.com/rainlabel/rainlabel/internal/conf"
	"github.com/rainlabel/rainlabel/internal/core/annotation"
	"golang.org/x/text/language"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// mainFeatures 主请求的特征集，语音识别单独发起
var mainFeatures = []vipb.Feature{
	vipb.Feature_LABEL_DETECTION,
	vipb.Feature_SHOT_CHANGE_DETECTION,
	vipb.Feature_EXPLICIT_CONTENT_DETECTION,
	vipb.Feature_OBJECT_TRACKING,
	vipb.Feature_TEXT_DETECTION,
	vipb.Feature_LOGO_RECOGNITION,
}

type Client struct {
	cfg *conf.Analyze
	log *slog.Logger

	mu         sync.Mutex
	client     *videointelligence.Client
	storage    *storage.Client
	maxRetries int
}

// New 校验配置并构造客户端，远端连接延迟到首次分析时建立
func New(cfg *conf.Analyze) (*Client, error) {
	code := cfg.LanguageCode
	if code == "" {
		code = "ru-RU"
	}
	if _, err := language.Parse(code); err != nil {
		return nil, fmt.Errorf("invalid language code %q: %w", code, err)
	}
	return &Client{
		cfg:        cfg,
		log:        slog.With("pkg", "videoai"),
		maxRetries: 4,
	}, nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var err error
	if c.client != nil {
		err = c.client.Close()
		c.client = nil
	}
	if c.storage != nil {
		if e := c.storage.Close(); err == nil {
			err = e
		}
		c.storage = nil
	}
	return err
}

// getClient 惰性建立分析客户端
func (c *Client) getClient(ctx context.Context) (*videointelligence.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client, nil
	}
	client, err := videointelligence.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("videointelligence client: %w", err)
	}
	c.client = client
	return client, nil
}

func (c *Client) getStorage(ctx context.Context) (*storage.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.storage != nil {
		return c.storage, nil
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}
	c.storage = client
	return client, nil
}

// Annotate 分析本地视频文件，返回规范化的标注文档
// 超过内联大小限制的文件先上传到 GCS，再以 gs:// URI 发起分析
func (c *Client) Annotate(ctx context.Context, filePath string) (*annotation.Document, error) {
	if c.cfg.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	var inputURI string
	var inputContent []byte
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", filePath, err)
	}
	maxInline := c.cfg.MaxInlineBytes
	if maxInline <= 0 {
		maxInline = 524288000 // API 内联上传上限 500MB
	}
	if info.Size() > maxInline {
		inputURI, err = c.uploadToGCS(ctx, filePath)
		if err != nil {
			return nil, err
		}
		c.log.InfoContext(ctx, "大文件已上传 GCS", "uri", inputURI)
	} else {
		inputContent, err = os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filePath, err)
		}
	}

	client, err := c.getClient(ctx)
	if err != nil {
		return nil, err
	}

	reqMain := &vipb.AnnotateVideoRequest{
		InputUri:     inputURI,
		InputContent: inputContent,
		Features:     mainFeatures,
		VideoContext: &vipb.VideoContext{
			LabelDetectionConfig: &vipb.LabelDetectionConfig{
				LabelDetectionMode: vipb.LabelDetectionMode_SHOT_AND_FRAME_MODE,
				StationaryCamera:   false,
				Model:              "builtin/latest",
			},
			TextDetectionConfig: &vipb.TextDetectionConfig{
				LanguageHints: []string{"ru", "en"},
			},
		},
	}
	respMain, err := c.retryAnnotate(ctx, client, reqMain)
	if err != nil {
		return nil, fmt.Errorf("annotate main features: %w", err)
	}

	code := c.cfg.LanguageCode
	if code == "" {
		code = "ru-RU"
	}
	reqSpeech := &vipb.AnnotateVideoRequest{
		InputUri:     inputURI,
		InputContent: inputContent,
		Features:     []vipb.Feature{vipb.Feature_SPEECH_TRANSCRIPTION},
		VideoContext: &vipb.VideoContext{
			SpeechTranscriptionConfig: &vipb.SpeechTranscriptionConfig{
				LanguageCode:               code,
				EnableAutomaticPunctuation: true,
			},
		},
	}
	respSpeech, err := c.retryAnnotate(ctx, client, reqSpeech)
	if err != nil {
		return nil, fmt.Errorf("annotate speech: %w", err)
	}

	doc := convertResults(firstResult(respMain), firstResult(respSpeech))
	doc.VideoName = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	return doc, nil
}

func firstResult(resp *vipb.AnnotateVideoResponse) *vipb.VideoAnnotationResults {
	if resp == nil || len(resp.AnnotationResults) == 0 {
		return nil
	}
	return resp.AnnotationResults[0]
}

// uploadToGCS 上传视频到配置的桶并返回 gs:// URI
func (c *Client) uploadToGCS(ctx context.Context, filePath string) (string, error) {
	if c.cfg.GCSBucket == "" {
		return "", fmt.Errorf("gcs_bucket is required to analyze files over the inline limit")
	}
	client, err := c.getStorage(ctx)
	if err != nil {
		return "", err
	}

	object := filepath.Base(filePath)
	if prefix := strings.Trim(c.cfg.GCSPrefix, "/"); prefix != "" {
		object = prefix + "/" + object
	}

	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", filePath, err)
	}
	defer f.Close()

	w := client.Bucket(c.cfg.GCSBucket).Object(object).NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("upload %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload %s: %w", object, err)
	}
	return fmt.Sprintf("gs://%s/%s", c.cfg.GCSBucket, object), nil
}

// retryAnnotate 对可恢复的错误码指数退避重试
func (c *Client) retryAnnotate(ctx context.Context, client *videointelligence.Client, req *vipb.AnnotateVideoRequest) (*vipb.AnnotateVideoResponse, error) {
	backoff := 750 * time.Millisecond
	var last error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		op, err := client.AnnotateVideo(ctx, req)
		if err == nil {
			resp, werr := op.Wait(ctx)
			if werr == nil {
				return resp, nil
			}
			err = werr
		}
		last = err

		code := status.Code(err)
		if code != codes.Unavailable && code != codes.ResourceExhausted && code != codes.DeadlineExceeded {
			return nil, err
		}
		if attempt == c.maxRetries {
			break
		}
		c.log.Warn("分析请求失败，准备重试", "attempt", attempt+1, "err", err)

		time.Sleep(backoff)
		backoff *= 2
		if backoff > 10*time.Second {
			backoff = 10 * time.Second
		}
	}
	return nil, last
}
