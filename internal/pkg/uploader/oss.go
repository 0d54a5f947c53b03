package uploader

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/guilherme-ufscar/restaurante-sub001/internal/pkg/config"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
)

// Uploader 文件上传接口
type Uploader interface {
	UploadFile(file *multipart.FileHeader) (string, error)
}

// GlobalUploader 全局上传器实例，未配置 OSS 时为 nil
var GlobalUploader Uploader

type AliyunOSSUploader struct {
	client *oss.Client
	bucket *oss.Bucket
	config config.OSSConfig
}

func NewAliyunOSSUploader() (*AliyunOSSUploader, error) {
	cfg := config.GlobalConfig.OSS
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, err
	}

	bucket, err := client.Bucket(cfg.BucketName)
	if err != nil {
		return nil, err
	}

	return &AliyunOSSUploader{
		client: client,
		bucket: bucket,
		config: cfg,
	}, nil
}

// UploadFile 上传文件，返回公开访问 URL
func (u *AliyunOSSUploader) UploadFile(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// 生成唯一文件名: YYYYMMDD/uuid.ext
	ext := filepath.Ext(file.Filename)
	filename := fmt.Sprintf("%s/%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)

	if err = u.bucket.PutObject(filename, src); err != nil {
		return "", err
	}

	return fmt.Sprintf("https://%s.%s/%s", u.config.BucketName, u.config.Endpoint, filename), nil
}

var _ Uploader = (*AliyunOSSUploader)(nil)
