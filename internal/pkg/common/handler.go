package handler

import (
	"mime/multipart"
	"net/http"
	"sync"

	"github.com/guilherme-ufscar/restaurante-sub001/internal/pkg/uploader"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/response"

	"github.com/gin-gonic/gin"
)

// UploadFile 上传文件 (支持批量)
// 餐厅头图、商品图和轮播图都走这个入口
// @Summary 上传文件到 OSS (支持批量)
// @Tags Common
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Files"
// @Success 200 {object} response.Response{data=[]string} "URLs"
// @Router /upload [post]
func UploadFile(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid form data")
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "No files uploaded")
		return
	}

	if uploader.GlobalUploader == nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Uploader not initialized")
		return
	}

	// 按索引写结果，保证返回顺序和上传顺序一致
	urls := make([]string, len(files))

	var wg sync.WaitGroup
	var errOnce sync.Once
	var uploadErr error

	// 限制并发数为 5，避免过多协程
	sem := make(chan struct{}, 5)

	for i, file := range files {
		wg.Add(1)
		go func(index int, f *multipart.FileHeader) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if uploadErr != nil {
				return
			}

			url, err := uploader.GlobalUploader.UploadFile(f)
			if err != nil {
				errOnce.Do(func() {
					uploadErr = err
				})
				return
			}
			urls[index] = url
		}(i, file)
	}

	wg.Wait()

	if uploadErr != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Upload failed: "+uploadErr.Error())
		return
	}

	response.Success(c, urls)
}
