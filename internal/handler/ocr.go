package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/moviehub/internal/utils"
)

// maxOCRImage 上传图片大小上限
const maxOCRImage = 10 << 20

// RecognizeImage 识别上传图片中的文字
func (h *Handler) RecognizeImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		utils.BadRequest(c, "请上传图片")
		return
	}

	f, err := file.Open()
	if err != nil {
		respondError(c, err, "OCR识别失败")
		return
	}
	defer f.Close()

	image, err := io.ReadAll(io.LimitReader(f, maxOCRImage))
	if err != nil {
		respondError(c, err, "OCR识别失败")
		return
	}

	text, err := h.OCR.Recognize(c.Request.Context(), image)
	if err != nil {
		respondError(c, err, "OCR识别失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}
