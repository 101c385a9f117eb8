// Package ocr 基于 Tesseract 的图片文字识别
package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Engine 每次识别创建独立的 Tesseract 客户端，用完即关闭
type Engine struct {
	languages []string
}

// NewEngine languages 形如 "chi_sim+eng"
func NewEngine(languages string) *Engine {
	var langs []string
	for _, l := range strings.Split(languages, "+") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	if len(langs) == 0 {
		langs = []string{"eng"}
	}
	return &Engine{languages: langs}
}

// Languages 识别语言
func (e *Engine) Languages() []string {
	return e.languages
}

// Recognize 识别图片内容
func (e *Engine) Recognize(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("图片为空")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.languages...); err != nil {
		return "", fmt.Errorf("设置识别语言失败: %w", err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("加载图片失败: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("识别失败: %w", err)
	}
	return strings.TrimSpace(text), nil
}
