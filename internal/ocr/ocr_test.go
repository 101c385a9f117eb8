package ocr

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEngine_Languages(t *testing.T) {
	assert.Equal(t, []string{"chi_sim", "eng"}, NewEngine("chi_sim+eng").Languages())
	assert.Equal(t, []string{"eng"}, NewEngine(" + ").Languages())
}

func TestRecognize_EmptyImage(t *testing.T) {
	_, err := NewEngine("eng").Recognize(context.Background(), nil)
	assert.Error(t, err)
}
