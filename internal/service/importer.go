package service

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/user/moviehub/internal/logging"
	"github.com/user/moviehub/internal/metrics"
	"github.com/user/moviehub/internal/model"
	"github.com/user/moviehub/internal/validation"
)

const importProgressEvery = 10

// ImportStore 导入需要的存储操作
type ImportStore interface {
	DeleteAll(ctx context.Context) (int64, error)
	Create(ctx context.Context, movie *model.Movie) error
	RebuildTextIndex(ctx context.Context) error
}

// ImportResult 导入结果
type ImportResult struct {
	Total   int
	Success int
	Failed  int
	Deleted int64
}

// Importer 把 movies.json 导入数据库，会先清空现有电影
type Importer struct {
	store ImportStore
}

func NewImporter(store ImportStore) *Importer {
	return &Importer{store: store}
}

// ReadRecords 读取 movies.json
func ReadRecords(path string) ([]model.MovieRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取数据文件失败: %w", err)
	}

	var records []model.MovieRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("解析数据文件失败: %w", err)
	}
	return records, nil
}

// Import 清空后逐条插入，单条失败只计数不中断，最后重建全文索引
func (im *Importer) Import(ctx context.Context, records []model.MovieRecord) (*ImportResult, error) {
	result := &ImportResult{Total: len(records)}

	deleted, err := im.store.DeleteAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("清空电影失败: %w", err)
	}
	result.Deleted = deleted
	logging.Info().Int64("deleted", deleted).Msg("[导入] 已清空现有电影")

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		err := im.insert(ctx, rec)
		metrics.RecordImport(err)
		if err != nil {
			result.Failed++
			logging.Warn().Str("title", rec.Title).Int("rank", rec.Rank).Err(err).Msg("[导入] 导入失败")
		} else {
			result.Success++
		}

		if (i+1)%importProgressEvery == 0 {
			logging.Info().Int("done", i+1).Int("total", len(records)).Msg("[导入] 进度")
		}
	}

	if err := im.store.RebuildTextIndex(ctx); err != nil {
		return result, err
	}
	logging.Info().Msg("[导入] 全文索引已重建")

	return result, nil
}

func (im *Importer) insert(ctx context.Context, rec model.MovieRecord) error {
	movie := rec.ToMovie()
	if err := validation.Struct(movie); err != nil {
		return fmt.Errorf("数据校验失败: %w", err)
	}
	return im.store.Create(ctx, movie)
}
