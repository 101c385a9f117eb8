package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/user/moviehub/internal/model"
	"github.com/xuri/excelize/v2"
)

// ExportFormat 导出格式
type ExportFormat struct {
	ContentType string
	Filename    string
	write       func(w io.Writer, movies []model.Movie) error
}

var exportFormats = map[string]ExportFormat{
	"json": {ContentType: "application/json", Filename: "movies.json", write: writeJSON},
	"csv":  {ContentType: "text/csv", Filename: "movies.csv", write: writeCSV},
	"xlsx": {
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Filename:    "movies.xlsx",
		write:       writeXLSX,
	},
}

var exportHeaders = []string{"Rank", "Title", "Year", "Rating", "Directors", "Genres"}

// LookupExportFormat 未知格式返回 ErrUnsupportedFormat
func LookupExportFormat(name string) (ExportFormat, error) {
	if name == "" {
		name = "json"
	}
	f, ok := exportFormats[strings.ToLower(name)]
	if !ok {
		return ExportFormat{}, ErrUnsupportedFormat
	}
	return f, nil
}

// Write 按格式写出电影列表
func (f ExportFormat) Write(w io.Writer, movies []model.Movie) error {
	return f.write(w, movies)
}

func writeJSON(w io.Writer, movies []model.Movie) error {
	if movies == nil {
		movies = []model.Movie{}
	}
	data, err := json.MarshalIndent(movies, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化失败: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func exportRow(m model.Movie) []string {
	return []string{
		strconv.Itoa(m.Rank),
		m.Title,
		strconv.Itoa(m.Year),
		strconv.FormatFloat(m.Rating, 'f', -1, 64),
		strings.Join(m.Directors, ", "),
		strings.Join(m.Genres, ", "),
	}
}

func writeCSV(w io.Writer, movies []model.Movie) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeaders); err != nil {
		return fmt.Errorf("写入表头失败: %w", err)
	}
	for _, m := range movies {
		if err := writer.Write(exportRow(m)); err != nil {
			return fmt.Errorf("写入数据失败: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeXLSX(w io.Writer, movies []model.Movie) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "电影"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("创建工作表失败: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}
	last, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	f.SetCellStyle(sheet, "A1", last, bold)

	for i, m := range movies {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), m.Rank)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), m.Title)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), m.Year)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), m.Rating)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), strings.Join(m.Directors, ", "))
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), strings.Join(m.Genres, ", "))
	}

	f.SetColWidth(sheet, "B", "B", 30)
	f.SetColWidth(sheet, "E", "F", 25)

	return f.Write(w)
}
