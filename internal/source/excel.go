package source

import (
	"io"

	"github.com/xuri/excelize/v2"

	"kpidash/internal/model"
)

// LoadExcel 解析 Excel 上传（取第一个工作表，必须带表头行）
func LoadExcel(r io.Reader) (*model.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, model.NewError(model.ErrParse, "failed to open excel", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, model.NewError(model.ErrParse, "workbook has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, model.NewError(model.ErrParse, "failed to read sheet rows", err)
	}
	if len(rows) == 0 {
		return nil, model.NewError(model.ErrParse, "empty sheet", nil)
	}

	return inferDataset(rows[0], rows[1:]), nil
}
