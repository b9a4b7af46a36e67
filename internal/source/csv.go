package source

import (
	"encoding/csv"
	"errors"
	"io"

	"kpidash/internal/model"
)

// LoadCSV 解析 CSV 上传（逗号分隔，必须带表头行）
func LoadCSV(r io.Reader) (*model.Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, model.NewError(model.ErrParse, "empty csv file", nil)
		}
		return nil, model.NewError(model.ErrParse, "failed to read csv header", err)
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, model.NewError(model.ErrParse, "malformed csv", err)
	}

	return inferDataset(header, records), nil
}
