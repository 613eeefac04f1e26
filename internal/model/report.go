package model

// ReportCSV 每个用户只保留最近一次生成的 CSV
type ReportCSV struct {
	BaseModel
	UserID    uint   `gorm:"uniqueIndex" json:"userId"`
	CSVData   string `json:"-"`
	ObjectKey string `gorm:"size:255" json:"objectKey"`
}

func (ReportCSV) TableName() string {
	return "report_csvs"
}

// ReportXLS 每个用户只保留最近一次生成的电子表格
type ReportXLS struct {
	BaseModel
	UserID    uint   `gorm:"uniqueIndex" json:"userId"`
	ObjectKey string `gorm:"size:255" json:"objectKey"`
}

func (ReportXLS) TableName() string {
	return "report_xls"
}
