package util

const (
	DateFormat = "2006-01-02"
	// ShortDateTimeFormat 答题接口返回的最后更新时间格式
	ShortDateTimeFormat = "02/01/2006 15:04"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	MimeCSV  = "text/csv"
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// 日志组件与动作
const (
	LogComponentResources = "resources"
	LogComponentSubject   = "subject"

	LogActionView           = "view"
	LogActionCreate         = "create"
	LogActionUpdate         = "update"
	LogActionDelete         = "delete"
	LogActionAnswer         = "answer"
	LogActionFinish         = "finish"
	LogActionAccess         = "access"
	LogActionWatch          = "watch"
	LogActionSend           = "send"
	LogActionStatistics     = "view_statistics"
	LogActionInitConference = "initwebconference"
	LogActionParticipate    = "participate"
)

// AllTopics 报表中表示全部主题的取值
const AllTopics = "all"
