package service

import (
	"amadeus_backend/internal/config"
	"amadeus_backend/internal/model"
	"amadeus_backend/internal/repository"
	"amadeus_backend/internal/util"
	"amadeus_backend/pkg/logger"
	"amadeus_backend/pkg/monitoring"
	"amadeus_backend/pkg/tracing"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	reportOptionsTTL = time.Minute
	reportSheetName  = "Report"
)

type courseReader interface {
	FindSubjectByID(id uint) (*model.Subject, error)
	FindTopicByID(id uint) (*model.Topic, error)
	ListTopicsBySubject(subjectID uint) ([]model.Topic, error)
	ListResources(topicIDs []uint, resourceType model.ResourceType) ([]model.Resource, error)
	ListResourceTypes(topicIDs []uint) ([]model.ResourceType, error)
	ListTagsForType(topicIDs []uint, resourceType model.ResourceType) ([]model.Tag, error)
	FindTagsByIDs(ids []uint) ([]model.Tag, error)
}

type muralReader interface {
	ListHelpPosts(subjectID uint, from, to time.Time) ([]model.SubjectPost, error)
	ListComments(postIDs []uint, from, to time.Time) ([]model.Comment, error)
	CountVisualizations(subjectID uint, userIDs []uint, from, to time.Time) (map[uint]int, error)
}

type messageReader interface {
	ListSubjectMessages(subjectID uint, from, to time.Time) ([]repository.SubjectMessage, error)
}

type interactionLogReader interface {
	ListForUsers(userIDs []uint, resources []string, from, to time.Time) ([]model.Log, error)
}

type reportStore interface {
	UpsertCSV(report *model.ReportCSV) error
	UpsertXLS(report *model.ReportXLS) error
	FindCSV(userID uint) (*model.ReportCSV, error)
	FindXLS(userID uint) (*model.ReportXLS, error)
}

type objectStorage interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) error
	Open(ctx context.Context, filename string) (io.ReadCloser, error)
}

// ResourceSelectionRequest 资源类型与标签；Tag 为 0 或 -1 表示全部标签
type ResourceSelectionRequest struct {
	ResourceType string `json:"resource" binding:"required"`
	Tag          int    `json:"tag"`
}

type InteractionReportRequest struct {
	SubjectID    uint                       `json:"subject_id" binding:"required"`
	Topic        string                     `json:"topic" binding:"required"`
	InitDate     string                     `json:"init_date" binding:"required"`
	EndDate      string                     `json:"end_date" binding:"required"`
	FromMural    bool                       `json:"from_mural"`
	FromMessages bool                       `json:"from_messages"`
	Resources    []ResourceSelectionRequest `json:"resources" binding:"omitempty,dive"`
}

type InteractionReport struct {
	SubjectName string       `json:"subject_name"`
	TopicName   string       `json:"topic_name"`
	InitDate    string       `json:"init_date"`
	EndDate     string       `json:"end_date"`
	Table       *ReportTable `json:"table"`
}

type ResourceOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TagOption struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type ReportService struct {
	Courses  courseReader
	Mural    muralReader
	Messages messageReader
	Logs     interactionLogReader
	Reports  reportStore
	Storage  objectStorage
	Perms    *PermissionService
	Redis    *redis.Client
	Cfg      *config.Config
}

func NewReportService(
	courses courseReader,
	mural muralReader,
	messages messageReader,
	logs interactionLogReader,
	reports reportStore,
	storage objectStorage,
	perms *PermissionService,
	rdb *redis.Client,
	cfg *config.Config,
) *ReportService {
	return &ReportService{
		Courses:  courses,
		Mural:    mural,
		Messages: messages,
		Logs:     logs,
		Reports:  reports,
		Storage:  storage,
		Perms:    perms,
		Redis:    rdb,
		Cfg:      cfg,
	}
}

func (s *ReportService) loadSubject(user *model.User, subjectID uint) (*model.Subject, error) {
	subject, err := s.Courses.FindSubjectByID(subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubjectNotFound
		}
		return nil, errors.Wrap(err, "load subject")
	}
	if !s.Perms.HasSubjectPermissions(user, subject) {
		return nil, util.ErrPermissionDenied
	}
	return subject, nil
}

// resolveTopics "all" 取学科下全部主题，否则为学科内的单个主题
func (s *ReportService) resolveTopics(subject *model.Subject, choice string) ([]uint, *model.Topic, error) {
	if strings.EqualFold(choice, util.AllTopics) || choice == "" {
		topics, err := s.Courses.ListTopicsBySubject(subject.ID)
		if err != nil {
			return nil, nil, errors.Wrap(err, "list topics")
		}
		ids := make([]uint, len(topics))
		for i, t := range topics {
			ids[i] = t.ID
		}
		return ids, nil, nil
	}

	topicID, err := strconv.ParseUint(choice, 10, 32)
	if err != nil {
		return nil, nil, util.ErrTopicNotFound
	}
	topic, err := s.Courses.FindTopicByID(uint(topicID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrTopicNotFound
		}
		return nil, nil, errors.Wrap(err, "load topic")
	}
	if topic.SubjectID != subject.ID {
		return nil, nil, util.ErrTopicNotFound
	}
	return []uint{topic.ID}, topic, nil
}

// Generate 汇总互动数据并覆盖该用户上一次的导出文件
func (s *ReportService) Generate(ctx context.Context, user *model.User, req InteractionReportRequest) (report *InteractionReport, err error) {
	ctx, span := tracing.Start(ctx, "ReportService.Generate",
		attribute.Int("subject.id", int(req.SubjectID)),
		attribute.String("topic", req.Topic),
	)

	start := time.Now()
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
		}
		monitoring.ReportGenerations.WithLabelValues(status).Inc()
		monitoring.ReportDuration.Observe(time.Since(start).Seconds())
		tracing.End(span, err)
	}()

	subject, err := s.loadSubject(user, req.SubjectID)
	if err != nil {
		return nil, err
	}
	from, to, err := util.ParseDateRange(req.InitDate, req.EndDate, s.Cfg.Report.DateFormats)
	if err != nil {
		return nil, err
	}
	topicIDs, topic, err := s.resolveTopics(subject, req.Topic)
	if err != nil {
		return nil, err
	}

	data := &reportData{
		Subject:      subject,
		FromMural:    req.FromMural,
		FromMessages: req.FromMessages,
	}
	topicName := "All"
	if topic != nil {
		data.TopicID = topic.ID
		topicName = topic.Name
	}

	if err := s.resolveSelections(data, topicIDs, req.Resources); err != nil {
		return nil, err
	}
	if err := s.loadInteractions(data, from, to); err != nil {
		return nil, err
	}

	table := data.build()
	if err := s.export(ctx, user, table); err != nil {
		return nil, err
	}

	logger.Log.Info("互动报表已生成",
		zap.Uint("userID", user.ID),
		zap.Uint("subjectID", subject.ID),
		zap.Int("students", len(table.Rows)),
		zap.Duration("elapsed", time.Since(start)))

	return &InteractionReport{
		SubjectName: subject.Name,
		TopicName:   topicName,
		InitDate:    req.InitDate,
		EndDate:     req.EndDate,
		Table:       table,
	}, nil
}

func (s *ReportService) resolveSelections(data *reportData, topicIDs []uint, reqs []ResourceSelectionRequest) error {
	for _, r := range reqs {
		resourceType := model.ResourceType(strings.ToLower(r.ResourceType))
		if !resourceType.Valid() {
			return util.ErrInvalidResourceType
		}
		resources, err := s.Courses.ListResources(topicIDs, resourceType)
		if err != nil {
			return errors.Wrap(err, "list resources")
		}

		sel := resourceSelection{Type: resourceType, ResourceIDs: make(map[uint]bool)}
		if r.Tag > 0 {
			tags, err := s.Courses.FindTagsByIDs([]uint{uint(r.Tag)})
			if err != nil {
				return errors.Wrap(err, "load tag")
			}
			if len(tags) == 0 {
				return util.ErrInvalidTag
			}
			sel.Tag = &tags[0]
		}

		for _, res := range resources {
			if sel.Tag == nil {
				// 全部标签：该类型资源上任意非空标签
				for _, t := range res.Tags {
					if t.Name != "" {
						sel.ResourceIDs[res.ID] = true
						break
					}
				}
				continue
			}
			if res.HasTag(sel.Tag.ID) {
				sel.ResourceIDs[res.ID] = true
			}
		}
		data.Selections = append(data.Selections, sel)
	}
	return nil
}

func (s *ReportService) loadInteractions(data *reportData, from, to time.Time) error {
	subject := data.Subject
	studentIDs := make([]uint, len(subject.Students))
	for i, st := range subject.Students {
		studentIDs[i] = st.ID
	}

	if data.FromMural {
		posts, err := s.Mural.ListHelpPosts(subject.ID, from, to)
		if err != nil {
			return errors.Wrap(err, "list help posts")
		}
		postIDs := make([]uint, len(posts))
		for i, p := range posts {
			postIDs[i] = p.ID
		}
		comments, err := s.Mural.ListComments(postIDs, from, to)
		if err != nil {
			return errors.Wrap(err, "list comments")
		}
		views, err := s.Mural.CountVisualizations(subject.ID, studentIDs, from, to)
		if err != nil {
			return errors.Wrap(err, "count mural visualizations")
		}
		data.Posts, data.Comments, data.Visualizations = posts, comments, views
	}

	if data.FromMessages {
		msgs, err := s.Messages.ListSubjectMessages(subject.ID, from, to)
		if err != nil {
			return errors.Wrap(err, "list subject messages")
		}
		data.Messages = msgs
	}

	resources := []string{util.LogComponentSubject}
	for _, sel := range data.Selections {
		resources = append(resources, string(sel.Type))
	}
	logs, err := s.Logs.ListForUsers(studentIDs, resources, from, to)
	if err != nil {
		return errors.Wrap(err, "list interaction logs")
	}
	data.Logs = logs
	return nil
}

func exportKey(prefix string, userID uint, ext string) string {
	return path.Join(prefix, fmt.Sprintf("report%d.%s", userID, ext))
}

// export 并发写出 CSV 与电子表格，两者都成功后才更新导出记录
func (s *ReportService) export(ctx context.Context, user *model.User, table *ReportTable) (err error) {
	ctx, span := tracing.Start(ctx, "ReportService.export", attribute.Int("rows", len(table.Rows)))
	defer func() { tracing.End(span, err) }()

	csvKey := exportKey(s.Cfg.Report.ExportPrefix, user.ID, "csv")
	xlsKey := exportKey(s.Cfg.Report.ExportPrefix, user.ID, "xlsx")
	var csvData []byte

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := encodeCSV(table)
		if err != nil {
			return errors.Wrap(err, "encode csv")
		}
		csvData = data
		return errors.Wrap(s.Storage.Upload(gctx, csvKey, bytes.NewReader(data), int64(len(data)), util.MimeCSV), "upload csv")
	})
	g.Go(func() error {
		data, err := encodeXLSX(table)
		if err != nil {
			return errors.Wrap(err, "encode xlsx")
		}
		return errors.Wrap(s.Storage.Upload(gctx, xlsKey, bytes.NewReader(data), int64(len(data)), util.MimeXLSX), "upload xlsx")
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if err := s.Reports.UpsertCSV(&model.ReportCSV{UserID: user.ID, CSVData: string(csvData), ObjectKey: csvKey}); err != nil {
		return errors.Wrap(err, "save csv report")
	}
	if err := s.Reports.UpsertXLS(&model.ReportXLS{UserID: user.ID, ObjectKey: xlsKey}); err != nil {
		return errors.Wrap(err, "save xlsx report")
	}
	return nil
}

func encodeCSV(table *ReportTable) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(table.Header); err != nil {
		return nil, err
	}
	for _, row := range table.Rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = fmt.Sprint(v)
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func encodeXLSX(table *ReportTable) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), reportSheetName); err != nil {
		return nil, err
	}
	header := make([]interface{}, len(table.Header))
	for i, h := range table.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(reportSheetName, "A1", &header); err != nil {
		return nil, err
	}
	for i, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		r := row
		if err := f.SetSheetRow(reportSheetName, cell, &r); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DownloadCSV 返回该用户最近一次生成的 CSV
func (s *ReportService) DownloadCSV(userID uint) ([]byte, error) {
	report, err := s.Reports.FindCSV(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrReportNotFound
		}
		return nil, errors.Wrap(err, "load csv report")
	}
	return []byte(report.CSVData), nil
}

// DownloadXLS 打开该用户最近一次生成的电子表格，调用方负责关闭
func (s *ReportService) DownloadXLS(ctx context.Context, userID uint) (io.ReadCloser, error) {
	report, err := s.Reports.FindXLS(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrReportNotFound
		}
		return nil, errors.Wrap(err, "load xlsx report")
	}
	rc, err := s.Storage.Open(ctx, report.ObjectKey)
	if err != nil {
		return nil, errors.Wrap(err, "open xlsx report")
	}
	return rc, nil
}

// ResourceOptions 主题范围内出现过的资源类型
func (s *ReportService) ResourceOptions(ctx context.Context, user *model.User, subjectID uint, topicChoice string) ([]ResourceOption, error) {
	subject, err := s.loadSubject(user, subjectID)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("report:resources:%d:%s", subject.ID, strings.ToLower(topicChoice))
	var options []ResourceOption
	if s.cached(ctx, key, &options) {
		return options, nil
	}

	topicIDs, _, err := s.resolveTopics(subject, topicChoice)
	if err != nil {
		return nil, err
	}
	types, err := s.Courses.ListResourceTypes(topicIDs)
	if err != nil {
		return nil, errors.Wrap(err, "list resource types")
	}
	options = make([]ResourceOption, 0, len(types))
	for _, t := range types {
		if !t.Valid() {
			continue
		}
		options = append(options, ResourceOption{ID: string(t), Name: model.ResourceTypeNames[t]})
	}
	s.cache(ctx, key, options)
	return options, nil
}

// TagOptions 某类资源的标签，末尾追加表示"全部标签"的空选项
func (s *ReportService) TagOptions(ctx context.Context, user *model.User, subjectID uint, topicChoice, resourceType string) ([]TagOption, error) {
	subject, err := s.loadSubject(user, subjectID)
	if err != nil {
		return nil, err
	}
	t := model.ResourceType(strings.ToLower(resourceType))
	if !t.Valid() {
		return nil, util.ErrInvalidResourceType
	}
	key := fmt.Sprintf("report:tags:%d:%s:%s", subject.ID, strings.ToLower(topicChoice), t)
	var options []TagOption
	if s.cached(ctx, key, &options) {
		return options, nil
	}

	topicIDs, _, err := s.resolveTopics(subject, topicChoice)
	if err != nil {
		return nil, err
	}
	tags, err := s.Courses.ListTagsForType(topicIDs, t)
	if err != nil {
		return nil, errors.Wrap(err, "list tags")
	}
	options = make([]TagOption, 0, len(tags)+1)
	for _, tag := range tags {
		options = append(options, TagOption{ID: int(tag.ID), Name: tag.Name})
	}
	options = append(options, TagOption{ID: -1, Name: " "})
	s.cache(ctx, key, options)
	return options, nil
}

func (s *ReportService) cached(ctx context.Context, key string, dst interface{}) bool {
	if s.Redis == nil {
		return false
	}
	raw, err := s.Redis.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func (s *ReportService) cache(ctx context.Context, key string, value interface{}) {
	if s.Redis == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, key, raw, reportOptionsTTL).Err(); err != nil {
		logger.Log.Warn("缓存报表选项失败", zap.String("key", key), zap.Error(err))
	}
}
