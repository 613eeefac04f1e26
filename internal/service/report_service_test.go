package service

import (
	"context"
	"encoding/csv"
	"io"
	"strings"
	"testing"
	"time"

	"amadeus_backend/internal/config"
	"amadeus_backend/internal/model"
	"amadeus_backend/internal/repository"
	"amadeus_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fakeCourseReader struct {
	subject   *model.Subject
	topics    []model.Topic
	resources []model.Resource
	tags      map[uint]model.Tag
}

func (f *fakeCourseReader) FindSubjectByID(id uint) (*model.Subject, error) {
	if f.subject.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.subject, nil
}

func (f *fakeCourseReader) FindTopicByID(id uint) (*model.Topic, error) {
	for i := range f.topics {
		if f.topics[i].ID == id {
			return &f.topics[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCourseReader) ListTopicsBySubject(subjectID uint) ([]model.Topic, error) {
	return f.topics, nil
}

func inTopics(id uint, topicIDs []uint) bool {
	for _, t := range topicIDs {
		if t == id {
			return true
		}
	}
	return false
}

func (f *fakeCourseReader) ListResources(topicIDs []uint, t model.ResourceType) ([]model.Resource, error) {
	var out []model.Resource
	for _, r := range f.resources {
		if r.Type == t && inTopics(r.TopicID, topicIDs) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeCourseReader) ListResourceTypes(topicIDs []uint) ([]model.ResourceType, error) {
	seen := make(map[model.ResourceType]bool)
	var out []model.ResourceType
	for _, r := range f.resources {
		if inTopics(r.TopicID, topicIDs) && !seen[r.Type] {
			seen[r.Type] = true
			out = append(out, r.Type)
		}
	}
	return out, nil
}

func (f *fakeCourseReader) ListTagsForType(topicIDs []uint, t model.ResourceType) ([]model.Tag, error) {
	seen := make(map[uint]bool)
	var out []model.Tag
	for _, r := range f.resources {
		if r.Type != t || !inTopics(r.TopicID, topicIDs) {
			continue
		}
		for _, tg := range r.Tags {
			if tg.Name != "" && !seen[tg.ID] {
				seen[tg.ID] = true
				out = append(out, tg)
			}
		}
	}
	return out, nil
}

func (f *fakeCourseReader) FindTagsByIDs(ids []uint) ([]model.Tag, error) {
	var out []model.Tag
	for _, id := range ids {
		if t, ok := f.tags[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeMural struct {
	posts    []model.SubjectPost
	comments []model.Comment
	views    map[uint]int
}

func (f *fakeMural) ListHelpPosts(subjectID uint, from, to time.Time) ([]model.SubjectPost, error) {
	return f.posts, nil
}

func (f *fakeMural) ListComments(postIDs []uint, from, to time.Time) ([]model.Comment, error) {
	return f.comments, nil
}

func (f *fakeMural) CountVisualizations(subjectID uint, userIDs []uint, from, to time.Time) (map[uint]int, error) {
	return f.views, nil
}

type fakeMessages struct {
	messages []repository.SubjectMessage
}

func (f *fakeMessages) ListSubjectMessages(subjectID uint, from, to time.Time) ([]repository.SubjectMessage, error) {
	return f.messages, nil
}

type fakeReportStore struct {
	csv map[uint]model.ReportCSV
	xls map[uint]model.ReportXLS
}

func newFakeReportStore() *fakeReportStore {
	return &fakeReportStore{csv: make(map[uint]model.ReportCSV), xls: make(map[uint]model.ReportXLS)}
}

func (f *fakeReportStore) UpsertCSV(r *model.ReportCSV) error {
	f.csv[r.UserID] = *r
	return nil
}

func (f *fakeReportStore) UpsertXLS(r *model.ReportXLS) error {
	f.xls[r.UserID] = *r
	return nil
}

func (f *fakeReportStore) FindCSV(userID uint) (*model.ReportCSV, error) {
	r, ok := f.csv[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &r, nil
}

func (f *fakeReportStore) FindXLS(userID uint) (*model.ReportXLS, error) {
	r, ok := f.xls[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &r, nil
}

type reportHarness struct {
	fx       *fixture
	courses  *fakeCourseReader
	mural    *fakeMural
	messages *fakeMessages
	logs     *fakeLogStore
	reports  *fakeReportStore
	storage  *memoryStorage
	svc      *ReportService
}

func newReportHarness() *reportHarness {
	fx := newFixture()
	video := model.Resource{TopicID: 10, Name: "Intro", Type: model.ResourceYTVideo, Tags: []model.Tag{tag(3, "video")}}
	video.ID = 7
	conf := model.Resource{TopicID: 10, Name: "Live", Type: model.ResourceWebConference, Tags: []model.Tag{tag(4, "live")}}
	conf.ID = 8
	untagged := model.Resource{TopicID: 10, Name: "Notes", Type: model.ResourcePDFFile}
	untagged.ID = 9

	h := &reportHarness{
		fx: fx,
		courses: &fakeCourseReader{
			subject:   &fx.subject,
			topics:    []model.Topic{fx.topic},
			resources: []model.Resource{video, conf, untagged},
			tags:      map[uint]model.Tag{3: tag(3, "video"), 4: tag(4, "live")},
		},
		mural:    &fakeMural{views: map[uint]int{}},
		messages: &fakeMessages{},
		logs:     &fakeLogStore{},
		reports:  newFakeReportStore(),
		storage:  newMemoryStorage(),
	}
	cfg := &config.Config{Report: config.ReportConfig{
		ExportPrefix: "files",
		DateFormats:  []string{"02/01/2006", "01/02/2006", "2006-01-02"},
	}}
	h.svc = NewReportService(h.courses, h.mural, h.messages, h.logs, h.reports, h.storage,
		NewPermissionService(), nil, cfg)
	return h
}

func (h *reportHarness) addLog(userID uint, action, resource string, at time.Time, ctx map[string]interface{}) {
	h.logs.logs = append(h.logs.logs, model.Log{
		ID:        uint(len(h.logs.logs) + 1),
		UserID:    userID,
		Component: util.LogComponentResources,
		Action:    action,
		Resource:  resource,
		Context:   datatypes.JSONMap(ctx),
		Datetime:  at,
	})
}

func baseRequest() InteractionReportRequest {
	return InteractionReportRequest{
		SubjectID: 5,
		Topic:     "all",
		InitDate:  "01/03/2024",
		EndDate:   "31/03/2024",
	}
}

// column 按表头名称取某学生的值
func column(t *testing.T, table *ReportTable, row int, name string) interface{} {
	t.Helper()
	for i, h := range table.Header {
		if h == name {
			return table.Rows[row][i]
		}
	}
	t.Fatalf("column %q not in header %v", name, table.Header)
	return nil
}

func TestGenerateWithoutLogsIsAllZero(t *testing.T) {
	h := newReportHarness()

	report, err := h.svc.Generate(context.Background(), &h.fx.professor, baseRequest())
	require.NoError(t, err)

	table := report.Table
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "User", table.Header[0])
	assert.Equal(t, []string{"Class", "Performance"}, table.Header[len(table.Header)-2:])
	for _, row := range table.Rows {
		require.Len(t, row, len(table.Header))
		for _, v := range row[1 : len(row)-2] {
			assert.Equal(t, 0, v)
		}
		assert.Equal(t, undefinedValue, row[len(row)-1])
	}
	assert.Equal(t, "ana@example.com", table.Rows[0][0])
	assert.Equal(t, "All", report.TopicName)
}

func TestGenerateAccessHistogram(t *testing.T) {
	h := newReportHarness()
	ctx := map[string]interface{}{"subject_id": float64(5)}
	// 2024-03-04 是星期一
	h.addLog(1, util.LogActionAccess, util.LogComponentSubject, time.Date(2024, 3, 4, 7, 0, 0, 0, time.Local), ctx)
	h.addLog(1, util.LogActionAccess, util.LogComponentSubject, time.Date(2024, 3, 4, 13, 0, 0, 0, time.Local), ctx)
	h.addLog(1, util.LogActionAccess, util.LogComponentSubject, time.Date(2024, 3, 5, 23, 30, 0, 0, time.Local), ctx)
	h.addLog(1, util.LogActionAccess, util.LogComponentSubject, time.Date(2024, 3, 6, 2, 0, 0, 0, time.Local), ctx)
	// 其他学科与区间外的访问不计入
	h.addLog(1, util.LogActionAccess, util.LogComponentSubject, time.Date(2024, 3, 6, 3, 0, 0, 0, time.Local), map[string]interface{}{"subject_id": float64(6)})
	h.addLog(1, util.LogActionAccess, util.LogComponentSubject, time.Date(2024, 4, 1, 9, 0, 0, 0, time.Local), ctx)

	report, err := h.svc.Generate(context.Background(), &h.fx.professor, baseRequest())
	require.NoError(t, err)
	table := report.Table

	assert.Equal(t, 1, column(t, table, 0, "Number of access to mural between 6 a.m to 12 p.m."))
	assert.Equal(t, 1, column(t, table, 0, "Number of access to mural between 12 p.m to 6 p.m."))
	assert.Equal(t, 1, column(t, table, 0, "Number of access to mural between 6 p.m to 12 a.m."))
	assert.Equal(t, 1, column(t, table, 0, "Number of access to mural between 0 a.m to 6 a.m."))
	assert.Equal(t, 2, column(t, table, 0, "Number of access to the subject on monday"))
	assert.Equal(t, 1, column(t, table, 0, "Number of access to the subject on tuesday"))
	assert.Equal(t, 1, column(t, table, 0, "Number of access to the subject on wednesday"))
	assert.Equal(t, 0, column(t, table, 0, "Number of access to the subject on sunday"))
	assert.Equal(t, 3, column(t, table, 0, "Number of distinct days the user access the subject."))
	assert.Equal(t, 0, column(t, table, 1, "Number of access to the subject on monday"))
}

func TestGenerateResourceMetrics(t *testing.T) {
	h := newReportHarness()
	day1 := time.Date(2024, 3, 10, 10, 0, 0, 0, time.Local)
	day2 := time.Date(2024, 3, 11, 10, 0, 0, 0, time.Local)
	video := map[string]interface{}{"subject_id": float64(5), "topic_id": float64(10), "ytvideo_id": float64(7)}
	h.addLog(1, util.LogActionView, "ytvideo", day1, video)
	h.addLog(1, util.LogActionView, "ytvideo", day1.Add(time.Hour), video)
	h.addLog(1, util.LogActionView, "ytvideo", day2, video)
	h.addLog(1, util.LogActionWatch, "ytvideo", day1, map[string]interface{}{
		"subject_id": float64(5), "ytvideo_id": float64(7), "timestamp_start": "1000", "timestamp_end": "6400",
	})
	// 没有结束时间的观看不计时长
	h.addLog(1, util.LogActionWatch, "ytvideo", day2, map[string]interface{}{
		"subject_id": float64(5), "ytvideo_id": float64(7), "timestamp_start": "1000",
	})

	conf := func(extra map[string]interface{}) map[string]interface{} {
		ctx := map[string]interface{}{"subject_id": float64(5), "webconference_id": float64(8)}
		for k, v := range extra {
			ctx[k] = v
		}
		return ctx
	}
	h.addLog(2, util.LogActionInitConference, "webconference", day1, conf(map[string]interface{}{"webconference_init": float64(0)}))
	h.addLog(2, util.LogActionParticipate, "webconference", day1, conf(map[string]interface{}{"webconference_finish": float64(7200)}))
	h.addLog(2, util.LogActionInitConference, "webconference", day2, conf(map[string]interface{}{"webconference_init": float64(100)}))

	req := baseRequest()
	req.Resources = []ResourceSelectionRequest{
		{ResourceType: "ytvideo", Tag: 3},
		{ResourceType: "webconference", Tag: -1},
		{ResourceType: "pdffile", Tag: 0},
	}
	report, err := h.svc.Generate(context.Background(), &h.fx.professor, req)
	require.NoError(t, err)
	table := report.Table

	assert.Equal(t, 3, column(t, table, 0, "number of visualizations of YouTube Video with tag video"))
	assert.Equal(t, 1, column(t, table, 0, "number of visualizations of distinct YouTube Video with tag video"))
	assert.Equal(t, 2, column(t, table, 0, "distinct days YouTube Video with tag video"))
	assert.Equal(t, 1.5, column(t, table, 0, "hours viewed of ytvideo with tag video"))

	assert.Equal(t, 2.0, column(t, table, 1, "hours viewed of webconference"))
	assert.Equal(t, 0.0, column(t, table, 0, "hours viewed of webconference"))

	// 没有标签的资源不参与"全部标签"选择
	assert.Equal(t, 0, column(t, table, 0, "number of visualizations of PDF File"))
	assert.NotContains(t, table.Header, "hours viewed of pdffile")
}

func TestGenerateMuralAndMessages(t *testing.T) {
	h := newReportHarness()
	at := time.Date(2024, 3, 10, 10, 0, 0, 0, time.Local)
	h.mural.posts = []model.SubjectPost{
		{ID: 1, UserID: 1, SpaceID: 5, Action: model.PostActionHelp, CreateDate: at},
		{ID: 2, UserID: 100, SpaceID: 5, Action: model.PostActionHelp, CreateDate: at},
		{ID: 3, UserID: 2, SpaceID: 5, Action: model.PostActionHelp, CreateDate: at},
	}
	h.mural.comments = []model.Comment{
		{PostID: 1, UserID: 100},
		{PostID: 1, UserID: 2},
		{PostID: 2, UserID: 1},
		{PostID: 3, UserID: 1},
		{PostID: 3, UserID: 1},
	}
	h.mural.views = map[uint]int{1: 4}
	h.messages.messages = []repository.SubjectMessage{
		{TalkMessage: model.TalkMessage{UserID: 1}, UserOneID: 1, UserTwoID: 2},
		{TalkMessage: model.TalkMessage{UserID: 1}, UserOneID: 1, UserTwoID: 2},
		{TalkMessage: model.TalkMessage{UserID: 2}, UserOneID: 1, UserTwoID: 2},
		{TalkMessage: model.TalkMessage{UserID: 100}, UserOneID: 100, UserTwoID: 1},
		{TalkMessage: model.TalkMessage{UserID: 1}, UserOneID: 100, UserTwoID: 1},
	}

	req := baseRequest()
	req.FromMural = true
	req.FromMessages = true
	report, err := h.svc.Generate(context.Background(), &h.fx.professor, req)
	require.NoError(t, err)
	table := report.Table

	assert.Equal(t, 1, column(t, table, 0, muralHeader[0]))
	assert.Equal(t, 2, column(t, table, 0, muralHeader[1]))
	assert.Equal(t, 1, column(t, table, 0, muralHeader[2]))
	assert.Equal(t, 2, column(t, table, 0, muralHeader[3]))
	assert.Equal(t, 1, column(t, table, 0, muralHeader[4]))
	assert.Equal(t, 1, column(t, table, 0, muralHeader[5]))
	assert.Equal(t, 4, column(t, table, 0, muralHeader[6]))

	assert.Equal(t, 2, column(t, table, 0, messagesHeader[0]))
	assert.Equal(t, 1, column(t, table, 0, messagesHeader[1]))
	assert.Equal(t, 1, column(t, table, 0, messagesHeader[2]))
	assert.Equal(t, 1, column(t, table, 0, messagesHeader[3]))
	assert.Equal(t, 1, column(t, table, 0, messagesHeader[4]))

	assert.Equal(t, 1, column(t, table, 1, messagesHeader[0]))
	assert.Equal(t, 2, column(t, table, 1, messagesHeader[1]))
	assert.Equal(t, 0, column(t, table, 1, messagesHeader[3]))
}

func TestGenerateOverwritesExports(t *testing.T) {
	h := newReportHarness()
	ctx := context.Background()

	_, err := h.svc.Generate(ctx, &h.fx.professor, baseRequest())
	require.NoError(t, err)

	req := baseRequest()
	req.FromMural = true
	_, err = h.svc.Generate(ctx, &h.fx.professor, req)
	require.NoError(t, err)

	data, err := h.svc.DownloadCSV(h.fx.professor.ID)
	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Contains(t, records[0], muralHeader[0])

	assert.Len(t, h.reports.csv, 1)
	assert.Len(t, h.reports.xls, 1)
	assert.Equal(t, "files/report100.xlsx", h.reports.xls[100].ObjectKey)
	assert.Equal(t, util.MimeXLSX, h.storage.types["files/report100.xlsx"])
	assert.Equal(t, util.MimeCSV, h.storage.types["files/report100.csv"])

	rc, err := h.svc.DownloadXLS(ctx, h.fx.professor.ID)
	require.NoError(t, err)
	defer rc.Close()
	head := make([]byte, 2)
	_, err = io.ReadFull(rc, head)
	require.NoError(t, err)
	assert.Equal(t, "PK", string(head))

	_, err = h.svc.DownloadCSV(1)
	assert.ErrorIs(t, err, util.ErrReportNotFound)
}

func TestGenerateRejectsBadInput(t *testing.T) {
	h := newReportHarness()
	ctx := context.Background()

	student := h.fx.students[0]
	_, err := h.svc.Generate(ctx, &student, baseRequest())
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	req := baseRequest()
	req.EndDate = "not a date"
	_, err = h.svc.Generate(ctx, &h.fx.professor, req)
	assert.ErrorIs(t, err, util.ErrInvalidDate)

	req = baseRequest()
	req.Topic = "999"
	_, err = h.svc.Generate(ctx, &h.fx.professor, req)
	assert.ErrorIs(t, err, util.ErrTopicNotFound)

	req = baseRequest()
	req.Resources = []ResourceSelectionRequest{{ResourceType: "hologram"}}
	_, err = h.svc.Generate(ctx, &h.fx.professor, req)
	assert.ErrorIs(t, err, util.ErrInvalidResourceType)

	req = baseRequest()
	req.SubjectID = 404
	_, err = h.svc.Generate(ctx, &h.fx.professor, req)
	assert.ErrorIs(t, err, util.ErrSubjectNotFound)
}

func TestReportOptions(t *testing.T) {
	h := newReportHarness()
	ctx := context.Background()

	resources, err := h.svc.ResourceOptions(ctx, &h.fx.professor, 5, "all")
	require.NoError(t, err)
	assert.ElementsMatch(t, []ResourceOption{
		{ID: "ytvideo", Name: "YouTube Video"},
		{ID: "webconference", Name: "Web Conference"},
		{ID: "pdffile", Name: "PDF File"},
	}, resources)

	tags, err := h.svc.TagOptions(ctx, &h.fx.professor, 5, "10", "ytvideo")
	require.NoError(t, err)
	assert.Equal(t, []TagOption{{ID: 3, Name: "video"}, {ID: -1, Name: " "}}, tags)

	_, err = h.svc.TagOptions(ctx, &h.fx.professor, 5, "all", "nope")
	assert.ErrorIs(t, err, util.ErrInvalidResourceType)
}
