package service

import (
	"amadeus_backend/internal/config"
	"amadeus_backend/internal/model"
	"amadeus_backend/internal/util"
	"amadeus_backend/pkg/logger"
	"amadeus_backend/pkg/monitoring"
	"amadeus_backend/pkg/tracing"
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const questionCountTTL = 5 * time.Minute

type questionaryStore interface {
	FindBySlug(slug string) (*model.Questionary, error)
	FindByID(id uint) (*model.Questionary, error)
	Create(q *model.Questionary) error
	Update(q *model.Questionary) error
	Delete(q *model.Questionary) error
	FindUserQuest(studentID, questionaryID uint) (*model.UserQuest, error)
	FindUserQuestByID(id uint) (*model.UserQuest, error)
	CreateUserQuest(quest *model.UserQuest) error
	FindUserAnswer(id uint) (*model.UserAnswer, error)
	SaveAnswer(answer *model.UserAnswer, quest *model.UserQuest) error
	CountAnswers(questID uint) (answered int64, unanswered int64, err error)
	MarkFinished(questID uint) (bool, error)
}

type questionBank interface {
	ListBySubject(subjectID uint) ([]model.Question, error)
	CountBySubject(subjectID uint) (int64, error)
	CountWithAllTags(tagIDs []uint) (int64, error)
	FindAlternative(id uint) (*model.Alternative, error)
}

type topicStore interface {
	FindTopicBySlug(slug string) (*model.Topic, error)
	CountResourcesInTopic(topicID uint) (int64, error)
	FindTagsByIDs(ids []uint) ([]model.Tag, error)
}

type chatStore interface {
	FindOrCreateConversation(userA, userB uint) (*model.Conversation, error)
	CreateMessage(msg *model.TalkMessage, recipientID uint) error
}

type resourceLogReader interface {
	ListByResource(component, resource string, userIDs []uint, from, to time.Time) ([]model.Log, error)
}

type SpecificationRequest struct {
	NQuestions int    `json:"n_questions" binding:"min=0"`
	Categories []uint `json:"categories"`
}

// QuestionaryRequest 创建与编辑问卷的表单
type QuestionaryRequest struct {
	Name           string                 `json:"name" binding:"required,max=200"`
	Presentation   string                 `json:"presentation"`
	Visible        bool                   `json:"visible"`
	AllStudents    bool                   `json:"all_students"`
	ShowWindow     bool                   `json:"show_window"`
	Students       []string               `json:"students" binding:"omitempty,dive,email"`
	Tags           []uint                 `json:"tags"`
	Specifications []SpecificationRequest `json:"specifications" binding:"omitempty,dive"`
}

type SendMessageRequest struct {
	Users []string `json:"users" binding:"omitempty,dive,email"`
	Text  string   `json:"comment" binding:"required"`
	Image string   `json:"image"`
}

// QuestionaryView 问卷详情；教师视角带受众列表，不会创建作答实例
type QuestionaryView struct {
	Questionary     *model.Questionary `json:"questionary"`
	Quest           *model.UserQuest   `json:"userquest"`
	Students        []model.User       `json:"students,omitempty"`
	SelectedStudent string             `json:"student,omitempty"`
	Answered        int                `json:"answered"`
	Correct         int                `json:"correct"`
	Manager         bool               `json:"manager"`
	Window          bool               `json:"window"`
}

type AnswerResult struct {
	LastUpdate string `json:"last_update"`
	Answered   int64  `json:"answered"`
}

type StudentRef struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type HistoryEntry struct {
	Student  string    `json:"student"`
	Email    string    `json:"email"`
	Action   string    `json:"action"`
	Datetime time.Time `json:"datetime"`
}

// QuestionaryStatistics 受众在时间区间内的查看与完成情况
type QuestionaryStatistics struct {
	InitDate    time.Time      `json:"init_date"`
	EndDate     time.Time      `json:"end_date"`
	Audience    int            `json:"audience"`
	Viewed      int            `json:"viewed"`
	Finished    int            `json:"finished"`
	NotViewed   []StudentRef   `json:"not_viewed"`
	NotFinished []StudentRef   `json:"not_finished"`
	History     []HistoryEntry `json:"history"`
}

type QuestionaryService struct {
	Repo      questionaryStore
	Questions questionBank
	Topics    topicStore
	Users     userStore
	Chat      chatStore
	LogReader resourceLogReader
	Logs      *LogService
	Perms     *PermissionService
	Redis     *redis.Client
	Cfg       *config.Config
}

func NewQuestionaryService(
	repo questionaryStore,
	questions questionBank,
	topics topicStore,
	users userStore,
	chat chatStore,
	logReader resourceLogReader,
	logs *LogService,
	perms *PermissionService,
	rdb *redis.Client,
	cfg *config.Config,
) *QuestionaryService {
	return &QuestionaryService{
		Repo:      repo,
		Questions: questions,
		Topics:    topics,
		Users:     users,
		Chat:      chat,
		LogReader: logReader,
		Logs:      logs,
		Perms:     perms,
		Redis:     rdb,
		Cfg:       cfg,
	}
}

func (s *QuestionaryService) findBySlug(slug string) (*model.Questionary, error) {
	q, err := s.Repo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionaryNotFound
		}
		return nil, errors.Wrap(err, "load questionary")
	}
	return q, nil
}

// Create 在主题下新建问卷
func (s *QuestionaryService) Create(user *model.User, topicSlug string, req QuestionaryRequest) (*model.Questionary, error) {
	topic, err := s.Topics.FindTopicBySlug(topicSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTopicNotFound
		}
		return nil, errors.Wrap(err, "load topic")
	}
	if !s.Perms.HasSubjectPermissions(user, &topic.Subject) {
		return nil, util.ErrPermissionDenied
	}

	total, err := s.Questions.CountBySubject(topic.SubjectID)
	if err != nil {
		return nil, errors.Wrap(err, "count question bank")
	}
	if total == 0 {
		return nil, util.ErrEmptyQuestionBank
	}

	existing, err := s.Topics.CountResourcesInTopic(topic.ID)
	if err != nil {
		return nil, errors.Wrap(err, "count topic resources")
	}

	q := &model.Questionary{
		Resource: model.Resource{
			TopicID: topic.ID,
			Slug:    util.Slugify(req.Name) + "-" + model.GenerateUUID()[:8],
			Type:    model.ResourceQuestionary,
			Order:   int(existing) + 1,
		},
	}
	if err := s.fill(q, topic, req); err != nil {
		return nil, err
	}

	if err := s.Repo.Create(q); err != nil {
		return nil, errors.Wrap(err, "create questionary")
	}
	q.Resource.Topic = *topic

	s.Logs.Create(user, util.LogComponentResources, util.LogActionCreate, string(model.ResourceQuestionary), questionaryLogContext(q))
	return q, nil
}

// Update 编辑问卷并整体替换抽题规则，已生成的作答实例保持不变
func (s *QuestionaryService) Update(user *model.User, topicSlug, slug string, req QuestionaryRequest) (*model.Questionary, error) {
	q, err := s.findBySlug(slug)
	if err != nil {
		return nil, err
	}
	topic := &q.Resource.Topic
	if topic.Slug != topicSlug {
		return nil, util.ErrTopicNotFound
	}
	if !s.Perms.HasSubjectPermissions(user, &topic.Subject) {
		return nil, util.ErrPermissionDenied
	}

	if err := s.fill(q, topic, req); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(q); err != nil {
		return nil, errors.Wrap(err, "update questionary")
	}

	s.Logs.Create(user, util.LogComponentResources, util.LogActionUpdate, string(model.ResourceQuestionary), questionaryLogContext(q))
	return q, nil
}

// fill 将表单写入问卷；n_questions 为 0 的规则被忽略
func (s *QuestionaryService) fill(q *model.Questionary, topic *model.Topic, req QuestionaryRequest) error {
	q.Resource.Name = req.Name
	q.Resource.AllStudents = req.AllStudents
	q.Resource.ShowWindow = req.ShowWindow
	q.Resource.Visible = req.Visible
	if !topic.Visible && !topic.Repository {
		q.Resource.Visible = false
	}
	q.Presentation = req.Presentation

	tags, err := s.Topics.FindTagsByIDs(req.Tags)
	if err != nil {
		return errors.Wrap(err, "load tags")
	}
	q.Resource.Tags = tags

	q.Resource.Students = nil
	if !req.AllStudents && len(req.Students) > 0 {
		students, err := s.Users.FindByEmails(req.Students)
		if err != nil {
			return errors.Wrap(err, "load students")
		}
		q.Resource.Students = students
	}

	specs := make([]model.Specification, 0, len(req.Specifications))
	for _, sr := range req.Specifications {
		if sr.NQuestions <= 0 {
			continue
		}
		cats, err := s.Topics.FindTagsByIDs(sr.Categories)
		if err != nil {
			return errors.Wrap(err, "load specification categories")
		}
		specs = append(specs, model.Specification{NQuestions: sr.NQuestions, Categories: cats})
	}
	q.Specifications = specs
	return nil
}

func (s *QuestionaryService) Delete(user *model.User, slug string) (*model.Questionary, error) {
	q, err := s.findBySlug(slug)
	if err != nil {
		return nil, err
	}
	if !s.Perms.HasSubjectPermissions(user, &q.Resource.Topic.Subject) {
		return nil, util.ErrPermissionDenied
	}
	if err := s.Repo.Delete(q); err != nil {
		return nil, errors.Wrap(err, "delete questionary")
	}

	s.Logs.Create(user, util.LogComponentResources, util.LogActionDelete, string(model.ResourceQuestionary), questionaryLogContext(q))
	return q, nil
}

// View 学生首次访问时抽题并生成作答实例；教师查看所选学生（默认第一位）的作答
func (s *QuestionaryService) View(user *model.User, slug, studentEmail string, window bool) (*QuestionaryView, error) {
	q, err := s.findBySlug(slug)
	if err != nil {
		return nil, err
	}
	if !s.Perms.HasResourcePermissions(user, &q.Resource) {
		return nil, util.ErrPermissionDenied
	}

	view := &QuestionaryView{Questionary: q, Window: window}
	if s.Perms.HasSubjectPermissions(user, &q.Resource.Topic.Subject) {
		view.Manager = true
		view.Students = audience(q)
		if len(view.Students) > 0 {
			selected, ok := &view.Students[0], true
			if studentEmail != "" {
				selected, ok = findByEmail(view.Students, studentEmail)
			}
			if !ok {
				return nil, util.ErrStudentNotInAudience
			}
			view.SelectedStudent = selected.Email
			quest, err := s.Repo.FindUserQuest(selected.ID, q.ResourceID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.Wrap(err, "load student quest")
			}
			if err == nil {
				view.Quest = quest
			}
		}
	} else {
		quest, err := s.ensureQuest(user, q)
		if err != nil {
			return nil, err
		}
		view.Quest = quest
	}

	if view.Quest != nil {
		for _, a := range view.Quest.Answers {
			if a.Answered() {
				view.Answered++
			}
			if a.IsCorrect {
				view.Correct++
			}
		}
	}

	ctx := questionaryLogContext(q)
	ctx["timestamp_start"] = strconv.FormatInt(time.Now().Unix(), 10)
	s.Logs.Create(user, util.LogComponentResources, util.LogActionView, string(model.ResourceQuestionary), ctx)
	return view, nil
}

// ensureQuest 读取或生成学生的作答实例；并发首次访问由唯一索引兜底，失败方读取胜出方的记录
func (s *QuestionaryService) ensureQuest(user *model.User, q *model.Questionary) (*model.UserQuest, error) {
	quest, err := s.Repo.FindUserQuest(user.ID, q.ResourceID)
	if err == nil {
		return quest, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "load user quest")
	}

	answers, err := s.draft(q)
	if err != nil {
		return nil, err
	}
	quest = &model.UserQuest{
		StudentID:     user.ID,
		QuestionaryID: q.ResourceID,
		LastUpdate:    time.Now(),
		Answers:       answers,
	}
	if err := s.Repo.CreateUserQuest(quest); err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.Wrap(err, "create user quest")
		}
		logger.Log.Info("作答实例已由并发请求创建",
			zap.Uint("studentID", user.ID),
			zap.Uint("questionaryID", q.ResourceID))
	} else {
		monitoring.QuestionaryDrafts.Inc()
	}

	quest, err = s.Repo.FindUserQuest(user.ID, q.ResourceID)
	if err != nil {
		return nil, errors.Wrap(err, "reload user quest")
	}
	return quest, nil
}

// draft 按规则依次抽题，跨规则不重复；全部题目的顺序是 1..N 的随机排列
func (s *QuestionaryService) draft(q *model.Questionary) ([]model.UserAnswer, error) {
	bank, err := s.Questions.ListBySubject(q.Resource.Topic.SubjectID)
	if err != nil {
		return nil, errors.Wrap(err, "load question bank")
	}

	picked := make(map[uint]bool)
	var chosen []uint
	for _, spec := range q.Specifications {
		cats := spec.CategoryIDs()
		var candidates []uint
		for _, question := range bank {
			if picked[question.ID] || !question.HasAllCategories(cats) {
				continue
			}
			candidates = append(candidates, question.ID)
		}
		rand.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
		n := min(spec.NQuestions, len(candidates))
		for _, id := range candidates[:n] {
			picked[id] = true
			chosen = append(chosen, id)
		}
	}

	orders := rand.Perm(len(chosen))
	answers := make([]model.UserAnswer, len(chosen))
	for i, id := range chosen {
		answers[i] = model.UserAnswer{QuestionID: id, Order: orders[i] + 1}
	}
	return answers, nil
}

// Answer 提交答案；本次填上了最后一个空位并成功标记完成时才记录 finish
func (s *QuestionaryService) Answer(user *model.User, userAnswerID, alternativeID uint) (*AnswerResult, error) {
	answer, err := s.Repo.FindUserAnswer(userAnswerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserAnswerNotFound
		}
		return nil, errors.Wrap(err, "load user answer")
	}
	quest, err := s.Repo.FindUserQuestByID(answer.UserQuestID)
	if err != nil {
		return nil, errors.Wrap(err, "load user quest")
	}
	if quest.StudentID != user.ID {
		return nil, util.ErrPermissionDenied
	}

	alt, err := s.Questions.FindAlternative(alternativeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAlternativeNotFound
		}
		return nil, errors.Wrap(err, "load alternative")
	}
	if alt.QuestionID != answer.QuestionID {
		return nil, util.ErrAlternativeMismatch
	}
	q, err := s.Repo.FindByID(quest.QuestionaryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionaryNotFound
		}
		return nil, errors.Wrap(err, "load questionary")
	}

	filledEmptySlot := !answer.Answered()
	answer.AnswerID = &alt.ID
	answer.IsCorrect = alt.IsCorrect
	quest.LastUpdate = time.Now()
	if err := s.Repo.SaveAnswer(answer, quest); err != nil {
		return nil, errors.Wrap(err, "save answer")
	}

	answered, unanswered, err := s.Repo.CountAnswers(quest.ID)
	if err != nil {
		return nil, errors.Wrap(err, "count answers")
	}

	ctx := questionaryLogContext(q)
	ctx["question_id"] = answer.QuestionID
	ctx["is_correct"] = answer.IsCorrect
	ctx["time_to_answer"] = quest.LastUpdate.Sub(quest.DataIni).Seconds()
	s.Logs.Create(user, util.LogComponentResources, util.LogActionAnswer, string(model.ResourceQuestionary), ctx)

	if filledEmptySlot && unanswered == 0 {
		finished, err := s.Repo.MarkFinished(quest.ID)
		if err != nil {
			return nil, errors.Wrap(err, "mark finished")
		}
		if finished {
			s.Logs.Create(user, util.LogComponentResources, util.LogActionFinish, string(model.ResourceQuestionary), questionaryLogContext(q))
			monitoring.QuestionaryFinishes.Inc()
		}
	}

	return &AnswerResult{
		LastUpdate: quest.LastUpdate.Format(util.ShortDateTimeFormat),
		Answered:   answered,
	}, nil
}

// CountQuestions 同时带有全部标签的题目数，结果在 Redis 中缓存
func (s *QuestionaryService) CountQuestions(ctx context.Context, tagIDs []uint) (int64, error) {
	if len(tagIDs) == 0 {
		return 0, nil
	}
	ids := append([]uint(nil), tagIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	key := "questionary:count:" + strings.Join(parts, ",")

	if s.Redis != nil {
		if n, err := s.Redis.Get(ctx, key).Int64(); err == nil {
			return n, nil
		}
	}

	n, err := s.Questions.CountWithAllTags(ids)
	if err != nil {
		return 0, errors.Wrap(err, "count questions")
	}

	if s.Redis != nil {
		if err := s.Redis.Set(ctx, key, n, questionCountTTL).Err(); err != nil {
			logger.Log.Warn("缓存题目数量失败", zap.String("key", key), zap.Error(err))
		}
	}
	return n, nil
}

// Statistics 统计受众的查看与完成情况；未给日期时取最近 30 天
func (s *QuestionaryService) Statistics(user *model.User, slug, initDate, endDate string) (*QuestionaryStatistics, error) {
	q, err := s.findBySlug(slug)
	if err != nil {
		return nil, err
	}
	if !s.Perms.HasSubjectPermissions(user, &q.Resource.Topic.Subject) {
		return nil, util.ErrPermissionDenied
	}

	var from, to time.Time
	if initDate == "" && endDate == "" {
		to = time.Now()
		from = to.AddDate(0, 0, -30)
	} else {
		from, to, err = util.ParseDateRange(initDate, endDate, s.Cfg.Report.DateFormats)
		if err != nil {
			return nil, err
		}
	}

	s.Logs.Create(user, util.LogComponentResources, util.LogActionStatistics, string(model.ResourceQuestionary), questionaryLogContext(q))

	students := audience(q)
	ids := make([]uint, len(students))
	byID := make(map[uint]model.User, len(students))
	for i, st := range students {
		ids[i] = st.ID
		byID[st.ID] = st
	}

	logs, err := s.LogReader.ListByResource(util.LogComponentResources, string(model.ResourceQuestionary), ids, from, to)
	if err != nil {
		return nil, errors.Wrap(err, "load questionary logs")
	}

	viewed := make(map[uint]bool)
	finished := make(map[uint]bool)
	stats := &QuestionaryStatistics{
		InitDate:    from,
		EndDate:     to,
		Audience:    len(students),
		NotViewed:   []StudentRef{},
		NotFinished: []StudentRef{},
		History:     []HistoryEntry{},
	}
	match := map[string]uint{"questionary_id": q.ResourceID}
	for _, l := range logs {
		if l.Action != util.LogActionView && l.Action != util.LogActionFinish {
			continue
		}
		if !l.ContextMatches(match) {
			continue
		}
		student, ok := byID[l.UserID]
		if !ok {
			continue
		}
		viewed[l.UserID] = true
		if l.Action == util.LogActionFinish {
			finished[l.UserID] = true
		}
		stats.History = append(stats.History, HistoryEntry{
			Student:  student.DisplayName(),
			Email:    student.Email,
			Action:   l.Action,
			Datetime: l.Datetime,
		})
	}

	for _, st := range students {
		ref := StudentRef{Name: st.DisplayName(), Email: st.Email}
		if !viewed[st.ID] {
			stats.NotViewed = append(stats.NotViewed, ref)
		}
		if !finished[st.ID] {
			stats.NotFinished = append(stats.NotFinished, ref)
		}
	}
	stats.Viewed = len(viewed)
	stats.Finished = len(finished)
	return stats, nil
}

// SendMessage 通过学科私聊向选中的学生发送消息，并在 user-<id> 频道推送通知
func (s *QuestionaryService) SendMessage(ctx context.Context, user *model.User, slug string, req SendMessageRequest) (sent int, err error) {
	ctx, span := tracing.Start(ctx, "QuestionaryService.SendMessage",
		attribute.String("questionary.slug", slug),
		attribute.Int("recipients.requested", len(req.Users)),
	)
	defer func() { tracing.End(span, err) }()

	q, err := s.findBySlug(slug)
	if err != nil {
		return 0, err
	}
	subject := &q.Resource.Topic.Subject
	if !s.Perms.HasSubjectPermissions(user, subject) {
		return 0, util.ErrPermissionDenied
	}
	if len(req.Users) == 0 {
		return 0, util.ErrNoRecipients
	}
	recipients, err := s.Users.FindByEmails(req.Users)
	if err != nil {
		return 0, errors.Wrap(err, "load recipients")
	}
	if len(recipients) == 0 {
		return 0, util.ErrNoRecipients
	}

	for _, to := range recipients {
		conv, err := s.Chat.FindOrCreateConversation(user.ID, to.ID)
		if err != nil {
			return sent, errors.Wrapf(err, "open conversation with %s", to.Email)
		}
		subjectID := subject.ID
		msg := &model.TalkMessage{
			TalkID:    conv.ID,
			UserID:    user.ID,
			SubjectID: &subjectID,
			Text:      req.Text,
			Image:     req.Image,
		}
		if err := s.Chat.CreateMessage(msg, to.ID); err != nil {
			return sent, errors.Wrapf(err, "send message to %s", to.Email)
		}
		sent++
		s.notify(ctx, user, subject, msg, to.ID)
	}

	logCtx := questionaryLogContext(q)
	logCtx["recipients"] = sent
	s.Logs.Create(user, util.LogComponentResources, util.LogActionSend, string(model.ResourceQuestionary), logCtx)
	return sent, nil
}

func (s *QuestionaryService) notify(ctx context.Context, from *model.User, subject *model.Subject, msg *model.TalkMessage, to uint) {
	if s.Redis == nil {
		return
	}
	preview := shorten(msg.Text, 30)
	if msg.Image != "" {
		preview += " [Photo]"
	}
	payload, err := json.Marshal(map[string]interface{}{
		"type":          "chat",
		"subtype":       "subject",
		"space":         subject.Slug,
		"user_icon":     from.ImageURL,
		"notify_title":  from.DisplayName(),
		"simple_notify": preview,
		"message_id":    msg.ID,
		"container":     fmt.Sprintf("chat-%d", from.ID),
		"last_date":     msg.CreateDate.Format(util.ShortDateTimeFormat),
	})
	if err != nil {
		return
	}
	channel := fmt.Sprintf("user-%d", to)
	if err := s.Redis.Publish(ctx, channel, payload).Err(); err != nil {
		logger.Log.Warn("推送聊天通知失败", zap.String("channel", channel), zap.Error(err))
	}
}

// audience 问卷面向的学生，按社交名和用户名排序
func audience(q *model.Questionary) []model.User {
	if q.Resource.AllStudents {
		return q.Resource.Topic.Subject.Students
	}
	return q.Resource.Students
}

func findByEmail(users []model.User, email string) (*model.User, bool) {
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], true
		}
	}
	return nil, false
}

func shorten(text string, width int) string {
	runes := []rune(strings.Join(strings.Fields(text), " "))
	if len(runes) <= width {
		return string(runes)
	}
	return string(runes[:width-3]) + "..."
}

func questionaryLogContext(q *model.Questionary) map[string]interface{} {
	topic := q.Resource.Topic
	subject := topic.Subject
	return map[string]interface{}{
		"category_id":      subject.Category.ID,
		"category_name":    subject.Category.Name,
		"category_slug":    subject.Category.Slug,
		"subject_id":       subject.ID,
		"subject_name":     subject.Name,
		"subject_slug":     subject.Slug,
		"topic_id":         topic.ID,
		"topic_name":       topic.Name,
		"topic_slug":       topic.Slug,
		"questionary_id":   q.ResourceID,
		"questionary_name": q.Resource.Name,
		"questionary_slug": q.Resource.Slug,
	}
}
