package service

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"amadeus_backend/internal/model"
	"amadeus_backend/internal/repository"

	"gorm.io/gorm"
)

func user(id uint, email string) model.User {
	u := model.User{Email: email, Username: email}
	u.ID = id
	return u
}

func tag(id uint, name string) model.Tag {
	t := model.Tag{Name: name}
	t.ID = id
	return t
}

// fixture 一个学科：教师 100，学生 1、2，主题 10 下的问卷 50
type fixture struct {
	professor model.User
	students  []model.User
	subject   model.Subject
	topic     model.Topic
	quest     *model.Questionary
}

func newFixture() *fixture {
	f := &fixture{
		professor: user(100, "prof@example.com"),
		students:  []model.User{user(1, "ana@example.com"), user(2, "bia@example.com")},
	}
	f.subject = model.Subject{Name: "Algorithms", Slug: "algorithms", Visible: true}
	f.subject.ID = 5
	f.subject.Professors = []model.User{f.professor}
	f.subject.Students = f.students

	f.topic = model.Topic{SubjectID: 5, Subject: f.subject, Name: "Graphs", Slug: "graphs", Visible: true}
	f.topic.ID = 10

	res := model.Resource{
		TopicID:     10,
		Topic:       f.topic,
		Name:        "Quiz",
		Slug:        "quiz",
		Type:        model.ResourceQuestionary,
		Visible:     true,
		AllStudents: true,
	}
	res.ID = 50
	f.quest = &model.Questionary{
		ResourceID: 50,
		Resource:   res,
		Specifications: []model.Specification{
			{NQuestions: 3, Categories: []model.Tag{tag(1, "graphs")}},
			{NQuestions: 3, Categories: []model.Tag{tag(1, "graphs")}},
		},
	}
	return f
}

type fakeQuestionaryStore struct {
	mu          sync.Mutex
	questionary *model.Questionary
	quests      map[uint]*model.UserQuest
	answers     map[uint]*model.UserAnswer
	finished    map[uint]bool
	nextID      uint
	createCalls int
	// beforeCreate 模拟并发请求抢先写入
	beforeCreate func(quest *model.UserQuest)
	created      *model.Questionary
	updated      *model.Questionary
	deleted      bool
}

func newFakeQuestionaryStore(q *model.Questionary) *fakeQuestionaryStore {
	return &fakeQuestionaryStore{
		questionary: q,
		quests:      make(map[uint]*model.UserQuest),
		answers:     make(map[uint]*model.UserAnswer),
		finished:    make(map[uint]bool),
		nextID:      1,
	}
}

func (f *fakeQuestionaryStore) FindBySlug(slug string) (*model.Questionary, error) {
	if f.questionary == nil || f.questionary.Resource.Slug != slug {
		return nil, gorm.ErrRecordNotFound
	}
	return f.questionary, nil
}

func (f *fakeQuestionaryStore) FindByID(id uint) (*model.Questionary, error) {
	if f.questionary == nil || f.questionary.ResourceID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.questionary, nil
}

func (f *fakeQuestionaryStore) Create(q *model.Questionary) error {
	q.Resource.ID = 77
	q.ResourceID = 77
	f.created = q
	return nil
}

func (f *fakeQuestionaryStore) Update(q *model.Questionary) error {
	f.updated = q
	return nil
}

func (f *fakeQuestionaryStore) Delete(q *model.Questionary) error {
	f.deleted = true
	return nil
}

func (f *fakeQuestionaryStore) snapshot(quest *model.UserQuest) *model.UserQuest {
	cp := *quest
	cp.Answers = nil
	for _, a := range f.answers {
		if a.UserQuestID == quest.ID {
			cp.Answers = append(cp.Answers, *a)
		}
	}
	sort.Slice(cp.Answers, func(i, j int) bool { return cp.Answers[i].Order < cp.Answers[j].Order })
	return &cp
}

func (f *fakeQuestionaryStore) FindUserQuest(studentID, questionaryID uint) (*model.UserQuest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, q := range f.quests {
		if q.StudentID == studentID && q.QuestionaryID == questionaryID {
			return f.snapshot(q), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeQuestionaryStore) FindUserQuestByID(id uint) (*model.UserQuest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.quests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return f.snapshot(q), nil
}

func (f *fakeQuestionaryStore) insert(quest *model.UserQuest) {
	quest.ID = f.nextID
	f.nextID++
	quest.DataIni = time.Now()
	stored := *quest
	stored.Answers = nil
	f.quests[quest.ID] = &stored
	for i := range quest.Answers {
		a := quest.Answers[i]
		a.ID = f.nextID
		f.nextID++
		a.UserQuestID = quest.ID
		f.answers[a.ID] = &a
	}
}

func (f *fakeQuestionaryStore) CreateUserQuest(quest *model.UserQuest) error {
	if f.beforeCreate != nil {
		hook := f.beforeCreate
		f.beforeCreate = nil
		hook(quest)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	for _, q := range f.quests {
		if q.StudentID == quest.StudentID && q.QuestionaryID == quest.QuestionaryID {
			return gorm.ErrDuplicatedKey
		}
	}
	f.insert(quest)
	return nil
}

func (f *fakeQuestionaryStore) FindUserAnswer(id uint) (*model.UserAnswer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.answers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeQuestionaryStore) SaveAnswer(answer *model.UserAnswer, quest *model.UserQuest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := f.answers[answer.ID]
	stored.AnswerID = answer.AnswerID
	stored.IsCorrect = answer.IsCorrect
	f.quests[quest.ID].LastUpdate = quest.LastUpdate
	return nil
}

func (f *fakeQuestionaryStore) CountAnswers(questID uint) (int64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var answered, unanswered int64
	for _, a := range f.answers {
		if a.UserQuestID != questID {
			continue
		}
		if a.Answered() {
			answered++
		} else {
			unanswered++
		}
	}
	return answered, unanswered, nil
}

func (f *fakeQuestionaryStore) MarkFinished(questID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.finished[questID] {
		return false, nil
	}
	for _, a := range f.answers {
		if a.UserQuestID == questID && !a.Answered() {
			return false, nil
		}
	}
	f.finished[questID] = true
	return true, nil
}

type fakeQuestionBank struct {
	questions    []model.Question
	alternatives map[uint]*model.Alternative
}

// newFakeQuestionBank n 道题，全部带标签 1，每题两个选项：id*10 正确，id*10+1 错误
func newFakeQuestionBank(subjectID uint, n int) *fakeQuestionBank {
	b := &fakeQuestionBank{alternatives: make(map[uint]*model.Alternative)}
	for i := 1; i <= n; i++ {
		q := model.Question{SubjectID: subjectID, Categories: []model.Tag{tag(1, "graphs")}}
		q.ID = uint(i)
		b.questions = append(b.questions, q)
		right := &model.Alternative{QuestionID: q.ID, IsCorrect: true}
		right.ID = q.ID * 10
		wrong := &model.Alternative{QuestionID: q.ID}
		wrong.ID = q.ID*10 + 1
		b.alternatives[right.ID] = right
		b.alternatives[wrong.ID] = wrong
	}
	return b
}

func (b *fakeQuestionBank) ListBySubject(subjectID uint) ([]model.Question, error) {
	var out []model.Question
	for _, q := range b.questions {
		if q.SubjectID == subjectID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (b *fakeQuestionBank) CountBySubject(subjectID uint) (int64, error) {
	qs, _ := b.ListBySubject(subjectID)
	return int64(len(qs)), nil
}

func (b *fakeQuestionBank) CountWithAllTags(tagIDs []uint) (int64, error) {
	var n int64
	for _, q := range b.questions {
		if q.HasAllCategories(tagIDs) {
			n++
		}
	}
	return n, nil
}

func (b *fakeQuestionBank) FindAlternative(id uint) (*model.Alternative, error) {
	a, ok := b.alternatives[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

type fakeTopicStore struct {
	topic     *model.Topic
	resources int64
	tags      map[uint]model.Tag
}

func (f *fakeTopicStore) FindTopicBySlug(slug string) (*model.Topic, error) {
	if f.topic == nil || f.topic.Slug != slug {
		return nil, gorm.ErrRecordNotFound
	}
	return f.topic, nil
}

func (f *fakeTopicStore) CountResourcesInTopic(topicID uint) (int64, error) {
	return f.resources, nil
}

func (f *fakeTopicStore) FindTagsByIDs(ids []uint) ([]model.Tag, error) {
	var out []model.Tag
	for _, id := range ids {
		if t, ok := f.tags[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeUserStore struct {
	users []model.User
}

func (f *fakeUserStore) Create(u *model.User) error {
	u.ID = uint(len(f.users) + 1000)
	f.users = append(f.users, *u)
	return nil
}

func (f *fakeUserStore) FindByID(id uint) (*model.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			return &f.users[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) FindByEmail(email string) (*model.User, error) {
	for i := range f.users {
		if f.users[i].Email == email {
			return &f.users[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) FindByEmails(emails []string) ([]model.User, error) {
	var out []model.User
	for _, e := range emails {
		if u, err := f.FindByEmail(e); err == nil {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserStore) UpdateLastLogin(userID uint) error { return nil }

type fakeChatStore struct {
	conversations []model.Conversation
	messages      []model.TalkMessage
	recipients    []uint
}

func (f *fakeChatStore) FindOrCreateConversation(a, b uint) (*model.Conversation, error) {
	for i, c := range f.conversations {
		if (c.UserOneID == a && c.UserTwoID == b) || (c.UserOneID == b && c.UserTwoID == a) {
			return &f.conversations[i], nil
		}
	}
	c := model.Conversation{ID: uint(len(f.conversations) + 1), UserOneID: a, UserTwoID: b}
	f.conversations = append(f.conversations, c)
	return &c, nil
}

func (f *fakeChatStore) CreateMessage(msg *model.TalkMessage, recipientID uint) error {
	msg.ID = uint(len(f.messages) + 1)
	f.messages = append(f.messages, *msg)
	f.recipients = append(f.recipients, recipientID)
	return nil
}

// fakeLogStore 同时充当日志写入与查询
type fakeLogStore struct {
	mu   sync.Mutex
	logs []model.Log
}

func (f *fakeLogStore) Create(l *model.Log) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l.ID = uint(len(f.logs) + 1)
	if l.Datetime.IsZero() {
		l.Datetime = time.Now()
	}
	f.logs = append(f.logs, *l)
	return nil
}

func (f *fakeLogStore) List(filter repository.LogFilter, page, limit int) ([]model.Log, int64, error) {
	var out []model.Log
	for _, l := range f.logs {
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

func (f *fakeLogStore) ListByResource(component, resource string, userIDs []uint, from, to time.Time) ([]model.Log, error) {
	ids := make(map[uint]bool)
	for _, id := range userIDs {
		ids[id] = true
	}
	var out []model.Log
	for _, l := range f.logs {
		if l.Component == component && l.Resource == resource && ids[l.UserID] &&
			!l.Datetime.Before(from) && l.Datetime.Before(to) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLogStore) ListForUsers(userIDs []uint, resources []string, from, to time.Time) ([]model.Log, error) {
	ids := make(map[uint]bool)
	for _, id := range userIDs {
		ids[id] = true
	}
	res := make(map[string]bool)
	for _, r := range resources {
		res[r] = true
	}
	var out []model.Log
	for _, l := range f.logs {
		if ids[l.UserID] && res[l.Resource] && !l.Datetime.Before(from) && l.Datetime.Before(to) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLogStore) count(action string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, l := range f.logs {
		if l.Action == action {
			n++
		}
	}
	return n
}

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (m *memoryStorage) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[filename] = data
	m.types[filename] = contentType
	return nil
}

func (m *memoryStorage) Open(ctx context.Context, filename string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[filename]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
