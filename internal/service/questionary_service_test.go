package service

import (
	"context"
	"sync"
	"testing"

	"amadeus_backend/internal/config"
	"amadeus_backend/internal/model"
	"amadeus_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type questionaryHarness struct {
	fx    *fixture
	store *fakeQuestionaryStore
	bank  *fakeQuestionBank
	users *fakeUserStore
	chat  *fakeChatStore
	logs  *fakeLogStore
	svc   *QuestionaryService
}

func newQuestionaryHarness(bankSize int) *questionaryHarness {
	fx := newFixture()
	h := &questionaryHarness{
		fx:    fx,
		store: newFakeQuestionaryStore(fx.quest),
		bank:  newFakeQuestionBank(fx.subject.ID, bankSize),
		users: &fakeUserStore{users: append([]model.User{fx.professor}, fx.students...)},
		chat:  &fakeChatStore{},
		logs:  &fakeLogStore{},
	}
	topics := &fakeTopicStore{
		topic:     &fx.topic,
		resources: 3,
		tags:      map[uint]model.Tag{1: tag(1, "graphs"), 2: tag(2, "trees")},
	}
	cfg := &config.Config{Report: config.ReportConfig{DateFormats: []string{"02/01/2006", "01/02/2006", "2006-01-02"}}}
	h.svc = NewQuestionaryService(h.store, h.bank, topics, h.users, h.chat, h.logs,
		NewLogService(h.logs), NewPermissionService(), nil, cfg)
	return h
}

func TestViewDraftsPermutationOfOrders(t *testing.T) {
	h := newQuestionaryHarness(10)
	student := h.fx.students[0]

	view, err := h.svc.View(&student, "quiz", "", false)
	require.NoError(t, err)
	require.NotNil(t, view.Quest)
	assert.False(t, view.Manager)

	answers := view.Quest.Answers
	require.Len(t, answers, 6)

	orders := make(map[int]bool)
	questions := make(map[uint]bool)
	for _, a := range answers {
		orders[a.Order] = true
		questions[a.QuestionID] = true
		assert.False(t, a.Answered())
	}
	for i := 1; i <= 6; i++ {
		assert.True(t, orders[i], "order %d missing", i)
	}
	assert.Len(t, questions, 6, "questions must not repeat across rules")
	assert.Equal(t, 1, h.logs.count(util.LogActionView))
}

func TestViewTakesWhatTheBankHas(t *testing.T) {
	h := newQuestionaryHarness(4)
	student := h.fx.students[0]

	view, err := h.svc.View(&student, "quiz", "", false)
	require.NoError(t, err)
	assert.Len(t, view.Quest.Answers, 4)
}

func TestViewReusesExistingQuest(t *testing.T) {
	h := newQuestionaryHarness(10)
	student := h.fx.students[0]

	first, err := h.svc.View(&student, "quiz", "", false)
	require.NoError(t, err)
	second, err := h.svc.View(&student, "quiz", "", false)
	require.NoError(t, err)

	assert.Equal(t, first.Quest.ID, second.Quest.ID)
	assert.Equal(t, 1, h.store.createCalls)
	assert.Len(t, h.store.quests, 1)
}

func TestViewConcurrentFirstAccessReadsWinner(t *testing.T) {
	h := newQuestionaryHarness(10)
	student := h.fx.students[0]

	var winner uint
	h.store.beforeCreate = func(quest *model.UserQuest) {
		other := &model.UserQuest{
			StudentID:     quest.StudentID,
			QuestionaryID: quest.QuestionaryID,
			Answers:       []model.UserAnswer{{QuestionID: 1, Order: 1}},
		}
		h.store.mu.Lock()
		h.store.insert(other)
		h.store.mu.Unlock()
		winner = other.ID
	}

	view, err := h.svc.View(&student, "quiz", "", false)
	require.NoError(t, err)
	assert.Equal(t, winner, view.Quest.ID)
	assert.Len(t, view.Quest.Answers, 1)
	assert.Len(t, h.store.quests, 1)
}

func TestViewAsProfessorNeverCreatesQuest(t *testing.T) {
	h := newQuestionaryHarness(10)

	view, err := h.svc.View(&h.fx.professor, "quiz", "", false)
	require.NoError(t, err)
	assert.True(t, view.Manager)
	assert.Nil(t, view.Quest)
	assert.Equal(t, "ana@example.com", view.SelectedStudent)
	assert.Len(t, view.Students, 2)
	assert.Equal(t, 0, h.store.createCalls)

	_, err = h.svc.View(&h.fx.professor, "quiz", "nobody@example.com", false)
	assert.ErrorIs(t, err, util.ErrStudentNotInAudience)
}

func TestViewDeniedForOutsider(t *testing.T) {
	h := newQuestionaryHarness(10)
	outsider := user(42, "x@example.com")

	_, err := h.svc.View(&outsider, "quiz", "", false)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = h.svc.View(&outsider, "missing", "", false)
	assert.ErrorIs(t, err, util.ErrQuestionaryNotFound)
}

func TestViewHiddenFromStudentsOutsideSelection(t *testing.T) {
	h := newQuestionaryHarness(10)
	h.fx.quest.Resource.AllStudents = false
	h.fx.quest.Resource.Students = []model.User{h.fx.students[1]}
	student := h.fx.students[0]

	_, err := h.svc.View(&student, "quiz", "", false)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestAnswerEmitsSingleFinish(t *testing.T) {
	h := newQuestionaryHarness(10)
	student := h.fx.students[0]

	view, err := h.svc.View(&student, "quiz", "", false)
	require.NoError(t, err)

	answers := view.Quest.Answers
	for i, a := range answers {
		res, err := h.svc.Answer(&student, a.ID, a.QuestionID*10)
		require.NoError(t, err)
		assert.EqualValues(t, i+1, res.Answered)
		assert.NotEmpty(t, res.LastUpdate)
		if i < len(answers)-1 {
			assert.Equal(t, 0, h.logs.count(util.LogActionFinish))
		}
	}
	assert.Equal(t, 1, h.logs.count(util.LogActionFinish))
	assert.Equal(t, len(answers), h.logs.count(util.LogActionAnswer))

	// 修改已作答的题目不会再次完成
	last := answers[len(answers)-1]
	_, err = h.svc.Answer(&student, last.ID, last.QuestionID*10+1)
	require.NoError(t, err)
	assert.Equal(t, 1, h.logs.count(util.LogActionFinish))

	again, err := h.svc.View(&student, "quiz", "", false)
	require.NoError(t, err)
	assert.Equal(t, 6, again.Answered)
	assert.Equal(t, 5, again.Correct)
}

func TestAnswerValidation(t *testing.T) {
	h := newQuestionaryHarness(10)
	student := h.fx.students[0]

	view, err := h.svc.View(&student, "quiz", "", false)
	require.NoError(t, err)
	a := view.Quest.Answers[0]

	_, err = h.svc.Answer(&student, 9999, a.QuestionID*10)
	assert.ErrorIs(t, err, util.ErrUserAnswerNotFound)

	_, err = h.svc.Answer(&student, a.ID, 9999)
	assert.ErrorIs(t, err, util.ErrAlternativeNotFound)

	otherQuestion := a.QuestionID%10 + 1
	_, err = h.svc.Answer(&student, a.ID, otherQuestion*10)
	assert.ErrorIs(t, err, util.ErrAlternativeMismatch)

	// 非本人的作答在校验选项之前就被拒绝
	intruder := h.fx.students[1]
	_, err = h.svc.Answer(&intruder, a.ID, a.QuestionID*10)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
	_, err = h.svc.Answer(&intruder, a.ID, 9999)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
	_, err = h.svc.Answer(&intruder, a.ID, otherQuestion*10)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestAnswerFinishAlreadyClaimed(t *testing.T) {
	h := newQuestionaryHarness(10)
	student := h.fx.students[0]

	view, err := h.svc.View(&student, "quiz", "", false)
	require.NoError(t, err)
	answers := view.Quest.Answers
	for _, a := range answers[:len(answers)-1] {
		_, err := h.svc.Answer(&student, a.ID, a.QuestionID*10)
		require.NoError(t, err)
	}

	// 另一个请求已经写入完成时间
	h.store.finished[view.Quest.ID] = true
	last := answers[len(answers)-1]
	res, err := h.svc.Answer(&student, last.ID, last.QuestionID*10)
	require.NoError(t, err)
	assert.EqualValues(t, len(answers), res.Answered)
	assert.Equal(t, 0, h.logs.count(util.LogActionFinish))
}

func TestAnswerConcurrentLastSlots(t *testing.T) {
	h := newQuestionaryHarness(10)
	student := h.fx.students[0]

	view, err := h.svc.View(&student, "quiz", "", false)
	require.NoError(t, err)
	answers := view.Quest.Answers
	for _, a := range answers[:len(answers)-2] {
		_, err := h.svc.Answer(&student, a.ID, a.QuestionID*10)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	for _, a := range answers[len(answers)-2:] {
		wg.Add(1)
		go func(a model.UserAnswer) {
			defer wg.Done()
			_, err := h.svc.Answer(&student, a.ID, a.QuestionID*10)
			assert.NoError(t, err)
		}(a)
	}
	wg.Wait()
	assert.Equal(t, 1, h.logs.count(util.LogActionFinish))
}

func TestCreateQuestionary(t *testing.T) {
	h := newQuestionaryHarness(10)
	h.fx.topic.Visible = false

	req := QuestionaryRequest{
		Name:        "Graph Basics",
		Visible:     true,
		AllStudents: true,
		Tags:        []uint{2},
		Specifications: []SpecificationRequest{
			{NQuestions: 2, Categories: []uint{1}},
			{NQuestions: 0, Categories: []uint{2}},
		},
	}
	q, err := h.svc.Create(&h.fx.professor, "graphs", req)
	require.NoError(t, err)

	assert.Equal(t, 4, q.Resource.Order)
	assert.False(t, q.Resource.Visible, "hidden topic hides its questionaries")
	assert.Equal(t, model.ResourceQuestionary, q.Resource.Type)
	assert.Contains(t, q.Resource.Slug, "graph-basics-")
	require.Len(t, q.Specifications, 1)
	assert.Equal(t, 2, q.Specifications[0].NQuestions)
	assert.Len(t, q.Resource.Tags, 1)
	assert.Equal(t, 1, h.logs.count(util.LogActionCreate))
}

func TestCreateQuestionaryRequiresBankAndPermission(t *testing.T) {
	h := newQuestionaryHarness(0)
	req := QuestionaryRequest{Name: "Empty"}

	_, err := h.svc.Create(&h.fx.professor, "graphs", req)
	assert.ErrorIs(t, err, util.ErrEmptyQuestionBank)

	student := h.fx.students[0]
	_, err = h.svc.Create(&student, "graphs", req)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = h.svc.Create(&h.fx.professor, "nope", req)
	assert.ErrorIs(t, err, util.ErrTopicNotFound)
}

func TestUpdateAndDeleteQuestionary(t *testing.T) {
	h := newQuestionaryHarness(10)
	req := QuestionaryRequest{
		Name:           "Renamed",
		Visible:        true,
		Students:       []string{"bia@example.com"},
		Specifications: []SpecificationRequest{{NQuestions: 5, Categories: []uint{1}}},
	}

	q, err := h.svc.Update(&h.fx.professor, "graphs", "quiz", req)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", q.Resource.Name)
	assert.False(t, q.Resource.AllStudents)
	require.Len(t, q.Resource.Students, 1)
	assert.Equal(t, uint(2), q.Resource.Students[0].ID)
	require.Len(t, q.Specifications, 1)
	assert.Same(t, q, h.store.updated)

	_, err = h.svc.Update(&h.fx.professor, "other-topic", "quiz", req)
	assert.ErrorIs(t, err, util.ErrTopicNotFound)

	_, err = h.svc.Delete(&h.fx.professor, "quiz")
	require.NoError(t, err)
	assert.True(t, h.store.deleted)
	assert.Equal(t, 1, h.logs.count(util.LogActionDelete))
}

func TestCountQuestions(t *testing.T) {
	h := newQuestionaryHarness(7)

	n, err := h.svc.CountQuestions(context.Background(), []uint{1})
	require.NoError(t, err)
	assert.EqualValues(t, 7, n)

	n, err = h.svc.CountQuestions(context.Background(), []uint{1, 2})
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	n, err = h.svc.CountQuestions(context.Background(), nil)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestStatistics(t *testing.T) {
	h := newQuestionaryHarness(2)
	h.fx.quest.Specifications = []model.Specification{{NQuestions: 1, Categories: []model.Tag{tag(1, "graphs")}}}
	student := h.fx.students[0]

	view, err := h.svc.View(&student, "quiz", "", false)
	require.NoError(t, err)
	a := view.Quest.Answers[0]
	_, err = h.svc.Answer(&student, a.ID, a.QuestionID*10)
	require.NoError(t, err)

	stats, err := h.svc.Statistics(&h.fx.professor, "quiz", "", "")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Audience)
	assert.Equal(t, 1, stats.Viewed)
	assert.Equal(t, 1, stats.Finished)
	require.Len(t, stats.NotViewed, 1)
	assert.Equal(t, "bia@example.com", stats.NotViewed[0].Email)
	require.Len(t, stats.NotFinished, 1)
	require.Len(t, stats.History, 2)
	assert.Equal(t, util.LogActionView, stats.History[0].Action)
	assert.Equal(t, util.LogActionFinish, stats.History[1].Action)

	_, err = h.svc.Statistics(&student, "quiz", "", "")
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = h.svc.Statistics(&h.fx.professor, "quiz", "31/12/2024", "01/01/2024")
	assert.ErrorIs(t, err, util.ErrInvalidDateRange)
}

func TestSendMessage(t *testing.T) {
	h := newQuestionaryHarness(10)

	n, err := h.svc.SendMessage(context.Background(), &h.fx.professor, "quiz", SendMessageRequest{
		Users: []string{"ana@example.com", "bia@example.com"},
		Text:  "Please finish the questionary",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, h.chat.conversations, 2)
	require.Len(t, h.chat.messages, 2)
	assert.Equal(t, h.fx.subject.ID, *h.chat.messages[0].SubjectID)
	assert.Equal(t, []uint{1, 2}, h.chat.recipients)
	assert.Equal(t, 1, h.logs.count(util.LogActionSend))

	_, err = h.svc.SendMessage(context.Background(), &h.fx.professor, "quiz", SendMessageRequest{Text: "hi"})
	assert.ErrorIs(t, err, util.ErrNoRecipients)
}
