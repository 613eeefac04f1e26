package repository

import (
	"amadeus_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuestionaryRepository struct {
	DB *gorm.DB
}

func NewQuestionaryRepository(db *gorm.DB) *QuestionaryRepository {
	return &QuestionaryRepository{DB: db}
}

func (r *QuestionaryRepository) preloaded() *gorm.DB {
	return r.DB.
		Preload("Resource.Topic.Subject.Category.Coordinators").
		Preload("Resource.Topic.Subject.Professors").
		Preload("Resource.Topic.Subject.Students", func(db *gorm.DB) *gorm.DB {
			return db.Order("social_name, username")
		}).
		Preload("Resource.Students", func(db *gorm.DB) *gorm.DB {
			return db.Order("social_name, username")
		}).
		Preload("Resource.Tags").
		Preload("Specifications.Categories")
}

func (r *QuestionaryRepository) FindBySlug(slug string) (*model.Questionary, error) {
	var q model.Questionary
	err := r.preloaded().
		Joins("JOIN resources ON resources.id = questionaries.resource_id").
		Where("resources.slug = ? AND resources.deleted_at IS NULL", slug).
		First(&q).Error
	return &q, err
}

func (r *QuestionaryRepository) FindByID(id uint) (*model.Questionary, error) {
	var q model.Questionary
	err := r.preloaded().First(&q, "resource_id = ?", id).Error
	return &q, err
}

// Create 资源、问卷与抽题规则在同一事务中写入
func (r *QuestionaryRepository) Create(q *model.Questionary) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags.*", "Students.*").Create(&q.Resource).Error; err != nil {
			return err
		}
		q.ResourceID = q.Resource.ID
		return tx.Omit("Resource", "Specifications.Categories.*").Create(q).Error
	})
}

// Update 覆盖资源字段、受众与标签，并整体替换抽题规则
func (r *QuestionaryRepository) Update(q *model.Questionary) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Students", "Topic").Save(&q.Resource).Error; err != nil {
			return err
		}
		if err := tx.Model(&q.Resource).Association("Tags").Replace(q.Resource.Tags); err != nil {
			return err
		}
		if err := tx.Model(&q.Resource).Association("Students").Replace(q.Resource.Students); err != nil {
			return err
		}
		if err := tx.Model(&model.Questionary{}).Where("resource_id = ?", q.ResourceID).Update("presentation", q.Presentation).Error; err != nil {
			return err
		}

		var oldIDs []uint
		if err := tx.Model(&model.Specification{}).Where("questionary_id = ?", q.ResourceID).Pluck("id", &oldIDs).Error; err != nil {
			return err
		}
		if len(oldIDs) > 0 {
			if err := tx.Table("specification_categories").Where("specification_id IN ?", oldIDs).Delete(nil).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("id IN ?", oldIDs).Delete(&model.Specification{}).Error; err != nil {
				return err
			}
		}
		for i := range q.Specifications {
			spec := &q.Specifications[i]
			spec.ID = 0
			spec.QuestionaryID = q.ResourceID
			if err := tx.Omit("Categories.*").Create(spec).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete 删除问卷及学生作答记录
func (r *QuestionaryRepository) Delete(q *model.Questionary) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var questIDs []uint
		if err := tx.Model(&model.UserQuest{}).Where("questionary_id = ?", q.ResourceID).Pluck("id", &questIDs).Error; err != nil {
			return err
		}
		if len(questIDs) > 0 {
			if err := tx.Where("user_quest_id IN ?", questIDs).Delete(&model.UserAnswer{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", questIDs).Delete(&model.UserQuest{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("questionary_id = ?", q.ResourceID).Delete(&model.Specification{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Questionary{}, "resource_id = ?", q.ResourceID).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Resource{}, q.ResourceID).Error
	})
}

func orderedAnswers(db *gorm.DB) *gorm.DB {
	return db.Order(clause.OrderByColumn{Column: clause.Column{Name: "order"}})
}

// FindUserQuest 返回学生的作答实例及按 order 排序的答案
func (r *QuestionaryRepository) FindUserQuest(studentID, questionaryID uint) (*model.UserQuest, error) {
	var quest model.UserQuest
	err := r.DB.
		Preload("Answers", orderedAnswers).
		Preload("Answers.Question.Alternatives").
		Where("student_id = ? AND questionary_id = ?", studentID, questionaryID).
		First(&quest).Error
	return &quest, err
}

func (r *QuestionaryRepository) FindUserQuestByID(id uint) (*model.UserQuest, error) {
	var quest model.UserQuest
	err := r.DB.First(&quest, id).Error
	return &quest, err
}

// CreateUserQuest 作答实例与全部答案在同一批次写入；(student, questionary) 冲突时返回 gorm.ErrDuplicatedKey
func (r *QuestionaryRepository) CreateUserQuest(quest *model.UserQuest) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		answers := quest.Answers
		quest.Answers = nil
		if err := tx.Create(quest).Error; err != nil {
			return err
		}
		for i := range answers {
			answers[i].UserQuestID = quest.ID
		}
		if len(answers) > 0 {
			if err := tx.Omit("Question", "Answer").CreateInBatches(answers, 100).Error; err != nil {
				return err
			}
		}
		quest.Answers = answers
		return nil
	})
}

func (r *QuestionaryRepository) FindUserAnswer(id uint) (*model.UserAnswer, error) {
	var answer model.UserAnswer
	err := r.DB.First(&answer, id).Error
	return &answer, err
}

// SaveAnswer 保存答案并刷新作答实例的最后更新时间
func (r *QuestionaryRepository) SaveAnswer(answer *model.UserAnswer, quest *model.UserQuest) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.UserAnswer{}).Where("id = ?", answer.ID).Updates(map[string]interface{}{
			"answer_id":  answer.AnswerID,
			"is_correct": answer.IsCorrect,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&model.UserQuest{}).Where("id = ?", quest.ID).Update("last_update", quest.LastUpdate).Error
	})
}

func (r *QuestionaryRepository) CountAnswers(questID uint) (answered int64, unanswered int64, err error) {
	type row struct {
		Answered   int64
		Unanswered int64
	}
	var res row
	err = r.DB.Model(&model.UserAnswer{}).
		Select("SUM(CASE WHEN answer_id IS NOT NULL THEN 1 ELSE 0 END) AS answered, "+
			"SUM(CASE WHEN answer_id IS NULL THEN 1 ELSE 0 END) AS unanswered").
		Where("user_quest_id = ?", questID).
		Scan(&res).Error
	return res.Answered, res.Unanswered, err
}

// MarkFinished 所有题目都已作答且尚未标记时写入完成时间；并发请求中只有一个返回 true
func (r *QuestionaryRepository) MarkFinished(questID uint) (bool, error) {
	pending := r.DB.Model(&model.UserAnswer{}).
		Select("1").
		Where("user_quest_id = ? AND answer_id IS NULL", questID)
	res := r.DB.Model(&model.UserQuest{}).
		Where("id = ? AND finished_at IS NULL", questID).
		Where("NOT EXISTS (?)", pending).
		Update("finished_at", time.Now())
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
