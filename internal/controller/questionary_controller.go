package controller

import (
	"amadeus_backend/internal/service"
	"amadeus_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionaryController struct {
	Service *service.QuestionaryService
	Auth    *service.AuthService
	HomeURL string
}

func NewQuestionaryController(svc *service.QuestionaryService, auth *service.AuthService, homeURL string) *QuestionaryController {
	return &QuestionaryController{Service: svc, Auth: auth, HomeURL: homeURL}
}

type questionaryURI struct {
	Slug string `uri:"slug" binding:"required,slug"`
}

type topicQuestionaryURI struct {
	TopicSlug       string `uri:"slug" binding:"required,slug"`
	QuestionarySlug string `uri:"questionarySlug" binding:"required,slug"`
}

// AnswerRequest question 为作答记录 ID，answer 为选项 ID
type AnswerRequest struct {
	Question uint `json:"question" binding:"required"`
	Answer   uint `json:"answer" binding:"required"`
}

// CountQuestions godoc
// @Summary 统计同时带有给定标签的题目数量
// @Tags 问卷
// @Produce json
// @Security ApiKeyAuth
// @Param values query string false "逗号分隔的标签 ID"
// @Success 200 {object} util.Response{data=object}
// @Router /questionaries/count [get]
func (c *QuestionaryController) CountQuestions(ctx *gin.Context) {
	if _, ok := currentUser(ctx, c.Auth); !ok {
		return
	}
	count, err := c.Service.CountQuestions(ctx.Request.Context(), util.ParseUintList(ctx.Query("values")))
	if err != nil {
		respondError(ctx, c.HomeURL, err)
		return
	}
	util.Success(ctx, gin.H{"count": count})
}

// Create godoc
// @Summary 在主题下创建问卷
// @Tags 问卷
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "主题 slug"
// @Param body body service.QuestionaryRequest true "问卷信息"
// @Success 201 {object} util.Response{data=model.Questionary}
// @Failure 302 "无权限时重定向"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "主题不存在"
// @Router /topics/{slug}/questionaries [post]
func (c *QuestionaryController) Create(ctx *gin.Context) {
	user, ok := currentUser(ctx, c.Auth)
	if !ok {
		return
	}
	var uri questionaryURI
	if err := ctx.ShouldBindUri(&uri); err != nil {
		util.NotFound(ctx)
		return
	}
	var req service.QuestionaryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationError(ctx, err)
		return
	}

	q, err := c.Service.Create(user, uri.Slug, req)
	if err != nil {
		respondError(ctx, c.HomeURL, err)
		return
	}
	util.Created(ctx, q)
}

// Update godoc
// @Summary 编辑问卷并替换抽题规则
// @Tags 问卷
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "主题 slug"
// @Param questionarySlug path string true "问卷 slug"
// @Param body body service.QuestionaryRequest true "问卷信息"
// @Success 200 {object} util.Response{data=model.Questionary}
// @Failure 302 "无权限时重定向"
// @Failure 404 {object} util.Response "问卷不存在"
// @Router /topics/{slug}/questionaries/{questionarySlug} [put]
func (c *QuestionaryController) Update(ctx *gin.Context) {
	user, ok := currentUser(ctx, c.Auth)
	if !ok {
		return
	}
	var uri topicQuestionaryURI
	if err := ctx.ShouldBindUri(&uri); err != nil {
		util.NotFound(ctx)
		return
	}
	var req service.QuestionaryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationError(ctx, err)
		return
	}

	q, err := c.Service.Update(user, uri.TopicSlug, uri.QuestionarySlug, req)
	if err != nil {
		respondError(ctx, c.HomeURL, err)
		return
	}
	util.Success(ctx, q)
}

// Delete godoc
// @Summary 删除问卷
// @Tags 问卷
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "问卷 slug"
// @Success 200 {object} util.Response{data=object}
// @Failure 302 "无权限时重定向"
// @Failure 404 {object} util.Response "问卷不存在"
// @Router /questionaries/{slug} [delete]
func (c *QuestionaryController) Delete(ctx *gin.Context) {
	user, ok := currentUser(ctx, c.Auth)
	if !ok {
		return
	}
	var uri questionaryURI
	if err := ctx.ShouldBindUri(&uri); err != nil {
		util.NotFound(ctx)
		return
	}

	q, err := c.Service.Delete(user, uri.Slug)
	if err != nil {
		respondError(ctx, c.HomeURL, err)
		return
	}
	util.Success(ctx, gin.H{
		"slug":  q.Resource.Slug,
		"topic": q.Resource.Topic.Slug,
	})
}

// View godoc
// @Summary 查看问卷
// @Description 学生首次访问时抽题；教师可通过 student 参数查看某位学生的作答
// @Tags 问卷
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "问卷 slug"
// @Param student query string false "学生邮箱"
// @Param window query string false "是否以独立窗口展示"
// @Success 200 {object} util.Response{data=service.QuestionaryView}
// @Failure 302 "无权限时重定向"
// @Failure 404 {object} util.Response "问卷不存在"
// @Router /questionaries/{slug} [get]
func (c *QuestionaryController) View(ctx *gin.Context) {
	user, ok := currentUser(ctx, c.Auth)
	if !ok {
		return
	}
	var uri questionaryURI
	if err := ctx.ShouldBindUri(&uri); err != nil {
		util.NotFound(ctx)
		return
	}

	window := ctx.Query("window") != "" && ctx.Query("window") != "0"
	view, err := c.Service.View(user, uri.Slug, ctx.Query("student"), window)
	if err != nil {
		respondError(ctx, c.HomeURL, err)
		return
	}
	util.Success(ctx, view)
}

// Answer godoc
// @Summary 提交答案
// @Tags 问卷
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body AnswerRequest true "作答记录与选项"
// @Success 200 {object} util.Response{data=service.AnswerResult}
// @Failure 400 {object} util.Response "选项不属于该题目"
// @Failure 404 {object} util.Response "作答记录或选项不存在"
// @Router /questionaries/answer [post]
func (c *QuestionaryController) Answer(ctx *gin.Context) {
	user, ok := currentUser(ctx, c.Auth)
	if !ok {
		return
	}
	var req AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationError(ctx, err)
		return
	}

	result, err := c.Service.Answer(user, req.Question, req.Answer)
	if err != nil {
		respondError(ctx, c.HomeURL, err)
		return
	}
	util.Success(ctx, result)
}

// Statistics godoc
// @Summary 问卷查看与完成统计
// @Tags 问卷
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "问卷 slug"
// @Param init_date query string false "开始日期"
// @Param end_date query string false "结束日期"
// @Success 200 {object} util.Response{data=service.QuestionaryStatistics}
// @Failure 302 "无权限时重定向"
// @Router /questionaries/{slug}/statistics [get]
func (c *QuestionaryController) Statistics(ctx *gin.Context) {
	user, ok := currentUser(ctx, c.Auth)
	if !ok {
		return
	}
	var uri questionaryURI
	if err := ctx.ShouldBindUri(&uri); err != nil {
		util.NotFound(ctx)
		return
	}

	stats, err := c.Service.Statistics(user, uri.Slug, ctx.Query("init_date"), ctx.Query("end_date"))
	if err != nil {
		respondError(ctx, c.HomeURL, err)
		return
	}
	util.Success(ctx, stats)
}

// SendMessage godoc
// @Summary 向问卷受众发送消息
// @Tags 问卷
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "问卷 slug"
// @Param body body service.SendMessageRequest true "收件人与内容"
// @Success 200 {object} util.Response{data=object}
// @Failure 302 "无权限时重定向"
// @Failure 400 {object} util.Response "未选择收件人"
// @Router /questionaries/{slug}/messages [post]
func (c *QuestionaryController) SendMessage(ctx *gin.Context) {
	user, ok := currentUser(ctx, c.Auth)
	if !ok {
		return
	}
	var uri questionaryURI
	if err := ctx.ShouldBindUri(&uri); err != nil {
		util.NotFound(ctx)
		return
	}
	var req service.SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationError(ctx, err)
		return
	}

	sent, err := c.Service.SendMessage(ctx.Request.Context(), user, uri.Slug, req)
	if err != nil {
		respondError(ctx, c.HomeURL, err)
		return
	}
	util.Success(ctx, gin.H{"sent": sent})
}
