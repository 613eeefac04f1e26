package controller

import (
	"amadeus_backend/internal/service"
	"amadeus_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	csvAttachment  = `attachment; filename="report.csv"`
	xlsxAttachment = `attachment; filename="report.xlsx"`
)

type ReportController struct {
	Service *service.ReportService
	Auth    *service.AuthService
	HomeURL string
}

func NewReportController(svc *service.ReportService, auth *service.AuthService, homeURL string) *ReportController {
	return &ReportController{Service: svc, Auth: auth, HomeURL: homeURL}
}

type reportOptionsQuery struct {
	SubjectID    uint   `form:"subject_id" binding:"required"`
	TopicChoice  string `form:"topic_choice"`
	ResourceType string `form:"resource_class_name"`
}

// Resources godoc
// @Summary 报表可选的资源类型
// @Tags 报表
// @Produce json
// @Security ApiKeyAuth
// @Param subject_id query int true "学科 ID"
// @Param topic_choice query string false "all 或主题 ID"
// @Success 200 {object} util.Response{data=[]service.ResourceOption}
// @Failure 302 "无权限时重定向"
// @Router /reports/resources [get]
func (c *ReportController) Resources(ctx *gin.Context) {
	user, ok := currentUser(ctx, c.Auth)
	if !ok {
		return
	}
	var q reportOptionsQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		util.ValidationError(ctx, err)
		return
	}

	options, err := c.Service.ResourceOptions(ctx.Request.Context(), user, q.SubjectID, q.TopicChoice)
	if err != nil {
		respondError(ctx, c.HomeURL, err)
		return
	}
	util.Success(ctx, options)
}

// Tags godoc
// @Summary 某类资源的可选标签
// @Tags 报表
// @Produce json
// @Security ApiKeyAuth
// @Param subject_id query int true "学科 ID"
// @Param topic_choice query string false "all 或主题 ID"
// @Param resource_class_name query string true "资源类型"
// @Success 200 {object} util.Response{data=[]service.TagOption}
// @Failure 302 "无权限时重定向"
// @Router /reports/tags [get]
func (c *ReportController) Tags(ctx *gin.Context) {
	user, ok := currentUser(ctx, c.Auth)
	if !ok {
		return
	}
	var q reportOptionsQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		util.ValidationError(ctx, err)
		return
	}

	options, err := c.Service.TagOptions(ctx.Request.Context(), user, q.SubjectID, q.TopicChoice, q.ResourceType)
	if err != nil {
		respondError(ctx, c.HomeURL, err)
		return
	}
	util.Success(ctx, options)
}

// Interactions godoc
// @Summary 生成学生互动报表
// @Description 汇总讨论墙、私信、资源访问与学科访问数据，同时覆盖当前用户的 CSV 与电子表格导出
// @Tags 报表
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.InteractionReportRequest true "报表条件"
// @Success 200 {object} util.Response{data=service.InteractionReport}
// @Failure 302 "无权限时重定向"
// @Failure 400 {object} util.Response "日期或资源类型非法"
// @Router /reports/interactions [post]
func (c *ReportController) Interactions(ctx *gin.Context) {
	user, ok := currentUser(ctx, c.Auth)
	if !ok {
		return
	}
	var req service.InteractionReportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationError(ctx, err)
		return
	}

	report, err := c.Service.Generate(ctx.Request.Context(), user, req)
	if err != nil {
		respondError(ctx, c.HomeURL, err)
		return
	}
	util.Success(ctx, report)
}

// DownloadCSV godoc
// @Summary 下载最近一次生成的 CSV 报表
// @Tags 报表
// @Produce text/csv
// @Security ApiKeyAuth
// @Success 200 {file} file
// @Failure 404 {object} util.Response "尚未生成报表"
// @Router /reports/download/csv [get]
func (c *ReportController) DownloadCSV(ctx *gin.Context) {
	user, ok := currentUser(ctx, c.Auth)
	if !ok {
		return
	}

	data, err := c.Service.DownloadCSV(user.ID)
	if err != nil {
		respondError(ctx, c.HomeURL, err)
		return
	}
	ctx.Header("Content-Disposition", csvAttachment)
	ctx.Data(http.StatusOK, util.MimeCSV, data)
}

// DownloadXLS godoc
// @Summary 下载最近一次生成的电子表格报表
// @Tags 报表
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security ApiKeyAuth
// @Success 200 {file} file
// @Failure 404 {object} util.Response "尚未生成报表"
// @Router /reports/download/xls [get]
func (c *ReportController) DownloadXLS(ctx *gin.Context) {
	user, ok := currentUser(ctx, c.Auth)
	if !ok {
		return
	}

	rc, err := c.Service.DownloadXLS(ctx.Request.Context(), user.ID)
	if err != nil {
		respondError(ctx, c.HomeURL, err)
		return
	}
	defer rc.Close()

	ctx.DataFromReader(http.StatusOK, -1, util.MimeXLSX, rc, map[string]string{
		"Content-Disposition": xlsxAttachment,
	})
}
