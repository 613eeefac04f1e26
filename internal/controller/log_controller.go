package controller

import (
	"amadeus_backend/internal/repository"
	"amadeus_backend/internal/service"
	"amadeus_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LogController struct {
	Service *service.LogService
}

func NewLogController(svc *service.LogService) *LogController {
	return &LogController{Service: svc}
}

type logQuery struct {
	Component string `form:"component"`
	Action    string `form:"action"`
	Resource  string `form:"resource"`
	UserID    uint   `form:"user_id"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
}

// List godoc
// @Summary 分页查询行为日志
// @Tags 日志
// @Produce json
// @Security ApiKeyAuth
// @Param component query string false "组件"
// @Param action query string false "动作"
// @Param resource query string false "资源"
// @Param user_id query int false "用户 ID"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Failure 403 {object} util.Response "仅管理员可访问"
// @Router /logs [get]
func (c *LogController) List(ctx *gin.Context) {
	var q logQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		util.ValidationError(ctx, err)
		return
	}

	filter := repository.LogFilter{
		Component: q.Component,
		Action:    q.Action,
		Resource:  q.Resource,
		UserID:    q.UserID,
	}
	logs, total, err := c.Service.List(filter, q.Page, q.Limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	page, limit := service.NormalizePage(q.Page, q.Limit)
	util.Success(ctx, util.PageResponse{
		List:  logs,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}
