package controller

import (
	"amadeus_backend/internal/model"
	"amadeus_backend/internal/service"
	"amadeus_backend/internal/util"
	"amadeus_backend/pkg/logger"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// badInput 客户端可修正的错误，原样返回错误信息
var badInput = []error{
	util.ErrAlternativeMismatch,
	util.ErrEmptyQuestionBank,
	util.ErrNoRecipients,
	util.ErrInvalidDate,
	util.ErrInvalidDateRange,
	util.ErrInvalidResourceType,
	util.ErrInvalidTag,
	util.ErrStudentNotInAudience,
}

// RegisterValidators 在 gin 的校验引擎上注册 slug 规则
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return util.IsSlug(fl.Field().String())
	})
}

// respondError 权限不足时重定向到首页，不返回错误信息
func respondError(ctx *gin.Context, homeURL string, err error) {
	switch {
	case errors.Is(err, util.ErrPermissionDenied):
		ctx.Redirect(http.StatusFound, homeURL)
	case util.IsNotFound(err):
		util.NotFound(ctx)
	default:
		for _, target := range badInput {
			if errors.Is(err, target) {
				util.BadRequest(ctx, err.Error())
				return
			}
		}
		util.LogInternalError(ctx, err)
	}
}

func currentUser(ctx *gin.Context, auth *service.AuthService) (*model.User, bool) {
	user, err := auth.GetCurrentUser(ctx)
	if err != nil {
		if !errors.Is(err, util.ErrUserNotFound) {
			logger.Log.Error("load current user failed", zap.Error(err))
		}
		util.Unauthorized(ctx)
		return nil, false
	}
	return user, true
}
