package controller

import (
	"elearning_backend/internal/middleware"
	"elearning_backend/internal/policy"
	"elearning_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// currentSession writes a 401 and reports false when the request carries no
// resolved session.
func currentSession(ctx *gin.Context) (policy.Session, bool) {
	sess, ok := middleware.SessionFrom(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return policy.Session{}, false
	}
	return sess, true
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := util.ParseID(ctx.Param(name))
	if err != nil {
		util.RespondError(ctx, err)
		return 0, false
	}
	return id, true
}

func queryInt(ctx *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(ctx.Query(name))
	if err != nil {
		return def
	}
	return v
}

func bindError(ctx *gin.Context, err error) {
	util.BadRequest(ctx, util.BindingErrorMessage(err))
}
