package handlers

import (
	"net/http"

	"github.com/defectrack/defectrack/db"
	"github.com/defectrack/defectrack/internal/services"
	"github.com/defectrack/defectrack/internal/utils"
	"github.com/gin-gonic/gin"
)

type CreateDefectRequest struct {
	Name      string `json:"name" binding:"required"`
	ProjectID uint   `json:"project_id" binding:"required"`
}

type AssignEngineerRequest struct {
	EngineerID uint `json:"engineer_id" binding:"required"`
}

func CreateDefect(ctx *gin.Context) {
	var body CreateDefectRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "Invalid request")
		return
	}

	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		unauthenticated(ctx)
		return
	}

	defect, err := services.NewDefectService(db.DB).Create(ctx.Request.Context(), actor, body.Name, body.ProjectID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, defect)
}

func DeleteDefect(ctx *gin.Context) {
	defectID, err := utils.GetIDParam(ctx, "defect_id", "Defect")

	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		unauthenticated(ctx)
		return
	}

	if err := services.NewDefectService(db.DB).Delete(ctx.Request.Context(), actor, defectID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func ListDefects(ctx *gin.Context) {
	skip, limit, err := utils.GetPagination(ctx)

	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		unauthenticated(ctx)
		return
	}

	defects, err := services.NewDefectService(db.DB).ListOwn(ctx.Request.Context(), actor, skip, limit)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, defects)
}

func GetDefect(ctx *gin.Context) {
	defectID, err := utils.GetIDParam(ctx, "defect_id", "Defect")

	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		unauthenticated(ctx)
		return
	}

	defect, err := services.NewDefectService(db.DB).GetOwn(ctx.Request.Context(), actor, defectID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, defect)
}

func RemoveDefectEngineer(ctx *gin.Context) {
	defectID, err := utils.GetIDParam(ctx, "defect_id", "Defect")

	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		unauthenticated(ctx)
		return
	}

	result, err := services.NewDefectService(db.DB).RemoveEngineer(ctx.Request.Context(), actor, defectID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

func AssignDefectEngineer(ctx *gin.Context) {
	defectID, err := utils.GetIDParam(ctx, "defect_id", "Defect")

	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	var body AssignEngineerRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "Invalid request")
		return
	}

	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		unauthenticated(ctx)
		return
	}

	result, err := services.NewDefectService(db.DB).AssignEngineer(ctx.Request.Context(), actor, defectID, body.EngineerID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}
