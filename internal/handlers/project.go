package handlers

import (
	"net/http"

	"github.com/defectrack/defectrack/db"
	"github.com/defectrack/defectrack/internal/services"
	"github.com/defectrack/defectrack/internal/utils"
	"github.com/gin-gonic/gin"
)

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	CompanyID   uint   `json:"company_id" binding:"required"`
	EngineerIDs []uint `json:"engineer_ids"`
}

type AssignManagerRequest struct {
	ManagerID uint `json:"manager_id" binding:"required"`
}

type EngineerIDsRequest struct {
	EngineerIDs []uint `json:"engineer_ids"`
}

func CreateProject(ctx *gin.Context) {
	var body CreateProjectRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "Invalid request")
		return
	}

	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		unauthenticated(ctx)
		return
	}

	project, err := services.NewProjectService(db.DB).Create(ctx.Request.Context(), actor, services.CreateProjectInput{
		Name:        body.Name,
		CompanyID:   body.CompanyID,
		EngineerIDs: body.EngineerIDs,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, project)
}

func DeleteProject(ctx *gin.Context) {
	projectID, err := utils.GetIDParam(ctx, "project_id", "Project")

	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		unauthenticated(ctx)
		return
	}

	if err := services.NewProjectService(db.DB).Delete(ctx.Request.Context(), actor, projectID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func ListProjects(ctx *gin.Context) {
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

	projects, err := services.NewProjectService(db.DB).ListOwn(ctx.Request.Context(), actor, skip, limit)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, projects)
}

func GetProject(ctx *gin.Context) {
	projectID, err := utils.GetIDParam(ctx, "project_id", "Project")

	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		unauthenticated(ctx)
		return
	}

	project, err := services.NewProjectService(db.DB).GetOwn(ctx.Request.Context(), actor, projectID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, project)
}

func AssignProjectManager(ctx *gin.Context) {
	projectID, err := utils.GetIDParam(ctx, "project_id", "Project")

	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	var body AssignManagerRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "Invalid request")
		return
	}

	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		unauthenticated(ctx)
		return
	}

	result, err := services.NewProjectService(db.DB).AssignManager(ctx.Request.Context(), actor, projectID, body.ManagerID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

func RemoveProjectManager(ctx *gin.Context) {
	projectID, err := utils.GetIDParam(ctx, "project_id", "Project")

	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		unauthenticated(ctx)
		return
	}

	result, err := services.NewProjectService(db.DB).RemoveManager(ctx.Request.Context(), actor, projectID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

func AddProjectEngineers(ctx *gin.Context) {
	projectID, err := utils.GetIDParam(ctx, "project_id", "Project")

	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	var body EngineerIDsRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "Invalid request")
		return
	}

	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		unauthenticated(ctx)
		return
	}

	result, err := services.NewProjectService(db.DB).AddEngineers(ctx.Request.Context(), actor, projectID, body.EngineerIDs)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

func RemoveProjectEngineers(ctx *gin.Context) {
	projectID, err := utils.GetIDParam(ctx, "project_id", "Project")

	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	var body EngineerIDsRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "Invalid request")
		return
	}

	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		unauthenticated(ctx)
		return
	}

	result, err := services.NewProjectService(db.DB).RemoveEngineers(ctx.Request.Context(), actor, projectID, body.EngineerIDs)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}
