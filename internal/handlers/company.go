package handlers

import (
	"log"
	"net/http"

	"github.com/defectrack/defectrack/db"
	"github.com/defectrack/defectrack/internal/services"
	"github.com/defectrack/defectrack/internal/types"
	"github.com/defectrack/defectrack/internal/utils"
	"github.com/gin-gonic/gin"
)

type CreateCompanyRequest struct {
	Name string `json:"name" binding:"required"`
}

type AddCompanyUserRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

func CreateCompany(ctx *gin.Context) {
	var body CreateCompanyRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "Invalid request")
		return
	}

	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		unauthenticated(ctx)
		return
	}

	company, err := services.NewCompanyService(db.DB).Create(ctx.Request.Context(), actor, body.Name)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, types.CompanyResponse{ID: company.ID, Name: company.Name})
}

func ListCompanies(ctx *gin.Context) {
	companies, err := services.NewCompanyService(db.DB).List(ctx.Request.Context())

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, companies)
}

func GetCompany(ctx *gin.Context) {
	companyID, err := utils.GetIDQuery(ctx, "company_id", "Company")

	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		unauthenticated(ctx)
		return
	}

	detail, err := services.NewCompanyService(db.DB).Detail(ctx.Request.Context(), actor, companyID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, detail)
}

func DeleteCompany(ctx *gin.Context) {
	companyID, err := utils.GetIDParam(ctx, "company_id", "Company")

	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		unauthenticated(ctx)
		return
	}

	if err := services.NewCompanyService(db.DB).Delete(ctx.Request.Context(), actor, companyID); err != nil {
		respondError(ctx, err)
		return
	}

	log.Printf("Company %d deleted by user %d", companyID, actor.ID)

	ctx.Status(http.StatusNoContent)
}

func AddCompanyUser(ctx *gin.Context) {
	companyID, err := utils.GetIDParam(ctx, "company_id", "Company")

	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	var body AddCompanyUserRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "Invalid request")
		return
	}

	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		unauthenticated(ctx)
		return
	}

	result, err := services.NewCompanyService(db.DB).AddUser(ctx.Request.Context(), actor, companyID, body.UserID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

func RemoveCompanyUser(ctx *gin.Context) {
	companyID, err := utils.GetIDParam(ctx, "company_id", "Company")

	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	userID, err := utils.GetIDParam(ctx, "user_id", "User")

	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		unauthenticated(ctx)
		return
	}

	result, err := services.NewCompanyService(db.DB).RemoveUser(ctx.Request.Context(), actor, companyID, userID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}
