package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/defectrack/defectrack/db"
	"github.com/defectrack/defectrack/internal/auth"
	"github.com/defectrack/defectrack/internal/services"
	"github.com/defectrack/defectrack/internal/types"
	"github.com/defectrack/defectrack/internal/utils"
	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Username string     `json:"username" binding:"required"`
	Email    string     `json:"email" binding:"required,email"`
	Password string     `json:"password" binding:"required,min=8"`
	Role     types.Role `json:"role" binding:"required"`
}

type TokenRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func RegisterUser(ctx *gin.Context) {
	var body RegisterRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		badRequest(ctx, "Invalid request")
		return
	}

	user, err := services.NewUserService(db.DB).Register(ctx.Request.Context(), services.RegisterInput{
		Username: body.Username,
		Email:    body.Email,
		Password: body.Password,
		Role:     body.Role,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, types.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CompanyID: user.CompanyID,
	})
}

// IssueToken accepts JSON or form credentials and returns a bearer token.
func IssueToken(ctx *gin.Context) {
	var body TokenRequest

	if err := ctx.ShouldBind(&body); err != nil {
		badRequest(ctx, "Invalid request")
		return
	}

	user, err := services.NewUserService(db.DB).Authenticate(ctx.Request.Context(), body.Username, body.Password)

	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			ctx.Header("WWW-Authenticate", "Bearer")
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		respondError(ctx, err)
		return
	}

	token, err := auth.GenerateJWT(user.ID, user.Username, user.Role)

	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		unauthenticated(ctx)
		return
	}

	ctx.JSON(http.StatusOK, types.UserResponse{
		ID:        currentUser.ID,
		Username:  currentUser.Username,
		Email:     currentUser.Email,
		Role:      currentUser.Role,
		CompanyID: currentUser.CompanyID,
	})
}
