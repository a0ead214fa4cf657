// Package handler provides the HTTP handlers for the account feature.
package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"

	"account_backend/internal/feature/account/domain"
	"account_backend/internal/feature/account/domain/entity"
	"account_backend/internal/feature/account/transport/http/dto"
	"account_backend/internal/feature/account/usecase"
	jwtmw "account_backend/internal/platform/jwt"
)

// maxImageBytes caps uploaded profile images.
const maxImageBytes = 5 << 20

// duplicateParams maps the duplicate-check path parameter to an attribute.
var duplicateParams = map[string]entity.Attribute{
	"id":       entity.AttributeLoginID,
	"nickname": entity.AttributeNickname,
	"email":    entity.AttributeEmail,
	"phone":    entity.AttributePhone,
}

// AccountUsecase defines the account operations used by the handler.
// The interface is defined by the consumer (handler), not the provider (usecase).
type AccountUsecase interface {
	Register(ctx context.Context, in usecase.RegisterInput) domain.Outcome
	Login(ctx context.Context, loginID, password string) (jwtmw.Token, domain.Outcome)
	Signout(ctx context.Context, loginID, password string) domain.Outcome
	ForgotID(ctx context.Context, email string) (string, domain.Outcome)
	ForgotPassword(ctx context.Context, loginID, newPassword string) domain.Outcome
	CheckDuplicate(ctx context.Context, attr entity.Attribute, value string) domain.Outcome
	GetProfile(ctx context.Context, token string) (usecase.Profile, domain.Outcome)
	GetProfileImage(ctx context.Context, token string) (usecase.ProfileImage, domain.Outcome)
	UpdateProfileImage(ctx context.Context, token string, accountID uuid.UUID, data []byte) (string, domain.Outcome)
}

// AccountHandler serves the /account routes.
type AccountHandler struct {
	accounts AccountUsecase
}

// NewAccountHandler creates an AccountHandler.
func NewAccountHandler(accounts AccountUsecase) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Register handles PUT /account/register.
func (h *AccountHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalid(c, "register", registerMessages, err)
		return
	}

	o := h.accounts.Register(c.Request.Context(), usecase.RegisterInput{
		LoginID:       req.UserID,
		Password:      req.Password,
		Nickname:      req.Nickname,
		Email:         req.Email,
		Phone:         req.Phone,
		UniversityRef: req.UUUID,
		SchoolID:      req.SchoolID,
	})
	if !o.Ok() {
		slog.Warn("register failed", "status", o.Code, "detail", o.Detail, "remote_addr", c.ClientIP())
	}
	c.JSON(HTTPStatus(o.Code), envelope(o, registerMessages))
}

// Login handles POST /account/login with an OAuth2 password form.
func (h *AccountHandler) Login(c *gin.Context) {
	var form dto.LoginForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		h.invalid(c, "login", loginMessages, err)
		return
	}

	token, o := h.accounts.Login(c.Request.Context(), form.Username, form.Password)
	if !o.Ok() {
		slog.Warn("login failed", "status", o.Code, "remote_addr", c.ClientIP())
		c.JSON(HTTPStatus(o.Code), envelope(o, loginMessages))
		return
	}
	c.JSON(http.StatusOK, dto.LoginRes{
		Envelope:  envelope(o, loginMessages),
		Token:     token.AccessToken,
		TokenType: token.TokenType,
		ExpiresAt: token.ExpiresAt,
	})
}

// Signout handles DELETE /account/signout. The password is re-checked before deletion.
func (h *AccountHandler) Signout(c *gin.Context) {
	var q dto.SignoutQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.invalid(c, "signout", signoutMessages, err)
		return
	}

	o := h.accounts.Signout(c.Request.Context(), q.ID, q.Password)
	c.JSON(HTTPStatus(o.Code), envelope(o, signoutMessages))
}

// ForgotID handles POST /account/forgot/id.
func (h *AccountHandler) ForgotID(c *gin.Context) {
	var q dto.ForgotIDQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.invalid(c, "forgot_id", forgotIDMessages, err)
		return
	}

	loginID, o := h.accounts.ForgotID(c.Request.Context(), q.Email)
	if !o.Ok() {
		c.JSON(HTTPStatus(o.Code), envelope(o, forgotIDMessages))
		return
	}
	c.JSON(http.StatusOK, dto.ForgotIDRes{Envelope: envelope(o, forgotIDMessages), UserID: loginID})
}

// ForgotPassword handles POST /account/forgot/password.
func (h *AccountHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalid(c, "forgot_password", forgotPasswordMessages, err)
		return
	}

	o := h.accounts.ForgotPassword(c.Request.Context(), req.UserID, req.Password)
	c.JSON(HTTPStatus(o.Code), envelope(o, forgotPasswordMessages))
}

// CheckDuplicate handles POST /account/duplicate/:parameter.
func (h *AccountHandler) CheckDuplicate(c *gin.Context) {
	param := c.Param("parameter")
	attr, ok := duplicateParams[param]
	if !ok {
		o := domain.Fail(domain.StatusInvalidInput, "parameter must be one of id, nickname, phone, email")
		c.JSON(HTTPStatus(o.Code), dto.Envelope{
			StatusCode: HTTPStatus(o.Code),
			Message:    "invalid path parameter",
			Detail:     o.Detail,
		})
		return
	}

	label := attr.Label()
	msgs := messages{
		domain.StatusSuccess:  fmt.Sprintf("the %s is available", label),
		domain.StatusConflict: fmt.Sprintf("the %s is already in use", label),
	}

	var q dto.DuplicateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.invalid(c, "check_duplicate", msgs, err)
		return
	}

	o := h.accounts.CheckDuplicate(c.Request.Context(), attr, q.Data)
	c.JSON(HTTPStatus(o.Code), envelope(o, msgs))
}

// GetProfile handles GET /account/profile.
func (h *AccountHandler) GetProfile(c *gin.Context) {
	token, _ := jwtmw.BearerToken(c)

	p, o := h.accounts.GetProfile(c.Request.Context(), token)
	if !o.Ok() {
		c.JSON(HTTPStatus(o.Code), envelope(o, profileMessages))
		return
	}
	c.JSON(http.StatusOK, dto.ProfileRes{
		Envelope:    envelope(o, profileMessages),
		AccountInfo: accountInfo(p),
	})
}

// GetProfileImage handles GET /account/profile/image and writes the raw image bytes.
func (h *AccountHandler) GetProfileImage(c *gin.Context) {
	token, _ := jwtmw.BearerToken(c)

	img, o := h.accounts.GetProfileImage(c.Request.Context(), token)
	if !o.Ok() {
		c.JSON(HTTPStatus(o.Code), envelope(o, profileMessages))
		return
	}
	c.Data(http.StatusOK, mimetype.Detect(img.Data).String(), img.Data)
}

// UpdateProfileImage handles POST /account/profile/image/update.
// The multipart "file" field is optional; omitting it resets the default image.
func (h *AccountHandler) UpdateProfileImage(c *gin.Context) {
	token, _ := jwtmw.BearerToken(c)

	var form dto.UpdateImageForm
	if err := c.ShouldBindQuery(&form); err != nil {
		h.invalid(c, "update_profile_image", updateImageMessages, err)
		return
	}
	accountID, ok := jwtmw.AccountID(c)
	if form.AccountID != "" {
		id, err := uuid.Parse(form.AccountID)
		if err != nil {
			h.invalid(c, "update_profile_image", updateImageMessages, fmt.Errorf("account_id: %w", err))
			return
		}
		accountID, ok = id, true
	}
	if !ok {
		o := domain.Fail(domain.StatusAuthenticationFailed, "missing account")
		c.JSON(HTTPStatus(o.Code), envelope(o, updateImageMessages))
		return
	}

	data, err := readUpload(c)
	if err != nil {
		h.invalid(c, "update_profile_image", updateImageMessages, err)
		return
	}

	ref, o := h.accounts.UpdateProfileImage(c.Request.Context(), token, accountID, data)
	if !o.Ok() {
		c.JSON(HTTPStatus(o.Code), envelope(o, updateImageMessages))
		return
	}
	c.JSON(http.StatusOK, dto.UpdateImageRes{Envelope: envelope(o, updateImageMessages), Profile: ref})
}

func (h *AccountHandler) invalid(c *gin.Context, op string, msgs messages, err error) {
	slog.Warn("request validation failed", "op", op, "error", err, "remote_addr", c.ClientIP())
	o := domain.Fail(domain.StatusInvalidInput, "%s", err.Error())
	c.JSON(HTTPStatus(o.Code), envelope(o, msgs))
}

// readUpload returns the bytes of the optional "file" field, or nil when absent.
func readUpload(c *gin.Context) ([]byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}
	if len(data) == 0 {
		return nil, nil
	}
	if mt := mimetype.Detect(data); !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("unsupported content type %s", mt.String())
	}
	return data, nil
}

func envelope(o domain.Outcome, msgs messages) dto.Envelope {
	status := HTTPStatus(o.Code)
	return dto.Envelope{StatusCode: status, Message: msgs.of(o.Code), Detail: o.Detail}
}

func accountInfo(p usecase.Profile) dto.AccountInfo {
	info := dto.AccountInfo{
		AUUID:      p.ID.String(),
		ID:         p.LoginID,
		Nickname:   p.Nickname,
		Email:      p.Email,
		Phone:      p.Phone,
		SchoolID:   p.SchoolID,
		Profile:    p.ProfileImage,
		SignupDate: p.SignupAt.UTC().Format(dto.DateLayout),
	}
	if p.UniversityID != nil {
		s := p.UniversityID.String()
		info.UUUID = &s
	}
	if p.LastLoginAt != nil {
		s := p.LastLoginAt.UTC().Format(dto.DateLayout)
		info.LoginDate = &s
	}
	return info
}
