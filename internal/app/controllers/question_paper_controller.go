package controllers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	appauth "github.com/yigit/qpaper/internal/app/auth"
	"github.com/yigit/qpaper/internal/app/models"
	"github.com/yigit/qpaper/internal/app/models/dto"
	"github.com/yigit/qpaper/internal/app/services"
	"github.com/yigit/qpaper/internal/middleware"
	"github.com/yigit/qpaper/internal/pkg/apperrors"
	"github.com/yigit/qpaper/internal/pkg/flash"
	"github.com/yigit/qpaper/internal/pkg/helpers"
	"github.com/yigit/qpaper/internal/pkg/logger"
	"github.com/yigit/qpaper/internal/views"
)

const listingTitle = "Question Paper Management"

// multipartOverhead is allowed on top of the upload limit for the other form fields
const multipartOverhead = 1 << 20

// QuestionPaperController handles the listing and the record operations
type QuestionPaperController struct {
	service       services.QuestionPaperService
	visitors      *services.VisitorService
	authz         *appauth.AuthorizationService
	view          *Renderer
	maxUpload     int64
	secureCookies bool
}

// NewQuestionPaperController creates a new QuestionPaperController
func NewQuestionPaperController(
	service services.QuestionPaperService,
	visitors *services.VisitorService,
	authz *appauth.AuthorizationService,
	view *Renderer,
	maxUpload int64,
	secureCookies bool,
) *QuestionPaperController {
	return &QuestionPaperController{
		service:       service,
		visitors:      visitors,
		authz:         authz,
		view:          view,
		maxUpload:     maxUpload,
		secureCookies: secureCookies,
	}
}

// Index renders one page of the listing and counts anonymous views when the policy asks for it
func (c *QuestionPaperController) Index(ctx *gin.Context) {
	query := dto.NewListQuery(ctx.Query("page"), ctx.Query("search"), ctx.Query("sort"))

	if c.authz.Policy().TracksVisitor(middleware.CurrentPrincipal(ctx)) {
		c.trackVisit(ctx)
	}

	result, err := c.service.List(ctx.Request.Context(), query)
	if err != nil {
		logger.Error().Err(err).Int("page", query.Page).Str("search", query.Search).Msg("Error fetching records")
		flash.Error(ctx, "Error fetching records. Please try again.")
		result = &dto.QuestionPaperListResult{
			Query:      query,
			Pagination: dto.NewPaginationInfo(0, query.Page, helpers.DefaultPageSize),
		}
	}

	c.view.HTML(ctx, http.StatusOK, views.IndexPage, listingTitle, views.IndexData{
		Result:      result,
		SortOptions: views.SortOptions,
		PaperTypes:  models.PaperTypes,
	})
}

// trackVisit appends a visitor row; a failure is logged and the listing is still served
func (c *QuestionPaperController) trackVisit(ctx *gin.Context) {
	cookie, _ := ctx.Cookie(services.VisitorCookieName)

	visitorID, minted, err := c.visitors.RecordVisit(ctx.Request.Context(), cookie)
	if err != nil {
		logger.Error().Err(err).Str("visitorID", visitorID).Msg("Failed to record visit")
	}

	if minted {
		ctx.SetSameSite(http.SameSiteLaxMode)
		ctx.SetCookie(services.VisitorCookieName, visitorID, int(services.VisitorCookieMaxAge.Seconds()), "/", "", c.secureCookies, true)
	}
}

// Add stores a new question paper from the multipart form
func (c *QuestionPaperController) Add(ctx *gin.Context) {
	form, file, err := c.bindUpload(ctx)
	if err != nil {
		middleware.HandleWebError(ctx, err, "/", "Error adding question paper. Please try again.")
		return
	}

	if _, err := c.service.Create(ctx.Request.Context(), form.ToInput(), file); err != nil {
		middleware.HandleWebError(ctx, err, "/", "Error adding question paper. Please try again.")
		return
	}

	flash.Success(ctx, "Question paper added successfully!")
	middleware.Redirect(ctx, "/")
}

// EditForm renders the edit page of one question paper
func (c *QuestionPaperController) EditForm(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		middleware.HandleWebError(ctx, err, "/", "")
		return
	}

	paper, err := c.service.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleWebError(ctx, err, "/", "Error loading question paper. Please try again.")
		return
	}

	c.view.HTML(ctx, http.StatusOK, views.UpdatePage, "Update Question Paper", views.UpdateData{
		ID:         paper.ID,
		Form:       dto.FormFromModel(paper),
		PaperTypes: models.PaperTypes,
	})
}

// Update applies the edit form; the stored PDF is replaced only when a file is uploaded
func (c *QuestionPaperController) Update(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		middleware.HandleWebError(ctx, err, "/", "")
		return
	}
	editPath := fmt.Sprintf("/update/%d", id)

	form, file, err := c.bindUpload(ctx)
	if err != nil {
		middleware.HandleWebError(ctx, err, editPath, "Error updating question paper. Please try again.")
		return
	}

	if err := c.service.Update(ctx.Request.Context(), id, form.ToInput(), file); err != nil {
		target := editPath
		if errors.Is(err, apperrors.ErrQuestionPaperNotFound) {
			target = "/"
		}
		middleware.HandleWebError(ctx, err, target, "Error updating question paper. Please try again.")
		return
	}

	flash.Success(ctx, "Question paper updated successfully!")
	middleware.Redirect(ctx, "/")
}

// Delete removes one question paper
func (c *QuestionPaperController) Delete(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		middleware.HandleWebError(ctx, err, "/", "")
		return
	}

	if err := c.service.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleWebError(ctx, err, "/", "Error deleting question paper. Please try again.")
		return
	}

	flash.Success(ctx, "Question paper deleted successfully!")
	middleware.Redirect(ctx, "/")
}

// Download sends the stored PDF as an attachment
func (c *QuestionPaperController) Download(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		middleware.HandleWebError(ctx, err, "/", "")
		return
	}

	file, err := c.service.Download(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleWebError(ctx, err, "/", "Error downloading question paper. Please try again.")
		return
	}

	logger.Info().Int64("id", id).Str("filename", file.Filename).Msg("Question paper downloaded")
	ctx.Header("Content-Disposition", helpers.AttachmentDisposition(file.Filename))
	ctx.Data(http.StatusOK, file.ContentType, file.Data)
}

// bindUpload reads the form fields and the optional file of an add or update request
func (c *QuestionPaperController) bindUpload(ctx *gin.Context) (dto.QuestionPaperForm, *multipart.FileHeader, error) {
	var form dto.QuestionPaperForm

	if c.maxUpload > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxUpload+multipartOverhead)
	}

	if err := ctx.ShouldBind(&form); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return form, nil, apperrors.NewCustomError(apperrors.ErrFileTooLarge,
				fmt.Sprintf("File exceeds the maximum upload size of %d MB.", c.maxUpload>>20))
		}
		return form, nil, apperrors.NewBadRequestError("Invalid form submission.")
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) {
			logger.Debug().Err(err).Msg("Ignoring unreadable file part")
		}
		return form, nil, nil
	}
	return form, file, nil
}
