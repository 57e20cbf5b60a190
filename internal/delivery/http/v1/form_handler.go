package v1

import (
	"errors"
	"go-agency-backend/internal/delivery/http/response"
	"go-agency-backend/internal/domain"
	"go-agency-backend/internal/forms"
	"go-agency-backend/pkg/apperror"
	"go-agency-backend/pkg/security"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// InstanceHeader carries the form instance ID between the website and the gateway
const InstanceHeader = "X-Form-Instance"

// maxBodyBytes leaves room for the text fields next to a maximum-size resume
const maxBodyBytes = security.MaxResumeSize + 1<<20

type FormHandler struct {
	formUC domain.FormUsecase
}

// NewFormHandler registers the public form routes
func NewFormHandler(public *gin.RouterGroup, formUC domain.FormUsecase, limiter gin.HandlerFunc) {
	handler := &FormHandler{
		formUC: formUC,
	}

	formsGroup := public.Group("/forms")
	{
		formsGroup.GET("/:formType/schema", handler.GetSchema)
		formsGroup.POST("/:formType", limiter, handler.Submit)
		formsGroup.GET("/instances/:id", handler.GetInstance)
		formsGroup.DELETE("/instances/:id", handler.Dismiss)
	}
}

// GetSchema godoc
// @Summary      Describe a form
// @Description  Field rules of a form, for rendering and client-side hints
// @Tags         forms
// @Produce      json
// @Param        formType  path      string  true  "contact, job, program or quote"
// @Success      200       {object}  response.Response{data=[]validation.FieldDescription}
// @Failure      400       {object}  response.Response
// @Router       /forms/{formType}/schema [get]
func (h *FormHandler) GetSchema(c *gin.Context) {
	formType, err := domain.ParseFormType(c.Param("formType"))
	if err != nil {
		c.Error(apperror.BadRequest("Unknown form type"))
		return
	}

	fields, err := h.formUC.Schema(formType)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	response.Success(c, http.StatusOK, "Form schema", fields)
}

// Submit godoc
// @Summary      Submit a form
// @Description  Validates the form and relays it to the backend. Send the X-Form-Instance header returned by the first call to keep one instance per rendered form.
// @Tags         forms
// @Accept       mpfd
// @Accept       json
// @Produce      json
// @Param        formType         path      string  true   "contact, job, program or quote"
// @Param        X-Form-Instance  header    string  false  "Form instance ID (UUID)"
// @Param        resume           formData  file    false  "Resume (PDF, DOC or DOCX, max 5MB)"
// @Success      200  {object}  response.Response{data=domain.FormSnapshot}
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Failure      413  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Failure      429  {object}  response.Response
// @Failure      502  {object}  response.Response{data=domain.FormSnapshot}
// @Router       /forms/{formType} [post]
func (h *FormHandler) Submit(c *gin.Context) {
	formType, err := domain.ParseFormType(c.Param("formType"))
	if err != nil {
		c.Error(apperror.BadRequest("Unknown form type"))
		return
	}

	fields, attachment, appErr := readSubmission(c)
	if appErr != nil {
		c.Error(appErr)
		return
	}

	req := &domain.SubmitRequest{
		InstanceID: strings.TrimSpace(c.GetHeader(InstanceHeader)),
		FormType:   formType,
		Fields:     fields,
		Attachment: attachment,
		ClientIP:   c.ClientIP(),
		RequestID:  c.GetString("RequestID"),
	}

	snap, err := h.formUC.Submit(c.Request.Context(), req)
	if snap != nil {
		c.Header(InstanceHeader, snap.InstanceID)
	}
	if err != nil {
		c.Error(submitError(err, snap))
		return
	}

	response.Success(c, http.StatusOK, snap.Message, snap)
}

// GetInstance godoc
// @Summary      Get a form instance
// @Tags         forms
// @Produce      json
// @Param        id   path      string  true  "Form instance ID"
// @Success      200  {object}  response.Response{data=domain.FormSnapshot}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /forms/instances/{id} [get]
func (h *FormHandler) GetInstance(c *gin.Context) {
	snap, err := h.formUC.GetInstance(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(instanceError(err))
		return
	}
	response.Success(c, http.StatusOK, "Form instance", snap)
}

// Dismiss godoc
// @Summary      Dismiss a submission outcome
// @Description  Returns the instance to idle before the automatic reset
// @Tags         forms
// @Produce      json
// @Param        id   path      string  true  "Form instance ID"
// @Success      200  {object}  response.Response{data=domain.FormSnapshot}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /forms/instances/{id} [delete]
func (h *FormHandler) Dismiss(c *gin.Context) {
	snap, err := h.formUC.Dismiss(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(instanceError(err))
		return
	}
	response.Success(c, http.StatusOK, "Form instance reset", snap)
}

// readSubmission extracts the text fields and the resume from a multipart
// or JSON body
func readSubmission(c *gin.Context) (map[string]string, any, *apperror.AppError) {
	mediaType, _, _ := mime.ParseMediaType(c.ContentType())

	switch mediaType {
	case "multipart/form-data":
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
		if err := c.Request.ParseMultipartForm(maxBodyBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, nil, apperror.RequestTooLarge("Upload is too large. Resumes must be 5MB or smaller.")
			}
			return nil, nil, apperror.BadRequest("Invalid form data")
		}
		form := c.Request.MultipartForm
		fields := make(map[string]string, len(form.Value))
		for name, values := range form.Value {
			if len(values) > 0 {
				fields[name] = values[0]
			}
		}
		if files := form.File[forms.ResumeField]; len(files) > 0 {
			return fields, files, nil
		}
		return fields, nil, nil

	case "application/json":
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			return nil, nil, apperror.BadRequest("Invalid JSON body")
		}
		fields := make(map[string]string, len(body))
		for name, value := range body {
			if s, ok := jsonFieldString(value); ok {
				fields[name] = s
			}
		}
		return fields, nil, nil
	}

	return nil, nil, apperror.BadRequest("Content-Type must be multipart/form-data or application/json")
}

// jsonFieldString flattens scalar JSON values; nested values are dropped
func jsonFieldString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	}
	return "", false
}

func submitError(err error, snap *domain.FormSnapshot) *apperror.AppError {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		return apperror.Unprocessable("Please correct the highlighted fields", err).WithDetails(vErr.Fields)
	case errors.Is(err, domain.ErrSubmissionInFlight):
		return apperror.Conflict("A submission for this form is already in progress", err)
	case errors.Is(err, domain.ErrRelayFailed):
		message := "Something went wrong. Please try again later."
		if snap != nil && snap.Message != "" {
			message = snap.Message
		}
		return apperror.BadGateway(message, err).WithDetails(snap)
	case errors.Is(err, domain.ErrUploadLimitExceeded):
		return apperror.TooManyRequests("Too many resume uploads. Please try again later.", err)
	case errors.Is(err, domain.ErrAttachmentRejected):
		return apperror.Unprocessable("The uploaded resume could not be accepted", err).
			WithDetails(map[string]string{forms.ResumeField: "Resume could not be accepted. Please upload a different file."})
	case errors.Is(err, domain.ErrUnknownFormType):
		return apperror.BadRequest("Unknown form type")
	case errors.Is(err, domain.ErrInvalidInstanceID):
		return apperror.BadRequest("Invalid form instance ID")
	case errors.Is(err, domain.ErrInstanceFormType), errors.Is(err, domain.ErrInstanceClosed):
		return apperror.Conflict("Form instance is no longer valid. Please reload the form.", err)
	}
	return apperror.Internal(err)
}

func instanceError(err error) *apperror.AppError {
	switch {
	case errors.Is(err, domain.ErrInvalidInstanceID):
		return apperror.BadRequest("Invalid form instance ID")
	case errors.Is(err, domain.ErrInstanceNotFound):
		return apperror.NotFound("Form instance not found")
	}
	return apperror.Internal(err)
}
