package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"nikodex/logger"
	"nikodex/models"
	"nikodex/processing"
	"nikodex/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Response struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Msg string `json:"msg"`
}

const (
	uploadField   = "file"
	refreshHeader = "X-RefreshAt"
	imageMaxAge   = 60
)

var (
	// Predefined errors
	NotFoundResponse   = Response{"Not Found"}
	BadIDResponse      = Response{"Invalid id"}
	DBErrorResponse    = Response{"DB Error"}
	NoUploadResponse   = Response{"No file uploaded"}
	NoPickResponse     = Response{"No niko to pick"}
	BadRequestResponse = Response{"Bad request"}
)

// respondError translates errors returned by the models into status codes.
// Anything unexpected is logged and hidden behind a generic message.
func respondError(c *gin.Context, err error) {
	var (
		validationErr *models.ValidationError
		imageErr      *processing.ImageError
		rateLimitErr  *models.RateLimitError
	)
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, Response{validationErr.Error()})
	case errors.As(err, &imageErr):
		c.JSON(http.StatusBadRequest, Response{imageErr.Reason})
	case errors.As(err, &rateLimitErr):
		c.JSON(http.StatusTooManyRequests, Response{rateLimitErr.Error()})
	case errors.Is(err, models.ErrForbidden):
		c.JSON(http.StatusForbidden, Response{err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, NotFoundResponse)
	case errors.Is(err, models.ErrOrphanAbility):
		c.JSON(http.StatusNotFound, Response{err.Error()})
	case errors.Is(err, models.ErrConflict):
		c.JSON(http.StatusConflict, Response{err.Error()})
	case errors.Is(err, models.ErrNoPick):
		c.JSON(http.StatusTeapot, NoPickResponse)
	default:
		logger.Instance.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
	}
}

// paramID reads the :id path parameter, responding 400 itself when it is not valid
func paramID(c *gin.Context) (uint64, bool) {
	id, ok := utils.ParamUint64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, BadIDResponse)
	}
	return id, ok
}

func pagination(c *gin.Context) (utils.Pagination, bool) {
	page, err := utils.ParsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return page, false
	}
	return page, true
}

// withUpload opens the multipart file and hands it to fn, closing it afterwards
func withUpload(c *gin.Context, fn func(upload processing.Upload) error) error {
	header, err := c.FormFile(uploadField)
	if err != nil {
		return &processing.ImageError{Reason: NoUploadResponse.Error, Err: err}
	}
	upload := processing.Upload{
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}
	// Reject before opening anything
	if err = processing.Validate(upload); err != nil {
		return err
	}
	file, err := header.Open()
	if err != nil {
		return &processing.ImageError{Reason: "Failed to read upload", Err: err}
	}
	defer file.Close()
	upload.Reader = file
	return fn(upload)
}

// serveImage writes the png at path, or the placeholder
func serveImage(c *gin.Context, path string) {
	var buf bytes.Buffer
	if err := processing.Load(path, &buf); err != nil {
		respondError(c, err)
		return
	}
	c.Header("cache-control", (&utils.CacheRouter{CacheTime: imageMaxAge, Public: true}).Value())
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
