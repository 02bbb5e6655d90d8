package handler

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Classifier forwards an image to the external identification service and
// returns its JSON verdict.
type Classifier interface {
	Classify(ctx context.Context, filename string, image io.Reader) (json.RawMessage, error)
}

// PredictHandler relays an uploaded image to the plant classifier.  The
// upload is staged on disk under UploadDir and removed again after the
// call completes, whether the upstream call succeeded or not.
type PredictHandler struct {
	Classifier Classifier
	UploadDir  string
}

func NewPredictHandler(cl Classifier, uploadDir string) *PredictHandler {
	return &PredictHandler{Classifier: cl, UploadDir: uploadDir}
}

// Predict handles POST /api/predict.  The multipart field must be named
// "file".  A missing file is rejected before any network call; upstream
// failures (timeout, non-2xx, network error) map to 502.
func (h *PredictHandler) Predict(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no file uploaded"})
	}

	staged, err := h.stage(fh)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "stage upload failed"})
	}
	defer func() {
		if err := os.Remove(staged); err != nil {
			log.Printf("predict: remove staged file %s: %v", staged, err)
		}
	}()

	f, err := os.Open(staged)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "stage upload failed"})
	}
	defer f.Close()

	verdict, err := h.Classifier.Classify(c.Request().Context(), fh.Filename, f)
	if err != nil {
		log.Printf("predict: upstream call failed: %v", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "prediction failed"})
	}
	return c.JSONBlob(http.StatusOK, verdict)
}

// stage copies the upload into UploadDir under a random name and returns
// the path.  The directory is created on first use.
func (h *PredictHandler) stage(fh *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		return "", err
	}
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := uuid.New().String() + filepath.Ext(fh.Filename)
	path := filepath.Join(h.UploadDir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}
