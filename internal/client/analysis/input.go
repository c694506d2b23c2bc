package analysis

import (
	"errors"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/resumefit/internal/client/models"
)

// Rejection reasons reported by Validate.
var (
	ErrResumeRequired      = errors.New("resume required")
	ErrJobContextRequired  = errors.New("need at least one of title, description, or url")
	ErrDescriptionRequired = errors.New("description required")
	ErrTitleRequired       = errors.New("title required")
	ErrInvalidJobURL       = errors.New("job url must be an absolute url")
)

// ErrNotPDF is returned by LoadResume for anything but a PDF document.
var ErrNotPDF = errors.New("please upload a PDF file")

const pdfMediaType = "application/pdf"

// Input is what the user supplies for one analysis.
type Input struct {
	Resume         *models.Resume
	JobTitle       string
	JobDescription string
	JobURL         string
}

func present(s string) bool { return strings.TrimSpace(s) != "" }

// Validate checks in, reporting only the first problem found. The order is
// fixed: resume, any job context, description for a title, title for a
// description, then the URL shape. A URL on its own is enough context.
func Validate(in Input) error {
	hasTitle, hasDesc, hasURL := present(in.JobTitle), present(in.JobDescription), present(in.JobURL)

	switch {
	case in.Resume == nil:
		return ErrResumeRequired
	case !hasTitle && !hasDesc && !hasURL:
		return ErrJobContextRequired
	case hasTitle && !hasDesc:
		return ErrDescriptionRequired
	case !hasTitle && hasDesc:
		return ErrTitleRequired
	case hasURL && !absoluteURL(in.JobURL):
		return ErrInvalidJobURL
	}
	return nil
}

func absoluteURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	return err == nil && u.Scheme != "" && u.Host != ""
}

// application converts in to the request body, dropping blank job fields.
func (in Input) application() models.Application {
	app := models.Application{Resume: in.Resume}
	if present(in.JobTitle) {
		app.JobTitle = strings.TrimSpace(in.JobTitle)
	}
	if present(in.JobDescription) {
		app.JobDescription = strings.TrimSpace(in.JobDescription)
	}
	if present(in.JobURL) {
		app.JobURL = strings.TrimSpace(in.JobURL)
	}
	return app
}

// LoadResume reads the resume at path. Only PDF content is accepted,
// whatever the file extension says.
func LoadResume(path string) (*models.Resume, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if http.DetectContentType(content) != pdfMediaType {
		return nil, ErrNotPDF
	}
	return &models.Resume{
		Name:      filepath.Base(path),
		MediaType: pdfMediaType,
		Content:   content,
	}, nil
}
