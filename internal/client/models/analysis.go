package models

// Resume is the uploaded resume document.
type Resume struct {
	Name      string
	MediaType string
	Content   []byte
}

// Size is the document size in bytes.
func (r *Resume) Size() int {
	if r == nil {
		return 0
	}
	return len(r.Content)
}

// Application is one submission to the analysis service. Empty job fields
// are omitted from the request.
type Application struct {
	Resume         *Resume
	JobTitle       string
	JobDescription string
	JobURL         string
}

// AnalysisResult is the service's verdict for one submission.
type AnalysisResult struct {
	FitScore int      `json:"fit_score"`
	Insights []string `json:"insights"`
}
