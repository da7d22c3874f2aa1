// Package research talks to the external medical research endpoint that backs
// the physician assistant. The content core is designed against the Source
// interface; the concrete HTTP client and the demo provider both satisfy it.
package research

import "context"

// Request is the outbound research query payload.
type Request struct {
	Query          string         `json:"query"`
	PatientContext string         `json:"patientContext,omitempty"`
	UploadedFiles  []UploadedFile `json:"uploadedFiles"`
	Filters        Filters        `json:"filters"`
}

// UploadedFile is a file attached to a research query.
type UploadedFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Filters narrows a research query.
type Filters struct {
	Specialty     string   `json:"specialty,omitempty"`
	EvidenceLevel string   `json:"evidenceLevel,omitempty"`
	YearFrom      int      `json:"yearFrom,omitempty"`
	StudyTypes    []string `json:"studyTypes,omitempty"`
}

// SourceRef is one cited study in a research response.
type SourceRef struct {
	Title   string `json:"title"`
	Journal string `json:"journal"`
	Year    int    `json:"year"`
	URL     string `json:"url,omitempty"`
}

// Response is the research result shown in the assistant transcript.
type Response struct {
	Summary     string      `json:"summary"`
	KeyFindings []string    `json:"keyFindings"`
	Sources     []SourceRef `json:"sources"`
	Confidence  float64     `json:"confidence"`
	Fallback    bool        `json:"fallback,omitempty"`
}

// Source is the evidence backend capability the assistant is built against.
type Source interface {
	Query(ctx context.Context, req Request) (Response, error)
}

// FallbackResponse is the fixed payload substituted when the research backend
// fails. It is user-legible and never a raw error.
func FallbackResponse() Response {
	return Response{
		Summary: "The research service is temporarily unavailable. Your question was not lost; " +
			"please try again in a few moments.",
		KeyFindings: []string{
			"No evidence could be retrieved for this query right now.",
			"Saved consultations and search history are unaffected.",
		},
		Sources:    []SourceRef{},
		Confidence: 0,
		Fallback:   true,
	}
}
