package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"google.golang.org/genai"

	appLog "syllabuscal/internal/log"
	"syllabuscal/internal/model"
)

const extractionPrompt = `Extract course data from this syllabus into strict JSON.

CONTEXT:
- Semester Start: %s
- Semester End: %s

INSTRUCTIONS:
1. **School**: Extract the university name.
2. **Lectures**: Split multiple days into separate objects. Find the address.
3. **Exams & Quizzes (CRITICAL)**:
   - If an exam has a specific TIME WINDOW (e.g., "Midterm: Oct 15, 7:00 PM - 9:00 PM"), you MUST fill in exam_date, start_time and end_time.
   - Do NOT put this in due_date. due_date is only for homework deadlines.
4. **Assignments**: If an item repeats, set recurring=true.`

// Client turns a syllabus document into structured course data via the
// Gemini API.
type Client struct {
	genai *genai.Client
	model string
}

// New builds a Client. A missing API key is the one configuration error
// that fails loudly: without it no request can ever succeed.
func New(ctx context.Context, apiKey, modelName string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("extraction API key is missing (set GEMINI_API_KEY)")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{genai: gc, model: modelName}, nil
}

// Extract uploads the spooled syllabus file and asks the model for course
// data constrained to the CourseData JSON schema.
func (c *Client) Extract(ctx context.Context, path, filename, startDate, endDate string) (model.CourseData, error) {
	var out model.CourseData

	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if mimeType == "" {
		mimeType = "application/pdf"
	}

	uploaded, err := c.genai.Files.UploadFromPath(ctx, path, &genai.UploadFileConfig{MIMEType: mimeType})
	if err != nil {
		return out, fmt.Errorf("upload syllabus: %w", err)
	}

	prompt := fmt.Sprintf(extractionPrompt, startDate, endDate)
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromURI(uploaded.URI, uploaded.MIMEType),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   courseDataSchema(),
	})
	if err != nil {
		return out, fmt.Errorf("generate course data: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return out, errors.New("extraction returned an empty response")
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return out, fmt.Errorf("decode course data: %w", err)
	}

	appLog.Info("syllabus extracted",
		"course", out.CourseCode,
		"lectures", len(out.Lectures),
		"assignments", len(out.Assignments),
	)
	return out, nil
}

// courseDataSchema constrains the model's response to the CourseData shape.
func courseDataSchema() *genai.Schema {
	str := func() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }

	lecture := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"day":          str(),
			"start_time":   str(),
			"end_time":     str(),
			"building":     str(),
			"room":         str(),
			"section":      str(),
			"full_address": str(),
		},
		Required: []string{"day", "start_time", "end_time"},
	}

	assignment := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":          str(),
			"type":           str(),
			"due_date":       str(),
			"exam_date":      str(),
			"start_time":     str(),
			"end_time":       str(),
			"details":        str(),
			"location":       str(),
			"recurring":      {Type: genai.TypeBoolean},
			"recurring_day":  str(),
			"recurring_time": str(),
		},
		Required: []string{"title", "type"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"school_name":    str(),
			"course_code":    str(),
			"course_name":    str(),
			"semester_start": str(),
			"semester_end":   str(),
			"lectures":       {Type: genai.TypeArray, Items: lecture},
			"assignments":    {Type: genai.TypeArray, Items: assignment},
		},
		Required: []string{
			"school_name", "course_code", "course_name",
			"semester_start", "semester_end", "lectures", "assignments",
		},
	}
}
