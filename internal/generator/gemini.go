package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

const defaultGeminiEndpoint = "https://generativelanguage.googleapis.com"

// GeminiClient implements PlanGenerator against the Gemini REST API,
// requesting JSON output and decoding it into the typed content structs.
type GeminiClient struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGeminiClient creates a Gemini-backed plan generator. endpoint may be
// empty to use the public API host; httpClient controls timeouts.
func NewGeminiClient(endpoint, apiKey, model string, httpClient *http.Client) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	if endpoint == "" {
		endpoint = defaultGeminiEndpoint
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GeminiClient{
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
	}, nil
}

// Request/response shapes for the generateContent endpoint. Only the
// fields we use are mapped.
type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string  `json:"responseMimeType"`
	Temperature      float64 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// generate sends prompt to the model and decodes the JSON text of the
// first candidate into out.
func (c *GeminiClient) generate(ctx context.Context, prompt string, out interface{}) error {
	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			ResponseMimeType: "application/json",
			Temperature:      0.5,
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.endpoint, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call gemini: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read gemini response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.WithField("status", resp.StatusCode).Error("gemini returned non-200 response")
		return fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, string(body))
	}

	var genResp geminiResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return fmt.Errorf("decode gemini envelope: %w", err)
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return errors.New("gemini response contains no candidates")
	}

	text := genResp.Candidates[0].Content.Parts[0].Text
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("decode generated content: %w", err)
	}
	return nil
}

func (c *GeminiClient) AssessFeasibility(ctx context.Context, req PlanRequest) (*FeasibilityVerdict, error) {
	var verdict FeasibilityVerdict
	if err := c.generate(ctx, feasibilityPrompt(req), &verdict); err != nil {
		return nil, err
	}
	if verdict.Feasibility != Feasible && verdict.Feasibility != NotFeasible {
		return nil, fmt.Errorf("unrecognized feasibility verdict %q", verdict.Feasibility)
	}
	return &verdict, nil
}

func (c *GeminiClient) GenerateFirst(ctx context.Context, req PlanRequest) (*WorkoutPlanContent, error) {
	var content WorkoutPlanContent
	if err := c.generate(ctx, workoutPrompt(req, false), &content); err != nil {
		return nil, err
	}
	return &content, nil
}

func (c *GeminiClient) GenerateContinuation(ctx context.Context, req PlanRequest) (*WorkoutPlanContent, error) {
	var content WorkoutPlanContent
	if err := c.generate(ctx, workoutPrompt(req, true), &content); err != nil {
		return nil, err
	}
	return &content, nil
}

func (c *GeminiClient) GenerateMealPlan(ctx context.Context, req MealRequest) (string, error) {
	// Meal plans are stored opaquely; decode into a free-form document
	// only to validate that the model returned JSON.
	var meal map[string]interface{}
	if err := c.generate(ctx, mealPrompt(req), &meal); err != nil {
		return "", err
	}
	raw, err := json.Marshal(meal)
	if err != nil {
		return "", fmt.Errorf("re-encode meal plan: %w", err)
	}
	return string(raw), nil
}
