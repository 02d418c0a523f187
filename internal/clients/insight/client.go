package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/serenehq/serene-backend/internal/pkg/envutil"
	"github.com/serenehq/serene-backend/internal/pkg/logger"
)

// Client talks to the insight service: the RAG pipeline that analyzes room
// images against design guidelines and summarizes conversations into
// preference profiles. Exactly one upstream call per method call; retries are
// the caller's business.
type Client interface {
	Analyze(ctx context.Context, image ImageUpload, contextJSON []byte) (*AnalysisResult, error)
	SummarizePreferences(ctx context.Context, req SummarizeRequest) (*SummaryPayload, error)
}

type ImageUpload struct {
	Filename string
	Data     []byte
}

// AnalysisResult carries the upstream analysis verbatim. Raw is the full
// response body so callers can return it unmodified.
type AnalysisResult struct {
	AnalysisText string          `json:"analysis_text"`
	AnalysisJSON json.RawMessage `json:"analysis_json"`
	Raw          json.RawMessage `json:"-"`
}

type SummarizeRequest struct {
	ConversationID     uuid.UUID       `json:"conversation_id"`
	AllMessages        json.RawMessage `json:"all_messages"`
	SelectedTopics     json.RawMessage `json:"selected_topics"`
	TopicConversations json.RawMessage `json:"topic_conversations"`
	Timestamp          time.Time       `json:"timestamp"`
}

// SummaryPayload mirrors the summarize-preferences response shape.
type SummaryPayload struct {
	CategoryPreferences json.RawMessage `json:"category_preferences"`
	OverallSummary      string          `json:"overall_summary"`
	Metadata            SummaryMetadata `json:"metadata"`
}

type SummaryMetadata struct {
	Timestamp      time.Time `json:"timestamp"`
	Model          string    `json:"model"`
	ConversationID string    `json:"conversation_id"`
	MessageCount   int       `json:"message_count"`
	RAGUsed        bool      `json:"rag_used"`
	VectorStoreID  string    `json:"vector_store_id"`
}

type Config struct {
	BaseURL          string
	AnalyzeTimeout   time.Duration
	SummarizeTimeout time.Duration
	MaxImageBytes    int64
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		BaseURL:          envutil.GetEnv("INSIGHT_BASE_URL", "http://localhost:5001", log),
		AnalyzeTimeout:   time.Duration(envutil.GetEnvAsInt("INSIGHT_ANALYZE_TIMEOUT_SECONDS", 120, log)) * time.Second,
		SummarizeTimeout: time.Duration(envutil.GetEnvAsInt("INSIGHT_SUMMARIZE_TIMEOUT_SECONDS", 300, log)) * time.Second,
		MaxImageBytes:    envutil.GetEnvAsInt64("INSIGHT_MAX_IMAGE_BYTES", 10<<20, log),
	}
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

func NewClient(log *logger.Logger, cfg Config) Client {
	return &client{
		log: log.With("client", "InsightClient"),
		cfg: cfg,
		// Per-call deadlines come from contexts; the transport-level timeout
		// only caps the slower summarize path as a backstop.
		httpClient: &http.Client{Timeout: cfg.SummarizeTimeout + 30*time.Second},
	}
}

type analyzeEnvelope struct {
	Success      bool            `json:"success"`
	AnalysisText string          `json:"analysis_text"`
	AnalysisJSON json.RawMessage `json:"analysis_json"`
	Error        string          `json:"error"`
}

// Analyze posts the image plus the serialized user context to /analyze.
// contextJSON nil or empty means the multipart context part is omitted
// entirely, never sent as an empty placeholder.
func (c *client) Analyze(ctx context.Context, image ImageUpload, contextJSON []byte) (*AnalysisResult, error) {
	if len(image.Data) == 0 {
		return nil, fmt.Errorf("empty image upload")
	}
	if c.cfg.MaxImageBytes > 0 && int64(len(image.Data)) > c.cfg.MaxImageBytes {
		return nil, fmt.Errorf("%w: image is %d bytes, limit %d", ErrPayloadTooLarge, len(image.Data), c.cfg.MaxImageBytes)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	filename := image.Filename
	if filename == "" {
		filename = "upload.jpg"
	}
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("build multipart image part: %w", err)
	}
	if _, err := part.Write(image.Data); err != nil {
		return nil, fmt.Errorf("write multipart image part: %w", err)
	}
	if len(contextJSON) > 0 {
		if err := mw.WriteField("context", string(contextJSON)); err != nil {
			return nil, fmt.Errorf("write multipart context part: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.AnalyzeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.cfg.BaseURL+"/analyze", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}
	c.log.Debug("Analyze call finished", "status", resp.StatusCode, "elapsed", time.Since(started).String())

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var env analyzeEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if !env.Success {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: env.Error}
	}

	return &AnalysisResult{
		AnalysisText: env.AnalysisText,
		AnalysisJSON: env.AnalysisJSON,
		Raw:          json.RawMessage(raw),
	}, nil
}

type summarizeEnvelope struct {
	Success bool            `json:"success"`
	Summary json.RawMessage `json:"summary"`
	Error   string          `json:"error"`
}

// SummarizePreferences runs off the critical path, so its timeout is the
// longer configured bound.
func (c *client) SummarizePreferences(ctx context.Context, reqBody SummarizeRequest) (*SummaryPayload, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal summarize request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.SummarizeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.cfg.BaseURL+"/summarize-preferences", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var env summarizeEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if !env.Success {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: env.Error}
	}
	if len(env.Summary) == 0 {
		return nil, fmt.Errorf("%w: success without summary object", ErrMalformedPayload)
	}

	var summary SummaryPayload
	if err := json.Unmarshal(env.Summary, &summary); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if len(summary.CategoryPreferences) == 0 && summary.OverallSummary == "" {
		return nil, fmt.Errorf("%w: summary has no content", ErrMalformedPayload)
	}
	return &summary, nil
}
