package assistant

import (
	"context"
	log "log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const DefaultOpenAIModel = string(openai.ChatModelGPT5Nano)

const systemPrompt = `You are a voice assistant. Your answer will be read aloud.
Reply in one to three short plain sentences. No markdown, lists or code.`

type OpenAIConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// OpenAI answers through the chat completions API.
type OpenAI struct {
	client  openai.Client
	model   openai.ChatModel
	timeout time.Duration
}

func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &OpenAI{
		client:  openai.NewClient(opts...),
		model:   openai.ChatModel(cfg.Model),
		timeout: cfg.Timeout,
	}
}

func (o *OpenAI) Ask(ctx context.Context, question string) string {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(question),
		},
		Model: o.model,
	})
	if err != nil {
		log.Warn("Chat completion failed", "err", err)
		return Failed(err)
	}

	if len(resp.Choices) == 0 {
		return NoResponse
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return NoResponse
	}

	log.Debug("Chat completion", "data", answer)
	return answer
}
