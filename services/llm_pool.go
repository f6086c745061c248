package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"fitgenix/utils"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Completer turns a system directive and a user message into model text.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// KeyPool is an ordered list of API credentials with a shared cursor. The
// cursor only moves when a call with the current key fails.
type KeyPool struct {
	keys   []string
	cursor atomic.Uint32
}

// NewKeyPool drops empty keys and keeps the order of the rest.
func NewKeyPool(keys ...string) *KeyPool {
	p := &KeyPool{}
	for _, k := range keys {
		if k != "" {
			p.keys = append(p.keys, k)
		}
	}
	return p
}

func (p *KeyPool) Len() int { return len(p.keys) }

// Current returns the cursor index and its key.
func (p *KeyPool) Current() (int, string) {
	i := int(p.cursor.Load()) % len(p.keys)
	return i, p.keys[i]
}

// Advance moves the cursor past index i. If another request already moved it,
// nothing happens, so two concurrent failures on one key skip only that key.
func (p *KeyPool) Advance(i int) {
	next := uint32((i + 1) % len(p.keys))
	p.cursor.CompareAndSwap(uint32(i), next)
}

// ModelFactory builds a model client bound to one API key.
type ModelFactory func(apiKey string) (llms.Model, error)

// OpenAICompatible returns a factory for an OpenAI-style chat endpoint such as Groq.
func OpenAICompatible(baseURL, model string) ModelFactory {
	return func(apiKey string) (llms.Model, error) {
		llm, err := openai.New(
			openai.WithBaseURL(baseURL),
			openai.WithToken(apiKey),
			openai.WithModel(model),
		)
		if err != nil {
			return nil, err
		}
		return llm, nil
	}
}

// LLMClient calls the completion model with failover across the key pool.
type LLMClient struct {
	pool     *KeyPool
	newModel ModelFactory

	mu     sync.Mutex
	models map[string]llms.Model
}

func NewLLMClient(pool *KeyPool, factory ModelFactory) *LLMClient {
	return &LLMClient{pool: pool, newModel: factory, models: make(map[string]llms.Model)}
}

// Complete tries each configured key at most once, starting from the pool's
// cursor. It fails with ErrServiceUnavailable once every key has failed.
func (c *LLMClient) Complete(ctx context.Context, system, user string) (string, error) {
	n := c.pool.Len()
	if n == 0 {
		return "", fmt.Errorf("%w: no API keys configured", ErrServiceUnavailable)
	}

	msgs := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, user),
	}

	var lastErr error
	for attempt := 0; attempt < n; attempt++ {
		idx, key := c.pool.Current()
		text, err := c.call(ctx, key, msgs)
		if err == nil {
			return text, nil
		}
		utils.Log.WithError(err).WithField("key_index", idx).Warn("completion failed, rotating API key")
		lastErr = err
		c.pool.Advance(idx)

		if ctx.Err() != nil {
			break
		}
	}
	return "", fmt.Errorf("%w: all API keys failed: %v", ErrServiceUnavailable, lastErr)
}

func (c *LLMClient) call(ctx context.Context, key string, msgs []llms.MessageContent) (string, error) {
	model, err := c.model(key)
	if err != nil {
		return "", err
	}
	resp, err := model.GenerateContent(ctx, msgs)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", errors.New("empty completion response")
	}
	return resp.Choices[0].Content, nil
}

func (c *LLMClient) model(key string) (llms.Model, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.models[key]; ok {
		return m, nil
	}
	m, err := c.newModel(key)
	if err != nil {
		return nil, err
	}
	c.models[key] = m
	return m, nil
}
