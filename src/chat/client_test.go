package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/openai/openai-go/v3"

	"github.com/apimgr/hey/src/config"
	"github.com/apimgr/hey/src/model"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		OpenAIKey:     "sk-test",
		OpenAIModel:   "gpt-test",
		OpenAIBaseURL: baseURL,
		BotName:       "Worker1",
		UserName:      "Ada",
		Tone:          "cheerful",
		Timeout:       5 * time.Second,
	}
}

// sseHandler streams one chat.completion.chunk per fragment, then [DONE]
func sseHandler(t *testing.T, fragments []string, inspect func(body map[string]any)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("Path = %q, want /v1/chat/completions", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("X-Request-ID header should be set")
		}
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Errorf("request body is not JSON: %v", err)
			return
		}
		if inspect != nil {
			inspect(body)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		flusher, _ := w.(http.Flusher)
		for i, frag := range fragments {
			content, _ := json.Marshal(frag)
			fmt.Fprintf(w, "data: {\"id\":\"chatcmpl-1\",\"object\":\"chat.completion.chunk\",\"created\":%d,\"model\":\"gpt-test\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%s},\"finish_reason\":null}]}\n\n", i, content)
			if flusher != nil {
				flusher.Flush()
			}
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}
}

func drain(t *testing.T, s Stream) []string {
	t.Helper()
	defer s.Close()
	var out []string
	for s.Next() {
		out = append(out, s.Current().Text)
	}
	if err := s.Err(); err != nil {
		t.Fatalf("Stream.Err() = %v", err)
	}
	return out
}

// Tests for BuildMessages

func TestBuildMessagesOrder(t *testing.T) {
	cfg := testConfig("")
	snippets := []string{"alpha", "beta", "gamma"}

	msgs := BuildMessages(cfg, "what is go?", snippets)

	if len(msgs) != len(snippets)+2 {
		t.Fatalf("len(msgs) = %d, want %d", len(msgs), len(snippets)+2)
	}
	if msgs[0].Role != RoleSystem {
		t.Errorf("msgs[0].Role = %q, want system", msgs[0].Role)
	}
	for i, s := range snippets {
		m := msgs[i+1]
		if m.Role != RoleUser {
			t.Errorf("msgs[%d].Role = %q, want user", i+1, m.Role)
		}
		if m.Content != ContextPreface+s {
			t.Errorf("msgs[%d].Content = %q", i+1, m.Content)
		}
	}
	last := msgs[len(msgs)-1]
	if last.Role != RoleUser || last.Content != "what is go?" {
		t.Errorf("last message = %+v, want raw query", last)
	}
}

func TestBuildMessagesNoSnippets(t *testing.T) {
	msgs := BuildMessages(testConfig(""), "hi", nil)
	if len(msgs) != 2 {
		t.Fatalf("len(msgs) = %d, want 2", len(msgs))
	}
	if msgs[1].Content != "hi" {
		t.Errorf("msgs[1].Content = %q", msgs[1].Content)
	}
}

func TestSystemPrompt(t *testing.T) {
	prompt := SystemPrompt(testConfig(""))
	for _, want := range []string{"Worker1", "cheerful", "Ada"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("SystemPrompt() = %q, should contain %q", prompt, want)
		}
	}
}

func TestToParams(t *testing.T) {
	params := toParams([]Message{
		{Role: RoleSystem, Content: "sys"},
		{Role: RoleUser, Content: "usr"},
	})
	if len(params) != 2 {
		t.Fatalf("len(params) = %d", len(params))
	}
	if params[0].OfSystem == nil {
		t.Error("params[0] should be a system message")
	}
	if params[1].OfUser == nil {
		t.Error("params[1] should be a user message")
	}
}

// Tests for Chat

func TestChatStreamsFragments(t *testing.T) {
	server := httptest.NewServer(sseHandler(t, []string{"Hel", "lo!"}, func(body map[string]any) {
		if body["model"] != "gpt-test" {
			t.Errorf("model = %v", body["model"])
		}
		if body["temperature"] != 0.1 {
			t.Errorf("temperature = %v, want 0.1", body["temperature"])
		}
		if body["stream"] != true {
			t.Errorf("stream = %v, want true", body["stream"])
		}
		msgs, _ := body["messages"].([]any)
		if len(msgs) != 4 {
			t.Errorf("len(messages) = %d, want 4", len(msgs))
		}
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL + "/v1/"))
	stream, err := client.Chat(context.Background(), "greet me", []string{"s1", "s2"})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	got := drain(t, stream)
	if strings.Join(got, "") != "Hello!" {
		t.Errorf("fragments = %q, want concatenation Hello!", got)
	}
	if len(got) != 2 {
		t.Errorf("len(fragments) = %d, want 2", len(got))
	}
}

func TestChatEmptyFragments(t *testing.T) {
	server := httptest.NewServer(sseHandler(t, []string{"", "ok", ""}, nil))
	defer server.Close()

	stream, err := NewClient(testConfig(server.URL+"/v1/")).Chat(context.Background(), "q", nil)
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	got := drain(t, stream)
	if len(got) != 3 || strings.Join(got, "") != "ok" {
		t.Errorf("fragments = %q", got)
	}
}

func TestChatNotRestartable(t *testing.T) {
	server := httptest.NewServer(sseHandler(t, []string{"a"}, nil))
	defer server.Close()

	stream, err := NewClient(testConfig(server.URL+"/v1/")).Chat(context.Background(), "q", nil)
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	drain(t, stream)
	if stream.Next() {
		t.Error("Next() after exhaustion should return false")
	}
}

func TestChatAuthError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`))
	}))
	defer server.Close()

	_, err := NewClient(testConfig(server.URL+"/v1/")).Chat(context.Background(), "q", nil)
	var chatErr *model.ChatError
	if !errors.As(err, &chatErr) {
		t.Fatalf("Chat() error = %v, want *model.ChatError", err)
	}
	if chatErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", chatErr.StatusCode)
	}
	if calls != 1 {
		t.Errorf("server called %d times, want 1 (no retries)", calls)
	}
}

func TestChatRateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"quota exceeded","type":"insufficient_quota"}}`))
	}))
	defer server.Close()

	_, err := NewClient(testConfig(server.URL+"/v1/")).Chat(context.Background(), "q", nil)
	if err == nil {
		t.Fatal("Chat() error = nil, want rate limit error")
	}
	if model.ExitCode(err) != model.ExitChat {
		t.Errorf("ExitCode = %d, want %d", model.ExitCode(err), model.ExitChat)
	}
	if !strings.Contains(err.Error(), "rate limit") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestChatTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(testConfig(url+"/v1/")).Chat(context.Background(), "q", nil)
	var chatErr *model.ChatError
	if !errors.As(err, &chatErr) {
		t.Fatalf("Chat() error = %v, want *model.ChatError", err)
	}
}

// fakeChunks feeds canned chunks and a trailing error to sdkStream
type fakeChunks struct {
	chunks []openai.ChatCompletionChunk
	pos    int
	err    error
	closed bool
}

func (f *fakeChunks) Next() bool {
	if f.pos >= len(f.chunks) {
		return false
	}
	f.pos++
	return true
}

func (f *fakeChunks) Current() openai.ChatCompletionChunk { return f.chunks[f.pos-1] }
func (f *fakeChunks) Err() error                          { return f.err }
func (f *fakeChunks) Close() error                        { f.closed = true; return nil }

func chunk(texts ...string) openai.ChatCompletionChunk {
	var c openai.ChatCompletionChunk
	for _, text := range texts {
		var choice openai.ChatCompletionChunkChoice
		choice.Delta.Content = text
		c.Choices = append(c.Choices, choice)
	}
	return c
}

func TestSDKStreamMidStreamError(t *testing.T) {
	src := &fakeChunks{
		chunks: []openai.ChatCompletionChunk{chunk("par"), chunk("tial")},
		err:    io.ErrUnexpectedEOF,
	}
	s := &sdkStream{src: src}

	var got string
	for s.Next() {
		got += s.Current().Text
	}
	if got != "partial" {
		t.Errorf("text before failure = %q, want %q", got, "partial")
	}
	var chatErr *model.ChatError
	if !errors.As(s.Err(), &chatErr) {
		t.Fatalf("Err() = %v, want *model.ChatError", s.Err())
	}
	if !errors.Is(s.Err(), io.ErrUnexpectedEOF) {
		t.Error("Err() should wrap the transport error")
	}

	s.Close()
	if !src.closed {
		t.Error("Close() should close the underlying stream")
	}
}

func TestFragmentOfMultipleChoices(t *testing.T) {
	if got := fragmentOf(chunk("a", "b")).Text; got != "ab" {
		t.Errorf("fragmentOf() = %q, want ab", got)
	}
	if got := fragmentOf(chunk()).Text; got != "" {
		t.Errorf("fragmentOf(no choices) = %q, want empty", got)
	}
}
