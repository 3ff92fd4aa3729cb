package chat

import (
	"strings"

	"github.com/openai/openai-go/v3"
)

// Fragment is one incremental piece of generated text. Text may be empty.
type Fragment struct {
	Text string
}

// Stream is a lazy, finite, non-restartable sequence of fragments.
//
//	for s.Next() {
//		fmt.Print(s.Current().Text)
//	}
//	if err := s.Err(); err != nil { ... }
//
// Callers must Close the stream whether or not they drain it.
type Stream interface {
	Next() bool
	Current() Fragment
	Err() error
	Close() error
}

// chunkStream is the part of the SDK's SSE stream we rely on
type chunkStream interface {
	Next() bool
	Current() openai.ChatCompletionChunk
	Err() error
	Close() error
}

// sdkStream adapts an SDK chunk stream to Stream. The first chunk may have
// been pulled already by Client.Chat to surface setup errors early.
type sdkStream struct {
	src     chunkStream
	primed  bool
	current Fragment
	err     error
	done    bool
}

func (s *sdkStream) Next() bool {
	if s.done {
		return false
	}
	if s.primed {
		s.primed = false
		s.current = fragmentOf(s.src.Current())
		return true
	}
	if s.src.Next() {
		s.current = fragmentOf(s.src.Current())
		return true
	}
	s.done = true
	s.current = Fragment{}
	if err := s.src.Err(); err != nil {
		s.err = wrapError(err)
	}
	return false
}

func (s *sdkStream) Current() Fragment { return s.current }

func (s *sdkStream) Err() error { return s.err }

func (s *sdkStream) Close() error {
	s.done = true
	return s.src.Close()
}

func fragmentOf(chunk openai.ChatCompletionChunk) Fragment {
	if len(chunk.Choices) == 1 {
		return Fragment{Text: chunk.Choices[0].Delta.Content}
	}
	var sb strings.Builder
	for _, choice := range chunk.Choices {
		sb.WriteString(choice.Delta.Content)
	}
	return Fragment{Text: sb.String()}
}
