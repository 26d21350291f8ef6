package services

import (
	"context"
	"sync"
)

type fakeReply struct {
	text string
	err  error
}

// fakeCompleter replays scripted replies in order and records every request.
// Calls past the script get an empty reply.
type fakeCompleter struct {
	mu      sync.Mutex
	replies []fakeReply
	calls   []CompletionRequest
}

func newFake(replies ...fakeReply) *fakeCompleter {
	return &fakeCompleter{replies: replies}
}

func reply(text string) fakeReply { return fakeReply{text: text} }

func failure(err error) fakeReply { return fakeReply{err: err} }

func (f *fakeCompleter) Complete(_ context.Context, req CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.calls)
	f.calls = append(f.calls, req)
	if n >= len(f.replies) {
		return "", nil
	}
	return f.replies[n].text, f.replies[n].err
}

func (f *fakeCompleter) Calls() []CompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]CompletionRequest(nil), f.calls...)
}
