// Package engine is the query entry point: it loads the snapshot, runs the
// retrieval fusion and context assembly stages, and synthesizes an answer.
// Optional evaluation scoring and feedback capture are side-logged to the
// sqlite feedback store and never affect the answer itself.
package engine

import (
	"context"
	"log"
	"path/filepath"

	"codequery/internal/assembler"
	"codequery/internal/feedback"
	"codequery/internal/llm"
	"codequery/internal/planner"
	"codequery/internal/searcher"
	"codequery/internal/synth"
	"codequery/internal/vectorindex"
)

// Options configures an Engine
type Options struct {
	ContextBudget int
	Fusion        searcher.Options
	FeedbackDB    string // path inside the data dir; empty disables the store
}

// DefaultOptions returns the standard engine configuration
func DefaultOptions() Options {
	return Options{
		ContextBudget: assembler.DefaultBudget,
		Fusion:        searcher.DefaultOptions(),
		FeedbackDB:    "feedback.db",
	}
}

// AskOptions are the per-question flags
type AskOptions struct {
	Evaluate bool // score the answer and side-log the result
	Feedback bool // record the exchange and return a feedback id
}

// Answer is the result of one question
type Answer struct {
	Text       string
	FeedbackID string
	Evaluation *feedback.Evaluation
}

// Engine serves questions over a loaded index
type Engine struct {
	index       *vectorindex.Index
	fusion      *searcher.Fusion
	assembler   *assembler.Assembler
	synthesizer *synth.Synthesizer
	completer   llm.Completer
	store       *feedback.Store
	budget      int
}

// Open loads the snapshot from dataDir and wires the query pipeline.
// A missing snapshot is fatal.
func Open(dataDir string, completer llm.Completer, embedder llm.Embedder, opts Options) (*Engine, error) {
	index := vectorindex.New()
	if err := index.Load(filepath.Join(dataDir, vectorindex.SnapshotFile)); err != nil {
		return nil, err
	}

	var store *feedback.Store
	if opts.FeedbackDB != "" {
		s, err := feedback.Open(filepath.Join(dataDir, opts.FeedbackDB))
		if err != nil {
			// The store is a side-channel; a broken one must not block answers
			log.Printf("engine: feedback store unavailable: %v", err)
		} else {
			store = s
		}
	}

	p := planner.New(completer)
	return &Engine{
		index:       index,
		fusion:      searcher.New(p, embedder, completer, index, opts.Fusion),
		assembler:   assembler.New(),
		synthesizer: synth.New(completer),
		completer:   completer,
		store:       store,
		budget:      opts.ContextBudget,
	}, nil
}

// Close releases the feedback store if one is open
func (e *Engine) Close() error {
	if e.store != nil {
		return e.store.Close()
	}
	return nil
}

// ChunkCount returns the number of indexed chunks
func (e *Engine) ChunkCount() int {
	return e.index.Len()
}

// Ask answers a question. An empty fused retrieval set returns the fixed
// not-found message without invoking synthesis. Collaborator faults surface
// as descriptive text in the answer, never as an error from this method.
func (e *Engine) Ask(ctx context.Context, question string, opts AskOptions) Answer {
	candidates, err := e.fusion.Retrieve(ctx, question)
	if err != nil {
		return Answer{Text: searcher.NotFoundAnswer}
	}

	contextText := e.assembler.Assemble(candidates, e.budget)
	text := e.synthesizer.Synthesize(ctx, contextText, question)
	answer := Answer{Text: text}

	if opts.Evaluate {
		eval := e.evaluate(ctx, contextText, question, text)
		answer.Evaluation = &eval
		if e.store != nil {
			if err := e.store.LogEvaluation(ctx, question, text, eval); err != nil {
				log.Printf("engine: failed to log evaluation: %v", err)
			}
		}
	}
	if opts.Feedback && e.store != nil {
		id, err := e.store.SaveFeedback(ctx, question, text)
		if err != nil {
			log.Printf("engine: failed to save feedback: %v", err)
		} else {
			answer.FeedbackID = id
		}
	}

	return answer
}
