// Package workflow implements the two-phase conversational state machine that
// elicits a learner profile and then generates a learning path. Suspension is
// a durable checkpoint, not an in-memory park: every transition loads the
// thread's checkpoint, applies one step, and writes it back.
package workflow

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/learnpath/core-service/internal/apperr"
	"github.com/learnpath/core-service/internal/logger"
)

// ModelClient is the opaque text-generation function the engine drives.
type ModelClient interface {
	GenerateText(ctx context.Context, system string, user string) (string, error)
}

type Config struct {
	// ModelTimeout bounds each model invocation. Zero means no bound.
	ModelTimeout time.Duration
	// MaxConcurrentModelCalls bounds in-flight model invocations across all
	// threads. Zero or negative means 4.
	MaxConcurrentModelCalls int
}

// Engine runs the state machine. It holds no per-thread state; concurrent
// calls against distinct thread ids are independent. Calls against the same
// thread id must be serialized by the caller.
type Engine struct {
	model   ModelClient
	store   *CheckpointStore
	log     *logger.Logger
	timeout time.Duration
	sem     *semaphore.Weighted
}

func NewEngine(model ModelClient, store *CheckpointStore, cfg Config, baseLog *logger.Logger) *Engine {
	slots := int64(cfg.MaxConcurrentModelCalls)
	if slots <= 0 {
		slots = 4
	}
	return &Engine{
		model:   model,
		store:   store,
		log:     baseLog.With("service", "WorkflowEngine"),
		timeout: cfg.ModelTimeout,
		sem:     semaphore.NewWeighted(slots),
	}
}

// Start begins a thread. With a topic it runs the elicitation step and
// suspends awaiting the learner's answer; without one it parks the thread
// awaiting a topic, asking for it first. The returned checkpoint is already
// durable.
func (e *Engine) Start(ctx context.Context, threadID, topic string) (*Checkpoint, error) {
	if e.store.Exists(threadID) {
		return nil, fmt.Errorf("%w: thread %q already started", apperr.ErrInvalidArgument, threadID)
	}

	cp := &Checkpoint{
		ThreadID: threadID,
		Topic:    topic,
		Messages: []Message{{Role: RoleHuman, Content: "Let's start"}},
	}

	if topic == "" {
		cp.State = StateAwaitingTopic
		cp.Messages = append(cp.Messages, Message{
			Role:    RoleAI,
			Content: "Please provide a topic you want to learn about.",
		})
		if err := e.store.Save(cp); err != nil {
			return nil, err
		}
		return cp, nil
	}

	return e.elicit(ctx, cp)
}

// Resume supplies the learner's input to a suspended thread. From
// awaiting_topic the input is the topic and the elicitation step runs; from
// suspended_for_answer the input is appended to the transcript and the
// generation step runs to completion. A completed thread is not re-enterable.
func (e *Engine) Resume(ctx context.Context, threadID, input string) (*Checkpoint, error) {
	cp, err := e.store.Load(threadID)
	if err != nil {
		return nil, err
	}

	switch cp.State {
	case StateAwaitingTopic:
		if input == "" {
			return nil, fmt.Errorf("%w: thread %q", apperr.ErrMissingTopic, threadID)
		}
		cp.Topic = input
		cp.Messages = append(cp.Messages, Message{Role: RoleHuman, Content: input})
		return e.elicit(ctx, cp)

	case StateSuspendedForAnswer:
		if cp.Topic == "" {
			return nil, fmt.Errorf("%w: thread %q", apperr.ErrMissingTopic, threadID)
		}
		cp.Messages = append(cp.Messages, Message{Role: RoleHuman, Content: input})
		return e.generate(ctx, cp)

	case StateCompleted:
		return nil, fmt.Errorf("%w: thread %q already completed", apperr.ErrInvalidArgument, threadID)

	default:
		return nil, fmt.Errorf("%w: thread %q in unknown state %q", apperr.ErrCorruptGraph, threadID, cp.State)
	}
}

// Get loads the thread's durable checkpoint.
func (e *Engine) Get(threadID string) (*Checkpoint, error) {
	return e.store.Load(threadID)
}

// elicit runs the assessment model call and suspends. Exactly one elicitation
// round happens per thread; the suspension is structural, not conditional.
func (e *Engine) elicit(ctx context.Context, cp *Checkpoint) (*Checkpoint, error) {
	response, err := e.invokeModel(ctx, assessmentSystemPrompt(cp.Topic), renderTranscript(cp.Messages))
	if err != nil {
		// Pre-call state stays on disk untouched.
		return nil, fmt.Errorf("elicitation model call: %w", err)
	}

	cp.Messages = append(cp.Messages, Message{Role: RoleAI, Content: response})
	cp.State = StateSuspendedForAnswer
	if err := e.store.Save(cp); err != nil {
		return nil, err
	}
	e.log.Info("Thread suspended for answer", "thread_id", cp.ThreadID, "topic", cp.Topic)
	return cp, nil
}

func (e *Engine) generate(ctx context.Context, cp *Checkpoint) (*Checkpoint, error) {
	response, err := e.invokeModel(ctx, generationSystemPrompt(cp.Topic), renderTranscript(cp.Messages))
	if err != nil {
		return nil, fmt.Errorf("generation model call: %w", err)
	}

	cp.Messages = append(cp.Messages, Message{Role: RoleAI, Content: response})
	cp.State = StateCompleted
	if err := e.store.Save(cp); err != nil {
		return nil, err
	}
	e.log.Info("Thread completed", "thread_id", cp.ThreadID, "topic", cp.Topic)
	return cp, nil
}

func (e *Engine) invokeModel(ctx context.Context, system, user string) (string, error) {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer e.sem.Release(1)

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	return e.model.GenerateText(ctx, system, user)
}
