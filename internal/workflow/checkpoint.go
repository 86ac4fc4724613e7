package workflow

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/learnpath/core-service/internal/apperr"
	"github.com/learnpath/core-service/internal/logger"
)

// State is the workflow node a thread is parked at. Only durable points are
// ever persisted; the engine never holds workflow state in memory between
// calls.
type State string

const (
	StateAwaitingTopic      State = "awaiting_topic"
	StateSuspendedForAnswer State = "suspended_for_answer"
	StateCompleted          State = "completed"
)

// Message roles mirror the conversation transcript.
const (
	RoleHuman  = "human"
	RoleAI     = "ai"
	RoleSystem = "system"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Checkpoint is the durable snapshot of one conversation thread: full
// transcript, topic, and current node, keyed by thread id.
type Checkpoint struct {
	ThreadID  string    `json:"thread_id"`
	Topic     string    `json:"topic,omitempty"`
	State     State     `json:"state"`
	Messages  []Message `json:"messages"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LastAIMessage returns the content of the most recent AI turn.
func (c *Checkpoint) LastAIMessage() string {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleAI {
			return c.Messages[i].Content
		}
	}
	return ""
}

// CheckpointStore persists one checkpoint file per thread id with the same
// write-to-temp-then-rename discipline as the graph store.
type CheckpointStore struct {
	dir string
	log *logger.Logger
}

func NewCheckpointStore(dir string, baseLog *logger.Logger) (*CheckpointStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("checkpoint store: data directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create checkpoint directory: %v", apperr.ErrStorage, err)
	}
	return &CheckpointStore{dir: dir, log: baseLog.With("service", "CheckpointStore")}, nil
}

// Load returns the checkpoint for threadID. A never-checkpointed thread is
// ErrNotFound; a file that exists but cannot be parsed is ErrCorruptGraph.
func (s *CheckpointStore) Load(threadID string) (*Checkpoint, error) {
	data, err := os.ReadFile(s.filePath(threadID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: thread %q", apperr.ErrNotFound, threadID)
		}
		return nil, fmt.Errorf("%w: read checkpoint %q: %v", apperr.ErrStorage, threadID, err)
	}
	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("%w: checkpoint %q: %v", apperr.ErrCorruptGraph, threadID, err)
	}
	if cp.ThreadID == "" {
		cp.ThreadID = threadID
	}
	return &cp, nil
}

func (s *CheckpointStore) Save(cp *Checkpoint) error {
	cp.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize checkpoint %q: %w", cp.ThreadID, err)
	}
	path := s.filePath(cp.ThreadID)

	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp for checkpoint %q: %v", apperr.ErrStorage, cp.ThreadID, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write checkpoint %q: %v", apperr.ErrStorage, cp.ThreadID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close checkpoint %q: %v", apperr.ErrStorage, cp.ThreadID, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: rename checkpoint %q: %v", apperr.ErrStorage, cp.ThreadID, err)
	}
	s.log.Debug("Saved checkpoint", "thread_id", cp.ThreadID, "state", cp.State, "messages", len(cp.Messages))
	return nil
}

func (s *CheckpointStore) Exists(threadID string) bool {
	_, err := os.Stat(s.filePath(threadID))
	return err == nil
}

func (s *CheckpointStore) filePath(threadID string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(threadID) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return filepath.Join(s.dir, b.String()+".json")
}
