package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/learnpath/core-service/internal/apperr"
	"github.com/learnpath/core-service/internal/domain"
	"github.com/learnpath/core-service/internal/extract"
	"github.com/learnpath/core-service/internal/kg"
	"github.com/learnpath/core-service/internal/logger"
	"github.com/learnpath/core-service/internal/normalization"
	"github.com/learnpath/core-service/internal/repos"
	"github.com/learnpath/core-service/internal/workflow"
)

// StartResult is what a new thread hands back: the id to resume with and the
// elicited clarifying questions.
type StartResult struct {
	ThreadID  string             `json:"thread_id"`
	Status    string             `json:"status"`
	Questions []workflow.Message `json:"questions"`
}

type PathConcept struct {
	ID            string   `json:"id"`
	Label         string   `json:"label"`
	Prerequisites []string `json:"prerequisites"`
}

type PathResult struct {
	ThreadID string        `json:"thread_id"`
	Status   string        `json:"status"`
	Topic    string        `json:"topic"`
	Concepts []PathConcept `json:"concepts"`
}

type Conversation struct {
	ThreadID string             `json:"thread_id"`
	Status   string             `json:"status"`
	Topic    string             `json:"topic,omitempty"`
	Messages []workflow.Message `json:"messages"`
}

// PlannerService drives the workflow engine, feeds its output through the
// extractor, and commits the result to the graph store.
type PlannerService interface {
	StartPath(ctx context.Context, ownerUserID, topic string) (*StartResult, error)
	ResumePath(ctx context.Context, threadID, answer string) (*PathResult, error)
	GetConversation(ctx context.Context, threadID string) (*Conversation, error)
	GetPathSubgraph(ctx context.Context, threadID string, depth int) ([]byte, error)
	GetPathRecord(ctx context.Context, threadID string) (*domain.LearningPathRecord, error)
	ListPathRecords(ctx context.Context, ownerUserID string, limit, offset int) ([]*domain.LearningPathRecord, error)
}

type plannerService struct {
	engine *workflow.Engine
	graphs *kg.Store
	paths  repos.LearningPathRepo
	log    *logger.Logger
	locks  *threadLocks
}

func NewPlannerService(
	engine *workflow.Engine,
	graphs *kg.Store,
	paths repos.LearningPathRepo,
	baseLog *logger.Logger,
) PlannerService {
	return &plannerService{
		engine: engine,
		graphs: graphs,
		paths:  paths,
		log:    baseLog.With("service", "PlannerService"),
		locks:  newThreadLocks(),
	}
}

func (s *plannerService) StartPath(ctx context.Context, ownerUserID, topic string) (*StartResult, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("%w: topic is required", apperr.ErrMissingTopic)
	}
	ownerUserKey := normalization.UserKey(ownerUserID)
	if strings.TrimSpace(ownerUserID) == "" {
		return nil, fmt.Errorf("%w: user is required", apperr.ErrInvalidArgument)
	}

	threadID := uuid.New().String()
	unlock := s.locks.lock(threadID)
	defer unlock()

	if _, err := s.paths.Create(ctx, &domain.LearningPathRecord{
		ThreadID:     threadID,
		OwnerUserKey: ownerUserKey,
		Topic:        topic,
		Status:       domain.PathStatusAwaitingAnswer,
	}); err != nil {
		return nil, fmt.Errorf("create path record: %w", err)
	}

	cp, err := s.engine.Start(ctx, threadID, topic)
	if err != nil {
		if stErr := s.paths.UpdateStatus(ctx, threadID, domain.PathStatusFailed); stErr != nil {
			s.log.Warn("Failed to mark path record failed", "thread_id", threadID, "error", stErr)
		}
		return nil, err
	}

	s.log.Info("Started learning path", "thread_id", threadID, "topic", topic)
	return &StartResult{
		ThreadID:  threadID,
		Status:    domain.PathStatusAwaitingAnswer,
		Questions: aiMessages(cp.Messages),
	}, nil
}

func (s *plannerService) ResumePath(ctx context.Context, threadID, answer string) (*PathResult, error) {
	unlock := s.locks.lock(threadID)
	defer unlock()

	record, err := s.paths.GetByThreadID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if record.Status == domain.PathStatusCompleted {
		return nil, fmt.Errorf("%w: thread %q already completed", apperr.ErrInvalidArgument, threadID)
	}

	cp, err := s.engine.Resume(ctx, threadID, answer)
	if err != nil {
		return nil, err
	}

	records, err := extract.LearningPath(cp.LastAIMessage())
	if err != nil {
		// The thread completed but yielded nothing usable; no graph state is
		// committed for it.
		if stErr := s.paths.UpdateStatus(ctx, threadID, domain.PathStatusFailed); stErr != nil {
			s.log.Warn("Failed to mark path record failed", "thread_id", threadID, "error", stErr)
		}
		return nil, err
	}

	result, export, err := s.commitPath(ctx, record, cp.Topic, records)
	if err != nil {
		return nil, err
	}
	if err := s.paths.SetCompleted(ctx, threadID, datatypes.JSON(export)); err != nil {
		return nil, fmt.Errorf("update path record: %w", err)
	}

	s.log.Info("Resumed learning path to completion",
		"thread_id", threadID, "topic", cp.Topic, "concepts", len(result.Concepts))
	return result, nil
}

// commitPath builds the path, ontology, and user graph updates in memory and
// only then persists; an extraction that already failed never reaches here,
// so a failed resume leaves no partial graph state behind.
func (s *plannerService) commitPath(
	ctx context.Context,
	record *domain.LearningPathRecord,
	topic string,
	records []extract.ConceptRecord,
) (*PathResult, []byte, error) {
	pathKey := normalization.PathKey(record.ThreadID)

	pathGraph := kg.NewGraph()
	kg.DeclarePath(pathGraph, pathKey, topic, record.Goal)

	concepts, err := s.graphs.Load(kg.ConceptsKey)
	if err != nil {
		return nil, nil, err
	}

	result := &PathResult{
		ThreadID: record.ThreadID,
		Status:   domain.PathStatusCompleted,
		Topic:    topic,
	}

	for _, r := range records {
		key := normalization.ConceptKey(r.Name)
		if key == "" {
			key = normalization.ConceptKey(kg.CompactID(r.ID))
		}
		kg.DeclareConcept(pathGraph, key, r.Name, "")
		kg.DeclareConcept(concepts, key, r.Name, "")
		kg.AddPathConcept(pathGraph, pathKey, key)

		pc := PathConcept{ID: key, Label: r.Name, Prerequisites: []string{}}
		for _, ref := range r.Requires {
			reqKey := normalization.ConceptKey(kg.CompactID(ref))
			if reqKey == "" {
				continue
			}
			if stub := kg.AddRequires(pathGraph, key, reqKey); stub {
				s.log.Warn("Prerequisite reference materialized a stub concept",
					"thread_id", record.ThreadID, "concept", key, "prerequisite", reqKey)
			}
			kg.AddRequires(concepts, key, reqKey)
			pc.Prerequisites = append(pc.Prerequisites, reqKey)
		}
		result.Concepts = append(result.Concepts, pc)
	}

	userGraphKey := kg.UserGraphKey(record.OwnerUserKey)
	userGraph, err := s.graphs.Load(userGraphKey)
	if err != nil {
		return nil, nil, err
	}
	kg.DeclareUser(userGraph, record.OwnerUserKey)
	kg.AddFollowsPath(userGraph, record.OwnerUserKey, pathKey)
	for _, pc := range result.Concepts {
		kg.AddLearning(userGraph, record.OwnerUserKey, pc.ID)
	}

	export, err := kg.Marshal(pathGraph)
	if err != nil {
		return nil, nil, fmt.Errorf("serialize path graph: %w", err)
	}

	if err := s.graphs.Save(kg.PathGraphKey(pathKey), pathGraph); err != nil {
		return nil, nil, err
	}
	if err := s.graphs.Save(kg.ConceptsKey, concepts); err != nil {
		return nil, nil, err
	}
	if err := s.graphs.Save(userGraphKey, userGraph); err != nil {
		return nil, nil, err
	}
	return result, export, nil
}

func (s *plannerService) GetConversation(ctx context.Context, threadID string) (*Conversation, error) {
	record, err := s.paths.GetByThreadID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	cp, err := s.engine.Get(threadID)
	if err != nil {
		return nil, err
	}
	return &Conversation{
		ThreadID: threadID,
		Status:   record.Status,
		Topic:    cp.Topic,
		Messages: cp.Messages,
	}, nil
}

func (s *plannerService) GetPathSubgraph(ctx context.Context, threadID string, depth int) ([]byte, error) {
	pathKey := normalization.PathKey(threadID)
	storageKey := kg.PathGraphKey(pathKey)
	if !s.graphs.Exists(storageKey) {
		return nil, fmt.Errorf("%w: path graph %q", apperr.ErrNotFound, threadID)
	}
	g, err := s.graphs.Load(storageKey)
	if err != nil {
		return nil, err
	}
	if depth < 0 {
		depth = 2
	}
	sub := kg.ExtractSubgraph(g, pathKey, depth)
	return kg.Marshal(sub)
}

func (s *plannerService) GetPathRecord(ctx context.Context, threadID string) (*domain.LearningPathRecord, error) {
	return s.paths.GetByThreadID(ctx, threadID)
}

func (s *plannerService) ListPathRecords(ctx context.Context, ownerUserID string, limit, offset int) ([]*domain.LearningPathRecord, error) {
	ownerUserKey := ""
	if strings.TrimSpace(ownerUserID) != "" {
		ownerUserKey = normalization.UserKey(ownerUserID)
	}
	return s.paths.List(ctx, ownerUserKey, limit, offset)
}

func aiMessages(messages []workflow.Message) []workflow.Message {
	var out []workflow.Message
	for _, m := range messages {
		if m.Role == workflow.RoleAI {
			out = append(out, m)
		}
	}
	return out
}

// IsNotFound reports whether err is the missing-resource sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, apperr.ErrNotFound)
}
