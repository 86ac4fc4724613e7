package services

import (
	"context"
	"fmt"

	"github.com/learnpath/core-service/internal/apperr"
	"github.com/learnpath/core-service/internal/kg"
	"github.com/learnpath/core-service/internal/logger"
	"github.com/learnpath/core-service/internal/normalization"
)

// UserKnowledgeService maintains per-user knowledge graphs. Marks accumulate
// monotonically: nothing here ever removes a triple.
type UserKnowledgeService interface {
	MarkKnown(ctx context.Context, userID, conceptID string) error
	MarkLearning(ctx context.Context, userID, conceptID string) error
	AssignPath(ctx context.Context, userID, threadID string) error
	KnownConcepts(ctx context.Context, userID string) ([]string, error)
	LearningConcepts(ctx context.Context, userID string) ([]string, error)
	KnowsConcept(ctx context.Context, userID, conceptID string) (bool, error)
	GetUserSubgraph(ctx context.Context, userID string, depth int) ([]byte, error)
}

type userKnowledgeService struct {
	graphs *kg.Store
	log    *logger.Logger
}

func NewUserKnowledgeService(graphs *kg.Store, baseLog *logger.Logger) UserKnowledgeService {
	return &userKnowledgeService{
		graphs: graphs,
		log:    baseLog.With("service", "UserKnowledgeService"),
	}
}

func (s *userKnowledgeService) MarkKnown(ctx context.Context, userID, conceptID string) error {
	return s.mark(userID, conceptID, kg.AddKnows, "known")
}

func (s *userKnowledgeService) MarkLearning(ctx context.Context, userID, conceptID string) error {
	return s.mark(userID, conceptID, kg.AddLearning, "learning")
}

func (s *userKnowledgeService) mark(userID, conceptID string, add func(*kg.Graph, string, string), kind string) error {
	userKey := normalization.UserKey(userID)
	conceptKey := normalization.ConceptKey(conceptID)
	if conceptKey == "" {
		return fmt.Errorf("%w: concept id is required", apperr.ErrInvalidArgument)
	}

	// Unknown concepts materialize as stubs in the ontology rather than
	// failing the mark.
	concepts, err := s.graphs.Load(kg.ConceptsKey)
	if err != nil {
		return err
	}
	if kg.DeclareConcept(concepts, conceptKey, conceptID, "") {
		s.log.Warn("Mark referenced an undeclared concept, created stub",
			"user_id", userID, "concept", conceptKey)
		if err := s.graphs.Save(kg.ConceptsKey, concepts); err != nil {
			return err
		}
	}

	graphKey := kg.UserGraphKey(userKey)
	userGraph, err := s.graphs.Load(graphKey)
	if err != nil {
		return err
	}
	kg.DeclareUser(userGraph, userKey)
	add(userGraph, userKey, conceptKey)
	if err := s.graphs.Save(graphKey, userGraph); err != nil {
		return err
	}
	s.log.Info("Marked concept for user", "user_id", userID, "concept", conceptKey, "kind", kind)
	return nil
}

func (s *userKnowledgeService) AssignPath(ctx context.Context, userID, threadID string) error {
	userKey := normalization.UserKey(userID)
	pathKey := normalization.PathKey(threadID)
	if !s.graphs.Exists(kg.PathGraphKey(pathKey)) {
		return fmt.Errorf("%w: path graph %q", apperr.ErrNotFound, threadID)
	}

	graphKey := kg.UserGraphKey(userKey)
	userGraph, err := s.graphs.Load(graphKey)
	if err != nil {
		return err
	}
	kg.DeclareUser(userGraph, userKey)
	kg.AddFollowsPath(userGraph, userKey, pathKey)
	if err := s.graphs.Save(graphKey, userGraph); err != nil {
		return err
	}
	s.log.Info("Assigned learning path to user", "user_id", userID, "path", pathKey)
	return nil
}

func (s *userKnowledgeService) KnownConcepts(ctx context.Context, userID string) ([]string, error) {
	userKey := normalization.UserKey(userID)
	userGraph, err := s.graphs.Load(kg.UserGraphKey(userKey))
	if err != nil {
		return nil, err
	}
	return kg.KnownConcepts(userGraph, userKey), nil
}

func (s *userKnowledgeService) LearningConcepts(ctx context.Context, userID string) ([]string, error) {
	userKey := normalization.UserKey(userID)
	userGraph, err := s.graphs.Load(kg.UserGraphKey(userKey))
	if err != nil {
		return nil, err
	}
	return kg.LearningConcepts(userGraph, userKey), nil
}

func (s *userKnowledgeService) KnowsConcept(ctx context.Context, userID, conceptID string) (bool, error) {
	userKey := normalization.UserKey(userID)
	userGraph, err := s.graphs.Load(kg.UserGraphKey(userKey))
	if err != nil {
		return false, err
	}
	return kg.Knows(userGraph, userKey, normalization.ConceptKey(conceptID)), nil
}

// GetUserSubgraph exports the user's bounded neighborhood. Concept labels
// live in the shared ontology, so the two graphs are merged before
// traversal.
func (s *userKnowledgeService) GetUserSubgraph(ctx context.Context, userID string, depth int) ([]byte, error) {
	userKey := normalization.UserKey(userID)
	graphKey := kg.UserGraphKey(userKey)
	if !s.graphs.Exists(graphKey) {
		return nil, fmt.Errorf("%w: user graph %q", apperr.ErrNotFound, userID)
	}
	userGraph, err := s.graphs.Load(graphKey)
	if err != nil {
		return nil, err
	}
	concepts, err := s.graphs.Load(kg.ConceptsKey)
	if err != nil {
		return nil, err
	}
	merged := kg.NewGraph()
	merged.Merge(userGraph)
	merged.Merge(concepts)

	if depth < 0 {
		depth = 2
	}
	sub := kg.ExtractSubgraph(merged, userKey, depth)
	return kg.Marshal(sub)
}
