package http

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// Server owns the planner's HTTP surface: the routed gin engine plus its
// listen loop.
type Server struct {
	Engine *gin.Engine
}

func NewServer(cfg RouterConfig) *Server {
	return &Server{Engine: NewRouter(cfg)}
}

func (s *Server) Run(address string) error {
	if s == nil || s.Engine == nil {
		return fmt.Errorf("server not initialized")
	}
	return s.Engine.Run(address)
}
