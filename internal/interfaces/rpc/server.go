package rpc

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rentwise/backend/internal/infrastructure/logger"
	"github.com/rentwise/backend/internal/interfaces/http/dto"
	"github.com/rentwise/backend/internal/interfaces/http/handler"
	"github.com/rentwise/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Server serves a Registry over HTTP
type Server struct {
	registry      *Registry
	authenticator middleware.Authenticator
	log           *zap.Logger
}

// NewServer creates a server for registry. Methods that are not public are
// rejected unless authenticator accepts the caller's bearer token.
func NewServer(registry *Registry, authenticator middleware.Authenticator, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{registry: registry, authenticator: authenticator, log: log}
}

// RegisterRoutes implements router.RouteRegistrar
func (s *Server) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/rpc", s.ListMethods)
	rg.POST("/rpc/:method", s.Call)
}

// ListMethods godoc
// @ID           listRPCMethods
// @Summary      List the remote method names
// @Tags         rpc
// @Produce      json
// @Success      200 {object} handler.APIResponse[[]string]
// @Router       /rpc [get]
func (s *Server) ListMethods(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(s.registry.Methods()))
}

// Call godoc
// @ID           callRPCMethod
// @Summary      Invoke a remote method
// @Tags         rpc
// @Accept       json
// @Produce      json
// @Param        method path string true "Method name, e.g. listings.publish"
// @Param        params body object false "Method params"
// @Success      200 {object} handler.APIResponse[any]
// @Failure      400 {object} handler.ErrorResponse
// @Failure      401 {object} handler.ErrorResponse
// @Failure      404 {object} handler.ErrorResponse
// @Security     BearerAuth
// @Router       /rpc/{method} [post]
func (s *Server) Call(c *gin.Context) {
	method := Method(c.Param("method"))
	e, ok := s.registry.lookup(method)
	if !ok {
		s.fail(c, http.StatusNotFound, dto.ErrCodeMethodNotFound, "Unknown method "+string(method))
		return
	}

	caller := Caller{IP: c.ClientIP(), UserAgent: c.Request.UserAgent()}
	if !e.public {
		if !s.authenticate(c, &caller) {
			return
		}
	}

	raw, err := c.GetRawData()
	if err != nil {
		s.fail(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Could not read request body")
		return
	}

	result, err := e.handler(c.Request.Context(), caller, raw)
	if err != nil {
		s.handleError(c, method, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

func (s *Server) authenticate(c *gin.Context, caller *Caller) bool {
	token, ok := middleware.BearerToken(c.GetHeader("Authorization"))
	if !ok {
		s.fail(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
		return false
	}
	claims, err := s.authenticator.Authenticate(c.Request.Context(), token)
	if err != nil {
		code, message := middleware.AuthFailure(err)
		s.fail(c, http.StatusUnauthorized, code, message)
		return false
	}
	actor, err := middleware.ActorFromClaims(claims)
	if err != nil {
		s.fail(c, http.StatusUnauthorized, dto.ErrCodeInvalidToken, "Invalid token claims")
		return false
	}
	caller.Claims = claims
	caller.Actor = actor

	ctx := logger.WithAgencyID(c.Request.Context(), claims.AgencyID)
	c.Request = c.Request.WithContext(logger.WithUserID(ctx, claims.UserID))
	return true
}

func (s *Server) handleError(c *gin.Context, method Method, err error) {
	var pe *ParamsError
	if errors.As(err, &pe) {
		c.JSON(http.StatusBadRequest, middleware.FormatValidationErrors(pe.Err, middleware.GetRequestID(c)))
		return
	}
	code, message, status := handler.ErrorStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("RPC method failed",
			zap.String("method", string(method)),
			zap.String("code", code),
			zap.Error(err),
		)
	}
	s.fail(c, status, code, message)
}

func (s *Server) fail(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}
