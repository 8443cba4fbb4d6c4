package graph

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
	"go.uber.org/zap"
)

type Handler struct {
	schema graphql.Schema
	logr   *zap.Logger
}

func NewHandler(r *Resolver, logr *zap.Logger) (*Handler, error) {
	schema, err := r.Schema()
	if err != nil {
		return nil, err
	}
	return &Handler{schema: schema, logr: logr}, nil
}

type graphqlRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

// ServeHTTP executes a GraphQL request against the schema. The request
// context already carries the authenticated principal.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req graphqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        r.Context(),
	})

	if len(result.Errors) > 0 {
		h.logr.Debug("graphql request had errors", zap.Any("errors", result.Errors))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}
