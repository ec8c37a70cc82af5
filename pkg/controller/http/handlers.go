package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gyges/pkg/domain/model"
	"github.com/secmon-lab/gyges/pkg/domain/types"
	"github.com/secmon-lab/gyges/pkg/usecase"
	"github.com/secmon-lab/gyges/pkg/utils/errutil"
)

// validateHandler validates one milestone and returns the scored result.
func validateHandler(uc *usecase.ValidationUseCase) http.HandlerFunc {
	type request struct {
		MilestoneID string `json:"milestone_id"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
			return
		}

		id := types.MilestoneID(req.MilestoneID)
		if err := id.Validate(); err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		result, err := uc.ValidateMilestone(r.Context(), id)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, validationStatusCode(err))
			return
		}

		respondJSON(w, r, toValidationResultResponse(result))
	}
}

// validateBatchHandler validates a set of milestones through the bounded
// worker pool. Per-item failures are reported alongside the successful
// results.
func validateBatchHandler(uc *usecase.ValidationUseCase) http.HandlerFunc {
	type request struct {
		MilestoneIDs []string `json:"milestone_ids"`
		Concurrency  int      `json:"concurrency"`
	}
	type response struct {
		Results []*validationResultResponse `json:"results"`
		Errors  []string                    `json:"errors,omitempty"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
			return
		}
		if len(req.MilestoneIDs) == 0 {
			errutil.HandleHTTP(r.Context(), w, goerr.New("milestone_ids is required"), http.StatusBadRequest)
			return
		}

		ids := make([]types.MilestoneID, len(req.MilestoneIDs))
		for i, raw := range req.MilestoneIDs {
			id := types.MilestoneID(raw)
			if err := id.Validate(); err != nil {
				errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
				return
			}
			ids[i] = id
		}

		results, err := uc.ValidateMilestones(r.Context(), ids, req.Concurrency)

		resp := response{
			Results: make([]*validationResultResponse, len(results)),
		}
		for i, result := range results {
			resp.Results[i] = toValidationResultResponse(result)
		}
		if err != nil {
			for _, itemErr := range flattenErrors(err) {
				resp.Errors = append(resp.Errors, itemErr.Error())
			}
		}

		respondJSON(w, r, resp)
	}
}

// riskAssessHandler runs a portfolio risk assessment over the requested
// scope.
func riskAssessHandler(uc *usecase.RiskUseCase) http.HandlerFunc {
	type scopeRequest struct {
		StreamTypes []string `json:"stream_types"`
		Statuses    []string `json:"statuses"`
	}
	type request struct {
		Scope scopeRequest `json:"scope"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
			return
		}

		var scope model.AssessmentScope
		for _, raw := range req.Scope.StreamTypes {
			st, err := types.ParseStreamType(raw)
			if err != nil {
				errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
				return
			}
			scope.StreamTypes = append(scope.StreamTypes, st)
		}
		for _, raw := range req.Scope.Statuses {
			status, err := types.ParseMilestoneStatus(raw)
			if err != nil {
				errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
				return
			}
			scope.Statuses = append(scope.Statuses, status)
		}

		portfolio, err := uc.ConductRiskAssessment(r.Context(), scope)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		respondJSON(w, r, toPortfolioResponse(portfolio))
	}
}

// validationStatusCode maps use case errors onto HTTP status codes.
func validationStatusCode(err error) int {
	switch {
	case errors.Is(err, usecase.ErrMilestoneNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrNoRuleSet):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// flattenErrors unwraps an errors.Join result into its parts.
func flattenErrors(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

func respondJSON(w http.ResponseWriter, r *http.Request, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data) //nolint:errcheck // header already committed
}
