package onboard

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	v1 "github.com/neutree-ai/obsprobe/api/v1"
	"github.com/neutree-ai/obsprobe/internal/activator"
	"github.com/neutree-ai/obsprobe/internal/resolver"
	"github.com/neutree-ai/obsprobe/pkg/storage"
)

type Dependencies struct {
	Resolver  resolver.Resolver
	Activator activator.Activator
	Storage   storage.Storage
}

// OnboardResponse is the decision returned to the caller together with what activating it did.
type OnboardResponse struct {
	Key string `json:"key"`
	v1.MonitoringDecision
	Activation *activator.ActivationResult `json:"activation"`
}

// StrategyResponse is a stored decision. Target and UpdatedAt are empty when nothing is stored.
type StrategyResponse struct {
	Key string `json:"key"`
	v1.MonitoringDecision
	Target    *v1.Target `json:"target,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func RegisterOnboardRoutes(group *gin.RouterGroup, middlewares []gin.HandlerFunc, deps *Dependencies) {
	onboardGroup := group.Group("")
	onboardGroup.Use(middlewares...)

	onboardGroup.POST("/onboard", onboardService(deps))
	onboardGroup.POST("/resolve", resolveTarget(deps))
	onboardGroup.GET("/strategy", getStrategy(deps))
	onboardGroup.GET("/strategies", listStrategies(deps))
	onboardGroup.DELETE("/strategy", deleteStrategy(deps))
}

func bindTarget(c *gin.Context) (*v1.OnboardRequest, bool) {
	var req v1.OnboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": fmt.Sprintf("invalid request body: %v", err),
		})

		return nil, false
	}

	return &req, true
}

// resolve writes the error response itself when resolution fails.
func resolve(c *gin.Context, deps *Dependencies, target v1.Target) (*v1.MonitoringDecision, bool) {
	decision, err := deps.Resolver.Resolve(c.Request.Context(), target)
	if err == nil {
		return decision, true
	}

	if errors.Is(err, resolver.ErrInvalidTarget) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": err.Error(),
		})

		return nil, false
	}

	errS := fmt.Sprintf("Failed to resolve %s: %v", target.URL, err)
	klog.Error(errS)

	c.JSON(http.StatusInternalServerError, gin.H{
		"message": errS,
	})

	return nil, false
}

func onboardService(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := bindTarget(c)
		if !ok {
			return
		}

		target := req.Target()

		decision, ok := resolve(c, deps, target)
		if !ok {
			return
		}

		activation := deps.Activator.Activate(c.Request.Context(), target, decision, req.Logs)

		now := time.Now().UTC()
		record := &v1.DecisionRecord{
			Key:       target.Key(),
			Target:    target,
			Decision:  *decision,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := deps.Storage.SaveDecision(record); err != nil {
			klog.Errorf("Failed to persist decision for %s: %v", record.Key, err)

			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "failed to persist decision",
			})

			return
		}

		klog.Infof("Onboarded %s: monitorable=%t strategy=%q confidence=%s",
			record.Key, decision.Monitorable, decision.StrategyName(), decision.Confidence)

		c.JSON(http.StatusOK, &OnboardResponse{
			Key:                record.Key,
			MonitoringDecision: *decision,
			Activation:         activation,
		})
	}
}

func resolveTarget(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := bindTarget(c)
		if !ok {
			return
		}

		decision, ok := resolve(c, deps, req.Target())
		if !ok {
			return
		}

		c.JSON(http.StatusOK, decision)
	}
}

func getStrategy(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Query("key")
		if key == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "key is required",
			})

			return
		}

		record, err := deps.Storage.GetDecision(key)
		if errors.Is(err, storage.ErrResourceNotFound) {
			c.JSON(http.StatusOK, &StrategyResponse{
				Key:                key,
				MonitoringDecision: *v1.NotFoundDecision(),
			})

			return
		}

		if err != nil {
			errS := fmt.Sprintf("Failed to get strategy %s: %v", key, err)
			klog.Error(errS)

			c.JSON(http.StatusInternalServerError, gin.H{
				"message": errS,
			})

			return
		}

		c.JSON(http.StatusOK, &StrategyResponse{
			Key:                record.Key,
			MonitoringDecision: record.Decision,
			Target:             &record.Target,
			UpdatedAt:          &record.UpdatedAt,
		})
	}
}

func listStrategies(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		option := storage.ListOption{}

		if env := c.Query("env"); env != "" {
			option.Filters = append(option.Filters, storage.Filter{
				Column:   storage.ColumnEnvironment,
				Operator: "eq",
				Value:    env,
			})
		}

		if strategy := c.Query("strategy"); strategy != "" {
			option.Filters = append(option.Filters, storage.Filter{
				Column:   storage.ColumnStrategy,
				Operator: "eq",
				Value:    strategy,
			})
		}

		records, err := deps.Storage.ListDecisions(option)
		if err != nil {
			errS := fmt.Sprintf("Failed to list strategies: %v", err)
			klog.Error(errS)

			c.JSON(http.StatusInternalServerError, gin.H{
				"message": errS,
			})

			return
		}

		c.JSON(http.StatusOK, records)
	}
}

func deleteStrategy(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Query("key")
		if key == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "key is required",
			})

			return
		}

		record, err := deps.Storage.GetDecision(key)
		if err == nil {
			err = deps.Storage.DeleteDecision(key)
		}

		if errors.Is(err, storage.ErrResourceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"message": fmt.Sprintf("strategy %s not found", key),
			})

			return
		}

		if err != nil {
			errS := fmt.Sprintf("Failed to delete strategy %s: %v", key, err)
			klog.Error(errS)

			c.JSON(http.StatusInternalServerError, gin.H{
				"message": errS,
			})

			return
		}

		if err = deps.Activator.Deactivate(c.Request.Context(), record.Target, &record.Decision); err != nil {
			klog.Warningf("Strategy %s deleted but its integration was not removed: %v", key, err)
		}

		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("strategy %s deleted", key),
		})
	}
}
