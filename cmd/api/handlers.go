package main

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/ops-simulator/internal/application"
	"github.com/wms-platform/ops-simulator/pkg/logging"
	"github.com/wms-platform/ops-simulator/pkg/middleware"
)

// triggerIncidentRequest is the body of POST /incidents
type triggerIncidentRequest struct {
	Type string `json:"type" binding:"required,incident_type"`
}

func getStateHandler(simulation *application.SimulationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, simulation.GetState(c.Request.Context()))
	}
}

func getKPIsHandler(simulation *application.SimulationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, simulation.Snapshot().KPIs)
	}
}

func getDeliveryMetricsHandler(simulation *application.SimulationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, simulation.GetDeliveryMetrics(c.Request.Context()))
	}
}

func getLinkedCostsHandler(simulation *application.SimulationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger)

		metricID := c.Param("metricId")
		middleware.AddSpanAttributes(c, map[string]interface{}{
			"metric.id": metricID,
		})

		linked, err := simulation.GetLinkedCosts(c.Request.Context(), application.GetLinkedCostsQuery{MetricID: metricID})
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, linked)
	}
}

func getCostTreeHandler(simulation *application.SimulationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, simulation.Snapshot().CostTree)
	}
}

func getWorkforceHandler(simulation *application.SimulationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, simulation.GetWorkforce(c.Request.Context()))
	}
}

func getStagesHandler(simulation *application.SimulationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, simulation.GetStages(c.Request.Context()))
	}
}

func getBottlenecksHandler(simulation *application.SimulationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, simulation.Snapshot().Bottlenecks)
	}
}

func getRecommendationsHandler(simulation *application.SimulationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, simulation.Snapshot().Recommendations)
	}
}

func getIncidentsHandler(simulation *application.SimulationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, simulation.GetIncidents(c.Request.Context()))
	}
}

func triggerIncidentHandler(simulation *application.SimulationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger)

		var req triggerIncidentRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		middleware.AddSpanAttributes(c, map[string]interface{}{
			"incident.type": req.Type,
		})

		status, err := simulation.TriggerIncident(c.Request.Context(), application.TriggerIncidentCommand{Type: req.Type})
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, status)
	}
}

func getSimulationHandler(simulation *application.SimulationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, simulation.Status())
	}
}

func setPausedHandler(simulation *application.SimulationService, logger *logging.Logger, paused bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger)

		status, err := simulation.SetPaused(c.Request.Context(), application.SetPausedCommand{Paused: paused})
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, status)
	}
}

// streamHandler pushes a "snapshot" server-sent event for the current state
// and for every later transition until the client disconnects.
func streamHandler(simulation *application.SimulationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		updates, cancel := simulation.Subscribe()
		defer cancel()

		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")

		ctx := c.Request.Context()
		logger.WithContext(ctx).Debug("Snapshot stream opened", "clientIP", c.ClientIP())

		c.Stream(func(w io.Writer) bool {
			select {
			case <-ctx.Done():
				return false
			case state, ok := <-updates:
				if !ok {
					return false
				}
				c.SSEvent("snapshot", state)
				return true
			}
		})

		logger.WithContext(ctx).Debug("Snapshot stream closed")
	}
}
