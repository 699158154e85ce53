package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vitaburn/vitaburn-engine/internal/adapters/handler/http/middleware"
	"github.com/vitaburn/vitaburn-engine/internal/core/services"
)

type PredictionHandler struct {
	svc *services.PredictionService
}

func NewPredictionHandler(svc *services.PredictionService) *PredictionHandler {
	return &PredictionHandler{svc: svc}
}

type createPredictionRequest struct {
	WorkoutType     string  `json:"workout_type" binding:"required"`
	WeightKg        float64 `json:"weight_kg" binding:"required,gt=0"`
	HeightCm        float64 `json:"height_cm" binding:"required,gt=0"`
	DurationMinutes float64 `json:"duration_minutes" binding:"required,gt=0"`
	HeartRate       float64 `json:"heart_rate" binding:"required,gt=0"`
	BodyTempC       float64 `json:"body_temp_c" binding:"required,gt=0"`
	Age             float64 `json:"age" binding:"required,gt=0"`
	IsMale          bool    `json:"is_male"`
}

func (h *PredictionHandler) RegisterRoutes(router *gin.RouterGroup) {
	predictions := router.Group("/predictions")
	{
		predictions.POST("", h.Create)
		predictions.GET("", h.List)
	}
}

func (h *PredictionHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req createPredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.CreatePredictionInput{
		UserID:          userID,
		WorkoutType:     req.WorkoutType,
		WeightKg:        req.WeightKg,
		HeightCm:        req.HeightCm,
		DurationMinutes: req.DurationMinutes,
		HeartRate:       req.HeartRate,
		BodyTempC:       req.BodyTempC,
		Age:             req.Age,
		IsMale:          req.IsMale,
	}

	prediction, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, prediction)
}

func (h *PredictionHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	list, err := h.svc.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, list)
}
