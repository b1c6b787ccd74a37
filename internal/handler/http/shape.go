package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Abhijitam01/drawr/internal/domain"
	"github.com/Abhijitam01/drawr/internal/service"
)

type ShapeHandler struct {
	sceneService *service.SceneService
}

func NewShapeHandler(sceneService *service.SceneService) *ShapeHandler {
	if sceneService == nil {
		panic("SceneService cannot be nil for ShapeHandler")
	}
	return &ShapeHandler{sceneService: sceneService}
}

type ShapeItem struct {
	Data domain.Shape `json:"data"`
}

type ShapesResponse struct {
	Shapes []ShapeItem `json:"shapes"`
}

// ListShapes returns the room's persisted shapes in creation order. Unknown
// rooms yield an empty list.
func (h *ShapeHandler) ListShapes(c *gin.Context) {
	roomID := c.Param("roomId")
	logCtx := logrus.WithField("room_id", roomID)

	shapes, err := h.sceneService.LoadRoomShapes(c.Request.Context(), roomID)
	if err != nil {
		logCtx.WithError(err).Error("Handler.ListShapes: Failed to load shapes")
		HandleServiceError(c, err)
		return
	}

	items := make([]ShapeItem, 0, len(shapes))
	for _, s := range shapes {
		items = append(items, ShapeItem{Data: s})
	}
	logCtx.WithField("count", len(items)).Debug("Handler.ListShapes: Shapes loaded")
	SuccessResponse(c, http.StatusOK, ShapesResponse{Shapes: items})
}
