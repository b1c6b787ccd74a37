package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Abhijitam01/drawr/internal/service"
)

type RoomHandler struct {
	roomService *service.RoomService
}

func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	if roomService == nil {
		panic("RoomService cannot be nil for RoomHandler")
	}
	return &RoomHandler{roomService: roomService}
}

// Room ids are returned as strings: they are the keys used on the socket.
type CreateRoomResponse struct {
	Message    string `json:"message"`
	RoomID     string `json:"room_id"`
	InviteCode string `json:"invite_code"`
}

func (h *RoomHandler) CreateRoom(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	logCtx := logrus.WithField("user_id", userID)

	newRoom, err := h.roomService.CreateRoom(c.Request.Context(), userID)
	if err != nil {
		logCtx.WithError(err).Error("Handler.CreateRoom: Failed to create room via service")
		HandleServiceError(c, err)
		return
	}

	logCtx.WithFields(logrus.Fields{"room_id": newRoom.ID, "invite_code": newRoom.InviteCode}).Info("Handler.CreateRoom: Room created successfully")
	SuccessResponse(c, http.StatusOK, CreateRoomResponse{
		Message:    "Room created successfully",
		RoomID:     newRoom.Key(),
		InviteCode: newRoom.InviteCode,
	})
}

type JoinRoomRequest struct {
	InviteCode string `json:"invite_code" binding:"required,len=6"`
}

type JoinRoomResponse struct {
	Message string `json:"message"`
	RoomID  string `json:"room_id"`
}

func (h *RoomHandler) JoinRoom(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	logCtx := logrus.WithField("user_id", userID)

	var req JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logCtx.WithError(err).Warn("Handler.JoinRoom: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: invite_code is required")
		return
	}
	logCtx = logCtx.WithField("invite_code", req.InviteCode)

	joinedRoom, err := h.roomService.JoinRoom(c.Request.Context(), userID, req.InviteCode)
	if err != nil {
		logCtx.WithError(err).Warn("Handler.JoinRoom: Failed to join room via service")
		HandleServiceError(c, err)
		return
	}

	logCtx.WithField("room_id", joinedRoom.ID).Info("Handler.JoinRoom: User joined room successfully")
	SuccessResponse(c, http.StatusOK, JoinRoomResponse{
		Message: "Joined room successfully",
		RoomID:  joinedRoom.Key(),
	})
}

type RoomResponse struct {
	RoomID     string `json:"room_id"`
	CreatorID  uint   `json:"creator_id"`
	InviteCode string `json:"invite_code"`
}

func (h *RoomHandler) GetRoom(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("roomId"), 10, 32)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid room ID format")
		return
	}
	room, err := h.roomService.FindRoomByID(c.Request.Context(), uint(id))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, RoomResponse{
		RoomID:     room.Key(),
		CreatorID:  room.CreatorID,
		InviteCode: room.InviteCode,
	})
}
